package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/civicpulse/civicpulse/internal/records"
)

// InsertFeedback stores analysed policy feedback and returns its id.
func (db *DB) InsertFeedback(f records.Feedback) (int64, error) {
	var themes *string
	if f.Themes != nil {
		data, err := json.Marshal(f.Themes)
		if err != nil {
			return 0, err
		}
		s := string(data)
		themes = &s
	}
	var sentiment *string
	if f.Sentiment != "" {
		s := string(f.Sentiment)
		sentiment = &s
	}

	result, err := db.conn.Exec(
		`INSERT INTO policy_feedback (policy_id, citizen_id, feedback_text, sentiment, themes, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.PolicyID, f.CitizenID, f.Text, sentiment, themes, formatTime(f.SubmittedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting feedback: %w", err)
	}
	return result.LastInsertId()
}

func listFeedback(ctx context.Context, q querier) ([]records.Feedback, error) {
	return queryFeedback(ctx, q, "")
}

func queryFeedback(ctx context.Context, q querier, where string, args ...any) ([]records.Feedback, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, policy_id, citizen_id, feedback_text, sentiment, themes, submitted_at
		FROM policy_feedback `+where+` ORDER BY submitted_at, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Feedback
	for rows.Next() {
		var f records.Feedback
		var policyID, citizenID sql.NullInt64
		var sentiment, themes sql.NullString
		var submitted string
		if err := rows.Scan(&f.ID, &policyID, &citizenID, &f.Text, &sentiment, &themes, &submitted); err != nil {
			return nil, err
		}
		f.PolicyID = nullID(policyID)
		f.CitizenID = nullID(citizenID)
		if sentiment.Valid {
			f.Sentiment = records.Sentiment(sentiment.String)
		}
		if themes.Valid && themes.String != "" {
			if err := json.Unmarshal([]byte(themes.String), &f.Themes); err != nil {
				return nil, fmt.Errorf("decoding themes of feedback %d: %w", f.ID, err)
			}
		}
		t, err := parseTime(submitted)
		if err != nil {
			return nil, err
		}
		f.SubmittedAt = t
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertRating stores a service rating and returns its id.
func (db *DB) InsertRating(r records.Rating) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO service_ratings (citizen_id, service_type, service_location, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.CitizenID, r.ServiceType, r.ServiceLocation, r.Rating, r.Comment, formatTime(r.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting rating: %w", err)
	}
	return result.LastInsertId()
}

func listRatings(ctx context.Context, q querier) ([]records.Rating, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, citizen_id, service_type, service_location, rating, comment, created_at
		FROM service_ratings ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Rating
	for rows.Next() {
		var r records.Rating
		var citizenID sql.NullInt64
		var comment sql.NullString
		var created string
		if err := rows.Scan(&r.ID, &citizenID, &r.ServiceType, &r.ServiceLocation, &r.Rating, &comment, &created); err != nil {
			return nil, err
		}
		r.CitizenID = nullID(citizenID)
		if comment.Valid {
			r.Comment = &comment.String
		}
		t, err := parseTime(created)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = t
		out = append(out, r)
	}
	return out, rows.Err()
}
