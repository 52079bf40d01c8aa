package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/civicpulse/civicpulse/internal/report"
)

// PredictionMonthlyComplaints is the prediction type stored with each report.
const PredictionMonthlyComplaints = "Monthly Complaint Forecast"

// SaveReport persists a report with its ranked recommendations and trend
// prediction in one transaction. Reports are never updated; a newer report
// supersedes an older one.
func (db *DB) SaveReport(r *report.Report) (int64, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return 0, fmt.Errorf("encoding report: %w", err)
	}
	trend, err := json.Marshal(r.Analysis.Trends)
	if err != nil {
		return 0, fmt.Errorf("encoding trend: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO reports (title, report_type, report_data, body_markdown, confidence, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.Title, r.Type, string(data), report.Markdown(r), r.Confidence, formatTime(r.GeneratedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting report: %w", err)
	}
	reportID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, rec := range r.Recommendations {
		items, err := json.Marshal(rec.ActionItems)
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(
			`INSERT INTO recommendations
			(report_id, position, category, priority, recommendation, rationale, action_items)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			reportID, i, rec.Category, rec.Priority, rec.Recommendation, rec.Rationale, string(items),
		); err != nil {
			return 0, fmt.Errorf("inserting recommendation %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO predictions (report_id, prediction_type, prediction_data, confidence_score, valid_until, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		reportID, PredictionMonthlyComplaints, string(trend), r.Predictions.Confidence,
		formatTime(r.Predictions.ValidUntil), formatTime(r.GeneratedAt),
	); err != nil {
		return 0, fmt.Errorf("inserting prediction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return reportID, nil
}

// GetReport returns the stored report with the given id.
func (db *DB) GetReport(id int64) (*StoredReport, error) {
	row := db.conn.QueryRow(
		`SELECT id, title, report_type, confidence, body_markdown, report_data, generated_at
		FROM reports WHERE id = ?`, id,
	)

	var s StoredReport
	var data, generated string
	if err := row.Scan(&s.ID, &s.Title, &s.Type, &s.Confidence, &s.BodyMarkdown, &data, &generated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("report %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	s.Data = []byte(data)
	t, err := parseTime(generated)
	if err != nil {
		return nil, err
	}
	s.GeneratedAt = t
	return &s, nil
}

// LoadReport decodes the stored report with the given id.
func (db *DB) LoadReport(id int64) (*report.Report, error) {
	s, err := db.GetReport(id)
	if err != nil {
		return nil, err
	}
	var r report.Report
	if err := json.Unmarshal(s.Data, &r); err != nil {
		return nil, fmt.Errorf("decoding report %d: %w", id, err)
	}
	return &r, nil
}

// ListReports returns all reports, newest first.
func (db *DB) ListReports() ([]ReportSummary, error) {
	rows, err := db.conn.Query(
		`SELECT r.id, r.title, r.report_type, r.confidence, r.generated_at,
		(SELECT COUNT(*) FROM recommendations WHERE report_id = r.id)
		FROM reports r ORDER BY r.generated_at DESC, r.id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var s ReportSummary
		var generated string
		if err := rows.Scan(&s.ID, &s.Title, &s.Type, &s.Confidence, &generated, &s.RecommendationCount); err != nil {
			return nil, err
		}
		if s.GeneratedAt, err = parseTime(generated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRecommendations returns the recommendations of a report in rank order.
func (db *DB) GetRecommendations(reportID int64) ([]StoredRecommendation, error) {
	rows, err := db.conn.Query(
		`SELECT id, report_id, position, category, priority, recommendation, rationale, action_items
		FROM recommendations WHERE report_id = ? ORDER BY position`, reportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredRecommendation
	for rows.Next() {
		var r StoredRecommendation
		var items sql.NullString
		if err := rows.Scan(&r.ID, &r.ReportID, &r.Position, &r.Category, &r.Priority,
			&r.Recommendation, &r.Rationale, &items); err != nil {
			return nil, err
		}
		if items.Valid && items.String != "" {
			if err := json.Unmarshal([]byte(items.String), &r.ActionItems); err != nil {
				return nil, fmt.Errorf("decoding action items of recommendation %d: %w", r.ID, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetPredictions returns the predictions stored with a report.
func (db *DB) GetPredictions(reportID int64) ([]Prediction, error) {
	rows, err := db.conn.Query(
		`SELECT id, report_id, prediction_type, prediction_data, confidence_score, valid_until, created_at
		FROM predictions WHERE report_id = ? ORDER BY id`, reportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var p Prediction
		var data, validUntil, created string
		if err := rows.Scan(&p.ID, &p.ReportID, &p.Type, &data, &p.Confidence, &validUntil, &created); err != nil {
			return nil, err
		}
		p.Data = []byte(data)
		if p.ValidUntil, err = parseTime(validUntil); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
