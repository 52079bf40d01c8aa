package database

import (
	"context"
	"fmt"

	"github.com/civicpulse/civicpulse/internal/records"
)

// Snapshot reads every collection the analytics need inside one
// transaction. Under WAL the first read pins the view, so every collection
// reflects the same database state.
func (db *DB) Snapshot(ctx context.Context) (*records.Snapshot, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	s := &records.Snapshot{}
	if s.Complaints, err = listComplaints(ctx, tx); err != nil {
		return nil, fmt.Errorf("loading complaints: %w", err)
	}
	if s.Feedback, err = listFeedback(ctx, tx); err != nil {
		return nil, fmt.Errorf("loading feedback: %w", err)
	}
	if s.Policies, err = listPolicies(ctx, tx, ""); err != nil {
		return nil, fmt.Errorf("loading policies: %w", err)
	}
	if s.Ratings, err = listRatings(ctx, tx); err != nil {
		return nil, fmt.Errorf("loading ratings: %w", err)
	}
	if s.Ministries, err = listMinistries(ctx, tx); err != nil {
		return nil, fmt.Errorf("loading ministries: %w", err)
	}
	if s.Districts, err = listDistricts(ctx, tx); err != nil {
		return nil, fmt.Errorf("loading districts: %w", err)
	}
	if s.Citizens, err = listCitizens(ctx, tx); err != nil {
		return nil, fmt.Errorf("loading citizens: %w", err)
	}
	return s, nil
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM citizens", &s.Citizens},
		{"SELECT COUNT(*) FROM complaints", &s.Complaints},
		{"SELECT COUNT(*) FROM complaints WHERE status = 'Pending'", &s.PendingComplaints},
		{"SELECT COUNT(*) FROM complaints WHERE status = 'In Progress'", &s.InProgressComplaints},
		{"SELECT COUNT(*) FROM complaints WHERE status = 'Resolved'", &s.ResolvedComplaints},
		{"SELECT COUNT(*) FROM complaints WHERE priority = 'Urgent'", &s.UrgentComplaints},
		{"SELECT COUNT(*) FROM complaints WHERE priority = 'High'", &s.HighComplaints},
		{"SELECT COUNT(*) FROM complaints WHERE priority = 'Normal'", &s.NormalComplaints},
		{"SELECT COUNT(*) FROM policies", &s.Policies},
		{"SELECT COUNT(*) FROM policy_feedback", &s.Feedback},
		{"SELECT COUNT(*) FROM service_ratings", &s.Ratings},
		{"SELECT COUNT(*) FROM ministries", &s.Ministries},
		{"SELECT COUNT(*) FROM districts", &s.Districts},
		{"SELECT COUNT(*) FROM reports", &s.Reports},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return s, nil
}
