package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/civicpulse/civicpulse/internal/records"
)

const policyColumns = "id, title, description, category, status, deadline, created_at"

// InsertPolicy stores a policy and returns its id. An empty status is stored
// as Draft.
func (db *DB) InsertPolicy(p records.Policy) (int64, error) {
	if p.Status == "" {
		p.Status = records.PolicyDraft
	}
	result, err := db.conn.Exec(
		`INSERT INTO policies (title, description, category, status, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Category, string(p.Status),
		formatNullTime(p.Deadline), formatTime(p.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting policy %q: %w", p.Title, err)
	}
	return result.LastInsertId()
}

// GetPolicy returns the policy with the given id.
func (db *DB) GetPolicy(id int64) (*records.Policy, error) {
	row := db.conn.QueryRow("SELECT "+policyColumns+" FROM policies WHERE id = ?", id)
	p, err := scanPolicy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("policy %d: %w", id, ErrNotFound)
	}
	return p, err
}

// ListPolicies returns policies newest first, optionally only those with the
// given status.
func (db *DB) ListPolicies(status records.PolicyStatus) ([]records.Policy, error) {
	return listPolicies(context.Background(), db.conn, status)
}

func listPolicies(ctx context.Context, q querier, status records.PolicyStatus) ([]records.Policy, error) {
	query := "SELECT " + policyColumns + " FROM policies"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListPolicyFeedback returns the feedback recorded against one policy, oldest
// first.
func (db *DB) ListPolicyFeedback(policyID int64) ([]records.Feedback, error) {
	return queryFeedback(context.Background(), db.conn, "WHERE policy_id = ?", policyID)
}

func scanPolicy(s scanner) (*records.Policy, error) {
	var p records.Policy
	var category, deadline sql.NullString
	var status, created string

	if err := s.Scan(&p.ID, &p.Title, &p.Description, &category, &status, &deadline, &created); err != nil {
		return nil, err
	}
	p.Status = records.PolicyStatus(status)
	if category.Valid {
		p.Category = &category.String
	}

	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.Deadline, err = parseNullTime(deadline); err != nil {
		return nil, err
	}
	return &p, nil
}
