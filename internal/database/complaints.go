package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
)

const complaintColumns = `id, tracking_number, citizen_id, description, location, category,
	priority, status, ministry_id, district_id, created_at, resolved_at`

// InsertComplaint stores a complaint and returns its id. The ID field of c is
// ignored.
func (db *DB) InsertComplaint(c records.Complaint) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO complaints
		(tracking_number, citizen_id, description, location, category,
		 priority, status, ministry_id, district_id, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.TrackingNumber, c.CitizenID, c.Description, c.Location, c.Category,
		string(c.Priority), string(c.Status), c.MinistryID, c.DistrictID,
		formatTime(c.CreatedAt), formatNullTime(c.ResolvedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting complaint %s: %w", c.TrackingNumber, err)
	}
	return result.LastInsertId()
}

// GetComplaintByTracking returns the complaint with the given tracking number.
func (db *DB) GetComplaintByTracking(trackingNumber string) (*records.Complaint, error) {
	row := db.conn.QueryRow(
		"SELECT "+complaintColumns+" FROM complaints WHERE tracking_number = ?", trackingNumber,
	)
	c, err := scanComplaint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("complaint %s: %w", trackingNumber, ErrNotFound)
	}
	return c, err
}

// UpdateComplaintStatus moves a complaint to status. Resolving stamps
// resolved_at with at; any other status clears it.
func (db *DB) UpdateComplaintStatus(trackingNumber string, status records.Status, at time.Time) error {
	var resolvedAt *string
	if status == records.StatusResolved {
		s := formatTime(at)
		resolvedAt = &s
	}
	result, err := db.conn.Exec(
		"UPDATE complaints SET status = ?, resolved_at = ? WHERE tracking_number = ?",
		string(status), resolvedAt, trackingNumber,
	)
	if err != nil {
		return fmt.Errorf("updating complaint %s: %w", trackingNumber, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("complaint %s: %w", trackingNumber, ErrNotFound)
	}
	return nil
}

// ListResolvedComplaints returns the resolved complaints of one category and
// ministry, oldest first. A nil ministryID matches unassigned complaints.
func (db *DB) ListResolvedComplaints(category string, ministryID *int64) ([]records.Complaint, error) {
	where := "WHERE resolved_at IS NOT NULL AND category = ? AND ministry_id IS NULL"
	args := []any{category}
	if ministryID != nil {
		where = "WHERE resolved_at IS NOT NULL AND category = ? AND ministry_id = ?"
		args = append(args, *ministryID)
	}
	return queryComplaints(context.Background(), db.conn, where, args...)
}

func listComplaints(ctx context.Context, q querier) ([]records.Complaint, error) {
	return queryComplaints(ctx, q, "")
}

func queryComplaints(ctx context.Context, q querier, where string, args ...any) ([]records.Complaint, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+complaintColumns+" FROM complaints "+where+" ORDER BY created_at, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanComplaint(s scanner) (*records.Complaint, error) {
	var c records.Complaint
	var citizenID, ministryID, districtID sql.NullInt64
	var location, resolved sql.NullString
	var priority, status, created string

	if err := s.Scan(&c.ID, &c.TrackingNumber, &citizenID, &c.Description, &location, &c.Category,
		&priority, &status, &ministryID, &districtID, &created, &resolved); err != nil {
		return nil, err
	}

	c.Priority = records.Priority(priority)
	c.Status = records.Status(status)
	c.CitizenID = nullID(citizenID)
	c.MinistryID = nullID(ministryID)
	c.DistrictID = nullID(districtID)
	if location.Valid {
		c.Location = &location.String
	}

	var err error
	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if c.ResolvedAt, err = parseNullTime(resolved); err != nil {
		return nil, err
	}
	return &c, nil
}

func nullID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
