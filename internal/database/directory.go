package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// InsertMinistry creates a ministry. Returns 0 if the name or code exists.
func (db *DB) InsertMinistry(name, code string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT OR IGNORE INTO ministries (name, code) VALUES (?, ?)", name, code,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting ministry %s: %w", code, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, nil
	}
	return result.LastInsertId()
}

// GetMinistryByCode returns the ministry with the given code.
func (db *DB) GetMinistryByCode(code string) (*records.Ministry, error) {
	var m records.Ministry
	err := db.conn.QueryRow(
		"SELECT id, name, code FROM ministries WHERE code = ?", code,
	).Scan(&m.ID, &m.Name, &m.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ministry %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMinistries returns all ministries in insertion order.
func (db *DB) ListMinistries() ([]records.Ministry, error) {
	return listMinistries(context.Background(), db.conn)
}

func listMinistries(ctx context.Context, q querier) ([]records.Ministry, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, code FROM ministries ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Ministry
	for rows.Next() {
		var m records.Ministry
		if err := rows.Scan(&m.ID, &m.Name, &m.Code); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertDistrict creates a district. Returns 0 if the name exists.
func (db *DB) InsertDistrict(name, region string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT OR IGNORE INTO districts (name, region) VALUES (?, ?)", name, region,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting district %s: %w", name, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, nil
	}
	return result.LastInsertId()
}

// GetDistrictByName returns the district with the given name.
func (db *DB) GetDistrictByName(name string) (*records.District, error) {
	var d records.District
	err := db.conn.QueryRow(
		"SELECT id, name, region FROM districts WHERE name = ? COLLATE NOCASE", name,
	).Scan(&d.ID, &d.Name, &d.Region)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("district %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDistricts returns all districts in insertion order.
func (db *DB) ListDistricts() ([]records.District, error) {
	return listDistricts(context.Background(), db.conn)
}

func listDistricts(ctx context.Context, q querier) ([]records.District, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, region FROM districts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.District
	for rows.Next() {
		var d records.District
		if err := rows.Scan(&d.ID, &d.Name, &d.Region); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// EnsureCitizen returns the id of the citizen registered with phone,
// registering them first if needed.
func (db *DB) EnsureCitizen(name, phone string, district *string, at time.Time) (int64, error) {
	if c, err := db.GetCitizenByPhone(phone); err == nil {
		return c.ID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	result, err := db.conn.Exec(
		"INSERT INTO citizens (name, phone, district, created_at) VALUES (?, ?, ?, ?)",
		name, phone, district, formatTime(at),
	)
	if err != nil {
		return 0, fmt.Errorf("registering citizen: %w", err)
	}
	return result.LastInsertId()
}

// GetCitizenByPhone returns the citizen registered with phone.
func (db *DB) GetCitizenByPhone(phone string) (*records.Citizen, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, phone, district, created_at FROM citizens WHERE phone = ?", phone,
	)
	c, err := scanCitizen(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("citizen %s: %w", phone, ErrNotFound)
	}
	return c, err
}

func listCitizens(ctx context.Context, q querier) ([]records.Citizen, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, phone, district, created_at FROM citizens ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Citizen
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCitizen(s scanner) (*records.Citizen, error) {
	var c records.Citizen
	var district sql.NullString
	var created string
	if err := s.Scan(&c.ID, &c.Name, &c.Phone, &district, &created); err != nil {
		return nil, err
	}
	if district.Valid {
		c.District = &district.String
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = t
	return &c, nil
}
