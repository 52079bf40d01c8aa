package database

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// StoredReport is a persisted report with its rendered body.
type StoredReport struct {
	ID           int64
	Title        string
	Type         string
	Confidence   float64
	BodyMarkdown string
	Data         []byte
	GeneratedAt  time.Time
}

// ReportSummary is a report listing row.
type ReportSummary struct {
	ID                  int64
	Title               string
	Type                string
	Confidence          float64
	RecommendationCount int
	GeneratedAt         time.Time
}

// StoredRecommendation is a persisted recommendation of a report.
type StoredRecommendation struct {
	ID             int64
	ReportID       int64
	Position       int
	Category       string
	Priority       string
	Recommendation string
	Rationale      string
	ActionItems    []string
}

// Prediction is a persisted forecast with its validity window.
type Prediction struct {
	ID         int64
	ReportID   int64
	Type       string
	Data       []byte
	Confidence float64
	ValidUntil time.Time
	CreatedAt  time.Time
}

// Stats contains aggregate database statistics.
type Stats struct {
	Citizens             int
	Complaints           int
	PendingComplaints    int
	InProgressComplaints int
	ResolvedComplaints   int
	UrgentComplaints     int
	HighComplaints       int
	NormalComplaints     int
	Policies             int
	Feedback             int
	Ratings              int
	Ministries           int
	Districts            int
	Reports              int
}
