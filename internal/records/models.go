package records

import (
	"context"
	"time"
)

// Priority is the urgency assigned to a complaint at submission time.
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Status is the workflow state of a complaint.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Sentiment is the polarity bucket of a piece of citizen text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// PolicyStatus is the lifecycle state of a policy open for feedback.
type PolicyStatus string

const (
	PolicyDraft  PolicyStatus = "Draft"
	PolicyActive PolicyStatus = "Active"
	PolicyClosed PolicyStatus = "Closed"
)

// Complaint is a citizen complaint as stored by the persistence layer.
type Complaint struct {
	ID             int64
	TrackingNumber string
	CitizenID      *int64
	Description    string
	Location       *string
	Category       string
	Priority       Priority
	Status         Status
	MinistryID     *int64
	DistrictID     *int64
	CreatedAt      time.Time
	ResolvedAt     *time.Time
}

// ResolutionDays returns the days between creation and resolution.
// ok is false when the complaint has no resolution timestamp.
func (c Complaint) ResolutionDays() (days float64, ok bool) {
	if c.ResolvedAt == nil {
		return 0, false
	}
	return c.ResolvedAt.Sub(c.CreatedAt).Hours() / 24, true
}

// Feedback is citizen feedback on a policy.
type Feedback struct {
	ID          int64
	PolicyID    *int64
	CitizenID   *int64
	Text        string
	Sentiment   Sentiment
	Themes      []string
	SubmittedAt time.Time
}

// Policy is a government policy citizens can give feedback on.
type Policy struct {
	ID          int64
	Title       string
	Description string
	Category    *string
	Status      PolicyStatus
	Deadline    *time.Time
	CreatedAt   time.Time
}

// Rating is a 1-5 service rating.
type Rating struct {
	ID              int64
	CitizenID       *int64
	ServiceType     string
	ServiceLocation string
	Rating          int
	Comment         *string
	CreatedAt       time.Time
}

// Ministry is a government ministry that complaints are routed to.
type Ministry struct {
	ID   int64
	Name string
	Code string
}

// District is an administrative district.
type District struct {
	ID     int64
	Name   string
	Region string
}

// Citizen is a registered citizen.
type Citizen struct {
	ID        int64
	Name      string
	Phone     string
	District  *string
	CreatedAt time.Time
}

// Snapshot is a point-in-time read of every collection the analytics need.
type Snapshot struct {
	Complaints []Complaint
	Feedback   []Feedback
	Policies   []Policy
	Ratings    []Rating
	Ministries []Ministry
	Districts  []District
	Citizens   []Citizen
}

// Source provides consistent snapshots of the stored records.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// IndexDistricts maps district IDs to districts.
func IndexDistricts(districts []District) map[int64]District {
	m := make(map[int64]District, len(districts))
	for _, d := range districts {
		m[d.ID] = d
	}
	return m
}

// LookupDistrict resolves a complaint's district reference.
func LookupDistrict(index map[int64]District, id *int64) (District, bool) {
	if id == nil {
		return District{}, false
	}
	d, ok := index[*id]
	return d, ok
}
