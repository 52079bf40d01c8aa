package forecast

import (
	"math"

	"github.com/civicpulse/civicpulse/internal/records"
)

// Estimate is the expected resolution time of a complaint.
type Estimate struct {
	Days     float64          `json:"estimated_days"`
	Priority records.Priority `json:"priority"`
	Category string           `json:"category"`
	Basis    string           `json:"basis"`
	Samples  int              `json:"samples"`
}

// Estimate bases.
const (
	BasisHistory  = "history"
	BasisPriority = "priority default"
)

var priorityDefaults = map[records.Priority]float64{
	records.PriorityUrgent: 3,
	records.PriorityHigh:   7,
	records.PriorityNormal: 14,
}

// EstimateResolution averages the resolution time of resolved complaints with
// the same category and ministry as target. With no history it falls back to
// a per-priority default.
func EstimateResolution(target records.Complaint, history []records.Complaint) Estimate {
	var total float64
	var n int
	for _, c := range history {
		if c.ID == target.ID || c.Category != target.Category || !sameMinistry(c.MinistryID, target.MinistryID) {
			continue
		}
		if days, ok := c.ResolutionDays(); ok {
			total += days
			n++
		}
	}

	if n == 0 {
		days, ok := priorityDefaults[target.Priority]
		if !ok {
			days = priorityDefaults[records.PriorityNormal]
		}
		return Estimate{Days: days, Priority: target.Priority, Category: target.Category, Basis: BasisPriority}
	}
	return Estimate{
		Days:     math.Round(total/float64(n)*10) / 10,
		Priority: target.Priority,
		Category: target.Category,
		Basis:    BasisHistory,
		Samples:  n,
	}
}

func sameMinistry(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
