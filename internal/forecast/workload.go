package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
)

// DefaultCapacity is the assumed number of complaints a ministry can handle
// per month.
const DefaultCapacity = 50

// WorkloadWindow is the lookback used for the monthly intake rate.
const WorkloadWindow = 90 * 24 * time.Hour

const growthBuffer = 1.15

// Capacity statuses.
const (
	CapacityCritical   = "Critically Overloaded"
	CapacityOverloaded = "Overloaded"
	CapacityHigh       = "High Load"
	CapacityNormal     = "Normal"
)

// Workload is the projected next-month workload of one ministry.
type Workload struct {
	MinistryID       int64   `json:"ministry_id"`
	Ministry         string  `json:"ministry"`
	Code             string  `json:"code"`
	Pending          int     `json:"current_pending"`
	InProgress       int     `json:"current_in_progress"`
	RecentAverage    float64 `json:"recent_monthly_average"`
	ForecastedNew    int     `json:"forecasted_new_complaints"`
	ExpectedWorkload int     `json:"expected_total_workload"`
	CapacityPct      float64 `json:"capacity_percentage"`
	Status           string  `json:"capacity_status"`
}

// ForecastWorkload projects every ministry's workload, heaviest first.
// A non-positive capacity falls back to DefaultCapacity.
func ForecastWorkload(complaints []records.Complaint, ministries []records.Ministry, now time.Time, capacity float64) []Workload {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cutoff := now.Add(-WorkloadWindow)

	type tally struct{ recent, pending, inProgress int }
	tallies := make(map[int64]*tally, len(ministries))
	for _, m := range ministries {
		tallies[m.ID] = &tally{}
	}
	for _, c := range complaints {
		if c.MinistryID == nil {
			continue
		}
		t, ok := tallies[*c.MinistryID]
		if !ok {
			continue
		}
		if !c.CreatedAt.Before(cutoff) && !c.CreatedAt.After(now) {
			t.recent++
		}
		switch c.Status {
		case records.StatusPending:
			t.pending++
		case records.StatusInProgress:
			t.inProgress++
		}
	}

	out := make([]Workload, 0, len(ministries))
	for _, m := range ministries {
		t := tallies[m.ID]
		recentAvg := float64(t.recent) / 3
		forecasted := int(math.Round(recentAvg * growthBuffer))
		expected := t.pending + t.inProgress + forecasted
		pct := float64(expected) / capacity * 100
		out = append(out, Workload{
			MinistryID:       m.ID,
			Ministry:         m.Name,
			Code:             m.Code,
			Pending:          t.pending,
			InProgress:       t.inProgress,
			RecentAverage:    recentAvg,
			ForecastedNew:    forecasted,
			ExpectedWorkload: expected,
			CapacityPct:      pct,
			Status:           CapacityStatus(pct),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedWorkload > out[j].ExpectedWorkload
	})
	return out
}

// CapacityStatus labels a capacity percentage.
func CapacityStatus(pct float64) string {
	switch {
	case pct > 150:
		return CapacityCritical
	case pct > 100:
		return CapacityOverloaded
	case pct > 75:
		return CapacityHigh
	default:
		return CapacityNormal
	}
}
