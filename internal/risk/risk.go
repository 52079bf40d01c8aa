// Package risk scores districts by their recent complaint burden.
package risk

import (
	"sort"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
)

// Window is the lookback for recent complaints.
const Window = 30 * 24 * time.Hour

// DefaultLimit is how many districts are returned.
const DefaultLimit = 10

// Risk levels.
const (
	LevelCritical = "Critical"
	LevelHigh     = "High"
	LevelMedium   = "Medium"
	LevelLow      = "Low"
)

// Ranking selects how districts are ordered before the limit applies.
type Ranking string

const (
	// RankByRecent orders by raw recent complaint count, ignoring the
	// urgency and backlog weights that feed the score.
	RankByRecent Ranking = "recent"
	// RankByScore orders by composite risk score.
	RankByScore Ranking = "score"
)

// Options tunes Score.
type Options struct {
	Ranking Ranking
	Limit   int
}

// Entry is the risk assessment of one district.
type Entry struct {
	DistrictID int64   `json:"district_id"`
	District   string  `json:"district"`
	Region     string  `json:"region"`
	Recent     int     `json:"recent_complaints"`
	Urgent     int     `json:"urgent_complaints"`
	Pending    int     `json:"pending_complaints"`
	Score      float64 `json:"risk_score"`
	Level      string  `json:"risk_level"`
	Action     string  `json:"recommended_action"`
}

// Score assesses every district with at least one complaint in the trailing
// Window. Complaints whose district is unknown are skipped.
func Score(complaints []records.Complaint, districts []records.District, now time.Time, opts Options) []Entry {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	cutoff := now.Add(-Window)
	index := records.IndexDistricts(districts)

	tallies := make(map[int64]*Entry)
	for _, c := range complaints {
		if c.CreatedAt.Before(cutoff) || c.CreatedAt.After(now) {
			continue
		}
		d, ok := records.LookupDistrict(index, c.DistrictID)
		if !ok {
			continue
		}
		e, ok := tallies[d.ID]
		if !ok {
			e = &Entry{DistrictID: d.ID, District: d.Name, Region: d.Region}
			tallies[d.ID] = e
		}
		e.Recent++
		if c.Priority == records.PriorityUrgent {
			e.Urgent++
		}
		if c.Status == records.StatusPending {
			e.Pending++
		}
	}

	entries := make([]Entry, 0, len(tallies))
	for _, d := range districts {
		e, ok := tallies[d.ID]
		if !ok {
			continue
		}
		delete(tallies, d.ID)
		e.Score = float64(e.Recent) + 3*float64(e.Urgent) + 1.5*float64(e.Pending)
		e.Level, e.Action = Level(e.Score)
		entries = append(entries, *e)
	}

	if opts.Ranking == RankByScore {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	} else {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Recent > entries[j].Recent })
	}

	if len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries
}

// Level maps a risk score to its level and recommended action.
func Level(score float64) (level, action string) {
	switch {
	case score > 100:
		return LevelCritical, "Immediate intervention required"
	case score > 50:
		return LevelHigh, "Priority attention needed"
	case score > 20:
		return LevelMedium, "Monitor closely"
	default:
		return LevelLow, "Routine monitoring"
	}
}
