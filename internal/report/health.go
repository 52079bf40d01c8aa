package report

import (
	"math"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
)

// EngagementWindow is the lookback used to count active citizens.
const EngagementWindow = 30 * 24 * time.Hour

// Health ratings.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
)

// Health is the weighted composite of four 0-100 sub-scores.
type Health struct {
	Score             float64 `json:"health_score"`
	Rating            string  `json:"rating"`
	ResolutionScore   float64 `json:"resolution_score"`
	SpeedScore        float64 `json:"speed_score"`
	EngagementScore   float64 `json:"engagement_score"`
	SatisfactionScore float64 `json:"satisfaction_score"`

	TotalComplaints    int     `json:"total_complaints"`
	ResolvedComplaints int     `json:"resolved_complaints"`
	ResolutionRate     float64 `json:"resolution_rate"`
	AvgResolutionDays  float64 `json:"avg_resolution_days"`
	EngagementRate     float64 `json:"engagement_rate"`
	AverageRating      float64 `json:"average_rating"`
}

// ComputeHealth scores the snapshot as of now.
func ComputeHealth(s *records.Snapshot, now time.Time) Health {
	h := Health{TotalComplaints: len(s.Complaints)}

	var days float64
	var timed int
	for _, c := range s.Complaints {
		if c.Status == records.StatusResolved {
			h.ResolvedComplaints++
		}
		if d, ok := c.ResolutionDays(); ok {
			days += d
			timed++
		}
	}
	if h.TotalComplaints > 0 {
		h.ResolutionRate = float64(h.ResolvedComplaints) / float64(h.TotalComplaints) * 100
	}
	if timed > 0 {
		h.AvgResolutionDays = days / float64(timed)
	}
	h.EngagementRate = engagementRate(s, now)
	h.AverageRating = averageRating(s.Ratings)

	h.ResolutionScore = math.Min(h.ResolutionRate, 100)
	h.SpeedScore = math.Max(0, 100-5*h.AvgResolutionDays)
	h.EngagementScore = math.Min(2*h.EngagementRate, 100)
	h.SatisfactionScore = h.AverageRating / 5 * 100

	h.Score = 0.3*h.ResolutionScore + 0.3*h.SpeedScore + 0.2*h.EngagementScore + 0.2*h.SatisfactionScore
	h.Rating = HealthRating(h.Score)
	return h
}

// HealthRating bands a health score.
func HealthRating(score float64) string {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingFair
	default:
		return RatingPoor
	}
}

// engagementRate is the percentage of registered citizens who submitted a
// complaint, feedback or rating within EngagementWindow.
func engagementRate(s *records.Snapshot, now time.Time) float64 {
	if len(s.Citizens) == 0 {
		return 0
	}
	registered := make(map[int64]bool, len(s.Citizens))
	for _, c := range s.Citizens {
		registered[c.ID] = true
	}

	cutoff := now.Add(-EngagementWindow)
	active := make(map[int64]bool)
	mark := func(citizen *int64, at time.Time) {
		if citizen == nil || at.Before(cutoff) || at.After(now) || !registered[*citizen] {
			return
		}
		active[*citizen] = true
	}
	for _, c := range s.Complaints {
		mark(c.CitizenID, c.CreatedAt)
	}
	for _, f := range s.Feedback {
		mark(f.CitizenID, f.SubmittedAt)
	}
	for _, r := range s.Ratings {
		mark(r.CitizenID, r.CreatedAt)
	}
	return float64(len(active)) / float64(len(registered)) * 100
}

func averageRating(ratings []records.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings))
}
