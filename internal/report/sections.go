package report

import (
	"sort"

	"github.com/civicpulse/civicpulse/internal/records"
)

// NoFeedback and NoRatings are the sentinel messages of empty sections.
const (
	NoFeedback = "No feedback available for sentiment analysis"
	NoRatings  = "No service ratings available"
)

// SentimentAnalysis summarises the polarity of policy feedback.
type SentimentAnalysis struct {
	Sufficient  bool         `json:"sufficient"`
	Message     string       `json:"message,omitempty"`
	Total       int          `json:"total_feedback"`
	Positive    int          `json:"positive"`
	Neutral     int          `json:"neutral"`
	Negative    int          `json:"negative"`
	PositivePct float64      `json:"positive_percentage"`
	NeutralPct  float64      `json:"neutral_percentage"`
	NegativePct float64      `json:"negative_percentage"`
	Themes      []ThemeCount `json:"themes"`
}

// ThemeCount is how often a theme was tagged.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// AnalyzeFeedback tallies stored sentiment and themes. Feedback whose
// sentiment was never computed counts as neutral.
func AnalyzeFeedback(feedback []records.Feedback) SentimentAnalysis {
	if len(feedback) == 0 {
		return SentimentAnalysis{Message: NoFeedback}
	}
	a := SentimentAnalysis{Sufficient: true, Total: len(feedback)}
	themes := make(map[string]int)
	for _, f := range feedback {
		switch f.Sentiment {
		case records.SentimentPositive:
			a.Positive++
		case records.SentimentNegative:
			a.Negative++
		default:
			a.Neutral++
		}
		for _, t := range f.Themes {
			themes[t]++
		}
	}
	total := float64(a.Total)
	a.PositivePct = float64(a.Positive) / total * 100
	a.NeutralPct = float64(a.Neutral) / total * 100
	a.NegativePct = float64(a.Negative) / total * 100

	a.Themes = make([]ThemeCount, 0, len(themes))
	for t, n := range themes {
		a.Themes = append(a.Themes, ThemeCount{Theme: t, Count: n})
	}
	sort.Slice(a.Themes, func(i, j int) bool {
		if a.Themes[i].Count != a.Themes[j].Count {
			return a.Themes[i].Count > a.Themes[j].Count
		}
		return a.Themes[i].Theme < a.Themes[j].Theme
	})
	return a
}

// ServiceQuality summarises citizen service ratings.
type ServiceQuality struct {
	Sufficient    bool            `json:"sufficient"`
	Message       string          `json:"message,omitempty"`
	TotalRatings  int             `json:"total_ratings"`
	AverageRating float64         `json:"average_rating"`
	ByService     []ServiceRating `json:"by_service"`
}

// ServiceRating is the average rating of one service type.
type ServiceRating struct {
	ServiceType   string  `json:"service_type"`
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

// AnalyzeRatings averages ratings overall and per service type, lowest
// rated service first.
func AnalyzeRatings(ratings []records.Rating) ServiceQuality {
	if len(ratings) == 0 {
		return ServiceQuality{Message: NoRatings}
	}
	q := ServiceQuality{Sufficient: true, TotalRatings: len(ratings), AverageRating: averageRating(ratings)}

	type tally struct{ sum, n int }
	byType := make(map[string]*tally)
	for _, r := range ratings {
		t, ok := byType[r.ServiceType]
		if !ok {
			t = &tally{}
			byType[r.ServiceType] = t
		}
		t.sum += r.Rating
		t.n++
	}
	for name, t := range byType {
		q.ByService = append(q.ByService, ServiceRating{
			ServiceType:   name,
			AverageRating: float64(t.sum) / float64(t.n),
			Count:         t.n,
		})
	}
	sort.Slice(q.ByService, func(i, j int) bool {
		if q.ByService[i].AverageRating != q.ByService[j].AverageRating {
			return q.ByService[i].AverageRating < q.ByService[j].AverageRating
		}
		return q.ByService[i].ServiceType < q.ByService[j].ServiceType
	})
	return q
}

// ResolutionPerformance is how each ministry clears its complaints.
type ResolutionPerformance struct {
	ResolutionRate    float64               `json:"resolution_rate"`
	AvgResolutionDays float64               `json:"avg_resolution_days"`
	Ministries        []MinistryPerformance `json:"ministries"`
}

// MinistryPerformance is the resolution record of one ministry.
type MinistryPerformance struct {
	Ministry          string  `json:"ministry"`
	Code              string  `json:"code"`
	Total             int     `json:"total"`
	Resolved          int     `json:"resolved"`
	ResolutionRate    float64 `json:"resolution_rate"`
	AvgResolutionDays float64 `json:"avg_resolution_days"`
}

// AnalyzeResolution reports per-ministry resolution rates in ministry order.
// Ministries without complaints and complaints without a known ministry are
// left out of the per-ministry rows.
func AnalyzeResolution(complaints []records.Complaint, ministries []records.Ministry, h Health) ResolutionPerformance {
	p := ResolutionPerformance{ResolutionRate: h.ResolutionRate, AvgResolutionDays: h.AvgResolutionDays}

	type tally struct {
		total, resolved, timed int
		days                   float64
	}
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
		t.total++
		if c.Status == records.StatusResolved {
			t.resolved++
		}
		if d, ok := c.ResolutionDays(); ok {
			t.days += d
			t.timed++
		}
	}

	for _, m := range ministries {
		t := tallies[m.ID]
		if t.total == 0 {
			continue
		}
		mp := MinistryPerformance{
			Ministry:       m.Name,
			Code:           m.Code,
			Total:          t.total,
			Resolved:       t.resolved,
			ResolutionRate: float64(t.resolved) / float64(t.total) * 100,
		}
		if t.timed > 0 {
			mp.AvgResolutionDays = t.days / float64(t.timed)
		}
		p.Ministries = append(p.Ministries, mp)
	}
	return p
}
