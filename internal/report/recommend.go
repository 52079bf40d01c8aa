package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/civicpulse/civicpulse/internal/cluster"
	"github.com/civicpulse/civicpulse/internal/forecast"
	"github.com/civicpulse/civicpulse/internal/risk"
)

// Thresholds that make a section produce alerts or recommendations.
const (
	SurgeChange        = 10.0
	NegativeShareLimit = 40.0
	MinResolutionRate  = 50.0
	SlowResolutionDays = 14.0
	LowRatingLimit     = 3.0

	maxPerSection = 3
)

var priorityRank = map[string]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// SortRecommendations orders by priority, Critical first. Recommendations of
// equal priority keep the order they were generated in.
func SortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return rank(recs[i].Priority) < rank(recs[j].Priority)
	})
}

func rank(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return len(priorityRank)
}

// recommend walks each analysis section in a fixed order and appends a
// recommendation whenever its condition fires.
func recommend(a Analysis, h Health) []Recommendation {
	var recs []Recommendation

	if t := a.Trends; t.Sufficient && t.Label == forecast.TrendIncreasing {
		priority := PriorityHigh
		if t.AverageChange > SurgeChange {
			priority = PriorityCritical
		}
		recs = append(recs, Recommendation{
			Category:       "Resource Allocation",
			Priority:       priority,
			Recommendation: "Increase staffing and resources to handle projected complaint surge.",
			Rationale:      fmt.Sprintf("Complaints expected to increase to %d next month.", t.PredictedNext),
			ActionItems: []string{
				"Reassign staff to complaint intake and triage",
				"Review overtime and temporary staffing budgets",
			},
		})
	}

	for _, area := range head(a.RiskAreas) {
		var priority string
		switch area.Level {
		case risk.LevelCritical:
			priority = PriorityCritical
		case risk.LevelHigh:
			priority = PriorityHigh
		default:
			continue
		}
		recs = append(recs, Recommendation{
			Category:       "District Intervention",
			Priority:       priority,
			Recommendation: fmt.Sprintf("Deploy additional resources to %s district.", area.District),
			Rationale: fmt.Sprintf("High complaint rate: %d recent complaints with %d urgent cases.",
				area.Recent, area.Urgent),
			ActionItems: []string{
				fmt.Sprintf("Schedule a field assessment in %s", area.District),
				fmt.Sprintf("Clear the %d pending complaints in %s", area.Pending, area.District),
			},
		})
	}

	for _, issue := range head(a.Issues) {
		if issue.Severity != cluster.SeverityHigh {
			continue
		}
		recs = append(recs, Recommendation{
			Category:       "Policy Review",
			Priority:       PriorityHigh,
			Recommendation: fmt.Sprintf("Conduct policy review for recurring %s issues.", issue.Category),
			Rationale: fmt.Sprintf("%d similar complaints identified: %s.",
				issue.Count, strings.Join(issue.Keywords, ", ")),
			ActionItems: []string{issue.Recommendation},
		})
	}

	var overloaded []forecast.Workload
	for _, w := range a.Workload {
		if w.Status == forecast.CapacityCritical || w.Status == forecast.CapacityOverloaded {
			overloaded = append(overloaded, w)
		}
	}
	for _, w := range head(overloaded) {
		priority := PriorityMedium
		if w.Status == forecast.CapacityCritical {
			priority = PriorityHigh
		}
		recs = append(recs, Recommendation{
			Category:       "Capacity Building",
			Priority:       priority,
			Recommendation: fmt.Sprintf("Increase capacity for %s.", w.Ministry),
			Rationale: fmt.Sprintf("Expected workload: %d complaints with %d currently pending.",
				w.ExpectedWorkload, w.Pending),
			ActionItems: []string{
				fmt.Sprintf("Redistribute %s backlog across regional offices", w.Code),
			},
		})
	}

	if s := a.Sentiment; s.Sufficient && s.NegativePct > NegativeShareLimit {
		recs = append(recs, Recommendation{
			Category:       "Public Engagement",
			Priority:       PriorityMedium,
			Recommendation: "Hold public consultations on the policies drawing negative feedback.",
			Rationale:      fmt.Sprintf("%.1f%% of %d feedback submissions are negative.", s.NegativePct, s.Total),
			ActionItems:    themeActions(s.Themes),
		})
	}

	if q := a.Service; q.Sufficient && q.AverageRating < LowRatingLimit {
		worst := q.ByService[0]
		recs = append(recs, Recommendation{
			Category:       "Service Quality",
			Priority:       PriorityMedium,
			Recommendation: fmt.Sprintf("Improve %s service delivery.", worst.ServiceType),
			Rationale: fmt.Sprintf("Average service rating is %.1f/5; %s is lowest at %.1f.",
				q.AverageRating, worst.ServiceType, worst.AverageRating),
			ActionItems: []string{fmt.Sprintf("Audit %s service points", worst.ServiceType)},
		})
	}

	if h.TotalComplaints > 0 && h.ResolutionRate < MinResolutionRate {
		recs = append(recs, Recommendation{
			Category:       "Process Improvement",
			Priority:       PriorityHigh,
			Recommendation: "Streamline complaint handling to raise the resolution rate.",
			Rationale:      fmt.Sprintf("Only %.1f%% of complaints have been resolved.", h.ResolutionRate),
			ActionItems: []string{
				"Set resolution deadlines per priority level",
				"Escalate complaints pending longer than 14 days",
			},
		})
	} else if h.AvgResolutionDays > SlowResolutionDays {
		recs = append(recs, Recommendation{
			Category:       "Process Improvement",
			Priority:       PriorityMedium,
			Recommendation: "Shorten complaint resolution times.",
			Rationale:      fmt.Sprintf("Complaints take %.1f days on average to resolve.", h.AvgResolutionDays),
			ActionItems:    []string{"Identify the slowest handling stages per ministry"},
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Category:       "Monitoring",
			Priority:       PriorityLow,
			Recommendation: "Maintain current operations and continue routine monitoring.",
			Rationale:      "No analysis section crossed an intervention threshold.",
			ActionItems:    []string{"Review the next scheduled report"},
		})
	}

	SortRecommendations(recs)
	return recs
}

func themeActions(themes []ThemeCount) []string {
	var out []string
	for _, t := range head(themes) {
		out = append(out, fmt.Sprintf("Address %s concerns raised in %d submissions", t.Theme, t.Count))
	}
	if len(out) == 0 {
		out = append(out, "Publish responses to the most common feedback")
	}
	return out
}

func head[T any](s []T) []T {
	if len(s) > maxPerSection {
		return s[:maxPerSection]
	}
	return s
}
