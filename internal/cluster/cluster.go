// Package cluster groups unresolved complaints into systemic issues.
package cluster

import (
	"fmt"
	"sort"

	"github.com/civicpulse/civicpulse/internal/records"
)

const (
	DefaultMinSize    = 3
	HighSeverityCount = 10
	maxKeywords       = 5
)

// Severity levels.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
)

// Options tunes FindSystemicIssues.
type Options struct {
	MinSize int
}

// Issue is a recurring problem shared by several unresolved complaints.
type Issue struct {
	Category       string   `json:"category"`
	DistrictID     int64    `json:"district_id"`
	District       string   `json:"district"`
	ComplaintIDs   []int64  `json:"complaint_ids"`
	Count          int      `json:"complaint_count"`
	Keywords       []string `json:"common_keywords"`
	Severity       string   `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

type groupKey struct {
	category   string
	districtID int64
}

// FindSystemicIssues groups unresolved complaints by category and district
// and returns groups of at least MinSize members, largest first.
func FindSystemicIssues(complaints []records.Complaint, districts []records.District, opts Options) []Issue {
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultMinSize
	}
	index := records.IndexDistricts(districts)

	groups := make(map[groupKey][]records.Complaint)
	var order []groupKey
	for _, c := range complaints {
		if c.Status == records.StatusResolved {
			continue
		}
		d, ok := records.LookupDistrict(index, c.DistrictID)
		if !ok {
			continue
		}
		k := groupKey{category: c.Category, districtID: d.ID}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	var issues []Issue
	for _, k := range order {
		members := groups[k]
		if len(members) < opts.MinSize {
			continue
		}
		ids := make([]int64, len(members))
		texts := make([]string, len(members))
		for i, c := range members {
			ids[i] = c.ID
			texts[i] = c.Description
		}

		severity := SeverityMedium
		if len(members) >= HighSeverityCount {
			severity = SeverityHigh
		}
		district := index[k.districtID].Name
		issues = append(issues, Issue{
			Category:       k.category,
			DistrictID:     k.districtID,
			District:       district,
			ComplaintIDs:   ids,
			Count:          len(members),
			Keywords:       topWords(texts, maxKeywords, func(w string) bool { return len(w) > 4 }),
			Severity:       severity,
			Recommendation: recommendation(k.category, district, len(members)),
		})
	}

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Count > issues[j].Count })
	return issues
}

func recommendation(category, district string, count int) string {
	return fmt.Sprintf("Conduct a policy review of recurring %s issues in %s district (%d unresolved complaints).",
		category, district, count)
}
