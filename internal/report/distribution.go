package report

import (
	"sort"
	"time"

	"github.com/civicpulse/civicpulse/internal/forecast"
	"github.com/civicpulse/civicpulse/internal/records"
)

const (
	// TimelineMonths is how many calendar months the timeline covers,
	// ending with the current month.
	TimelineMonths = 12
	// UnresolvedLimit caps the unresolved-by-ministry ranking.
	UnresolvedLimit = 10
)

// Distribution breaks the complaint backlog down the way the dashboard
// shows it.
type Distribution struct {
	ByMinistry []MinistryCount   `json:"by_ministry"`
	ByDistrict []DistrictCount   `json:"by_district"`
	ByCategory []CategoryCount   `json:"by_category"`
	Timeline   []forecast.Bucket `json:"timeline"`
	Unresolved []UnresolvedCount `json:"unresolved_by_ministry"`
}

// StatusCounts tallies complaints by workflow state.
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

func (s *StatusCounts) add(c records.Complaint) {
	s.Total++
	switch c.Status {
	case records.StatusPending:
		s.Pending++
	case records.StatusInProgress:
		s.InProgress++
	case records.StatusResolved:
		s.Resolved++
	}
}

// Unresolved is every complaint not yet resolved.
func (s StatusCounts) Unresolved() int {
	return s.Total - s.Resolved
}

// MinistryCount is the complaint load of one ministry.
type MinistryCount struct {
	Ministry string `json:"ministry"`
	Code     string `json:"code"`
	StatusCounts
	ResolutionRate float64 `json:"resolution_rate"`
}

// DistrictCount is the complaint load of one district.
type DistrictCount struct {
	District string `json:"district"`
	Region   string `json:"region"`
	StatusCounts
}

// CategoryCount is how many complaints fall in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// UnresolvedCount is a ministry's open backlog.
type UnresolvedCount struct {
	Ministry string `json:"ministry"`
	Count    int    `json:"unresolved_count"`
}

// Distribute computes the dashboard breakdowns from snap. Every registered
// ministry and district gets a row, including those without complaints;
// complaints pointing at an unknown ministry or district are left out of
// those rows but still counted by category and month.
func Distribute(snap *records.Snapshot, now time.Time) Distribution {
	ministries := make(map[int64]*MinistryCount, len(snap.Ministries))
	byMinistry := make([]MinistryCount, len(snap.Ministries))
	for i, m := range snap.Ministries {
		byMinistry[i] = MinistryCount{Ministry: m.Name, Code: m.Code}
		ministries[m.ID] = &byMinistry[i]
	}
	districts := make(map[int64]*DistrictCount, len(snap.Districts))
	byDistrict := make([]DistrictCount, len(snap.Districts))
	for i, d := range snap.Districts {
		byDistrict[i] = DistrictCount{District: d.Name, Region: d.Region}
		districts[d.ID] = &byDistrict[i]
	}
	categories := make(map[string]int)

	for _, c := range snap.Complaints {
		categories[c.Category]++
		if c.MinistryID != nil {
			if m, ok := ministries[*c.MinistryID]; ok {
				m.add(c)
			}
		}
		if c.DistrictID != nil {
			if d, ok := districts[*c.DistrictID]; ok {
				d.add(c)
			}
		}
	}

	d := Distribution{
		ByMinistry: byMinistry,
		ByDistrict: byDistrict,
		ByCategory: make([]CategoryCount, 0, len(categories)),
		Timeline:   Timeline(snap.Complaints, now),
		Unresolved: []UnresolvedCount{},
	}

	for i := range d.ByMinistry {
		m := &d.ByMinistry[i]
		if m.Total > 0 {
			m.ResolutionRate = float64(m.Resolved) / float64(m.Total) * 100
		}
		if n := m.Unresolved(); n > 0 {
			d.Unresolved = append(d.Unresolved, UnresolvedCount{Ministry: m.Ministry, Count: n})
		}
	}
	sort.SliceStable(d.Unresolved, func(i, j int) bool {
		return d.Unresolved[i].Count > d.Unresolved[j].Count
	})
	if len(d.Unresolved) > UnresolvedLimit {
		d.Unresolved = d.Unresolved[:UnresolvedLimit]
	}

	sort.SliceStable(d.ByDistrict, func(i, j int) bool {
		if d.ByDistrict[i].Total != d.ByDistrict[j].Total {
			return d.ByDistrict[i].Total > d.ByDistrict[j].Total
		}
		return d.ByDistrict[i].District < d.ByDistrict[j].District
	})

	for name, n := range categories {
		d.ByCategory = append(d.ByCategory, CategoryCount{Category: name, Count: n})
	}
	sort.Slice(d.ByCategory, func(i, j int) bool {
		if d.ByCategory[i].Count != d.ByCategory[j].Count {
			return d.ByCategory[i].Count > d.ByCategory[j].Count
		}
		return d.ByCategory[i].Category < d.ByCategory[j].Category
	})
	return d
}

// Timeline counts complaints per calendar month for the TimelineMonths
// months ending with now's month. Months without complaints are included
// with a zero count; complaints dated after now are ignored.
func Timeline(complaints []records.Complaint, now time.Time) []forecast.Bucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(TimelineMonths - 1), 0)

	buckets := make([]forecast.Bucket, TimelineMonths)
	for i := range buckets {
		m := first.AddDate(0, i, 0)
		buckets[i] = forecast.Bucket{Year: m.Year(), Month: m.Month()}
	}
	for _, c := range complaints {
		t := c.CreatedAt.In(now.Location())
		if t.Before(first) || t.After(now) {
			continue
		}
		i := (t.Year()-first.Year())*12 + int(t.Month()-first.Month())
		buckets[i].Count++
	}
	return buckets
}
