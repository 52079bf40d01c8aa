package risk

import (
	"fmt"
	"testing"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
)

var refNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func id(v int64) *int64 { return &v }

// complaintsFor builds recent complaints for a district: the first urgent are
// Urgent and the first pending are Pending.
func complaintsFor(districtID int64, recent, urgent, pending int) []records.Complaint {
	out := make([]records.Complaint, recent)
	for i := range out {
		c := records.Complaint{
			DistrictID: id(districtID),
			Priority:   records.PriorityNormal,
			Status:     records.StatusResolved,
			CreatedAt:  refNow.AddDate(0, 0, -5),
		}
		if i < urgent {
			c.Priority = records.PriorityUrgent
		}
		if i < pending {
			c.Status = records.StatusPending
		}
		out[i] = c
	}
	return out
}

func TestScoreWorkedExample(t *testing.T) {
	districts := []records.District{{ID: 1, Name: "Jinja", Region: "Eastern"}}
	entries := Score(complaintsFor(1, 30, 5, 10), districts, refNow, Options{})

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Recent != 30 || e.Urgent != 5 || e.Pending != 10 {
		t.Errorf("unexpected counts %+v", e)
	}
	if e.Score != 60 {
		t.Errorf("expected score 60, got %v", e.Score)
	}
	if e.Level != LevelHigh || e.Action != "Priority attention needed" {
		t.Errorf("expected High, got %s (%s)", e.Level, e.Action)
	}
}

func TestScoreSkipsOldAndUnknown(t *testing.T) {
	districts := []records.District{{ID: 1, Name: "Gulu", Region: "Northern"}, {ID: 2, Name: "Mbale", Region: "Eastern"}}
	complaints := []records.Complaint{
		{DistrictID: id(1), CreatedAt: refNow.AddDate(0, 0, -1)},
		{DistrictID: id(1), CreatedAt: refNow.AddDate(0, 0, -45)},
		{DistrictID: id(42), CreatedAt: refNow.AddDate(0, 0, -1)},
		{DistrictID: nil, CreatedAt: refNow.AddDate(0, 0, -1)},
	}
	entries := Score(complaints, districts, refNow, Options{})
	if len(entries) != 1 {
		t.Fatalf("expected only Gulu, got %+v", entries)
	}
	if entries[0].District != "Gulu" || entries[0].Recent != 1 {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestScoreRankingModes(t *testing.T) {
	districts := []records.District{{ID: 1, Name: "Busy"}, {ID: 2, Name: "Severe"}}
	var complaints []records.Complaint
	complaints = append(complaints, complaintsFor(1, 20, 0, 0)...)   // score 20
	complaints = append(complaints, complaintsFor(2, 10, 10, 10)...) // score 55

	byRecent := Score(complaints, districts, refNow, Options{Ranking: RankByRecent})
	if byRecent[0].District != "Busy" {
		t.Errorf("recent ranking: expected Busy first, got %s", byRecent[0].District)
	}

	byScore := Score(complaints, districts, refNow, Options{Ranking: RankByScore})
	if byScore[0].District != "Severe" {
		t.Errorf("score ranking: expected Severe first, got %s", byScore[0].District)
	}
}

func TestScoreLimit(t *testing.T) {
	var districts []records.District
	var complaints []records.Complaint
	for i := 1; i <= 12; i++ {
		districts = append(districts, records.District{ID: int64(i), Name: fmt.Sprintf("D%d", i)})
		complaints = append(complaints, complaintsFor(int64(i), i, 0, 0)...)
	}

	entries := Score(complaints, districts, refNow, Options{})
	if len(entries) != DefaultLimit {
		t.Fatalf("expected %d entries, got %d", DefaultLimit, len(entries))
	}
	if entries[0].District != "D12" || entries[9].District != "D3" {
		t.Errorf("unexpected ordering: first %s, last %s", entries[0].District, entries[9].District)
	}

	entries = Score(complaints, districts, refNow, Options{Limit: 3})
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{101, LevelCritical},
		{100, LevelHigh},
		{50.5, LevelHigh},
		{50, LevelMedium},
		{21, LevelMedium},
		{20, LevelLow},
		{0, LevelLow},
	}
	for _, tt := range tests {
		if got, _ := Level(tt.score); got != tt.want {
			t.Errorf("Level(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
