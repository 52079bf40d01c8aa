package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
)

var refNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func id(v int64) *int64 { return &v }

func bucketsFrom(counts ...int) []Bucket {
	out := make([]Bucket, len(counts))
	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	for i, n := range counts {
		m := start.AddDate(0, i, 0)
		out[i] = Bucket{Year: m.Year(), Month: m.Month(), Count: n}
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestForecastTrendWorkedExample(t *testing.T) {
	tr := ForecastTrend(bucketsFrom(10, 12, 11, 15, 20, 25))

	if !tr.Sufficient {
		t.Fatal("expected sufficient data")
	}
	if !approx(tr.OlderAverage, 11) || !approx(tr.RecentAverage, 20) {
		t.Errorf("expected averages 11/20, got %v/%v", tr.OlderAverage, tr.RecentAverage)
	}
	if !approx(tr.AverageChange, 1.5) {
		t.Errorf("expected avgChange 1.5, got %v", tr.AverageChange)
	}
	if tr.Label != TrendSlightlyIncreasing {
		t.Errorf("expected %q, got %q", TrendSlightlyIncreasing, tr.Label)
	}
	if !approx(tr.Confidence, 74.5) {
		t.Errorf("expected confidence 74.5, got %v", tr.Confidence)
	}
	if tr.PredictedNext != 27 {
		t.Errorf("expected prediction 27, got %d", tr.PredictedNext)
	}
	if tr.CurrentMonth != 25 || tr.PreviousMonth != 20 {
		t.Errorf("expected current/previous 25/20, got %d/%d", tr.CurrentMonth, tr.PreviousMonth)
	}
	if len(tr.MovingAverages) != 4 || !approx(tr.MovingAverages[3], 20) {
		t.Errorf("unexpected moving averages %v", tr.MovingAverages)
	}
	if tr.Volatility <= 0 {
		t.Errorf("expected positive volatility, got %v", tr.Volatility)
	}
}

func TestForecastTrendInsufficientData(t *testing.T) {
	for _, b := range [][]Bucket{nil, bucketsFrom(5), bucketsFrom(5, 6)} {
		tr := ForecastTrend(b)
		if tr.Sufficient {
			t.Errorf("expected insufficient data for %d buckets", len(b))
		}
		if tr.Message != InsufficientData || tr.Label != TrendUnknown {
			t.Errorf("unexpected sentinel %+v", tr)
		}
	}
}

func TestForecastTrendLabels(t *testing.T) {
	tests := []struct {
		name       string
		counts     []int
		label      string
		confidence float64
		predicted  int
	}{
		// avgChange = (70-10)/6 = 10
		{"increasing", []int{10, 10, 10, 70, 70, 70}, TrendIncreasing, 95, 80},
		// avgChange = (40-10)/6 = 5 is not above 5
		{"slightly increasing at boundary", []int{10, 10, 10, 40, 40, 40}, TrendSlightlyIncreasing, 85, 45},
		// avgChange = (10-40)/6 = -5 -> slightly decreasing, min(70+15,85)
		{"slightly decreasing", []int{40, 40, 40, 10, 10, 10}, TrendSlightlyDecreasing, 85, 5},
		// avgChange = (0-60)/6 = -10
		{"decreasing", []int{60, 60, 60, 0, 0, 0}, TrendDecreasing, 95, 0},
		{"stable", []int{7, 7, 7}, TrendStable, 80, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ForecastTrend(bucketsFrom(tt.counts...))
			if tr.Label != tt.label {
				t.Errorf("expected %q, got %q", tt.label, tr.Label)
			}
			if !approx(tr.Confidence, tt.confidence) {
				t.Errorf("expected confidence %v, got %v", tt.confidence, tr.Confidence)
			}
			if tr.PredictedNext != tt.predicted {
				t.Errorf("expected prediction %d, got %d", tt.predicted, tr.PredictedNext)
			}
		})
	}
}

func TestMonthlyBuckets(t *testing.T) {
	complaints := []records.Complaint{
		{ID: 1, CreatedAt: time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 4, CreatedAt: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)},  // outside window
		{ID: 5, CreatedAt: time.Date(2026, time.December, 5, 0, 0, 0, 0, time.UTC)}, // future
	}
	got := MonthlyBuckets(complaints, refNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %v", got)
	}
	if got[0].Month != time.August || got[0].Count != 1 {
		t.Errorf("unexpected first bucket %+v", got[0])
	}
	if got[1].Month != time.October || got[1].Count != 2 {
		t.Errorf("unexpected second bucket %+v", got[1])
	}
	if got[1].Label() != "2026-10" {
		t.Errorf("expected label 2026-10, got %s", got[1].Label())
	}
}

func TestForecastWorkload(t *testing.T) {
	ministries := []records.Ministry{
		{ID: 1, Name: "Ministry of Health", Code: "MOH"},
		{ID: 2, Name: "Ministry of Education and Sports", Code: "MOES"},
	}
	var complaints []records.Complaint
	// MOH: 60 recent complaints, 20 pending, 10 in progress, 30 resolved.
	for i := 0; i < 60; i++ {
		status := records.StatusResolved
		switch {
		case i < 20:
			status = records.StatusPending
		case i < 30:
			status = records.StatusInProgress
		}
		complaints = append(complaints, records.Complaint{
			ID: int64(i), MinistryID: id(1), Status: status,
			CreatedAt: refNow.AddDate(0, 0, -10),
		})
	}
	// Old pending complaint still counts toward workload but not intake.
	complaints = append(complaints, records.Complaint{
		ID: 100, MinistryID: id(2), Status: records.StatusPending,
		CreatedAt: refNow.AddDate(-1, 0, 0),
	})
	// Unknown ministry is skipped.
	complaints = append(complaints, records.Complaint{ID: 101, MinistryID: id(99), CreatedAt: refNow})

	got := ForecastWorkload(complaints, ministries, refNow, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 forecasts, got %d", len(got))
	}

	moh := got[0]
	if moh.Code != "MOH" {
		t.Fatalf("expected MOH first, got %s", moh.Code)
	}
	// recentAvg = 20, forecasted = round(23) = 23, expected = 20 + 10 + 23 = 53
	if moh.ForecastedNew != 23 || moh.ExpectedWorkload != 53 {
		t.Errorf("expected 23/53, got %d/%d", moh.ForecastedNew, moh.ExpectedWorkload)
	}
	if !approx(moh.CapacityPct, 106) || moh.Status != CapacityOverloaded {
		t.Errorf("expected 106%% Overloaded, got %v %s", moh.CapacityPct, moh.Status)
	}

	moes := got[1]
	if moes.Pending != 1 || moes.ForecastedNew != 0 || moes.ExpectedWorkload != 1 {
		t.Errorf("unexpected MOES forecast %+v", moes)
	}
	if moes.Status != CapacityNormal {
		t.Errorf("expected Normal, got %s", moes.Status)
	}
}

func TestCapacityStatus(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{151, CapacityCritical},
		{150, CapacityOverloaded},
		{101, CapacityOverloaded},
		{100, CapacityHigh},
		{76, CapacityHigh},
		{75, CapacityNormal},
		{0, CapacityNormal},
	}
	for _, tt := range tests {
		if got := CapacityStatus(tt.pct); got != tt.want {
			t.Errorf("CapacityStatus(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestEstimateResolution(t *testing.T) {
	created := refNow.AddDate(0, 0, -30)
	resolved4 := created.AddDate(0, 0, 4)
	resolved6 := created.AddDate(0, 0, 6)
	history := []records.Complaint{
		{ID: 1, Category: "Water", MinistryID: id(3), CreatedAt: created, ResolvedAt: &resolved4},
		{ID: 2, Category: "Water", MinistryID: id(3), CreatedAt: created, ResolvedAt: &resolved6},
		{ID: 3, Category: "Water", MinistryID: id(4), CreatedAt: created, ResolvedAt: &resolved6},
		{ID: 4, Category: "Water", MinistryID: id(3), CreatedAt: created},
	}

	target := records.Complaint{ID: 10, Category: "Water", MinistryID: id(3), Priority: records.PriorityHigh}
	est := EstimateResolution(target, history)
	if est.Basis != BasisHistory || est.Samples != 2 || !approx(est.Days, 5) {
		t.Errorf("unexpected estimate %+v", est)
	}

	urgent := records.Complaint{ID: 11, Category: "Security", Priority: records.PriorityUrgent}
	est = EstimateResolution(urgent, history)
	if est.Basis != BasisPriority || est.Days != 3 {
		t.Errorf("expected 3-day priority default, got %+v", est)
	}
}
