// Package forecast projects complaint volume and ministry workload from a
// point-in-time snapshot of complaint records.
package forecast

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/civicpulse/civicpulse/internal/records"
)

// TrendWindow is how far back monthly buckets are collected.
const TrendWindow = 180 * 24 * time.Hour

// MinBuckets is the fewest monthly buckets a forecast needs.
const MinBuckets = 3

// Trend labels.
const (
	TrendIncreasing         = "increasing"
	TrendSlightlyIncreasing = "slightly increasing"
	TrendDecreasing         = "decreasing"
	TrendSlightlyDecreasing = "slightly decreasing"
	TrendStable             = "stable"
	TrendUnknown            = "unknown"
)

// InsufficientData is the message carried by sentinel results.
const InsufficientData = "Insufficient data"

// Bucket is the complaint count for one calendar month.
type Bucket struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// Label formats the bucket as YYYY-MM.
func (b Bucket) Label() string {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Trend is a short-horizon forecast of monthly complaint volume.
type Trend struct {
	Sufficient     bool      `json:"sufficient"`
	Message        string    `json:"message,omitempty"`
	Buckets        []Bucket  `json:"buckets"`
	Label          string    `json:"trend"`
	Confidence     float64   `json:"confidence"`
	PredictedNext  int       `json:"predicted_complaints"`
	CurrentMonth   int       `json:"current_month"`
	PreviousMonth  int       `json:"previous_month"`
	AverageChange  float64   `json:"average_change"`
	RecentAverage  float64   `json:"recent_average"`
	OlderAverage   float64   `json:"older_average"`
	MovingAverages []float64 `json:"moving_averages"`
	Volatility     float64   `json:"volatility"`
}

// MonthlyBuckets counts complaints created within TrendWindow of now per
// calendar month, oldest first. Months without complaints are absent.
func MonthlyBuckets(complaints []records.Complaint, now time.Time) []Bucket {
	cutoff := now.Add(-TrendWindow)
	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]int)
	for _, c := range complaints {
		if c.CreatedAt.Before(cutoff) || c.CreatedAt.After(now) {
			continue
		}
		t := c.CreatedAt.In(now.Location())
		counts[key{t.Year(), t.Month()}]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, Bucket{Year: k.year, Month: k.month, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
	return buckets
}

// ForecastTrend extrapolates the next month from chronologically ordered
// buckets. Fewer than MinBuckets yields a sentinel with Sufficient false.
func ForecastTrend(buckets []Bucket) Trend {
	if len(buckets) < MinBuckets {
		return Trend{
			Sufficient: false,
			Message:    InsufficientData,
			Buckets:    buckets,
			Label:      TrendUnknown,
		}
	}

	counts := make([]float64, len(buckets))
	for i, b := range buckets {
		counts[i] = float64(b.Count)
	}
	n := len(counts)

	recentAvg := stat.Mean(counts[n-MinBuckets:], nil)
	olderAvg := stat.Mean(counts[:MinBuckets], nil)
	avgChange := (recentAvg - olderAvg) / float64(n)
	last := counts[n-1]

	label, confidence := classifyChange(avgChange)

	return Trend{
		Sufficient:     true,
		Buckets:        buckets,
		Label:          label,
		Confidence:     confidence,
		PredictedNext:  int(math.Max(0, math.Round(last+avgChange))),
		CurrentMonth:   buckets[n-1].Count,
		PreviousMonth:  buckets[n-2].Count,
		AverageChange:  avgChange,
		RecentAverage:  recentAvg,
		OlderAverage:   olderAvg,
		MovingAverages: movingAverages(counts, MinBuckets),
		Volatility:     volatility(counts),
	}
}

func classifyChange(avgChange float64) (string, float64) {
	switch {
	case avgChange > 5:
		return TrendIncreasing, math.Min(85+2*avgChange, 95)
	case avgChange > 0:
		return TrendSlightlyIncreasing, math.Min(70+3*avgChange, 85)
	case avgChange < -5:
		return TrendDecreasing, math.Min(85+2*math.Abs(avgChange), 95)
	case avgChange < 0:
		return TrendSlightlyDecreasing, math.Min(70+3*math.Abs(avgChange), 85)
	default:
		return TrendStable, 80
	}
}

func movingAverages(counts []float64, window int) []float64 {
	if len(counts) < window {
		return nil
	}
	out := make([]float64, 0, len(counts)-window+1)
	for i := window; i <= len(counts); i++ {
		out = append(out, stat.Mean(counts[i-window:i], nil))
	}
	return out
}

// volatility is the coefficient of variation in percent.
func volatility(counts []float64) float64 {
	mean, std := stat.MeanStdDev(counts, nil)
	if mean == 0 {
		return 0
	}
	return std / mean * 100
}
