package report

import (
	"fmt"
	"math"
	"time"

	"github.com/civicpulse/civicpulse/internal/cluster"
	"github.com/civicpulse/civicpulse/internal/forecast"
	"github.com/civicpulse/civicpulse/internal/records"
	"github.com/civicpulse/civicpulse/internal/risk"
)

// PredictionValidity is how long a report's predictions stay valid.
const PredictionValidity = 30 * 24 * time.Hour

// TopKeywordLimit is how many complaint keywords a report lists.
const TopKeywordLimit = 10

// Options tunes the analytic components the synthesizer invokes.
type Options struct {
	Capacity       float64
	RiskRanking    risk.Ranking
	RiskLimit      int
	ClusterMinSize int
}

// Synthesizer composes the analytics into a Report.
type Synthesizer struct {
	opts Options
}

// NewSynthesizer returns a Synthesizer with the given options. Zero values
// select each component's defaults.
func NewSynthesizer(opts Options) *Synthesizer {
	return &Synthesizer{opts: opts}
}

// Synthesize builds one report from snap as of now. now must be captured once
// by the caller so every window in the report shares the same boundary.
func (s *Synthesizer) Synthesize(snap *records.Snapshot, now time.Time) (*Report, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot: %w", ErrInvalidInput)
	}
	if now.IsZero() {
		return nil, fmt.Errorf("zero reference time: %w", ErrInvalidInput)
	}

	health := ComputeHealth(snap, now)

	descriptions := make([]string, len(snap.Complaints))
	for i, c := range snap.Complaints {
		descriptions[i] = c.Description
	}

	trend := forecast.ForecastTrend(forecast.MonthlyBuckets(snap.Complaints, now))
	areas := risk.Score(snap.Complaints, snap.Districts, now, risk.Options{Ranking: s.opts.RiskRanking, Limit: s.opts.RiskLimit})
	issues := cluster.FindSystemicIssues(snap.Complaints, snap.Districts, cluster.Options{MinSize: s.opts.ClusterMinSize})

	a := Analysis{
		Trends:       trend,
		RiskAreas:    areas,
		Issues:       issues,
		Workload:     forecast.ForecastWorkload(snap.Complaints, snap.Ministries, now, s.opts.Capacity),
		Sentiment:    AnalyzeFeedback(snap.Feedback),
		Policies:     AnalyzePolicies(snap.Policies, snap.Feedback),
		Service:      AnalyzeRatings(snap.Ratings),
		Resolution:   AnalyzeResolution(snap.Complaints, snap.Ministries, health),
		TopKeywords:  cluster.TopKeywords(descriptions, TopKeywordLimit),
		Distribution: Distribute(snap, now),
	}

	r := &Report{
		Title:       Title(now),
		Type:        ReportType,
		Period:      ReportPeriod,
		GeneratedAt: now,
		Summary: Summary{
			Health:   health,
			Findings: findings(a, health),
			Alerts:   alerts(a, health),
		},
		Analysis: a,
		Predictions: Predictions{
			NextMonthComplaints: a.Trends.PredictedNext,
			Trend:               a.Trends.Label,
			AverageChange:       a.Trends.AverageChange,
			Confidence:          a.Trends.Confidence,
			ValidUntil:          now.Add(PredictionValidity),
		},
		Recommendations: recommend(a, health),
		Confidence:      confidence(a, len(snap.Ministries)),
	}
	return r, nil
}

// Title names a report after the month it was generated in.
func Title(now time.Time) string {
	return "System Data-Based Report - " + now.Format("January 2006")
}

func findings(a Analysis, h Health) []string {
	out := []string{
		fmt.Sprintf("Overall system health is %s (%.1f/100).", h.Rating, h.Score),
	}

	if t := a.Trends; t.Sufficient {
		out = append(out, fmt.Sprintf(
			"Complaint volume is %s with %.1f%% confidence. Expected %d complaints next month.",
			t.Label, t.Confidence, t.PredictedNext))
	} else {
		out = append(out, "Not enough monthly history to forecast complaint volume.")
	}

	if len(a.RiskAreas) > 0 {
		top := a.RiskAreas[0]
		out = append(out, fmt.Sprintf(
			"%s district shows highest complaint rate with %d recent complaints and risk level: %s.",
			top.District, top.Recent, top.Level))
	}

	if len(a.Issues) > 0 {
		out = append(out, fmt.Sprintf(
			"Identified %d systemic issues requiring policy intervention.", len(a.Issues)))
	}

	var overloaded int
	for _, w := range a.Workload {
		if w.CapacityPct > 100 {
			overloaded++
		}
	}
	if overloaded > 0 {
		out = append(out, fmt.Sprintf("%d ministries are projected to exceed capacity next month.", overloaded))
	}

	if s := a.Sentiment; s.Sufficient {
		out = append(out, fmt.Sprintf("%.1f%% of policy feedback is negative.", s.NegativePct))
	}
	return out
}

func alerts(a Analysis, h Health) []Alert {
	out := []Alert{}

	if t := a.Trends; t.Sufficient {
		switch {
		case t.AverageChange > SurgeChange:
			out = append(out, Alert{AlertCritical, fmt.Sprintf(
				"Complaint volume is surging by %.1f complaints per month.", t.AverageChange)})
		case t.Label == forecast.TrendIncreasing:
			out = append(out, Alert{AlertWarning, fmt.Sprintf(
				"Complaint volume is rising by %.1f complaints per month.", t.AverageChange)})
		}
	}

	for _, area := range a.RiskAreas {
		switch area.Level {
		case risk.LevelCritical:
			out = append(out, Alert{AlertCritical, fmt.Sprintf(
				"%s district requires immediate intervention (risk score %.1f).", area.District, area.Score)})
		case risk.LevelHigh:
			out = append(out, Alert{AlertWarning, fmt.Sprintf(
				"%s district needs priority attention (risk score %.1f).", area.District, area.Score)})
		}
	}

	for _, issue := range a.Issues {
		if issue.Severity == cluster.SeverityHigh {
			out = append(out, Alert{AlertWarning, fmt.Sprintf(
				"%d unresolved %s complaints in %s.", issue.Count, issue.Category, issue.District)})
		}
	}

	for _, w := range a.Workload {
		switch w.Status {
		case forecast.CapacityCritical:
			out = append(out, Alert{AlertCritical, fmt.Sprintf(
				"%s is projected at %.0f%% of capacity.", w.Ministry, w.CapacityPct)})
		case forecast.CapacityOverloaded:
			out = append(out, Alert{AlertWarning, fmt.Sprintf(
				"%s is projected at %.0f%% of capacity.", w.Ministry, w.CapacityPct)})
		}
	}

	if s := a.Sentiment; s.Sufficient && s.NegativePct > NegativeShareLimit {
		out = append(out, Alert{AlertWarning, fmt.Sprintf(
			"Negative feedback share is %.1f%%.", s.NegativePct)})
	}

	if h.TotalComplaints > 0 && h.ResolutionRate < MinResolutionRate {
		out = append(out, Alert{AlertWarning, fmt.Sprintf(
			"Resolution rate is %.1f%%.", h.ResolutionRate)})
	}
	return out
}

// confidence is the mean of the sub-confidences of the sections that had
// enough data to produce one, or 0 when none did.
func confidence(a Analysis, ministries int) float64 {
	var parts []float64
	if a.Trends.Sufficient {
		parts = append(parts, a.Trends.Confidence)
	}
	if len(a.RiskAreas) > 0 {
		parts = append(parts, 85)
	}
	if len(a.Issues) > 0 {
		parts = append(parts, 80)
	}
	if ministries > 0 {
		parts = append(parts, 75)
	}
	if a.Sentiment.Sufficient {
		parts = append(parts, sampleConfidence(a.Sentiment.Total))
	}
	if a.Service.Sufficient {
		parts = append(parts, sampleConfidence(a.Service.TotalRatings))
	}
	if len(parts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range parts {
		sum += p
	}
	return math.Round(sum/float64(len(parts))*10) / 10
}

// sampleConfidence grows with sample size up to 95.
func sampleConfidence(n int) float64 {
	return math.Min(60+float64(n), 95)
}
