package report

import (
	"fmt"
	"strings"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// cell makes free text safe inside a markdown table cell.
func cell(s string) string {
	return cellEscaper.Replace(s)
}

// Markdown renders a report as a markdown document.
func Markdown(r *Report) string {
	sections := []string{
		fmt.Sprintf("# %s\n\n*%s, %s window, generated %s. Confidence %.1f%%.*",
			r.Title, r.Type, r.Period, r.GeneratedAt.Format("2006-01-02 15:04"), r.Confidence),
		summarySection(r.Summary),
		recommendationSection(r.Recommendations),
		trendSection(r),
		riskSection(r.Analysis),
		issueSection(r.Analysis),
		workloadSection(r.Analysis),
		sentimentSection(r.Analysis.Sentiment),
		PolicySection(r.Analysis.Policies),
		serviceSection(r.Analysis.Service),
		resolutionSection(r.Analysis.Resolution),
		keywordSection(r.Analysis),
		DistributionSection(r.Analysis.Distribution),
	}
	return strings.Join(sections, "\n\n---\n\n") + "\n"
}

func summarySection(s Summary) string {
	var b strings.Builder
	h := s.Health
	fmt.Fprintf(&b, "## Executive Summary\n\n**Health: %.1f/100 (%s)**\n\n", h.Score, h.Rating)
	b.WriteString("| Component | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Resolution | %.1f |\n", h.ResolutionScore)
	fmt.Fprintf(&b, "| Speed | %.1f |\n", h.SpeedScore)
	fmt.Fprintf(&b, "| Engagement | %.1f |\n", h.EngagementScore)
	fmt.Fprintf(&b, "| Satisfaction | %.1f |\n", h.SatisfactionScore)

	b.WriteString("\n### Key Findings\n\n")
	for _, f := range s.Findings {
		b.WriteString("- " + f + "\n")
	}
	if len(s.Alerts) > 0 {
		b.WriteString("\n### Alerts\n\n")
		for _, a := range s.Alerts {
			fmt.Fprintf(&b, "- **%s**: %s\n", strings.ToUpper(a.Level), a.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func recommendationSection(recs []Recommendation) string {
	var b strings.Builder
	b.WriteString("## Recommendations\n")
	for i, rec := range recs {
		fmt.Fprintf(&b, "\n### %d. [%s] %s\n\n%s\n\n*%s*\n", i+1, rec.Priority, rec.Category, rec.Recommendation, rec.Rationale)
		for _, item := range rec.ActionItems {
			b.WriteString("\n- " + item)
		}
		if len(rec.ActionItems) > 0 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func trendSection(r *Report) string {
	t := r.Analysis.Trends
	if !t.Sufficient {
		return "## Complaint Trends\n\n" + t.Message + "."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Complaint Trends\n\nTrend **%s** (%.1f%% confidence), average change %+.1f per month. "+
		"Predicted next month: **%d** complaints (valid until %s).\n\n",
		t.Label, t.Confidence, t.AverageChange, t.PredictedNext, r.Predictions.ValidUntil.Format("2006-01-02"))
	b.WriteString("| Month | Complaints |\n|---|---|\n")
	for _, bucket := range t.Buckets {
		fmt.Fprintf(&b, "| %s | %d |\n", bucket.Label(), bucket.Count)
	}
	fmt.Fprintf(&b, "\nVolatility: %.1f%%", t.Volatility)
	return b.String()
}

func riskSection(a Analysis) string {
	if len(a.RiskAreas) == 0 {
		return "## High-Risk Areas\n\nNo district had complaints in the last 30 days."
	}
	var b strings.Builder
	b.WriteString("## High-Risk Areas\n\n| District | Region | Recent | Urgent | Pending | Score | Level | Action |\n|---|---|---|---|---|---|---|---|\n")
	for _, e := range a.RiskAreas {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %.1f | %s | %s |\n",
			cell(e.District), cell(e.Region), e.Recent, e.Urgent, e.Pending, e.Score, e.Level, cell(e.Action))
	}
	return strings.TrimRight(b.String(), "\n")
}

func issueSection(a Analysis) string {
	if len(a.Issues) == 0 {
		return "## Systemic Issues\n\nNo recurring unresolved issues."
	}
	var sections []string
	for _, issue := range a.Issues {
		sections = append(sections, fmt.Sprintf("### %s in %s (%s)\n\n%d complaints. Keywords: %s.\n\n%s",
			issue.Category, issue.District, issue.Severity, issue.Count,
			strings.Join(issue.Keywords, ", "), issue.Recommendation))
	}
	return "## Systemic Issues\n\n" + strings.Join(sections, "\n\n")
}

func workloadSection(a Analysis) string {
	if len(a.Workload) == 0 {
		return "## Ministry Workload Forecast\n\nNo ministries registered."
	}
	var b strings.Builder
	b.WriteString("## Ministry Workload Forecast\n\n| Ministry | Pending | In Progress | Forecast | Expected | Capacity | Status |\n|---|---|---|---|---|---|---|\n")
	for _, w := range a.Workload {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %.0f%% | %s |\n",
			cell(w.Ministry), w.Pending, w.InProgress, w.ForecastedNew, w.ExpectedWorkload, w.CapacityPct, w.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func sentimentSection(s SentimentAnalysis) string {
	if !s.Sufficient {
		return "## Feedback Sentiment\n\n" + s.Message + "."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Feedback Sentiment\n\n%d submissions: %.1f%% positive, %.1f%% neutral, %.1f%% negative.",
		s.Total, s.PositivePct, s.NeutralPct, s.NegativePct)
	if len(s.Themes) > 0 {
		var themes []string
		for _, t := range s.Themes {
			themes = append(themes, fmt.Sprintf("%s (%d)", t.Theme, t.Count))
		}
		b.WriteString("\n\nThemes: " + strings.Join(themes, ", ") + ".")
	}
	return b.String()
}

func serviceSection(q ServiceQuality) string {
	if !q.Sufficient {
		return "## Service Quality\n\n" + q.Message + "."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Service Quality\n\nAverage rating %.1f/5 over %d ratings.\n\n| Service | Rating | Count |\n|---|---|---|\n",
		q.AverageRating, q.TotalRatings)
	for _, s := range q.ByService {
		fmt.Fprintf(&b, "| %s | %.1f | %d |\n", cell(s.ServiceType), s.AverageRating, s.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

func resolutionSection(p ResolutionPerformance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Resolution Performance\n\nOverall %.1f%% resolved, %.1f days on average.",
		p.ResolutionRate, p.AvgResolutionDays)
	if len(p.Ministries) > 0 {
		b.WriteString("\n\n| Ministry | Total | Resolved | Rate | Avg Days |\n|---|---|---|---|---|\n")
		for _, m := range p.Ministries {
			fmt.Fprintf(&b, "| %s | %d | %d | %.1f%% | %.1f |\n",
				cell(m.Ministry), m.Total, m.Resolved, m.ResolutionRate, m.AvgResolutionDays)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func keywordSection(a Analysis) string {
	if len(a.TopKeywords) == 0 {
		return "## Top Keywords\n\nNo complaint text to analyse."
	}
	var words []string
	for _, k := range a.TopKeywords {
		words = append(words, fmt.Sprintf("%s (%d)", k.Keyword, k.Count))
	}
	return "## Top Keywords\n\n" + strings.Join(words, ", ")
}

// PolicySection renders the per-policy feedback breakdown.
func PolicySection(policies []PolicySentiment) string {
	if len(policies) == 0 {
		return "## Policy Feedback\n\nNo policies registered."
	}
	var b strings.Builder
	b.WriteString("## Policy Feedback\n\n| ID | Policy | Status | Feedback | Positive | Neutral | Negative |\n|---|---|---|---|---|---|---|\n")
	for _, p := range policies {
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %d | %d | %d |\n",
			p.PolicyID, cell(p.Title), p.Status, p.FeedbackCount, p.Positive, p.Neutral, p.Negative)
	}
	return strings.TrimRight(b.String(), "\n")
}

// DistributionSection renders the complaint breakdowns.
func DistributionSection(d Distribution) string {
	var b strings.Builder
	b.WriteString("## Complaint Distribution\n\n### By Ministry\n\n")
	if len(d.ByMinistry) == 0 {
		b.WriteString("No ministries registered.\n")
	} else {
		b.WriteString("| Ministry | Code | Total | Pending | In Progress | Resolved | Rate |\n|---|---|---|---|---|---|---|\n")
		for _, m := range d.ByMinistry {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d | %.1f%% |\n",
				cell(m.Ministry), cell(m.Code), m.Total, m.Pending, m.InProgress, m.Resolved, m.ResolutionRate)
		}
	}

	b.WriteString("\n### By District\n\n")
	if len(d.ByDistrict) == 0 {
		b.WriteString("No districts registered.\n")
	} else {
		b.WriteString("| District | Region | Total | Pending | Resolved |\n|---|---|---|---|---|\n")
		for _, dc := range d.ByDistrict {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d |\n",
				cell(dc.District), cell(dc.Region), dc.Total, dc.Pending, dc.Resolved)
		}
	}

	b.WriteString("\n### By Category\n\n")
	if len(d.ByCategory) == 0 {
		b.WriteString("No complaints yet.\n")
	} else {
		b.WriteString("| Category | Complaints |\n|---|---|\n")
		for _, c := range d.ByCategory {
			fmt.Fprintf(&b, "| %s | %d |\n", cell(c.Category), c.Count)
		}
	}

	if len(d.Timeline) > 0 {
		fmt.Fprintf(&b, "\n### Last %d Months\n\n| Month | Complaints |\n|---|---|\n", len(d.Timeline))
		for _, bucket := range d.Timeline {
			fmt.Fprintf(&b, "| %s | %d |\n", bucket.Label(), bucket.Count)
		}
	}

	if len(d.Unresolved) > 0 {
		b.WriteString("\n### Unresolved by Ministry\n\n| Ministry | Unresolved |\n|---|---|\n")
		for _, u := range d.Unresolved {
			fmt.Fprintf(&b, "| %s | %d |\n", cell(u.Ministry), u.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
