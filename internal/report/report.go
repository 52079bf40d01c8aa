// Package report synthesizes the analytics into a ranked, explainable report.
package report

import (
	"errors"
	"time"

	"github.com/civicpulse/civicpulse/internal/cluster"
	"github.com/civicpulse/civicpulse/internal/forecast"
	"github.com/civicpulse/civicpulse/internal/risk"
)

// ErrInvalidInput is returned when the snapshot itself is malformed.
var ErrInvalidInput = errors.New("invalid input")

const (
	ReportType   = "Predictive Analysis"
	ReportPeriod = "30 days"
)

// Report is one immutable synthesis of the system state.
type Report struct {
	Title           string           `json:"title"`
	Type            string           `json:"type"`
	Period          string           `json:"period"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Summary         Summary          `json:"executive_summary"`
	Analysis        Analysis         `json:"deep_analysis"`
	Predictions     Predictions      `json:"predictions"`
	Recommendations []Recommendation `json:"recommendations"`
	Confidence      float64          `json:"ai_confidence"`
}

// Summary is the executive summary.
type Summary struct {
	Health   Health   `json:"health"`
	Findings []string `json:"key_findings"`
	Alerts   []Alert  `json:"alerts"`
}

// Alert levels.
const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
)

// Alert is an item that needs attention before the next report.
type Alert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Analysis holds one section per analytic component.
type Analysis struct {
	Trends       forecast.Trend         `json:"complaint_trends"`
	RiskAreas    []risk.Entry           `json:"high_risk_areas"`
	Issues       []cluster.Issue        `json:"systemic_issues"`
	Workload     []forecast.Workload    `json:"ministry_workload_forecast"`
	Sentiment    SentimentAnalysis      `json:"feedback_sentiment"`
	Policies     []PolicySentiment      `json:"policy_feedback"`
	Service      ServiceQuality         `json:"service_quality"`
	Resolution   ResolutionPerformance  `json:"resolution_performance"`
	TopKeywords  []cluster.KeywordCount `json:"top_keywords"`
	Distribution Distribution           `json:"distribution"`
}

// Predictions is the forward-looking part of the report.
type Predictions struct {
	NextMonthComplaints int       `json:"next_month_complaints"`
	Trend               string    `json:"trend"`
	AverageChange       float64   `json:"average_change"`
	Confidence          float64   `json:"confidence"`
	ValidUntil          time.Time `json:"valid_until"`
}

// Recommendation priorities, most urgent first.
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

// Recommendation is one ranked, explained action.
type Recommendation struct {
	Category       string   `json:"category"`
	Priority       string   `json:"priority"`
	Recommendation string   `json:"recommendation"`
	Rationale      string   `json:"rationale"`
	ActionItems    []string `json:"action_items"`
}
