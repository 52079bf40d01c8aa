package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/civicpulse/civicpulse/internal/config"
	"github.com/civicpulse/civicpulse/internal/records"
	"github.com/civicpulse/civicpulse/internal/report"
	"github.com/civicpulse/civicpulse/internal/risk"
)

// Store is the storage a pipeline run reads from and writes to.
type Store interface {
	records.Source
	SaveReport(r *report.Report) (int64, error)
}

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	ReportID int64
	Report   *report.Report
	Steps    []StepResult
}

// Err returns the first failed step's error, if any.
func (r *Result) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return fmt.Errorf("%s: %w", s.Name, s.Err)
		}
	}
	return nil
}

// Pipeline orchestrates the 3-step report generation pipeline.
type Pipeline struct {
	store Store
	synth *report.Synthesizer
	now   func() time.Time
}

// New creates a new pipeline.
func New(cfg *config.Config, store Store) *Pipeline {
	a := cfg.Analysis
	synth := report.NewSynthesizer(report.Options{
		Capacity:       a.NominalCapacity,
		RiskRanking:    risk.Ranking(a.RiskRanking),
		RiskLimit:      a.RiskLimit,
		ClusterMinSize: a.ClusterMinSize,
	})
	return &Pipeline{store: store, synth: synth, now: time.Now}
}

// Run executes the full pipeline and persists the report.
func (p *Pipeline) Run(ctx context.Context) *Result {
	return p.run(ctx, false)
}

// DryRun builds the report without persisting it.
func (p *Pipeline) DryRun(ctx context.Context) *Result {
	return p.run(ctx, true)
}

func (p *Pipeline) run(ctx context.Context, dryRun bool) *Result {
	r := &Result{}
	now := p.now().UTC()

	// Step 1: Load
	snap, step := p.runLoad(ctx)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	// Step 2: Analyze
	r.Report, step = p.runAnalyze(snap, now)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	// Step 3: Save
	if dryRun {
		r.Steps = append(r.Steps, StepResult{
			Name:    "Save",
			Summary: fmt.Sprintf("[dry-run] Would save %q with %d recommendations", r.Report.Title, len(r.Report.Recommendations)),
		})
		return r
	}
	r.ReportID, step = p.runSave(r.Report)
	r.Steps = append(r.Steps, step)
	return r
}

func (p *Pipeline) runLoad(ctx context.Context) (*records.Snapshot, StepResult) {
	log.Println("Step 1/3: Loading records...")
	snap, err := p.store.Snapshot(ctx)
	if err != nil {
		return nil, StepResult{Name: "Load", Err: err}
	}
	return snap, StepResult{
		Name: "Load",
		Summary: fmt.Sprintf("Loaded %d complaints, %d feedback, %d ratings",
			len(snap.Complaints), len(snap.Feedback), len(snap.Ratings)),
	}
}

func (p *Pipeline) runAnalyze(snap *records.Snapshot, now time.Time) (*report.Report, StepResult) {
	log.Println("Step 2/3: Analyzing records...")
	rep, err := p.synth.Synthesize(snap, now)
	if err != nil {
		return nil, StepResult{Name: "Analyze", Err: err}
	}
	if !rep.Analysis.Trends.Sufficient {
		log.Println("Warning: not enough monthly history for a trend forecast")
	}
	return rep, StepResult{
		Name: "Analyze",
		Summary: fmt.Sprintf("Health %.1f (%s), %d recommendations, confidence %.1f%%",
			rep.Summary.Health.Score, rep.Summary.Health.Rating, len(rep.Recommendations), rep.Confidence),
	}
}

func (p *Pipeline) runSave(rep *report.Report) (int64, StepResult) {
	log.Println("Step 3/3: Saving report...")
	id, err := p.store.SaveReport(rep)
	if err != nil {
		return 0, StepResult{Name: "Save", Err: err}
	}
	return id, StepResult{
		Name:    "Save",
		Summary: fmt.Sprintf("Saved report #%d: %s", id, rep.Title),
	}
}
