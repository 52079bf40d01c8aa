package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrNoSchedule is returned when a scheduler is requested without a cron
// expression.
var ErrNoSchedule = errors.New("no report schedule configured")

// ParseSchedule parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
func ParseSchedule(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrNoSchedule
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", expr, err)
	}
	return sched, nil
}

// Scheduler runs the pipeline on a cron schedule.
type Scheduler struct {
	pipeline *Pipeline
	expr     string
	sched    cron.Schedule
}

// NewScheduler creates a scheduler for expr.
func NewScheduler(expr string, p *Pipeline) (*Scheduler, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	return &Scheduler{pipeline: p, expr: strings.TrimSpace(expr), sched: sched}, nil
}

// Next returns the first run time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.sched.Next(t)
}

// Start runs the pipeline at every scheduled time on a background goroutine
// until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("Report generation scheduled (cron: %s)", s.expr)

	go func() {
		for {
			now := time.Now()
			next := s.sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next report at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Println("Report scheduler stopped")
				return
			case <-timer.C:
			}

			result := s.pipeline.Run(ctx)
			if err := result.Err(); err != nil {
				log.Printf("Scheduled report failed: %v", err)
				continue
			}
			log.Printf("Scheduled report complete: #%d %s", result.ReportID, result.Report.Title)
		}
	}()
}
