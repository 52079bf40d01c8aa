package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/civicpulse/civicpulse/internal/config"
	"github.com/civicpulse/civicpulse/internal/records"
	"github.com/civicpulse/civicpulse/internal/report"
)

var refNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	snap     *records.Snapshot
	loadErr  error
	saveErr  error
	saved    []*report.Report
	snapshot int
}

func (f *fakeStore) Snapshot(ctx context.Context) (*records.Snapshot, error) {
	f.snapshot++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snap, nil
}

func (f *fakeStore) SaveReport(r *report.Report) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.saved = append(f.saved, r)
	return int64(len(f.saved)), nil
}

func newTestPipeline(store Store) *Pipeline {
	p := New(config.Default(), store)
	p.now = func() time.Time { return refNow }
	return p
}

func sampleSnapshot() *records.Snapshot {
	districtID := int64(1)
	snap := &records.Snapshot{
		Districts: []records.District{{ID: districtID, Name: "Jinja", Region: "Eastern"}},
	}
	for i := 0; i < 4; i++ {
		snap.Complaints = append(snap.Complaints, records.Complaint{
			ID:          int64(i + 1),
			Description: "No clean water from the borehole",
			Category:    "Water",
			Priority:    records.PriorityNormal,
			Status:      records.StatusPending,
			DistrictID:  &districtID,
			CreatedAt:   refNow.Add(-time.Duration(i+1) * 24 * time.Hour),
		})
	}
	return snap
}

func TestRunSavesReport(t *testing.T) {
	store := &fakeStore{snap: sampleSnapshot()}
	result := newTestPipeline(store).Run(context.Background())

	if err := result.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(result.Steps))
	}
	if result.ReportID != 1 || len(store.saved) != 1 {
		t.Fatalf("expected one saved report, got id %d and %d saved", result.ReportID, len(store.saved))
	}
	if !result.Report.GeneratedAt.Equal(refNow) {
		t.Errorf("expected report generated at %v, got %v", refNow, result.Report.GeneratedAt)
	}
	if !strings.Contains(result.Steps[0].Summary, "4 complaints") {
		t.Errorf("unexpected load summary %q", result.Steps[0].Summary)
	}
}

func TestDryRunDoesNotSave(t *testing.T) {
	store := &fakeStore{snap: sampleSnapshot()}
	result := newTestPipeline(store).DryRun(context.Background())

	if err := result.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 0 {
		t.Errorf("expected nothing saved, got %d", len(store.saved))
	}
	last := result.Steps[len(result.Steps)-1]
	if !strings.HasPrefix(last.Summary, "[dry-run]") {
		t.Errorf("expected dry-run summary, got %q", last.Summary)
	}
	if result.Report == nil {
		t.Error("expected report to be built")
	}
}

func TestRunStopsOnLoadError(t *testing.T) {
	loadErr := errors.New("disk gone")
	store := &fakeStore{loadErr: loadErr}
	result := newTestPipeline(store).Run(context.Background())

	if len(result.Steps) != 1 {
		t.Fatalf("expected pipeline to stop after load, got %d steps", len(result.Steps))
	}
	if err := result.Err(); !errors.Is(err, loadErr) {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestRunReportsSaveError(t *testing.T) {
	saveErr := errors.New("read-only database")
	store := &fakeStore{snap: &records.Snapshot{}, saveErr: saveErr}
	result := newTestPipeline(store).Run(context.Background())

	if !errors.Is(result.Err(), saveErr) {
		t.Errorf("expected save error, got %v", result.Err())
	}
	if result.ReportID != 0 {
		t.Errorf("expected no report id, got %d", result.ReportID)
	}
}

func TestParseSchedule(t *testing.T) {
	if _, err := ParseSchedule("  "); !errors.Is(err, ErrNoSchedule) {
		t.Errorf("expected ErrNoSchedule, got %v", err)
	}
	if _, err := ParseSchedule("every tuesday"); err == nil {
		t.Error("expected error for invalid expression")
	}
	if _, err := ParseSchedule("0 6 1 * * *"); err == nil {
		t.Error("expected error for 6-field expression")
	}
}

func TestSchedulerNext(t *testing.T) {
	s, err := NewScheduler("0 6 1 * *", newTestPipeline(&fakeStore{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, time.November, 1, 6, 0, 0, 0, time.UTC)
	if got := s.Next(refNow); !got.Equal(want) {
		t.Errorf("expected next run %v, got %v", want, got)
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	store := &fakeStore{snap: &records.Snapshot{}}
	s, err := NewScheduler("0 6 1 * *", newTestPipeline(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	time.Sleep(20 * time.Millisecond)
	if store.snapshot != 0 {
		t.Errorf("expected no run before the first scheduled time, got %d", store.snapshot)
	}
}
