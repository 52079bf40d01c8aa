package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/civicpulse/civicpulse/internal/records"
	"github.com/civicpulse/civicpulse/internal/report"
)

var refNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestInsertMinistryDuplicate(t *testing.T) {
	db := openTestDB(t)
	id, err := db.InsertMinistry("Ministry of Health", "MOH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero ministry ID")
	}

	dup, err := db.InsertMinistry("Ministry of Health", "MOH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup != 0 {
		t.Error("expected 0 for duplicate ministry")
	}

	m, err := db.GetMinistryByCode("MOH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != id || m.Name != "Ministry of Health" {
		t.Errorf("unexpected ministry %+v", m)
	}
}

func TestLookupsReturnNotFound(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetMinistryByCode("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ministry: expected ErrNotFound, got %v", err)
	}
	if _, err := db.GetDistrictByName("Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("district: expected ErrNotFound, got %v", err)
	}
	if _, err := db.GetComplaintByTracking("CMP-00000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("complaint: expected ErrNotFound, got %v", err)
	}
	if _, err := db.GetReport(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("report: expected ErrNotFound, got %v", err)
	}
	if err := db.UpdateComplaintStatus("CMP-00000000", records.StatusResolved, refNow); !errors.Is(err, ErrNotFound) {
		t.Errorf("status update: expected ErrNotFound, got %v", err)
	}
}

func TestGetDistrictByNameIgnoresCase(t *testing.T) {
	db := openTestDB(t)
	db.InsertDistrict("Jinja", "Eastern")

	d, err := db.GetDistrictByName("jinja")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "Jinja" || d.Region != "Eastern" {
		t.Errorf("unexpected district %+v", d)
	}
}

func TestEnsureCitizenReusesPhone(t *testing.T) {
	db := openTestDB(t)
	first, err := db.EnsureCitizen("Amina", "+256700000001", ptr("Gulu"), refNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := db.EnsureCitizen("Amina N.", "+256700000001", nil, refNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected the same citizen, got %d and %d", first, second)
	}
}

func TestComplaintLifecycle(t *testing.T) {
	db := openTestDB(t)
	ministryID, _ := db.InsertMinistry("Ministry of Water and Environment", "MWE")
	districtID, _ := db.InsertDistrict("Jinja", "Eastern")

	_, err := db.InsertComplaint(records.Complaint{
		TrackingNumber: "CMP-1A2B3C4D",
		Description:    "Borehole broken",
		Location:       ptr("Main street"),
		Category:       "Water",
		Priority:       records.PriorityHigh,
		Status:         records.StatusPending,
		MinistryID:     &ministryID,
		DistrictID:     &districtID,
		CreatedAt:      refNow.AddDate(0, 0, -3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := db.GetComplaintByTracking("CMP-1A2B3C4D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Priority != records.PriorityHigh || c.Status != records.StatusPending || c.ResolvedAt != nil {
		t.Errorf("unexpected complaint %+v", c)
	}
	if c.MinistryID == nil || *c.MinistryID != ministryID || c.CitizenID != nil {
		t.Errorf("unexpected references %+v", c)
	}
	if !c.CreatedAt.Equal(refNow.AddDate(0, 0, -3)) {
		t.Errorf("created_at not preserved: %v", c.CreatedAt)
	}

	if err := db.UpdateComplaintStatus("CMP-1A2B3C4D", records.StatusResolved, refNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ = db.GetComplaintByTracking("CMP-1A2B3C4D")
	if c.Status != records.StatusResolved || c.ResolvedAt == nil || !c.ResolvedAt.Equal(refNow) {
		t.Errorf("expected resolved at %v, got %+v", refNow, c)
	}
	if days, ok := c.ResolutionDays(); !ok || days != 3 {
		t.Errorf("expected 3 resolution days, got %v", days)
	}

	if err := db.UpdateComplaintStatus("CMP-1A2B3C4D", records.StatusInProgress, refNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ = db.GetComplaintByTracking("CMP-1A2B3C4D")
	if c.ResolvedAt != nil {
		t.Error("expected resolved_at cleared on reopen")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	db.InsertMinistry("Ministry of Health", "MOH")
	districtID, _ := db.InsertDistrict("Gulu", "Northern")
	citizenID, _ := db.EnsureCitizen("Okello", "+256700000002", ptr("Gulu"), refNow)

	db.InsertComplaint(records.Complaint{
		TrackingNumber: "CMP-00000001", CitizenID: &citizenID, Description: "No drugs at the clinic",
		Category: "Healthcare", Priority: records.PriorityNormal, Status: records.StatusPending,
		DistrictID: &districtID, CreatedAt: refNow,
	})
	db.InsertFeedback(records.Feedback{
		CitizenID: &citizenID, Text: "Great new policy", Sentiment: records.SentimentPositive,
		Themes: []string{"health", "general"}, SubmittedAt: refNow,
	})
	db.InsertFeedback(records.Feedback{Text: "Unanalysed", SubmittedAt: refNow})
	db.InsertRating(records.Rating{ServiceType: "Hospital", ServiceLocation: "Gulu", Rating: 4, CreatedAt: refNow})

	snap, err := db.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Complaints) != 1 || len(snap.Feedback) != 2 || len(snap.Ratings) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d/%d/%d", len(snap.Complaints), len(snap.Feedback), len(snap.Ratings))
	}
	if len(snap.Ministries) != 1 || len(snap.Districts) != 1 || len(snap.Citizens) != 1 {
		t.Fatalf("unexpected reference sizes: %d/%d/%d", len(snap.Ministries), len(snap.Districts), len(snap.Citizens))
	}

	f := snap.Feedback[0]
	if f.Sentiment != records.SentimentPositive || len(f.Themes) != 2 || f.Themes[0] != "health" {
		t.Errorf("unexpected feedback %+v", f)
	}
	if snap.Feedback[1].Sentiment != "" || snap.Feedback[1].Themes != nil {
		t.Errorf("expected unanalysed feedback, got %+v", snap.Feedback[1])
	}
	if snap.Citizens[0].District == nil || *snap.Citizens[0].District != "Gulu" {
		t.Errorf("unexpected citizen %+v", snap.Citizens[0])
	}
}

func TestListResolvedComplaints(t *testing.T) {
	db := openTestDB(t)
	mwe, _ := db.InsertMinistry("Ministry of Water and Environment", "MWE")
	moh, _ := db.InsertMinistry("Ministry of Health", "MOH")
	resolved := refNow.Add(72 * time.Hour)

	for _, c := range []records.Complaint{
		{TrackingNumber: "CMP-W1", Category: "Water", MinistryID: &mwe, ResolvedAt: &resolved, Status: records.StatusResolved},
		{TrackingNumber: "CMP-W2", Category: "Water", MinistryID: &mwe, Status: records.StatusPending},
		{TrackingNumber: "CMP-W3", Category: "Water", MinistryID: &moh, ResolvedAt: &resolved, Status: records.StatusResolved},
		{TrackingNumber: "CMP-W4", Category: "Water", ResolvedAt: &resolved, Status: records.StatusResolved},
		{TrackingNumber: "CMP-H1", Category: "Healthcare", MinistryID: &mwe, ResolvedAt: &resolved, Status: records.StatusResolved},
	} {
		c.Description = "some complaint"
		c.Priority = records.PriorityNormal
		c.CreatedAt = refNow
		if _, err := db.InsertComplaint(c); err != nil {
			t.Fatalf("inserting %s: %v", c.TrackingNumber, err)
		}
	}

	got, err := db.ListResolvedComplaints("Water", &mwe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].TrackingNumber != "CMP-W1" {
		t.Errorf("expected only CMP-W1, got %+v", got)
	}

	got, err = db.ListResolvedComplaints("Water", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].TrackingNumber != "CMP-W4" {
		t.Errorf("expected only unassigned CMP-W4, got %+v", got)
	}
}

func TestPolicyLifecycle(t *testing.T) {
	db := openTestDB(t)
	deadline := refNow.AddDate(0, 1, 0)

	older, err := db.InsertPolicy(records.Policy{Title: "Road toll", Description: "Toll on the northern bypass",
		CreatedAt: refNow.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	newer, err := db.InsertPolicy(records.Policy{Title: "School meals", Description: "Lunch for pupils",
		Category: ptr("Education"), Status: records.PolicyActive, Deadline: &deadline, CreatedAt: refNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := db.GetPolicy(older)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != records.PolicyDraft || p.Category != nil || p.Deadline != nil {
		t.Errorf("expected draft policy without category or deadline, got %+v", p)
	}

	all, err := db.ListPolicies("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer || all[1].ID != older {
		t.Errorf("expected newest first, got %+v", all)
	}
	active, err := db.ListPolicies(records.PolicyActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 || active[0].Deadline == nil || !active[0].Deadline.Equal(deadline) {
		t.Errorf("unexpected active policies %+v", active)
	}

	if _, err := db.GetPolicy(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := db.InsertPolicy(records.Policy{Title: "x", Status: "Archived", CreatedAt: refNow}); err == nil {
		t.Error("expected check constraint violation for status Archived")
	}
}

func TestFeedbackPolicyForeignKey(t *testing.T) {
	db := openTestDB(t)
	policyID, _ := db.InsertPolicy(records.Policy{Title: "Road toll", Description: "x", CreatedAt: refNow})

	if _, err := db.InsertFeedback(records.Feedback{PolicyID: &policyID, Text: "ok", SubmittedAt: refNow}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	missing := int64(999)
	// Several inserts so more than one pooled connection is exercised.
	for i := 0; i < 3; i++ {
		if _, err := db.InsertFeedback(records.Feedback{PolicyID: &missing, Text: "orphan", SubmittedAt: refNow}); err == nil {
			t.Fatal("expected foreign key violation for unknown policy")
		}
	}

	feedback, err := db.ListPolicyFeedback(policyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feedback) != 1 || feedback[0].Text != "ok" {
		t.Errorf("unexpected policy feedback %+v", feedback)
	}
}

func TestRatingOutOfRangeRejected(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertRating(records.Rating{ServiceType: "School", ServiceLocation: "Mbale", Rating: 6, CreatedAt: refNow}); err == nil {
		t.Error("expected check constraint violation for rating 6")
	}
}

func TestSaveAndLoadReport(t *testing.T) {
	db := openTestDB(t)

	r, err := report.NewSynthesizer(report.Options{}).Synthesize(&records.Snapshot{}, refNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Recommendations = append(r.Recommendations, report.Recommendation{
		Category: "Extra", Priority: report.PriorityLow, Recommendation: "x", Rationale: "y",
		ActionItems: []string{"a", "b"},
	})

	id, err := db.SaveReport(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := db.GetReport(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Title != r.Title || !stored.GeneratedAt.Equal(refNow) || stored.BodyMarkdown == "" {
		t.Errorf("unexpected stored report %+v", stored)
	}

	loaded, err := db.LoadReport(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Summary.Health.Rating != r.Summary.Health.Rating || len(loaded.Recommendations) != 2 {
		t.Errorf("report did not round-trip: %+v", loaded)
	}

	recs, err := db.GetRecommendations(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 || recs[1].Category != "Extra" || len(recs[1].ActionItems) != 2 {
		t.Errorf("unexpected recommendations %+v", recs)
	}

	preds, err := db.GetPredictions(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(preds) != 1 || preds[0].Type != PredictionMonthlyComplaints || !preds[0].ValidUntil.Equal(refNow.Add(report.PredictionValidity)) {
		t.Errorf("unexpected predictions %+v", preds)
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	s := report.NewSynthesizer(report.Options{})
	for _, at := range []time.Time{refNow.AddDate(0, -1, 0), refNow} {
		r, _ := s.Synthesize(&records.Snapshot{}, at)
		if _, err := db.SaveReport(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := db.ListReports()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(list))
	}
	if list[0].Title != "System Data-Based Report - October 2026" || list[1].Title != "System Data-Based Report - September 2026" {
		t.Errorf("unexpected order: %s, %s", list[0].Title, list[1].Title)
	}
	if list[0].RecommendationCount != 1 {
		t.Errorf("expected 1 recommendation, got %d", list[0].RecommendationCount)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	db.InsertDistrict("Gulu", "Northern")
	db.InsertComplaint(records.Complaint{TrackingNumber: "CMP-A", Description: "a", Category: "Other",
		Priority: records.PriorityNormal, Status: records.StatusPending, CreatedAt: refNow})
	db.InsertComplaint(records.Complaint{TrackingNumber: "CMP-B", Description: "b", Category: "Other",
		Priority: records.PriorityNormal, Status: records.StatusResolved, CreatedAt: refNow, ResolvedAt: &refNow})

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Complaints != 2 || stats.PendingComplaints != 1 || stats.ResolvedComplaints != 1 {
		t.Errorf("unexpected complaint stats %+v", stats)
	}
	if stats.NormalComplaints != 2 || stats.UrgentComplaints != 0 || stats.Policies != 0 {
		t.Errorf("unexpected priority stats %+v", stats)
	}
	if stats.Districts != 1 || stats.Reports != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestFormatDisplay(t *testing.T) {
	if got := FormatDisplay(refNow); got != "Oct 16, 2026 12:00" {
		t.Errorf("unexpected display %q", got)
	}
}
