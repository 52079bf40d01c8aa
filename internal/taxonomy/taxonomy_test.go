package taxonomy

import "testing"

func TestDefaultOrder(t *testing.T) {
	tax := Default()
	want := []string{"Infrastructure", "Healthcare", "Education", "Water", "Security", "Corruption", "Agriculture", "Employment"}
	if tax.Len() != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), tax.Len())
	}
	for i, name := range want {
		if tax.Category(i) != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, tax.Category(i))
		}
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	tax := Default()
	entries := tax.Entries()
	entries[0].Category = "Mutated"
	entries[0].Keywords[0] = "mutated"

	if tax.Category(0) != "Infrastructure" {
		t.Errorf("taxonomy mutated through Entries: %q", tax.Category(0))
	}
	if tax.Entries()[0].Keywords[0] != "road" {
		t.Error("keywords mutated through Entries")
	}
}

func TestNewCopiesInput(t *testing.T) {
	kws := []string{"alpha"}
	tax := New([]Entry{{Category: "A", Keywords: kws}}, nil, nil, nil)
	kws[0] = "beta"
	if got := tax.Scores("alpha"); got[0] != 1 {
		t.Errorf("expected score 1 after caller mutation, got %d", got[0])
	}
}

func TestMinistryCode(t *testing.T) {
	tax := Default()
	code, ok := tax.MinistryCode("Healthcare")
	if !ok || code != "MOH" {
		t.Errorf("expected MOH, got %q (ok=%v)", code, ok)
	}
	if _, ok := tax.MinistryCode(OtherCategory); ok {
		t.Error("expected no ministry for Other")
	}
}

func TestCountMatches(t *testing.T) {
	tests := []struct {
		text string
		kws  []string
		want int
	}{
		{"the road and the bridge", []string{"road", "bridge", "pothole"}, 2},
		{"road road road", []string{"road"}, 1},
		{"", []string{"road"}, 0},
		{"railroad", []string{"road"}, 1},
	}
	for _, tt := range tests {
		if got := CountMatches(tt.text, tt.kws); got != tt.want {
			t.Errorf("CountMatches(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCriticalTerms(t *testing.T) {
	tax := Default()
	if !tax.HasCriticalTerm("a life-threatening situation") {
		t.Error("expected life-threatening to be critical")
	}
	if tax.HasCriticalTerm("all is calm") {
		t.Error("expected no critical term")
	}
}
