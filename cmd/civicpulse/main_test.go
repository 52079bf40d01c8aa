package main

import (
	"testing"

	"github.com/civicpulse/civicpulse/internal/records"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want records.Status
	}{
		{"pending", records.StatusPending},
		{"In-Progress", records.StatusInProgress},
		{"in_progress", records.StatusInProgress},
		{"RESOLVED", records.StatusResolved},
	}
	for _, tt := range tests {
		got, err := parseStatus(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := parseStatus("closed"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short  ", 10); got != "short" {
		t.Errorf("expected trimmed text, got %q", got)
	}
	if got := truncate("a long report title", 6); got != "a long..." {
		t.Errorf("expected truncated text, got %q", got)
	}
}

func TestParsePolicyStatus(t *testing.T) {
	tests := []struct {
		in   string
		want records.PolicyStatus
	}{
		{"draft", records.PolicyDraft},
		{"Active", records.PolicyActive},
		{"CLOSED", records.PolicyClosed},
	}
	for _, tt := range tests {
		got, err := parsePolicyStatus(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parsePolicyStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := parsePolicyStatus("archived"); err == nil {
		t.Error("expected error for unknown policy status")
	}
}
