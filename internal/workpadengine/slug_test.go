package workpadengine

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"lowercases and dashes", "Add Login Flow", "add-login-flow"},
		{"already lowercase", "fix bug", "fix-bug"},
		{"truncates to max length", strings.Repeat("a ", 40), strings.Repeat("a-", 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugify(tt.title)
			if len(got) > maxSlugLen {
				t.Errorf("slugify(%q) length = %d, want <= %d", tt.title, len(got), maxSlugLen)
			}
			if tt.name != "truncates to max length" && got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestBranchName(t *testing.T) {
	now := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	got := branchName("Add Login Flow", now)
	want := "pads/add-login-flow-20260305-143000"
	if got != want {
		t.Errorf("branchName() = %q, want %q", got, want)
	}
}

func TestBranchNameUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 3, 5, 9, 30, 0, 0, loc)
	got := branchName("thing", now)
	want := "pads/thing-20260305-143000"
	if got != want {
		t.Errorf("branchName() = %q, want %q (local time must be normalized to UTC)", got, want)
	}
}

func TestCheckpointTag(t *testing.T) {
	tests := []struct {
		branch string
		n      int
		want   string
	}{
		{"pads/foo-20260305-143000", 1, "pads/foo-20260305-143000@t1"},
		{"pads/foo-20260305-143000", 2, "pads/foo-20260305-143000@t2"},
		{"pads/foo-20260305-143000", 3, "pads/foo-20260305-143000@t3"},
	}
	for _, tt := range tests {
		got := checkpointTag(tt.branch, tt.n)
		if got != tt.want {
			t.Errorf("checkpointTag(%q, %d) = %q, want %q", tt.branch, tt.n, got, tt.want)
		}
	}
}
