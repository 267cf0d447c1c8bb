package rrule

import (
	"testing"
	"time"
)

func TestNextOccurrenceStrict(t *testing.T) {
	dtstart := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	after := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	next, err := NextOccurrenceStrict("FREQ=DAILY", dtstart, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next == nil {
		t.Fatal("expected a next occurrence for an unbounded daily rule")
	}
	want := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestNextOccurrenceStrictExhaustedRule(t *testing.T) {
	dtstart := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	next, err := NextOccurrenceStrict("FREQ=DAILY;COUNT=3", dtstart, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != nil {
		t.Errorf("next = %v, want nil for an exhausted rule", next)
	}
}

func TestNextOccurrenceStrictRejectsGarbage(t *testing.T) {
	if _, err := NextOccurrenceStrict("FREQ=SOMETIMES", time.Now(), time.Now()); err == nil {
		t.Error("expected parse error for invalid frequency")
	}
}

func TestParseRRuleStripsPrefix(t *testing.T) {
	dtstart := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rule, err := ParseRRule("RRULE:FREQ=WEEKLY", dtstart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next := rule.After(dtstart, false)
	if next.IsZero() {
		t.Error("expected an occurrence after dtstart")
	}
}
