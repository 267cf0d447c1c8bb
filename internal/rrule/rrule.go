package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ParseRRule parses an RFC 5545 RRULE string and returns the RRule object
func ParseRRule(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}

	opt.Dtstart = dtstart
	return rrule.NewRRule(*opt)
}

// NextOccurrenceStrict returns the next occurrence strictly after the
// given time, or nil when the rule has no more occurrences.
func NextOccurrenceStrict(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := ParseRRule(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	// Keep searching until we find a time strictly after 'after'
	current := after
	for i := 0; i < 1000; i++ { // Safety limit
		next := rule.After(current, false)
		if next.IsZero() {
			return nil, nil
		}
		if next.After(after) {
			return &next, nil
		}
		current = next.Add(time.Second)
	}

	return nil, nil
}
