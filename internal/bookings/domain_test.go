// internal/bookings/domain_test.go
package bookings

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"shareit/internal/apperr"
)

func TestParseState(t *testing.T) {
	cases := []struct {
		input string
		want  State
		ok    bool
	}{
		{"", StateAll, true},
		{"ALL", StateAll, true},
		{"current", StateCurrent, true},
		{"Past", StatePast, true},
		{"FUTURE", StateFuture, true},
		{"waiting", StateWaiting, true},
		{"REJECTED", StateRejected, true},
		{"APPROVED", "", false},
		{"bogus", "", false},
	}
	for _, tc := range cases {
		got, err := ParseState(tc.input)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.want, got)
		} else {
			require.Error(t, err, "input %q", tc.input)
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		}
	}
}

func TestParseStateCaseInsensitive(t *testing.T) {
	states := []string{"ALL", "CURRENT", "PAST", "FUTURE", "WAITING", "REJECTED"}
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SampledFrom(states).Draw(t, "state")
		mixed := make([]byte, len(base))
		for i := range base {
			if rapid.Bool().Draw(t, "lower") {
				mixed[i] = strings.ToLower(string(base[i]))[0]
			} else {
				mixed[i] = base[i]
			}
		}
		got, err := ParseState(string(mixed))
		if err != nil {
			t.Fatalf("ParseState(%q) failed: %v", mixed, err)
		}
		if got != State(base) {
			t.Fatalf("ParseState(%q) = %v, want %v", mixed, got, base)
		}
	})
}

func TestValidateRange(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		ok    bool
	}{
		{"valid window", now.Add(time.Hour), now.Add(2 * time.Hour), true},
		{"starts now", now, now.Add(time.Hour), true},
		{"zero start", time.Time{}, now.Add(time.Hour), false},
		{"zero end", now.Add(time.Hour), time.Time{}, false},
		{"start in past", now.Add(-time.Minute), now.Add(time.Hour), false},
		{"end not in future", now.Add(time.Hour), now, false},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), false},
		{"zero-length window", now.Add(time.Hour), now.Add(time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateRange(tc.start, tc.end, now)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
			}
		})
	}
}

func TestValidateRangeProperties(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rapid.Check(t, func(t *rapid.T) {
		startOffset := rapid.Int64Range(-3600, 3600).Draw(t, "startOffset")
		endOffset := rapid.Int64Range(-3600, 3600).Draw(t, "endOffset")
		start := now.Add(time.Duration(startOffset) * time.Second)
		end := now.Add(time.Duration(endOffset) * time.Second)

		err := validateRange(start, end, now)
		wantOK := !start.Before(now) && end.After(now) && start.Before(end)
		if wantOK && err != nil {
			t.Fatalf("valid range rejected: start=%v end=%v: %v", start, end, err)
		}
		if !wantOK && err == nil {
			t.Fatalf("invalid range accepted: start=%v end=%v", start, end)
		}
	})
}
