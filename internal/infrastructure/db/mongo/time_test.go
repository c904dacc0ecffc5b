package mongo

import (
	"testing"
	"time"
)

// The repositories compare stored timestamp strings byte-wise: the lockout
// count filters $gte/$lt on attempt_time and both listings sort on
// created_at. These tests pin the property that makes that sound.

func TestFormatStoredTime_OrderIsChronological(t *testing.T) {
	dayStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name           string
		earlier, later time.Time
	}{
		{
			// A sub-second attempt right after midnight must not compare
			// below the day-start boundary, or it would be counted against
			// the previous day.
			name:    "day boundary vs fractional attempt",
			earlier: dayStart,
			later:   dayStart.Add(500 * time.Millisecond),
		},
		{
			name:    "same second, differing fraction widths",
			earlier: time.Date(2026, 8, 31, 12, 0, 0, 120_000_000, time.UTC),
			later:   time.Date(2026, 8, 31, 12, 0, 0, 123_000_000, time.UTC),
		},
		{
			name:    "whole second vs nanosecond",
			earlier: dayStart.Add(time.Second),
			later:   dayStart.Add(time.Second + time.Nanosecond),
		},
		{
			name:    "across midnight",
			earlier: dayStart.Add(-time.Nanosecond),
			later:   dayStart,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := formatStoredTime(tc.earlier), formatStoredTime(tc.later)
			if !(a < b) {
				t.Fatalf("string order diverges from time order: %q >= %q", a, b)
			}
		})
	}
}

func TestFormatStoredTime_FixedWidth(t *testing.T) {
	whole := formatStoredTime(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	fractional := formatStoredTime(time.Date(2026, 8, 31, 0, 0, 0, 500_000_000, time.UTC))

	if len(whole) != len(fractional) {
		t.Fatalf("fractional field must be zero-padded: %q vs %q", whole, fractional)
	}
}

func TestParseStoredTime_RoundTrip(t *testing.T) {
	in := time.Date(2026, 8, 31, 23, 59, 59, 987_654_321, time.UTC)

	out, err := parseStoredTime(formatStoredTime(in))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("expected %v, got %v", in, out)
	}
}

func TestParseStoredTime_CorruptValue(t *testing.T) {
	for _, s := range []string{"", "not-a-time", "2026-13-45T99:00:00.000000000Z"} {
		if _, err := parseStoredTime(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}
