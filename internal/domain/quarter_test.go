package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseQuarter_Valid(t *testing.T) {
	t.Parallel()

	q, err := ParseQuarter("2024-Q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Year != 2024 || q.Q != 1 {
		t.Errorf("expected 2024 Q1, got %+v", q)
	}
	if q.String() != "2024-Q1" {
		t.Errorf("round trip failed: %s", q.String())
	}
	if q.Underscore() != "2024_Q1" {
		t.Errorf("expected 2024_Q1, got %s", q.Underscore())
	}
}

func TestParseQuarter_Invalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "2024", "2024-Q5", "2024-Q0", "24-Q1", "Q1-2024", "2024-q1", "abcd-Q1"} {
		if _, err := ParseQuarter(s); !errors.Is(err, ErrInvalidQuarter) {
			t.Errorf("%q: expected ErrInvalidQuarter, got %v", s, err)
		}
	}
}

func TestQuarter_Range(t *testing.T) {
	t.Parallel()

	q := Quarter{Year: 2024, Q: 3}

	if got := q.Start(); !got.Equal(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %v", got)
	}
	if got := q.End(); !got.Equal(time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end: %v", got)
	}
	if !q.Contains(time.Date(2024, time.August, 20, 12, 0, 0, 0, time.UTC)) {
		t.Error("expected August date inside Q3")
	}
	if q.Contains(time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("end bound must be exclusive")
	}
}

func TestQuarter_Midpoint(t *testing.T) {
	t.Parallel()

	q := Quarter{Year: 2024, Q: 1}
	if got := q.Midpoint(); !got.Equal(time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected Feb 15, got %v", got)
	}
}
