package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidQuarter is returned when a quarter identifier cannot be parsed.
var ErrInvalidQuarter = errors.New("invalid quarter identifier")

// Quarter identifies one IFTA reporting quarter, e.g. "2024-Q1".
type Quarter struct {
	Year int
	Q    int // 1..4
}

// ParseQuarter parses a canonical quarter identifier of the form "2024-Q1".
func ParseQuarter(s string) (Quarter, error) {
	parts := strings.SplitN(s, "-Q", 2)
	if len(parts) != 2 {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 2000 || year > 2999 {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}

	q, err := strconv.Atoi(parts[1])
	if err != nil || q < 1 || q > 4 {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
	}

	return Quarter{Year: year, Q: q}, nil
}

// QuarterOf returns the quarter containing the given date.
func QuarterOf(t time.Time) Quarter {
	return Quarter{
		Year: t.Year(),
		Q:    (int(t.Month())-1)/3 + 1,
	}
}

// IsZero reports whether the quarter is unset.
func (q Quarter) IsZero() bool {
	return q.Year == 0 && q.Q == 0
}

// String returns the canonical form, e.g. "2024-Q1".
func (q Quarter) String() string {
	return fmt.Sprintf("%d-Q%d", q.Year, q.Q)
}

// Underscore returns the filename-safe form, e.g. "2024_Q1". Downstream
// filing workflows depend on this exact shape.
func (q Quarter) Underscore() string {
	return fmt.Sprintf("%d_Q%d", q.Year, q.Q)
}

// Start returns the first day of the quarter (UTC).
func (q Quarter) Start() time.Time {
	month := time.Month((q.Q-1)*3 + 1)
	return time.Date(q.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first day of the following quarter (UTC), i.e. the
// exclusive upper bound of the quarter's date range.
func (q Quarter) End() time.Time {
	return q.Start().AddDate(0, 3, 0)
}

// Midpoint returns the fixed placeholder date used for synthesized fuel-only
// records: the 15th of the quarter's middle month.
func (q Quarter) Midpoint() time.Time {
	return q.Start().AddDate(0, 1, 14)
}

// Contains reports whether the given date falls inside the quarter.
func (q Quarter) Contains(t time.Time) bool {
	return !t.Before(q.Start()) && t.Before(q.End())
}
