package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Limit is a single request quota: Count requests per Window.
type Limit struct {
	Count  int
	Window time.Duration
}

// String renders the limit in the "N per window" notation accepted by
// ParseLimit.
func (l Limit) String() string {
	switch l.Window {
	case 24 * time.Hour:
		return fmt.Sprintf("%d per day", l.Count)
	case time.Hour:
		return fmt.Sprintf("%d per hour", l.Count)
	case time.Minute:
		return fmt.Sprintf("%d per minute", l.Count)
	case time.Second:
		return fmt.Sprintf("%d per second", l.Count)
	}
	return fmt.Sprintf("%d per %s", l.Count, l.Window)
}

// Validate rejects quotas that would disable limiting silently.
func (l Limit) Validate() error {
	if l.Count <= 0 {
		return fmt.Errorf("limit count must be positive, got %d", l.Count)
	}
	if l.Window <= 0 {
		return fmt.Errorf("limit window must be positive, got %v", l.Window)
	}
	return nil
}

// Policy is a named set of limits that all must pass for a request to be
// admitted. Route-specific policies replace the default policy entirely.
type Policy struct {
	Name   string
	Limits []Limit
}

// String renders the policy as a comma-separated list of limits, e.g.
// "200 per day, 50 per hour".
func (p Policy) String() string {
	parts := make([]string, len(p.Limits))
	for i, l := range p.Limits {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

// Validate checks every limit in the policy.
func (p Policy) Validate() error {
	if len(p.Limits) == 0 {
		return fmt.Errorf("policy %q has no limits", p.Name)
	}
	for _, l := range p.Limits {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("policy %q: %w", p.Name, err)
		}
	}
	return nil
}

// MaxWindow returns the longest window in the policy. Cleanup routines use
// it as the retention horizon.
func (p Policy) MaxWindow() time.Duration {
	var max time.Duration
	for _, l := range p.Limits {
		if l.Window > max {
			max = l.Window
		}
	}
	return max
}

// ParseLimit parses a quota expression. Both the shorthand "30/1m" and the
// spelled-out "30 per minute" form are accepted.
func ParseLimit(s string) (Limit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Limit{}, fmt.Errorf("empty limit expression")
	}

	var countStr, windowStr string
	if idx := strings.Index(s, " per "); idx >= 0 {
		countStr, windowStr = s[:idx], s[idx+len(" per "):]
	} else if idx := strings.Index(s, "/"); idx >= 0 {
		countStr, windowStr = s[:idx], s[idx+1:]
	} else {
		return Limit{}, fmt.Errorf("invalid limit expression %q, want \"N/window\" or \"N per window\"", s)
	}

	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil {
		return Limit{}, fmt.Errorf("invalid limit count in %q: %w", s, err)
	}

	window, err := parseWindow(strings.TrimSpace(windowStr))
	if err != nil {
		return Limit{}, fmt.Errorf("invalid limit window in %q: %w", s, err)
	}

	l := Limit{Count: count, Window: window}
	if err := l.Validate(); err != nil {
		return Limit{}, err
	}
	return l, nil
}

// ParseLimits parses a list of quota expressions into one policy's limits.
func ParseLimits(exprs []string) ([]Limit, error) {
	limits := make([]Limit, 0, len(exprs))
	for _, expr := range exprs {
		l, err := ParseLimit(expr)
		if err != nil {
			return nil, err
		}
		limits = append(limits, l)
	}
	return limits, nil
}

func parseWindow(s string) (time.Duration, error) {
	switch strings.ToLower(s) {
	case "second":
		return time.Second, nil
	case "minute":
		return time.Minute, nil
	case "hour":
		return time.Hour, nil
	case "day":
		return 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
