package ratelimit

import "time"

// NoOpMetrics discards all observations. Used in tests and when metrics are
// disabled.
type NoOpMetrics struct{}

func NewNoOpMetrics() *NoOpMetrics { return &NoOpMetrics{} }

func (NoOpMetrics) RecordAllowed(scope, endpoint string)              {}
func (NoOpMetrics) RecordDenied(scope, endpoint string)               {}
func (NoOpMetrics) RecordCheckDuration(scope string, d time.Duration) {}
func (NoOpMetrics) SetActiveKeys(scope string, count int)             {}
