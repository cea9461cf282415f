package utils

import (
	"context"
	"time"
)

// Pacer enforces a fixed pause between consecutive outbound requests.
// A zero Interval disables pacing.
type Pacer struct {
	Interval time.Duration
}

// NewPacer creates a Pacer with the given interval.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{Interval: interval}
}

// Wait blocks for the configured interval or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return Sleep(ctx, p.Interval)
}
