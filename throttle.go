package main

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces out record processing. The pipeline runs strictly
// sequentially; Wait is called before each record and the first call
// returns immediately.
type Throttle interface {
	Wait(ctx context.Context) error
}

// NewThrottle returns a limiter allowing one record per delay. A
// non-positive delay disables throttling.
func NewThrottle(delay time.Duration) Throttle {
	if delay <= 0 {
		return noThrottle{}
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

type noThrottle struct{}

func (noThrottle) Wait(context.Context) error { return nil }
