package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Task is one step handed to an [Executor]. Invoking it starts the operation; returning settles it.
type Task func(ctx context.Context) error

// Executor runs an ordered list of tasks.
type Executor interface {
	Run(ctx context.Context, tasks []Task) error
}

// Policy decides what a [Waterfall] does when a task fails.
type Policy int

const (
	// StopOnError returns the first failure and never invokes the remaining tasks.
	StopOnError Policy = iota
	// ContinueOnError invokes every task and returns the first failure once all have settled.
	ContinueOnError
)

func (p Policy) String() string {
	switch p {
	case StopOnError:
		return "stop"
	case ContinueOnError:
		return "continue"
	default:
		return ""
	}
}

// Waterfall is the sequential [Executor]: task i+1 is invoked only after task i has returned.
//
// When Interval is positive every task occupies a slot of at least Interval measured from its start,
// including the last one, so N tasks never finish in less than N × Interval.
type Waterfall struct {
	Interval time.Duration
	Policy   Policy
}

// NewWaterfall creates a [Waterfall] with the given pacing interval and failure policy.
func NewWaterfall(interval time.Duration, policy Policy) *Waterfall {
	return &Waterfall{Interval: interval, Policy: policy}
}

// Run invokes tasks strictly in order. An empty list returns nil without waiting.
//
// Cancelling ctx stops the run before the next task starts and returns the context error.
func (w *Waterfall) Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	var limiter *rate.Limiter
	if w.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(w.Interval), 1)
	}

	var first error
	for _, task := range tasks {
		if err := w.wait(ctx, limiter); err != nil {
			return err
		}

		if err := task(ctx); err != nil {
			if w.Policy == StopOnError {
				return err
			}
			if first == nil {
				first = err
			}
		}
	}

	// the final task's slot has to elapse before the run settles
	if err := w.wait(ctx, limiter); err != nil {
		return err
	}

	return first
}

func (w *Waterfall) wait(ctx context.Context, limiter *rate.Limiter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
