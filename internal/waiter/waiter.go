package waiter

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
)

// Probe observes the remote operation once. It must not change remote state
// and must return in bounded time on its own.
type Probe[T any] func(ctx context.Context) (PollResult[T], error)

// Attempt describes a pending observation, passed to the progress callback.
type Attempt struct {
	Name      string
	Number    int
	State     string
	Elapsed   time.Duration
	NextDelay time.Duration
}

type options struct {
	clock    Clock
	logger   logr.Logger
	metrics  *Metrics
	progress func(Attempt)
}

// Option configures a Wait call.
type Option func(*options)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger logs attempts at V(1) and outcomes at V(0).
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records attempts, duration and outcome.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithProgress calls fn after every pending observation, before sleeping.
func WithProgress(fn func(Attempt)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Wait polls probe until the Spec's stopping condition is met.
//
// The returned error is non-nil only for an invalid spec (*ConfigurationError)
// or a probe failure (*ProbeError). Failure states, timeouts and cancellation
// are reported through the Outcome.
func Wait[T any](ctx context.Context, probe Probe[T], spec Spec, opts ...Option) (Outcome[T], error) {
	o := &options{
		clock:  RealClock(),
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := spec.Validate(); err != nil {
		return Outcome[T]{Name: spec.label()}, err
	}
	if probe == nil {
		return Outcome[T]{Name: spec.label()}, configError(spec, "probe", "must not be nil")
	}

	log := o.logger.WithValues("wait", spec.label())
	if overlap := spec.Overlap(); len(overlap) > 0 {
		log.Info("states listed as both terminal and failure resolve to failure", "states", overlap)
	}

	w := &wait[T]{
		spec:  spec,
		opts:  o,
		log:   log,
		start: o.clock.Now(),
	}
	outcome, err := w.run(ctx, probe)
	if err == nil {
		o.metrics.record(outcome.Name, outcome.Kind, outcome.Attempts, outcome.Elapsed)
	}
	return outcome, err
}

type wait[T any] struct {
	spec      Spec
	opts      *options
	log       logr.Logger
	start     time.Time
	attempts  int
	lastState string
}

func (w *wait[T]) run(ctx context.Context, probe Probe[T]) (Outcome[T], error) {
	var zero T
	delay := w.spec.first()

	for {
		if ctx.Err() != nil {
			return w.finish(Cancelled, w.lastState, "", zero), nil
		}

		w.attempts++
		result, err := probe(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return w.finish(Cancelled, w.lastState, "", zero), nil
			}
			w.log.Error(err, "probe failed", "attempt", w.attempts)
			w.opts.metrics.observeProbeError(w.spec.label())
			return w.outcome(Failed, w.lastState, err.Error(), zero), &ProbeError{
				Spec:    w.spec.label(),
				Attempt: w.attempts,
				Err:     err,
			}
		}
		if result.State != "" {
			w.lastState = result.State
		}

		switch {
		case result.Status == StatusFailed || w.spec.isFailure(result.State):
			return w.finish(Failed, w.lastState, result.Reason, zero), nil
		case result.Status == StatusTerminal && (len(w.spec.TerminalStates) == 0 || w.spec.isTerminal(result.State)):
			return w.finish(Succeeded, result.State, "", result.Payload), nil
		}

		elapsed := w.opts.clock.Now().Sub(w.start)
		if w.exhausted(elapsed) {
			return w.finish(TimedOut, w.lastState, "", zero), nil
		}

		sleep := delay
		if w.spec.MaxElapsed > 0 && elapsed+sleep > w.spec.MaxElapsed {
			sleep = w.spec.MaxElapsed - elapsed
		}

		w.log.V(1).Info("still waiting", "attempt", w.attempts, "state", result.State, "next", sleep)
		if w.opts.progress != nil {
			w.opts.progress(Attempt{
				Name:      w.spec.label(),
				Number:    w.attempts,
				State:     result.State,
				Elapsed:   elapsed,
				NextDelay: sleep,
			})
		}

		if ctx.Err() != nil {
			return w.finish(Cancelled, w.lastState, "", zero), nil
		}
		select {
		case <-ctx.Done():
			return w.finish(Cancelled, w.lastState, "", zero), nil
		case <-w.opts.clock.After(sleep):
		}

		delay = w.spec.next(delay)
	}
}

// exhausted reports whether another attempt is out of budget.
func (w *wait[T]) exhausted(elapsed time.Duration) bool {
	if w.spec.MaxAttempts > 0 && w.attempts >= w.spec.MaxAttempts {
		return true
	}
	return w.spec.MaxElapsed > 0 && elapsed >= w.spec.MaxElapsed
}

func (w *wait[T]) outcome(kind Kind, state, reason string, payload T) Outcome[T] {
	return Outcome[T]{
		Name:     w.spec.label(),
		Kind:     kind,
		State:    state,
		Payload:  payload,
		Reason:   reason,
		Attempts: w.attempts,
		Elapsed:  w.opts.clock.Now().Sub(w.start),
	}
}

func (w *wait[T]) finish(kind Kind, state, reason string, payload T) Outcome[T] {
	outcome := w.outcome(kind, state, reason, payload)
	w.log.Info("wait finished", "outcome", kind.String(), "state", state, "attempts", outcome.Attempts,
		"elapsed", outcome.Elapsed.Round(time.Millisecond))
	return outcome
}
