package provisioning

import (
	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/waiter"
)

// Wait polls probe until the remote resource reaches one of the states in
// states, using the context's wait policy for that kind of resource.
//
// Any outcome other than success is returned as an error: a failure state
// (waiter.ErrFailed), an exhausted budget (waiter.ErrTimedOut) or a
// cancelled context (waiter.ErrCancelled). Probe and configuration errors
// are returned as they are.
func Wait[T any](ctx *Context, resource string, name string, states aws.States, probe waiter.Probe[T]) (T, error) {
	var zero T
	spec := states.Spec(name, ctx.Waits)
	LogWaitStarted(ctx.Observer, resource, spec)

	opts := []waiter.Option{
		waiter.WithLogger(ctx.Log.WithValues("resource", resource)),
		waiter.WithMetrics(ctx.Metrics),
		waiter.WithProgress(func(a waiter.Attempt) {
			LogWaitAttempt(ctx.Observer, resource, a)
		}),
	}
	if ctx.Clock != nil {
		opts = append(opts, waiter.WithClock(ctx.Clock))
	}

	outcome, err := waiter.Wait(ctx, probe, spec, opts...)
	if err != nil {
		LogPhaseFailed(ctx.Observer, spec.Name, err)
		return zero, err
	}
	LogWaitFinished(ctx.Observer, resource, outcome)
	if !outcome.Succeeded() {
		return zero, outcome.Err()
	}
	return outcome.Payload, nil
}
