// Package waiter turns a remote "start an operation, then poll its status"
// pattern into a bounded, cancellable wait.
//
// A caller supplies a [Probe] that reports the remote state once and a [Spec]
// describing which states count as success or failure, how often to poll, and
// when to give up. [Wait] calls the probe until one of four outcomes is
// reached:
//
//   - [Succeeded]: the probe reported a terminal state listed in the Spec.
//   - [Failed]: the probe reported a failure, or a state listed as a failure.
//   - [TimedOut]: MaxAttempts or MaxElapsed was reached first.
//   - [Cancelled]: the context was cancelled.
//
// None of these are errors. Wait returns an error only for an invalid Spec
// ([ConfigurationError]) or when the probe itself fails ([ProbeError]).
//
// Example:
//
//	outcome, err := waiter.Wait(ctx, volumeProbe, waiter.Spec{
//	    Name:           "volume-available",
//	    TerminalStates: []string{"available"},
//	    FailureStates:  []string{"error", "deleted"},
//	    PollInterval:   5 * time.Second,
//	    MaxAttempts:    40,
//	})
//	if err != nil {
//	    return err
//	}
//	if !outcome.Succeeded() {
//	    return outcome.Err()
//	}
package waiter
