// Package retry retries cloud API calls that fail transiently.
//
// [Do] and [Value] call an operation until it succeeds, the attempt budget is
// spent, the context ends, or the operation returns an error marked with
// [Fatal]. A classifier installed with [WithRetryIf] decides which of the
// remaining errors are worth another attempt.
//
// Status probes use this package to absorb throttling and 5xx responses so
// that only real failures reach the waiter.
package retry
