// Package compute drives the instance lifecycle: launch, stop and terminate.
//
// Every remote transition is followed by a wait on the instance state. A
// local state machine tracks where the instance is in its lifecycle so an
// operation that does not apply to the current state (stopping a terminated
// instance, launching twice) is rejected before any API call is made.
package compute
