// Package aws wraps the EC2, EFS and Athena APIs used by the storage lab and
// exposes status probes for the waiter.
//
// Each client talks to the SDK through a narrow interface (EC2API, EFSAPI,
// AthenaAPI) so tests can substitute fakes. Transient API errors are retried
// inside the client with [retry]; anything left reaches the caller, and a
// probe returns it to the waiter as a probe error.
//
// Probes map remote lifecycle states onto [waiter.PollResult]:
//
//	probe := aws.InstanceStateProbe(compute, id)
//	spec := aws.InstanceRunning.Spec("instance "+id+" running", policy)
//	outcome, err := waiter.Wait(ctx, probe, spec)
package aws
