// Package provisioning provides shared types, interfaces, and orchestration for
// the storage lab workflows.
//
// # Subpackages
//
//   - compute/: instance launch, stop, terminate and the full lifecycle
//   - storage/: block volumes and shared file systems
//   - objects/: bucket, folder and dataset uploads
//   - query/: interactive SQL queries and the dataset catalog
//
// # Core Types
//
// Context carries configuration, state, cloud clients, wait policies and the
// observer. Phase defines a workflow step with Name() and Provision() methods.
// State accumulates results from each phase (instance, volume, file system,
// uploaded objects, query results). Wait runs a remote-state wait with the
// context's policies and turns any outcome other than success into an error.
package provisioning
