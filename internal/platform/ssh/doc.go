// Package ssh provides an SSH client for executing commands on remote servers.
//
// It is used to prepare lab instances after launch: format and mount an
// attached block volume, mount a shared file system, and write or read probe
// files. The client supports key-based authentication with configurable
// retry logic while the instance is still booting.
package ssh
