// Package async runs independent provisioning steps concurrently.
package async
