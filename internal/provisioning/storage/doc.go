// Package storage attaches a block volume and a shared file system to the lab
// instance, optionally mounting both over SSH and writing a probe file to
// each mount point.
package storage
