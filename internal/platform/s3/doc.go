// Package s3 provides the object-store client of the storage lab.
//
// It lists and creates buckets, creates folder markers, and uploads the
// generated datasets. Uploads go through the SDK transfer manager so large
// files are sent in parts.
package s3
