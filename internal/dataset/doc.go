// Package dataset generates the synthetic student internship records used to
// exercise object storage and interactive queries, encodes them as CSV and
// newline-delimited JSON, and builds the Athena DDL that exposes both files
// as external tables.
package dataset
