// Package query runs interactive SQL statements and builds the dataset
// catalog: a database with one external table over the CSV files and one
// over the JSON files, each checked with a bounded SELECT.
//
// A statement whose wait is cancelled or times out is stopped remotely so it
// does not keep scanning data after the caller gave up.
package query
