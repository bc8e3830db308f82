// Package objects seeds the lab bucket: it makes sure the bucket and the
// dataset folder exist, generates the synthetic dataset and uploads it as
// CSV and as newline-delimited JSON.
package objects
