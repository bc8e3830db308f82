// Package config defines the storage lab configuration: AWS credentials and
// region, the instance the lab works against, volume and file-system
// settings, the object-store layout, the query catalog and the wait
// policies used by every remote wait.
//
// Values come from an optional YAML file, then environment variables, then
// defaults. [Config.Validate] checks the merged result.
package config
