package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/imamik/storagelab/internal/waiter"
)

// WaitKind selects the policy for a family of remote waits.
type WaitKind string

// Wait kinds, one per kind of remote resource.
const (
	WaitInstance   WaitKind = "instance"
	WaitVolume     WaitKind = "volume"
	WaitFileSystem WaitKind = "filesystem"
	WaitQuery      WaitKind = "query"
)

// WaitPolicy holds the pacing and budget of one wait kind.
type WaitPolicy struct {
	PollInterval time.Duration
	MaxInterval  time.Duration
	Backoff      float64
	MaxAttempts  int
	Timeout      time.Duration
}

// Spec builds a waiter.Spec from the policy and the caller's state sets.
func (p WaitPolicy) Spec(name string, terminal, failure []string) waiter.Spec {
	return waiter.Spec{
		Name:              name,
		TerminalStates:    terminal,
		FailureStates:     failure,
		PollInterval:      p.PollInterval,
		MaxInterval:       p.MaxInterval,
		BackoffMultiplier: p.Backoff,
		MaxAttempts:       p.MaxAttempts,
		MaxElapsed:        p.Timeout,
	}
}

// WaitPolicies holds one policy per wait kind.
type WaitPolicies struct {
	Instance   WaitPolicy
	Volume     WaitPolicy
	FileSystem WaitPolicy
	Query      WaitPolicy
}

// DefaultWaitPolicies mirrors the pacing of the SDK's own waiters for
// instances and volumes; file systems and queries back off from a short
// interval because they usually settle within seconds.
func DefaultWaitPolicies() WaitPolicies {
	return WaitPolicies{
		Instance:   WaitPolicy{PollInterval: 15 * time.Second, MaxAttempts: 40},
		Volume:     WaitPolicy{PollInterval: 15 * time.Second, MaxAttempts: 40},
		FileSystem: WaitPolicy{PollInterval: 2 * time.Second, MaxInterval: 16 * time.Second, Backoff: 2, Timeout: 10 * time.Minute},
		Query:      WaitPolicy{PollInterval: time.Second, MaxInterval: 8 * time.Second, Backoff: 2, Timeout: 30 * time.Minute},
	}
}

// UniformWaitPolicies applies p to every wait kind.
func UniformWaitPolicies(p WaitPolicy) WaitPolicies {
	return WaitPolicies{Instance: p, Volume: p, FileSystem: p, Query: p}
}

// Policy returns the policy for kind.
func (w WaitPolicies) Policy(kind WaitKind) WaitPolicy {
	switch kind {
	case WaitVolume:
		return w.Volume
	case WaitFileSystem:
		return w.FileSystem
	case WaitQuery:
		return w.Query
	default:
		return w.Instance
	}
}

// Validate checks every policy by building a spec from it.
func (w WaitPolicies) Validate() error {
	for _, kind := range []WaitKind{WaitInstance, WaitVolume, WaitFileSystem, WaitQuery} {
		if err := w.Policy(kind).Spec(string(kind), nil, nil).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadWaitPolicies loads wait policies from environment variables.
// If a variable is not set or invalid, the default is kept.
//
// Environment Variables, with KIND one of INSTANCE, VOLUME, FILESYSTEM, QUERY:
//   - STORAGELAB_<KIND>_POLL_INTERVAL
//   - STORAGELAB_<KIND>_MAX_INTERVAL
//   - STORAGELAB_<KIND>_BACKOFF
//   - STORAGELAB_<KIND>_MAX_ATTEMPTS
//   - STORAGELAB_<KIND>_TIMEOUT
func LoadWaitPolicies() WaitPolicies {
	d := DefaultWaitPolicies()
	return WaitPolicies{
		Instance:   loadPolicy("INSTANCE", d.Instance),
		Volume:     loadPolicy("VOLUME", d.Volume),
		FileSystem: loadPolicy("FILESYSTEM", d.FileSystem),
		Query:      loadPolicy("QUERY", d.Query),
	}
}

func loadPolicy(kind string, def WaitPolicy) WaitPolicy {
	prefix := fmt.Sprintf("STORAGELAB_%s_", kind)
	return WaitPolicy{
		PollInterval: parseDuration(prefix+"POLL_INTERVAL", def.PollInterval),
		MaxInterval:  parseDuration(prefix+"MAX_INTERVAL", def.MaxInterval),
		Backoff:      parseFloat(prefix+"BACKOFF", def.Backoff),
		MaxAttempts:  parseInt(prefix+"MAX_ATTEMPTS", def.MaxAttempts),
		Timeout:      parseDuration(prefix+"TIMEOUT", def.Timeout),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}

func parseFloat(envVar string, defaultVal float64) float64 {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}

	return f
}
