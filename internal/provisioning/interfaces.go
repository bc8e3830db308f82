package provisioning

import (
	"github.com/imamik/storagelab/internal/platform/ssh"
)

// Phase defines the interface for a workflow phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the logic for this phase.
	Provision(ctx *Context) error
}

// Logger is the printf-style logger phases write progress lines to.
type Logger interface {
	Printf(format string, v ...interface{})
}

// ShellFunc opens a remote shell on host. The CLI builds one from the
// configured key file and SSH user.
type ShellFunc func(host string) (ssh.Executor, error)

// PhaseFunc adapts a function to the Phase interface.
type PhaseFunc struct {
	PhaseName string
	Fn        func(ctx *Context) error
}

// Name implements Phase.
func (p PhaseFunc) Name() string { return p.PhaseName }

// Provision implements Phase.
func (p PhaseFunc) Provision(ctx *Context) error { return p.Fn(ctx) }
