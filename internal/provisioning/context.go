package provisioning

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/imamik/storagelab/internal/config"
	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/platform/s3"
	"github.com/imamik/storagelab/internal/platform/ssh"
	"github.com/imamik/storagelab/internal/waiter"
)

// ErrNoShell is returned when a phase needs a remote shell and none is configured.
var ErrNoShell = errors.New("no remote shell configured")

// Clients groups the cloud clients a workflow may use. Unused ones may be nil.
type Clients struct {
	Compute     aws.ComputeManager
	FileSystems aws.FileSystemManager
	Queries     aws.QueryRunner
	Objects     s3.ObjectStore
	Shell       ShellFunc
}

// Context wraps all dependencies and state needed for a workflow phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Observer Observer
	Waits    config.WaitPolicies

	Compute     aws.ComputeManager
	FileSystems aws.FileSystemManager
	Queries     aws.QueryRunner
	Objects     s3.ObjectStore
	Shell       ShellFunc

	// Log receives the waiter's leveled output.
	Log     logr.Logger
	Metrics *waiter.Metrics
	Clock   waiter.Clock
}

// NewContext creates a new workflow context.
func NewContext(ctx context.Context, cfg *config.Config, clients Clients) *Context {
	waits := config.DefaultWaitPolicies()
	if cfg != nil && cfg.Waits.Validate() == nil {
		waits = cfg.Waits
	}
	return &Context{
		Context:     ctx,
		Config:      cfg,
		State:       NewState(),
		Observer:    NewConsoleObserver(),
		Waits:       waits,
		Compute:     clients.Compute,
		FileSystems: clients.FileSystems,
		Queries:     clients.Queries,
		Objects:     clients.Objects,
		Shell:       clients.Shell,
		Log:         logr.Discard(),
		Clock:       waiter.RealClock(),
	}
}

// WithContext returns a shallow copy of c bound to ctx. State and clients
// are shared with c.
func (c *Context) WithContext(ctx context.Context) *Context {
	cp := *c
	cp.Context = ctx
	return &cp
}

// OpenShell opens a remote shell on host.
func (c *Context) OpenShell(host string) (ssh.Executor, error) {
	if c.Shell == nil {
		return nil, ErrNoShell
	}
	return c.Shell(host)
}
