package compute

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/storagelab/internal/platform/aws"
)

func TestLifecycle_FullPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	lc := NewLifecycle(StateNone)

	steps := []struct {
		event string
		want  string
	}{
		{EventLaunch, StateLaunching},
		{EventLaunched, StateRunning},
		{EventStop, StateStopping},
		{EventStopped, StateStopped},
		{EventTerminate, StateTerminating},
		{EventTerminated, StateTerminated},
	}
	for _, s := range steps {
		require.NoError(t, lc.Fire(ctx, s.event), s.event)
		assert.Equal(t, s.want, lc.Current())
	}
	assert.False(t, lc.Can(EventLaunch))
}

func TestLifecycle_RejectsOutOfOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		from  string
		event string
	}{
		{StateNone, EventStop},
		{StateRunning, EventTerminate},
		{StateRunning, EventLaunch},
		{StateStopped, EventStop},
		{StateTerminated, EventStop},
		{StateTerminated, EventTerminate},
	}
	for _, tt := range tests {
		lc := NewLifecycle(tt.from)
		err := lc.Fire(ctx, tt.event)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s from %s", tt.event, tt.from)
		assert.Equal(t, tt.from, lc.Current())
	}
}

func TestLifecycleFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		aws.InstancePending:      StateLaunching,
		aws.InstanceRunningState: StateRunning,
		aws.InstanceStopping:     StateStopping,
		aws.InstanceStoppedState: StateStopped,
		aws.InstanceShuttingDown: StateTerminating,
		aws.InstanceTerminated:   StateTerminated,
		"":                       StateNone,
	}
	for remote, want := range tests {
		assert.Equal(t, want, LifecycleFor(remote).Current(), remote)
	}
}
