package provisioning

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/storagelab/internal/config"
	"github.com/imamik/storagelab/internal/platform/aws"
	"github.com/imamik/storagelab/internal/waiter"
)

func waitContext(t *testing.T, maxAttempts int) (*Context, *RecordingObserver) {
	t.Helper()
	ctx, observer := testContext(t)
	ctx.Waits = config.UniformWaitPolicies(config.WaitPolicy{PollInterval: time.Millisecond, MaxAttempts: maxAttempts})
	return ctx, observer
}

// volumeSequence returns a describe function that walks through states and
// then repeats the last one.
func volumeSequence(states ...string) (func(context.Context, string) (*aws.Volume, error), *atomic.Int32) {
	var calls atomic.Int32
	return func(_ context.Context, id string) (*aws.Volume, error) {
		n := int(calls.Add(1)) - 1
		if n >= len(states) {
			n = len(states) - 1
		}
		return &aws.Volume{ID: id, State: states[n]}, nil
	}, &calls
}

func TestWait_Succeeds(t *testing.T) {
	t.Parallel()
	ctx, observer := waitContext(t, 10)
	reg := prometheus.NewRegistry()
	metrics, err := waiter.NewMetrics(reg)
	require.NoError(t, err)
	ctx.Metrics = metrics

	describe, calls := volumeSequence("creating", "creating", "available")
	mock := &aws.MockClient{DescribeVolumeFunc: describe}

	vol, err := Wait(ctx, "vol-1", "volume-available", aws.VolumeAvailable, aws.VolumeStateProbe(mock, "vol-1"))
	require.NoError(t, err)
	assert.Equal(t, "available", vol.State)
	assert.Equal(t, int32(3), calls.Load())

	assert.Len(t, observer.EventsOf(EventWaitStarted), 1)
	assert.Len(t, observer.EventsOf(EventWaitAttempt), 2)
	require.Len(t, observer.EventsOf(EventWaitCompleted), 1)
	assert.Equal(t, "3", observer.EventsOf(EventWaitCompleted)[0].Fields["attempts"])

	assert.Equal(t, 1.0, outcomeCount(t, reg, "volume-available", "succeeded"))
	series, err := testutil.GatherAndCount(reg, "storagelab_waiter_outcomes_total", "storagelab_waiter_attempts", "storagelab_waiter_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, series)
}

func outcomeCount(t *testing.T, reg *prometheus.Registry, operation, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "storagelab_waiter_outcomes_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestWait_FailureState(t *testing.T) {
	t.Parallel()
	ctx, observer := waitContext(t, 10)

	describe, _ := volumeSequence("creating", "error")
	mock := &aws.MockClient{DescribeVolumeFunc: describe}

	_, err := Wait(ctx, "vol-1", "volume-available", aws.VolumeAvailable, aws.VolumeStateProbe(mock, "vol-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, waiter.ErrFailed)

	var outcomeErr *waiter.OutcomeError
	require.ErrorAs(t, err, &outcomeErr)
	assert.Equal(t, "error", outcomeErr.State)
	assert.Len(t, observer.EventsOf(EventWaitFailed), 1)
}

func TestWait_TimesOut(t *testing.T) {
	t.Parallel()
	ctx, _ := waitContext(t, 3)

	describe, calls := volumeSequence("creating")
	mock := &aws.MockClient{DescribeVolumeFunc: describe}

	_, err := Wait(ctx, "vol-1", "volume-available", aws.VolumeAvailable, aws.VolumeStateProbe(mock, "vol-1"))
	assert.ErrorIs(t, err, waiter.ErrTimedOut)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWait_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, _ := waitContext(t, 10)
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx = ctx.WithContext(cctx)

	_, err := Wait(ctx, "i-1", "instance-running", aws.InstanceRunning, aws.InstanceStateProbe(&aws.MockClient{}, "i-1"))
	assert.ErrorIs(t, err, waiter.ErrCancelled)
}

func TestWait_ProbeError(t *testing.T) {
	t.Parallel()
	ctx, observer := waitContext(t, 10)
	denied := errors.New("access denied")
	mock := &aws.MockClient{DescribeVolumeFunc: func(context.Context, string) (*aws.Volume, error) {
		return nil, denied
	}}

	_, err := Wait(ctx, "vol-1", "volume-available", aws.VolumeAvailable, aws.VolumeStateProbe(mock, "vol-1"))
	assert.True(t, waiter.IsProbeError(err))
	assert.ErrorIs(t, err, denied)
	assert.Len(t, observer.EventsOf(EventPhaseFailed), 1)
}

func TestWait_InvalidPolicy(t *testing.T) {
	t.Parallel()
	ctx, _ := testContext(t)
	ctx.Waits = config.WaitPolicies{}

	_, err := Wait(ctx, "vol-1", "volume-available", aws.VolumeAvailable, aws.VolumeStateProbe(&aws.MockClient{}, "vol-1"))
	assert.True(t, waiter.IsConfigurationError(err))
}
