package provisioning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/storagelab/internal/waiter"
)

func TestFormatEvent(t *testing.T) {
	t.Parallel()
	line := FormatEvent(Event{
		Type:     EventResourceCreated,
		Phase:    "volume",
		Resource: "vol-0123",
		Message:  "volume created",
		Fields:   map[string]string{"type": "volume", "az": "us-east-1a"},
	})
	assert.Equal(t, "resource.created [volume] resource=vol-0123 volume created (az=us-east-1a, type=volume)", line)

	assert.Equal(t, "phase.started starting", FormatEvent(Event{Type: EventPhaseStarted, Message: "starting"}))
}

func TestConsoleObserver_WithFields(t *testing.T) {
	t.Parallel()
	observer := NewConsoleObserver()

	derived := observer.WithFields(map[string]string{"region": "us-east-1"})
	assert.Empty(t, observer.contextFields)

	merged := derived.(*ConsoleObserver).merge(Event{Fields: map[string]string{"region": "eu-west-1", "id": "i-1"}})
	assert.Equal(t, "eu-west-1", merged.Fields["region"])
	assert.Equal(t, "i-1", merged.Fields["id"])
	assert.False(t, merged.Timestamp.IsZero())

	// Should not panic
	derived.Event(Event{Type: EventPhaseStarted, Message: "starting"})
	derived.Printf("test message: %s", "value")
}

func TestRecordingObserver_SharesEventsAcrossFields(t *testing.T) {
	t.Parallel()
	observer := NewRecordingObserver()
	derived := observer.WithFields(map[string]string{"instance": "i-1"})

	LogPhaseStart(observer, "instance")
	LogResourceCreating(derived, "volume", "volume", "lab-volume")
	LogResourceCreated(derived, "volume", "volume", "vol-1")
	LogResourceExists(observer, "objects", "bucket", "gestion-practicas-bucket")
	LogResourceDeleting(observer, "instance", "instance", "i-1")
	LogPhaseComplete(observer, "instance", 2*time.Second)
	observer.Printf("plain %s", "line")

	events := observer.Events()
	assert.Len(t, events, 6)
	assert.Equal(t, "i-1", events[1].Fields["instance"])
	assert.Equal(t, "vol-1", events[2].Resource)
	assert.Empty(t, events[0].Fields["instance"])
	assert.Equal(t, []string{"plain %s"}, observer.Messages())
}

func TestWaitEvents(t *testing.T) {
	t.Parallel()
	observer := NewRecordingObserver()

	spec := waiter.Spec{
		Name:           "volume-available",
		TerminalStates: []string{"available"},
		FailureStates:  []string{"error", "deleted"},
		PollInterval:   15 * time.Second,
		MaxAttempts:    40,
	}
	LogWaitStarted(observer, "vol-1", spec)
	LogWaitAttempt(observer, "vol-1", waiter.Attempt{Name: "volume-available", Number: 1, NextDelay: 15 * time.Second})
	LogWaitFinished(observer, "vol-1", waiter.Outcome[string]{
		Name: "volume-available", Kind: waiter.Failed, State: "error", Reason: "volume error", Attempts: 2,
	})

	events := observer.Events()
	assert.Len(t, events, 3)

	assert.Equal(t, EventWaitStarted, events[0].Type)
	assert.Equal(t, "available", events[0].Fields["terminal"])
	assert.Equal(t, "error|deleted", events[0].Fields["failure"])
	assert.Equal(t, "40", events[0].Fields["max_attempts"])
	assert.NotContains(t, events[0].Fields, "timeout")

	assert.Equal(t, EventWaitAttempt, events[1].Type)
	assert.Contains(t, events[1].Message, "state unknown")

	assert.Equal(t, EventWaitFailed, events[2].Type)
	assert.Equal(t, "volume error", events[2].Fields["reason"])
	assert.Equal(t, "failed", events[2].Fields["outcome"])
}

func TestObserver_ImplementsLogger(t *testing.T) {
	t.Parallel()
	var logger Logger
	var observer Observer = NewConsoleObserver()

	logger = observer
	assert.NotNil(t, logger)
}
