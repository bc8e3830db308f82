package provisioning

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/imamik/storagelab/internal/waiter"
)

// Observer defines the interface for structured observability during workflows.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured workflow event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "instance", "volume")
	Message   string            // Human-readable message
	Resource  string            // Resource ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of workflow event.
type EventType string

const (
	// EventPhaseStarted indicates a phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already exists.
	EventResourceExists EventType = "resource.exists"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"

	// EventWaitStarted indicates a wait on remote state has started.
	EventWaitStarted EventType = "wait.started"
	// EventWaitAttempt reports a pending observation during a wait.
	EventWaitAttempt EventType = "wait.attempt"
	// EventWaitCompleted indicates the awaited state was reached.
	EventWaitCompleted EventType = "wait.completed"
	// EventWaitFailed indicates a wait ended in failure, timeout or cancellation.
	EventWaitFailed EventType = "wait.failed"
)

// ConsoleObserver implements Observer using standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer interface.
func (o *ConsoleObserver) Event(event Event) {
	log.Print(FormatEvent(o.merge(event)))
}

// WithFields implements Observer interface.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	return &ConsoleObserver{
		contextFields: mergeFields(o.contextFields, fields),
	}
}

func (o *ConsoleObserver) merge(event Event) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	// event fields win over context fields
	event.Fields = mergeFields(o.contextFields, event.Fields)
	return event
}

func mergeFields(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// FormatEvent renders an event as one console line. Fields are sorted by key.
func FormatEvent(event Event) string {
	parts := []string{string(event.Type)}

	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("creating %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resourceID string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resourceID,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceExists logs when a resource already exists.
func LogResourceExists(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s already exists", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleting logs a resource deletion start event.
func LogResourceDeleting(observer Observer, phase, resourceType, resourceID string) {
	observer.Event(Event{
		Type:     EventResourceDeleting,
		Phase:    phase,
		Resource: resourceID,
		Message:  fmt.Sprintf("deleting %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogWaitStarted logs the start of a wait with its policy.
func LogWaitStarted(observer Observer, resource string, spec waiter.Spec) {
	fields := map[string]string{
		"terminal": strings.Join(spec.TerminalStates, "|"),
		"interval": spec.PollInterval.String(),
	}
	if len(spec.FailureStates) > 0 {
		fields["failure"] = strings.Join(spec.FailureStates, "|")
	}
	if spec.MaxAttempts > 0 {
		fields["max_attempts"] = fmt.Sprint(spec.MaxAttempts)
	}
	if spec.MaxElapsed > 0 {
		fields["timeout"] = spec.MaxElapsed.String()
	}
	observer.Event(Event{
		Type:     EventWaitStarted,
		Phase:    spec.Name,
		Resource: resource,
		Message:  "waiting",
		Fields:   fields,
	})
}

// LogWaitAttempt logs a pending observation.
func LogWaitAttempt(observer Observer, resource string, a waiter.Attempt) {
	state := a.State
	if state == "" {
		state = "unknown"
	}
	observer.Event(Event{
		Type:     EventWaitAttempt,
		Phase:    a.Name,
		Resource: resource,
		Message:  fmt.Sprintf("state %s, checking again in %v", state, a.NextDelay.Round(time.Millisecond)),
		Fields: map[string]string{
			"attempt": fmt.Sprint(a.Number),
			"elapsed": a.Elapsed.Round(time.Millisecond).String(),
		},
	})
}

// LogWaitFinished logs how a wait ended.
func LogWaitFinished[T any](observer Observer, resource string, outcome waiter.Outcome[T]) {
	eventType := EventWaitCompleted
	if !outcome.Succeeded() {
		eventType = EventWaitFailed
	}
	fields := map[string]string{
		"outcome":  outcome.Kind.String(),
		"attempts": fmt.Sprint(outcome.Attempts),
	}
	if outcome.Reason != "" {
		fields["reason"] = outcome.Reason
	}
	observer.Event(Event{
		Type:     eventType,
		Phase:    outcome.Name,
		Resource: resource,
		Message:  fmt.Sprintf("state %q after %v", outcome.State, outcome.Elapsed.Round(time.Millisecond)),
		Fields:   fields,
	})
}
