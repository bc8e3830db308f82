package provisioning

import "sync"

type recording struct {
	mu       sync.Mutex
	events   []Event
	messages []string
}

// RecordingObserver keeps every event and printf line in memory.
// It is safe for concurrent use.
type RecordingObserver struct {
	rec    *recording
	fields map[string]string
}

// NewRecordingObserver creates an empty recorder.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{
		rec:    &recording{},
		fields: map[string]string{},
	}
}

// Printf implements Logger.
func (r *RecordingObserver) Printf(format string, _ ...interface{}) {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	r.rec.messages = append(r.rec.messages, format)
}

// Event implements Observer.
func (r *RecordingObserver) Event(event Event) {
	event.Fields = mergeFields(r.fields, event.Fields)
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	r.rec.events = append(r.rec.events, event)
}

// WithFields implements Observer. The derived observer records into the
// same event list.
func (r *RecordingObserver) WithFields(fields map[string]string) Observer {
	return &RecordingObserver{
		rec:    r.rec,
		fields: mergeFields(r.fields, fields),
	}
}

// Events returns a copy of the recorded events.
func (r *RecordingObserver) Events() []Event {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return append([]Event(nil), r.rec.events...)
}

// EventsOf returns the recorded events of type t.
func (r *RecordingObserver) EventsOf(t EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns the recorded printf format strings.
func (r *RecordingObserver) Messages() []string {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return append([]string(nil), r.rec.messages...)
}
