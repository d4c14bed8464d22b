package testutil

// ReporterEvent is one call made on a RecordingReporter.
type ReporterEvent struct {
	Kind string // start, update, success or fail
	Text string
}

// RecordingReporter records every status it receives.
type RecordingReporter struct {
	Events []ReporterEvent
}

func (r *RecordingReporter) Start(text string)   { r.record("start", text) }
func (r *RecordingReporter) Update(text string)  { r.record("update", text) }
func (r *RecordingReporter) Success(text string) { r.record("success", text) }
func (r *RecordingReporter) Fail(text string)    { r.record("fail", text) }

// Texts returns the text of every event of kind.
func (r *RecordingReporter) Texts(kind string) []string {
	var texts []string
	for _, e := range r.Events {
		if e.Kind == kind {
			texts = append(texts, e.Text)
		}
	}
	return texts
}

// Last returns the most recent event.
func (r *RecordingReporter) Last() ReporterEvent {
	if len(r.Events) == 0 {
		return ReporterEvent{}
	}
	return r.Events[len(r.Events)-1]
}

func (r *RecordingReporter) record(kind, text string) {
	r.Events = append(r.Events, ReporterEvent{Kind: kind, Text: text})
}
