package ui

// Severity classifies an event sent to the view layer.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// String returns the string representation of a severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a notification destined for whatever front-end is attached.
type Event struct {
	Severity Severity
	Message  string
}

// Boundary is the injected view-layer interface. Core packages never
// touch a presentation layer directly; they emit events and ask for
// confirmation through this interface so they can run headless.
type Boundary interface {
	// Notify delivers a one-way event to the front-end.
	Notify(ev Event)
	// Confirm asks the operator a yes/no question and blocks for the answer.
	Confirm(prompt string) bool
}

// Silent is a Boundary that swallows events and declines every
// confirmation. It is the safe default: nothing destructive proceeds
// without an operator attached.
type Silent struct{}

// Notify discards the event.
func (Silent) Notify(Event) {}

// Confirm always declines.
func (Silent) Confirm(string) bool { return false }

// Recorder captures everything sent through the boundary. Intended for
// tests and scripted runs.
type Recorder struct {
	Events  []Event
	Prompts []string
	// Answer is returned from every Confirm call.
	Answer bool
}

// Notify records the event.
func (r *Recorder) Notify(ev Event) {
	r.Events = append(r.Events, ev)
}

// Confirm records the prompt and returns the preset answer.
func (r *Recorder) Confirm(prompt string) bool {
	r.Prompts = append(r.Prompts, prompt)
	return r.Answer
}
