package xlmap

import "time"

// Severity classifies a status event.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns a human-readable name for the Severity.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// StatusEvent is a user-facing notification emitted on operation success or
// failure.
type StatusEvent struct {
	Message  string
	Severity Severity
	Duration time.Duration // suggested display duration
}

// RefreshEvent is emitted when an import successfully replaces the field
// registry. It carries the reconstructed mapping list so the owning
// application can persist it, and the schema token when one was stored in
// the workbook.
type RefreshEvent struct {
	Fields      []FieldEntry
	Mappings    []MappingRecord
	SchemaToken string
}

// Listener is notified synchronously of workbook operations. Implementations
// must not block; the service calls them inline on its own goroutine.
type Listener interface {
	OnStatus(e StatusEvent)
	OnRegistryRefreshed(e RefreshEvent)
}

// ListenerFuncs adapts plain functions to the Listener interface. Nil
// functions are skipped.
type ListenerFuncs struct {
	Status    func(StatusEvent)
	Refreshed func(RefreshEvent)
}

// OnStatus implements Listener.
func (l ListenerFuncs) OnStatus(e StatusEvent) {
	if l.Status != nil {
		l.Status(e)
	}
}

// OnRegistryRefreshed implements Listener.
func (l ListenerFuncs) OnRegistryRefreshed(e RefreshEvent) {
	if l.Refreshed != nil {
		l.Refreshed(e)
	}
}
