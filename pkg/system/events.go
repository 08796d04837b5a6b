package system

import (
	"strings"
	"time"
)

// EventType represents the severity of a lifecycle event.
type EventType string

const (
	// EventTypeNormal indicates normal, non-problematic events.
	EventTypeNormal EventType = "Normal"

	// EventTypeWarning indicates events that may require attention.
	EventTypeWarning EventType = "Warning"
)

// EventReason represents the reason code for a lifecycle event.
type EventReason string

// System lifecycle event reasons.
const (
	// ReasonSystemStarting indicates the system began its start sequence.
	ReasonSystemStarting EventReason = "SystemStarting"

	// ReasonSystemStarted indicates every component started successfully.
	ReasonSystemStarted EventReason = "SystemStarted"

	// ReasonSystemStopping indicates the system began its stop sequence.
	ReasonSystemStopping EventReason = "SystemStopping"

	// ReasonSystemStopped indicates the stop sequence completed.
	ReasonSystemStopped EventReason = "SystemStopped"
)

// Component lifecycle event reasons.
const (
	// ReasonComponentStarting indicates a component's Start is about to run.
	ReasonComponentStarting EventReason = "ComponentStarting"

	// ReasonComponentStarted indicates a component's Start succeeded.
	ReasonComponentStarted EventReason = "ComponentStarted"

	// ReasonComponentStartFailed indicates a component's Start failed,
	// aborting the remaining start sequence.
	ReasonComponentStartFailed EventReason = "ComponentStartFailed"

	// ReasonComponentStopping indicates a component's Stop is about to run.
	ReasonComponentStopping EventReason = "ComponentStopping"

	// ReasonComponentStopped indicates a component's Stop succeeded.
	ReasonComponentStopped EventReason = "ComponentStopped"

	// ReasonComponentStopFailed indicates a component's Stop failed; the
	// stop sequence continues with the remaining components.
	ReasonComponentStopFailed EventReason = "ComponentStopFailed"
)

// TypeForReason classifies an event reason as Normal or Warning.
func TypeForReason(reason EventReason) EventType {
	if strings.HasSuffix(string(reason), "Failed") {
		return EventTypeWarning
	}
	return EventTypeNormal
}

// Event is a lifecycle notification emitted by a system while starting or
// stopping. Key is empty for system-level events.
type Event struct {
	Reason   EventReason
	Key      string
	SystemID string
	Err      error
	At       time.Time
}

// Type returns the severity classification of the event.
func (e Event) Type() EventType {
	return TypeForReason(e.Reason)
}

// Observer receives lifecycle events. Observers run synchronously on the
// goroutine driving Start or Stop and must not call back into the system's
// lifecycle operations.
type Observer func(Event)
