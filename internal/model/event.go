package model

// EventKind identifies the typed notifications pushed to subscribers.
type EventKind string

const (
	EventPatientCreated EventKind = "patientCreated"
	EventActionCreated  EventKind = "clinicalActionCreated"
	EventActionUpdated  EventKind = "clinicalActionUpdated"
)

// Event is the wire envelope delivered to a subscriber.
type Event struct {
	Kind    EventKind   `json:"type"`
	Payload interface{} `json:"payload"`
}
