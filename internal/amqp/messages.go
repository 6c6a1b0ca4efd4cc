package amqp

import (
	"encoding/json"
	"time"
)

// Query kinds carried by a QueryEvent.
const (
	QueryOverall  = "overall"
	QueryStartup  = "startup"
	QueryInvestor = "investor"
)

// QueryEvent records that a query was answered. Subject is the startup or
// investor name; it is empty for overall queries.
type QueryEvent struct {
	Kind      string    `json:"kind"`
	Subject   string    `json:"subject,omitempty"`
	Match     string    `json:"match,omitempty"`
	Found     bool      `json:"found"`
	Timestamp time.Time `json:"timestamp"`
}

// NewQueryEvent creates an event stamped with the current time
func NewQueryEvent(kind, subject string, found bool) *QueryEvent {
	return &QueryEvent{
		Kind:      kind,
		Subject:   subject,
		Found:     found,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *QueryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// QueryEventFromJSON creates an event from JSON bytes
func QueryEventFromJSON(data []byte) (*QueryEvent, error) {
	var e QueryEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
