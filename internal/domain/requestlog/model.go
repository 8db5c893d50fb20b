package requestlog

import "time"

// Outcome classifies how a request to the analytics service ended.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeShapeError     Outcome = "shape_error"
	OutcomeStale          Outcome = "stale"
)

// Entry records one request to the analytics service
type Entry struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	Endpoint   string    `json:"endpoint"`
	Payload    string    `json:"payload,omitempty"` // JSON string
	Token      uint64    `json:"token"`
	Outcome    Outcome   `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
