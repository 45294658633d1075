// Package result carries asynchronous task outcomes from the uploader and
// the auth session to the single handler in the agent loop.
package result

// Kind tags a Result as exactly one variant.
type Kind int

const (
	// Event is an informational lifecycle message (auth state changes and
	// similar).
	Event Kind = iota
	// Debug is diagnostic text.
	Debug
	// Error is a failed attempt: code plus message.
	Error
	// Payload is the raw response of a completed request.
	Payload
)

func (k Kind) String() string {
	switch k {
	case Event:
		return "event"
	case Debug:
		return "debug"
	case Error:
		return "error"
	case Payload:
		return "payload"
	default:
		return "unknown"
	}
}

// Result is one asynchronous task outcome. TaskID identifies the operation
// that produced it (e.g. "RTDB_Send_Temperature", "authTask").
type Result struct {
	Kind    Kind
	TaskID  string
	Code    int
	Message string
	Payload string
}
