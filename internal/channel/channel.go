// Package channel defines the messages exchanged between the browser sketch
// and ssamgit, independent of the transport that carries them.
package channel

import (
	"encoding/json"

	"github.com/bashhack/ssamgit/internal/errors"
	"github.com/bashhack/ssamgit/internal/format"
)

// Event names on the wire.
const (
	// EventGit is sent by the browser to request a snapshot commit.
	EventGit = "ssam:git"
	// EventLog carries an informational Notice.
	EventLog = "ssam:log"
	// EventWarn carries a warning or error Notice.
	EventWarn = "ssam:warn"
	// EventGitSuccess carries the request payload plus the commit hash.
	EventGitSuccess = "ssam:git-success"
)

// HashField is the key added to a request payload on success.
const HashField = "hash"

// Client is the connection a request arrived on. Replies go back through it.
type Client interface {
	Send(event string, data any) error
}

// Broadcaster sends an event to every connected client.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// Level selects the event a Notice is sent as.
type Level int

const (
	LevelLog Level = iota
	LevelWarn
)

// Event returns the wire event for the level
func (l Level) Event() string {
	if l == LevelWarn {
		return EventWarn
	}
	return EventLog
}

// String implements fmt.Stringer
func (l Level) String() string {
	if l == LevelWarn {
		return "warn"
	}
	return "log"
}

// Notice is the body of ssam:log and ssam:warn.
type Notice struct {
	Msg string `json:"msg"`
}

// NewNotice builds a Notice with every terminal escape removed from msg.
// The browser must never receive raw escape codes.
func NewNotice(msg string) Notice {
	return Notice{Msg: format.StripANSI(msg)}
}

// Payload is a request body kept as raw JSON per field so that it can be
// echoed back without being interpreted.
type Payload map[string]json.RawMessage

// DecodePayload parses a request body. Only JSON objects are accepted since
// their fields must be echoed back.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}
	if p == nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "payload must be a JSON object")
	}
	return p, nil
}

// WithHash returns a copy of p with the hash field set. Every other field is
// left unchanged; an existing hash field is replaced.
func (p Payload) WithHash(hash string) Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	encoded, _ := json.Marshal(hash)
	out[HashField] = encoded
	return out
}
