package channel

import (
	"encoding/json"
	"sync"
)

// Message is one event captured by a Recorder
type Message struct {
	Event string
	Data  any
}

// Msg returns the text of a Notice message, or "" for any other payload
func (m Message) Msg() string {
	if n, ok := m.Data.(Notice); ok {
		return n.Msg
	}
	return ""
}

// Recorder is a Client and Broadcaster that keeps every message it is given.
// It backs the one-shot snapshot command and tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message

	// OnSend, when set, is called for every message after it is recorded.
	OnSend func(Message)
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send implements Client
func (r *Recorder) Send(event string, data any) error {
	r.record(event, data)
	return nil
}

// Broadcast implements Broadcaster
func (r *Recorder) Broadcast(event string, data any) {
	r.record(event, data)
}

func (r *Recorder) record(event string, data any) {
	m := Message{Event: event, Data: data}

	r.mu.Lock()
	r.messages = append(r.messages, m)
	fn := r.OnSend
	r.mu.Unlock()

	if fn != nil {
		fn(m)
	}
}

// Messages returns every recorded message in order
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Events returns the messages recorded for event
func (r *Recorder) Events(event string) []Message {
	var out []Message
	for _, m := range r.Messages() {
		if m.Event == event {
			out = append(out, m)
		}
	}
	return out
}

// JSON returns the data of m as it would appear on the wire
func (m Message) JSON() (json.RawMessage, error) {
	return json.Marshal(m.Data)
}
