package realtime

import (
	"encoding/json"
	"sync"
	"testing"
)

// fakeSink records every frame delivered to a connection.
type fakeSink struct {
	mu     sync.Mutex
	frames [][]byte
	full   bool // simulate a saturated send buffer
}

func (s *fakeSink) Send(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return false
	}
	s.frames = append(s.frames, data)
	return true
}

// envelopes decodes every recorded frame.
func (s *fakeSink) envelopes(t *testing.T) []Envelope {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Envelope, 0, len(s.frames))
	for _, frame := range s.frames {
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("undecodable frame %q: %v", frame, err)
		}
		out = append(out, env)
	}
	return out
}

// eventNames returns the event name of every recorded frame, in order.
func (s *fakeSink) eventNames(t *testing.T) []string {
	t.Helper()
	envs := s.envelopes(t)
	names := make([]string, len(envs))
	for i, env := range envs {
		names[i] = env.Event
	}
	return names
}

// lastPayload decodes the data of the most recent frame into out.
func (s *fakeSink) lastPayload(t *testing.T, out any) {
	t.Helper()
	envs := s.envelopes(t)
	if len(envs) == 0 {
		t.Fatal("no frames recorded")
	}
	if err := json.Unmarshal(envs[len(envs)-1].Data, out); err != nil {
		t.Fatalf("undecodable payload: %v", err)
	}
}

// authedSession registers a fresh authenticated session and returns it
// with its sink.
func authedSession(t *testing.T, reg *Registry, connID string, userID int64) (*Session, *fakeSink) {
	t.Helper()
	sink := &fakeSink{}
	reg.Connect(connID, sink)
	sess, err := reg.Authenticate(connID, userID)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return sess, sink
}

// mustMarshal builds a wire frame for an inbound command.
func mustMarshal(t *testing.T, event string, payload any) []byte {
	t.Helper()
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		data = raw
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return frame
}
