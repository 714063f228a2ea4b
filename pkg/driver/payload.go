package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"

	"github.com/unproducts/unmail/pkg/mail"
)

// Payload is a vendor request body in generic JSON form.
type Payload = map[string]any

// PayloadModifier transforms a vendor payload right before it is sent.
type PayloadModifier func(Payload) Payload

// ModifierSlot holds a driver's single payload modifier.
// Embed it in an adapter to satisfy Adapter.SetPayloadModifier.
type ModifierSlot struct {
	fn PayloadModifier
	mu sync.RWMutex
}

// SetPayloadModifier replaces the installed modifier. Nil means identity.
func (s *ModifierSlot) SetPayloadModifier(fn PayloadModifier) {
	s.mu.Lock()
	s.fn = fn
	s.mu.Unlock()
}

// Modify runs the installed modifier on p.
func (s *ModifierSlot) Modify(p Payload) Payload {
	s.mu.RLock()
	fn := s.fn
	s.mu.RUnlock()

	if fn == nil {
		return p
	}
	return fn(p)
}

// Encode converts a typed vendor request into a Payload.
// Numbers are kept as json.Number so large template IDs survive untouched.
func Encode(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrEncodePayload, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Join(ErrEncodePayload, err)
	}
	return p, nil
}

// BuildPayload encodes v and runs the slot's modifier on the result.
// Encoding failures are reported as a *mail.ProcessingError for driverType.
func (s *ModifierSlot) BuildPayload(driverType string, v any) (Payload, error) {
	p, err := Encode(v)
	if err != nil {
		return nil, mail.WrapProcessingError(driverType, "failed to build vendor payload", err)
	}
	return s.Modify(p), nil
}
