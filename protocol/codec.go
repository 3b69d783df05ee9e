package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyFrame   = errors.New("protocol: empty frame")
	ErrEmptyPayload = errors.New("protocol: empty payload")
)

func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope type nil")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload for %q", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %q payload: %w", t, err)
	}

	var e = Envelope{t, pb}

	return json.Marshal(e)
}

// MustEncode is Encode for payloads that are known to marshal.
func MustEncode(t string, payload any) []byte {
	b, err := Encode(t, payload)
	if err != nil {
		panic(err)
	}
	return b
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w for type %q", ErrEmptyPayload, env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %q payload: %w", env.T, err)
	}
	return out, nil
}
