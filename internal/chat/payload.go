package chat

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

func init() {
	// Nested mapping values travel inside an interface and need a
	// registered concrete type; gob already knows the basic types.
	gob.Register(map[string]any{})
}

// EncodePayload serializes a single top-level value for transport inside
// a frame.
func EncodePayload(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, fmt.Errorf("chat: encode payload: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePayload reverses EncodePayload.
func DecodePayload(data []byte) (any, error) {
	var v any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("chat: decode payload: %w", err)
	}
	return v, nil
}

// Send frames and writes one serialized value.
func Send(w io.Writer, v any) error {
	payload, err := EncodePayload(v)
	if err != nil {
		return err
	}
	return WriteFrame(w, payload)
}

// Receive reads one frame and deserializes its value.
func Receive(r io.Reader) (any, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return DecodePayload(payload)
}
