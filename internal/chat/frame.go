// Package chat implements a broadcast chat server in two protocol
// variants: a length-framed protocol carrying serialized values, and a
// raw UTF-8 text protocol with no framing.
package chat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxFrameSize caps a single frame's payload. A prefix beyond this is
// treated as a decode fault rather than an allocation request.
const maxFrameSize = 1 << 20

var (
	// ErrEmptyFrame reports a frame whose length prefix was zero. This is
	// distinct from io.EOF so that "peer sent nothing" and "peer went
	// away" are never conflated.
	ErrEmptyFrame = errors.New("chat: empty frame")

	// ErrFrameTooLarge reports a length prefix exceeding maxFrameSize.
	ErrFrameTooLarge = errors.New("chat: frame exceeds size limit")
)

// WriteFrame writes a 4-byte network-byte-order length prefix followed by
// exactly len(payload) bytes. Prefix and payload go out in one write so a
// frame is never interleaved with another writer's under the registry lock.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > maxFrameSize {
		return ErrFrameTooLarge
	}

	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("chat: write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame. It returns io.EOF when the
// peer closed the connection cleanly before a prefix arrived, ErrEmptyFrame
// for a zero-length frame, and ErrFrameTooLarge for an oversized prefix.
// Exactly prefix-many bytes are consumed before the payload is returned.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("chat: read frame prefix: %w", err)
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size == 0 {
		return nil, ErrEmptyFrame
	}
	if size > maxFrameSize {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("chat: read frame payload: %w", err)
	}
	return payload, nil
}
