package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	headerSize = 2
	// MaxPayload is the largest payload a frame can carry.
	MaxPayload = 0xFFFF - headerSize
)

// ErrFrameSize is returned for frames whose length header is out of range.
var ErrFrameSize = errors.New("frame size out of range")

// ReadFrame reads one frame from r and returns its payload.
// Wire format: [uint16 LE total length, header included][payload].
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	n := int(binary.LittleEndian.Uint16(header[:])) - headerSize
	if n <= 0 {
		return nil, fmt.Errorf("read frame: %w (%d)", ErrFrameSize, n+headerSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", n, err)
	}
	return payload, nil
}

// WriteFrame writes payload as one frame with a single Write call.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) == 0 || len(payload) > MaxPayload {
		return fmt.Errorf("write frame: %w (%d)", ErrFrameSize, len(payload))
	}
	buf := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint16(buf, uint16(len(buf)))
	copy(buf[headerSize:], payload)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
