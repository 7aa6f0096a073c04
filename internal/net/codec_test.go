package net_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pnet "github.com/l1jgo/playerd/internal/net"
)

func TestWriteFrame_LengthIncludesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, pnet.WriteFrame(&buf, []byte{0x1E, 0x01, 0x02}))

	assert.Equal(t, []byte{0x05, 0x00, 0x1E, 0x01, 0x02}, buf.Bytes())

	payload, err := pnet.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1E, 0x01, 0x02}, payload)
}

func TestWriteFrame_RejectsSize(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, pnet.WriteFrame(&buf, nil), pnet.ErrFrameSize)
	assert.ErrorIs(t, pnet.WriteFrame(&buf, make([]byte, pnet.MaxPayload+1)), pnet.ErrFrameSize)
	assert.Zero(t, buf.Len())
}

func TestReadFrame_RejectsEmptyFrame(t *testing.T) {
	_, err := pnet.ReadFrame(bytes.NewReader([]byte{0x02, 0x00}))
	assert.ErrorIs(t, err, pnet.ErrFrameSize)
}

func TestReadFrame_TruncatedPayload(t *testing.T) {
	_, err := pnet.ReadFrame(bytes.NewReader([]byte{0x06, 0x00, 0x01}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read frame payload")
}
