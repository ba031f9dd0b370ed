package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThrustmasterInputReport(t *testing.T) {
	data := []byte{0xFF, 0x7F, 100, 50, 25, 0x03, 0x00, 0x09}
	in := ParseThrustmasterInputReport(data)

	assert.Equal(t, int16(32767), in.Steering)
	assert.Equal(t, uint8(100), in.Throttle)
	assert.Equal(t, uint8(50), in.Brake)
	assert.Equal(t, uint8(25), in.Clutch)
	assert.Equal(t, uint16(3), in.Buttons)
	assert.Equal(t, uint8(9), in.DPad)
}

func TestG29InputReportBytesLayout(t *testing.T) {
	r := G29InputReport{
		ReportID: 0x01,
		Steering: 0x8000,
		Throttle: 512,
		Brake:    256,
		Clutch:   0,
		Buttons:  0x01020304,
	}
	data := r.Bytes()
	require.Len(t, data, 18)
	assert.Equal(t, byte(0x01), data[0])
	assert.Equal(t, byte(0x00), data[1])
	assert.Equal(t, byte(0x80), data[2])
}

// TestIforceCommandFrameChecksumClosesToZero is the framing invariant
// (spec.md §8 property 3): XOR of all frame bytes is 0, and byte 0 equals
// payload length + 2, for every command built by the framing step.
func TestIforceCommandFrameChecksumClosesToZero(t *testing.T) {
	for _, payload := range [][]byte{
		{},
		{0x01},
		{0x01, 0xF4, 0x01, 0xE8, 0x03},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	} {
		cmd := IforceCommand{CommandID: 0x41, Data: payload}
		frame := cmd.Frame()

		require.Equal(t, byte(len(payload)+2), frame[0])

		var checksum byte
		for _, b := range frame {
			checksum ^= b
		}
		assert.Equal(t, byte(0), checksum)
	}
}
