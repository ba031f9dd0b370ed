package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmg29/tmg29/internal/report"
)

func TestDemoPhysicalPortAlwaysProducesAReport(t *testing.T) {
	d := NewDemoPhysicalPort()
	for i := 0; i < 10; i++ {
		_, ok, err := d.ReadInput()
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestDemoPhysicalPortRecordsSentCommands(t *testing.T) {
	d := NewDemoPhysicalPort()
	cmd := report.IforceCommand{CommandID: 0x41, Data: []byte{1}}
	require.NoError(t, d.SendFFBPacket(cmd))
	require.Len(t, d.Sent(), 1)
	assert.Equal(t, cmd, d.Sent()[0])
}

func TestMockVirtualG29PortQueueDrains(t *testing.T) {
	m := NewMockVirtualG29Port()
	out := report.G29OutputReport{ReportID: 0x01, Data: []byte{1, 2}}
	m.QueueOutput(out)

	got, ok, err := m.ReadOutput()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, out, got)

	_, ok, err = m.ReadOutput()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMockVirtualG29PortRecordsInputs(t *testing.T) {
	m := NewMockVirtualG29Port()
	r := report.G29InputReport{ReportID: 0x01, Steering: 0x8000}
	require.NoError(t, m.SendInput(r))
	require.Len(t, m.Inputs(), 1)
	assert.Equal(t, r, m.Inputs()[0])
}
