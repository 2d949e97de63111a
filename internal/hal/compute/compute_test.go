package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedService_ListDevices(t *testing.T) {
	svc := NewSimulatedService()
	devices, err := svc.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Host CPU", devices[0].Name)
	assert.Equal(t, CPU, devices[0].Type)
	assert.Equal(t, "General purpose computation", devices[0].Capabilities)
}

func TestHostService_ListDevices(t *testing.T) {
	svc := NewHostService()
	devices, err := svc.ListDevices()
	require.NoError(t, err)
	require.NotEmpty(t, devices)
	// Whether probing succeeded or fell back, there is always a CPU entry.
	assert.Equal(t, CPU, devices[0].Type)
	assert.NotEmpty(t, devices[0].Name)
	assert.NotEmpty(t, devices[0].Capabilities)
}
