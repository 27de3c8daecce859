package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createNoopDevice creates a noop device and queue for testing. Both are
// released at test cleanup.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	require.NoError(t, err)
	adapters := instance.EnumerateAdapters(nil)
	require.NotEmpty(t, adapters)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func exposedAdapter(name string, deviceType gputypes.DeviceType) hal.ExposedAdapter {
	var a hal.ExposedAdapter
	a.Info.Name = name
	a.Info.DeviceType = deviceType
	return a
}

func TestSelectAdapter(t *testing.T) {
	cpu := exposedAdapter("cpu", gputypes.DeviceTypeCPU)
	integrated := exposedAdapter("integrated", gputypes.DeviceTypeIntegratedGPU)
	discrete := exposedAdapter("discrete", gputypes.DeviceTypeDiscreteGPU)
	discrete2 := exposedAdapter("discrete2", gputypes.DeviceTypeDiscreteGPU)

	tests := []struct {
		name     string
		adapters []hal.ExposedAdapter
		pref     gputypes.PowerPreference
		want     string
	}{
		{"discrete over integrated", []hal.ExposedAdapter{integrated, discrete}, gputypes.PowerPreferenceHighPerformance, "discrete"},
		{"integrated over cpu", []hal.ExposedAdapter{cpu, integrated}, gputypes.PowerPreferenceHighPerformance, "integrated"},
		{"first of equals", []hal.ExposedAdapter{cpu, discrete, discrete2}, gputypes.PowerPreferenceHighPerformance, "discrete"},
		{"only other", []hal.ExposedAdapter{cpu}, gputypes.PowerPreferenceHighPerformance, "cpu"},
		{"low power integrated", []hal.ExposedAdapter{discrete, integrated}, gputypes.PowerPreferenceLowPower, "integrated"},
		{"low power falls back to discrete", []hal.ExposedAdapter{cpu, discrete}, gputypes.PowerPreferenceLowPower, "discrete"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectAdapter(tt.adapters, tt.pref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Info.Name)
		})
	}
}

func TestSelectAdapterEmpty(t *testing.T) {
	_, err := SelectAdapter(nil, gputypes.PowerPreferenceHighPerformance)
	assert.True(t, errors.Is(err, ErrNoAdapters))
}

func TestCreateInstanceUnknownBackend(t *testing.T) {
	_, err := CreateInstance(gputypes.Backend(255))
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestOpenDevice(t *testing.T) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	require.NoError(t, err)
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	selected, err := SelectAdapter(adapters, gputypes.PowerPreferenceHighPerformance)
	require.NoError(t, err)

	device, queue, err := OpenDevice(selected.Adapter)
	require.NoError(t, err)
	defer device.Destroy()
	assert.NotNil(t, queue)
}
