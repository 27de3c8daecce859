package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrBackendUnavailable is returned when the requested HAL backend is not
	// compiled in or not registered.
	ErrBackendUnavailable = errors.New("gpu: backend not available")

	// ErrNoAdapters is returned when the instance exposes no adapters.
	ErrNoAdapters = errors.New("gpu: no GPU adapters found")
)

// CreateInstance creates a HAL instance for the given backend.
func CreateInstance(backend gputypes.Backend) (hal.Instance, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	return instance, nil
}

// adapterRank orders device types for a power preference. Lower is better.
func adapterRank(t gputypes.DeviceType, pref gputypes.PowerPreference) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		if pref == gputypes.PowerPreferenceLowPower {
			return 1
		}
		return 0
	case gputypes.DeviceTypeIntegratedGPU:
		if pref == gputypes.PowerPreferenceLowPower {
			return 0
		}
		return 1
	default:
		return 2
	}
}

// SelectAdapter picks the best adapter for the power preference. Ties keep
// enumeration order, so a list with no discrete or integrated GPU yields the
// first adapter.
func SelectAdapter(adapters []hal.ExposedAdapter, pref gputypes.PowerPreference) (*hal.ExposedAdapter, error) {
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}
	best := 0
	bestRank := adapterRank(adapters[0].Info.DeviceType, pref)
	for i := 1; i < len(adapters); i++ {
		if r := adapterRank(adapters[i].Info.DeviceType, pref); r < bestRank {
			best, bestRank = i, r
		}
	}
	selected := &adapters[best]
	slogger().Info("gpu: adapter selected",
		"name", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"candidates", len(adapters))
	return selected, nil
}

// OpenDevice opens a logical device with no optional features and the
// default limits.
func OpenDevice(adapter hal.Adapter) (hal.Device, hal.Queue, error) {
	openDev, err := adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, nil, fmt.Errorf("open device: %w", err)
	}
	return openDev.Device, openDev.Queue, nil
}
