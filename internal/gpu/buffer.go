package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyAlignment is the WebGPU requirement for buffer sizes and write sizes.
const copyAlignment = 4

// AlignedSize rounds n up to the copy alignment. Zero becomes one aligned
// unit so empty geometry still gets a valid, bindable buffer.
func AlignedSize(n int) uint64 {
	if n <= 0 {
		return copyAlignment
	}
	return uint64((n + copyAlignment - 1) &^ (copyAlignment - 1)) //nolint:gosec // n is positive
}

// CreateAndUploadBuffer creates a GPU buffer sized for data and writes data
// into it through the queue. The usage always includes CopyDst.
func CreateAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := AlignedSize(len(data))
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if len(data) == 0 {
		return buf, nil
	}
	if uint64(len(data)) != size {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	queue.WriteBuffer(buf, 0, data)
	slogger().Debug("gpu: buffer uploaded", "label", label, "bytes", size)
	return buf, nil
}
