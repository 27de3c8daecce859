package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// submitTimeout bounds the fence wait after a submission.
const submitTimeout = 5 * time.Second

// SubmitAndWait submits one command buffer and blocks until the GPU signals
// completion. The command buffer is not freed.
func SubmitAndWait(device hal.Device, queue hal.Queue, cmdBuf hal.CommandBuffer) error {
	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, submitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}
