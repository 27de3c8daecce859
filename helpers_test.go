package overdriven

import (
	"errors"
	"testing"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/stretchr/testify/require"
)

// newNoopInstance creates a noop HAL instance destroyed at test cleanup.
func newNoopInstance(t *testing.T) hal.Instance {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	require.NoError(t, err)
	t.Cleanup(instance.Destroy)
	return instance
}

// newTestContext creates a headless context on the noop backend.
func newTestContext(t *testing.T, width, height uint32, opts ...ContextOption) *Context {
	t.Helper()
	opts = append([]ContextOption{withInstance(newNoopInstance(t))}, opts...)
	ctx, err := NewHeadlessContext(width, height, opts...)
	require.NoError(t, err)
	t.Cleanup(ctx.Close)
	return ctx
}

// newSurfaceContext creates a context on the noop backend presenting to
// surface.
func newSurfaceContext(t *testing.T, surface Surface, width, height uint32, opts ...ContextOption) *Context {
	t.Helper()
	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, err := newContext(newNoopInstance(t), false, surface, nil, width, height, o)
	require.NoError(t, err)
	t.Cleanup(ctx.Close)
	return ctx
}

var errSurfaceLost = errors.New("surface lost")

// flakySurface fails a number of acquisitions before delegating to an
// OffscreenSurface, the way a lost swapchain does.
type flakySurface struct {
	*OffscreenSurface
	failures   int
	acquires   int
	configures int
	discards   int
}

func newFlakySurface(failures int) *flakySurface {
	return &flakySurface{OffscreenSurface: NewOffscreenSurface("flaky"), failures: failures}
}

func (s *flakySurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	s.configures++
	return s.OffscreenSurface.Configure(device, cfg)
}

func (s *flakySurface) Acquire() (*Frame, error) {
	s.acquires++
	if s.failures > 0 {
		s.failures--
		return nil, errSurfaceLost
	}
	return s.OffscreenSurface.Acquire()
}

func (s *flakySurface) Discard(device hal.Device, frame *Frame) {
	s.discards++
	s.OffscreenSurface.Discard(device, frame)
}

// fixedCapsSurface reports the given capabilities instead of the offscreen
// defaults.
type fixedCapsSurface struct {
	*OffscreenSurface
	caps SurfaceCapabilities
}

func (s *fixedCapsSurface) Capabilities(hal.Adapter) SurfaceCapabilities {
	return s.caps
}

var errEncodingFailed = errors.New("encoding failed")

// recordingDevice wraps a HAL device and records what the command encoders
// it creates are asked to do. With failEnd set, EndEncoding fails.
type recordingDevice struct {
	hal.Device
	failEnd   bool
	draws     []uint32
	discarded int
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, device: d}, nil
}

type recordingEncoder struct {
	hal.CommandEncoder
	device *recordingDevice
}

func (e *recordingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	return &recordingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), device: e.device}
}

func (e *recordingEncoder) EndEncoding() (hal.CommandBuffer, error) {
	if e.device.failEnd {
		return nil, errEncodingFailed
	}
	return e.CommandEncoder.EndEncoding()
}

func (e *recordingEncoder) DiscardEncoding() {
	e.device.discarded++
	e.CommandEncoder.DiscardEncoding()
}

type recordingPass struct {
	hal.RenderPassEncoder
	device *recordingDevice
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.device.draws = append(p.device.draws, indexCount)
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}
