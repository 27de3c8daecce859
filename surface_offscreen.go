package overdriven

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/overdriven/internal/gpu"
)

var (
	errNotConfigured    = errors.New("overdriven: offscreen surface is not configured")
	errNothingPresented = errors.New("overdriven: no frame has been presented")
)

// offscreenFormats are the formats an OffscreenSurface can be configured
// with. Readback assumes BGRA byte order.
var offscreenFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb,
}

// OffscreenSurface is a Surface backed by a single GPU texture instead of a
// window. Every acquired frame is the same texture; the last presented frame
// can be read back with Snapshot.
type OffscreenSurface struct {
	label  string
	target gpu.ColorTarget
	device hal.Device
	queue  hal.Queue

	presented uint64
}

// NewOffscreenSurface returns an unconfigured offscreen surface.
func NewOffscreenSurface(label string) *OffscreenSurface {
	if label == "" {
		label = "offscreen"
	}
	return &OffscreenSurface{label: label}
}

// Capabilities implements Surface.
func (s *OffscreenSurface) Capabilities(hal.Adapter) SurfaceCapabilities {
	return SurfaceCapabilities{
		Formats:      slices.Clone(offscreenFormats),
		PresentModes: []PresentMode{PresentModeFifo},
		AlphaModes:   []AlphaMode{AlphaModeOpaque},
	}
}

// Configure implements Surface. The backing texture is recreated when the
// size or format changes.
func (s *OffscreenSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	if !slices.Contains(offscreenFormats, cfg.Format) {
		return fmt.Errorf("offscreen surface: unsupported format %v", cfg.Format)
	}
	if err := s.target.Ensure(device, cfg.Width, cfg.Height, cfg.Format, s.label); err != nil {
		return err
	}
	s.device = device
	return nil
}

// Acquire implements Surface.
func (s *OffscreenSurface) Acquire() (*Frame, error) {
	if s.target.Texture == nil {
		return nil, errNotConfigured
	}
	return &Frame{
		Texture: s.target.Texture,
		View:    s.target.View,
		Width:   s.target.Width,
		Height:  s.target.Height,
	}, nil
}

// Present implements Surface. It records the queue for later readback.
func (s *OffscreenSurface) Present(queue hal.Queue, _ *Frame) error {
	s.queue = queue
	s.presented++
	return nil
}

// Discard implements Surface. The backing texture is reused, so there is
// nothing to release.
func (s *OffscreenSurface) Discard(hal.Device, *Frame) {}

// Destroy implements Surface.
func (s *OffscreenSurface) Destroy(device hal.Device) {
	s.target.Destroy(device)
	s.device = nil
	s.queue = nil
}

// Presented returns the number of frames presented since creation.
func (s *OffscreenSurface) Presented() uint64 {
	return s.presented
}

// Size returns the configured size in pixels.
func (s *OffscreenSurface) Size() (width, height uint32) {
	return s.target.Width, s.target.Height
}

// Snapshot reads the last presented frame back from the GPU.
func (s *OffscreenSurface) Snapshot() (*image.RGBA, error) {
	if s.target.Texture == nil {
		return nil, errNotConfigured
	}
	if s.presented == 0 || s.queue == nil {
		return nil, errNothingPresented
	}
	w, h := s.target.Width, s.target.Height
	pixels, err := gpu.ReadTexture(s.device, s.queue, s.target.Texture, w, h)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, pixels)
	return img, nil
}
