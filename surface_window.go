package overdriven

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// errFrameNotOwned is returned when a frame from another surface is
// presented.
var errFrameNotOwned = errors.New("overdriven: frame was not acquired from this surface")

// windowSurface presents to a native window through a hal.Surface.
type windowSurface struct {
	raw        hal.Surface
	device     hal.Device
	label      string
	configured bool
}

// newWindowSurface creates a HAL surface from the window's native handles.
func newWindowSurface(instance hal.Instance, window Window, label string) (*windowSurface, error) {
	display, handle := window.SurfaceHandles()
	raw, err := instance.CreateSurface(display, handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceCreation, err)
	}
	return &windowSurface{raw: raw, label: label}, nil
}

// Capabilities implements Surface.
func (s *windowSurface) Capabilities(adapter hal.Adapter) SurfaceCapabilities {
	caps := adapter.SurfaceCapabilities(s.raw)
	if caps == nil {
		return SurfaceCapabilities{}
	}
	out := SurfaceCapabilities{
		Formats: append([]gputypes.TextureFormat(nil), caps.Formats...),
	}
	for _, m := range caps.PresentModes {
		out.PresentModes = append(out.PresentModes, presentModeFromHAL(m))
	}
	for _, m := range caps.AlphaModes {
		out.AlphaModes = append(out.AlphaModes, alphaModeFromHAL(m))
	}
	return out
}

// Configure implements Surface.
func (s *windowSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	err := s.raw.Configure(device, &hal.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: presentModeToHAL(cfg.PresentMode),
		AlphaMode:   alphaModeToHAL(cfg.AlphaMode),
	})
	if err != nil {
		return err
	}
	s.device = device
	s.configured = true
	return nil
}

// Acquire implements Surface.
func (s *windowSurface) Acquire() (*Frame, error) {
	acquired, err := s.raw.AcquireTexture(nil)
	if err != nil {
		return nil, err
	}
	view, err := s.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label: s.label + "_frame_view",
	})
	if err != nil {
		s.raw.DiscardTexture(acquired.Texture)
		return nil, fmt.Errorf("create frame view: %w", err)
	}
	return &Frame{
		Texture:    acquired.Texture,
		View:       view,
		Suboptimal: acquired.Suboptimal,
		native:     acquired.Texture,
	}, nil
}

// Present implements Surface.
func (s *windowSurface) Present(queue hal.Queue, frame *Frame) error {
	tex, ok := frame.native.(hal.SurfaceTexture)
	if !ok {
		return errFrameNotOwned
	}
	s.device.DestroyTextureView(frame.View)
	return queue.Present(s.raw, tex)
}

// Discard implements Surface.
func (s *windowSurface) Discard(device hal.Device, frame *Frame) {
	device.DestroyTextureView(frame.View)
	if tex, ok := frame.native.(hal.SurfaceTexture); ok {
		s.raw.DiscardTexture(tex)
	}
}

// Destroy implements Surface.
func (s *windowSurface) Destroy(device hal.Device) {
	if s.configured {
		s.raw.Unconfigure(device)
		s.configured = false
	}
	s.raw.Destroy()
}

func presentModeToHAL(m PresentMode) hal.PresentMode {
	switch m {
	case PresentModeFifoRelaxed:
		return hal.PresentModeFifoRelaxed
	case PresentModeMailbox:
		return hal.PresentModeMailbox
	case PresentModeImmediate:
		return hal.PresentModeImmediate
	default:
		return hal.PresentModeFifo
	}
}

func presentModeFromHAL(m hal.PresentMode) PresentMode {
	switch m {
	case hal.PresentModeFifoRelaxed:
		return PresentModeFifoRelaxed
	case hal.PresentModeMailbox:
		return PresentModeMailbox
	case hal.PresentModeImmediate:
		return PresentModeImmediate
	default:
		return PresentModeFifo
	}
}

func alphaModeToHAL(m AlphaMode) hal.CompositeAlphaMode {
	switch m {
	case AlphaModePremultiplied:
		return hal.CompositeAlphaModePremultiplied
	case AlphaModePostmultiplied:
		return hal.CompositeAlphaModeUnpremultiplied
	case AlphaModeInherit:
		return hal.CompositeAlphaModeInherit
	default:
		return hal.CompositeAlphaModeOpaque
	}
}

func alphaModeFromHAL(m hal.CompositeAlphaMode) AlphaMode {
	switch m {
	case hal.CompositeAlphaModePremultiplied:
		return AlphaModePremultiplied
	case hal.CompositeAlphaModeUnpremultiplied:
		return AlphaModePostmultiplied
	case hal.CompositeAlphaModeInherit:
		return AlphaModeInherit
	default:
		return AlphaModeOpaque
	}
}
