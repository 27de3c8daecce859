package overdriven

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PresentMode controls how acquired frames are queued for display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. Always supported.
	PresentModeFifo PresentMode = iota
	// PresentModeFifoRelaxed waits for vertical blank unless a frame is late.
	PresentModeFifoRelaxed
	// PresentModeMailbox replaces the pending frame without tearing.
	PresentModeMailbox
	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

// String returns the present mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "Fifo"
	case PresentModeFifoRelaxed:
		return "FifoRelaxed"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeImmediate:
		return "Immediate"
	default:
		return "Unknown"
	}
}

// AlphaMode controls how the compositor treats the alpha channel.
type AlphaMode uint8

const (
	// AlphaModeOpaque ignores alpha.
	AlphaModeOpaque AlphaMode = iota
	// AlphaModePremultiplied expects colour premultiplied by alpha.
	AlphaModePremultiplied
	// AlphaModePostmultiplied expects straight alpha.
	AlphaModePostmultiplied
	// AlphaModeInherit leaves the choice to the platform.
	AlphaModeInherit
)

// String returns the alpha mode name.
func (m AlphaMode) String() string {
	switch m {
	case AlphaModeOpaque:
		return "Opaque"
	case AlphaModePremultiplied:
		return "Premultiplied"
	case AlphaModePostmultiplied:
		return "Postmultiplied"
	case AlphaModeInherit:
		return "Inherit"
	default:
		return "Unknown"
	}
}

// SurfaceConfig is the presentation configuration applied to a Surface.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
	AlphaMode   AlphaMode
}

// SurfaceCapabilities lists what a surface supports on a given adapter.
// Entries are in the surface's preference order.
type SurfaceCapabilities struct {
	Formats      []gputypes.TextureFormat
	PresentModes []PresentMode
	AlphaModes   []AlphaMode
}

// Frame is a presentable image acquired from a Surface. It is valid until
// passed to Present or Discard.
type Frame struct {
	Texture    hal.Texture
	View       hal.TextureView
	Width      uint32
	Height     uint32
	Suboptimal bool

	// native is the implementation's handle for the acquired image.
	native any
}

// Surface is a presentation target. Context drives it; LineRenderer
// acquires one Frame per Render call and presents it after submission.
type Surface interface {
	// Capabilities reports supported formats and modes on the adapter.
	Capabilities(adapter hal.Adapter) SurfaceCapabilities

	// Configure (re)creates the swapchain or backing image.
	Configure(device hal.Device, cfg SurfaceConfig) error

	// Acquire returns the next frame to render into.
	Acquire() (*Frame, error)

	// Present hands a rendered frame to the display.
	Present(queue hal.Queue, frame *Frame) error

	// Discard releases a frame that will not be presented.
	Discard(device hal.Device, frame *Frame)

	// Destroy releases the surface. The device must still be alive.
	Destroy(device hal.Device)
}

// ChooseFormat returns the first sRGB format in formats, or the first format
// if none is sRGB. ok is false when formats is empty.
func ChooseFormat(formats []gputypes.TextureFormat) (format gputypes.TextureFormat, ok bool) {
	if len(formats) == 0 {
		return gputypes.TextureFormatUndefined, false
	}
	for _, f := range formats {
		if isSRGB(f) {
			return f, true
		}
	}
	return formats[0], true
}

// isSRGB reports whether colour values written to f are encoded as sRGB.
func isSRGB(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}

// defaultSurfaceConfig picks the sRGB-preferred format and the first present
// and alpha modes from caps.
func defaultSurfaceConfig(caps SurfaceCapabilities, width, height uint32) (SurfaceConfig, bool) {
	format, ok := ChooseFormat(caps.Formats)
	if !ok {
		return SurfaceConfig{}, false
	}
	cfg := SurfaceConfig{
		Width:       width,
		Height:      height,
		Format:      format,
		PresentMode: PresentModeFifo,
		AlphaMode:   AlphaModeOpaque,
	}
	if len(caps.PresentModes) > 0 {
		cfg.PresentMode = caps.PresentModes[0]
	}
	if len(caps.AlphaModes) > 0 {
		cfg.AlphaMode = caps.AlphaModes[0]
	}
	return cfg, true
}
