package overdriven

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx, err := overdriven.NewContext(win,
//	    overdriven.WithPowerPreference(gputypes.PowerPreferenceLowPower),
//	    overdriven.WithStrictResize(true))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	backend         gputypes.Backend
	powerPreference gputypes.PowerPreference
	strictResize    bool
	acquireRetries  int
	label           string

	// instance replaces backend lookup. Used to run against hal/noop.
	instance hal.Instance
}

// defaultContextOptions returns the default context options.
func defaultContextOptions() contextOptions {
	return contextOptions{
		backend:         gputypes.BackendVulkan,
		powerPreference: gputypes.PowerPreferenceHighPerformance,
		acquireRetries:  1,
		label:           "overdriven",
	}
}

// WithBackend selects the HAL backend (Vulkan by default).
func WithBackend(b gputypes.Backend) ContextOption {
	return func(o *contextOptions) {
		o.backend = b
	}
}

// WithPowerPreference sets the adapter preference. High performance favours
// discrete GPUs; low power favours integrated ones.
func WithPowerPreference(p gputypes.PowerPreference) ContextOption {
	return func(o *contextOptions) {
		o.powerPreference = p
	}
}

// WithStrictResize makes Resize return ErrInvalidSize for dimensions of 1
// or less instead of ignoring them.
func WithStrictResize(strict bool) ContextOption {
	return func(o *contextOptions) {
		o.strictResize = strict
	}
}

// WithAcquireRetries sets how many times Render reconfigures the surface and
// retries after a failed frame acquisition. Zero means fail on the first
// error. Negative values are treated as zero.
func WithAcquireRetries(n int) ContextOption {
	return func(o *contextOptions) {
		if n < 0 {
			n = 0
		}
		o.acquireRetries = n
	}
}

// WithLabel sets the debug label prefix for GPU objects.
func WithLabel(label string) ContextOption {
	return func(o *contextOptions) {
		o.label = label
	}
}

// withInstance injects an already created HAL instance. The Context does
// not destroy an injected instance.
func withInstance(instance hal.Instance) ContextOption {
	return func(o *contextOptions) {
		o.instance = instance
	}
}

// RendererOption configures a LineRenderer during creation.
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for LineRenderer creation.
type rendererOptions struct {
	clearColor gputypes.Color
	spirv      bool
	label      string
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		clearColor: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		label:      "line_renderer",
	}
}

// WithClearColor sets the colour each frame is cleared to. Opaque black by
// default.
func WithClearColor(c gputypes.Color) RendererOption {
	return func(o *rendererOptions) {
		o.clearColor = c
	}
}

// WithShaderSPIRV hands the driver naga's SPIR-V output instead of the WGSL
// source.
func WithShaderSPIRV(enabled bool) RendererOption {
	return func(o *rendererOptions) {
		o.spirv = enabled
	}
}

// WithRendererLabel sets the debug label prefix for the renderer's GPU
// objects.
func WithRendererLabel(label string) RendererOption {
	return func(o *rendererOptions) {
		o.label = label
	}
}
