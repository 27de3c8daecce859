package overdriven

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/overdriven/internal/gpu"
)

// Context owns the GPU instance, adapter, logical device, queue and the
// presentation surface with its current configuration.
//
// A Context is not safe for concurrent use. All methods must be called from
// the goroutine that drives rendering.
type Context struct {
	instance     hal.Instance
	ownsInstance bool
	adapter      hal.Adapter
	device       hal.Device
	queue        hal.Queue

	surface Surface
	config  SurfaceConfig

	opts   contextOptions
	closed bool
}

var _ gpucontext.DeviceProvider = (*Context)(nil)

// NewContext creates a context that presents to window.
//
// The surface is configured with the window's pixel size, the first sRGB
// format it reports (else its first format) and its first present and alpha
// modes.
func NewContext(window Window, opts ...ContextOption) (*Context, error) {
	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	instance, owns, err := o.openInstance()
	if err != nil {
		return nil, err
	}
	surface, err := newWindowSurface(instance, window, o.label)
	if err != nil {
		if owns {
			instance.Destroy()
		}
		return nil, err
	}
	width, height := window.PixelSize()
	return newContext(instance, owns, surface, surface.raw, width, height, o)
}

// MustNewContext is like NewContext but panics on error.
func MustNewContext(window Window, opts ...ContextOption) *Context {
	ctx, err := NewContext(window, opts...)
	if err != nil {
		panic(err)
	}
	return ctx
}

// NewHeadlessContext creates a context whose surface is an OffscreenSurface
// of the given size. Frames rendered into it can be read back with Snapshot.
func NewHeadlessContext(width, height uint32, opts ...ContextOption) (*Context, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	instance, owns, err := o.openInstance()
	if err != nil {
		return nil, err
	}
	return newContext(instance, owns, NewOffscreenSurface(o.label), nil, width, height, o)
}

// openInstance returns the injected instance or creates one for the
// selected backend. owns reports whether the caller must destroy it.
func (o *contextOptions) openInstance() (instance hal.Instance, owns bool, err error) {
	if o.instance != nil {
		return o.instance, false, nil
	}
	instance, err = gpu.CreateInstance(o.backend)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	return instance, true, nil
}

// newContext finishes construction once the instance and surface exist.
// hint is passed to adapter enumeration so only adapters able to present
// to the surface are considered. On error everything passed in is released.
func newContext(instance hal.Instance, ownsInstance bool, surface Surface, hint hal.Surface,
	width, height uint32, o contextOptions) (*Context, error) {
	c := &Context{
		instance:     instance,
		ownsInstance: ownsInstance,
		surface:      surface,
		opts:         o,
	}

	selected, err := gpu.SelectAdapter(instance.EnumerateAdapters(hint), o.powerPreference)
	if err != nil {
		c.release()
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	c.adapter = selected.Adapter

	c.device, c.queue, err = gpu.OpenDevice(selected.Adapter)
	if err != nil {
		c.release()
		return nil, fmt.Errorf("%w: %w", ErrDeviceCreation, err)
	}

	cfg, ok := defaultSurfaceConfig(surface.Capabilities(selected.Adapter), width, height)
	if !ok {
		c.release()
		return nil, ErrNoSurfaceFormat
	}
	if err := surface.Configure(c.device, cfg); err != nil {
		c.release()
		return nil, fmt.Errorf("%w: %w", ErrSurfaceConfigure, err)
	}
	c.config = cfg

	Logger().Info("overdriven: surface configured",
		"width", cfg.Width,
		"height", cfg.Height,
		"format", cfg.Format,
		"present_mode", cfg.PresentMode,
		"alpha_mode", cfg.AlphaMode)
	return c, nil
}

// Resize reconfigures the surface for a new pixel size. A size with either
// dimension of 1 or less is ignored, leaving the configuration unchanged,
// unless the context was created with WithStrictResize, in which case
// ErrInvalidSize is returned.
func (c *Context) Resize(width, height uint32) error {
	if c.closed {
		return ErrContextClosed
	}
	if width <= 1 || height <= 1 {
		if c.opts.strictResize {
			return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
		}
		Logger().Warn("overdriven: resize ignored", "width", width, "height", height)
		return nil
	}
	c.config.Width = width
	c.config.Height = height
	return c.reconfigure()
}

// reconfigure reapplies the current configuration to the surface.
func (c *Context) reconfigure() error {
	if err := c.surface.Configure(c.device, c.config); err != nil {
		return fmt.Errorf("%w: %w", ErrSurfaceConfigure, err)
	}
	return nil
}

// acquireFrame acquires the next frame, reconfiguring the surface and
// retrying up to the configured number of times. Lost and outdated
// swapchains recover this way.
func (c *Context) acquireFrame() (*Frame, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	frame, err := c.surface.Acquire()
	for attempt := 1; err != nil && attempt <= c.opts.acquireRetries; attempt++ {
		Logger().Warn("overdriven: frame acquisition failed, reconfiguring",
			"attempt", attempt,
			"error", err)
		if cerr := c.reconfigure(); cerr != nil {
			return nil, fmt.Errorf("%w: %w", ErrSurfaceAcquire, cerr)
		}
		frame, err = c.surface.Acquire()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceAcquire, err)
	}
	if frame.Width == 0 {
		frame.Width, frame.Height = c.config.Width, c.config.Height
	}
	return frame, nil
}

// Surface returns the presentation surface.
func (c *Context) Surface() Surface { return c.surface }

// GPUDevice returns the HAL logical device.
func (c *Context) GPUDevice() hal.Device { return c.device }

// GPUQueue returns the HAL queue.
func (c *Context) GPUQueue() hal.Queue { return c.queue }

// GPUAdapter returns the HAL adapter the device was opened on.
func (c *Context) GPUAdapter() hal.Adapter { return c.adapter }

// Format returns the surface colour format chosen at creation.
func (c *Context) Format() gputypes.TextureFormat { return c.config.Format }

// Config returns a copy of the current surface configuration.
func (c *Context) Config() SurfaceConfig { return c.config }

// Device implements gpucontext.DeviceProvider. The value is the
// hal.Device; the Context keeps ownership and releases it in Close.
func (c *Context) Device() gpucontext.Device { return c.device }

// Queue implements gpucontext.DeviceProvider.
func (c *Context) Queue() gpucontext.Queue { return c.queue }

// Adapter implements gpucontext.DeviceProvider.
func (c *Context) Adapter() gpucontext.Adapter { return c.adapter }

// SurfaceFormat implements gpucontext.DeviceProvider.
func (c *Context) SurfaceFormat() gputypes.TextureFormat { return c.config.Format }

// HalDevice returns the hal.Device for components that accept a HAL
// provider.
func (c *Context) HalDevice() any { return c.device }

// HalQueue returns the hal.Queue for components that accept a HAL provider.
func (c *Context) HalQueue() any { return c.queue }

// Snapshot reads the last presented frame of a headless context. It returns
// ErrNotOffscreen for window-backed contexts.
func (c *Context) Snapshot() (*image.RGBA, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	off, ok := c.surface.(*OffscreenSurface)
	if !ok {
		return nil, ErrNotOffscreen
	}
	return off.Snapshot()
}

// Close releases the surface, device and instance in reverse creation
// order. Calling Close more than once is a no-op.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.release()
}

func (c *Context) release() {
	if c.surface != nil {
		c.surface.Destroy(c.device)
		c.surface = nil
	}
	if c.device != nil {
		c.device.Destroy()
		c.device = nil
		c.queue = nil
	}
	c.adapter = nil
	if c.instance != nil && c.ownsInstance {
		c.instance.Destroy()
	}
	c.instance = nil
}
