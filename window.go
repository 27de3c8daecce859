package overdriven

// Window is the host's native window. The library never creates or polls
// windows; the host owns the event loop and calls Context.Resize when the
// window's pixel size changes.
type Window interface {
	// SurfaceHandles returns the platform handles a surface is created
	// from: the display or connection (zero where unused) and the window.
	SurfaceHandles() (display, window uintptr)

	// PixelSize returns the drawable size in physical pixels.
	PixelSize() (width, height uint32)
}
