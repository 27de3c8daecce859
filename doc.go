// Package overdriven is a minimal real-time line renderer on top of the
// gogpu WebGPU HAL.
//
// # Overview
//
// The host application owns the window and the event loop. overdriven owns
// the GPU: it opens a device, configures a presentation surface and draws
// queued line segments with one fixed pipeline and one draw call per frame.
//
// # Quick Start
//
//	import "github.com/gogpu/overdriven"
//
//	ctx, err := overdriven.NewContext(win)
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	lines, err := overdriven.NewLineRenderer(ctx)
//	if err != nil {
//	    return err
//	}
//	defer lines.Destroy()
//
//	// Each frame:
//	lines.Line(-0.5, -0.5, 0.5, 0.5)
//	if err := lines.Render(ctx); err != nil {
//	    return err
//	}
//
// On window resize events call ctx.Resize with the new pixel size.
//
// # Coordinates
//
// Line endpoints are in normalized device coordinates: both axes span
// [-1, 1] with +Y up. Segments are drawn white on an opaque black clear
// colour unless WithClearColor is given.
//
// # Headless rendering
//
// NewHeadlessContext renders into an OffscreenSurface instead of a window.
// Context.Snapshot reads the last presented frame back as an *image.RGBA.
//
// # Meshes
//
// Mesh is a generic, immutable vertex plus uint32 index buffer pair. Any
// fixed-size vertex struct without padding that implements Vertex can be
// uploaded. LineRenderer builds a fresh Mesh[LineVertex] every frame.
//
// # Device sharing
//
// Context implements gpucontext.DeviceProvider and exposes HalDevice and
// HalQueue, so other gogpu components can render with the same device.
//
// # Logging
//
// overdriven is silent by default. Use SetLogger to route diagnostics to a
// log/slog logger.
package overdriven
