package overdriven

import "errors"

// Package errors. Operations wrap these with context; match them with
// errors.Is.
var (
	// ErrNoAdapter is returned when no GPU adapter can drive the surface.
	ErrNoAdapter = errors.New("overdriven: no compatible GPU adapter")

	// ErrDeviceCreation is returned when the logical device cannot be opened.
	ErrDeviceCreation = errors.New("overdriven: device creation failed")

	// ErrSurfaceCreation is returned when the window surface cannot be created.
	ErrSurfaceCreation = errors.New("overdriven: surface creation failed")

	// ErrNoSurfaceFormat is returned when the surface reports no formats.
	ErrNoSurfaceFormat = errors.New("overdriven: surface reports no formats")

	// ErrSurfaceConfigure is returned when the surface rejects a configuration.
	ErrSurfaceConfigure = errors.New("overdriven: surface configuration failed")

	// ErrSurfaceAcquire is returned when no frame can be acquired from the
	// surface after all retries.
	ErrSurfaceAcquire = errors.New("overdriven: surface acquisition failed")

	// ErrInvalidSize is returned by Resize with WithStrictResize when either
	// dimension is 1 or less.
	ErrInvalidSize = errors.New("overdriven: invalid surface size")

	// ErrShaderCompile is returned when the line shader fails to compile.
	ErrShaderCompile = errors.New("overdriven: shader compilation failed")

	// ErrPipelineCreation is returned when the render pipeline cannot be built.
	ErrPipelineCreation = errors.New("overdriven: pipeline creation failed")

	// ErrVertexLayout is returned when a vertex type violates the mesh
	// layout contract.
	ErrVertexLayout = errors.New("overdriven: invalid vertex layout")

	// ErrContextClosed is returned when using a Context after Close.
	ErrContextClosed = errors.New("overdriven: context closed")

	// ErrNotOffscreen is returned by Snapshot on a window-backed context.
	ErrNotOffscreen = errors.New("overdriven: surface does not support snapshots")
)
