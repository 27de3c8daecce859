// Package gpu holds the gogpu/wgpu HAL plumbing used by overdriven.
//
// Nothing in here knows about lines or meshes. The package covers the
// handful of driver interactions the renderer needs:
//
//   - Instance creation and adapter selection by power preference
//   - Logical device creation with default limits
//   - Buffer allocation with immediate upload
//   - WGSL validation and SPIR-V translation through naga
//   - Single-sample offscreen colour targets and their readback
//   - Fenced queue submission
//
// All functions take hal.Device and hal.Queue explicitly. The caller owns
// every resource returned and releases it through the matching Destroy call.
package gpu
