package overdriven

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/overdriven/internal/gpu"
)

// LineSegment is a straight line between two points in normalized device
// coordinates, where both axes span [-1, 1].
type LineSegment struct {
	X0, Y0, X1, Y1 float32
}

// FrameStats describes the most recently rendered frame.
type FrameStats struct {
	// Frame counts successful Render calls, starting at 1.
	Frame    uint64
	Segments int
	// Vertices and Indices are the sizes of the mesh drawn for the frame.
	// Indices is the element count of its single indexed draw.
	Vertices int
	Indices  int
}

// LineRenderer draws queued line segments with one fixed line-list pipeline
// and a single indexed draw per frame.
//
// Typical host loop:
//
//	for running {
//	    r.Line(x0, y0, x1, y1)
//	    if err := r.Render(ctx); err != nil {
//	        log.Print(err)
//	    }
//	}
type LineRenderer struct {
	device hal.Device
	opts   rendererOptions
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	lines []LineSegment

	// Geometry staging reused across frames. Holds the last frame's
	// geometry after Render returns.
	vertices []LineVertex
	indices  []uint32

	stats FrameStats
}

// NewLineRenderer compiles the line shader and builds the render pipeline
// for the context's surface format.
func NewLineRenderer(ctx *Context, opts ...RendererOption) (*LineRenderer, error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &LineRenderer{
		device: ctx.device,
		opts:   o,
		format: ctx.Format(),
	}
	if err := r.createPipeline(); err != nil {
		r.destroyPipeline()
		return nil, err
	}
	return r, nil
}

// createPipeline creates the shader module, an empty pipeline layout and
// the line-list pipeline.
func (r *LineRenderer) createPipeline() error {
	shader, err := gpu.CreateShaderModule(r.device, r.opts.label+"_shader", gpu.LineShaderSource, r.opts.spirv)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	r.shader = shader

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: r.opts.label + "_pipe_layout",
	})
	if err != nil {
		return fmt.Errorf("%w: layout: %w", ErrPipelineCreation, err)
	}
	r.pipeLayout = pipeLayout

	replace := gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		},
	}
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  r.opts.label + "_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: gpu.VertexEntryPoint,
			Buffers:    []gputypes.VertexBufferLayout{LineVertex{}.VertexLayout()},
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: gpu.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.format,
					Blend:     &replace,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyLineList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPipelineCreation, err)
	}
	r.pipeline = pipeline
	return nil
}

// destroyPipeline releases pipeline objects in reverse creation order.
func (r *LineRenderer) destroyPipeline() {
	if r.device == nil {
		return
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

// Line queues a segment for the next Render.
func (r *LineRenderer) Line(x0, y0, x1, y1 float32) {
	r.lines = append(r.lines, LineSegment{X0: x0, Y0: y0, X1: x1, Y1: y1})
}

// Pending returns the number of queued segments.
func (r *LineRenderer) Pending() int { return len(r.lines) }

// Stats returns statistics for the last rendered frame.
func (r *LineRenderer) Stats() FrameStats { return r.stats }

// Render draws every queued segment into the next surface frame and
// presents it.
//
// If no frame can be acquired the error wraps ErrSurfaceAcquire and the
// queue is kept for the next call. On every other path, success or not, the
// queue is cleared. An empty queue still clears and presents the frame.
func (r *LineRenderer) Render(ctx *Context) error {
	frame, err := ctx.acquireFrame()
	if err != nil {
		return err
	}
	defer r.clear()

	r.vertices, r.indices = buildLineGeometry(r.lines, r.vertices[:0], r.indices[:0])

	mesh, err := NewMesh(ctx, r.vertices, r.indices)
	if err != nil {
		ctx.surface.Discard(ctx.device, frame)
		return fmt.Errorf("line mesh: %w", err)
	}
	defer mesh.Destroy()

	cmdBuf, err := r.encode(frame, mesh)
	if err != nil {
		ctx.surface.Discard(ctx.device, frame)
		return err
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	if err := gpu.SubmitAndWait(r.device, ctx.queue, cmdBuf); err != nil {
		ctx.surface.Discard(ctx.device, frame)
		return err
	}
	if err := ctx.surface.Present(ctx.queue, frame); err != nil {
		return fmt.Errorf("present: %w", err)
	}

	r.stats = FrameStats{
		Frame:    r.stats.Frame + 1,
		Segments: len(r.lines),
		Vertices: mesh.VertexCount(),
		Indices:  int(mesh.IndexCount()),
	}
	Logger().Debug("overdriven: frame rendered",
		"frame", r.stats.Frame,
		"segments", r.stats.Segments,
		"suboptimal", frame.Suboptimal)
	return nil
}

// encode records one render pass that clears the frame and draws the mesh.
// The draw is issued even when the mesh is empty.
func (r *LineRenderer) encode(frame *Frame, mesh *Mesh[LineVertex]) (hal.CommandBuffer, error) {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: r.opts.label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(r.opts.label + "_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: r.opts.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       frame.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.clearColor,
		}},
	})
	rp.SetPipeline(r.pipeline)
	rp.SetVertexBuffer(0, mesh.VertexBuffer(), 0)
	rp.SetIndexBuffer(mesh.IndexBuffer(), gputypes.IndexFormatUint32, 0)
	rp.DrawIndexed(mesh.IndexCount(), 1, 0, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmdBuf, nil
}

// clear empties the queue, keeping its capacity.
func (r *LineRenderer) clear() {
	r.lines = r.lines[:0]
}

// Destroy releases the pipeline. The renderer must not be used afterwards.
func (r *LineRenderer) Destroy() {
	r.destroyPipeline()
	r.lines = nil
	r.vertices = nil
	r.indices = nil
}

// buildLineGeometry appends two vertices per segment, start then end, and
// the index pair {2i, 2i+1} for segment i.
func buildLineGeometry(lines []LineSegment, vertices []LineVertex, indices []uint32) ([]LineVertex, []uint32) {
	for i, l := range lines {
		base := uint32(2 * i) //nolint:gosec // segment count is bounded by memory
		vertices = append(vertices,
			LineVertex{Position: f32.Vec2{l.X0, l.Y0}},
			LineVertex{Position: f32.Vec2{l.X1, l.Y1}},
		)
		indices = append(indices, base, base+1)
	}
	return vertices, indices
}
