package overdriven

import (
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func newTestRenderer(t *testing.T, ctx *Context, opts ...RendererOption) *LineRenderer {
	t.Helper()
	r, err := NewLineRenderer(ctx, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Destroy)
	return r
}

func TestBuildLineGeometry(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17} {
		t.Run(fmt.Sprintf("%d segments", n), func(t *testing.T) {
			lines := make([]LineSegment, n)
			for i := range lines {
				f := float32(i)
				lines[i] = LineSegment{X0: f, Y0: -f, X1: f + 0.5, Y1: -f - 0.5}
			}

			vertices, indices := buildLineGeometry(lines, nil, nil)
			require.Len(t, vertices, 2*n)
			require.Len(t, indices, 2*n)
			for k, l := range lines {
				assert.Equal(t, uint32(2*k), indices[2*k])
				assert.Equal(t, uint32(2*k+1), indices[2*k+1])
				assert.Equal(t, f32.Vec2{l.X0, l.Y0}, vertices[2*k].Position)
				assert.Equal(t, f32.Vec2{l.X1, l.Y1}, vertices[2*k+1].Position)
			}
		})
	}
}

func TestBuildLineGeometryReusesStorage(t *testing.T) {
	vertices := make([]LineVertex, 0, 8)
	indices := make([]uint32, 0, 8)
	v, i := buildLineGeometry([]LineSegment{{X1: 1}, {Y1: 1}}, vertices, indices)
	assert.Equal(t, 8, cap(v))
	assert.Equal(t, 8, cap(i))
	assert.Len(t, v, 4)
}

func TestNewLineRenderer(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx)

	assert.NotNil(t, r.shader)
	assert.NotNil(t, r.pipeLayout)
	assert.NotNil(t, r.pipeline)
	assert.Equal(t, ctx.Format(), r.format)
	assert.Zero(t, r.Pending())
}

func TestNewLineRendererSPIRV(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx, WithShaderSPIRV(true))
	assert.NotNil(t, r.pipeline)
}

func TestLineRendererDestroy(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r, err := NewLineRenderer(ctx)
	require.NoError(t, err)

	r.Line(0, 0, 1, 1)
	r.Destroy()
	r.Destroy()
	assert.Nil(t, r.pipeline)
	assert.Nil(t, r.shader)
	assert.Zero(t, r.Pending())
}

func TestLineQueue(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx)

	r.Line(0, 0, 1, 1)
	r.Line(-1, -1, 0, 0)
	assert.Equal(t, 2, r.Pending())
	assert.Equal(t, []LineSegment{{0, 0, 1, 1}, {-1, -1, 0, 0}}, r.lines)
}

func TestRenderClearsQueue(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx)

	for i := 0; i < 5; i++ {
		r.Line(0, 0, 0.1*float32(i), 1)
	}
	require.NoError(t, r.Render(ctx))
	assert.Zero(t, r.Pending())
	assert.Equal(t, FrameStats{Frame: 1, Segments: 5, Vertices: 10, Indices: 10}, r.Stats())

	require.NoError(t, r.Render(ctx))
	assert.Zero(t, r.Pending())
	assert.Equal(t, FrameStats{Frame: 2}, r.Stats())
}

func TestRenderEmptyQueue(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx)
	rec := &recordingDevice{Device: ctx.GPUDevice()}
	r.device = rec

	require.NoError(t, r.Render(ctx))
	assert.Equal(t, FrameStats{Frame: 1}, r.Stats())
	assert.Equal(t, []uint32{0}, rec.draws, "one zero-element draw")
	assert.Empty(t, r.vertices)
	assert.Empty(t, r.indices)
	assert.Equal(t, uint64(1), ctx.Surface().(*OffscreenSurface).Presented())
}

func TestRenderEndToEnd(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx, WithClearColor(gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}))

	r.Line(0, 0, 0, 0)
	r.Line(-0.5, -0.5, 0.5, 0.5)
	require.NoError(t, r.Render(ctx))

	assert.Equal(t, []LineVertex{
		{Position: f32.Vec2{0, 0}},
		{Position: f32.Vec2{0, 0}},
		{Position: f32.Vec2{-0.5, -0.5}},
		{Position: f32.Vec2{0.5, 0.5}},
	}, r.vertices)
	assert.Equal(t, []uint32{0, 1, 2, 3}, r.indices)
	assert.Zero(t, r.Pending())

	img, err := ctx.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}

func TestRenderDrawsAllIndices(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx)
	rec := &recordingDevice{Device: ctx.GPUDevice()}
	r.device = rec

	r.Line(0, 0, 1, 1)
	r.Line(1, 1, -1, 0)
	r.Line(-1, 0, 0, 0)
	require.NoError(t, r.Render(ctx))
	require.NoError(t, r.Render(ctx))

	assert.Equal(t, []uint32{6, 0}, rec.draws, "one draw per frame")
	assert.Zero(t, rec.discarded)
}

func TestRenderEncodingFailure(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx)
	rec := &recordingDevice{Device: ctx.GPUDevice(), failEnd: true}
	r.device = rec

	r.Line(0, 0, 1, 1)
	err := r.Render(ctx)
	require.ErrorIs(t, err, errEncodingFailed)

	assert.Equal(t, 1, rec.discarded, "open encoder discarded")
	assert.Zero(t, r.Pending(), "queue cleared after acquisition")
	assert.Zero(t, r.Stats().Frame)
	assert.Zero(t, ctx.Surface().(*OffscreenSurface).Presented())
}

func TestRenderAfterResize(t *testing.T) {
	ctx := newTestContext(t, 64, 64)
	r := newTestRenderer(t, ctx)

	require.NoError(t, ctx.Resize(128, 32))
	r.Line(-1, 0, 1, 0)
	require.NoError(t, r.Render(ctx))

	img, err := ctx.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestRenderAcquireRetry(t *testing.T) {
	surface := newFlakySurface(1)
	ctx := newSurfaceContext(t, surface, 64, 64)
	r := newTestRenderer(t, ctx)

	r.Line(0, 0, 1, 1)
	require.NoError(t, r.Render(ctx))

	assert.Equal(t, 2, surface.acquires)
	assert.Equal(t, 2, surface.configures, "surface reconfigured once before retry")
	assert.Zero(t, r.Pending())
	assert.Equal(t, uint64(1), surface.Presented())
}

func TestRenderAcquireFailureKeepsQueue(t *testing.T) {
	surface := newFlakySurface(10)
	ctx := newSurfaceContext(t, surface, 64, 64)
	r := newTestRenderer(t, ctx)

	r.Line(0, 0, 1, 1)
	r.Line(1, 1, 0, 0)
	err := r.Render(ctx)
	require.ErrorIs(t, err, ErrSurfaceAcquire)
	require.ErrorIs(t, err, errSurfaceLost)

	assert.Equal(t, 2, surface.acquires)
	assert.Equal(t, 2, r.Pending(), "queue survives a failed acquisition")
	assert.Zero(t, r.Stats().Frame)
	assert.Zero(t, surface.Presented())
}

func TestRenderAcquireNoRetries(t *testing.T) {
	surface := newFlakySurface(1)
	ctx := newSurfaceContext(t, surface, 64, 64, WithAcquireRetries(0))
	r := newTestRenderer(t, ctx)

	require.ErrorIs(t, r.Render(ctx), ErrSurfaceAcquire)
	assert.Equal(t, 1, surface.acquires)
	assert.Equal(t, 1, surface.configures)

	// The surface recovered on its own; the next frame succeeds.
	require.NoError(t, r.Render(ctx))
}

func TestRenderAcquireMultipleRetries(t *testing.T) {
	surface := newFlakySurface(3)
	ctx := newSurfaceContext(t, surface, 64, 64, WithAcquireRetries(3))
	r := newTestRenderer(t, ctx)

	require.NoError(t, r.Render(ctx))
	assert.Equal(t, 4, surface.acquires)
}

func TestRenderClosedContext(t *testing.T) {
	ctx, err := NewHeadlessContext(32, 32, withInstance(newNoopInstance(t)))
	require.NoError(t, err)
	r, err := NewLineRenderer(ctx)
	require.NoError(t, err)

	r.Line(0, 0, 1, 1)
	r.Destroy()
	ctx.Close()

	assert.ErrorIs(t, r.Render(ctx), ErrContextClosed)
}

func BenchmarkBuildLineGeometry(b *testing.B) {
	lines := make([]LineSegment, 1000)
	for i := range lines {
		lines[i] = LineSegment{X0: -1, Y0: -1, X1: 1, Y1: 1}
	}
	var vertices []LineVertex
	var indices []uint32
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vertices, indices = buildLineGeometry(lines, vertices[:0], indices[:0])
	}
}
