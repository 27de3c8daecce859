package overdriven

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/overdriven/internal/gpu"
)

// Mesh is an immutable pair of GPU buffers: vertices of type V and uint32
// indices. Both are uploaded once by NewMesh.
//
// Indices are not checked against the vertex count.
type Mesh[V Vertex] struct {
	device       hal.Device
	vertexBuffer hal.Buffer
	indexBuffer  hal.Buffer
	vertexCount  int
	indexCount   uint32
	layout       gputypes.VertexBufferLayout
}

// NewMesh allocates a vertex and an index buffer sized to the inputs and
// writes both through the context queue. Empty inputs are allowed and yield
// minimally sized buffers.
func NewMesh[V Vertex](ctx *Context, vertices []V, indices []uint32) (*Mesh[V], error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	layout, err := vertexLayoutOf[V]()
	if err != nil {
		return nil, err
	}

	vertexData, err := binary.Append(nil, binary.LittleEndian, vertices)
	if err != nil {
		return nil, fmt.Errorf("encode vertices: %w", err)
	}
	indexData, err := binary.Append(nil, binary.LittleEndian, indices)
	if err != nil {
		return nil, fmt.Errorf("encode indices: %w", err)
	}

	vb, err := gpu.CreateAndUploadBuffer(ctx.device, ctx.queue, "mesh_vertices", vertexData, gputypes.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	ib, err := gpu.CreateAndUploadBuffer(ctx.device, ctx.queue, "mesh_indices", indexData, gputypes.BufferUsageIndex)
	if err != nil {
		ctx.device.DestroyBuffer(vb)
		return nil, err
	}

	return &Mesh[V]{
		device:       ctx.device,
		vertexBuffer: vb,
		indexBuffer:  ib,
		vertexCount:  len(vertices),
		indexCount:   uint32(len(indices)), //nolint:gosec // index count fits the uint32 draw argument
		layout:       layout,
	}, nil
}

// VertexBuffer returns the GPU vertex buffer.
func (m *Mesh[V]) VertexBuffer() hal.Buffer { return m.vertexBuffer }

// IndexBuffer returns the GPU index buffer, in uint32 format.
func (m *Mesh[V]) IndexBuffer() hal.Buffer { return m.indexBuffer }

// IndexCount returns the number of indices, the element count of a draw.
func (m *Mesh[V]) IndexCount() uint32 { return m.indexCount }

// VertexCount returns the number of vertices.
func (m *Mesh[V]) VertexCount() int { return m.vertexCount }

// Layout returns the vertex buffer layout declared by V.
func (m *Mesh[V]) Layout() gputypes.VertexBufferLayout { return m.layout }

// Destroy releases both buffers. Safe to call more than once.
func (m *Mesh[V]) Destroy() {
	if m.vertexBuffer != nil {
		m.device.DestroyBuffer(m.vertexBuffer)
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.device.DestroyBuffer(m.indexBuffer)
		m.indexBuffer = nil
	}
}
