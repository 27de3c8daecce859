package overdriven

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Vertex is a vertex record that can be uploaded to a Mesh. Implementations
// must be fixed-size structs without padding whose in-memory size equals the
// ArrayStride of the layout they declare.
type Vertex interface {
	comparable
	VertexLayout() gputypes.VertexBufferLayout
}

// LineVertex is a 2D position in normalized device coordinates.
type LineVertex struct {
	Position f32.Vec2
}

// lineVertexStride is the byte size of LineVertex.
const lineVertexStride = 8

// VertexLayout implements Vertex: one float32x2 attribute at location 0.
func (LineVertex) VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: lineVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		},
	}
}

// vertexLayoutOf validates V and returns its declared layout.
func vertexLayoutOf[V Vertex]() (gputypes.VertexBufferLayout, error) {
	var zero V
	size := binary.Size(zero)
	if size <= 0 {
		return gputypes.VertexBufferLayout{}, fmt.Errorf("%w: %T is not a fixed-size record", ErrVertexLayout, zero)
	}
	if mem := unsafe.Sizeof(zero); uintptr(size) != mem {
		return gputypes.VertexBufferLayout{}, fmt.Errorf("%w: %T has %d bytes of padding", ErrVertexLayout, zero, mem-uintptr(size))
	}
	layout := zero.VertexLayout()
	if layout.ArrayStride != uint64(size) {
		return gputypes.VertexBufferLayout{}, fmt.Errorf("%w: %T is %d bytes but declares stride %d",
			ErrVertexLayout, zero, size, layout.ArrayStride)
	}
	return layout, nil
}
