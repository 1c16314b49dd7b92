package geometry

import "github.com/richinsley/raylab/graphics"

const floatSize = 4

// QuadVertices are two triangles covering normalized device coordinates.
var QuadVertices = []float32{
	-1, -1, 0,
	1, -1, 0,
	-1, 1, 0,

	1, -1, 0,
	-1, 1, 0,
	1, 1, 0,
}

// Buffer is an immutable vertex buffer plus the vertex array describing it.
type Buffer struct {
	dev        graphics.Device
	vertices   []float32
	components int32
	vbo        uint32
	vao        uint32
}

// New uploads a copy of vertices once; components is the float count per
// vertex.
func New(dev graphics.Device, vertices []float32, components int) *Buffer {
	b := &Buffer{
		dev:        dev,
		vertices:   append([]float32(nil), vertices...),
		components: int32(components),
	}
	b.vbo = dev.CreateBuffer(b.vertices)
	b.vao = dev.CreateVertexArray()
	return b
}

// NewQuad is New(dev, QuadVertices, 3).
func NewQuad(dev graphics.Device) *Buffer {
	return New(dev, QuadVertices, 3)
}

// BindLayout describes how the buffer feeds the attribute slot of the
// currently used program. The mapping belongs to the program, so it must be
// declared again when switching to a program with a different layout. A
// negative slot (attribute not declared by the shader) is skipped and
// reported as false.
func (b *Buffer) BindLayout(attrib int32) bool {
	if attrib < 0 {
		return false
	}
	b.dev.BindVertexArray(b.vao)
	b.dev.BindBuffer(b.vbo)
	b.dev.VertexAttribFloat(uint32(attrib), b.components, b.components*floatSize, 0)
	b.dev.BindBuffer(0)
	return true
}

// Bind makes the buffer's vertex array current.
func (b *Buffer) Bind() {
	b.dev.BindVertexArray(b.vao)
}

// Count is the number of vertices.
func (b *Buffer) Count() int32 {
	return int32(len(b.vertices)) / b.components
}

// Vertices returns a copy of the vertex data.
func (b *Buffer) Vertices() []float32 {
	return append([]float32(nil), b.vertices...)
}

// VAO returns the vertex array handle.
func (b *Buffer) VAO() uint32 {
	return b.vao
}

// Delete releases the GPU objects. Safe to call more than once.
func (b *Buffer) Delete() {
	if b.vao != 0 {
		b.dev.DeleteVertexArray(b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		b.dev.DeleteBuffer(b.vbo)
		b.vbo = 0
	}
}
