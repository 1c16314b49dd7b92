package graphics

import "github.com/go-gl/mathgl/mgl32"

// Stage is a shader pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Primitive is the topology used by a draw call.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
)

// ClearMask selects the framebuffer planes cleared by Device.Clear.
type ClearMask uint32

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

// Device is the slice of the GPU API used by the host. All methods operate
// on the context current on the calling thread; bindings are global state
// so callers always bind what they use before drawing.
type Device interface {
	// CompileShader compiles one stage and returns its handle, the
	// compile status and the info log.
	CompileShader(stage Stage, source string) (shader uint32, ok bool, infoLog string)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	// LinkProgram links program and returns the link status and info log.
	LinkProgram(program uint32) (ok bool, infoLog string)
	// ActiveUniforms lists the names of the active uniforms of program.
	ActiveUniforms(program uint32) []string
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v mgl32.Vec2)
	Uniform3f(location int32, v mgl32.Vec3)
	UniformMatrix4f(location int32, m mgl32.Mat4)

	// CreateBuffer uploads data into a new static array buffer.
	CreateBuffer(data []float32) uint32
	BindBuffer(buffer uint32)
	DeleteBuffer(buffer uint32)
	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	// VertexAttribFloat enables attrib and describes it as components
	// floats every stride bytes starting at offset.
	VertexAttribFloat(attrib uint32, components, stride int32, offset int)

	ClearColor(r, g, b, a float32)
	EnableDepthTest()
	Clear(mask ClearMask)
	Viewport(x, y, width, height int32)
	DrawArrays(mode Primitive, first, count int32)
	// ReadPixels reads the RGBA8 contents of the current read framebuffer
	// into dst, which must hold width*height*4 bytes.
	ReadPixels(width, height int, dst []byte)
}
