// Package graphicstest provides in-memory implementations of the graphics
// interfaces for tests that must run without a GPU or a display.
package graphicstest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/raylab/graphics"
)

// Draw records one DrawArrays call together with the state it observed.
type Draw struct {
	Program  uint32
	VAO      uint32
	Mode     graphics.Primitive
	First    int32
	Count    int32
	Uniforms map[string]any
}

type program struct {
	shaders   []uint32
	linked    bool
	deleted   bool
	locations map[string]int32
	values    map[int32]any
}

type attribLayout struct {
	Components int32
	Stride     int32
	Offset     int
	Buffer     uint32
}

// Device is a recording graphics.Device. Every linked program reports the
// names in Uniforms as active; AttribLocation answers from Attribs.
type Device struct {
	Uniforms    []string
	Attribs     map[string]int32
	FailCompile map[graphics.Stage]bool
	FailLink    bool
	// Pixel is the RGBA value written by ReadPixels.
	Pixel [4]byte

	Draws       []Draw
	ClearCount  int
	LastClear   graphics.ClearMask
	ClearRGBA   [4]float32
	DepthTest   bool
	ViewportWH  [2]int32
	CurrentProg uint32
	CurrentVAO  uint32
	CurrentVBO  uint32

	next     uint32
	programs map[uint32]*program
	shaders  map[uint32]graphics.Stage
	buffers  map[uint32][]float32
	vaos     map[uint32]map[uint32]attribLayout
	deleted  map[uint32]bool
}

// NewDevice returns a Device reporting the given active uniforms and a
// vPosition attribute at slot 0.
func NewDevice(uniforms ...string) *Device {
	return &Device{
		Uniforms: uniforms,
		Attribs:  map[string]int32{"vPosition": 0},
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) init() {
	if d.programs == nil {
		d.programs = make(map[uint32]*program)
		d.shaders = make(map[uint32]graphics.Stage)
		d.buffers = make(map[uint32][]float32)
		d.vaos = make(map[uint32]map[uint32]attribLayout)
		d.deleted = make(map[uint32]bool)
	}
}

func (d *Device) CompileShader(stage graphics.Stage, source string) (uint32, bool, string) {
	d.init()
	h := d.handle()
	d.shaders[h] = stage
	if d.FailCompile[stage] {
		return h, false, fmt.Sprintf("ERROR: 0:1: %s stage rejected", stage)
	}
	return h, true, ""
}

func (d *Device) DeleteShader(shader uint32) {
	d.init()
	delete(d.shaders, shader)
}

func (d *Device) CreateProgram() uint32 {
	d.init()
	h := d.handle()
	d.programs[h] = &program{
		locations: make(map[string]int32),
		values:    make(map[int32]any),
	}
	return h
}

func (d *Device) AttachShader(prog, shader uint32) {
	d.init()
	if p, ok := d.programs[prog]; ok {
		p.shaders = append(p.shaders, shader)
	}
}

func (d *Device) DetachShader(prog, shader uint32) {
	d.init()
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	for i, s := range p.shaders {
		if s == shader {
			p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
			break
		}
	}
}

func (d *Device) LinkProgram(prog uint32) (bool, string) {
	d.init()
	p, ok := d.programs[prog]
	if !ok {
		return false, "invalid program"
	}
	if d.FailLink || len(p.shaders) != 2 || d.FailCompile[graphics.VertexStage] || d.FailCompile[graphics.FragmentStage] {
		return false, "ERROR: link failed"
	}
	p.linked = true
	for i, name := range d.Uniforms {
		p.locations[name] = int32(i)
	}
	return true, ""
}

func (d *Device) ActiveUniforms(prog uint32) []string {
	d.init()
	p, ok := d.programs[prog]
	if !ok || !p.linked {
		return nil
	}
	return append([]string(nil), d.Uniforms...)
}

func (d *Device) UniformLocation(prog uint32, name string) int32 {
	d.init()
	p, ok := d.programs[prog]
	if !ok {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) AttribLocation(prog uint32, name string) int32 {
	d.init()
	if p, ok := d.programs[prog]; !ok || !p.linked {
		return -1
	}
	if loc, ok := d.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UseProgram(prog uint32) {
	d.CurrentProg = prog
}

func (d *Device) DeleteProgram(prog uint32) {
	d.init()
	if p, ok := d.programs[prog]; ok {
		p.deleted = true
	}
	if d.CurrentProg == prog {
		d.CurrentProg = 0
	}
}

// ProgramDeleted reports whether DeleteProgram was called for prog.
func (d *Device) ProgramDeleted(prog uint32) bool {
	d.init()
	p, ok := d.programs[prog]
	return ok && p.deleted
}

// LivePrograms counts created programs that were not deleted.
func (d *Device) LivePrograms() int {
	d.init()
	n := 0
	for _, p := range d.programs {
		if !p.deleted {
			n++
		}
	}
	return n
}

func (d *Device) setUniform(location int32, v any) {
	d.init()
	p, ok := d.programs[d.CurrentProg]
	if !ok {
		panic(fmt.Sprintf("graphicstest: uniform write at %d with no program bound", location))
	}
	if location < 0 {
		return
	}
	p.values[location] = v
}

func (d *Device) Uniform1i(location int32, v int32)            { d.setUniform(location, v) }
func (d *Device) Uniform1f(location int32, v float32)          { d.setUniform(location, v) }
func (d *Device) Uniform2f(location int32, v mgl32.Vec2)       { d.setUniform(location, v) }
func (d *Device) Uniform3f(location int32, v mgl32.Vec3)       { d.setUniform(location, v) }
func (d *Device) UniformMatrix4f(location int32, m mgl32.Mat4) { d.setUniform(location, m) }

// UniformValue returns the last value written to name in prog.
func (d *Device) UniformValue(prog uint32, name string) (any, bool) {
	d.init()
	p, ok := d.programs[prog]
	if !ok {
		return nil, false
	}
	loc, ok := p.locations[name]
	if !ok {
		return nil, false
	}
	v, ok := p.values[loc]
	return v, ok
}

func (d *Device) CreateBuffer(data []float32) uint32 {
	d.init()
	h := d.handle()
	d.buffers[h] = append([]float32(nil), data...)
	return h
}

func (d *Device) BindBuffer(buffer uint32) {
	d.CurrentVBO = buffer
}

func (d *Device) DeleteBuffer(buffer uint32) {
	d.init()
	delete(d.buffers, buffer)
	d.deleted[buffer] = true
}

// BufferData returns the contents uploaded to buffer.
func (d *Device) BufferData(buffer uint32) []float32 {
	d.init()
	return d.buffers[buffer]
}

func (d *Device) CreateVertexArray() uint32 {
	d.init()
	h := d.handle()
	d.vaos[h] = make(map[uint32]attribLayout)
	return h
}

func (d *Device) BindVertexArray(vao uint32) {
	d.CurrentVAO = vao
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.init()
	delete(d.vaos, vao)
	d.deleted[vao] = true
}

// Deleted reports whether the buffer or vertex array handle was deleted.
func (d *Device) Deleted(h uint32) bool {
	d.init()
	return d.deleted[h]
}

func (d *Device) VertexAttribFloat(attrib uint32, components, stride int32, offset int) {
	d.init()
	layouts, ok := d.vaos[d.CurrentVAO]
	if !ok {
		panic("graphicstest: VertexAttribFloat with no vertex array bound")
	}
	layouts[attrib] = attribLayout{Components: components, Stride: stride, Offset: offset, Buffer: d.CurrentVBO}
}

// Layout returns the attribute layout recorded for attrib in vao.
func (d *Device) Layout(vao, attrib uint32) (components, stride int32, buffer uint32, ok bool) {
	d.init()
	l, ok := d.vaos[vao][attrib]
	return l.Components, l.Stride, l.Buffer, ok
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.ClearRGBA = [4]float32{r, g, b, a}
}

func (d *Device) EnableDepthTest() {
	d.DepthTest = true
}

func (d *Device) Clear(mask graphics.ClearMask) {
	d.ClearCount++
	d.LastClear = mask
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.ViewportWH = [2]int32{width, height}
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	d.init()
	draw := Draw{
		Program:  d.CurrentProg,
		VAO:      d.CurrentVAO,
		Mode:     mode,
		First:    first,
		Count:    count,
		Uniforms: make(map[string]any),
	}
	if p, ok := d.programs[d.CurrentProg]; ok {
		for name, loc := range p.locations {
			if v, ok := p.values[loc]; ok {
				draw.Uniforms[name] = v
			}
		}
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Device) ReadPixels(width, height int, dst []byte) {
	for i := 0; i+3 < len(dst) && i < width*height*4; i += 4 {
		copy(dst[i:i+4], d.Pixel[:])
	}
}
