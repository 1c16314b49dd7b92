package shader

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/raylab/graphics"
)

// NotFound is returned by AttribLocation for attributes the program does not declare.
const NotFound int32 = -1

// CompileError carries the diagnostics of a failed compile or link.
type CompileError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// MissingUniformsError lists uniforms the host expects but the program lacks.
type MissingUniformsError struct {
	Program uint32
	Names   []string
}

func (e *MissingUniformsError) Error() string {
	return fmt.Sprintf("program %d is missing uniforms: %s", e.Program, strings.Join(e.Names, ", "))
}

// Option configures Compile.
type Option func(*Program)

// WithResolver maps the names used by the host to the names found in the
// linked program. Translated shaders rename their identifiers.
func WithResolver(resolve func(name string) string) Option {
	return func(p *Program) {
		p.resolve = resolve
	}
}

// Program is a linked shader program with its uniform locations. The
// location map is filled once by Compile and never changes afterwards.
type Program struct {
	dev       graphics.Device
	handle    uint32
	uniforms  map[string]int32
	resolve   func(string) string
	linked    bool
	destroyed bool
}

// Compile builds a program from the two stage sources. Diagnostics are
// logged either way. A failed compile or link still returns the program,
// holding whatever handle resulted, together with a *CompileError, so the
// caller decides whether to keep running with it.
func Compile(dev graphics.Device, vertexSource, fragmentSource string, opts ...Option) (*Program, error) {
	p := &Program{
		dev:      dev,
		uniforms: make(map[string]int32),
		resolve:  func(name string) string { return name },
	}
	for _, opt := range opts {
		opt(p)
	}

	var firstErr error
	stages := []struct {
		stage  graphics.Stage
		source string
	}{
		{graphics.VertexStage, vertexSource},
		{graphics.FragmentStage, fragmentSource},
	}

	p.handle = dev.CreateProgram()
	shaders := make([]uint32, 0, len(stages))
	for _, s := range stages {
		handle, ok, infoLog := dev.CompileShader(s.stage, s.source)
		if !ok {
			log.Printf("%s shader failed to compile: %s", s.stage, strings.TrimSpace(infoLog))
			if firstErr == nil {
				firstErr = &CompileError{Stage: s.stage.String(), Log: infoLog}
			}
		} else if strings.TrimSpace(infoLog) != "" {
			log.Printf("%s shader compiled with warnings: %s", s.stage, strings.TrimSpace(infoLog))
		}
		dev.AttachShader(p.handle, handle)
		shaders = append(shaders, handle)
	}

	ok, infoLog := dev.LinkProgram(p.handle)
	if !ok {
		log.Printf("program %d failed to link: %s", p.handle, strings.TrimSpace(infoLog))
		if firstErr == nil {
			firstErr = &CompileError{Stage: "link", Log: infoLog}
		}
	} else if strings.TrimSpace(infoLog) != "" {
		log.Printf("program %d linked with warnings: %s", p.handle, strings.TrimSpace(infoLog))
	}
	p.linked = ok

	for _, s := range shaders {
		dev.DetachShader(p.handle, s)
		dev.DeleteShader(s)
	}

	for _, name := range dev.ActiveUniforms(p.handle) {
		loc := dev.UniformLocation(p.handle, name)
		if loc < 0 {
			continue
		}
		p.uniforms[name] = loc
		// Arrays are reported as "name[0]"; also accept the bare name.
		if base, found := strings.CutSuffix(name, "[0]"); found {
			if _, exists := p.uniforms[base]; !exists {
				p.uniforms[base] = loc
			}
		}
	}

	if firstErr == nil {
		log.Printf("program %d linked with %d active uniforms", p.handle, len(p.uniforms))
	}
	return p, firstErr
}

// Handle returns the GPU program handle.
func (p *Program) Handle() uint32 {
	return p.handle
}

// Linked reports whether the link step succeeded.
func (p *Program) Linked() bool {
	return p.linked
}

// Use binds the program for subsequent uniform writes and draw calls.
func (p *Program) Use() {
	p.dev.UseProgram(p.handle)
}

// Has reports whether name is an active uniform of the program.
func (p *Program) Has(name string) bool {
	_, ok := p.uniforms[p.resolve(name)]
	return ok
}

// Require returns a *MissingUniformsError naming every absent uniform.
func (p *Program) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !p.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingUniformsError{Program: p.handle, Names: missing}
	}
	return nil
}

// Uniforms returns the sorted names of the active uniforms.
func (p *Program) Uniforms() []string {
	names := make([]string, 0, len(p.uniforms))
	for name := range p.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// location panics for names the program does not declare: that is a
// mismatch between host code and shader source, not a runtime condition.
func (p *Program) location(name string) int32 {
	loc, ok := p.uniforms[p.resolve(name)]
	if !ok {
		panic(fmt.Sprintf("shader: uniform %q is not active in program %d", name, p.handle))
	}
	return loc
}

// The setters bind the program first so they never write into another one.

func (p *Program) SetInt(name string, v int32) {
	loc := p.location(name)
	p.Use()
	p.dev.Uniform1i(loc, v)
}

func (p *Program) SetFloat(name string, v float32) {
	loc := p.location(name)
	p.Use()
	p.dev.Uniform1f(loc, v)
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	loc := p.location(name)
	p.Use()
	p.dev.Uniform2f(loc, v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	loc := p.location(name)
	p.Use()
	p.dev.Uniform3f(loc, v)
}

func (p *Program) SetMatrix4(name string, m mgl32.Mat4) {
	loc := p.location(name)
	p.Use()
	p.dev.UniformMatrix4f(loc, m)
}

// AttribLocation returns the attribute slot for name, or NotFound.
func (p *Program) AttribLocation(name string) int32 {
	loc := p.dev.AttribLocation(p.handle, p.resolve(name))
	if loc < 0 {
		return NotFound
	}
	return loc
}

// Delete releases the GPU program. Safe to call more than once.
func (p *Program) Delete() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.dev.DeleteProgram(p.handle)
}
