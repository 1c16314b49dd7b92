package shader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/raylab/graphics"
	"github.com/richinsley/raylab/graphics/graphicstest"
)

var cameraUniforms = []string{
	"uCamera.Position", "uCamera.View", "uCamera.Up", "uCamera.Side", "uCamera.Scale",
}

func TestCompileBuildsUniformMap(t *testing.T) {
	dev := graphicstest.NewDevice(append(cameraUniforms, "uLights[0]")...)
	p, err := Compile(dev, "vs", "fs")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !p.Linked() {
		t.Error("Linked = false, want true")
	}
	if err := p.Require(cameraUniforms...); err != nil {
		t.Errorf("Require: %v", err)
	}
	if !p.Has("uLights") || !p.Has("uLights[0]") {
		t.Error("array uniform not reachable by bare and indexed name")
	}
	want := []string{"uCamera.Position", "uCamera.Scale", "uCamera.Side", "uCamera.Up", "uCamera.View", "uLights", "uLights[0]"}
	if got := p.Uniforms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Uniforms = %v, want %v", got, want)
	}
}

func TestUniformsReturnsCopy(t *testing.T) {
	dev := graphicstest.NewDevice("a")
	p, _ := Compile(dev, "vs", "fs")
	names := p.Uniforms()
	names[0] = "b"
	if p.Has("b") || !p.Has("a") {
		t.Error("mutating Uniforms() result changed the program")
	}
}

func TestRequireReportsMissing(t *testing.T) {
	dev := graphicstest.NewDevice("uCamera.Position")
	p, _ := Compile(dev, "vs", "fs")
	err := p.Require("uCamera.Position", "uCamera.Scale", "uTime")
	var missing *MissingUniformsError
	if !errors.As(err, &missing) {
		t.Fatalf("Require error = %v, want *MissingUniformsError", err)
	}
	if !reflect.DeepEqual(missing.Names, []string{"uCamera.Scale", "uTime"}) {
		t.Errorf("missing = %v", missing.Names)
	}
}

func TestCompileFailureIsPermissive(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*graphicstest.Device)
		stage string
	}{
		{"vertex", func(d *graphicstest.Device) { d.FailCompile = map[graphics.Stage]bool{graphics.VertexStage: true} }, "vertex"},
		{"fragment", func(d *graphicstest.Device) { d.FailCompile = map[graphics.Stage]bool{graphics.FragmentStage: true} }, "fragment"},
		{"link", func(d *graphicstest.Device) { d.FailLink = true }, "link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := graphicstest.NewDevice(cameraUniforms...)
			tt.setup(dev)
			p, err := Compile(dev, "vs", "fs")
			if p == nil {
				t.Fatal("Compile returned nil program")
			}
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *CompileError", err)
			}
			if ce.Stage != tt.stage {
				t.Errorf("Stage = %q, want %q", ce.Stage, tt.stage)
			}
			if p.Linked() {
				t.Error("Linked = true after failure")
			}
			if len(p.Uniforms()) != 0 {
				t.Errorf("Uniforms = %v, want none", p.Uniforms())
			}
			if p.Require(cameraUniforms...) == nil {
				t.Error("Require succeeded on a failed program")
			}
		})
	}
}

func TestSettersWriteToOwnProgram(t *testing.T) {
	dev := graphicstest.NewDevice("uPos", "uScale", "uFrame", "uTime", "uMVP")
	p, _ := Compile(dev, "vs", "fs")
	other, _ := Compile(dev, "vs", "fs")
	other.Use()

	p.SetVec3("uPos", mgl32.Vec3{1, 2, 3})
	p.SetVec2("uScale", mgl32.Vec2{4, 5})
	p.SetInt("uFrame", 7)
	p.SetFloat("uTime", 1.5)
	p.SetMatrix4("uMVP", mgl32.Ident4())

	checks := map[string]any{
		"uPos":   mgl32.Vec3{1, 2, 3},
		"uScale": mgl32.Vec2{4, 5},
		"uFrame": int32(7),
		"uTime":  float32(1.5),
		"uMVP":   mgl32.Ident4(),
	}
	for name, want := range checks {
		got, ok := dev.UniformValue(p.Handle(), name)
		if !ok || got != want {
			t.Errorf("%s = %v (set %v), want %v", name, got, ok, want)
		}
		if _, ok := dev.UniformValue(other.Handle(), name); ok {
			t.Errorf("%s leaked into the other program", name)
		}
	}
}

func TestSetUnknownUniformPanics(t *testing.T) {
	dev := graphicstest.NewDevice("uPos")
	p, _ := Compile(dev, "vs", "fs")
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("SetVec3 on unknown uniform did not panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "uMissing") {
			t.Errorf("panic = %v, want it to name the uniform", r)
		}
	}()
	p.SetVec3("uMissing", mgl32.Vec3{})
}

func TestAttribLocation(t *testing.T) {
	dev := graphicstest.NewDevice()
	p, _ := Compile(dev, "vs", "fs")
	if got := p.AttribLocation("vPosition"); got != 0 {
		t.Errorf("AttribLocation(vPosition) = %d, want 0", got)
	}
	if got := p.AttribLocation("vNormal"); got != NotFound {
		t.Errorf("AttribLocation(vNormal) = %d, want %d", got, NotFound)
	}
}

func TestResolver(t *testing.T) {
	dev := graphicstest.NewDevice("_uuCamera._uPosition")
	dev.Attribs = map[string]int32{"_uvPosition": 3}
	p, err := Compile(dev, "vs", "fs", WithResolver(func(name string) string {
		parts := strings.Split(name, ".")
		for i := range parts {
			parts[i] = "_u" + parts[i]
		}
		return strings.Join(parts, ".")
	}))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !p.Has("uCamera.Position") {
		t.Error("resolved uniform not found")
	}
	p.SetVec3("uCamera.Position", mgl32.Vec3{1, 1, 1})
	if got := p.AttribLocation("vPosition"); got != 3 {
		t.Errorf("AttribLocation = %d, want 3", got)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	dev := graphicstest.NewDevice()
	p, _ := Compile(dev, "vs", "fs")
	p.Delete()
	p.Delete()
	if !dev.ProgramDeleted(p.Handle()) {
		t.Error("program not deleted")
	}
	if dev.LivePrograms() != 0 {
		t.Errorf("LivePrograms = %d, want 0", dev.LivePrograms())
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.vert"), []byte("vertex"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.frag"), []byte("fragment"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := LoadSources(dir, "a.vert", "a.frag")
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if src.Vertex != "vertex" || src.Fragment != "fragment" {
		t.Errorf("sources = %+v", src)
	}
	if _, err := LoadSources(dir, "a.vert", "missing.frag"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestDigest(t *testing.T) {
	a := Sources{Vertex: "ab", Fragment: "c"}
	b := Sources{Vertex: "a", Fragment: "bc"}
	if a.Digest() == b.Digest() {
		t.Error("digest does not separate the stages")
	}
	if a.Digest() != (Sources{Vertex: "ab", Fragment: "c"}).Digest() {
		t.Error("digest not deterministic")
	}
}

func TestShippedShadersDeclareCameraUniforms(t *testing.T) {
	src, err := LoadSources(filepath.Join("..", "Shaders"), "shader.vert", "shader.frag")
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if !strings.Contains(src.Vertex, "vPosition") {
		t.Error("vertex shader does not declare vPosition")
	}
	for _, field := range []string{"Position", "View", "Up", "Side", "Scale"} {
		if !strings.Contains(src.Fragment, field) {
			t.Errorf("fragment shader lacks camera field %s", field)
		}
	}
	if !strings.Contains(src.Fragment, "uniform Camera uCamera") {
		t.Error("fragment shader does not declare uCamera")
	}
}
