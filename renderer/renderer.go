package renderer

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/raylab/camera"
	"github.com/richinsley/raylab/geometry"
	"github.com/richinsley/raylab/graphics"
	options "github.com/richinsley/raylab/options"
)

// State is the lifecycle stage of a Host.
type State int

const (
	Uninitialized State = iota
	Loaded
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrNotLoaded is returned when a loop is started on a host that has not
// completed Load, or has already been shut down.
var ErrNotLoaded = errors.New("renderer: host is not loaded")

// Names shared with the fragment shader.
const (
	PositionAttribute = "vPosition"
	UniformPosition   = "uCamera.Position"
	UniformView       = "uCamera.View"
	UniformUp         = "uCamera.Up"
	UniformSide       = "uCamera.Side"
	UniformScale      = "uCamera.Scale"
)

// CameraUniforms must all be active in a program for it to be drawn.
var CameraUniforms = []string{UniformPosition, UniformView, UniformUp, UniformSide, UniformScale}

// Host ties the window, the camera and the shader program together. All
// methods must be called on the thread that owns the GL context.
type Host struct {
	context graphics.Context
	dev     graphics.Device
	options *options.HostOptions

	camera *camera.State
	quad   *geometry.Buffer
	scene  *Scene
	scenes *sceneCache
	state  State
	speed  float32

	reloadHeld bool
	resetHeld  bool

	// afterDraw runs between the draw call and the buffer swap.
	afterDraw func()
}

// NewHost creates a host in the Uninitialized state.
func NewHost(ctx graphics.Context, dev graphics.Device, opts *options.HostOptions) *Host {
	if opts == nil {
		opts = options.Default()
	}
	return &Host{
		context: ctx,
		dev:     dev,
		options: opts,
		camera:  camera.New(),
		scenes:  newSceneCache(),
		speed:   float32(*opts.Speed),
	}
}

// State returns the lifecycle stage.
func (r *Host) State() State {
	return r.state
}

// Camera returns the camera driven by Update.
func (r *Host) Camera() *camera.State {
	return r.camera
}

// Scene returns the scene currently rendered.
func (r *Host) Scene() *Scene {
	return r.scene
}

// Load allocates the quad, builds the shader program and sets the fixed
// pipeline state. It fails when the sources cannot be read, and, with the
// strict option, when the program does not build or lacks the camera
// uniforms.
func (r *Host) Load() error {
	if r.state != Uninitialized {
		return fmt.Errorf("renderer: Load called in state %s", r.state)
	}

	r.dev.EnableDepthTest()
	r.quad = geometry.NewQuad(r.dev)

	scene, err := r.loadScene()
	if err != nil {
		r.quad.Delete()
		r.quad = nil
		return err
	}
	r.activate(scene)

	r.dev.ClearColor(1.0, 1.0, 1.0, 1.0)

	width, height := r.context.GetFramebufferSize()
	r.Resize(width, height)
	r.context.SetResizeCallback(r.Resize)

	r.state = Loaded
	log.Printf("Host loaded: %dx%d framebuffer, scene %s", width, height, scene.ShortDigest())
	return nil
}

// Update applies one tick of input. Nothing happens without focus; the exit
// key requests close and ends the tick; otherwise every held movement key
// moves the camera by speed*elapsed along its axis.
func (r *Host) Update(elapsed float64) {
	if !r.context.Focused() {
		return
	}

	if r.context.KeyDown(graphics.KeyEscape) {
		r.context.SetShouldClose(true)
		return
	}

	reload := r.context.KeyDown(graphics.KeyR)
	if reload && !r.reloadHeld {
		r.Reload()
	}
	r.reloadHeld = reload

	reset := r.context.KeyDown(graphics.KeyHome)
	if reset && !r.resetHeld {
		r.camera.Reset()
	}
	r.resetHeld = reset

	for _, b := range movementBindings {
		if r.context.KeyDown(b.key) {
			r.camera.ApplyMovement(b.dir, float32(elapsed), r.speed)
		}
	}
}

// Render draws one frame and presents it. Bindings are re-established every
// frame since GL state is shared with anything else using the context.
func (r *Host) Render() {
	if r.quad == nil {
		return
	}

	r.dev.Clear(graphics.ColorBuffer | graphics.DepthBuffer)
	r.quad.Bind()

	if r.scene != nil && r.scene.Usable {
		program := r.scene.Program
		program.Use()

		basis := r.camera.DeriveBasis()
		program.SetVec3(UniformPosition, r.camera.Position)
		program.SetVec3(UniformView, basis.View)
		program.SetVec3(UniformUp, basis.Up)
		program.SetVec3(UniformSide, basis.Side)

		width, height := r.context.GetFramebufferSize()
		program.SetVec2(UniformScale, camera.AspectScale(width, height))

		r.dev.DrawArrays(graphics.TriangleStrip, 0, r.quad.Count())
	}

	if r.afterDraw != nil {
		r.afterDraw()
	}
	r.context.SwapBuffers()
}

// Resize updates the viewport. The aspect scale is derived again on the
// next Render, so no uniform is written here.
func (r *Host) Resize(width, height int) {
	r.dev.Viewport(0, 0, int32(width), int32(height))
}

// Run drives the interactive loop until close is requested.
func (r *Host) Run() error {
	if r.state != Loaded {
		return ErrNotLoaded
	}
	r.state = Running

	last := r.context.Time()
	for !r.context.ShouldClose() {
		now := r.context.Time()
		r.Update(now - last)
		last = now

		r.Render()
		r.context.PollEvents()
	}
	return nil
}

// Shutdown releases the programs, the vertex buffer and the vertex array.
// The window itself belongs to the caller.
func (r *Host) Shutdown() {
	if r.state == Terminated {
		return
	}
	r.scenes.Purge()
	if r.scene != nil {
		r.scene.Destroy()
		r.scene = nil
	}
	if r.quad != nil {
		r.quad.Delete()
		r.quad = nil
	}
	r.state = Terminated
}
