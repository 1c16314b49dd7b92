package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/raylab/graphics"
	options "github.com/richinsley/raylab/options"
)

var glfwKeys = map[graphics.Key]glfw.Key{
	graphics.KeyW:         glfw.KeyW,
	graphics.KeyA:         glfw.KeyA,
	graphics.KeyS:         glfw.KeyS,
	graphics.KeyD:         glfw.KeyD,
	graphics.KeySpace:     glfw.KeySpace,
	graphics.KeyLeftShift: glfw.KeyLeftShift,
	graphics.KeyEscape:    glfw.KeyEscape,
	graphics.KeyR:         glfw.KeyR,
	graphics.KeyHome:      glfw.KeyHome,
}

// Context wraps a GLFW window and implements graphics.Context.
type Context struct {
	window   *glfw.Window
	onResize func(width, height int)
}

// New creates a window with an OpenGL 4.1 core context sized and placed
// according to options. A hidden window is used for offscreen recording.
func New(options *options.HostOptions, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(*options.Width, *options.Height, *options.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	if visible {
		win.SetPos(*options.X, *options.Y)
	}

	c := &Context{window: win}
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)

	return c, nil
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.onResize != nil {
		c.onResize(width, height)
	}
}

func (c *Context) SetResizeCallback(f func(width, height int)) {
	c.onResize = f
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown only destroys the window; GLFW itself is terminated by TerminateGraphics.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) PollEvents() {
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

func (c *Context) Focused() bool {
	return c.window.GetAttrib(glfw.Focused) == glfw.True
}

func (c *Context) KeyDown(key graphics.Key) bool {
	k, ok := glfwKeys[key]
	if !ok {
		return false
	}
	return c.window.GetKey(k) == glfw.Press
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
