package graphicstest

import "github.com/richinsley/raylab/graphics"

// Context is a scripted graphics.Context. Time advances only when the test
// moves Clock; OnPoll runs on every PollEvents and can drive the loop.
type Context struct {
	Width, Height int
	Focus         bool
	Keys          map[graphics.Key]bool
	Clock         float64
	Closed        bool
	Swaps         int
	Polls         int
	ShutdownCalls int
	OnPoll        func(c *Context)

	onResize func(width, height int)
}

// NewContext returns a focused context with the given framebuffer size.
func NewContext(width, height int) *Context {
	return &Context{
		Width:  width,
		Height: height,
		Focus:  true,
		Keys:   make(map[graphics.Key]bool),
	}
}

func (c *Context) MakeCurrent()          {}
func (c *Context) Shutdown()             { c.ShutdownCalls++ }
func (c *Context) ShouldClose() bool     { return c.Closed }
func (c *Context) SetShouldClose(v bool) { c.Closed = v }
func (c *Context) SwapBuffers()          { c.Swaps++ }
func (c *Context) Time() float64         { return c.Clock }
func (c *Context) Focused() bool         { return c.Focus }

func (c *Context) PollEvents() {
	c.Polls++
	if c.OnPoll != nil {
		c.OnPoll(c)
	}
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.Width, c.Height
}

func (c *Context) KeyDown(key graphics.Key) bool {
	return c.Keys[key]
}

func (c *Context) SetResizeCallback(f func(width, height int)) {
	c.onResize = f
}

// Resize changes the framebuffer size and fires the resize callback.
func (c *Context) Resize(width, height int) {
	c.Width, c.Height = width, height
	if c.onResize != nil {
		c.onResize(width, height)
	}
}
