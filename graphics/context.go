package graphics

// Context defines the interface for the window that owns the OpenGL context.
// It supplies presentation, event pumping and polled input state.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	SetShouldClose(bool)
	// SwapBuffers presents the frame rendered since the last call.
	SwapBuffers()
	PollEvents()
	GetFramebufferSize() (int, int)
	Time() float64
	// Focused reports whether the window currently has input focus.
	Focused() bool
	// KeyDown reports whether key is currently held.
	KeyDown(key Key) bool
	// SetResizeCallback registers f to be called with the new framebuffer
	// size whenever the window is resized.
	SetResizeCallback(f func(width, height int))
}

// Key identifies a keyboard key independently of the window backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftShift
	KeyEscape
	KeyR
	KeyHome
)

var keyNames = map[Key]string{
	KeyW:         "w",
	KeyA:         "a",
	KeyS:         "s",
	KeyD:         "d",
	KeySpace:     "space",
	KeyLeftShift: "lshift",
	KeyEscape:    "escape",
	KeyR:         "r",
	KeyHome:      "home",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// KeyByName returns the key with the given lower-case name.
func KeyByName(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyUnknown, false
}
