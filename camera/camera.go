// Package camera holds the translating camera whose state is fed to the
// fragment shader every frame.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Bound is the half extent of the cube the camera position is confined to.
const Bound float32 = 4.99

// DefaultSpeed is the movement speed in units per second.
const DefaultSpeed float32 = 1.0

var (
	DefaultPosition = mgl32.Vec3{0, 0, -4.9}
	// ViewDirection is fixed; the camera translates but never rotates.
	ViewDirection = mgl32.Vec3{0, 0, 1}
	WorldUp       = mgl32.Vec3{0, 1, 0}
)

// Direction is one of the six axis-aligned movement directions.
type Direction int

const (
	Forward Direction = iota
	Back
	Left
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// axis returns the position component moved by d and the sign of the move.
func (d Direction) axis() (int, float32) {
	switch d {
	case Forward:
		return 2, 1
	case Back:
		return 2, -1
	case Right:
		return 0, 1
	case Left:
		return 0, -1
	case Up:
		return 1, 1
	case Down:
		return 1, -1
	}
	return -1, 0
}

// Basis is the orthonormal camera frame.
type Basis struct {
	View mgl32.Vec3
	Up   mgl32.Vec3
	Side mgl32.Vec3
}

// State is the camera position. Every axis stays within [-Bound, Bound].
type State struct {
	Position mgl32.Vec3
}

// New returns a camera at DefaultPosition.
func New() *State {
	return &State{Position: DefaultPosition}
}

// Reset moves the camera back to DefaultPosition.
func (s *State) Reset() {
	s.Position = DefaultPosition
}

// ApplyMovement moves along one axis by speed*elapsed and clamps that axis.
// Calls for different directions compose additively; diagonal movement is
// not normalized.
func (s *State) ApplyMovement(dir Direction, elapsed, speed float32) {
	i, sign := dir.axis()
	if i < 0 {
		return
	}
	s.Position[i] = clamp(s.Position[i]+sign*speed*elapsed, -Bound, Bound)
}

// DeriveBasis computes the view/up/side frame from ViewDirection. The
// computation stays general so a rotating view can reuse it.
func (s *State) DeriveBasis() Basis {
	view := ViewDirection
	side := view.Mul(-1).Cross(WorldUp).Normalize()
	up := side.Cross(view.Mul(-1)).Normalize()
	return Basis{View: view, Up: up, Side: side}
}

// AspectScale returns the screen-space scale that keeps pixels square:
// (w/h, 1) for landscape framebuffers and (1, h/w) otherwise. A degenerate
// (minimized) framebuffer yields (1, 1).
func AspectScale(width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{1, 1}
	}
	if width > height {
		return mgl32.Vec2{float32(width) / float32(height), 1}
	}
	return mgl32.Vec2{1, float32(height) / float32(width)}
}

func clamp[T constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
