package renderer

import (
	"github.com/richinsley/raylab/camera"
	"github.com/richinsley/raylab/graphics"
)

type binding struct {
	key graphics.Key
	dir camera.Direction
}

var movementBindings = []binding{
	{graphics.KeyW, camera.Forward},
	{graphics.KeyS, camera.Back},
	{graphics.KeyD, camera.Right},
	{graphics.KeyA, camera.Left},
	{graphics.KeySpace, camera.Up},
	{graphics.KeyLeftShift, camera.Down},
}

// scriptedInput replaces the keyboard of a window with a fixed set of held
// keys and reports focus, so recordings go through the same Update rules.
type scriptedInput struct {
	graphics.Context
	held map[graphics.Key]bool
}

func newScriptedInput(ctx graphics.Context, keys []graphics.Key) *scriptedInput {
	held := make(map[graphics.Key]bool, len(keys))
	for _, k := range keys {
		held[k] = true
	}
	return &scriptedInput{Context: ctx, held: held}
}

func (s *scriptedInput) Focused() bool {
	return true
}

func (s *scriptedInput) KeyDown(key graphics.Key) bool {
	return s.held[key]
}
