package renderer

import (
	"context"
	"fmt"
	"log"

	"github.com/richinsley/raylab/encoder"
)

// frameSender is the consumer side of a recording.
type frameSender interface {
	Start()
	Send(frame *encoder.Frame)
	Close() error
}

var newEncoder = func(cfg encoder.Config) frameSender {
	return encoder.New(cfg)
}

// Record renders duration*fps frames with a fixed time step and sends them
// to the encoder. Input comes from the HoldKeys option instead of the
// keyboard, so the camera follows the same Update rules as interactively.
func (r *Host) Record(ctx context.Context) error {
	if r.state != Loaded {
		return ErrNotLoaded
	}

	keys, err := r.options.HeldKeys()
	if err != nil {
		return err
	}

	fps := *r.options.FPS
	totalFrames := int(*r.options.Duration * float64(fps))
	timeStep := 1.0 / float64(fps)
	width, height := r.context.GetFramebufferSize()

	cfg := encoder.Config{
		Width:      width,
		Height:     height,
		FPS:        fps,
		OutputFile: *r.options.OutputFile,
		FFMPEGPath: *r.options.FFMPEGPath,
		Codec:      *r.options.Codec,
	}
	enc := newEncoder(cfg)
	enc.Start()

	window := r.context
	r.context = newScriptedInput(window, keys)
	var pixels []byte
	r.afterDraw = func() {
		r.dev.ReadPixels(width, height, pixels)
	}
	defer func() {
		r.context = window
		r.afterDraw = nil
	}()

	log.Printf("Recording %d frames at %dx%d, %d fps to %s", totalFrames, width, height, fps, cfg.OutputFile)
	r.state = Running

	var loopErr error
	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			loopErr = err
			break
		}
		if r.context.ShouldClose() {
			break
		}

		r.Update(timeStep)

		pixels = make([]byte, cfg.FrameSize())
		r.Render()
		enc.Send(&encoder.Frame{Pixels: pixels, PTS: int64(i)})

		if (i+1)%fps == 0 {
			log.Printf("Recorded %d/%d frames", i+1, totalFrames)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoder failed: %w", err)
	}
	return loopErr
}
