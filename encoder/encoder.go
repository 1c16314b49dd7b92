package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered RGBA frame, bottom row first as read
// back from OpenGL.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Config describes the video written by an Encoder.
type Config struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	FFMPEGPath string
	Codec      string // "h264" or "hevc"
}

// FrameSize is the byte size of one RGBA frame.
func (c Config) FrameSize() int {
	return c.Width * c.Height * 4
}

// Args returns the ffmpeg input and output arguments for cfg.
func Args(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": cfg.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		// OpenGL reads rows bottom-up.
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	switch runtime.GOOS {
	case "darwin":
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if cfg.Codec == "hevc" && strings.HasSuffix(cfg.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

var errExited = errors.New("ffmpeg exited before the stream ended")

// Encoder is the consumer side of a recording: frames sent to it are piped
// into an ffmpeg process on a separate goroutine. It never touches GL.
type Encoder struct {
	cfg    Config
	frames chan *Frame
	done   chan error
	run    func(r io.Reader) error
}

// New creates an encoder for cfg. Call Start before sending frames.
func New(cfg Config) *Encoder {
	e := &Encoder{
		cfg:    cfg,
		frames: make(chan *Frame, 3),
		done:   make(chan error, 1),
	}
	e.run = e.runFFmpeg
	return e
}

func (e *Encoder) runFFmpeg(r io.Reader) error {
	inputArgs, outputArgs := Args(e.cfg)
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(e.cfg.OutputFile, outputArgs).
		OverWriteOutput().WithInput(r).ErrorToStdOut()

	if e.cfg.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(e.cfg.FFMPEGPath)
	}
	return cmd.Run()
}

// Start launches ffmpeg and the consumer goroutine.
func (e *Encoder) Start() {
	pipeReader, pipeWriter := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		err := e.run(pipeReader)
		closeErr := err
		if closeErr == nil {
			closeErr = errExited
		}
		pipeReader.CloseWithError(closeErr)
		errc <- err
	}()

	go e.consume(pipeWriter, errc)
}

func (e *Encoder) consume(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	frameSize := e.cfg.FrameSize()
	for frame := range e.frames {
		if writeErr != nil {
			// keep draining so the producer never blocks
			continue
		}
		if len(frame.Pixels) != frameSize {
			writeErr = fmt.Errorf("frame %d has %d bytes, want %d", frame.PTS, len(frame.Pixels), frameSize)
			w.CloseWithError(writeErr)
			continue
		}
		if _, err := w.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to ffmpeg: %v", frame.PTS, err)
			writeErr = err
		}
	}
	w.Close()

	runErr := <-errc
	if writeErr != nil {
		e.done <- writeErr
		return
	}
	e.done <- runErr
}

// Send queues a frame for encoding.
func (e *Encoder) Send(frame *Frame) {
	e.frames <- frame
}

// Close signals the end of the stream and waits for ffmpeg to finish.
func (e *Encoder) Close() error {
	close(e.frames)
	return <-e.done
}
