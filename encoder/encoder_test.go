package encoder

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestArgs(t *testing.T) {
	in, out := Args(Config{Width: 640, Height: 360, FPS: 30, OutputFile: "clip.mp4", Codec: "hevc"})
	if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" {
		t.Errorf("input args = %v", in)
	}
	if in["s"] != "640x360" {
		t.Errorf("size = %v, want 640x360", in["s"])
	}
	if in["framerate"] != 30 {
		t.Errorf("framerate = %v, want 30", in["framerate"])
	}
	if out["vf"] != "vflip" {
		t.Errorf("vf = %v, want vflip", out["vf"])
	}
	if out["tag:v"] != "hvc1" {
		t.Errorf("tag:v = %v, want hvc1", out["tag:v"])
	}
	if _, ok := out["c:v"]; !ok {
		t.Error("no video codec selected")
	}

	_, out = Args(Config{Width: 2, Height: 2, FPS: 1, OutputFile: "clip.mkv", Codec: "h264"})
	if _, ok := out["tag:v"]; ok {
		t.Error("tag:v set for h264")
	}
}

func newTestEncoder(cfg Config, run func(r io.Reader) error) *Encoder {
	e := New(cfg)
	e.run = run
	return e
}

func TestEncoderPipesFrames(t *testing.T) {
	cfg := Config{Width: 2, Height: 1, FPS: 1}
	var got bytes.Buffer
	e := newTestEncoder(cfg, func(r io.Reader) error {
		_, err := io.Copy(&got, r)
		return err
	})
	e.Start()

	for i := 0; i < 5; i++ {
		e.Send(&Frame{Pixels: bytes.Repeat([]byte{byte(i)}, cfg.FrameSize()), PTS: int64(i)})
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got.Len() != 5*cfg.FrameSize() {
		t.Fatalf("ffmpeg received %d bytes, want %d", got.Len(), 5*cfg.FrameSize())
	}
	if b := got.Bytes()[4*cfg.FrameSize()]; b != 4 {
		t.Errorf("last frame byte = %d, want 4", b)
	}
}

func TestEncoderRejectsWrongFrameSize(t *testing.T) {
	cfg := Config{Width: 2, Height: 2, FPS: 1}
	e := newTestEncoder(cfg, func(r io.Reader) error {
		_, err := io.Copy(io.Discard, r)
		return err
	})
	e.Start()
	e.Send(&Frame{Pixels: make([]byte, 3)})
	e.Send(&Frame{Pixels: make([]byte, cfg.FrameSize())})
	if err := e.Close(); err == nil {
		t.Fatal("Close succeeded after a short frame")
	}
}

func TestEncoderReportsFFmpegFailure(t *testing.T) {
	cfg := Config{Width: 1, Height: 1, FPS: 1}
	boom := errors.New("exit status 1")
	e := newTestEncoder(cfg, func(r io.Reader) error {
		return boom
	})
	e.Start()
	for i := 0; i < 10; i++ {
		e.Send(&Frame{Pixels: make([]byte, cfg.FrameSize()), PTS: int64(i)})
	}
	if err := e.Close(); !errors.Is(err, boom) {
		t.Fatalf("Close = %v, want %v", err, boom)
	}
}
