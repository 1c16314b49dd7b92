package options

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/richinsley/raylab/graphics"
)

// HostOptions holds the command-line configuration of the host. Every field
// defaults to the fixed values of the interactive viewer, so running without
// flags opens the standard 1200x1200 window.
type HostOptions struct {
	Width      *int
	Height     *int
	X          *int
	Y          *int
	Title      *string
	ShaderDir  *string
	VertexFile *string
	FragFile   *string
	Speed      *float64
	Strict     *bool   // Fail Load when a shader does not compile/link or lacks the camera uniforms
	Translate  *bool   // Treat shader sources as WebGL2 GLSL ES and translate them to GLSL 410
	Mode       *string // "interactive" or "record"
	Headless   *bool   // Record through an EGL pbuffer instead of a hidden window
	Help       *bool
	Profile    *bool
	// Recording options
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	HoldKeys   *string // comma separated key names held down during recording, e.g. "w,space"
}

func newFlagSet() (*flag.FlagSet, *HostOptions) {
	fs := flag.NewFlagSet("raylab", flag.ContinueOnError)
	o := &HostOptions{
		Width:      fs.Int("width", 1200, "Window width"),
		Height:     fs.Int("height", 1200, "Window height"),
		X:          fs.Int("x", 100, "Window x position"),
		Y:          fs.Int("y", 100, "Window y position"),
		Title:      fs.String("title", "RayTracingLab", "Window title"),
		ShaderDir:  fs.String("shaders", "Shaders", "Directory holding the shader sources"),
		VertexFile: fs.String("vert", "shader.vert", "Vertex shader file name"),
		FragFile:   fs.String("frag", "shader.frag", "Fragment shader file name"),
		Speed:      fs.Float64("speed", 1.0, "Camera speed in units per second"),
		Strict:     fs.Bool("strict", false, "Abort when the shaders fail to compile or link"),
		Translate:  fs.Bool("translate", false, "Translate WebGL2 GLSL ES sources to desktop GLSL"),
		Mode:       fs.String("mode", "interactive", "Run mode: interactive or record"),
		Headless:   fs.Bool("headless", false, "Record without a display using EGL (Linux only)"),
		Help:       fs.Bool("help", false, "Show help message"),
		Profile:    fs.Bool("profile", false, "Write a CPU profile while running"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		HoldKeys:   fs.String("hold", "", "Keys held down while recording, e.g. w,space"),
	}
	return fs, o
}

// Parse builds HostOptions from args (without the program name).
func Parse(args []string) (*HostOptions, error) {
	fs, o := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// PrintDefaults writes the flag usage to w.
func PrintDefaults(w io.Writer) {
	fs, _ := newFlagSet()
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// Default returns the options used when no flags are given.
func Default() *HostOptions {
	o, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return o
}

// Validate checks option values that flag parsing alone cannot.
func (o *HostOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", *o.Width, *o.Height)
	}
	switch *o.Mode {
	case "interactive", "record":
	default:
		return fmt.Errorf("unknown mode %q", *o.Mode)
	}
	if *o.Headless && *o.Mode != "record" {
		return fmt.Errorf("-headless requires -mode record")
	}
	if *o.Mode == "record" {
		if *o.FPS <= 0 {
			return fmt.Errorf("fps must be positive, got %d", *o.FPS)
		}
		if *o.Duration <= 0 {
			return fmt.Errorf("duration must be positive, got %g", *o.Duration)
		}
	}
	switch *o.Codec {
	case "h264", "hevc":
	default:
		return fmt.Errorf("unknown codec %q", *o.Codec)
	}
	if _, err := o.HeldKeys(); err != nil {
		return err
	}
	return nil
}

// HeldKeys parses the HoldKeys list.
func (o *HostOptions) HeldKeys() ([]graphics.Key, error) {
	if o.HoldKeys == nil || strings.TrimSpace(*o.HoldKeys) == "" {
		return nil, nil
	}
	var keys []graphics.Key
	for _, name := range strings.Split(*o.HoldKeys, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		key, ok := graphics.KeyByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown key %q in -hold", name)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
