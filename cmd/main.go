package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/profile"
	"github.com/richinsley/raylab/gldevice"
	"github.com/richinsley/raylab/glfwcontext"
	"github.com/richinsley/raylab/graphics"
	"github.com/richinsley/raylab/headless"
	options "github.com/richinsley/raylab/options"
	"github.com/richinsley/raylab/renderer"
)

func runHost(opts *options.HostOptions) {
	record := *opts.Mode == "record"

	var ctx graphics.Context
	var err error
	if *opts.Headless {
		ctx, err = headless.New(*opts.Width, *opts.Height)
	} else {
		// Recording renders into a hidden window
		ctx, err = glfwcontext.New(opts, !record)
	}
	if err != nil {
		log.Fatalf("Failed to create graphics context: %v", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	dev, err := gldevice.New()
	if err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}
	log.Printf("OpenGL version: %s", dev.Version())

	host := renderer.NewHost(ctx, dev, opts)
	defer host.Shutdown()

	if err := host.Load(); err != nil {
		log.Fatalf("Failed to load host: %v", err)
	}

	if record {
		log.Println("Starting offscreen render loop...")
		sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := host.Record(sigctx); err != nil {
			log.Fatalf("Offscreen rendering failed: %v", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return
	}

	log.Println("Starting interactive render loop...")
	if err := host.Run(); err != nil {
		log.Fatalf("Render loop failed: %v", err)
	}
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	if *opts.Help {
		fmt.Println("RayTracingLab: interactive ray tracing shader host")
		options.PrintDefaults(os.Stdout)
		return
	}

	if *opts.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	if !*opts.Headless {
		if err := glfwcontext.InitGraphics(); err != nil {
			log.Fatalf("Failed to initialize GLFW: %v", err)
		}
		defer glfwcontext.TerminateGraphics()
	}

	runHost(opts)
}
