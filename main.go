package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/errors"

	"vulkan-triangle/frame"
	"vulkan-triangle/gpu"
	"vulkan-triangle/gpu/vulkan"
	"vulkan-triangle/shaders"
	"vulkan-triangle/window"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called
	// from the main thread.
	runtime.LockOSThread()

	flag.BoolVar(&args.debug, "debug", false,
		"Enable Vulkan validation layers and debug logging")
	flag.BoolVar(&args.fence, "fence", false,
		"Wait for the previous frame to finish before recording the next one")
}

var args struct {
	debug bool
	fence bool
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if args.debug {
		level = slog.LevelDebug
	}
	gpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	app := &TriangleApp{
		width:  256,
		height: 256,
		debug:  args.debug,
		fence:  args.fence,
	}
	if err := app.Run(); err != nil {
		log.Fatalf("ERROR: %s", err)
	}
}

// TriangleApp draws a single colored triangle until its window is closed or
// Escape is pressed.
type TriangleApp struct {
	width  int
	height int

	// debug enables the validation layers.
	debug bool

	// fence makes every frame wait for the previous one on the CPU.
	fence bool
}

// Run opens the window and the device, draws frames and tears everything down
// again.
func (a *TriangleApp) Run() error {
	win, err := window.New(a.width, a.height, title)
	if err != nil {
		return errors.Wrap(err, "initWindow")
	}
	defer win.Destroy()

	dev, err := vulkan.Open(win, vulkan.Options{
		AppName: title,
		Debug:   a.debug,
	})
	if err != nil {
		return errors.Wrap(err, "initVulkan")
	}
	defer dev.Close()

	vertex, fragment, err := shaders.Load()
	if err != nil {
		return errors.Wrap(err, "loading shaders")
	}

	renderer, err := frame.New(dev, frame.Shaders{
		Vertex:   vertex,
		Fragment: fragment,
	}, frame.Options{
		Extent:      win.Extent(),
		FenceFrames: a.fence,
	})
	if err != nil {
		return errors.Wrap(err, "creating renderer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := renderer.Run(ctx, win)
	closeErr := renderer.Close()

	if runErr != nil {
		return errors.Wrap(runErr, "mainLoop")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "cleanup")
	}

	return nil
}

const title = "Hello Triangle"
