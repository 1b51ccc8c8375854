//go:build !js

package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/lume/engine/containers"
	"github.com/spaghettifunk/lume/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Resize is one framebuffer size change, in pixels.
type Resize struct {
	Width  int
	Height int
}

// Platform owns the window and the GL context current on the calling
// thread. It is the narrow collaborator the graphics layer stays unaware
// of: nothing under engine/graphics imports this package.
type Platform struct {
	Window *glfw.Window

	resizes *containers.RingQueue[Resize]
}

func New() *Platform {
	return &Platform{
		resizes: containers.NewRingQueue[Resize](16),
	}
}

// Startup creates the window and makes an OpenGL 3.3 core context
// current on this thread.
func (p *Platform) Startup(title string, width, height int) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	p.Window = window

	p.Window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		// coalesce: the renderer only cares about the latest size
		if p.resizes.IsFull() {
			_, _ = p.resizes.Dequeue()
		}
		_ = p.resizes.Enqueue(Resize{Width: width, Height: height})
	})

	return nil
}

func (p *Platform) Shutdown() error {
	glfw.Terminate()
	return nil
}

// PumpMessages polls window events and reports whether the window wants
// to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return p.Window.ShouldClose()
}

// SwapBuffers presents the backbuffer.
func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

// PollResize returns the oldest queued framebuffer resize, if any.
func (p *Platform) PollResize() (Resize, bool) {
	r, err := p.resizes.Dequeue()
	if err != nil {
		return Resize{}, false
	}
	return r, true
}
