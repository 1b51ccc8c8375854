//go:build js && wasm

/*
Browser entry point. Grabs the page canvas, wraps its WebGL2 context and
drives the testbed scene from requestAnimationFrame.
*/
package main

import (
	"syscall/js"

	"github.com/spaghettifunk/lume/engine/config"
	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics"
	"github.com/spaghettifunk/lume/engine/graphics/webgl"
	"github.com/spaghettifunk/lume/testbed"
)

func main() {
	cfg := config.Default()
	core.SetLogLevel(cfg.Logging.Level)

	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "lume")
	if canvas.IsNull() {
		core.LogFatal("no canvas element with id \"lume\" on the page")
	}
	canvas.Set("width", cfg.Window.Width)
	canvas.Set("height", cfg.Window.Height)

	glctx := canvas.Call("getContext", "webgl2")
	if glctx.IsNull() {
		core.LogFatal("webgl2 is not available: %v", core.ErrUnsupportedBackend)
	}

	driver := webgl.New(glctx)
	ctx, err := graphics.NewContext(driver)
	if err != nil {
		core.LogFatal("context creation failed: %v", err)
	}
	driver.Viewport(cfg.Window.Width, cfg.Window.Height)

	demo, err := testbed.New(ctx, cfg.Renderer.MetricsInterval)
	if err != nil {
		core.LogFatal("scene setup failed: %v", err)
	}

	var frame js.Func
	frame = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if err := demo.Frame(); err != nil {
			core.LogError("frame failed: %v", err)
			demo.Shutdown()
			frame.Release()
			return nil
		}
		js.Global().Call("requestAnimationFrame", frame)
		return nil
	})
	js.Global().Call("requestAnimationFrame", frame)

	// Keep the Go runtime alive for the animation callbacks.
	select {}
}
