//go:build !js

/*
Desktop entry point. Loads the TOML configuration, picks a backend and
runs the testbed scene either in a window (opengl) or headless (null).
*/
package main

import (
	"flag"

	"github.com/spaghettifunk/lume/engine/config"
	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics"
	gldriver "github.com/spaghettifunk/lume/engine/graphics/gl"
	"github.com/spaghettifunk/lume/engine/graphics/null"
	"github.com/spaghettifunk/lume/engine/platform"
	"github.com/spaghettifunk/lume/testbed"
)

func main() {
	configPath := flag.String("config", "lume.toml", "path to the configuration file")
	backend := flag.String("backend", "", "override the configured backend (opengl, null)")
	frames := flag.Int("frames", 600, "frame budget for the null backend")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if *backend != "" {
		cfg.Renderer.Backend = *backend
	}
	core.SetLogLevel(cfg.Logging.Level)
	if cfg.Renderer.Debug {
		core.SetLogLevel("debug")
	}

	watcher, err := config.Watch(*configPath)
	if err != nil {
		core.LogWarn("config watching disabled: %v", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	switch cfg.Renderer.Backend {
	case "null":
		err = runHeadless(cfg, *frames)
	case "opengl":
		err = runDesktop(cfg, watcher)
	default:
		core.LogFatal("unknown backend %q: %v", cfg.Renderer.Backend, core.ErrUnsupportedBackend)
	}
	if err != nil {
		panic(err)
	}
}

func runDesktop(cfg *config.Config, watcher *config.Watcher) error {
	p := platform.New()
	if err := p.Startup(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height); err != nil {
		return err
	}
	defer p.Shutdown()

	driver := gldriver.New()
	ctx, err := graphics.NewContext(driver)
	if err != nil {
		return err
	}
	driver.Viewport(cfg.Window.Width, cfg.Window.Height)

	demo, err := testbed.New(ctx, cfg.Renderer.MetricsInterval)
	if err != nil {
		return err
	}
	defer demo.Shutdown()

	for !p.PumpMessages() {
		if watcher != nil {
			select {
			case fresh := <-watcher.C:
				core.SetLogLevel(fresh.Logging.Level)
			default:
			}
		}
		if r, ok := p.PollResize(); ok {
			driver.Viewport(r.Width, r.Height)
		}
		if err := demo.Frame(); err != nil {
			return err
		}
		p.SwapBuffers()
	}
	return nil
}

func runHeadless(cfg *config.Config, frames int) error {
	driver := null.New()
	ctx, err := graphics.NewContext(driver)
	if err != nil {
		return err
	}

	demo, err := testbed.New(ctx, cfg.Renderer.MetricsInterval)
	if err != nil {
		return err
	}
	defer demo.Shutdown()

	for i := 0; i < frames; i++ {
		if err := demo.Frame(); err != nil {
			return err
		}
	}

	snap := core.MetricsSnapshot()
	core.LogInfo("headless run done: %d frames, %d draw calls, %.0f%% binds elided",
		frames, snap.DrawCalls, core.MetricsElisionRate()*100)
	return nil
}
