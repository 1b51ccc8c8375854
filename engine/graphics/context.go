package graphics

import (
	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// Context owns the state cache mirroring one native graphics context.
// Every resource object created from it holds the same *Context back-
// reference and mutates the shared native state only through the cache.
//
// The context is single-threaded: it must be created and used on the
// goroutine that owns the native context (locked to the OS thread by the
// platform layer). It outlives every resource created from it.
type Context struct {
	driver Driver
	state  *StateCache
}

// NewContext wraps a driver, querying its initial state once. Fails with
// StateQueryError when the backend cannot report capabilities.
func NewContext(driver Driver) (*Context, error) {
	state, err := NewStateCache(driver)
	if err != nil {
		return nil, err
	}

	limits := state.Limits()
	core.LogInfo("graphics context ready: %s / %s (max texture %d, %d attribs)",
		limits.Vendor, limits.Renderer, limits.MaxTextureSize, limits.MaxVertexAttribs)

	return &Context{
		driver: driver,
		state:  state,
	}, nil
}

// Driver exposes the raw backend. Callers must not issue bind-changing
// calls through it directly; that is the cache's job.
func (c *Context) Driver() Driver {
	return c.driver
}

// State returns the shared state cache.
func (c *Context) State() *StateCache {
	return c.state
}

// Limits returns the backend capabilities queried at construction.
func (c *Context) Limits() metadata.Limits {
	return c.state.Limits()
}

// NewTessBuilder starts an empty tessellation builder bound to this context.
func (c *Context) NewTessBuilder() *TessBuilder {
	return &TessBuilder{
		ctx:  c,
		mode: metadata.ModePoint,
	}
}

// TessGate returns the pipeline node that issues draw calls against this
// context.
func (c *Context) TessGate() *TessGate {
	return &TessGate{ctx: c}
}
