package graphics

import (
	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// bindEntry mirrors one native binding point. known is false when the
// cache cannot vouch for the native state (e.g. the element-array binding
// right after a vertex-array switch); an unknown entry never elides.
type bindEntry struct {
	handle metadata.Handle
	known  bool
}

// StateCache mirrors the binding state of one native context and elides
// redundant bind calls. Redundant binds are a primary source of driver
// overhead, so every bind in this layer funnels through here.
//
// Invariant: every cached entry that is known equals the true native
// state. Any code that changes native bindings without going through the
// cache breaks that invariant silently; resource creation uses BindForced
// as the only defense against bindings the cache never observed.
//
// Not safe for concurrent use. One goroutine owns the context.
type StateCache struct {
	driver Driver

	buffers        map[metadata.BindTarget]bindEntry
	vertexArray    bindEntry
	texture2D      bindEntry
	restartKnown   bool
	restartEnabled bool
	restartIndex   uint32

	limits metadata.Limits
}

// NewStateCache queries the backend once for its capabilities and seeds
// the mirror with the context's default state (nothing bound). A backend
// that cannot report its defaults fails with StateQueryError.
func NewStateCache(driver Driver) (*StateCache, error) {
	limits, err := driver.Query()
	if err != nil {
		return nil, &StateQueryError{Err: err}
	}

	return &StateCache{
		driver: driver,
		buffers: map[metadata.BindTarget]bindEntry{
			metadata.TargetArrayBuffer:        {handle: metadata.NoHandle, known: true},
			metadata.TargetElementArrayBuffer: {handle: metadata.NoHandle, known: true},
			metadata.TargetUniformBuffer:      {handle: metadata.NoHandle, known: true},
		},
		vertexArray:  bindEntry{handle: metadata.NoHandle, known: true},
		texture2D:    bindEntry{handle: metadata.NoHandle, known: true},
		restartKnown: true,
		limits:       limits,
	}, nil
}

// Limits returns the capabilities reported by the backend at creation.
func (s *StateCache) Limits() metadata.Limits {
	return s.limits
}

// BindBuffer binds h to target. With BindCached the native call is elided
// when the mirror already records h as bound; with BindForced it is always
// issued and the mirror resynchronized.
func (s *StateCache) BindBuffer(target metadata.BindTarget, h metadata.Handle, mode metadata.BindMode) {
	e := s.buffers[target]
	if mode == metadata.BindCached && e.known && e.handle == h {
		core.MetricsBindElided()
		return
	}

	s.driver.BindBuffer(target, h)
	s.buffers[target] = bindEntry{handle: h, known: true}
	core.MetricsBindIssued()
}

// UnbindBuffer clears every binding point currently holding h, issuing
// the native unbind, so a later cached bind of a recycled handle value is
// never elided against an object that no longer exists. Idempotent.
func (s *StateCache) UnbindBuffer(h metadata.Handle) {
	if h == metadata.NoHandle {
		return
	}
	for target, e := range s.buffers {
		if e.known && e.handle == h {
			s.driver.BindBuffer(target, metadata.NoHandle)
			s.buffers[target] = bindEntry{handle: metadata.NoHandle, known: true}
			core.MetricsBindIssued()
		}
	}
}

// BindVertexArray binds the vertex array h. Switching vertex arrays
// invalidates the element-array mirror: that binding point lives inside
// the vertex array on real contexts, so the cache no longer knows it.
func (s *StateCache) BindVertexArray(h metadata.Handle, mode metadata.BindMode) {
	if mode == metadata.BindCached && s.vertexArray.known && s.vertexArray.handle == h {
		core.MetricsBindElided()
		return
	}

	s.driver.BindVertexArray(h)
	s.vertexArray = bindEntry{handle: h, known: true}
	s.buffers[metadata.TargetElementArrayBuffer] = bindEntry{}
	core.MetricsBindIssued()
}

// BoundVertexArray reports the cached vertex-array binding. It reflects
// cached state only, never a fresh hardware query.
func (s *StateCache) BoundVertexArray() metadata.Handle {
	return s.vertexArray.handle
}

// BindTexture binds the 2D texture h.
func (s *StateCache) BindTexture(h metadata.Handle, mode metadata.BindMode) {
	if mode == metadata.BindCached && s.texture2D.known && s.texture2D.handle == h {
		core.MetricsBindElided()
		return
	}

	s.driver.BindTexture(h)
	s.texture2D = bindEntry{handle: h, known: true}
	core.MetricsBindIssued()
}

// UnbindTexture clears the 2D texture binding if it currently holds h.
func (s *StateCache) UnbindTexture(h metadata.Handle) {
	if h == metadata.NoHandle {
		return
	}
	if s.texture2D.known && s.texture2D.handle == h {
		s.driver.BindTexture(metadata.NoHandle)
		s.texture2D = bindEntry{handle: metadata.NoHandle, known: true}
		core.MetricsBindIssued()
	}
}

// SetPrimitiveRestart applies the restart toggle and sentinel, eliding
// the native call when nothing changed.
func (s *StateCache) SetPrimitiveRestart(enabled bool, index uint32) {
	if s.restartKnown && s.restartEnabled == enabled && (!enabled || s.restartIndex == index) {
		return
	}
	s.driver.SetPrimitiveRestart(enabled, index)
	s.restartKnown = true
	s.restartEnabled = enabled
	s.restartIndex = index
}

// BoundBuffer reports the cached binding for target and whether the cache
// can vouch for it. Cached state only.
func (s *StateCache) BoundBuffer(target metadata.BindTarget) (metadata.Handle, bool) {
	e := s.buffers[target]
	return e.handle, e.known
}
