package graphics

import (
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// Driver is the raw operation set a concrete backend (desktop GL, WebGL2,
// the headless null driver) must provide. Everything above this interface
// is backend-agnostic: the state cache decides *whether* to call, the
// driver only knows *how*.
//
// Bind-changing calls must only ever be issued through the state cache.
// A driver method is the one place allowed to touch native binding state
// directly, and only for the operation it implements.
type Driver interface {
	// Query reports capabilities and assumes the native context is in its
	// freshly-created default state (nothing bound). Called exactly once,
	// at context construction.
	Query() (metadata.Limits, error)

	CreateBuffer() (metadata.Handle, error)
	DeleteBuffer(h metadata.Handle)
	// BindBuffer issues the native bind unconditionally. The cached/forced
	// decision was already made by the caller.
	BindBuffer(target metadata.BindTarget, h metadata.Handle)
	BufferData(target metadata.BindTarget, size int, data []byte, usage metadata.Usage) error
	BufferSubData(target metadata.BindTarget, offset int, data []byte) error
	// MapBuffer maps the buffer currently bound to target and returns a
	// byte view of exactly size bytes. Blocks until prior GPU writes to
	// the buffer complete (driver-enforced).
	MapBuffer(target metadata.BindTarget, access metadata.AccessMode, size int) ([]byte, error)
	// UnmapBuffer releases the mapping of the buffer bound to target. The
	// byte view returned by MapBuffer must not be used afterwards.
	UnmapBuffer(target metadata.BindTarget) error

	CreateVertexArray() (metadata.Handle, error)
	DeleteVertexArray(h metadata.Handle)
	BindVertexArray(h metadata.Handle)
	// SetupVertexAttributes wires the given format into the bound vertex
	// array, sourcing from the buffer bound to the array target, starting
	// at attribute slot baseIndex with the given byte stride. divisor is 0
	// for per-vertex data and 1 for per-instance data. Returns the next
	// free attribute slot.
	SetupVertexAttributes(baseIndex int, format metadata.VertexFormat, stride int, divisor int) (int, error)

	CreateTexture() (metadata.Handle, error)
	DeleteTexture(h metadata.Handle)
	BindTexture(h metadata.Handle)
	// TexImage2D allocates storage for the bound texture (RGBA8) and, when
	// pixels is non-nil, uploads initial contents.
	TexImage2D(width, height, mipmaps int, pixels []byte) error
	TexSubImage2D(x, y, width, height int, pixels []byte) error
	ApplySampler(s metadata.Sampler)
	GenerateMipmaps()

	// SetPrimitiveRestart toggles the fixed-index restart state. Issued
	// unconditionally; the cache elides redundant toggles.
	SetPrimitiveRestart(enabled bool, index uint32)
	DrawArrays(mode metadata.Mode, first, count, instances int) error
	DrawElements(mode metadata.Mode, count int, indexType metadata.IndexType, byteOffset, instances int) error

	Viewport(width, height int)
	Clear(r, g, b, a float32)
}
