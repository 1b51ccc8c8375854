package graphics

import "fmt"

// StateQueryError means the backend could not report its initial
// capabilities or defaults. The context cannot be constructed without
// them: a cache seeded with unknown state would elide binds it must issue.
type StateQueryError struct {
	Err error
}

func (e *StateQueryError) Error() string {
	return fmt.Sprintf("cannot query initial backend state: %v", e.Err)
}

func (e *StateQueryError) Unwrap() error { return e.Err }

type BufferErrorKind uint8

const (
	// The backend could not allocate a native buffer object.
	BufferCannotCreate BufferErrorKind = iota
	// An indexed access fell outside the buffer.
	BufferOverflow
	// A whole-buffer write supplied fewer values than the buffer holds.
	BufferTooFewValues
	// A whole-buffer write supplied more values than the buffer holds.
	BufferTooManyValues
	// The backend could not map the buffer into client memory.
	BufferMapFailed
)

// BufferError reports a failed buffer operation. Index and length fields
// are only meaningful for the kinds that carry them.
type BufferError struct {
	Kind        BufferErrorKind
	Index       int
	ProvidedLen int
	BufferLen   int
	Err         error
}

func (e *BufferError) Error() string {
	switch e.Kind {
	case BufferCannotCreate:
		return fmt.Sprintf("cannot create native buffer: %v", e.Err)
	case BufferOverflow:
		return fmt.Sprintf("buffer overflow: index %d out of %d elements", e.Index, e.BufferLen)
	case BufferTooFewValues:
		return fmt.Sprintf("too few values: got %d, buffer holds %d", e.ProvidedLen, e.BufferLen)
	case BufferTooManyValues:
		return fmt.Sprintf("too many values: got %d, buffer holds %d", e.ProvidedLen, e.BufferLen)
	case BufferMapFailed:
		return fmt.Sprintf("cannot map buffer: %v", e.Err)
	}
	return "unknown buffer error"
}

func (e *BufferError) Unwrap() error { return e.Err }

type TessErrorKind uint8

const (
	// The backend could not allocate a native object during build.
	TessCannotCreate TessErrorKind = iota
	// Attached vertex or instance sources disagree on their element count
	// and no explicit override was set.
	TessLengthIncoherency
	// No vertex data and no explicit vertex count: nothing to draw.
	TessAttributeless
	// A primitive-restart index was set but no index data was attached.
	TessRestartWithoutIndices
	// Build was called on an already-consumed builder.
	TessAlreadyBuilt
	// A render view does not fit inside the tessellation's extents.
	TessViewOutOfRange
	// The tessellation was destroyed before the operation.
	TessDestroyed
	// The backend rejected the draw submission.
	TessDrawFailed
)

// TessError reports a tessellation builder or render-view failure.
type TessError struct {
	Kind     TessErrorKind
	Expected int
	Got      int
	Err      error
}

func (e *TessError) Error() string {
	switch e.Kind {
	case TessCannotCreate:
		return fmt.Sprintf("cannot create tessellation: %v", e.Err)
	case TessLengthIncoherency:
		return fmt.Sprintf("incoherent source lengths: expected %d elements, got %d", e.Expected, e.Got)
	case TessAttributeless:
		return "attributeless tessellation requires an explicit vertex count"
	case TessRestartWithoutIndices:
		return "primitive restart requires index data"
	case TessAlreadyBuilt:
		return "tessellation builder already consumed"
	case TessViewOutOfRange:
		return fmt.Sprintf("render view out of range: wants %d vertices, tessellation has %d", e.Got, e.Expected)
	case TessDestroyed:
		return "tessellation was destroyed"
	case TessDrawFailed:
		return fmt.Sprintf("draw submission rejected: %v", e.Err)
	}
	return "unknown tessellation error"
}

func (e *TessError) Unwrap() error { return e.Err }

type TessMapErrorKind uint8

const (
	// The requested element type does not match the underlying buffer layout.
	TessMapForbidden TessMapErrorKind = iota
	// The tessellation has no buffer in the requested slot.
	TessMapNoSuchSlot
	// Mapping the underlying buffer failed.
	TessMapBufferFailed
)

// TessMapError reports a failed CPU-side mapping of a tessellation's buffers.
type TessMapError struct {
	Kind TessMapErrorKind
	Err  error
}

func (e *TessMapError) Error() string {
	switch e.Kind {
	case TessMapForbidden:
		return "tessellation slice type does not match the stored layout"
	case TessMapNoSuchSlot:
		return "tessellation has no buffer in the requested slot"
	case TessMapBufferFailed:
		return fmt.Sprintf("cannot map tessellation buffer: %v", e.Err)
	}
	return "unknown tessellation map error"
}

func (e *TessMapError) Unwrap() error { return e.Err }
