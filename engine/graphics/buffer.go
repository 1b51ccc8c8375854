package graphics

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// Buffer is a typed, GPU-resident array of T. It records the logical
// element count at creation; the native byte size is len * sizeof(T).
//
// A buffer holds a shared back-reference to the Context that created it
// and only ever touches native binding state through the context's cache.
// The context must outlive the buffer.
type Buffer[T any] struct {
	ctx    *Context
	handle metadata.Handle
	bytes  int
	length int
	stride int
	label  string
}

// NewBuffer allocates a buffer of length uninitialized elements with a
// streaming usage hint. The fresh handle is bound with BindForced: the
// cache cannot vouch for bindings issued outside its visibility, and
// creation is the one point where that defense is applied.
func NewBuffer[T any](ctx *Context, length int) (*Buffer[T], error) {
	return newBuffer[T](ctx, length, nil)
}

// BufferFromSlice allocates a buffer holding a copy of data.
func BufferFromSlice[T any](ctx *Context, data []T) (*Buffer[T], error) {
	return newBuffer[T](ctx, len(data), asBytes(data))
}

func newBuffer[T any](ctx *Context, length int, data []byte) (*Buffer[T], error) {
	if length < 0 {
		return nil, &BufferError{Kind: BufferCannotCreate}
	}

	stride := sizeOf[T]()
	bytes := length * stride

	handle, err := ctx.driver.CreateBuffer()
	if err != nil {
		return nil, &BufferError{Kind: BufferCannotCreate, Err: err}
	}

	ctx.state.BindBuffer(metadata.TargetArrayBuffer, handle, metadata.BindForced)
	if err := ctx.driver.BufferData(metadata.TargetArrayBuffer, bytes, data, metadata.UsageStream); err != nil {
		ctx.state.UnbindBuffer(handle)
		ctx.driver.DeleteBuffer(handle)
		return nil, &BufferError{Kind: BufferCannotCreate, Err: err}
	}

	b := &Buffer[T]{
		ctx:    ctx,
		handle: handle,
		bytes:  bytes,
		length: length,
		stride: stride,
		label:  "buffer-" + uuid.New().String(),
	}
	core.MetricsBufferCreated()
	core.LogDebug("%s created: %d elements, %d bytes (native %d)", b.label, length, bytes, handle)
	return b, nil
}

// Len returns the logical element count recorded at creation.
func (b *Buffer[T]) Len() int {
	return b.length
}

// Handle exposes the native handle for ownership transfer into a
// tessellation builder. The handle stays owned by the buffer until then.
func (b *Buffer[T]) Handle() metadata.Handle {
	return b.handle
}

// Label returns the debug label attached at creation.
func (b *Buffer[T]) Label() string {
	return b.label
}

// Destroy unbinds the buffer from every binding point it still occupies,
// then releases the native handle. Calling any operation, including
// Destroy, after Destroy is a caller contract violation.
func (b *Buffer[T]) Destroy() {
	b.ctx.state.UnbindBuffer(b.handle)
	b.ctx.driver.DeleteBuffer(b.handle)
	core.MetricsBufferDestroyed()
	core.LogDebug("%s destroyed", b.label)
	b.handle = metadata.NoHandle
}

// At reads the element at index i. An out-of-range index is not an error:
// it reports ok=false. A non-nil error means the operation itself failed
// (the mapping could not be established) and says nothing about i.
func (b *Buffer[T]) At(i int) (value T, ok bool, err error) {
	var zero T
	if i < 0 || i >= b.length {
		return zero, false, nil
	}

	err = b.withMapped(metadata.AccessReadOnly, func(raw []byte) error {
		value = asValues[T](raw, b.length)[i]
		return nil
	})
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// Set writes the element at index i. Out-of-range indices fail with
// BufferOverflow; the buffer contents are untouched on any failure.
func (b *Buffer[T]) Set(i int, value T) error {
	if i < 0 || i >= b.length {
		return &BufferError{Kind: BufferOverflow, Index: i, BufferLen: b.length}
	}

	return b.withMapped(metadata.AccessWriteOnly, func(raw []byte) error {
		asValues[T](raw, b.length)[i] = value
		return nil
	})
}

// ReadAll copies the whole buffer back to client memory.
func (b *Buffer[T]) ReadAll() ([]T, error) {
	out := make([]T, b.length)
	err := b.withMapped(metadata.AccessReadOnly, func(raw []byte) error {
		copy(out, asValues[T](raw, b.length))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WriteAll replaces the whole buffer contents. The value count must equal
// the buffer's element count exactly: fewer values fail with
// BufferTooFewValues, more with BufferTooManyValues, and in both cases the
// previous contents are intact. An empty write against an empty buffer
// succeeds.
func (b *Buffer[T]) WriteAll(values []T) error {
	switch {
	case len(values) < b.length:
		return &BufferError{Kind: BufferTooFewValues, ProvidedLen: len(values), BufferLen: b.length}
	case len(values) > b.length:
		return &BufferError{Kind: BufferTooManyValues, ProvidedLen: len(values), BufferLen: b.length}
	case b.length == 0:
		return nil
	}

	return b.withMapped(metadata.AccessWriteOnly, func(raw []byte) error {
		copy(asValues[T](raw, b.length), values)
		return nil
	})
}

// Clear sets every element to value.
func (b *Buffer[T]) Clear(value T) error {
	if b.length == 0 {
		return nil
	}
	return b.withMapped(metadata.AccessWriteOnly, func(raw []byte) error {
		values := asValues[T](raw, b.length)
		for i := range values {
			values[i] = value
		}
		return nil
	})
}

// Slice maps the buffer read-only and hands the typed view to fn. The view
// is only valid during the call; the mapping is released on every exit
// path, including when fn fails.
func (b *Buffer[T]) Slice(fn func(values []T) error) error {
	return b.withMapped(metadata.AccessReadOnly, func(raw []byte) error {
		return fn(asValues[T](raw, b.length))
	})
}

// SliceMut is Slice with a writable view.
func (b *Buffer[T]) SliceMut(fn func(values []T) error) error {
	return b.withMapped(metadata.AccessReadWrite, func(raw []byte) error {
		return fn(asValues[T](raw, b.length))
	})
}

// withMapped brackets fn between a cached bind + map and a guaranteed
// unmap. Mapping is synchronous: the driver blocks until prior GPU writes
// to the buffer have completed.
func (b *Buffer[T]) withMapped(access metadata.AccessMode, fn func(raw []byte) error) (err error) {
	b.ctx.state.BindBuffer(metadata.TargetArrayBuffer, b.handle, metadata.BindCached)

	raw, mapErr := b.ctx.driver.MapBuffer(metadata.TargetArrayBuffer, access, b.bytes)
	if mapErr != nil {
		return &BufferError{Kind: BufferMapFailed, Err: mapErr}
	}
	defer func() {
		if unmapErr := b.ctx.driver.UnmapBuffer(metadata.TargetArrayBuffer); unmapErr != nil && err == nil {
			err = &BufferError{Kind: BufferMapFailed, Err: unmapErr}
		}
	}()

	return fn(raw)
}
