package graphics

import (
	"unsafe"

	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// Vertex is the capability a type must declare to be usable as vertex or
// instance data: a fixed, ordered attribute layout. The format must
// describe the whole struct; padding between attributes is carried by the
// stride, which is taken from the Go type itself.
type Vertex interface {
	VertexFormat() metadata.VertexFormat
}

// TessIndex constrains the integer widths usable as tessellation indices.
// The primitive-restart sentinel of a width is its all-ones value.
type TessIndex interface {
	~uint8 | ~uint16 | ~uint32
}

// indexTypeOf maps a TessIndex instantiation to its wire width.
func indexTypeOf[I TessIndex]() metadata.IndexType {
	var zero I
	switch unsafe.Sizeof(zero) {
	case 1:
		return metadata.IndexU8
	case 2:
		return metadata.IndexU16
	default:
		return metadata.IndexU32
	}
}

// sizeOf is the byte stride of one element of T.
func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// asBytes reinterprets a value slice as its raw bytes without copying.
// The caller must not let the byte view outlive the slice.
func asBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*sizeOf[T]())
}

// asValues reinterprets mapped bytes as a value slice of count elements.
// Only valid while the mapping is live.
func asValues[T any](raw []byte, count int) []T {
	if count == 0 || len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), count)
}
