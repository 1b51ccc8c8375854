package metadata

/** @brief An opaque backend resource handle. Zero is reserved and means "no resource". */
type Handle uint32

/** @brief The reserved handle meaning "nothing bound / no resource". */
const NoHandle Handle = 0

/** @brief A context binding point a buffer can be attached to. */
type BindTarget uint8

const (
	/** @brief The vertex (array) buffer binding point. */
	TargetArrayBuffer BindTarget = iota
	/** @brief The index (element array) buffer binding point. Lives inside the bound vertex array on real contexts. */
	TargetElementArrayBuffer
	/** @brief The uniform buffer binding point. */
	TargetUniformBuffer
)

func (t BindTarget) String() string {
	switch t {
	case TargetArrayBuffer:
		return "array_buffer"
	case TargetElementArrayBuffer:
		return "element_array_buffer"
	case TargetUniformBuffer:
		return "uniform_buffer"
	}
	return "unknown_target"
}

/** @brief How a bind request interacts with the state cache. */
type BindMode uint8

const (
	/** @brief Elide the native call if the cache already records the handle as bound. */
	BindCached BindMode = iota
	/** @brief Always issue the native call. Used at resource creation to defend
	against bindings performed outside the cache's visibility. */
	BindForced
)

/** @brief Buffer usage hint forwarded to the backend allocator. */
type Usage uint8

const (
	UsageStream Usage = iota
	UsageStatic
	UsageDynamic
)

/** @brief Access mode for a mapped buffer. */
type AccessMode uint8

const (
	AccessReadOnly AccessMode = iota
	AccessWriteOnly
	AccessReadWrite
)

/** @brief Primitive assembly mode of a tessellation. */
type Mode uint8

const (
	ModePoint Mode = iota
	ModeLine
	ModeLineStrip
	ModeTriangle
	ModeTriangleStrip
	ModeTriangleFan
)

func (m Mode) String() string {
	switch m {
	case ModePoint:
		return "point"
	case ModeLine:
		return "line"
	case ModeLineStrip:
		return "line_strip"
	case ModeTriangle:
		return "triangle"
	case ModeTriangleStrip:
		return "triangle_strip"
	case ModeTriangleFan:
		return "triangle_fan"
	}
	return "unknown_mode"
}

/** @brief Integer width of tessellation indices. */
type IndexType uint8

const (
	IndexU8 IndexType = iota
	IndexU16
	IndexU32
)

/** @brief Size in bytes of one index of this type. */
func (it IndexType) Size() int {
	switch it {
	case IndexU8:
		return 1
	case IndexU16:
		return 2
	default:
		return 4
	}
}

/** @brief The primitive-restart sentinel for this index width (all bits set). */
func (it IndexType) RestartSentinel() uint32 {
	switch it {
	case IndexU8:
		return 0xFF
	case IndexU16:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

/** @brief Backend capabilities and defaults queried once at context creation. */
type Limits struct {
	/** @brief Largest supported 2D texture dimension. */
	MaxTextureSize int
	/** @brief Number of vertex attribute slots. */
	MaxVertexAttribs int
	/** @brief Largest addressable index value in an indexed draw. */
	MaxElementIndex uint32
	/** @brief Driver vendor string, for diagnostics. */
	Vendor string
	/** @brief Driver renderer string, for diagnostics. */
	Renderer string
}
