package metadata

/** @brief Component type of a single vertex attribute. */
type AttribKind uint8

const (
	AttribFloat32 AttribKind = iota
	AttribInt32
	AttribUint32
)

/** @brief Size in bytes of one component of this kind. */
func (k AttribKind) Size() int {
	// all supported component kinds are 4 bytes wide
	return 4
}

/**
 * @brief One attribute of a vertex layout: a named group of components
 * occupying consecutive bytes in the vertex.
 */
type VertexAttribute struct {
	/** @brief Attribute name, used for diagnostics only. */
	Name string
	/** @brief Component type. */
	Kind AttribKind
	/** @brief Number of components (1..4). */
	Count int
	/** @brief Whether integer components are normalized when read as floats. */
	Normalized bool
}

/** @brief The ordered attribute layout of a vertex type. */
type VertexFormat []VertexAttribute

/** @brief Packed size in bytes of one vertex under this format. */
func (f VertexFormat) PackedSize() int {
	total := 0
	for _, a := range f {
		total += a.Kind.Size() * a.Count
	}
	return total
}
