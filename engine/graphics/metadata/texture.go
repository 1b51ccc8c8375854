package metadata

/** @brief How texture coordinates outside [0;1] are wrapped while sampling. */
type Wrap uint8

const (
	/** @brief Coordinates are clamped to the edge texel. */
	WrapClampToEdge Wrap = iota
	/** @brief Coordinates repeat over [0;1]. */
	WrapRepeat
	/** @brief Coordinates repeat, mirrored every other period. */
	WrapMirroredRepeat
)

/** @brief Minification / magnification filter. */
type Filter uint8

const (
	/** @brief Clamp to the nearest texel. */
	FilterNearest Filter = iota
	/** @brief Linear interpolation with surrounding texels. */
	FilterLinear
)

/** @brief Depth comparison performed during depth-texture sampling. */
type DepthComparison uint8

const (
	DepthNever DepthComparison = iota
	DepthAlways
	DepthEqual
	DepthNotEqual
	DepthLess
	DepthLessOrEqual
	DepthGreater
	DepthGreaterOrEqual
)

/** @brief Sampling hints applied to a texture. */
type Sampler struct {
	WrapR         Wrap
	WrapS         Wrap
	WrapT         Wrap
	Minification  Filter
	Magnification Filter
	/** @brief Depth comparison for depth textures; nil disables comparison. */
	DepthComparison *DepthComparison
}

/** @brief The default sampler: clamp-to-edge on every axis, linear filtering, no depth comparison. */
func DefaultSampler() Sampler {
	return Sampler{
		WrapR:         WrapClampToEdge,
		WrapS:         WrapClampToEdge,
		WrapT:         WrapClampToEdge,
		Minification:  FilterLinear,
		Magnification: FilterLinear,
	}
}
