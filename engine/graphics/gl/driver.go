//go:build !js

// Package gl implements the driver contract on desktop OpenGL 3.3 core.
// A GL context must be current on the calling thread before the driver
// is queried; the platform layer takes care of that.
package gl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/lume/engine/graphics"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

type Driver struct {
	initialized bool
}

var _ graphics.Driver = (*Driver)(nil)

func New() *Driver {
	return &Driver{}
}

func (d *Driver) Query() (metadata.Limits, error) {
	if !d.initialized {
		if err := gl.Init(); err != nil {
			return metadata.Limits{}, fmt.Errorf("loading GL symbols: %w", err)
		}
		d.initialized = true
	}

	var maxTexture, maxAttribs int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTexture)
	gl.GetIntegerv(gl.MAX_VERTEX_ATTRIBS, &maxAttribs)
	if err := glError("querying limits"); err != nil {
		return metadata.Limits{}, err
	}

	return metadata.Limits{
		MaxTextureSize:   int(maxTexture),
		MaxVertexAttribs: int(maxAttribs),
		MaxElementIndex:  ^uint32(0),
		Vendor:           gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:         gl.GoStr(gl.GetString(gl.RENDERER)),
	}, nil
}

func (d *Driver) CreateBuffer() (metadata.Handle, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return metadata.NoHandle, errors.New("glGenBuffers returned no name")
	}
	return metadata.Handle(id), nil
}

func (d *Driver) DeleteBuffer(h metadata.Handle) {
	id := uint32(h)
	gl.DeleteBuffers(1, &id)
}

func (d *Driver) BindBuffer(target metadata.BindTarget, h metadata.Handle) {
	gl.BindBuffer(bufferTarget(target), uint32(h))
}

func (d *Driver) BufferData(target metadata.BindTarget, size int, data []byte, usage metadata.Usage) error {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(bufferTarget(target), size, ptr, bufferUsage(usage))
	return glError("glBufferData")
}

func (d *Driver) BufferSubData(target metadata.BindTarget, offset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	gl.BufferSubData(bufferTarget(target), offset, len(data), gl.Ptr(data))
	return glError("glBufferSubData")
}

func (d *Driver) MapBuffer(target metadata.BindTarget, access metadata.AccessMode, size int) ([]byte, error) {
	ptr := gl.MapBuffer(bufferTarget(target), mapAccess(access))
	if ptr == nil {
		if err := glError("glMapBuffer"); err != nil {
			return nil, err
		}
		return nil, errors.New("glMapBuffer returned nil")
	}
	if size == 0 {
		return nil, nil
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

func (d *Driver) UnmapBuffer(target metadata.BindTarget) error {
	if !gl.UnmapBuffer(bufferTarget(target)) {
		return errors.New("glUnmapBuffer reported corrupted store")
	}
	return nil
}

func (d *Driver) CreateVertexArray() (metadata.Handle, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return metadata.NoHandle, errors.New("glGenVertexArrays returned no name")
	}
	return metadata.Handle(id), nil
}

func (d *Driver) DeleteVertexArray(h metadata.Handle) {
	id := uint32(h)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Driver) BindVertexArray(h metadata.Handle) {
	gl.BindVertexArray(uint32(h))
}

func (d *Driver) SetupVertexAttributes(baseIndex int, format metadata.VertexFormat, stride int, divisor int) (int, error) {
	index := baseIndex
	offset := 0
	for _, attrib := range format {
		gl.EnableVertexAttribArray(uint32(index))
		switch {
		case attrib.Kind == metadata.AttribFloat32 || attrib.Normalized:
			gl.VertexAttribPointer(uint32(index), int32(attrib.Count), attribType(attrib.Kind),
				attrib.Normalized, int32(stride), gl.PtrOffset(offset))
		default:
			gl.VertexAttribIPointer(uint32(index), int32(attrib.Count), attribType(attrib.Kind),
				int32(stride), gl.PtrOffset(offset))
		}
		gl.VertexAttribDivisor(uint32(index), uint32(divisor))

		offset += attrib.Kind.Size() * attrib.Count
		index++
	}
	return index, glError("wiring vertex attributes")
}

func (d *Driver) CreateTexture() (metadata.Handle, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return metadata.NoHandle, errors.New("glGenTextures returned no name")
	}
	return metadata.Handle(id), nil
}

func (d *Driver) DeleteTexture(h metadata.Handle) {
	id := uint32(h)
	gl.DeleteTextures(1, &id)
}

func (d *Driver) BindTexture(h metadata.Handle) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
}

func (d *Driver) TexImage2D(width, height, mipmaps int, pixels []byte) error {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, int32(mipmaps))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	return glError("glTexImage2D")
}

func (d *Driver) TexSubImage2D(x, y, width, height int, pixels []byte) error {
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return glError("glTexSubImage2D")
}

func (d *Driver) ApplySampler(s metadata.Sampler) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_R, wrapParam(s.WrapR))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapParam(s.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapParam(s.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filterParam(s.Minification))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filterParam(s.Magnification))
	if s.DepthComparison != nil {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, depthFunc(*s.DepthComparison))
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.NONE)
	}
}

func (d *Driver) GenerateMipmaps() {
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (d *Driver) SetPrimitiveRestart(enabled bool, index uint32) {
	if enabled {
		gl.Enable(gl.PRIMITIVE_RESTART)
		gl.PrimitiveRestartIndex(index)
	} else {
		gl.Disable(gl.PRIMITIVE_RESTART)
	}
}

func (d *Driver) DrawArrays(mode metadata.Mode, first, count, instances int) error {
	if instances > 1 {
		gl.DrawArraysInstanced(drawMode(mode), int32(first), int32(count), int32(instances))
	} else {
		gl.DrawArrays(drawMode(mode), int32(first), int32(count))
	}
	return glError("draw arrays")
}

func (d *Driver) DrawElements(mode metadata.Mode, count int, indexType metadata.IndexType, byteOffset, instances int) error {
	if instances > 1 {
		gl.DrawElementsInstanced(drawMode(mode), int32(count), indexKind(indexType), gl.PtrOffset(byteOffset), int32(instances))
	} else {
		gl.DrawElements(drawMode(mode), int32(count), indexKind(indexType), gl.PtrOffset(byteOffset))
	}
	return glError("draw elements")
}

func (d *Driver) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Driver) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s failed: GL error 0x%04x", op, code)
	}
	return nil
}

func bufferTarget(t metadata.BindTarget) uint32 {
	switch t {
	case metadata.TargetArrayBuffer:
		return gl.ARRAY_BUFFER
	case metadata.TargetElementArrayBuffer:
		return gl.ELEMENT_ARRAY_BUFFER
	case metadata.TargetUniformBuffer:
		return gl.UNIFORM_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func bufferUsage(u metadata.Usage) uint32 {
	switch u {
	case metadata.UsageStatic:
		return gl.STATIC_DRAW
	case metadata.UsageDynamic:
		return gl.DYNAMIC_DRAW
	}
	return gl.STREAM_DRAW
}

func mapAccess(a metadata.AccessMode) uint32 {
	switch a {
	case metadata.AccessReadOnly:
		return gl.READ_ONLY
	case metadata.AccessWriteOnly:
		return gl.WRITE_ONLY
	}
	return gl.READ_WRITE
}

func attribType(k metadata.AttribKind) uint32 {
	switch k {
	case metadata.AttribInt32:
		return gl.INT
	case metadata.AttribUint32:
		return gl.UNSIGNED_INT
	}
	return gl.FLOAT
}

func drawMode(m metadata.Mode) uint32 {
	switch m {
	case metadata.ModePoint:
		return gl.POINTS
	case metadata.ModeLine:
		return gl.LINES
	case metadata.ModeLineStrip:
		return gl.LINE_STRIP
	case metadata.ModeTriangleStrip:
		return gl.TRIANGLE_STRIP
	case metadata.ModeTriangleFan:
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}

func indexKind(it metadata.IndexType) uint32 {
	switch it {
	case metadata.IndexU8:
		return gl.UNSIGNED_BYTE
	case metadata.IndexU16:
		return gl.UNSIGNED_SHORT
	}
	return gl.UNSIGNED_INT
}

func wrapParam(w metadata.Wrap) int32 {
	switch w {
	case metadata.WrapRepeat:
		return gl.REPEAT
	case metadata.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func filterParam(f metadata.Filter) int32 {
	if f == metadata.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func depthFunc(c metadata.DepthComparison) int32 {
	switch c {
	case metadata.DepthNever:
		return gl.NEVER
	case metadata.DepthAlways:
		return gl.ALWAYS
	case metadata.DepthEqual:
		return gl.EQUAL
	case metadata.DepthNotEqual:
		return gl.NOTEQUAL
	case metadata.DepthLess:
		return gl.LESS
	case metadata.DepthGreater:
		return gl.GREATER
	case metadata.DepthGreaterOrEqual:
		return gl.GEQUAL
	}
	return gl.LEQUAL
}
