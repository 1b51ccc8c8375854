//go:build js && wasm

// Package webgl implements the driver contract on a WebGL2RenderingContext.
// WebGL handles are js.Values, so the driver keeps its own handle table
// keyed by small integers from an id pool. WebGL2 has no buffer mapping;
// map/unmap is emulated with a client shadow copy and
// getBufferSubData/bufferSubData, which preserves the contract (reads see
// completed GPU writes, writes land on unmap) at the cost of a copy.
package webgl

import (
	"errors"
	"syscall/js"

	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

const (
	glArrayBuffer        = 0x8892
	glElementArrayBuffer = 0x8893
	glUniformBuffer      = 0x8A11

	glStreamDraw  = 0x88E0
	glStaticDraw  = 0x88E4
	glDynamicDraw = 0x88E8

	glTexture2D    = 0x0DE1
	glRGBA8        = 0x8058
	glRGBA         = 0x1908
	glUnsignedByte = 0x1401

	glFloat         = 0x1406
	glInt           = 0x1404
	glUnsignedInt   = 0x1405
	glUnsignedShort = 0x1403

	glPoints        = 0x0000
	glLines         = 0x0001
	glLineStrip     = 0x0003
	glTriangles     = 0x0004
	glTriangleStrip = 0x0005
	glTriangleFan   = 0x0006

	glMaxTextureSize   = 0x0D33
	glMaxVertexAttribs = 0x8869
	glMaxElementIndex  = 0x8D6B
	glVendor           = 0x1F00
	glRenderer         = 0x1F01

	glTextureWrapS        = 0x2802
	glTextureWrapT        = 0x2803
	glTextureWrapR        = 0x8072
	glTextureMinFilter    = 0x2801
	glTextureMagFilter    = 0x2800
	glTextureMaxLevel     = 0x813D
	glTextureCompareMode  = 0x884C
	glTextureCompareFunc  = 0x884D
	glCompareRefToTexture = 0x884E
	glNone                = 0

	glClampToEdge    = 0x812F
	glRepeat         = 0x2901
	glMirroredRepeat = 0x8370
	glNearest        = 0x2600
	glLinear         = 0x2601

	glNever    = 0x0200
	glLess     = 0x0201
	glEqual    = 0x0202
	glLEqual   = 0x0203
	glGreater  = 0x0204
	glNotEqual = 0x0205
	glGEqual   = 0x0206
	glAlways   = 0x0207

	glColorBufferBit = 0x4000
)

type mapState struct {
	active bool
	target metadata.BindTarget
	access metadata.AccessMode
	shadow []byte
}

type Driver struct {
	gl       js.Value
	ids      *core.IDPool
	buffers  map[metadata.Handle]js.Value
	vaos     map[metadata.Handle]js.Value
	textures map[metadata.Handle]js.Value
	mapped   mapState
}

var _ graphics.Driver = (*Driver)(nil)

// New wraps a WebGL2RenderingContext obtained from a canvas.
func New(gl js.Value) *Driver {
	return &Driver{
		gl:       gl,
		ids:      core.NewIDPool(),
		buffers:  make(map[metadata.Handle]js.Value),
		vaos:     make(map[metadata.Handle]js.Value),
		textures: make(map[metadata.Handle]js.Value),
	}
}

func (d *Driver) Query() (metadata.Limits, error) {
	if !d.gl.Truthy() {
		return metadata.Limits{}, errors.New("no WebGL2 context")
	}
	param := func(name int) int {
		v := d.gl.Call("getParameter", name)
		if v.Type() != js.TypeNumber {
			return 0
		}
		return v.Int()
	}
	str := func(name int) string {
		v := d.gl.Call("getParameter", name)
		if v.Type() != js.TypeString {
			return ""
		}
		return v.String()
	}
	limits := metadata.Limits{
		MaxTextureSize:   param(glMaxTextureSize),
		MaxVertexAttribs: param(glMaxVertexAttribs),
		MaxElementIndex:  uint32(param(glMaxElementIndex)),
		Vendor:           str(glVendor),
		Renderer:         str(glRenderer),
	}
	if limits.MaxTextureSize == 0 {
		return metadata.Limits{}, errors.New("context reports no texture support")
	}
	return limits, nil
}

func (d *Driver) CreateBuffer() (metadata.Handle, error) {
	buf := d.gl.Call("createBuffer")
	if !buf.Truthy() {
		return metadata.NoHandle, errors.New("createBuffer returned null")
	}
	h := metadata.Handle(d.ids.Acquire())
	d.buffers[h] = buf
	return h, nil
}

func (d *Driver) DeleteBuffer(h metadata.Handle) {
	if buf, ok := d.buffers[h]; ok {
		d.gl.Call("deleteBuffer", buf)
		delete(d.buffers, h)
		d.ids.Release(uint32(h))
	}
}

func (d *Driver) BindBuffer(target metadata.BindTarget, h metadata.Handle) {
	d.gl.Call("bindBuffer", bufferTarget(target), d.jsBuffer(h))
}

func (d *Driver) BufferData(target metadata.BindTarget, size int, data []byte, usage metadata.Usage) error {
	if data == nil {
		d.gl.Call("bufferData", bufferTarget(target), size, bufferUsage(usage))
	} else {
		u8 := js.Global().Get("Uint8Array").New(len(data))
		js.CopyBytesToJS(u8, data)
		d.gl.Call("bufferData", bufferTarget(target), u8, bufferUsage(usage))
	}
	return nil
}

func (d *Driver) BufferSubData(target metadata.BindTarget, offset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	u8 := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(u8, data)
	d.gl.Call("bufferSubData", bufferTarget(target), offset, u8)
	return nil
}

func (d *Driver) MapBuffer(target metadata.BindTarget, access metadata.AccessMode, size int) ([]byte, error) {
	if d.mapped.active {
		return nil, errors.New("a mapping is already active")
	}
	shadow := make([]byte, size)
	if access != metadata.AccessWriteOnly && size > 0 {
		u8 := js.Global().Get("Uint8Array").New(size)
		d.gl.Call("getBufferSubData", bufferTarget(target), 0, u8)
		js.CopyBytesToGo(shadow, u8)
	}
	d.mapped = mapState{active: true, target: target, access: access, shadow: shadow}
	return shadow, nil
}

func (d *Driver) UnmapBuffer(target metadata.BindTarget) error {
	if !d.mapped.active || d.mapped.target != target {
		return errors.New("no mapping active on target")
	}
	if d.mapped.access != metadata.AccessReadOnly && len(d.mapped.shadow) > 0 {
		u8 := js.Global().Get("Uint8Array").New(len(d.mapped.shadow))
		js.CopyBytesToJS(u8, d.mapped.shadow)
		d.gl.Call("bufferSubData", bufferTarget(target), 0, u8)
	}
	d.mapped = mapState{}
	return nil
}

func (d *Driver) CreateVertexArray() (metadata.Handle, error) {
	vao := d.gl.Call("createVertexArray")
	if !vao.Truthy() {
		return metadata.NoHandle, errors.New("createVertexArray returned null")
	}
	h := metadata.Handle(d.ids.Acquire())
	d.vaos[h] = vao
	return h, nil
}

func (d *Driver) DeleteVertexArray(h metadata.Handle) {
	if vao, ok := d.vaos[h]; ok {
		d.gl.Call("deleteVertexArray", vao)
		delete(d.vaos, h)
		d.ids.Release(uint32(h))
	}
}

func (d *Driver) BindVertexArray(h metadata.Handle) {
	if h == metadata.NoHandle {
		d.gl.Call("bindVertexArray", js.Null())
		return
	}
	d.gl.Call("bindVertexArray", d.vaos[h])
}

func (d *Driver) SetupVertexAttributes(baseIndex int, format metadata.VertexFormat, stride int, divisor int) (int, error) {
	index := baseIndex
	offset := 0
	for _, attrib := range format {
		d.gl.Call("enableVertexAttribArray", index)
		if attrib.Kind == metadata.AttribFloat32 || attrib.Normalized {
			d.gl.Call("vertexAttribPointer", index, attrib.Count, attribType(attrib.Kind), attrib.Normalized, stride, offset)
		} else {
			d.gl.Call("vertexAttribIPointer", index, attrib.Count, attribType(attrib.Kind), stride, offset)
		}
		d.gl.Call("vertexAttribDivisor", index, divisor)

		offset += attrib.Kind.Size() * attrib.Count
		index++
	}
	return index, nil
}

func (d *Driver) CreateTexture() (metadata.Handle, error) {
	tex := d.gl.Call("createTexture")
	if !tex.Truthy() {
		return metadata.NoHandle, errors.New("createTexture returned null")
	}
	h := metadata.Handle(d.ids.Acquire())
	d.textures[h] = tex
	return h, nil
}

func (d *Driver) DeleteTexture(h metadata.Handle) {
	if tex, ok := d.textures[h]; ok {
		d.gl.Call("deleteTexture", tex)
		delete(d.textures, h)
		d.ids.Release(uint32(h))
	}
}

func (d *Driver) BindTexture(h metadata.Handle) {
	if h == metadata.NoHandle {
		d.gl.Call("bindTexture", glTexture2D, js.Null())
		return
	}
	d.gl.Call("bindTexture", glTexture2D, d.textures[h])
}

func (d *Driver) TexImage2D(width, height, mipmaps int, pixels []byte) error {
	d.gl.Call("texParameteri", glTexture2D, glTextureMaxLevel, mipmaps)
	if pixels == nil {
		d.gl.Call("texImage2D", glTexture2D, 0, glRGBA8, width, height, 0, glRGBA, glUnsignedByte, js.Null())
	} else {
		u8 := js.Global().Get("Uint8Array").New(len(pixels))
		js.CopyBytesToJS(u8, pixels)
		d.gl.Call("texImage2D", glTexture2D, 0, glRGBA8, width, height, 0, glRGBA, glUnsignedByte, u8)
	}
	return nil
}

func (d *Driver) TexSubImage2D(x, y, width, height int, pixels []byte) error {
	u8 := js.Global().Get("Uint8Array").New(len(pixels))
	js.CopyBytesToJS(u8, pixels)
	d.gl.Call("texSubImage2D", glTexture2D, 0, x, y, width, height, glRGBA, glUnsignedByte, u8)
	return nil
}

func (d *Driver) ApplySampler(s metadata.Sampler) {
	d.gl.Call("texParameteri", glTexture2D, glTextureWrapR, wrapParam(s.WrapR))
	d.gl.Call("texParameteri", glTexture2D, glTextureWrapS, wrapParam(s.WrapS))
	d.gl.Call("texParameteri", glTexture2D, glTextureWrapT, wrapParam(s.WrapT))
	d.gl.Call("texParameteri", glTexture2D, glTextureMinFilter, filterParam(s.Minification))
	d.gl.Call("texParameteri", glTexture2D, glTextureMagFilter, filterParam(s.Magnification))
	if s.DepthComparison != nil {
		d.gl.Call("texParameteri", glTexture2D, glTextureCompareMode, glCompareRefToTexture)
		d.gl.Call("texParameteri", glTexture2D, glTextureCompareFunc, depthFunc(*s.DepthComparison))
	} else {
		d.gl.Call("texParameteri", glTexture2D, glTextureCompareMode, glNone)
	}
}

func (d *Driver) GenerateMipmaps() {
	d.gl.Call("generateMipmap", glTexture2D)
}

// SetPrimitiveRestart is a no-op: WebGL2 keeps fixed-index restart
// permanently enabled, with the sentinel implied by the index width.
func (d *Driver) SetPrimitiveRestart(enabled bool, index uint32) {}

func (d *Driver) DrawArrays(mode metadata.Mode, first, count, instances int) error {
	if instances > 1 {
		d.gl.Call("drawArraysInstanced", drawMode(mode), first, count, instances)
	} else {
		d.gl.Call("drawArrays", drawMode(mode), first, count)
	}
	return nil
}

func (d *Driver) DrawElements(mode metadata.Mode, count int, indexType metadata.IndexType, byteOffset, instances int) error {
	if instances > 1 {
		d.gl.Call("drawElementsInstanced", drawMode(mode), count, indexKind(indexType), byteOffset, instances)
	} else {
		d.gl.Call("drawElements", drawMode(mode), count, indexKind(indexType), byteOffset)
	}
	return nil
}

func (d *Driver) Viewport(width, height int) {
	d.gl.Call("viewport", 0, 0, width, height)
}

func (d *Driver) Clear(r, g, b, a float32) {
	d.gl.Call("clearColor", r, g, b, a)
	d.gl.Call("clear", glColorBufferBit)
}

func (d *Driver) jsBuffer(h metadata.Handle) js.Value {
	if h == metadata.NoHandle {
		return js.Null()
	}
	buf, ok := d.buffers[h]
	if !ok {
		// a stale handle is a contract violation upstream; binding null is
		// the least damaging thing to do
		return js.Null()
	}
	return buf
}

func bufferTarget(t metadata.BindTarget) int {
	switch t {
	case metadata.TargetElementArrayBuffer:
		return glElementArrayBuffer
	case metadata.TargetUniformBuffer:
		return glUniformBuffer
	}
	return glArrayBuffer
}

func bufferUsage(u metadata.Usage) int {
	switch u {
	case metadata.UsageStatic:
		return glStaticDraw
	case metadata.UsageDynamic:
		return glDynamicDraw
	}
	return glStreamDraw
}

func attribType(k metadata.AttribKind) int {
	switch k {
	case metadata.AttribInt32:
		return glInt
	case metadata.AttribUint32:
		return glUnsignedInt
	}
	return glFloat
}

func drawMode(m metadata.Mode) int {
	switch m {
	case metadata.ModePoint:
		return glPoints
	case metadata.ModeLine:
		return glLines
	case metadata.ModeLineStrip:
		return glLineStrip
	case metadata.ModeTriangleStrip:
		return glTriangleStrip
	case metadata.ModeTriangleFan:
		return glTriangleFan
	}
	return glTriangles
}

func indexKind(it metadata.IndexType) int {
	switch it {
	case metadata.IndexU8:
		return glUnsignedByte
	case metadata.IndexU16:
		return glUnsignedShort
	}
	return glUnsignedInt
}

func wrapParam(w metadata.Wrap) int {
	switch w {
	case metadata.WrapRepeat:
		return glRepeat
	case metadata.WrapMirroredRepeat:
		return glMirroredRepeat
	}
	return glClampToEdge
}

func filterParam(f metadata.Filter) int {
	if f == metadata.FilterNearest {
		return glNearest
	}
	return glLinear
}

func depthFunc(c metadata.DepthComparison) int {
	switch c {
	case metadata.DepthNever:
		return glNever
	case metadata.DepthAlways:
		return glAlways
	case metadata.DepthEqual:
		return glEqual
	case metadata.DepthNotEqual:
		return glNotEqual
	case metadata.DepthLess:
		return glLess
	case metadata.DepthGreater:
		return glGreater
	case metadata.DepthGreaterOrEqual:
		return glGEqual
	}
	return glLEqual
}
