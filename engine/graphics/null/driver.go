// Package null provides a headless, in-memory driver. Buffers are plain
// byte slices so mapping, reads and writes genuinely round-trip, which
// makes it the driver of choice for CI, tests and benchmarks.
package null

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

var (
	errNothingBound  = errors.New("no buffer bound to target")
	errNotMapped     = errors.New("no mapping active on target")
	errAlreadyMapped = errors.New("a mapping is already active")
)

type bufferObject struct {
	data  []byte
	usage metadata.Usage
}

type vaoObject struct {
	attribs int
	element metadata.Handle
}

type textureObject struct {
	width   int
	height  int
	mipmaps int
	pixels  []byte
	sampler metadata.Sampler
}

// Counters tallies every native call class the driver saw. Tests assert
// bind elision against these; the harness logs them.
type Counters struct {
	BufferBinds      uint64
	VertexArrayBinds uint64
	TextureBinds     uint64
	DrawCalls        uint64
	MapCalls         uint64
	UnmapCalls       uint64
	RestartToggles   uint64
}

// Driver is the headless backend. The zero value is not usable; call New.
type Driver struct {
	ids      *core.IDPool
	buffers  map[metadata.Handle]*bufferObject
	vaos     map[metadata.Handle]*vaoObject
	textures map[metadata.Handle]*textureObject

	bound        map[metadata.BindTarget]metadata.Handle
	boundVAO     metadata.Handle
	boundTexture metadata.Handle

	mappedActive bool
	mappedTarget metadata.BindTarget

	counters Counters

	// Failure injection knobs, for exercising the error paths above this
	// layer. Left nil in normal use.
	QueryErr        error
	BufferCreateErr error
	MapErr          error
}

func New() *Driver {
	return &Driver{
		ids:      core.NewIDPool(),
		buffers:  make(map[metadata.Handle]*bufferObject),
		vaos:     make(map[metadata.Handle]*vaoObject),
		textures: make(map[metadata.Handle]*textureObject),
		bound:    make(map[metadata.BindTarget]metadata.Handle),
	}
}

func (d *Driver) Query() (metadata.Limits, error) {
	if d.QueryErr != nil {
		return metadata.Limits{}, d.QueryErr
	}
	return metadata.Limits{
		MaxTextureSize:   16384,
		MaxVertexAttribs: 16,
		MaxElementIndex:  ^uint32(0),
		Vendor:           "lume",
		Renderer:         "null",
	}, nil
}

func (d *Driver) CreateBuffer() (metadata.Handle, error) {
	if d.BufferCreateErr != nil {
		return metadata.NoHandle, d.BufferCreateErr
	}
	h := metadata.Handle(d.ids.Acquire())
	d.buffers[h] = &bufferObject{}
	return h, nil
}

func (d *Driver) DeleteBuffer(h metadata.Handle) {
	if _, ok := d.buffers[h]; ok {
		delete(d.buffers, h)
		d.ids.Release(uint32(h))
	}
}

func (d *Driver) BindBuffer(target metadata.BindTarget, h metadata.Handle) {
	d.bound[target] = h
	if target == metadata.TargetElementArrayBuffer && d.boundVAO != metadata.NoHandle {
		d.vaos[d.boundVAO].element = h
	}
	d.counters.BufferBinds++
}

func (d *Driver) BufferData(target metadata.BindTarget, size int, data []byte, usage metadata.Usage) error {
	buf, err := d.boundObject(target)
	if err != nil {
		return err
	}
	buf.data = make([]byte, size)
	buf.usage = usage
	copy(buf.data, data)
	return nil
}

func (d *Driver) BufferSubData(target metadata.BindTarget, offset int, data []byte) error {
	buf, err := d.boundObject(target)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(data) > len(buf.data) {
		return fmt.Errorf("sub-data range [%d;%d) exceeds buffer of %d bytes", offset, offset+len(data), len(buf.data))
	}
	copy(buf.data[offset:], data)
	return nil
}

func (d *Driver) MapBuffer(target metadata.BindTarget, access metadata.AccessMode, size int) ([]byte, error) {
	if d.MapErr != nil {
		return nil, d.MapErr
	}
	if d.mappedActive {
		return nil, errAlreadyMapped
	}
	buf, err := d.boundObject(target)
	if err != nil {
		return nil, err
	}
	if size > len(buf.data) {
		return nil, fmt.Errorf("mapping %d bytes of a %d byte buffer", size, len(buf.data))
	}
	d.mappedActive = true
	d.mappedTarget = target
	d.counters.MapCalls++
	return buf.data[:size], nil
}

func (d *Driver) UnmapBuffer(target metadata.BindTarget) error {
	if !d.mappedActive || d.mappedTarget != target {
		return errNotMapped
	}
	d.mappedActive = false
	d.counters.UnmapCalls++
	return nil
}

func (d *Driver) CreateVertexArray() (metadata.Handle, error) {
	h := metadata.Handle(d.ids.Acquire())
	d.vaos[h] = &vaoObject{}
	return h, nil
}

func (d *Driver) DeleteVertexArray(h metadata.Handle) {
	if _, ok := d.vaos[h]; ok {
		delete(d.vaos, h)
		d.ids.Release(uint32(h))
	}
}

func (d *Driver) BindVertexArray(h metadata.Handle) {
	d.boundVAO = h
	// the element binding travels with the vertex array
	if h == metadata.NoHandle {
		d.bound[metadata.TargetElementArrayBuffer] = metadata.NoHandle
	} else if vao, ok := d.vaos[h]; ok {
		d.bound[metadata.TargetElementArrayBuffer] = vao.element
	}
	d.counters.VertexArrayBinds++
}

func (d *Driver) SetupVertexAttributes(baseIndex int, format metadata.VertexFormat, stride int, divisor int) (int, error) {
	if d.boundVAO == metadata.NoHandle {
		return 0, errors.New("no vertex array bound")
	}
	if _, err := d.boundObject(metadata.TargetArrayBuffer); err != nil {
		return 0, err
	}
	next := baseIndex + len(format)
	if vao := d.vaos[d.boundVAO]; next > vao.attribs {
		vao.attribs = next
	}
	return next, nil
}

func (d *Driver) CreateTexture() (metadata.Handle, error) {
	h := metadata.Handle(d.ids.Acquire())
	d.textures[h] = &textureObject{}
	return h, nil
}

func (d *Driver) DeleteTexture(h metadata.Handle) {
	if _, ok := d.textures[h]; ok {
		delete(d.textures, h)
		d.ids.Release(uint32(h))
	}
}

func (d *Driver) BindTexture(h metadata.Handle) {
	d.boundTexture = h
	d.counters.TextureBinds++
}

func (d *Driver) TexImage2D(width, height, mipmaps int, pixels []byte) error {
	tex, err := d.boundTextureObject()
	if err != nil {
		return err
	}
	tex.width = width
	tex.height = height
	tex.mipmaps = mipmaps
	tex.pixels = make([]byte, width*height*4)
	copy(tex.pixels, pixels)
	return nil
}

func (d *Driver) TexSubImage2D(x, y, width, height int, pixels []byte) error {
	tex, err := d.boundTextureObject()
	if err != nil {
		return err
	}
	if x < 0 || y < 0 || x+width > tex.width || y+height > tex.height {
		return fmt.Errorf("texel rectangle (%d,%d)+%dx%d exceeds %dx%d texture", x, y, width, height, tex.width, tex.height)
	}
	for row := 0; row < height; row++ {
		dst := ((y+row)*tex.width + x) * 4
		src := row * width * 4
		copy(tex.pixels[dst:dst+width*4], pixels[src:src+width*4])
	}
	return nil
}

func (d *Driver) ApplySampler(s metadata.Sampler) {
	if tex, err := d.boundTextureObject(); err == nil {
		tex.sampler = s
	}
}

func (d *Driver) GenerateMipmaps() {}

func (d *Driver) SetPrimitiveRestart(enabled bool, index uint32) {
	d.counters.RestartToggles++
}

func (d *Driver) DrawArrays(mode metadata.Mode, first, count, instances int) error {
	if d.boundVAO == metadata.NoHandle {
		return errors.New("draw without a bound vertex array")
	}
	d.counters.DrawCalls++
	return nil
}

func (d *Driver) DrawElements(mode metadata.Mode, count int, indexType metadata.IndexType, byteOffset, instances int) error {
	if d.boundVAO == metadata.NoHandle {
		return errors.New("draw without a bound vertex array")
	}
	if d.bound[metadata.TargetElementArrayBuffer] == metadata.NoHandle {
		return errors.New("indexed draw without a bound index buffer")
	}
	d.counters.DrawCalls++
	return nil
}

func (d *Driver) Viewport(width, height int) {}

func (d *Driver) Clear(r, g, b, a float32) {}

// Counters returns a copy of the native call tallies.
func (d *Driver) Counters() Counters {
	return d.counters
}

// LiveBuffers reports how many native buffers exist right now.
func (d *Driver) LiveBuffers() int {
	return len(d.buffers)
}

// LiveVertexArrays reports how many vertex arrays exist right now.
func (d *Driver) LiveVertexArrays() int {
	return len(d.vaos)
}

// LiveTextures reports how many textures exist right now.
func (d *Driver) LiveTextures() int {
	return len(d.textures)
}

// BufferBytes exposes a copy of a buffer's backing store, for tests and
// debug tooling.
func (d *Driver) BufferBytes(h metadata.Handle) ([]byte, bool) {
	buf, ok := d.buffers[h]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(buf.data))
	copy(out, buf.data)
	return out, true
}

func (d *Driver) boundObject(target metadata.BindTarget) (*bufferObject, error) {
	h := d.bound[target]
	if h == metadata.NoHandle {
		return nil, errNothingBound
	}
	buf, ok := d.buffers[h]
	if !ok {
		return nil, fmt.Errorf("bound handle %d is not a live buffer", h)
	}
	return buf, nil
}

func (d *Driver) boundTextureObject() (*textureObject, error) {
	if d.boundTexture == metadata.NoHandle {
		return nil, errors.New("no texture bound")
	}
	tex, ok := d.textures[d.boundTexture]
	if !ok {
		return nil, fmt.Errorf("bound handle %d is not a live texture", d.boundTexture)
	}
	return tex, nil
}
