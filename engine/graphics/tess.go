package graphics

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// vertexSource is one accumulated vertex or instance description: either
// raw host bytes whose upload is deferred to Build, or an already-created
// native buffer whose handle transfers to the built tessellation.
type vertexSource struct {
	data   []byte
	handle metadata.Handle
	count  int
	stride int
	format metadata.VertexFormat
}

type indexSource struct {
	present   bool
	data      []byte
	handle    metadata.Handle
	count     int
	indexType metadata.IndexType
}

// TessBuilder accumulates vertex, instance and index descriptions and
// commits them in one shot. No GPU object is allocated before Build, so
// validation runs over the whole intended resource set first and the
// common failure case costs nothing to roll back.
//
// A builder is consumed by Build and cannot be reused.
type TessBuilder struct {
	ctx *Context

	vertices  []vertexSource
	instances []vertexSource
	index     indexSource

	mode          metadata.Mode
	vertexCount   int
	instanceCount int
	restartIndex  *uint32

	consumed bool
}

// AddVertices appends one vertex source from host data. The bytes are
// copied now; the GPU upload happens at Build.
func AddVertices[V Vertex](tb *TessBuilder, vertices []V) *TessBuilder {
	var layout V
	tb.vertices = append(tb.vertices, vertexSource{
		data:   append([]byte(nil), asBytes(vertices)...),
		count:  len(vertices),
		stride: sizeOf[V](),
		format: layout.VertexFormat(),
	})
	return tb
}

// AddInstances appends one per-instance source from host data.
func AddInstances[V Vertex](tb *TessBuilder, instances []V) *TessBuilder {
	var layout V
	tb.instances = append(tb.instances, vertexSource{
		data:   append([]byte(nil), asBytes(instances)...),
		count:  len(instances),
		stride: sizeOf[V](),
		format: layout.VertexFormat(),
	})
	return tb
}

// SetIndices attaches index data, replacing any previous index source.
func SetIndices[I TessIndex](tb *TessBuilder, indices []I) *TessBuilder {
	tb.index = indexSource{
		present:   true,
		data:      append([]byte(nil), asBytes(indices)...),
		count:     len(indices),
		indexType: indexTypeOf[I](),
	}
	return tb
}

// AddVertexBuffer appends a vertex source backed by an existing buffer,
// skipping the upload. Ownership of the native handle transfers to the
// tessellation once Build succeeds; until then the buffer keeps it.
func AddVertexBuffer[V Vertex](tb *TessBuilder, buf *Buffer[V]) *TessBuilder {
	var layout V
	tb.vertices = append(tb.vertices, vertexSource{
		handle: buf.Handle(),
		count:  buf.Len(),
		stride: sizeOf[V](),
		format: layout.VertexFormat(),
	})
	return tb
}

// AddInstanceBuffer appends a per-instance source backed by an existing
// buffer. Same ownership rule as AddVertexBuffer.
func AddInstanceBuffer[V Vertex](tb *TessBuilder, buf *Buffer[V]) *TessBuilder {
	var layout V
	tb.instances = append(tb.instances, vertexSource{
		handle: buf.Handle(),
		count:  buf.Len(),
		stride: sizeOf[V](),
		format: layout.VertexFormat(),
	})
	return tb
}

// SetIndexBuffer attaches an existing buffer as the index source. Same
// ownership rule as AddVertexBuffer.
func SetIndexBuffer[I TessIndex](tb *TessBuilder, buf *Buffer[I]) *TessBuilder {
	tb.index = indexSource{
		present:   true,
		handle:    buf.Handle(),
		count:     buf.Len(),
		indexType: indexTypeOf[I](),
	}
	return tb
}

// SetMode sets the primitive assembly mode. Last write wins.
func (tb *TessBuilder) SetMode(mode metadata.Mode) *TessBuilder {
	tb.mode = mode
	return tb
}

// SetVertexCount overrides the vertex count deduced from the attached
// sources. Last write wins; zero restores deduction.
func (tb *TessBuilder) SetVertexCount(nb int) *TessBuilder {
	tb.vertexCount = nb
	return tb
}

// SetInstanceCount overrides the instance count. Last write wins; zero
// restores deduction.
func (tb *TessBuilder) SetInstanceCount(nb int) *TessBuilder {
	tb.instanceCount = nb
	return tb
}

// SetPrimitiveRestartIndex sets the restart sentinel for indexed draws.
// nil disables restart. Last write wins.
func (tb *TessBuilder) SetPrimitiveRestartIndex(index *uint32) *TessBuilder {
	tb.restartIndex = index
	return tb
}

// resolveCounts validates count coherency and computes the draw extents.
//
// Vertex count: explicit override, else index count for indexed
// tessellations, else the common length of all vertex sources.
// Instance count: explicit override, else the common length of instance
// sources, which must also agree with the vertex extent; mixing vertex
// and instance sources of different lengths without an override is
// ambiguous and refused.
func (tb *TessBuilder) resolveCounts() (int, int, error) {
	vertCount := tb.vertexCount
	commonVerts := 0
	for i, src := range tb.vertices {
		if i == 0 {
			commonVerts = src.count
		} else if src.count != commonVerts {
			return 0, 0, &TessError{Kind: TessLengthIncoherency, Expected: commonVerts, Got: src.count}
		}
	}

	if vertCount == 0 {
		switch {
		case tb.index.present:
			vertCount = tb.index.count
		case len(tb.vertices) > 0:
			vertCount = commonVerts
		}
	}
	if vertCount == 0 {
		return 0, 0, &TessError{Kind: TessAttributeless}
	}

	instCount := tb.instanceCount
	commonInsts := 0
	for i, src := range tb.instances {
		if i == 0 {
			commonInsts = src.count
		} else if src.count != commonInsts {
			return 0, 0, &TessError{Kind: TessLengthIncoherency, Expected: commonInsts, Got: src.count}
		}
	}
	if instCount == 0 {
		instCount = commonInsts
		if len(tb.instances) > 0 && len(tb.vertices) > 0 && commonInsts != commonVerts {
			return 0, 0, &TessError{Kind: TessLengthIncoherency, Expected: commonVerts, Got: commonInsts}
		}
	}

	return vertCount, instCount, nil
}

// Build validates the accumulated state, uploads deferred host data and
// produces an immutable Tess. On any failure every native object
// allocated during this attempt is released first; buffers handed in via
// the buffer-object variants are left alone, they still belong to the
// caller until Build succeeds.
func (tb *TessBuilder) Build() (*Tess, error) {
	if tb.consumed {
		return nil, &TessError{Kind: TessAlreadyBuilt}
	}
	tb.consumed = true

	vertCount, instCount, err := tb.resolveCounts()
	if err != nil {
		return nil, err
	}
	if tb.restartIndex != nil && !tb.index.present {
		return nil, &TessError{Kind: TessRestartWithoutIndices}
	}

	driver := tb.ctx.driver
	state := tb.ctx.state

	var createdBuffers []metadata.Handle
	vao := metadata.NoHandle
	fail := func(err error) error {
		if vao != metadata.NoHandle {
			state.BindVertexArray(metadata.NoHandle, metadata.BindCached)
			driver.DeleteVertexArray(vao)
		}
		for _, h := range createdBuffers {
			state.UnbindBuffer(h)
			driver.DeleteBuffer(h)
		}
		return err
	}

	vao, err = driver.CreateVertexArray()
	if err != nil {
		return nil, fail(&TessError{Kind: TessCannotCreate, Err: err})
	}
	state.BindVertexArray(vao, metadata.BindForced)

	attr := 0
	wire := func(src *vertexSource, divisor int) error {
		if src.handle == metadata.NoHandle {
			h, err := driver.CreateBuffer()
			if err != nil {
				return &TessError{Kind: TessCannotCreate, Err: err}
			}
			createdBuffers = append(createdBuffers, h)
			state.BindBuffer(metadata.TargetArrayBuffer, h, metadata.BindForced)
			if err := driver.BufferData(metadata.TargetArrayBuffer, len(src.data), src.data, metadata.UsageStatic); err != nil {
				return &TessError{Kind: TessCannotCreate, Err: err}
			}
			src.handle = h
			src.data = nil
		} else {
			state.BindBuffer(metadata.TargetArrayBuffer, src.handle, metadata.BindCached)
		}

		next, err := driver.SetupVertexAttributes(attr, src.format, src.stride, divisor)
		if err != nil {
			return &TessError{Kind: TessCannotCreate, Err: err}
		}
		if max := state.Limits().MaxVertexAttribs; max > 0 && next > max {
			return &TessError{Kind: TessCannotCreate, Expected: max, Got: next}
		}
		attr = next
		return nil
	}

	for i := range tb.vertices {
		if err := wire(&tb.vertices[i], 0); err != nil {
			return nil, fail(err)
		}
	}
	for i := range tb.instances {
		if err := wire(&tb.instances[i], 1); err != nil {
			return nil, fail(err)
		}
	}

	if tb.index.present {
		if tb.index.handle == metadata.NoHandle {
			h, err := driver.CreateBuffer()
			if err != nil {
				return nil, fail(&TessError{Kind: TessCannotCreate, Err: err})
			}
			createdBuffers = append(createdBuffers, h)
			// element binding becomes part of the bound vertex array
			state.BindBuffer(metadata.TargetElementArrayBuffer, h, metadata.BindForced)
			if err := driver.BufferData(metadata.TargetElementArrayBuffer, len(tb.index.data), tb.index.data, metadata.UsageStatic); err != nil {
				return nil, fail(&TessError{Kind: TessCannotCreate, Err: err})
			}
			tb.index.handle = h
			tb.index.data = nil
		} else {
			state.BindBuffer(metadata.TargetElementArrayBuffer, tb.index.handle, metadata.BindCached)
		}
	}

	// leave the vertex array unbound so later raw buffer traffic cannot
	// mutate its captured state
	state.BindVertexArray(metadata.NoHandle, metadata.BindCached)

	tess := &Tess{
		ctx:       tb.ctx,
		vao:       vao,
		mode:      tb.mode,
		vertCount: vertCount,
		instCount: instCount,
		label:     "tess-" + uuid.New().String(),
	}
	for _, src := range tb.vertices {
		tess.vertexBuffers = append(tess.vertexBuffers, tessBuffer{handle: src.handle, count: src.count, stride: src.stride})
	}
	for _, src := range tb.instances {
		tess.instanceBuffers = append(tess.instanceBuffers, tessBuffer{handle: src.handle, count: src.count, stride: src.stride})
	}
	if tb.index.present {
		tess.index = &tessIndexState{
			tessBuffer: tessBuffer{handle: tb.index.handle, count: tb.index.count, stride: tb.index.indexType.Size()},
			indexType:  tb.index.indexType,
			restart:    tb.restartIndex,
		}
	}

	core.MetricsTessCreated()
	core.LogDebug("%s built: mode=%s vertices=%d instances=%d indexed=%t",
		tess.label, tess.mode, tess.vertCount, tess.instCount, tess.index != nil)
	return tess, nil
}

type tessBuffer struct {
	handle metadata.Handle
	count  int
	stride int
}

type tessIndexState struct {
	tessBuffer
	indexType metadata.IndexType
	restart   *uint32
}

// Tess is an immutable GPU-resident tessellation: a vertex array plus the
// native buffers it sources from, and the extents a draw needs. It owns
// every native handle it references and frees them exactly once.
type Tess struct {
	ctx             *Context
	vao             metadata.Handle
	vertexBuffers   []tessBuffer
	instanceBuffers []tessBuffer
	index           *tessIndexState
	mode            metadata.Mode
	vertCount       int
	instCount       int
	label           string
	destroyed       bool
}

// VerticesCount reports the draw extent: the index count for indexed
// tessellations, the vertex count otherwise.
func (t *Tess) VerticesCount() int {
	return t.vertCount
}

// InstancesCount reports the instance extent; zero means non-instanced.
func (t *Tess) InstancesCount() int {
	return t.instCount
}

// Label returns the debug label attached at build.
func (t *Tess) Label() string {
	return t.label
}

// View covers the tessellation's full extents.
func (t *Tess) View() TessView {
	return TessView{tess: t, vertCount: t.vertCount, instCount: t.instCount}
}

// ViewRange covers count vertices starting at start. The range must fit
// inside the tessellation.
func (t *Tess) ViewRange(start, count int) (TessView, error) {
	if start < 0 || count < 0 || start+count > t.vertCount {
		return TessView{}, &TessError{Kind: TessViewOutOfRange, Expected: t.vertCount, Got: start + count}
	}
	return TessView{tess: t, startIndex: start, vertCount: count, instCount: t.instCount}, nil
}

// Destroy unbinds and releases the vertex array and every owned buffer.
// Safe to call once; later resource operations are contract violations.
func (t *Tess) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true

	state := t.ctx.state
	driver := t.ctx.driver

	if state.BoundVertexArray() == t.vao {
		state.BindVertexArray(metadata.NoHandle, metadata.BindCached)
	}
	driver.DeleteVertexArray(t.vao)

	release := func(b tessBuffer) {
		state.UnbindBuffer(b.handle)
		driver.DeleteBuffer(b.handle)
	}
	for _, b := range t.vertexBuffers {
		release(b)
	}
	for _, b := range t.instanceBuffers {
		release(b)
	}
	if t.index != nil {
		release(t.index.tessBuffer)
	}

	core.MetricsTessDestroyed()
	core.LogDebug("%s destroyed", t.label)
}

// TessView is a borrowed draw range over a tessellation. It must not
// outlive the Tess it references.
type TessView struct {
	tess       *Tess
	startIndex int
	vertCount  int
	instCount  int
}

// WithInstances overrides the view's instance count.
func (v TessView) WithInstances(nb int) TessView {
	v.instCount = nb
	return v
}

// TessVertices maps the vertex buffer in the given slot and hands the
// typed view to fn. The element size of V must match the stored stride.
// The mapping is released on every exit path.
func TessVertices[V Vertex](t *Tess, slot int, fn func(values []V) error) error {
	if t.destroyed {
		return &TessMapError{Kind: TessMapBufferFailed}
	}
	if slot < 0 || slot >= len(t.vertexBuffers) {
		return &TessMapError{Kind: TessMapNoSuchSlot}
	}
	return mapTessBuffer[V](t.ctx, t.vertexBuffers[slot], fn)
}

// TessInstances is TessVertices over the instance buffers.
func TessInstances[V Vertex](t *Tess, slot int, fn func(values []V) error) error {
	if t.destroyed {
		return &TessMapError{Kind: TessMapBufferFailed}
	}
	if slot < 0 || slot >= len(t.instanceBuffers) {
		return &TessMapError{Kind: TessMapNoSuchSlot}
	}
	return mapTessBuffer[V](t.ctx, t.instanceBuffers[slot], fn)
}

// TessIndices maps the index buffer. The width of I must match the index
// type the tessellation was built with.
func TessIndices[I TessIndex](t *Tess, fn func(indices []I) error) error {
	if t.destroyed {
		return &TessMapError{Kind: TessMapBufferFailed}
	}
	if t.index == nil {
		return &TessMapError{Kind: TessMapNoSuchSlot}
	}
	if indexTypeOf[I]() != t.index.indexType {
		return &TessMapError{Kind: TessMapForbidden}
	}
	return mapTessBuffer[I](t.ctx, t.index.tessBuffer, fn)
}

// mapTessBuffer binds b to the array target (any buffer may bind there,
// which keeps the element-array/vertex-array interplay out of the way)
// and brackets fn between map and a guaranteed unmap.
func mapTessBuffer[T any](ctx *Context, b tessBuffer, fn func([]T) error) (err error) {
	if b.stride != sizeOf[T]() {
		return &TessMapError{Kind: TessMapForbidden}
	}

	ctx.state.BindBuffer(metadata.TargetArrayBuffer, b.handle, metadata.BindCached)
	raw, mapErr := ctx.driver.MapBuffer(metadata.TargetArrayBuffer, metadata.AccessReadWrite, b.count*b.stride)
	if mapErr != nil {
		return &TessMapError{Kind: TessMapBufferFailed, Err: mapErr}
	}
	defer func() {
		if unmapErr := ctx.driver.UnmapBuffer(metadata.TargetArrayBuffer); unmapErr != nil && err == nil {
			err = &TessMapError{Kind: TessMapBufferFailed, Err: unmapErr}
		}
	}()

	return fn(asValues[T](raw, b.count))
}
