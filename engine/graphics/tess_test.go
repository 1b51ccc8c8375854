package graphics

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

func triangleVertices() []testVertex {
	return []testVertex{
		{Position: vec2(-0.5, -0.5)},
		{Position: vec2(0.5, -0.5)},
		{Position: vec2(0, 0.5)},
	}
}

func TestBuildTriangle(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	AddVertices(builder, triangleVertices())

	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tess.VerticesCount() != 3 {
		t.Errorf("VerticesCount = %d, want 3", tess.VerticesCount())
	}
	if tess.InstancesCount() != 0 {
		t.Errorf("InstancesCount = %d, want 0", tess.InstancesCount())
	}
	if driver.LiveVertexArrays() != 1 || driver.LiveBuffers() != 1 {
		t.Errorf("live objects = %d vaos, %d buffers; want 1, 1",
			driver.LiveVertexArrays(), driver.LiveBuffers())
	}

	tess.Destroy()
	if driver.LiveVertexArrays() != 0 || driver.LiveBuffers() != 0 {
		t.Errorf("objects leaked after Destroy: %d vaos, %d buffers",
			driver.LiveVertexArrays(), driver.LiveBuffers())
	}

	// destroying twice is safe
	tess.Destroy()
}

func TestBuildLeavesVertexArrayUnbound(t *testing.T) {
	ctx, _ := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if got := ctx.State().BoundVertexArray(); got != metadata.NoHandle {
		t.Errorf("vertex array %d still bound after Build", got)
	}
}

func TestBuildIncoherentLengthsLeaksNothing(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices()[:2])
	AddInstances(builder, triangleVertices())

	_, err := builder.Build()
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessLengthIncoherency {
		t.Fatalf("Build error = %v, want TessLengthIncoherency", err)
	}
	if driver.LiveVertexArrays() != 0 || driver.LiveBuffers() != 0 {
		t.Errorf("objects leaked after failed Build: %d vaos, %d buffers",
			driver.LiveVertexArrays(), driver.LiveBuffers())
	}
}

func TestBuildIncoherentVertexSources(t *testing.T) {
	ctx, _ := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	AddVertices(builder, triangleVertices()[:2])

	_, err := builder.Build()
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessLengthIncoherency {
		t.Fatalf("Build error = %v, want TessLengthIncoherency", err)
	}
}

func TestExplicitCountsOverrideDeduction(t *testing.T) {
	ctx, _ := newTestContext(t)

	// differing vertex and instance extents are fine with an override
	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	AddInstances(builder, triangleVertices()[:2])
	builder.SetInstanceCount(2)

	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if tess.VerticesCount() != 3 || tess.InstancesCount() != 2 {
		t.Errorf("counts = (%d, %d), want (3, 2)",
			tess.VerticesCount(), tess.InstancesCount())
	}
}

func TestBuildAttributeless(t *testing.T) {
	ctx, driver := newTestContext(t)

	_, err := ctx.NewTessBuilder().Build()
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessAttributeless {
		t.Fatalf("empty Build error = %v, want TessAttributeless", err)
	}

	// an explicit vertex count makes an attributeless tessellation legal
	tess, err := ctx.NewTessBuilder().SetVertexCount(3).Build()
	if err != nil {
		t.Fatalf("attributeless Build with count: %v", err)
	}
	defer tess.Destroy()

	if tess.VerticesCount() != 3 {
		t.Errorf("VerticesCount = %d, want 3", tess.VerticesCount())
	}
	if driver.LiveBuffers() != 0 {
		t.Errorf("attributeless tessellation created %d buffers", driver.LiveBuffers())
	}
}

func TestBuildConsumesBuilder(t *testing.T) {
	ctx, _ := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())

	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	_, err = builder.Build()
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessAlreadyBuilt {
		t.Fatalf("second Build error = %v, want TessAlreadyBuilt", err)
	}
}

func TestRestartWithoutIndices(t *testing.T) {
	ctx, _ := newTestContext(t)

	restart := uint32(0xFFFF)
	builder := ctx.NewTessBuilder().SetPrimitiveRestartIndex(&restart)
	AddVertices(builder, triangleVertices())

	_, err := builder.Build()
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessRestartWithoutIndices {
		t.Fatalf("Build error = %v, want TessRestartWithoutIndices", err)
	}
}

func TestIndexedBuild(t *testing.T) {
	ctx, driver := newTestContext(t)

	indices := []uint16{0, 1, 2, 2, 1, 0}
	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	AddVertices(builder, triangleVertices())
	SetIndices(builder, indices)

	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	// the draw extent of an indexed tessellation is the index count
	if tess.VerticesCount() != 6 {
		t.Errorf("VerticesCount = %d, want 6", tess.VerticesCount())
	}
	if driver.LiveBuffers() != 2 {
		t.Errorf("LiveBuffers = %d, want 2 (vertex + index)", driver.LiveBuffers())
	}

	err = TessIndices(tess, func(got []uint16) error {
		for i, idx := range indices {
			if got[i] != idx {
				t.Errorf("index %d = %d, want %d", i, got[i], idx)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("TessIndices: %v", err)
	}
}

func TestBuildFromTransferredBuffers(t *testing.T) {
	ctx, driver := newTestContext(t)

	vbuf, err := BufferFromSlice(ctx, triangleVertices())
	if err != nil {
		t.Fatalf("BufferFromSlice: %v", err)
	}
	ibuf, err := BufferFromSlice(ctx, []uint16{0, 1, 2})
	if err != nil {
		t.Fatalf("BufferFromSlice: %v", err)
	}

	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	AddVertexBuffer(builder, vbuf)
	SetIndexBuffer(builder, ibuf)

	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if driver.LiveBuffers() != 2 {
		t.Errorf("LiveBuffers = %d, want 2 (no re-upload)", driver.LiveBuffers())
	}

	// ownership transferred: destroying the tessellation releases them
	tess.Destroy()
	if driver.LiveBuffers() != 0 {
		t.Errorf("LiveBuffers after Destroy = %d, want 0", driver.LiveBuffers())
	}
}

func TestFailedBuildLeavesTransferredBuffersAlone(t *testing.T) {
	ctx, driver := newTestContext(t)

	vbuf, err := BufferFromSlice(ctx, triangleVertices())
	if err != nil {
		t.Fatalf("BufferFromSlice: %v", err)
	}

	builder := ctx.NewTessBuilder()
	AddVertexBuffer(builder, vbuf)
	AddInstances(builder, triangleVertices()[:2])

	_, err = builder.Build()
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessLengthIncoherency {
		t.Fatalf("Build error = %v, want TessLengthIncoherency", err)
	}

	// the caller still owns the buffer it handed in
	if driver.LiveBuffers() != 1 {
		t.Fatalf("LiveBuffers = %d, want 1", driver.LiveBuffers())
	}
	if _, err := vbuf.ReadAll(); err != nil {
		t.Errorf("transferred buffer unusable after failed Build: %v", err)
	}
	vbuf.Destroy()
}

func TestTessVerticesMapping(t *testing.T) {
	ctx, _ := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	err = TessVertices(tess, 0, func(values []testVertex) error {
		values[0].Position = vec2(9, 9)
		return nil
	})
	if err != nil {
		t.Fatalf("TessVertices: %v", err)
	}

	err = TessVertices(tess, 0, func(values []testVertex) error {
		if values[0].Position != vec2(9, 9) {
			t.Errorf("mutation did not persist: %+v", values[0].Position)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("TessVertices: %v", err)
	}

	var merr *TessMapError
	if err := TessVertices(tess, 1, func([]testVertex) error { return nil }); !errors.As(err, &merr) || merr.Kind != TessMapNoSuchSlot {
		t.Errorf("slot 1 error = %v, want TessMapNoSuchSlot", err)
	}
	if err := TessInstances(tess, 0, func([]testVertex) error { return nil }); !errors.As(err, &merr) || merr.Kind != TessMapNoSuchSlot {
		t.Errorf("instance slot error = %v, want TessMapNoSuchSlot", err)
	}
}

func TestTessIndicesWidthMismatch(t *testing.T) {
	ctx, _ := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	SetIndices(builder, []uint16{0, 1, 2})
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	var merr *TessMapError
	if err := TessIndices(tess, func([]uint32) error { return nil }); !errors.As(err, &merr) || merr.Kind != TessMapForbidden {
		t.Errorf("uint32 view of uint16 indices = %v, want TessMapForbidden", err)
	}
}

func TestTessIndicesWithoutIndexData(t *testing.T) {
	ctx, _ := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	var merr *TessMapError
	if err := TessIndices(tess, func([]uint16) error { return nil }); !errors.As(err, &merr) || merr.Kind != TessMapNoSuchSlot {
		t.Errorf("TessIndices on array tessellation = %v, want TessMapNoSuchSlot", err)
	}
}

func TestViewRange(t *testing.T) {
	ctx, _ := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if _, err := tess.ViewRange(1, 2); err != nil {
		t.Errorf("ViewRange(1, 2) on 3 vertices: %v", err)
	}

	var terr *TessError
	for _, r := range [][2]int{{0, 4}, {2, 2}, {-1, 2}, {0, -1}} {
		if _, err := tess.ViewRange(r[0], r[1]); !errors.As(err, &terr) || terr.Kind != TessViewOutOfRange {
			t.Errorf("ViewRange(%d, %d) = %v, want TessViewOutOfRange", r[0], r[1], err)
		}
	}
}
