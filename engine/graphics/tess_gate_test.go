package graphics

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

func TestRenderIssuesOneDraw(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	gate := ctx.TessGate()
	before := driver.Counters().DrawCalls
	if err := gate.Render(tess.View()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := driver.Counters().DrawCalls - before; got != 1 {
		t.Errorf("Render issued %d draw calls, want 1", got)
	}
}

func TestRenderElidesRepeatedVertexArrayBind(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	gate := ctx.TessGate()
	if err := gate.Render(tess.View()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	before := driver.Counters().VertexArrayBinds
	for i := 0; i < 5; i++ {
		if err := gate.Render(tess.View()); err != nil {
			t.Fatalf("Render %d: %v", i, err)
		}
	}
	if got := driver.Counters().VertexArrayBinds - before; got != 0 {
		t.Errorf("re-rendering the same tessellation issued %d vertex-array binds, want 0", got)
	}
}

func TestRenderZeroVerticesIsNoop(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	view, err := tess.ViewRange(0, 0)
	if err != nil {
		t.Fatalf("ViewRange: %v", err)
	}

	before := driver.Counters().DrawCalls
	if err := ctx.TessGate().Render(view); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := driver.Counters().DrawCalls - before; got != 0 {
		t.Errorf("zero-vertex render issued %d draw calls, want 0", got)
	}
}

func TestRenderDestroyedTess(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	view := tess.View()
	tess.Destroy()

	before := driver.Counters().DrawCalls
	err = ctx.TessGate().Render(view)
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessDestroyed {
		t.Fatalf("Render after Destroy = %v, want TessDestroyed", err)
	}
	if got := driver.Counters().DrawCalls - before; got != 0 {
		t.Errorf("rejected render still issued %d draw calls", got)
	}
}

func TestRenderOutOfRangeViewIssuesNoDraw(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder()
	AddVertices(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	// the gate re-validates even views that bypassed ViewRange
	view := TessView{tess: tess, startIndex: 2, vertCount: 5}

	before := driver.Counters().DrawCalls
	err = ctx.TessGate().Render(view)
	var terr *TessError
	if !errors.As(err, &terr) || terr.Kind != TessViewOutOfRange {
		t.Fatalf("Render = %v, want TessViewOutOfRange", err)
	}
	if got := driver.Counters().DrawCalls - before; got != 0 {
		t.Errorf("rejected render still issued %d draw calls", got)
	}
}

func TestIndexedRenderAppliesRestart(t *testing.T) {
	ctx, driver := newTestContext(t)

	restart := uint32(0xFFFF)
	builder := ctx.NewTessBuilder().
		SetMode(metadata.ModeTriangleStrip).
		SetPrimitiveRestartIndex(&restart)
	AddVertices(builder, triangleVertices())
	SetIndices(builder, []uint16{0, 1, 2, 0xFFFF, 2, 1, 0})
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	gate := ctx.TessGate()
	before := driver.Counters()
	if err := gate.Render(tess.View()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := gate.Render(tess.View()); err != nil {
		t.Fatalf("second Render: %v", err)
	}

	after := driver.Counters()
	if got := after.DrawCalls - before.DrawCalls; got != 2 {
		t.Errorf("DrawCalls delta = %d, want 2", got)
	}
	// the restart state is unchanged between the two draws, so only the
	// first one configures it
	if got := after.RestartToggles - before.RestartToggles; got != 1 {
		t.Errorf("RestartToggles delta = %d, want 1", got)
	}
}

func TestRenderInstancedView(t *testing.T) {
	ctx, driver := newTestContext(t)

	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	AddVertices(builder, triangleVertices())
	AddInstances(builder, triangleVertices())
	tess, err := builder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if tess.InstancesCount() != 3 {
		t.Fatalf("InstancesCount = %d, want 3", tess.InstancesCount())
	}

	before := driver.Counters().DrawCalls
	if err := ctx.TessGate().Render(tess.View().WithInstances(2)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := driver.Counters().DrawCalls - before; got != 1 {
		t.Errorf("instanced render issued %d draw calls, want 1", got)
	}
}
