package testbed

import (
	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
	"github.com/spaghettifunk/lume/engine/math"
)

/**
 * @brief DemoVertex is the interleaved vertex layout used by the demo scene.
 */
type DemoVertex struct {
	Position math.Vec2
	Color    math.Vec3
}

func (DemoVertex) VertexFormat() metadata.VertexFormat {
	return metadata.VertexFormat{
		{Name: "position", Kind: metadata.AttribFloat32, Count: 2},
		{Name: "color", Kind: metadata.AttribFloat32, Count: 3},
	}
}

// Demo owns the geometry of the sample scene and renders it every frame.
type Demo struct {
	ctx      *graphics.Context
	gate     *graphics.TessGate
	triangle *graphics.Tess
	quad     *graphics.Tess

	clock           *core.Clock
	frame           uint64
	metricsInterval int
}

func New(ctx *graphics.Context, metricsInterval int) (*Demo, error) {
	d := &Demo{
		ctx:             ctx,
		gate:            ctx.TessGate(),
		clock:           core.NewClock(),
		metricsInterval: metricsInterval,
	}

	triangle, err := buildTriangle(ctx)
	if err != nil {
		return nil, err
	}
	quad, err := buildQuad(ctx)
	if err != nil {
		triangle.Destroy()
		return nil, err
	}

	d.triangle = triangle
	d.quad = quad
	d.clock.Start()
	return d, nil
}

func buildTriangle(ctx *graphics.Context) (*graphics.Tess, error) {
	vertices := []DemoVertex{
		{Position: math.Vec2{X: -0.5, Y: -0.5}, Color: math.Vec3{X: 1}},
		{Position: math.Vec2{X: 0.5, Y: -0.5}, Color: math.Vec3{Y: 1}},
		{Position: math.Vec2{X: 0, Y: 0.5}, Color: math.Vec3{Z: 1}},
	}

	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	graphics.AddVertices(builder, vertices)
	return builder.Build()
}

func buildQuad(ctx *graphics.Context) (*graphics.Tess, error) {
	vertices := []DemoVertex{
		{Position: math.Vec2{X: -0.9, Y: 0.6}, Color: math.Vec3{X: 1, Y: 1}},
		{Position: math.Vec2{X: -0.6, Y: 0.6}, Color: math.Vec3{Y: 1, Z: 1}},
		{Position: math.Vec2{X: -0.9, Y: 0.9}, Color: math.Vec3{X: 1, Z: 1}},
		{Position: math.Vec2{X: -0.6, Y: 0.9}, Color: math.Vec3{X: 1, Y: 1, Z: 1}},
	}
	indices := []uint16{0, 1, 2, 2, 1, 3}

	builder := ctx.NewTessBuilder().SetMode(metadata.ModeTriangle)
	graphics.AddVertices(builder, vertices)
	graphics.SetIndices(builder, indices)
	return builder.Build()
}

// Frame clears the target and renders the demo geometry once.
func (d *Demo) Frame() error {
	d.clock.Update()

	d.ctx.Driver().Clear(0.05, 0.05, 0.08, 1)
	if err := d.gate.Render(d.triangle.View()); err != nil {
		return err
	}
	if err := d.gate.Render(d.quad.View()); err != nil {
		return err
	}

	d.frame++
	if d.metricsInterval > 0 && d.frame%uint64(d.metricsInterval) == 0 {
		snap := core.MetricsSnapshot()
		core.LogInfo("frame %d (%.1fs up): binds issued=%d elided=%d (%.0f%% elision), draws=%d, buffers alive=%d",
			d.frame, d.clock.Elapsed().Seconds(),
			snap.BindsIssued, snap.BindsElided, core.MetricsElisionRate()*100,
			snap.DrawCalls, snap.BuffersAlive)
	}
	return nil
}

func (d *Demo) Shutdown() {
	if d.quad != nil {
		d.quad.Destroy()
	}
	if d.triangle != nil {
		d.triangle.Destroy()
	}
	d.clock.Stop()
}
