package graphics

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/lume/engine/graphics/metadata"
	"github.com/spaghettifunk/lume/engine/graphics/null"
	"github.com/spaghettifunk/lume/engine/math"
)

// testVertex is the layout every tessellation test builds with.
type testVertex struct {
	Position math.Vec2
	Colour   math.Vec3
}

func (testVertex) VertexFormat() metadata.VertexFormat {
	return metadata.VertexFormat{
		{Name: "position", Kind: metadata.AttribFloat32, Count: 2},
		{Name: "colour", Kind: metadata.AttribFloat32, Count: 3},
	}
}

func vec2(x, y float32) math.Vec2 {
	return math.Vec2{X: x, Y: y}
}

func newTestContext(t *testing.T) (*Context, *null.Driver) {
	t.Helper()
	driver := null.New()
	ctx, err := NewContext(driver)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx, driver
}

func TestNewContextQueriesLimits(t *testing.T) {
	ctx, _ := newTestContext(t)

	limits := ctx.Limits()
	if limits.MaxVertexAttribs != 16 {
		t.Errorf("MaxVertexAttribs = %d, want 16", limits.MaxVertexAttribs)
	}
	if limits.Renderer != "null" {
		t.Errorf("Renderer = %q, want \"null\"", limits.Renderer)
	}
}

func TestNewContextQueryFailure(t *testing.T) {
	driver := null.New()
	driver.QueryErr = errors.New("context lost")

	_, err := NewContext(driver)
	var qerr *StateQueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("NewContext error = %v, want StateQueryError", err)
	}
	if !errors.Is(err, driver.QueryErr) {
		t.Errorf("StateQueryError does not wrap the driver error")
	}
}
