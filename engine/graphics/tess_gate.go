package graphics

import (
	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// TessGate is the pipeline node that turns a tessellation view into a
// draw submission. It is the only place this layer touches rendering
// output; binding the tessellation's own state goes through the shared
// cache like every other bind.
type TessGate struct {
	ctx *Context
}

// Render validates the view and issues exactly one draw submission. A
// view that does not fit inside its tessellation fails with TessError
// and no native call is made.
func (g *TessGate) Render(view TessView) error {
	t := view.tess
	if t == nil || t.destroyed {
		return &TessError{Kind: TessDestroyed}
	}
	if view.startIndex < 0 || view.vertCount < 0 || view.startIndex+view.vertCount > t.vertCount {
		return &TessError{Kind: TessViewOutOfRange, Expected: t.vertCount, Got: view.startIndex + view.vertCount}
	}
	if view.vertCount == 0 {
		return nil
	}

	state := g.ctx.state
	state.BindVertexArray(t.vao, metadata.BindCached)

	var err error
	if t.index != nil {
		if t.index.restart != nil {
			state.SetPrimitiveRestart(true, *t.index.restart)
		} else {
			state.SetPrimitiveRestart(false, 0)
		}
		byteOffset := view.startIndex * t.index.indexType.Size()
		err = g.ctx.driver.DrawElements(t.mode, view.vertCount, t.index.indexType, byteOffset, view.instCount)
	} else {
		state.SetPrimitiveRestart(false, 0)
		err = g.ctx.driver.DrawArrays(t.mode, view.startIndex, view.vertCount, view.instCount)
	}
	if err != nil {
		return &TessError{Kind: TessDrawFailed, Err: err}
	}

	core.MetricsDrawCall()
	return nil
}
