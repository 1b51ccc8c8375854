package graphics

import (
	"fmt"
	"image"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/spaghettifunk/lume/engine/core"
	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

// Texture is a 2D, RGBA8, GPU-resident image. Like buffers it shares the
// context's state cache for every bind and is bound BindForced exactly
// once, at creation.
type Texture struct {
	ctx     *Context
	handle  metadata.Handle
	width   int
	height  int
	mipmaps int
	sampler metadata.Sampler
	label   string
}

// NewTexture allocates texture storage without contents. mipmaps counts
// additional levels below the base level; zero means base level only.
func NewTexture(ctx *Context, width, height, mipmaps int, sampler metadata.Sampler) (*Texture, error) {
	return newTexture(ctx, width, height, mipmaps, sampler, nil)
}

// TextureFromImage converts img to RGBA8 and uploads it. Any image.Image
// works; non-RGBA sources are converted through x/image's drawer.
func TextureFromImage(ctx *Context, img image.Image, mipmaps int, sampler metadata.Sampler) (*Texture, error) {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || bounds.Min != (image.Point{}) {
		converted := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		xdraw.Draw(converted, converted.Bounds(), img, bounds.Min, xdraw.Src)
		rgba = converted
	}
	return newTexture(ctx, bounds.Dx(), bounds.Dy(), mipmaps, sampler, rgba.Pix)
}

func newTexture(ctx *Context, width, height, mipmaps int, sampler metadata.Sampler, pixels []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if max := ctx.Limits().MaxTextureSize; max > 0 && (width > max || height > max) {
		return nil, fmt.Errorf("texture size %dx%d exceeds backend limit %d", width, height, max)
	}

	handle, err := ctx.driver.CreateTexture()
	if err != nil {
		return nil, fmt.Errorf("cannot create native texture: %w", err)
	}

	ctx.state.BindTexture(handle, metadata.BindForced)
	if err := ctx.driver.TexImage2D(width, height, mipmaps, pixels); err != nil {
		ctx.state.UnbindTexture(handle)
		ctx.driver.DeleteTexture(handle)
		return nil, fmt.Errorf("cannot allocate texture storage: %w", err)
	}
	ctx.driver.ApplySampler(sampler)
	if mipmaps > 0 && pixels != nil {
		ctx.driver.GenerateMipmaps()
	}

	t := &Texture{
		ctx:     ctx,
		handle:  handle,
		width:   width,
		height:  height,
		mipmaps: mipmaps,
		sampler: sampler,
		label:   "texture-" + uuid.New().String(),
	}
	core.LogDebug("%s created: %dx%d, %d mipmaps", t.label, width, height, mipmaps)
	return t, nil
}

func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// Upload replaces the whole base level. pixels must hold width*height
// RGBA8 texels.
func (t *Texture) Upload(pixels []byte) error {
	return t.UploadPart(0, 0, t.width, t.height, pixels)
}

// UploadPart replaces a sub-rectangle of the base level.
func (t *Texture) UploadPart(x, y, width, height int, pixels []byte) error {
	if want := width * height * 4; len(pixels) != want {
		return fmt.Errorf("texel payload is %d bytes, rectangle needs %d", len(pixels), want)
	}
	t.ctx.state.BindTexture(t.handle, metadata.BindCached)
	if err := t.ctx.driver.TexSubImage2D(x, y, width, height, pixels); err != nil {
		return err
	}
	if t.mipmaps > 0 {
		t.ctx.driver.GenerateMipmaps()
	}
	return nil
}

// Clear sets every texel of the base level to the given RGBA value.
func (t *Texture) Clear(texel [4]byte) error {
	pixels := make([]byte, t.width*t.height*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = texel[0]
		pixels[i+1] = texel[1]
		pixels[i+2] = texel[2]
		pixels[i+3] = texel[3]
	}
	return t.Upload(pixels)
}

// Destroy unbinds the texture if bound and releases the native handle.
func (t *Texture) Destroy() {
	t.ctx.state.UnbindTexture(t.handle)
	t.ctx.driver.DeleteTexture(t.handle)
	core.LogDebug("%s destroyed", t.label)
	t.handle = metadata.NoHandle
}
