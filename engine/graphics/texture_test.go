package graphics

import (
	"image"
	"image/color"
	"testing"

	"github.com/spaghettifunk/lume/engine/graphics/metadata"
)

func TestNewTexture(t *testing.T) {
	ctx, driver := newTestContext(t)

	tex, err := NewTexture(ctx, 4, 4, 0, metadata.DefaultSampler())
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	if tex.Width() != 4 || tex.Height() != 4 {
		t.Errorf("size = %dx%d, want 4x4", tex.Width(), tex.Height())
	}
	if driver.LiveTextures() != 1 {
		t.Errorf("LiveTextures = %d, want 1", driver.LiveTextures())
	}

	tex.Destroy()
	if driver.LiveTextures() != 0 {
		t.Errorf("LiveTextures after Destroy = %d, want 0", driver.LiveTextures())
	}
}

func TestNewTextureRejectsBadSizes(t *testing.T) {
	ctx, driver := newTestContext(t)

	cases := [][2]int{{0, 4}, {4, 0}, {-1, 4}, {99999, 4}}
	for _, c := range cases {
		if _, err := NewTexture(ctx, c[0], c[1], 0, metadata.DefaultSampler()); err == nil {
			t.Errorf("NewTexture(%d, %d) succeeded, want error", c[0], c[1])
		}
	}
	if driver.LiveTextures() != 0 {
		t.Errorf("rejected textures leaked %d objects", driver.LiveTextures())
	}
}

func TestTextureFromImage(t *testing.T) {
	ctx, _ := newTestContext(t)

	// a non-RGBA image goes through the conversion path
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{Y: 128})

	tex, err := TextureFromImage(ctx, gray, 0, metadata.DefaultSampler())
	if err != nil {
		t.Fatalf("TextureFromImage: %v", err)
	}
	defer tex.Destroy()

	if tex.Width() != 2 || tex.Height() != 2 {
		t.Errorf("size = %dx%d, want 2x2", tex.Width(), tex.Height())
	}
}

func TestTextureUploadValidatesPayload(t *testing.T) {
	ctx, _ := newTestContext(t)

	tex, err := NewTexture(ctx, 2, 2, 0, metadata.DefaultSampler())
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	defer tex.Destroy()

	if err := tex.Upload(make([]byte, 3)); err == nil {
		t.Errorf("short payload accepted")
	}
	if err := tex.Upload(make([]byte, 2*2*4)); err != nil {
		t.Errorf("exact payload rejected: %v", err)
	}
	if err := tex.UploadPart(1, 1, 1, 1, make([]byte, 4)); err != nil {
		t.Errorf("sub-rectangle upload: %v", err)
	}
	if err := tex.UploadPart(2, 2, 1, 1, make([]byte, 4)); err == nil {
		t.Errorf("out-of-bounds sub-rectangle accepted")
	}
}

func TestTextureClear(t *testing.T) {
	ctx, _ := newTestContext(t)

	tex, err := NewTexture(ctx, 2, 2, 0, metadata.DefaultSampler())
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	defer tex.Destroy()

	if err := tex.Clear([4]byte{255, 0, 0, 255}); err != nil {
		t.Fatalf("Clear: %v", err)
	}
}
