package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestPlaceholderShapes(t *testing.T) {
	lib := New(nil)
	lib.SetColor("ken", colornames.Orange)
	lib.SetShape("ken", ShapeEllipse)

	img, err := lib.Sprite("ken", 20, 40)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 40), img.Bounds())
	assert.Zero(t, alphaAt(img, 0, 0), "ellipse corner should be transparent")
	assert.NotZero(t, alphaAt(img, 10, 20))

	tile, err := lib.Sprite("dirt_default", 8, 8)
	require.NoError(t, err)
	assert.NotZero(t, alphaAt(tile, 0, 0))
	assert.NotZero(t, alphaAt(tile, 7, 7))

	lib.SetShape("flag", ShapeFlag)
	flag, err := lib.Sprite("flag", 12, 24)
	require.NoError(t, err)
	assert.NotZero(t, alphaAt(flag, 0, 23), "pole")
	assert.Zero(t, alphaAt(flag, 11, 23))
}

func TestSpriteCachesAndInvalidates(t *testing.T) {
	lib := New(nil)
	a, err := lib.Sprite("box", 4, 4)
	require.NoError(t, err)
	b, err := lib.Sprite("box", 4, 4)
	require.NoError(t, err)
	assert.Same(t, a.(*image.NRGBA), b.(*image.NRGBA))

	lib.SetColor("box", color.NRGBA{G: 255, A: 255})
	c, err := lib.Sprite("box", 4, 4)
	require.NoError(t, err)
	assert.NotSame(t, a.(*image.NRGBA), c.(*image.NRGBA))
}

func TestSpriteDecodesAndScales(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	lib := New(fstest.MapFS{"dot.png": {Data: buf.Bytes()}})
	img, err := lib.Sprite("assets/dot", 8, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.NotZero(t, alphaAt(img, 1, 1))
	assert.Zero(t, alphaAt(img, 6, 6))
}

func TestSpriteErrors(t *testing.T) {
	lib := New(fstest.MapFS{"broken.png": {Data: []byte("nope")}})
	_, err := lib.Sprite("broken", 4, 4)
	assert.Error(t, err)

	_, err = lib.Sprite("x", 0, 4)
	assert.Error(t, err)
}
