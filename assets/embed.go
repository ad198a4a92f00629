package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// Shape selects how a placeholder sprite is drawn when no image file exists.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeEllipse
	ShapeFlag
)

type spriteKey struct {
	name string
	w, h int
}

// Library resolves logical sprite names to images. Files are read from an
// optional filesystem as <name>.png; missing files fall back to a flat
// placeholder in the registered color and shape.
type Library struct {
	fsys   fs.FS
	colors map[string]color.Color
	shapes map[string]Shape
	cache  map[spriteKey]image.Image
}

func New(fsys fs.FS) *Library {
	return &Library{
		fsys:   fsys,
		colors: make(map[string]color.Color),
		shapes: make(map[string]Shape),
		cache:  make(map[spriteKey]image.Image),
	}
}

// SetColor registers the placeholder color for name.
func (l *Library) SetColor(name string, c color.Color) {
	if l == nil || c == nil {
		return
	}
	l.colors[name] = c
	l.invalidate(name)
}

// SetShape registers the placeholder shape for name.
func (l *Library) SetShape(name string, s Shape) {
	if l == nil {
		return
	}
	l.shapes[name] = s
	l.invalidate(name)
}

// Sprite returns the image for name scaled to w x h.
func (l *Library) Sprite(name string, w, h int) (image.Image, error) {
	if l == nil {
		return nil, errors.New("assets: nil library")
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("assets: sprite %s: invalid size %dx%d", name, w, h)
	}
	key := spriteKey{name: name, w: w, h: h}
	if img, ok := l.cache[key]; ok {
		return img, nil
	}

	src, err := l.load(name)
	var img image.Image
	switch {
	case err == nil:
		img = scale(src, w, h)
	case errors.Is(err, fs.ErrNotExist):
		img = l.placeholder(name, w, h)
	default:
		return nil, err
	}
	l.cache[key] = img
	return img, nil
}

func (l *Library) load(name string) (image.Image, error) {
	if l.fsys == nil {
		return nil, fs.ErrNotExist
	}
	file := cleanAssetPath(name)
	b, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", file, err)
	}
	return img, nil
}

func (l *Library) invalidate(name string) {
	for k := range l.cache {
		if k.name == name {
			delete(l.cache, k)
		}
	}
}

func (l *Library) colorFor(name string) color.Color {
	if c, ok := l.colors[name]; ok {
		return c
	}
	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return c
	}
	return colornames.Magenta
}

func (l *Library) placeholder(name string, w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := l.colorFor(name)
	switch l.shapes[name] {
	case ShapeEllipse:
		fillEllipse(img, c)
	case ShapeFlag:
		fillFlag(img, c)
	default:
		draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img
}

func scale(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func fillEllipse(img *image.NRGBA, c color.Color) {
	b := img.Bounds()
	rx := float64(b.Dx()) / 2
	ry := float64(b.Dy()) / 2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			nx := (float64(x-b.Min.X) + 0.5 - rx) / rx
			ny := (float64(y-b.Min.Y) + 0.5 - ry) / ry
			if nx*nx+ny*ny <= 1 {
				img.Set(x, y, c)
			}
		}
	}
}

// fillFlag draws a pole on the left edge and a pennant in the top half.
func fillFlag(img *image.NRGBA, c color.Color) {
	b := img.Bounds()
	pole := max(1, b.Dx()/6)
	draw.Draw(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+pole, b.Max.Y), image.NewUniform(colornames.Dimgray), image.Point{}, draw.Src)
	half := b.Dy() / 2
	for y := 0; y < half; y++ {
		span := (b.Dx() - pole) * (half - y) / max(1, half)
		for x := 0; x < span; x++ {
			img.Set(b.Min.X+pole+x, b.Min.Y+y, c)
		}
	}
}

func cleanAssetPath(name string) string {
	s := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		s = after
	}
	if path.Ext(s) == "" {
		s += ".png"
	}
	return s
}
