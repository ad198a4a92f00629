package common

import "image"

// MaskAlphaThreshold is the minimum alpha a pixel needs to be considered solid.
const MaskAlphaThreshold = 127

// Mask is a 1-bit per pixel collision mask built from a sprite's alpha channel.
type Mask struct {
	w, h int
	bits []uint64
}

// NewMask returns an empty mask of the given size.
func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Mask{w: w, h: h, bits: make([]uint64, (w*h+63)/64)}
}

// NewFilledMask returns a mask where every pixel is solid.
func NewFilledMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

// MaskFromImage builds a mask from img, treating pixels with alpha above
// MaskAlphaThreshold as solid.
func MaskFromImage(img image.Image) *Mask {
	if img == nil {
		return NewMask(0, 0)
	}
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a>>8 > MaskAlphaThreshold {
				m.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return m
}

func (m *Mask) Size() (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.w, m.h
}

func (m *Mask) Set(x, y int, solid bool) {
	if m == nil || x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	i := y*m.w + x
	if solid {
		m.bits[i/64] |= 1 << (i % 64)
	} else {
		m.bits[i/64] &^= 1 << (i % 64)
	}
}

func (m *Mask) At(x, y int) bool {
	if m == nil || x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	i := y*m.w + x
	return m.bits[i/64]&(1<<(i%64)) != 0
}

// Count returns the number of solid pixels.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.At(x, y) {
				n++
			}
		}
	}
	return n
}

// FlipH returns a horizontally mirrored copy, used for sprites drawn facing left.
func (m *Mask) FlipH() *Mask {
	if m == nil {
		return nil
	}
	out := NewMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.At(x, y) {
				out.Set(m.w-1-x, y, true)
			}
		}
	}
	return out
}

// Overlap reports whether any solid pixel of m touches a solid pixel of other
// when other's top-left corner sits at (offX, offY) in m's local space.
func (m *Mask) Overlap(other *Mask, offX, offY int) bool {
	if m == nil || other == nil {
		return false
	}
	x0 := max(0, offX)
	y0 := max(0, offY)
	x1 := min(m.w, offX+other.w)
	y1 := min(m.h, offY+other.h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.At(x, y) && other.At(x-offX, y-offY) {
				return true
			}
		}
	}
	return false
}
