package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"

	"github.com/milk9111/rampage/assets"
	"github.com/milk9111/rampage/common"
	"github.com/milk9111/rampage/obj"
)

var backgroundTints = []color.Color{
	color.NRGBA{R: 0x9f, G: 0xc9, B: 0xf0, A: 0x50},
	color.NRGBA{R: 0x4c, G: 0x8c, B: 0x4a, A: 0x60},
	color.NRGBA{R: 0x55, G: 0x55, B: 0x6a, A: 0x70},
}

type imageKey struct {
	name string
	w, h int
}

// renderer draws a World with images from the asset library, converted to
// ebiten images once per name and size.
type renderer struct {
	lib    *assets.Library
	log    *log.Logger
	images map[imageKey]*ebiten.Image
	failed map[imageKey]bool
	tinted map[string]bool
}

func newRenderer(lib *assets.Library, logger *log.Logger) *renderer {
	return &renderer{
		lib:    lib,
		log:    logger.With("component", "renderer"),
		images: make(map[imageKey]*ebiten.Image),
		failed: make(map[imageKey]bool),
		tinted: make(map[string]bool),
	}
}

// reset drops every converted image. Called after prefabs reload so new
// colors and sizes show up.
func (r *renderer) reset() {
	for k, img := range r.images {
		img.Deallocate()
		delete(r.images, k)
	}
	clear(r.failed)
	clear(r.tinted)
}

func (r *renderer) image(name string, w, h float64) *ebiten.Image {
	key := imageKey{name: name, w: int(math.Round(w)), h: int(math.Round(h))}
	if img, ok := r.images[key]; ok {
		return img
	}
	if r.failed[key] {
		return nil
	}
	src, err := r.lib.Sprite(name, key.w, key.h)
	if err != nil {
		r.failed[key] = true
		r.log.Warn("sprite", "name", name, "err", err)
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	r.images[key] = img
	return img
}

func (r *renderer) draw(screen *ebiten.Image, w *obj.World, debug bool) {
	cfg := w.Config()
	screen.Fill(cfg.World.Sky.Or(colornames.Skyblue))

	sw, sh := cfg.ScreenSize()
	for i, name := range w.Backgrounds() {
		if !r.tinted[name] {
			r.lib.SetColor(name, backgroundTints[i%len(backgroundTints)])
			r.tinted[name] = true
		}
		r.drawBackground(screen, r.image(name, sw, sh), w.Scroll().ParallaxOffset(i), sw)
	}

	ts := cfg.World.TileSize
	for _, t := range w.Obstacles() {
		if t.Rect.Right() < 0 || t.Rect.Left() > sw {
			continue
		}
		r.drawAt(screen, r.image(t.Name, ts, ts), t.Rect, 1, nil)
	}
	for _, c := range w.Collectibles() {
		r.drawAt(screen, r.image(c.Sprite, c.Rect.Width, c.Rect.Height), c.Rect, 1, nil)
	}
	for _, e := range w.Enemies() {
		r.drawEntity(screen, e.Sprite, &e.Body, e.Weapon)
		if debug {
			ebitenutil.DrawRect(screen, e.Hitbox.X, e.Hitbox.Y, e.Hitbox.Width, e.Hitbox.Height, color.NRGBA{R: 0xff, A: 0x50})
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %d", e.State(), e.Health.Current), int(e.Rect.X), int(e.Rect.Y)-16)
		}
	}
	if p := w.Player(); p != nil {
		r.drawEntity(screen, p.Sprite, &p.Body, p.Weapon)
		if debug {
			ebitenutil.DrawRect(screen, p.Hitbox.X, p.Hitbox.Y, p.Hitbox.Width, p.Hitbox.Height, color.NRGBA{G: 0xff, A: 0x50})
			ebitenutil.DebugPrintAt(screen, string(p.Anim), int(p.Rect.X), int(p.Rect.Y)-16)
		}
	}
	for _, b := range w.Projectiles() {
		r.drawAt(screen, r.image(b.Sprite, b.Rect.Width, b.Rect.Height), b.Rect, b.Direction, nil)
	}
}

func (r *renderer) drawBackground(screen, img *ebiten.Image, offset, width float64) {
	if img == nil || width <= 0 {
		return
	}
	x := math.Mod(offset, width)
	for _, dx := range []float64{x, x + width} {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(dx, 0)
		screen.DrawImage(img, op)
	}
}

// drawEntity draws a body and its weapon. Dead bodies are faded.
func (r *renderer) drawEntity(screen *ebiten.Image, sprite string, b *obj.Body, wp *obj.Weapon) {
	var scale *ebiten.ColorScale
	if !b.Alive() {
		scale = &ebiten.ColorScale{}
		scale.ScaleAlpha(0.4)
	}
	r.drawAt(screen, r.image(sprite, b.Rect.Width, b.Rect.Height), b.Rect, b.Direction, scale)
	if wp != nil && b.Alive() {
		r.drawAt(screen, r.image(wp.Sprite, wp.Rect.Width, wp.Rect.Height), wp.Rect, b.Direction, nil)
	}
}

// drawAt draws img into rect, mirrored when direction is negative.
func (r *renderer) drawAt(screen, img *ebiten.Image, rect common.Rect, direction int, scale *ebiten.ColorScale) {
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	if direction < 0 {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(float64(img.Bounds().Dx()), 0)
	}
	op.GeoM.Translate(math.Round(rect.X), math.Round(rect.Y))
	if scale != nil {
		op.ColorScale = *scale
	}
	screen.DrawImage(img, op)
}
