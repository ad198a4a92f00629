package obj

import (
	"math"

	"github.com/milk9111/rampage/common"
)

// Bullet is a one-shot projectile. It travels horizontally, is carried by
// the camera scroll and terminates on range, on the first obstacle or on the
// first entity it hits.
type Bullet struct {
	Rect       common.Rect
	Direction  int
	Speed      float64
	MaxRange   float64
	Damage     int
	OriginX    float64
	Faction    Faction
	Sprite     string
	Terminated bool

	mask      *common.Mask
	spawnTick int
}

// Traveled is the distance covered since spawn, in level space.
func (b *Bullet) Traveled() float64 {
	return math.Abs(b.Rect.X - b.OriginX)
}

// Update advances the bullet by one tick. scroll is this tick's screen
// scroll and is applied to the origin as well so range is measured in level
// space.
func (b *Bullet) Update(w *World, scroll float64) {
	if b == nil || b.Terminated {
		return
	}
	b.Rect.X += scroll
	b.OriginX += scroll

	remaining := b.MaxRange - b.Traveled()
	if remaining <= 0 {
		b.Terminated = true
		return
	}
	step := math.Min(b.Speed, remaining)
	reached := b.Speed >= remaining
	b.Rect.X += float64(b.Direction) * step

	if w.bulletHitsObstacle(b) {
		b.Terminated = true
		return
	}
	if w.bulletHitsEntity(b) {
		b.Terminated = true
		return
	}
	if reached {
		b.Terminated = true
	}
}

// bulletHitsObstacle tests the bullet against obstacle rects, then tile masks.
// On a hit the bullet is clamped to the edge of the nearest tile along its
// direction of travel.
func (w *World) bulletHitsObstacle(b *Bullet) bool {
	var hit *Tile
	for _, t := range w.obstacles {
		if !t.Rect.Intersects(b.Rect) {
			continue
		}
		if t.Mask != nil {
			ox, oy := maskOffset(t.Rect, b.Rect)
			if !t.Mask.Overlap(b.mask, ox, oy) {
				continue
			}
		}
		if hit == nil || nearer(b.Direction, t.Rect, hit.Rect) {
			hit = t
		}
	}
	if hit == nil {
		return false
	}
	if b.Direction < 0 {
		b.Rect.X = hit.Rect.Right()
	} else {
		b.Rect.X = hit.Rect.Left() - b.Rect.Width
	}
	return true
}

// bulletHitsEntity takes candidates from the spatial grid, filters them by
// rect and then by sprite mask, and damages only the nearest confirmed hit.
func (w *World) bulletHitsEntity(b *Bullet) bool {
	var target Damageable
	for _, d := range w.spatial.query(b.Rect) {
		if d.Faction() == b.Faction || !d.Alive() {
			continue
		}
		r := d.Bounds()
		if !r.Intersects(b.Rect) {
			continue
		}
		ox, oy := maskOffset(r, b.Rect)
		if !d.HitMask().Overlap(b.mask, ox, oy) {
			continue
		}
		if target == nil || nearer(b.Direction, r, target.Bounds()) {
			target = d
		}
	}
	if target == nil {
		return false
	}
	w.hit(target, b.Damage, b.Faction)
	return true
}

// nearer reports whether a is reached before b when travelling in direction.
func nearer(direction int, a, b common.Rect) bool {
	if direction < 0 {
		return a.Right() > b.Right()
	}
	return a.Left() < b.Left()
}

// updateBullets advances every bullet and compacts the group in place.
func (w *World) updateBullets() {
	if len(w.bullets) == 0 {
		return
	}
	scroll := w.scroll.ScreenScroll
	for _, b := range w.bullets {
		// Bullets fired this tick spawn from an already scrolled muzzle.
		if b.spawnTick == w.ticks {
			b.Update(w, 0)
			continue
		}
		b.Update(w, scroll)
	}
	writeIdx := 0
	for _, b := range w.bullets {
		if b == nil || b.Terminated {
			continue
		}
		w.bullets[writeIdx] = b
		writeIdx++
	}
	clear(w.bullets[writeIdx:])
	w.bullets = w.bullets[:writeIdx]
}
