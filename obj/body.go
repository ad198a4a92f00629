package obj

import (
	"math"

	"github.com/milk9111/rampage/common"
)

// Faction decides who projectiles may hit.
type Faction int

const (
	FactionNone Faction = iota
	FactionPlayer
	FactionEnemy
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	default:
		return "none"
	}
}

// Kinematic is implemented by anything moved by gravity and tile collision.
type Kinematic interface {
	Kinematics() *Body
}

// Damageable is implemented by anything projectiles and attacks can hurt.
type Damageable interface {
	Bounds() common.Rect
	Faction() Faction
	Alive() bool
	HitMask() *common.Mask
	TakeDamage(amount int, from Faction) bool
}

// AIControlled is implemented by entities that choose their own movement.
type AIControlled interface {
	Think(w *World) (left, right bool)
}

// Armed is implemented by entities holding a weapon.
type Armed interface {
	Armament() *Weapon
}

// physics holds the per-world constants the kinematic step needs.
type physics struct {
	gravity   float64
	terminal  float64
	deathLine float64
}

// Body is the kinematic state shared by the player and enemies. Hitbox is a
// narrower rect kept bottom-aligned and horizontally centered on Rect.
type Body struct {
	Rect       common.Rect
	Hitbox     common.Rect
	VelY       float64
	InAir      bool
	Jumping    bool
	Direction  int
	Speed      float64
	SizeFactor float64
	Health     *Health
}

func newBody(w, h, hitW, hitH, speed, sizeFactor float64, health *Health) Body {
	w = math.Round(w)
	h = math.Round(h)
	if hitW <= 0 || hitW > w {
		hitW = w
	}
	if hitH <= 0 || hitH > h {
		hitH = h
	}
	b := Body{
		Rect:       common.NewRect(0, 0, w, h),
		Hitbox:     common.NewRect(0, 0, math.Round(hitW), math.Round(hitH)),
		Direction:  1,
		Speed:      speed * sizeFactor,
		SizeFactor: sizeFactor,
		Health:     health,
	}
	b.updateHitbox()
	return b
}

func (b *Body) Kinematics() *Body { return b }

func (b *Body) Alive() bool {
	return b != nil && b.Health.Alive()
}

// HeadY is the height used for line of sight.
func (b *Body) HeadY() float64 {
	return headY(b.Rect)
}

func headY(r common.Rect) float64 {
	return r.Y + r.Height/4
}

func (b *Body) updateHitbox() {
	b.Hitbox.SetBottom(b.Rect.Bottom())
	b.Hitbox.SetCenterX(b.Rect.CenterX())
}

// jump launches the body if it is standing.
func (b *Body) jump(velocity float64) bool {
	if b.Jumping || b.InAir {
		return false
	}
	b.VelY = velocity * b.SizeFactor
	b.Jumping = true
	b.InAir = true
	return true
}

// step integrates gravity, resolves (dx, dy) against the obstacles and
// commits the result. It returns the displacement actually applied.
func (b *Body) step(dx float64, obstacles []*Tile, ph physics) (float64, float64) {
	if !b.Alive() {
		b.Speed = 0
		return 0, 0
	}
	b.VelY += ph.gravity * b.SizeFactor
	if ph.terminal > 0 {
		b.VelY = math.Min(b.VelY, ph.terminal*b.SizeFactor)
	}
	dx, dy := b.collide(dx, b.VelY, obstacles)
	if dy != 0 {
		b.InAir = true
	}
	b.commit(dx, dy)
	if b.Rect.Top() > ph.deathLine {
		b.Health.Kill()
		b.Speed = 0
	}
	return dx, dy
}

// collide tests each axis separately against every obstacle. A horizontal
// hit cancels dx entirely; a vertical hit snaps the hitbox to the tile edge.
// The last intersecting tile wins.
func (b *Body) collide(dx, dy float64, obstacles []*Tile) (float64, float64) {
	for _, t := range obstacles {
		if t.Rect.Intersects(b.Hitbox.Translate(dx, 0)) {
			dx = 0
		}
		if t.Rect.Intersects(b.Hitbox.Translate(0, dy+1)) {
			if b.VelY < 0 {
				b.VelY = 0
				dy = t.Rect.Bottom() - b.Hitbox.Top()
			} else {
				b.VelY = 0
				b.InAir = false
				b.Jumping = false
				dy = t.Rect.Top() - b.Hitbox.Bottom()
			}
		}
	}
	return dx, dy
}

func (b *Body) commit(dx, dy float64) {
	b.Rect.X += dx
	b.Rect.Y += dy
	b.Rect.Round()
	b.updateHitbox()
}

// shift moves the body horizontally without collision, used for scrolling.
func (b *Body) shift(dx float64) {
	if dx == 0 {
		return
	}
	b.Rect.X += dx
	b.updateHitbox()
}

// predictCollides reports whether the hitbox moved by (dx, dy) would overlap
// an obstacle.
func (b *Body) predictCollides(dx, dy float64, obstacles []*Tile) bool {
	next := b.Hitbox.Translate(dx, dy)
	for _, t := range obstacles {
		if t.Rect.Intersects(next) {
			return true
		}
	}
	return false
}

// predictVoid reports whether there is no ground within five hitbox heights
// below the next position.
func (b *Body) predictVoid(dx, dy float64, obstacles []*Tile, ph physics) bool {
	probe := b.Hitbox.Translate(dx, dy+b.VelY+ph.gravity*b.SizeFactor)
	probe.Height *= 5
	for _, t := range obstacles {
		if t.Rect.Intersects(probe) {
			return false
		}
	}
	return true
}

// maskOffset is the position of r relative to the owner rect, in whole pixels.
func maskOffset(owner, r common.Rect) (int, int) {
	return int(math.Round(r.X - owner.X)), int(math.Round(r.Y - owner.Y))
}
