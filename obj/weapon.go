package obj

import (
	"fmt"
	"math"
	"time"

	"github.com/milk9111/rampage/common"
	"github.com/milk9111/rampage/prefabs"
)

// Weapon is held by an entity and repositioned every tick to its grip
// point. Offsets are indexed by facing: 0 right, 1 left.
type Weapon struct {
	Name           string
	Sprite         string
	Rect           common.Rect
	Grip           [2]common.Vec
	Muzzle         [2]common.Vec
	BulletsPerShot int
	BulletSpeed    float64
	BulletSize     common.Vec
	Range          float64
	Damage         int
	Cooldown       time.Duration
}

func newWeapon(spec prefabs.WeaponSpec, sizeFactor float64) *Weapon {
	scale := func(o prefabs.Offset) common.Vec {
		return common.Vec{X: o.X * sizeFactor, Y: o.Y * sizeFactor}
	}
	return &Weapon{
		Name:           spec.Name,
		Sprite:         spec.Sprite,
		Rect:           common.NewRect(0, 0, math.Round(spec.Width*sizeFactor), math.Round(spec.Height*sizeFactor)),
		Grip:           [2]common.Vec{scale(spec.Grip[0]), scale(spec.Grip[1])},
		Muzzle:         [2]common.Vec{scale(spec.Muzzle[0]), scale(spec.Muzzle[1])},
		BulletsPerShot: max(spec.BulletsPerShot, 0),
		BulletSpeed:    spec.BulletSpeed * sizeFactor,
		BulletSize:     common.Vec{X: math.Max(1, math.Round(spec.BulletSize.Width*sizeFactor)), Y: math.Max(1, math.Round(spec.BulletSize.Height*sizeFactor))},
		Range:          spec.Range * sizeFactor,
		Damage:         spec.Damage,
		Cooldown:       time.Duration(spec.CooldownMS) * time.Millisecond,
	}
}

// lookupWeapon builds the named weapon from the weapon specs.
func lookupWeapon(specs prefabs.WeaponsSpec, name string, sizeFactor float64) (*Weapon, error) {
	spec, ok := specs.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
	}
	return newWeapon(spec, sizeFactor), nil
}

func facingIndex(direction int) int {
	if direction < 0 {
		return 1
	}
	return 0
}

// Track moves the weapon to the holder's grip point.
func (wp *Weapon) Track(holder common.Rect, direction int) {
	if wp == nil {
		return
	}
	g := wp.Grip[facingIndex(direction)]
	wp.Rect.X = holder.X + g.X
	wp.Rect.Y = holder.Y + g.Y
}

// MuzzlePoint returns where bullets leave the weapon.
func (wp *Weapon) MuzzlePoint(direction int) common.Vec {
	m := wp.Muzzle[facingIndex(direction)]
	return common.Vec{X: wp.Rect.X + m.X, Y: wp.Rect.Y + m.Y}
}

// Shoot consumes BulletsPerShot from ammo, never below zero, and spawns
// exactly one bullet. Holders check ammo before calling. A nil ammo pointer
// means unlimited.
func (wp *Weapon) Shoot(ammo *int, direction int, faction Faction) *Bullet {
	if wp == nil {
		return nil
	}
	if ammo != nil {
		*ammo = max(*ammo-wp.BulletsPerShot, 0)
	}
	if direction == 0 {
		direction = 1
	}
	muzzle := wp.MuzzlePoint(direction)
	r := common.NewRect(0, 0, wp.BulletSize.X, wp.BulletSize.Y)
	r.Y = muzzle.Y - r.Height/2
	if direction < 0 {
		r.X = muzzle.X - r.Width
	} else {
		r.X = muzzle.X
	}
	return &Bullet{
		Rect:      r,
		Direction: direction,
		Speed:     wp.BulletSpeed,
		MaxRange:  wp.Range,
		Damage:    wp.Damage,
		OriginX:   r.X,
		Faction:   faction,
		Sprite:    bulletSprite(wp.Name),
	}
}

// trigger gates firing on the weapon cooldown.
type trigger struct {
	last  time.Duration
	fired bool
}

func (t *trigger) ready(now, cooldown time.Duration) bool {
	return !t.fired || now-t.last >= cooldown
}

func (t *trigger) pull(now time.Duration) {
	t.last = now
	t.fired = true
}
