package obj

import (
	"math"

	"github.com/milk9111/rampage/common"
	"github.com/milk9111/rampage/prefabs"
)

// CollectibleKind is the closed set of pickup effects.
type CollectibleKind string

const (
	CollectAmmo   CollectibleKind = "ammo"
	CollectHealth CollectibleKind = "health"
	CollectWeapon CollectibleKind = "weapon"
	CollectFinish CollectibleKind = "finish"
)

const (
	defaultAmmoGrant   = 10
	defaultHealthGrant = 25
	defaultCrateWeapon = "ar_b4rb13"
)

// Collectible is a one-shot pickup placed on a level cell.
type Collectible struct {
	Name      string
	Kind      CollectibleKind
	Sprite    string
	Amount    int
	Weapon    string
	Rect      common.Rect
	InitialX  float64
	Collected bool
}

func newCollectible(spec prefabs.CollectibleSpec, col, row int, tileSize, sizeFactor float64) *Collectible {
	w := math.Round(spec.Size.Width * sizeFactor)
	h := math.Round(spec.Size.Height * sizeFactor)
	if w <= 0 || h <= 0 {
		w, h = tileSize, tileSize
	}
	c := &Collectible{
		Name:   spec.Name,
		Kind:   CollectibleKind(spec.Kind),
		Sprite: spec.Sprite,
		Amount: spec.Amount,
		Weapon: spec.Weapon,
		Rect:   common.NewRect(0, 0, w, h),
	}
	switch c.Kind {
	case CollectAmmo:
		if c.Amount <= 0 {
			c.Amount = defaultAmmoGrant
		}
	case CollectHealth:
		if c.Amount <= 0 {
			c.Amount = defaultHealthGrant
		}
	case CollectWeapon:
		if c.Weapon == "" {
			c.Weapon = defaultCrateWeapon
		}
	}
	placeOnCell(&c.Rect, col, row, tileSize)
	c.InitialX = c.Rect.X
	return c
}

// Collect applies the pickup to p once. Later calls are no-ops.
func (c *Collectible) Collect(p *Player, w *World) bool {
	if c == nil || c.Collected || p == nil {
		return false
	}
	switch c.Kind {
	case CollectAmmo:
		p.AddBullets(c.Amount)
	case CollectHealth:
		p.AddHealth(c.Amount)
	case CollectWeapon:
		wp, err := lookupWeapon(w.cfg.Weapons, c.Weapon, w.cfg.SizeFactor())
		if err != nil {
			w.log.Warn("weapon crate", "weapon", c.Weapon, "err", err)
			return false
		}
		p.SetWeapon(wp)
		p.Inventory.Items = append(p.Inventory.Items, c.Weapon)
	case CollectFinish:
		w.finished = true
		w.events.Push(Event{Type: EventLevelFinished, Source: w.name})
	default:
		return false
	}
	c.Collected = true
	w.events.Push(Event{Type: EventCollected, Source: c.Name, Amount: c.Amount})
	w.log.Debug("collected", "name", c.Name, "kind", c.Kind)
	return true
}

// updateCollectibles moves pickups with the camera, lets the player touch
// them and drops the consumed ones.
func (w *World) updateCollectibles() {
	for _, c := range w.collectibles {
		c.Rect.X = c.InitialX - w.scroll.BackgroundScroll
	}
	w.player.CheckCollectibles(w)

	writeIdx := 0
	for _, c := range w.collectibles {
		if c.Collected {
			continue
		}
		w.collectibles[writeIdx] = c
		writeIdx++
	}
	clear(w.collectibles[writeIdx:])
	w.collectibles = w.collectibles[:writeIdx]
}
