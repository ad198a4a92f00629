package obj

import (
	"github.com/milk9111/rampage/common"
	"github.com/milk9111/rampage/prefabs"
)

// AnimState is the presentation state exposed to renderers.
type AnimState string

const (
	AnimIdle  AnimState = "idle"
	AnimRun   AnimState = "run"
	AnimJump  AnimState = "jump"
	AnimDeath AnimState = "death"
)

// Inventory is what the player carries between lives and levels.
type Inventory struct {
	Bullets int
	Items   []string
}

// Progress is carried explicitly through respawns and level transitions.
type Progress struct {
	Kills     int
	Inventory Inventory
	Weapon    string
}

// NewProgress is the progress of a fresh run.
func NewProgress(cfg Config) Progress {
	return Progress{
		Inventory: Inventory{Bullets: cfg.Player.StartingBullets},
		Weapon:    cfg.Player.Weapon,
	}
}

// Player is the input-driven entity.
type Player struct {
	Body
	Weapon    *Weapon
	Inventory Inventory
	Running   bool
	Anim      AnimState
	Sprite    string

	jumpVelocity float64
	trigger      trigger
	mask         *common.Mask
	maskLeft     *common.Mask
}

var (
	_ Kinematic  = (*Player)(nil)
	_ Damageable = (*Player)(nil)
	_ Armed      = (*Player)(nil)
)

func newPlayer(spec prefabs.PlayerSpec, sizeFactor float64) *Player {
	return &Player{
		Body: newBody(
			spec.Width*sizeFactor, spec.Height*sizeFactor,
			spec.Hitbox.Width*sizeFactor, spec.Hitbox.Height*sizeFactor,
			spec.Speed, sizeFactor, NewHealth(spec.Health),
		),
		Anim:         AnimIdle,
		Sprite:       spec.Sprite,
		jumpVelocity: spec.JumpVelocity,
	}
}

// Move applies one tick of input: horizontal intent, jump, gravity and tile
// collision. It then updates the camera scroll and re-tracks the weapon.
func (p *Player) Move(w *World, in Input) {
	if p == nil || w == nil {
		return
	}
	dx := 0.0
	p.Running = false

	if p.Alive() {
		if in.MoveLeft {
			dx -= p.Speed
		}
		if in.MoveRight {
			dx += p.Speed
		}
		if in.MoveLeft != in.MoveRight {
			p.Running = true
			if in.MoveLeft {
				p.Direction = -1
			} else {
				p.Direction = 1
			}
		}
		if in.Jump {
			p.jump(p.jumpVelocity)
		}
	}

	dx, _ = p.step(dx, w.obstacles, w.physics())
	w.scroll.Update(p, dx, w.levelLength, w.screenWidth())
	p.Weapon.Track(p.Rect, p.Direction)
}

// Fire shoots the held weapon when the trigger is pressed, the cooldown
// has elapsed and there is enough ammo. An empty magazine is a silent no-op.
func (p *Player) Fire(w *World, in Input) {
	if p == nil || w == nil || !in.Fire || !p.Alive() || p.Weapon == nil {
		return
	}
	now := w.deps.Clock.Now()
	if !p.trigger.ready(now, p.Weapon.Cooldown) {
		return
	}
	if p.Inventory.Bullets <= 0 || p.Inventory.Bullets < p.Weapon.BulletsPerShot {
		return
	}
	p.trigger.pull(now)
	b := p.Weapon.Shoot(&p.Inventory.Bullets, p.Direction, FactionPlayer)
	w.addBullet(b)
	w.events.Push(Event{Type: EventShot, Source: p.Weapon.Name, Amount: p.Inventory.Bullets})
}

// Update settles health, animation state and weapon position after the
// groups have run.
func (p *Player) Update() {
	if p == nil {
		return
	}
	switch {
	case !p.Alive():
		p.Speed = 0
		p.Running = false
		p.Anim = AnimDeath
	case p.InAir:
		p.Anim = AnimJump
	case p.Running:
		p.Anim = AnimRun
	default:
		p.Anim = AnimIdle
	}
	p.Weapon.Track(p.Rect, p.Direction)
}

// AddHealth heals the player, clamped to max health.
func (p *Player) AddHealth(amount int) {
	if p == nil {
		return
	}
	p.Health.Heal(amount)
}

// AddBullets grants ammo. Negative grants never push the count below zero.
func (p *Player) AddBullets(amount int) {
	if p == nil {
		return
	}
	p.Inventory.Bullets = max(p.Inventory.Bullets+amount, 0)
}

// SetWeapon swaps the held weapon.
func (p *Player) SetWeapon(wp *Weapon) {
	if p == nil || wp == nil {
		return
	}
	p.Weapon = wp
	p.trigger = trigger{}
	p.Weapon.Track(p.Rect, p.Direction)
}

// CheckCollectibles triggers every live collectible the player overlaps.
func (p *Player) CheckCollectibles(w *World) {
	if p == nil || w == nil || !p.Alive() {
		return
	}
	for _, c := range w.collectibles {
		if c.Collected || !p.Rect.Intersects(c.Rect) {
			continue
		}
		c.Collect(p, w)
	}
}

func (p *Player) Armament() *Weapon    { return p.Weapon }
func (p *Player) Bounds() common.Rect  { return p.Rect }
func (p *Player) Faction() Faction     { return FactionPlayer }
func (p *Player) Bullets() int         { return p.Inventory.Bullets }
func (p *Player) HealthPoints() int    { return p.Health.Current }
func (p *Player) MaxHealthPoints() int { return p.Health.Max }

// HitMask is the sprite mask for the current facing.
func (p *Player) HitMask() *common.Mask {
	if p.Direction < 0 && p.maskLeft != nil {
		return p.maskLeft
	}
	return p.mask
}

// TakeDamage applies damage from another faction.
func (p *Player) TakeDamage(amount int, from Faction) bool {
	if p == nil || from == FactionPlayer {
		return false
	}
	if !p.Health.Damage(amount) {
		return false
	}
	if !p.Alive() {
		p.Speed = 0
	}
	return true
}

// progress snapshots what carries over to the next life.
func (p *Player) progress(kills int) Progress {
	pr := Progress{Kills: kills}
	if p == nil {
		return pr
	}
	pr.Inventory = Inventory{
		Bullets: p.Inventory.Bullets,
		Items:   append([]string(nil), p.Inventory.Items...),
	}
	if p.Weapon != nil {
		pr.Weapon = p.Weapon.Name
	}
	return pr
}
