package obj

import (
	"fmt"
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/rampage/common"
	"github.com/milk9111/rampage/prefabs"
)

// Archetype behaviors understood by the enemy AI.
const (
	BehaviorStatic      = "static"
	BehaviorIntelligent = "intelligent"
	BehaviorMelee       = "melee"
)

// meleeAttack is an archetype's attack block with timings resolved.
type meleeAttack struct {
	damage   int
	cooldown time.Duration
	windup   time.Duration
	width    float64
	height   float64
	offsetY  float64
	reach    float64
}

// Enemy is an AI-driven entity spawned from an archetype marker tile.
type Enemy struct {
	Body
	Name     string
	Sprite   string
	Behavior string
	Weapon   *Weapon

	state enemyState

	origin         float64
	patrolDistance float64
	patrolDelay    time.Duration
	patrolKeep     int
	patrolRoll     trigger
	sight          float64
	pursuitGap     float64
	jumpVelocity   float64

	attack      *meleeAttack
	attackTimer trigger
	attackStart time.Duration
	attacking   bool
	struck      bool

	fireDelay   time.Duration
	fireTrigger trigger

	diedAt       time.Duration
	lastHitBy    Faction
	acknowledged bool

	mask     *common.Mask
	maskLeft *common.Mask
}

var (
	_ Kinematic    = (*Enemy)(nil)
	_ Damageable   = (*Enemy)(nil)
	_ AIControlled = (*Enemy)(nil)
	_ Armed        = (*Enemy)(nil)
)

func newEnemy(spec prefabs.EnemySpec, weapons prefabs.WeaponsSpec, sizeFactor float64) (*Enemy, error) {
	scale := spec.Scale
	if scale <= 0 {
		scale = 1
	}
	k := scale * sizeFactor
	e := &Enemy{
		Body: newBody(
			spec.Width*k, spec.Height*k,
			spec.Hitbox.Width*k, spec.Hitbox.Height*k,
			spec.Speed, sizeFactor, NewHealth(spec.Health),
		),
		Name:           spec.Name,
		Sprite:         spec.Sprite,
		Behavior:       spec.Behavior,
		state:          stateEnemyIdle,
		patrolDistance: spec.PatrolDistance * sizeFactor,
		patrolDelay:    time.Duration(spec.PatrolDelayMS) * time.Millisecond,
		patrolKeep:     max(spec.PatrolKeep, 0),
		sight:          spec.Sight * sizeFactor,
		pursuitGap:     spec.PursuitGap * sizeFactor,
		jumpVelocity:   spec.JumpVelocity,
		fireDelay:      time.Duration(spec.FireMS) * time.Millisecond,
	}
	if e.Behavior == "" {
		e.Behavior = BehaviorStatic
	}
	if a := spec.Attack; a != nil && e.Behavior == BehaviorMelee {
		e.attack = &meleeAttack{
			damage:   a.Damage,
			cooldown: time.Duration(a.CooldownMS) * time.Millisecond,
			windup:   time.Duration(a.WindupMS) * time.Millisecond,
			width:    a.Width,
			height:   a.Height,
			offsetY:  a.OffsetY,
			reach:    a.Reach,
		}
	}
	if spec.Weapon != "" {
		wp, err := lookupWeapon(weapons, spec.Weapon, k)
		if err != nil {
			return nil, fmt.Errorf("enemy %s: %w", spec.Name, err)
		}
		e.Weapon = wp
	}
	return e, nil
}

// State is the name of the current AI state.
func (e *Enemy) State() string {
	if e == nil || e.state == nil {
		return ""
	}
	return e.state.Name()
}

// Origin is the screen x the patrol band is centered on.
func (e *Enemy) Origin() float64 { return e.origin }

// PatrolBand returns the range Rect.X is kept in while patrolling.
func (e *Enemy) PatrolBand() (float64, float64) {
	return e.origin - e.patrolDistance, e.origin + e.patrolDistance
}

// Attacking reports whether an attack is winding up.
func (e *Enemy) Attacking() bool { return e.attacking }

func (e *Enemy) setState(w *World, s enemyState) {
	if e.state == s {
		return
	}
	if e.state != nil {
		e.state.Exit(e, w)
	}
	prev := e.State()
	e.state = s
	s.Enter(e, w)
	w.log.Debug("enemy state", "enemy", e.Name, "from", prev, "to", s.Name())
}

// Think runs the current state and returns the movement intent.
func (e *Enemy) Think(w *World) (left, right bool) {
	if e.state == nil {
		e.state = stateEnemyIdle
	}
	return e.state.Update(e, w)
}

// update advances the enemy by one tick: camera shift, AI, jump prediction
// and kinematics.
func (e *Enemy) update(w *World) {
	e.shift(w.scroll.ScreenScroll)
	e.origin += w.scroll.ScreenScroll

	if !e.Alive() {
		e.setState(w, stateEnemyDead)
		e.Weapon.Track(e.Rect, e.Direction)
		return
	}

	left, right := e.Think(w)
	dx := 0.0
	if left != right {
		if left {
			dx = -e.Speed
			e.Direction = -1
		} else {
			dx = e.Speed
			e.Direction = 1
		}
	}

	ph := w.physics()
	if dx != 0 && !e.Jumping && !e.InAir {
		if e.predictCollides(dx, 0, w.obstacles) || e.predictVoid(dx, 0, w.obstacles, ph) {
			e.jump(e.jumpVelocity)
		}
	}
	e.step(dx, w.obstacles, ph)
	if !e.Alive() {
		e.setState(w, stateEnemyDead)
	}
	e.Weapon.Track(e.Rect, e.Direction)
}

// canSeePlayer is true when the player is within sight radius and the
// head-to-head segment crosses no obstacle.
func (e *Enemy) canSeePlayer(w *World) bool {
	if !w.view.alive || e.sight <= 0 {
		return false
	}
	p := w.view.rect
	a := cp.Vector{X: e.Rect.X, Y: e.Rect.Y}
	if a.Distance(cp.Vector{X: p.X, Y: p.Y}) > e.sight {
		return false
	}
	from := cp.Vector{X: e.Rect.CenterX(), Y: headY(e.Rect)}
	to := cp.Vector{X: p.CenterX(), Y: headY(p)}
	for _, t := range w.obstacles {
		if tileBB(t.Rect).IntersectsSegment(from, to) {
			return false
		}
	}
	return true
}

func tileBB(r common.Rect) cp.BB {
	return cp.BB{L: r.Left(), B: r.Top(), R: r.Right(), T: r.Bottom()}
}

// attackRect is the melee reach in front of the enemy.
func (e *Enemy) attackRect() common.Rect {
	if e.attack == nil {
		return common.Rect{}
	}
	a := e.attack
	w := a.width * e.Rect.Width
	h := a.height * e.Rect.Height
	reach := a.reach * e.Rect.Width
	x := e.Rect.Right() - reach
	if e.Direction < 0 {
		x = e.Rect.Left() - w + reach
	}
	return common.NewRect(x, e.Rect.Y+a.offsetY*e.Rect.Height, w, h)
}

func (e *Enemy) playerInAttackRange(w *World) bool {
	if e.attack == nil || !w.view.alive {
		return false
	}
	return e.attackRect().Intersects(w.view.rect)
}

func (e *Enemy) facePlayer(w *World) {
	if w.view.rect.CenterX() < e.Rect.CenterX() {
		e.Direction = -1
	} else {
		e.Direction = 1
	}
}

// patrol keeps the enemy oscillating inside its band. The direction is
// re-rolled every patrol delay and flipped whenever the next step would
// leave the band.
func (e *Enemy) patrol(w *World) (bool, bool) {
	if e.Speed <= 0 || e.patrolDistance <= 0 {
		return false, false
	}
	now := w.deps.Clock.Now()
	lo, hi := e.PatrolBand()
	switch {
	case e.Rect.X < lo:
		e.Direction = 1
	case e.Rect.X > hi:
		e.Direction = -1
	case e.patrolRoll.ready(now, e.patrolDelay):
		e.patrolRoll.pull(now)
		if w.deps.Rand.Intn(e.patrolKeep+1) == 0 {
			e.Direction = -e.Direction
		}
	}

	inBand := func(x float64) bool { return x >= lo && x <= hi }
	next := math.Round(e.Rect.X + float64(e.Direction)*e.Speed)
	if !inBand(next) && inBand(e.Rect.X) {
		e.Direction = -e.Direction
		next = math.Round(e.Rect.X + float64(e.Direction)*e.Speed)
		if !inBand(next) {
			return false, false
		}
	}
	return e.Direction < 0, e.Direction > 0
}

// pursue closes in on the player, stopping a small gap short.
func (e *Enemy) pursue(w *World) (bool, bool) {
	p := w.view.rect
	right := p.X > e.Rect.Right()+e.pursuitGap
	left := p.Right() < e.Rect.X-e.pursuitGap
	return left, right
}

// fireAt shoots the enemy's weapon toward the player when it is loaded.
func (e *Enemy) fireAt(w *World) {
	if e.Weapon == nil || e.fireDelay <= 0 {
		return
	}
	now := w.deps.Clock.Now()
	if !e.fireTrigger.ready(now, e.fireDelay) {
		return
	}
	e.fireTrigger.pull(now)
	e.facePlayer(w)
	e.Weapon.Track(e.Rect, e.Direction)
	w.addBullet(e.Weapon.Shoot(nil, e.Direction, FactionEnemy))
	w.events.Push(Event{Type: EventShot, Source: e.Name})
}

// corpseExpired reports whether a dead enemy has lingered long enough.
func (e *Enemy) corpseExpired(now, corpse time.Duration) bool {
	return e.state == stateEnemyDead && now-e.diedAt >= corpse
}

func (e *Enemy) Armament() *Weapon   { return e.Weapon }
func (e *Enemy) Bounds() common.Rect { return e.Rect }
func (e *Enemy) Faction() Faction    { return FactionEnemy }

// HitMask is the sprite mask, mirrored when facing left.
func (e *Enemy) HitMask() *common.Mask {
	if e.Direction < 0 && e.maskLeft != nil {
		return e.maskLeft
	}
	return e.mask
}

// TakeDamage applies damage from another faction and remembers the source.
func (e *Enemy) TakeDamage(amount int, from Faction) bool {
	if e == nil || from == FactionEnemy {
		return false
	}
	if !e.Health.Damage(amount) {
		return false
	}
	e.lastHitBy = from
	if !e.Alive() {
		e.Speed = 0
	}
	return true
}
