package obj

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/rampage/common"
)

func TestFireSpawnsBulletAndSpendsAmmo(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))
	p := h.w.Player()

	h.tick(Input{Fire: true})
	require.Len(t, h.w.Projectiles(), 1)
	b := h.w.Projectiles()[0]
	assert.Equal(t, FactionPlayer, b.Faction)
	assert.Equal(t, 1, b.Direction)
	assert.Equal(t, cfg.Player.StartingBullets-1, p.Inventory.Bullets)
	assert.NotNil(t, b.mask)

	events := h.w.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventShot, events[0].Type)
	assert.Equal(t, "pistol", events[0].Source)
}

func TestFireRespectsCooldown(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))

	h.run(Input{Fire: true}, 10)
	assert.Equal(t, 1, countEvents(h.w.Events(), EventShot))

	h.clock.Advance(300 * time.Millisecond)
	h.tick(Input{Fire: true})
	assert.Equal(t, 1, countEvents(h.w.Events(), EventShot))
}

func TestFireWithoutAmmoIsSilent(t *testing.T) {
	cfg := testConfig(t)
	progress := NewProgress(cfg)
	progress.Inventory.Bullets = 0
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), progress)

	h.run(Input{Fire: true}, 5)
	assert.Empty(t, h.w.Projectiles())
	assert.Empty(t, h.w.Events())
	assert.Equal(t, 0, h.w.Bullets())
}

func TestWeaponShootClampsAmmo(t *testing.T) {
	cfg := testConfig(t)
	wp, err := lookupWeapon(cfg.Weapons, "pistol", 1)
	require.NoError(t, err)
	wp.BulletsPerShot = 3

	ammo := 2
	b := wp.Shoot(&ammo, -1, FactionPlayer)
	require.NotNil(t, b)
	assert.Equal(t, 0, ammo)
	assert.Equal(t, -1, b.Direction)
	assert.Equal(t, b.Rect.X, b.OriginX)

	b = wp.Shoot(nil, 1, FactionEnemy)
	require.NotNil(t, b)
	assert.Equal(t, FactionEnemy, b.Faction)

	_, err = lookupWeapon(cfg.Weapons, "bazooka", 1)
	assert.ErrorIs(t, err, ErrUnknownWeapon)
}

func TestWeaponTracksGripPerFacing(t *testing.T) {
	cfg := testConfig(t)
	wp, err := lookupWeapon(cfg.Weapons, "pistol", 1)
	require.NoError(t, err)
	holder := common.NewRect(100, 200, 30, 60)

	wp.Track(holder, 1)
	assert.Equal(t, 114.0, wp.Rect.X)
	assert.Equal(t, 228.0, wp.Rect.Y)
	assert.Equal(t, common.Vec{X: 138, Y: 230}, wp.MuzzlePoint(1))

	wp.Track(holder, -1)
	assert.Equal(t, 92.0, wp.Rect.X)
	assert.Equal(t, common.Vec{X: 92, Y: 230}, wp.MuzzlePoint(-1))

	left := wp.Shoot(nil, -1, FactionPlayer)
	assert.Equal(t, 92.0, left.Rect.Right())
	assert.Equal(t, 230.0, left.Rect.CenterY())

	wp.Track(holder, 1)
	right := wp.Shoot(nil, 1, FactionPlayer)
	assert.Equal(t, 138.0, right.Rect.X)
	assert.Equal(t, 230.0, right.Rect.CenterY())
}

func TestBulletFiredWhileScrolling(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(60, 0, 60, tile("player_spawn", 28, 13)), NewProgress(cfg))
	p := h.w.Player()

	h.tick(Input{MoveRight: true, Fire: true})
	require.Equal(t, -5.0, h.w.Scroll().ScreenScroll)
	require.Len(t, h.w.Projectiles(), 1)
	b := h.w.Projectiles()[0]
	muzzle := p.Weapon.MuzzlePoint(p.Direction)

	assert.Equal(t, muzzle.X, b.OriginX)
	assert.Equal(t, muzzle.X+b.Speed, b.Rect.X)
	assert.Equal(t, b.Speed, b.Traveled())

	h.tick(Input{MoveRight: true})
	require.Equal(t, -5.0, h.w.Scroll().ScreenScroll)
	require.False(t, b.Terminated)
	assert.Equal(t, muzzle.X-5, b.OriginX)
	assert.Equal(t, muzzle.X-5+2*b.Speed, b.Rect.X)
	assert.Equal(t, 2*b.Speed, b.Traveled())
}

func TestBulletRangeTermination(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))

	h.tick(Input{Fire: true})
	require.Len(t, h.w.Projectiles(), 1)
	b := h.w.Projectiles()[0]
	maxRange := b.MaxRange
	require.Equal(t, 600.0, maxRange)

	ticks := 1
	for !b.Terminated && ticks < 200 {
		require.Less(t, b.Traveled(), maxRange)
		h.tick(Input{})
		ticks++
		require.LessOrEqual(t, b.Traveled(), maxRange)
	}
	require.True(t, b.Terminated)
	assert.Equal(t, maxRange, b.Traveled())
	assert.Equal(t, 50, ticks)
	assert.Empty(t, h.w.Projectiles())
}

func TestBulletRangeMeasuredInLevelSpace(t *testing.T) {
	b := &Bullet{
		Rect:      common.NewRect(100, 0, 8, 4),
		Direction: 1,
		Speed:     10,
		MaxRange:  25,
		OriginX:   100,
		Faction:   FactionPlayer,
	}
	w := &World{spatial: newSpatialGrid(160)}

	b.Update(w, -5)
	assert.Equal(t, 105.0, b.Rect.X)
	assert.Equal(t, 10.0, b.Traveled())
	b.Update(w, -5)
	assert.Equal(t, 20.0, b.Traveled())
	assert.False(t, b.Terminated)
	b.Update(w, 0)
	assert.Equal(t, 25.0, b.Traveled())
	assert.True(t, b.Terminated)
}

func TestBulletStopsAtObstacle(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40,
		tile("player_spawn", 3, 13),
		tile("dirt_default", 8, 13),
		tile("dirt_default", 8, 12),
	), NewProgress(cfg))

	h.tick(Input{Fire: true})
	b := h.w.Projectiles()[0]
	for range 100 {
		if b.Terminated {
			break
		}
		h.tick(Input{})
	}
	require.True(t, b.Terminated)
	assert.Equal(t, 320.0, b.Rect.Right())
	assert.Less(t, b.Traveled(), b.MaxRange)
}

func placeOverlapping(t *testing.T, w *World) (*Enemy, *Enemy) {
	t.Helper()
	require.Len(t, w.Enemies(), 2)
	a, b := w.Enemies()[0], w.Enemies()[1]
	b.Rect.X = a.Rect.X + 4
	b.Rect.Y = a.Rect.Y
	b.updateHitbox()
	b.origin = b.Rect.X
	return a, b
}

func TestBulletSingleHitUsesMask(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40,
		tile("player_spawn", 3, 13),
		tile("dummy", 10, 13),
		tile("dummy", 11, 13),
	), NewProgress(cfg))
	ghost, solid := placeOverlapping(t, h.w)
	w, hh := ghost.mask.Size()
	ghost.mask = common.NewMask(w, hh)
	ghost.maskLeft = ghost.mask

	h.tick(Input{Fire: true})
	b := h.w.Projectiles()[0]
	for range 100 {
		if b.Terminated {
			break
		}
		h.tick(Input{})
	}
	require.True(t, b.Terminated)
	assert.Equal(t, 100, ghost.Health.Current)
	assert.Equal(t, 75, solid.Health.Current)
	assert.Equal(t, 1, countEvents(h.w.Events(), EventEnemyHit))
}

func TestBulletHitsNearestOnly(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40,
		tile("player_spawn", 3, 13),
		tile("dummy", 10, 13),
		tile("dummy", 11, 13),
	), NewProgress(cfg))
	near, far := placeOverlapping(t, h.w)

	h.tick(Input{Fire: true})
	b := h.w.Projectiles()[0]
	for range 100 {
		if b.Terminated {
			break
		}
		h.tick(Input{})
	}
	require.True(t, b.Terminated)
	assert.Equal(t, 75, near.Health.Current)
	assert.Equal(t, 100, far.Health.Current)
}

func TestPlayerKillsDummy(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40,
		tile("player_spawn", 3, 13),
		tile("dummy", 10, 13),
	), NewProgress(cfg))

	var events []Event
	for range 240 {
		h.tick(Input{Fire: true})
		events = append(events, h.w.Events()...)
	}
	assert.Equal(t, 1, h.w.Kills())
	assert.Equal(t, 1, countEvents(events, EventEnemyKilled))
	assert.Equal(t, 4, countEvents(events, EventEnemyHit))
	assert.Empty(t, h.w.Enemies(), "corpse should be swept")
	assert.Equal(t, 1, h.w.Progress().Kills)
}

func TestKillsIgnoreNonPlayerDeaths(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40,
		tile("player_spawn", 3, 13),
		tile("dummy", 10, 13),
	), NewProgress(cfg))
	e := h.w.Enemies()[0]

	h.w.hit(e, 1000, FactionNone)
	require.False(t, e.Alive())
	h.tick(Input{})
	assert.Equal(t, 0, h.w.Kills())
	assert.Equal(t, "dead", e.State())

	assert.False(t, e.TakeDamage(10, FactionEnemy))
}

func TestSpatialGridQuery(t *testing.T) {
	g := newSpatialGrid(100)
	cfg := testConfig(t)
	a, err := newEnemy(cfg.Enemies.Archetypes[0], cfg.Weapons, 1)
	require.NoError(t, err)
	b, err := newEnemy(cfg.Enemies.Archetypes[0], cfg.Weapons, 1)
	require.NoError(t, err)
	a.Rect.X = 10
	b.Rect.X = 390

	g.insert(a)
	g.insert(b)
	got := g.query(common.NewRect(0, 0, 50, 10))
	require.Len(t, got, 1)
	assert.Same(t, a, got[0])

	got = g.query(common.NewRect(0, 0, 400, 10))
	require.Len(t, got, 2)
	assert.Same(t, a, got[0])
	assert.Same(t, b, got[1])

	g.reset()
	assert.Empty(t, g.query(common.NewRect(0, 0, 400, 10)))
}
