package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkUntilEmpty(t *testing.T, h *harness) {
	t.Helper()
	for range 30 {
		if len(h.w.Collectibles()) == 0 {
			return
		}
		h.tick(Input{MoveRight: true})
	}
	require.Empty(t, h.w.Collectibles())
}

func TestAmmoBoxGrant(t *testing.T) {
	cfg := testConfig(t)
	progress := NewProgress(cfg)
	progress.Inventory.Bullets = 5
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13), tile("ammo_box", 4, 13)), progress)
	p := h.w.Player()
	c := h.w.Collectibles()[0]
	require.Equal(t, CollectAmmo, c.Kind)
	require.Equal(t, 10, c.Amount)

	walkUntilEmpty(t, h)
	assert.Equal(t, 15, p.Inventory.Bullets)
	assert.Equal(t, 15, h.w.Bullets())
	assert.True(t, c.Collected)

	assert.False(t, c.Collect(p, h.w))
	h.tick(Input{})
	assert.Equal(t, 15, p.Inventory.Bullets)

	events := h.w.Events()
	assert.Equal(t, 1, countEvents(events, EventCollected))
}

func TestHealthBoxClampsToMax(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13), tile("health_box", 4, 13)), NewProgress(cfg))
	p := h.w.Player()
	p.Health.Set(90)

	walkUntilEmpty(t, h)
	assert.Equal(t, 100, p.Health.Current)
}

func TestHealthBoxHeals(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13), tile("health_box", 4, 13)), NewProgress(cfg))
	p := h.w.Player()
	p.Health.Set(50)

	walkUntilEmpty(t, h)
	assert.Equal(t, 75, p.Health.Current)
}

func TestWeaponCrateSwapsWeapon(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13), tile("weapon_crate", 4, 13)), NewProgress(cfg))
	p := h.w.Player()

	walkUntilEmpty(t, h)
	assert.Equal(t, "ar_b4rb13", p.Weapon.Name)
	assert.Equal(t, []string{"ar_b4rb13"}, p.Inventory.Items)
	assert.Equal(t, "ar_b4rb13", h.w.Progress().Weapon)

	h.tick(Input{Fire: true})
	require.Len(t, h.w.Projectiles(), 1)
	assert.Equal(t, 20, h.w.Projectiles()[0].Damage)
}

func TestFinishFlagEndsLevel(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13), tile("finish_flag", 4, 13)), NewProgress(cfg))
	assert.False(t, h.w.LevelFinished())

	var events []Event
	for range 30 {
		h.tick(Input{MoveRight: true})
		events = append(events, h.w.Events()...)
		if h.w.LevelFinished() {
			break
		}
	}
	assert.True(t, h.w.LevelFinished())
	assert.Equal(t, 1, countEvents(events, EventLevelFinished))
}

func TestCollectiblesScrollWithWorld(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(60, 0, 60, tile("player_spawn", 28, 13), tile("ammo_box", 50, 13)), NewProgress(cfg))
	c := h.w.Collectibles()[0]
	x := c.Rect.X

	h.run(Input{MoveRight: true}, 4)
	assert.Equal(t, x-20, c.Rect.X)
	assert.Equal(t, c.InitialX-h.w.Scroll().BackgroundScroll, c.Rect.X)
}

func TestDeadPlayerCollectsNothing(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13), tile("ammo_box", 3, 12)), NewProgress(cfg))
	p := h.w.Player()
	p.Health.Kill()

	h.run(Input{}, 3)
	assert.Len(t, h.w.Collectibles(), 1)
	assert.Equal(t, cfg.Player.StartingBullets, p.Inventory.Bullets)
}

func TestNewCollectibleDefaults(t *testing.T) {
	cfg := testConfig(t)
	spec, ok := cfg.Collectibles.ByTile("ammo_box")
	require.True(t, ok)
	spec.Amount = 0
	c := newCollectible(spec, 2, 3, 40, 1)
	assert.Equal(t, 10, c.Amount)
	assert.Equal(t, 160.0, c.Rect.Bottom())
	assert.Equal(t, 100.0, c.Rect.CenterX())
	assert.Equal(t, c.Rect.X, c.InitialX)

	crate, ok := cfg.Collectibles.ByTile("weapon_crate")
	require.True(t, ok)
	crate.Weapon = ""
	assert.Equal(t, "ar_b4rb13", newCollectible(crate, 0, 0, 40, 1).Weapon)
}
