package obj

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/rampage/assets"
	"github.com/milk9111/rampage/levels"
)

const groundRow = 14

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 1.0, cfg.SizeFactor())
	return cfg
}

// testLevel builds a level of the given size with a grass floor on
// groundRow from column floorFrom up to floorTo (exclusive), plus extra tiles.
func testLevel(cols, floorFrom, floorTo int, extra ...levels.Tile) *levels.Level {
	lvl := &levels.Level{
		Name:       "test.json",
		Attributes: levels.Attributes{LevelSize: cols, LevelHeight: 16},
	}
	for c := floorFrom; c < floorTo; c++ {
		lvl.Tiles = append(lvl.Tiles, levels.Tile{Type: "grass_default", X: c, Y: groundRow})
	}
	lvl.Tiles = append(lvl.Tiles, extra...)
	return lvl
}

func tile(kind string, col, row int) levels.Tile {
	return levels.Tile{Type: kind, X: col, Y: row}
}

type harness struct {
	w     *World
	clock *ManualClock
}

func newHarness(t *testing.T, cfg Config, lvl *levels.Level, progress Progress) *harness {
	t.Helper()
	clock := &ManualClock{}
	w := NewWorld(cfg, Deps{
		Logger: log.New(io.Discard),
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(7)),
		Assets: assets.New(nil),
	})
	require.NoError(t, w.Load(lvl))
	_, err := w.ProcessData(progress)
	require.NoError(t, err)
	return &harness{w: w, clock: clock}
}

func (h *harness) tick(in Input) {
	h.clock.Advance(TickDuration(60))
	h.w.Tick(in)
}

func (h *harness) run(in Input, n int) {
	for range n {
		h.tick(in)
	}
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestProcessDataBuildsEntities(t *testing.T) {
	cfg := testConfig(t)
	lvl := testLevel(40, 0, 40,
		tile("player_spawn", 3, 13),
		tile("dummy", 10, 13),
		tile("ammo_box", 14, 13),
		tile("mystery_tile", 20, 5),
	)
	h := newHarness(t, cfg, lvl, NewProgress(cfg))

	p := h.w.Player()
	require.NotNil(t, p)
	assert.Equal(t, 125.0, p.Rect.X)
	assert.Equal(t, 500.0, p.Rect.Y)
	assert.Equal(t, 560.0, p.Hitbox.Bottom())
	assert.Equal(t, p.Rect.CenterX(), p.Hitbox.CenterX())
	assert.Equal(t, cfg.Player.StartingBullets, h.w.Bullets())
	assert.Equal(t, "pistol", p.Weapon.Name)

	assert.Len(t, h.w.Obstacles(), 40)
	assert.Len(t, h.w.Enemies(), 1)
	assert.Len(t, h.w.Collectibles(), 1)
	for _, o := range h.w.Obstacles() {
		assert.Equal(t, TileObstacle, o.Kind)
		assert.NotNil(t, o.Mask)
	}
}

func TestLoadRejectsMalformedLevel(t *testing.T) {
	cfg := testConfig(t)
	w := NewWorld(cfg, Deps{Logger: log.New(io.Discard)})
	err := w.Load(&levels.Level{Name: "bad", Attributes: levels.Attributes{LevelSize: 0, LevelHeight: 4}})
	require.ErrorIs(t, err, levels.ErrMalformed)

	_, err = w.ProcessData(NewProgress(cfg))
	require.ErrorIs(t, err, ErrNoLevel)
}

func TestProcessDataRequiresPlayerSpawn(t *testing.T) {
	cfg := testConfig(t)
	w := NewWorld(cfg, Deps{Logger: log.New(io.Discard)})
	require.NoError(t, w.Load(testLevel(10, 0, 10)))
	_, err := w.ProcessData(NewProgress(cfg))
	require.ErrorIs(t, err, ErrNoPlayerSpawn)
}

func TestProcessDataUnknownProgressWeapon(t *testing.T) {
	cfg := testConfig(t)
	w := NewWorld(cfg, Deps{Logger: log.New(io.Discard)})
	require.NoError(t, w.Load(testLevel(10, 0, 10, tile("player_spawn", 2, 13))))
	progress := NewProgress(cfg)
	progress.Weapon = "slingshot"
	_, err := w.ProcessData(progress)
	require.ErrorIs(t, err, ErrUnknownWeapon)
}

func TestEmbeddedLevelsRun(t *testing.T) {
	cfg := testConfig(t)
	names, err := levels.List()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := levels.LoadLevelFromFS(name)
			require.NoError(t, err)
			h := newHarness(t, cfg, lvl, NewProgress(cfg))
			h.run(Input{}, 120)

			p := h.w.Player()
			assert.True(t, p.Alive())
			assert.False(t, p.InAir)
			assert.Equal(t, 0.0, p.VelY)
			assert.Equal(t, 120, h.w.Ticks())
		})
	}
}

func TestGroundSnapIdempotent(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))
	p := h.w.Player()
	y := p.Rect.Y

	for i := range 200 {
		h.tick(Input{})
		require.Equal(t, 0.0, p.VelY, "tick %d", i)
		require.False(t, p.InAir, "tick %d", i)
		require.Equal(t, y, p.Rect.Y, "tick %d", i)
	}
}

func TestJumpArcReturnsToGround(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))
	p := h.w.Player()
	groundY := p.Rect.Y

	h.tick(Input{Jump: true})
	require.True(t, p.InAir)
	require.True(t, p.Jumping)
	assert.Equal(t, cfg.Player.JumpVelocity+cfg.World.Gravity, p.VelY)
	assert.Less(t, p.Rect.Y, groundY)
	assert.Equal(t, AnimJump, p.Anim)

	landed := false
	for range 120 {
		h.tick(Input{})
		if !p.InAir {
			landed = true
			break
		}
	}
	require.True(t, landed)
	assert.Equal(t, groundY, p.Rect.Y)
	assert.Equal(t, 0.0, p.VelY)
	assert.False(t, p.Jumping)
	assert.Equal(t, AnimIdle, p.Anim)
}

func TestJumpIgnoredWhileAirborne(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))
	p := h.w.Player()

	h.tick(Input{Jump: true})
	v := p.VelY
	h.tick(Input{Jump: true})
	assert.Equal(t, v+cfg.World.Gravity, p.VelY)
}

func TestLethalFall(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 0, tile("player_spawn", 3, 13)), NewProgress(cfg))
	p := h.w.Player()
	deathLine := h.w.DeathLine()
	assert.Equal(t, float64(cfg.World.Screen.Height), deathLine)

	crossed := false
	for range 300 {
		h.tick(Input{})
		if p.Rect.Top() > deathLine {
			crossed = true
			break
		}
		require.True(t, p.Alive())
	}
	require.True(t, crossed)
	assert.False(t, p.Alive())
	assert.Equal(t, 0, p.Health.Current)
	assert.Equal(t, AnimDeath, p.Anim)

	h.run(Input{}, 5)
	assert.Equal(t, 1, countEvents(h.w.Events(), EventPlayerDied))
}

func TestDeadPlayerCannotMove(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))
	p := h.w.Player()
	p.Health.Kill()

	rect := p.Rect
	h.run(Input{MoveRight: true, Jump: true, Fire: true}, 10)
	assert.Equal(t, rect, p.Rect)
	assert.Empty(t, h.w.Projectiles())
	assert.Equal(t, cfg.Player.StartingBullets, h.w.Bullets())
}

func TestRespawnKeepsProgress(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), Progress{
		Kills:     4,
		Inventory: Inventory{Bullets: 7, Items: []string{"ar_b4rb13"}},
		Weapon:    "ar_b4rb13",
	})
	first := h.w.Player()
	first.Health.Kill()
	h.tick(Input{})

	second, err := h.w.Respawn(h.w.Progress())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.True(t, second.Alive())
	assert.Equal(t, second.Health.Max, second.Health.Current)
	assert.Equal(t, 7, second.Inventory.Bullets)
	assert.Equal(t, []string{"ar_b4rb13"}, second.Inventory.Items)
	assert.Equal(t, "ar_b4rb13", second.Weapon.Name)
	assert.Equal(t, 4, h.w.Kills())
	assert.Equal(t, 0.0, h.w.Scroll().BackgroundScroll)
	assert.Zero(t, h.w.Elapsed())
}

func TestElapsedFollowsClock(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))
	h.clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, h.w.Elapsed())
}

func TestScrollMovesWorldNotPlayer(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(60, 0, 60, tile("player_spawn", 28, 13)), NewProgress(cfg))
	p := h.w.Player()
	x := p.Rect.X
	tileX := h.w.Obstacles()[0].Rect.X

	h.tick(Input{MoveRight: true})
	assert.Equal(t, x, p.Rect.X)
	assert.Equal(t, -5.0, h.w.Scroll().ScreenScroll)
	assert.Equal(t, 5.0, h.w.Scroll().BackgroundScroll)
	assert.Equal(t, tileX-5, h.w.Obstacles()[0].Rect.X)

	h.tick(Input{})
	assert.Equal(t, 0.0, h.w.Scroll().ScreenScroll)
	assert.Equal(t, 5.0, h.w.Scroll().BackgroundScroll)
}

func TestScrollClampsAtLevelEnd(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(60, 0, 60, tile("player_spawn", 28, 13)), NewProgress(cfg))
	s := h.w.Scroll()
	maxBG := s.MaxBackground(60, float64(cfg.World.Screen.Width))
	require.Equal(t, 1120.0, maxBG)

	for range 300 {
		h.tick(Input{MoveRight: true})
		require.LessOrEqual(t, s.BackgroundScroll, maxBG)
		require.GreaterOrEqual(t, s.BackgroundScroll, 0.0)
	}
	assert.Equal(t, maxBG, s.BackgroundScroll)
}

func TestScrollDoesNotPassLevelStart(t *testing.T) {
	cfg := testConfig(t)
	h := newHarness(t, cfg, testLevel(40, 0, 40, tile("player_spawn", 3, 13)), NewProgress(cfg))
	p := h.w.Player()
	x := p.Rect.X

	h.tick(Input{MoveLeft: true})
	assert.Equal(t, 0.0, h.w.Scroll().BackgroundScroll)
	assert.Equal(t, 0.0, h.w.Scroll().ScreenScroll)
	assert.Equal(t, x-5, p.Rect.X)
	assert.Equal(t, -1, p.Direction)
}
