package obj

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/milk9111/rampage/common"
	"github.com/milk9111/rampage/levels"
)

// playerView is the player state enemies reason about during a tick.
type playerView struct {
	rect  common.Rect
	alive bool
}

type maskKey struct {
	name string
	w, h int
}

// World owns every entity of the current level and advances them one tick
// at a time. It is not safe for concurrent use.
type World struct {
	cfg  Config
	deps Deps
	log  *log.Logger

	name        string
	level       *levels.Level
	grid        [][]string
	levelLength int
	levelHeight int
	classifier  tileClassifier

	obstacles    []*Tile
	enemies      []*Enemy
	bullets      []*Bullet
	collectibles []*Collectible
	player       *Player

	scroll  Scroll
	events  EventQueue
	spatial spatialGrid
	view    playerView
	masks   map[maskKey]*common.Mask

	kills        int
	finished     bool
	diedReported bool
	ticks        int
	started      time.Duration
}

// NewWorld creates an empty world. Load and ProcessData build a level into it.
func NewWorld(cfg Config, deps Deps) *World {
	deps = deps.withDefaults()
	w := &World{
		deps:  deps,
		log:   deps.Logger.With("component", "world"),
		masks: make(map[maskKey]*common.Mask),
	}
	w.SetConfig(cfg)
	return w
}

// SetConfig swaps the tuning specs. They take effect at the next
// ProcessData or Respawn.
func (w *World) SetConfig(cfg Config) {
	w.cfg = cfg
	w.classifier = newTileClassifier(cfg.Tiles)
	w.spatial = newSpatialGrid(cfg.World.SpatialCell)
	clear(w.masks)
}

// Load validates a level document and stores its grid.
func (w *World) Load(doc *levels.Level) error {
	if doc == nil {
		return ErrNoLevel
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("obj: load level %s: %w", doc.Name, err)
	}
	w.level = doc
	w.name = doc.Name
	w.grid = doc.Grid()
	w.levelLength = doc.Attributes.LevelSize
	w.levelHeight = doc.Attributes.LevelHeight
	w.log.Info("level loaded", "level", w.name, "columns", w.levelLength, "rows", w.levelHeight)
	return nil
}

// ProcessData builds tiles, enemies, collectibles and the player from the
// loaded grid and returns the live player.
func (w *World) ProcessData(progress Progress) (*Player, error) {
	if w.level == nil {
		return nil, ErrNoLevel
	}
	w.reset()
	w.kills = progress.Kills

	ts := w.cfg.World.TileSize
	sf := w.cfg.SizeFactor()
	var player *Player

	for row := 0; row < w.levelHeight; row++ {
		for col := 0; col < w.levelLength; col++ {
			name := w.grid[col][row]
			switch w.classifier.Classify(name) {
			case TileObstacle:
				t := &Tile{Kind: TileObstacle, Name: name, Rect: cellRect(col, row, ts), Col: col, Row: row}
				t.InitialX = t.Rect.X
				t.Mask = w.maskFor(name, ts, ts)
				w.obstacles = append(w.obstacles, t)
			case TileCollectible:
				spec, ok := w.cfg.Collectibles.ByTile(name)
				if !ok {
					w.log.Debug("collectible tile without spec", "tile", name, "col", col, "row", row)
					continue
				}
				w.collectibles = append(w.collectibles, newCollectible(spec, col, row, ts, sf))
			case TileSpawn:
				if name == w.cfg.Tiles.PlayerSpawn {
					p, err := w.spawnPlayer(progress, col, row)
					if err != nil {
						return nil, err
					}
					player = p
					continue
				}
				if err := w.spawnEnemy(name, col, row); err != nil {
					return nil, err
				}
			default:
				if name != levels.EmptyTile {
					w.log.Debug("unknown tile kind", "tile", name, "col", col, "row", row)
				}
			}
		}
	}
	if player == nil {
		return nil, fmt.Errorf("obj: level %s: %w", w.name, ErrNoPlayerSpawn)
	}
	w.player = player
	w.view = playerView{rect: player.Rect, alive: player.Alive()}
	w.started = w.deps.Clock.Now()
	w.log.Info("world built",
		"level", w.name,
		"obstacles", len(w.obstacles),
		"enemies", len(w.enemies),
		"collectibles", len(w.collectibles),
	)
	return player, nil
}

// Respawn rebuilds the current level from its document, keeping progress.
func (w *World) Respawn(progress Progress) (*Player, error) {
	w.log.Info("respawn", "level", w.name, "kills", progress.Kills, "bullets", progress.Inventory.Bullets)
	return w.ProcessData(progress)
}

func (w *World) reset() {
	clear(w.obstacles)
	clear(w.enemies)
	clear(w.bullets)
	clear(w.collectibles)
	w.obstacles = w.obstacles[:0]
	w.enemies = w.enemies[:0]
	w.bullets = w.bullets[:0]
	w.collectibles = w.collectibles[:0]
	w.player = nil
	w.view = playerView{}
	w.scroll = Scroll{
		Threshold: w.cfg.World.ScrollThreshold,
		TileSize:  w.cfg.World.TileSize,
		Parallax:  w.cfg.World.Parallax,
	}
	w.events.flush()
	w.spatial.reset()
	w.finished = false
	w.diedReported = false
	w.ticks = 0
}

func (w *World) spawnPlayer(progress Progress, col, row int) (*Player, error) {
	p := newPlayer(w.cfg.Player, w.cfg.SizeFactor())
	placeOnCell(&p.Rect, col, row, w.cfg.World.TileSize)
	p.updateHitbox()

	weapon := progress.Weapon
	if weapon == "" {
		weapon = w.cfg.Player.Weapon
	}
	wp, err := lookupWeapon(w.cfg.Weapons, weapon, w.cfg.SizeFactor())
	if err != nil {
		return nil, fmt.Errorf("obj: player: %w", err)
	}
	p.Weapon = wp
	p.Weapon.Track(p.Rect, p.Direction)
	p.Inventory = Inventory{
		Bullets: max(progress.Inventory.Bullets, 0),
		Items:   append([]string(nil), progress.Inventory.Items...),
	}
	p.mask = w.maskFor(p.Sprite, p.Rect.Width, p.Rect.Height)
	p.maskLeft = p.mask.FlipH()
	return p, nil
}

func (w *World) spawnEnemy(tile string, col, row int) error {
	spec, ok := w.cfg.Enemies.ByTile(tile)
	if !ok {
		w.log.Debug("spawn marker without archetype", "tile", tile, "col", col, "row", row)
		return nil
	}
	e, err := newEnemy(spec, w.cfg.Weapons, w.cfg.SizeFactor())
	if err != nil {
		return fmt.Errorf("obj: level %s: %w", w.name, err)
	}
	placeOnCell(&e.Rect, col, row, w.cfg.World.TileSize)
	e.updateHitbox()
	e.origin = e.Rect.X
	e.Weapon.Track(e.Rect, e.Direction)
	e.mask = w.maskFor(e.Sprite, e.Rect.Width, e.Rect.Height)
	e.maskLeft = e.mask.FlipH()
	w.enemies = append(w.enemies, e)
	return nil
}

// Tick advances the simulation by one frame: player movement, enemy AI,
// projectiles, collectibles and reconciliation, in that order.
func (w *World) Tick(in Input) {
	if w.player == nil {
		return
	}
	w.ticks++
	w.view = playerView{rect: w.player.Rect, alive: w.player.Alive()}

	w.player.Move(w, in)
	w.view.rect.X += w.scroll.ScreenScroll
	w.repositionTiles()
	w.player.Fire(w, in)

	w.UpdateGroups()
	w.player.Update()
	w.reconcile()
}

// UpdateGroups advances enemies, then projectiles, then collectibles, then
// removes what was marked during the pass.
func (w *World) UpdateGroups() {
	if w.player == nil {
		return
	}
	for _, e := range w.enemies {
		e.update(w)
	}

	w.spatial.reset()
	if w.player.Alive() {
		w.spatial.insert(w.player)
	}
	for _, e := range w.enemies {
		if e.Alive() {
			w.spatial.insert(e)
		}
	}

	w.updateBullets()
	w.updateCollectibles()
	w.sweep()
}

func (w *World) repositionTiles() {
	for _, t := range w.obstacles {
		t.Rect.X = t.InitialX - w.scroll.BackgroundScroll
	}
}

// sweep counts fresh kills once and drops corpses that have expired.
func (w *World) sweep() {
	now := w.deps.Clock.Now()
	corpse := time.Duration(w.cfg.World.CorpseMS) * time.Millisecond

	writeIdx := 0
	for _, e := range w.enemies {
		if !e.Alive() && !e.acknowledged {
			e.acknowledged = true
			if e.lastHitBy == FactionPlayer {
				w.kills++
				w.events.Push(Event{Type: EventEnemyKilled, Source: e.Name, Amount: w.kills})
				w.log.Debug("enemy killed", "enemy", e.Name, "kills", w.kills)
			}
		}
		if e.corpseExpired(now, corpse) {
			continue
		}
		w.enemies[writeIdx] = e
		writeIdx++
	}
	clear(w.enemies[writeIdx:])
	w.enemies = w.enemies[:writeIdx]
}

func (w *World) reconcile() {
	if w.player.Alive() || w.diedReported {
		return
	}
	w.diedReported = true
	w.events.Push(Event{Type: EventPlayerDied, Source: w.name, Amount: w.kills})
	w.log.Info("player died", "level", w.name, "kills", w.kills, "ticks", w.ticks)
}

// hit applies damage and reports it on the event queue.
func (w *World) hit(target Damageable, damage int, from Faction) {
	if target == nil || !target.TakeDamage(damage, from) {
		return
	}
	switch t := target.(type) {
	case *Player:
		w.events.Push(Event{Type: EventPlayerHit, Source: from.String(), Amount: t.Health.Current})
	case *Enemy:
		w.events.Push(Event{Type: EventEnemyHit, Source: t.Name, Amount: t.Health.Current})
	}
}

func (w *World) addBullet(b *Bullet) {
	if b == nil {
		return
	}
	b.mask = w.maskFor(b.Sprite, b.Rect.Width, b.Rect.Height)
	b.spawnTick = w.ticks
	w.bullets = append(w.bullets, b)
}

// maskFor returns the cached pixel mask of a sprite at the given size.
// Missing sprites collide as solid rects.
func (w *World) maskFor(name string, width, height float64) *common.Mask {
	key := maskKey{name: name, w: int(width), h: int(height)}
	if m, ok := w.masks[key]; ok {
		return m
	}
	var m *common.Mask
	img, err := w.deps.Assets.Sprite(name, key.w, key.h)
	if err != nil {
		w.log.Warn("sprite unavailable, using solid mask", "sprite", name, "err", err)
		m = common.NewFilledMask(key.w, key.h)
	} else {
		m = common.MaskFromImage(img)
	}
	w.masks[key] = m
	return m
}

func (w *World) physics() physics {
	return physics{
		gravity:   w.cfg.World.Gravity,
		terminal:  w.cfg.World.TerminalVelocity,
		deathLine: w.DeathLine(),
	}
}

// DeathLine is the y below which an entity's top edge is fatal.
func (w *World) DeathLine() float64 {
	if w.cfg.World.DeathLine > 0 {
		return w.cfg.World.DeathLine
	}
	if h := w.cfg.World.Screen.Height; h > 0 {
		return float64(h)
	}
	return float64(w.levelHeight) * w.cfg.World.TileSize
}

func (w *World) screenWidth() float64 {
	if sw := w.cfg.World.Screen.Width; sw > 0 {
		return float64(sw)
	}
	return float64(w.levelLength) * w.cfg.World.TileSize
}

// Kills is the number of enemies the player has killed, carried progress included.
func (w *World) Kills() int { return w.kills }

// Bullets is the player's remaining ammo.
func (w *World) Bullets() int {
	if w.player == nil {
		return 0
	}
	return w.player.Inventory.Bullets
}

// Events drains the queued events in the order they happened.
func (w *World) Events() []Event { return w.events.Drain() }

func (w *World) Player() *Player              { return w.player }
func (w *World) Scroll() *Scroll              { return &w.scroll }
func (w *World) Obstacles() []*Tile           { return w.obstacles }
func (w *World) Enemies() []*Enemy            { return w.enemies }
func (w *World) Projectiles() []*Bullet       { return w.bullets }
func (w *World) Collectibles() []*Collectible { return w.collectibles }
func (w *World) Config() Config               { return w.cfg }
func (w *World) Name() string                 { return w.name }
func (w *World) LevelLength() int             { return w.levelLength }
func (w *World) Ticks() int                   { return w.ticks }

// Backgrounds lists the level's background layers, back to front.
func (w *World) Backgrounds() []string {
	if w.level == nil {
		return nil
	}
	return w.level.Attributes.BackgroundImages
}

// LevelFinished reports whether the finish flag was collected.
func (w *World) LevelFinished() bool { return w.finished }

// Progress snapshots what carries over to the next life or level.
func (w *World) Progress() Progress {
	return w.player.progress(w.kills)
}

// Elapsed is the time spent in the current life.
func (w *World) Elapsed() time.Duration {
	return w.deps.Clock.Now() - w.started
}
