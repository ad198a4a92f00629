package obj

import (
	"errors"
	"fmt"
	"image"
	"math/rand"

	"github.com/charmbracelet/log"
	"golang.org/x/image/colornames"

	"github.com/milk9111/rampage/assets"
	"github.com/milk9111/rampage/prefabs"
)

var (
	ErrNoPlayerSpawn = errors.New("obj: level has no player spawn")
	ErrUnknownWeapon = errors.New("obj: unknown weapon")
	ErrNoLevel       = errors.New("obj: no level loaded")
)

// Assets supplies sprites for tiles and entities. Masks are derived from the
// returned alpha channel.
type Assets interface {
	Sprite(name string, w, h int) (image.Image, error)
}

// Config is the full set of tuning specs a World is built from.
type Config struct {
	World        prefabs.WorldSpec
	Player       prefabs.PlayerSpec
	Enemies      prefabs.EnemiesSpec
	Weapons      prefabs.WeaponsSpec
	Collectibles prefabs.CollectiblesSpec
	Tiles        prefabs.TilesSpec
}

// LoadConfig reads every spec through prefabs, honoring on-disk overrides.
func LoadConfig() (Config, error) {
	var cfg Config
	world, err := prefabs.LoadWorldSpec()
	if err != nil {
		return cfg, err
	}
	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return cfg, err
	}
	enemies, err := prefabs.LoadEnemiesSpec()
	if err != nil {
		return cfg, err
	}
	weapons, err := prefabs.LoadWeaponsSpec()
	if err != nil {
		return cfg, err
	}
	collectibles, err := prefabs.LoadCollectiblesSpec()
	if err != nil {
		return cfg, err
	}
	tiles, err := prefabs.LoadTilesSpec()
	if err != nil {
		return cfg, err
	}
	cfg = Config{
		World:        *world,
		Player:       *player,
		Enemies:      *enemies,
		Weapons:      *weapons,
		Collectibles: *collectibles,
		Tiles:        *tiles,
	}
	if _, ok := cfg.Weapons.ByName(cfg.Player.Weapon); !ok {
		return cfg, fmt.Errorf("obj: player weapon %q: %w", cfg.Player.Weapon, ErrUnknownWeapon)
	}
	return cfg, nil
}

// SizeFactor scales every spec length to screen pixels.
func (c Config) SizeFactor() float64 {
	sf := c.World.TileSize * c.World.SpriteScaling
	if sf <= 0 {
		return 1
	}
	return sf
}

// ScreenSize returns the configured viewport.
func (c Config) ScreenSize() (float64, float64) {
	return float64(c.World.Screen.Width), float64(c.World.Screen.Height)
}

// Deps are the collaborators injected into a World.
type Deps struct {
	Logger *log.Logger
	Clock  Clock
	Rand   *rand.Rand
	Assets Assets
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Clock == nil {
		d.Clock = NewWallClock()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(1))
	}
	if d.Assets == nil {
		d.Assets = assets.New(nil)
	}
	return d
}

// RegisterPlaceholders teaches lib the colors and shapes used when no sprite
// file exists. Entities are drawn as ellipses so their masks are tighter than
// their rects.
func RegisterPlaceholders(lib *assets.Library, cfg Config) {
	if lib == nil {
		return
	}
	lib.SetColor(cfg.Player.Sprite, cfg.Player.Color.Or(colornames.Hotpink))
	lib.SetShape(cfg.Player.Sprite, assets.ShapeEllipse)
	for _, a := range cfg.Enemies.Archetypes {
		lib.SetColor(a.Sprite, a.Color.Or(colornames.Silver))
		lib.SetShape(a.Sprite, assets.ShapeEllipse)
	}
	for _, w := range cfg.Weapons.Weapons {
		lib.SetColor(w.Sprite, w.Color.Or(colornames.Dimgray))
		lib.SetColor(bulletSprite(w.Name), colornames.Gold)
	}
	for _, c := range cfg.Collectibles.Collectibles {
		lib.SetColor(c.Sprite, c.Color.Or(colornames.Gold))
		if c.Kind == string(CollectFinish) {
			lib.SetShape(c.Sprite, assets.ShapeFlag)
		}
	}
	for _, name := range cfg.Tiles.Obstacles {
		c, ok := cfg.Tiles.Colors[name]
		if ok {
			lib.SetColor(name, c.Or(colornames.Saddlebrown))
			continue
		}
		lib.SetColor(name, colornames.Saddlebrown)
	}
}

func bulletSprite(weapon string) string {
	return weapon + "_bullet"
}
