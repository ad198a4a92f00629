package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// WorldSpec holds the simulation constants shared by every level.
type WorldSpec struct {
	Name             string     `yaml:"name"`
	TileSize         float64    `yaml:"tile_size"`
	SpriteScaling    float64    `yaml:"sprite_scaling"`
	Gravity          float64    `yaml:"gravity"`
	TerminalVelocity float64    `yaml:"terminal_velocity"`
	ScrollThreshold  float64    `yaml:"scroll_threshold"`
	Parallax         float64    `yaml:"parallax"`
	FPS              int        `yaml:"fps"`
	Screen           ScreenSpec `yaml:"screen"`
	DeathLine        float64    `yaml:"death_line"`
	CorpseMS         int        `yaml:"corpse_ms"`
	SpatialCell      float64    `yaml:"spatial_cell"`
	Sky              *YAMLColor `yaml:"sky"`
}

type ScreenSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func LoadWorldSpec() (*WorldSpec, error) {
	spec, err := LoadSpec[WorldSpec]("world.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PlayerSpec struct {
	Name            string     `yaml:"name"`
	Sprite          string     `yaml:"sprite"`
	Speed           float64    `yaml:"speed"`
	JumpVelocity    float64    `yaml:"jump_velocity"`
	Health          int        `yaml:"health"`
	Width           float64    `yaml:"width"`
	Height          float64    `yaml:"height"`
	Hitbox          BoxSpec    `yaml:"hitbox"`
	StartingBullets int        `yaml:"starting_bullets"`
	Weapon          string     `yaml:"weapon"`
	Color           *YAMLColor `yaml:"color"`
}

// BoxSpec is a width/height pair in unscaled pixels.
type BoxSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// EnemiesSpec lists every enemy archetype a level may spawn.
type EnemiesSpec struct {
	Archetypes []EnemySpec `yaml:"archetypes"`
}

type EnemySpec struct {
	Name           string      `yaml:"name"`
	Tile           string      `yaml:"tile"`
	Behavior       string      `yaml:"behavior"`
	Sprite         string      `yaml:"sprite"`
	Speed          float64     `yaml:"speed"`
	Health         int         `yaml:"health"`
	Scale          float64     `yaml:"scale"`
	Width          float64     `yaml:"width"`
	Height         float64     `yaml:"height"`
	Hitbox         BoxSpec     `yaml:"hitbox"`
	Sight          float64     `yaml:"sight"`
	PatrolDistance float64     `yaml:"patrol_distance"`
	PatrolDelayMS  int         `yaml:"patrol_delay_ms"`
	PatrolKeep     int         `yaml:"patrol_keep"`
	PursuitGap     float64     `yaml:"pursuit_gap"`
	JumpVelocity   float64     `yaml:"jump_velocity"`
	Attack         *AttackSpec `yaml:"attack"`
	Weapon         string      `yaml:"weapon"`
	FireMS         int         `yaml:"fire_ms"`
	Color          *YAMLColor  `yaml:"color"`
}

// AttackSpec describes a melee attack. Box fields are fractions of the
// enemy rect.
type AttackSpec struct {
	Damage     int     `yaml:"damage"`
	CooldownMS int     `yaml:"cooldown_ms"`
	WindupMS   int     `yaml:"windup_ms"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	OffsetY    float64 `yaml:"offset_y"`
	Reach      float64 `yaml:"reach"`
}

func LoadEnemiesSpec() (*EnemiesSpec, error) {
	spec, err := LoadSpec[EnemiesSpec]("enemies.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ByTile returns the archetype spawned by the given marker tile.
func (s *EnemiesSpec) ByTile(tile string) (EnemySpec, bool) {
	if s == nil {
		return EnemySpec{}, false
	}
	for _, a := range s.Archetypes {
		if a.Tile == tile {
			return a, true
		}
	}
	return EnemySpec{}, false
}

type WeaponsSpec struct {
	Weapons []WeaponSpec `yaml:"weapons"`
}

type WeaponSpec struct {
	Name           string     `yaml:"name"`
	Sprite         string     `yaml:"sprite"`
	Width          float64    `yaml:"width"`
	Height         float64    `yaml:"height"`
	Grip           [2]Offset  `yaml:"grip"`
	Muzzle         [2]Offset  `yaml:"muzzle"`
	BulletsPerShot int        `yaml:"bullets_per_shot"`
	BulletSpeed    float64    `yaml:"bullet_speed"`
	BulletSize     BoxSpec    `yaml:"bullet_size"`
	Range          float64    `yaml:"range"`
	Damage         int        `yaml:"damage"`
	CooldownMS     int        `yaml:"cooldown_ms"`
	Color          *YAMLColor `yaml:"color"`
}

// Offset is a point relative to a rect's top-left corner, in unscaled pixels.
type Offset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func LoadWeaponsSpec() (*WeaponsSpec, error) {
	spec, err := LoadSpec[WeaponsSpec]("weapons.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *WeaponsSpec) ByName(name string) (WeaponSpec, bool) {
	if s == nil {
		return WeaponSpec{}, false
	}
	for _, w := range s.Weapons {
		if w.Name == name {
			return w, true
		}
	}
	return WeaponSpec{}, false
}

type CollectiblesSpec struct {
	Collectibles []CollectibleSpec `yaml:"collectibles"`
}

type CollectibleSpec struct {
	Name   string     `yaml:"name"`
	Tile   string     `yaml:"tile"`
	Kind   string     `yaml:"kind"`
	Sprite string     `yaml:"sprite"`
	Amount int        `yaml:"amount"`
	Weapon string     `yaml:"weapon"`
	Size   BoxSpec    `yaml:"size"`
	Color  *YAMLColor `yaml:"color"`
}

func LoadCollectiblesSpec() (*CollectiblesSpec, error) {
	spec, err := LoadSpec[CollectiblesSpec]("collectibles.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *CollectiblesSpec) ByTile(tile string) (CollectibleSpec, bool) {
	if s == nil {
		return CollectibleSpec{}, false
	}
	for _, c := range s.Collectibles {
		if c.Tile == tile {
			return c, true
		}
	}
	return CollectibleSpec{}, false
}

// TilesSpec partitions tile-kind strings into disjoint sets.
type TilesSpec struct {
	Obstacles    []string              `yaml:"obstacles"`
	Collectibles []string              `yaml:"collectibles"`
	Spawns       []string              `yaml:"spawns"`
	PlayerSpawn  string                `yaml:"player_spawn"`
	Colors       map[string]*YAMLColor `yaml:"colors"`
}

func LoadTilesSpec() (*TilesSpec, error) {
	spec, err := LoadSpec[TilesSpec]("tiles.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: tiles.yaml: %w", err)
	}
	return &spec, nil
}

// Validate checks that no tile kind belongs to more than one set.
func (s *TilesSpec) Validate() error {
	seen := make(map[string]string)
	check := func(set string, kinds []string) error {
		for _, k := range kinds {
			if prev, ok := seen[k]; ok && prev != set {
				return fmt.Errorf("tile kind %q is listed as both %s and %s", k, prev, set)
			}
			seen[k] = set
		}
		return nil
	}
	if err := check("obstacle", s.Obstacles); err != nil {
		return err
	}
	if err := check("collectible", s.Collectibles); err != nil {
		return err
	}
	if err := check("spawn", s.Spawns); err != nil {
		return err
	}
	if s.PlayerSpawn != "" {
		if set, ok := seen[s.PlayerSpawn]; !ok || set != "spawn" {
			return fmt.Errorf("player_spawn %q is not a spawn kind", s.PlayerSpawn)
		}
	}
	return nil
}

// KeybindsSpec maps logical actions to ebiten key names.
type KeybindsSpec struct {
	MoveLeft   []string `yaml:"move_left"`
	MoveRight  []string `yaml:"move_right"`
	Jump       []string `yaml:"jump"`
	Fire       []string `yaml:"fire"`
	Respawn    []string `yaml:"respawn"`
	Fullscreen []string `yaml:"fullscreen"`
	Debug      []string `yaml:"debug"`
}

func LoadKeybindsSpec() (*KeybindsSpec, error) {
	spec, err := LoadSpec[KeybindsSpec]("keybinds.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// CampaignSpec is the ordered list of levels played in sequence.
type CampaignSpec struct {
	Name   string   `yaml:"name"`
	Levels []string `yaml:"levels"`
}

func LoadCampaignSpec() (*CampaignSpec, error) {
	spec, err := LoadSpec[CampaignSpec]("campaign.yaml")
	if err != nil {
		return nil, err
	}
	if len(spec.Levels) == 0 {
		return nil, fmt.Errorf("prefabs: campaign.yaml: no levels")
	}
	return &spec, nil
}

// Next returns the level after current, or false when current is the last.
func (s *CampaignSpec) Next(current string) (string, bool) {
	if s == nil {
		return "", false
	}
	for i, name := range s.Levels {
		if name == current && i+1 < len(s.Levels) {
			return s.Levels[i+1], true
		}
	}
	return "", false
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
