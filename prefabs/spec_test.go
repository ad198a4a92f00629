package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadEmbeddedSpecs(t *testing.T) {
	world, err := LoadWorldSpec()
	require.NoError(t, err)
	assert.Equal(t, 40.0, world.TileSize)
	assert.Equal(t, 1.0, world.TileSize*world.SpriteScaling)
	assert.Equal(t, 0.75, world.Gravity)
	require.NotNil(t, world.Sky)

	player, err := LoadPlayerSpec()
	require.NoError(t, err)
	assert.Equal(t, -14.0, player.JumpVelocity)
	assert.Less(t, player.Hitbox.Width, player.Width)

	weapons, err := LoadWeaponsSpec()
	require.NoError(t, err)
	_, ok := weapons.ByName(player.Weapon)
	assert.True(t, ok, "default weapon %q missing", player.Weapon)

	enemies, err := LoadEnemiesSpec()
	require.NoError(t, err)
	ken, ok := enemies.ByTile("ken")
	require.True(t, ok)
	require.NotNil(t, ken.Attack)
	assert.Equal(t, 15, ken.Attack.Damage)
	assert.Equal(t, 1200, ken.Attack.CooldownMS)
	assert.Equal(t, 1000, ken.Attack.WindupMS)

	boss, ok := enemies.ByTile("boss")
	require.True(t, ok)
	assert.Equal(t, 200, boss.Health)

	_, err = LoadKeybindsSpec()
	require.NoError(t, err)
}

func TestTilesSpecCoversReferencedKinds(t *testing.T) {
	tiles, err := LoadTilesSpec()
	require.NoError(t, err)

	enemies, err := LoadEnemiesSpec()
	require.NoError(t, err)
	for _, a := range enemies.Archetypes {
		assert.Contains(t, tiles.Spawns, a.Tile, "enemy %s", a.Name)
	}

	collectibles, err := LoadCollectiblesSpec()
	require.NoError(t, err)
	for _, c := range collectibles.Collectibles {
		assert.Contains(t, tiles.Collectibles, c.Tile, "collectible %s", c.Name)
	}
}

func TestTilesSpecValidate(t *testing.T) {
	cases := []struct {
		name    string
		spec    TilesSpec
		wantErr bool
	}{
		{"disjoint", TilesSpec{Obstacles: []string{"dirt"}, Spawns: []string{"player_spawn"}, PlayerSpawn: "player_spawn"}, false},
		{"overlap", TilesSpec{Obstacles: []string{"dirt"}, Collectibles: []string{"dirt"}}, true},
		{"player_spawn_not_spawn", TilesSpec{Obstacles: []string{"dirt"}, PlayerSpawn: "dirt"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.spec.Validate()
			if c.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCampaignNext(t *testing.T) {
	campaign, err := LoadCampaignSpec()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(campaign.Levels), 2)

	next, ok := campaign.Next(campaign.Levels[0])
	assert.True(t, ok)
	assert.Equal(t, campaign.Levels[1], next)

	_, ok = campaign.Next(campaign.Levels[len(campaign.Levels)-1])
	assert.False(t, ok)
}

func TestLoadPrefersDiskCopy(t *testing.T) {
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "campaign.yaml"), []byte("name: override\nlevels: [a.json]\n"), 0o644))

	campaign, err := LoadCampaignSpec()
	require.NoError(t, err)
	assert.Equal(t, "override", campaign.Name)

	_, ok := ModTime("prefabs/campaign.yaml")
	assert.True(t, ok)
	_, ok = ModTime("world.yaml")
	assert.False(t, ok)
}

func TestLoadSpecErrors(t *testing.T) {
	_, err := LoadSpec[WorldSpec]("missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load missing.yaml")
}

func TestYAMLColor(t *testing.T) {
	var out struct {
		A *YAMLColor `yaml:"a"`
		B *YAMLColor `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: \"#ff000080\"\nb: \"00ff00\"\n"), &out))
	r, _, _, a := out.A.RGBA()
	assert.NotZero(t, r)
	assert.Equal(t, uint32(0x80*0x101), a)

	var missing *YAMLColor
	assert.Equal(t, out.B.Color, missing.Or(out.B.Color))

	var bad struct {
		C *YAMLColor `yaml:"c"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("c: \"#12\"\n"), &bad))
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "world.yaml"), []byte("name: w\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "world.yaml", name)
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}
}
