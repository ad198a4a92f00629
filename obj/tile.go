package obj

import (
	"github.com/milk9111/rampage/common"
	"github.com/milk9111/rampage/prefabs"
)

// TileKind classifies a tile-kind string from a level document.
type TileKind int

const (
	TileEmpty TileKind = iota
	TileObstacle
	TileCollectible
	TileSpawn
)

func (k TileKind) String() string {
	switch k {
	case TileObstacle:
		return "obstacle"
	case TileCollectible:
		return "collectible"
	case TileSpawn:
		return "spawn"
	default:
		return "empty"
	}
}

// Tile is an obstacle cell of the current level. Rect follows the camera;
// InitialX is its position with no scroll applied.
type Tile struct {
	Kind     TileKind
	Name     string
	Rect     common.Rect
	InitialX float64
	Mask     *common.Mask
	Col, Row int
}

type tileClassifier map[string]TileKind

func newTileClassifier(spec prefabs.TilesSpec) tileClassifier {
	c := make(tileClassifier, len(spec.Obstacles)+len(spec.Collectibles)+len(spec.Spawns))
	for _, k := range spec.Obstacles {
		c[k] = TileObstacle
	}
	for _, k := range spec.Collectibles {
		c[k] = TileCollectible
	}
	for _, k := range spec.Spawns {
		c[k] = TileSpawn
	}
	return c
}

// Classify returns the kind of name. Unknown names are empty.
func (c tileClassifier) Classify(name string) TileKind {
	return c[name]
}

// cellRect is the screen rect of grid cell (col, row) with no scroll applied.
func cellRect(col, row int, tileSize float64) common.Rect {
	return common.NewRect(float64(col)*tileSize, float64(row)*tileSize, tileSize, tileSize)
}

// placeOnCell positions r bottom-centered on the given cell.
func placeOnCell(r *common.Rect, col, row int, tileSize float64) {
	cell := cellRect(col, row, tileSize)
	r.SetBottom(cell.Bottom())
	r.SetCenterX(cell.CenterX())
	r.Round()
}
