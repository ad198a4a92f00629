package obj

import (
	"math"
	"slices"

	"github.com/milk9111/rampage/common"
)

// spatialGrid buckets damageable entities into uniform screen columns so
// projectiles only test the entities near them.
type spatialGrid struct {
	cell  float64
	items []Damageable
	cols  map[int][]int
	seen  map[int]struct{}
}

func newSpatialGrid(cell float64) spatialGrid {
	if cell <= 0 {
		cell = 160
	}
	return spatialGrid{
		cell: cell,
		cols: make(map[int][]int),
		seen: make(map[int]struct{}),
	}
}

func (g *spatialGrid) reset() {
	g.items = g.items[:0]
	for k, v := range g.cols {
		g.cols[k] = v[:0]
	}
}

func (g *spatialGrid) span(r common.Rect) (int, int) {
	return int(math.Floor(r.Left() / g.cell)), int(math.Floor(r.Right() / g.cell))
}

func (g *spatialGrid) insert(d Damageable) {
	if d == nil {
		return
	}
	idx := len(g.items)
	g.items = append(g.items, d)
	lo, hi := g.span(d.Bounds())
	for c := lo; c <= hi; c++ {
		g.cols[c] = append(g.cols[c], idx)
	}
}

// query returns every entity sharing a column with r, in insertion order.
func (g *spatialGrid) query(r common.Rect) []Damageable {
	clear(g.seen)
	var idxs []int
	lo, hi := g.span(r)
	for c := lo; c <= hi; c++ {
		for _, i := range g.cols[c] {
			if _, ok := g.seen[i]; ok {
				continue
			}
			g.seen[i] = struct{}{}
			idxs = append(idxs, i)
		}
	}
	slices.Sort(idxs)
	out := make([]Damageable, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.items[i])
	}
	return out
}
