package obj

import (
	"math"

	"github.com/milk9111/rampage/common"
)

// Scroll tracks the horizontal camera. ScreenScroll is this tick's shift
// applied to everything drawn in world space; BackgroundScroll is the
// accumulated total, clamped to the level bounds.
type Scroll struct {
	ScreenScroll     float64
	BackgroundScroll float64
	Threshold        float64
	TileSize         float64
	Parallax         float64
}

// MaxBackground is the largest scroll that keeps the level's right edge on screen.
func (s *Scroll) MaxBackground(levelLength int, screenWidth float64) float64 {
	return math.Max(0, float64(levelLength)*s.TileSize-screenWidth)
}

// Update recomputes the scroll after the player moved by dx. When the player
// is inside the threshold of a screen edge and the camera has room in that
// direction, the camera absorbs the movement and the player is moved back so
// it stays pinned.
func (s *Scroll) Update(p *Player, dx float64, levelLength int, screenWidth float64) {
	if s == nil {
		return
	}
	s.ScreenScroll = 0
	if p == nil || dx == 0 {
		return
	}

	r := p.Rect
	nearRight := dx > 0 && r.Right() > screenWidth-s.Threshold
	nearLeft := dx < 0 && r.Left() < s.Threshold
	if !nearRight && !nearLeft {
		return
	}

	target := common.Clamp(s.BackgroundScroll+math.Round(dx), 0, s.MaxBackground(levelLength, screenWidth))
	applied := target - s.BackgroundScroll
	if applied == 0 {
		return
	}
	p.shift(-applied)
	s.ScreenScroll = -applied
	s.BackgroundScroll -= s.ScreenScroll
}

// Reset returns the camera to the start of the level.
func (s *Scroll) Reset() {
	if s == nil {
		return
	}
	s.ScreenScroll = 0
	s.BackgroundScroll = 0
}

// ParallaxOffset is the horizontal offset of background layer i. Deeper
// layers move faster.
func (s *Scroll) ParallaxOffset(layer int) float64 {
	if s == nil {
		return 0
	}
	return -s.BackgroundScroll * s.Parallax * float64(layer+1)
}

// WorldX converts a screen x coordinate to level space.
func (s *Scroll) WorldX(screenX float64) float64 {
	if s == nil {
		return screenX
	}
	return screenX + s.BackgroundScroll
}
