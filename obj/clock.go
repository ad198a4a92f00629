package obj

import "time"

// Clock supplies the real-time base for cooldowns and timers.
type Clock interface {
	Now() time.Duration
}

// WallClock reports monotonic time elapsed since it was created.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock only moves when advanced. Tests and headless runs step it once
// per tick.
type ManualClock struct {
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	if c == nil {
		return 0
	}
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	if c == nil || d < 0 {
		return
	}
	c.now += d
}

// TickDuration is the length of one frame at the given rate.
func TickDuration(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}
