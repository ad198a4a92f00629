package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

type fadePhase int

const (
	fadeIdle fadePhase = iota
	fadeOut
	fadeIn
)

// Transition fades to black, runs a callback while the screen is dark and
// fades back in. Respawns and level changes go through it.
type Transition struct {
	phase    fadePhase
	frames   int
	duration int
	overlay  *ebiten.Image
	// OnBlack is called once the screen is fully dark.
	OnBlack func() error
}

func NewTransition(duration int) *Transition {
	if duration <= 0 {
		duration = 20
	}
	overlay := ebiten.NewImage(1, 1)
	overlay.Fill(color.Black)
	return &Transition{duration: duration, overlay: overlay}
}

// Enter starts fading out. It is ignored while a transition is running.
func (t *Transition) Enter(onBlack func() error) {
	if t.phase != fadeIdle {
		return
	}
	t.phase = fadeOut
	t.frames = 0
	t.OnBlack = onBlack
}

// Reveal starts from a black screen and fades in.
func (t *Transition) Reveal() {
	t.phase = fadeIn
	t.frames = 0
	t.OnBlack = nil
}

func (t *Transition) Active() bool { return t.phase != fadeIdle }

// Update advances the fade. It reports whether the world should stay
// frozen this frame.
func (t *Transition) Update() (bool, error) {
	if t.phase == fadeIdle {
		return false, nil
	}
	t.frames++
	switch t.phase {
	case fadeOut:
		if t.frames < t.duration {
			return true, nil
		}
		t.phase = fadeIn
		t.frames = 0
		if cb := t.OnBlack; cb != nil {
			t.OnBlack = nil
			if err := cb(); err != nil {
				return true, err
			}
		}
		return true, nil
	case fadeIn:
		if t.frames >= t.duration {
			t.phase = fadeIdle
			t.frames = 0
		}
	}
	return false, nil
}

func (t *Transition) alpha() float64 {
	switch t.phase {
	case fadeOut:
		return min(float64(t.frames)/float64(t.duration), 1)
	case fadeIn:
		return max(1-float64(t.frames)/float64(t.duration), 0)
	}
	return 0
}

// Draw draws the fade overlay onto the provided screen.
func (t *Transition) Draw(screen *ebiten.Image) {
	a := t.alpha()
	if a <= 0 {
		return
	}
	b := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleAlpha(float32(a))
	screen.DrawImage(t.overlay, op)
}
