package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/rampage/session"
)

type Game struct {
	frames int
	debug  bool
	level  string

	session    *session.Session
	keys       Keymap
	renderer   *renderer
	transition *Transition
	log        *log.Logger
}

func NewGame(s *session.Session, keys Keymap, r *renderer, logger *log.Logger, debug bool) *Game {
	return &Game{
		debug:      debug,
		level:      s.Level(),
		session:    s,
		keys:       keys,
		renderer:   r,
		transition: NewTransition(20),
		log:        logger.With("component", "game"),
	}
}

func (g *Game) Update() error {
	g.frames++

	if anyJustPressed(g.keys.Fullscreen) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if anyJustPressed(g.keys.Debug) {
		g.debug = !g.debug
	}

	if anyJustPressed(g.keys.Respawn) {
		g.transition.Enter(g.restart)
	}

	frozen, err := g.transition.Update()
	if err != nil {
		return err
	}
	if frozen || g.session.Done() {
		return nil
	}

	if _, err := g.session.Step(g.keys.Input()); err != nil && !errors.Is(err, session.ErrCampaignOver) {
		return err
	}

	if lvl := g.session.Level(); lvl != g.level {
		g.log.Info("level changed", "from", g.level, "to", lvl)
		g.level = lvl
		g.renderer.reset()
		g.transition.Reveal()
	}
	return nil
}

// restart runs while the screen is black: a finished campaign starts over,
// anything else respawns in the current level.
func (g *Game) restart() error {
	var err error
	if g.session.Done() {
		err = g.session.Start("")
	} else {
		err = g.session.Respawn()
	}
	if err != nil {
		return err
	}
	g.level = g.session.Level()
	g.renderer.reset()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.session.World()
	g.renderer.draw(screen, w, g.debug)

	if p := w.Player(); p != nil {
		elapsed := w.Elapsed().Truncate(time.Second)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HP %d/%d   AMMO %d   KILLS %d   TIME %02d:%02d",
			p.HealthPoints(), p.MaxHealthPoints(), p.Bullets(), w.Kills(),
			int(elapsed.Minutes()), int(elapsed.Seconds())%60), 8, 8)
		if p.Weapon != nil {
			ebitenutil.DebugPrintAt(screen, p.Weapon.Name, 8, 24)
		}
	}

	g.transition.Draw(screen)

	sw, sh := w.Config().ScreenSize()
	switch {
	case g.session.Done():
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("CAMPAIGN COMPLETE - %d KILLS - press respawn to play again", w.Kills()), int(sw)/2-170, int(sh)/2)
	case g.session.Dead():
		ebitenutil.DebugPrintAt(screen, "YOU DIED - press respawn", int(sw)/2-80, int(sh)/2)
	}

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  tick %d  FPS %.1f  TPS %.1f  scroll %.0f",
			g.level, w.Ticks(), ebiten.ActualFPS(), ebiten.ActualTPS(), w.Scroll().BackgroundScroll), 8, int(sh)-20)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.session.World().Config().ScreenSize()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
