// Package session plays a campaign on top of an obj.World: it loads levels
// in order, respawns the player, applies reloaded prefabs and records every
// run in the history store.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/milk9111/rampage/assets"
	"github.com/milk9111/rampage/levels"
	"github.com/milk9111/rampage/obj"
	"github.com/milk9111/rampage/prefabs"
	"github.com/milk9111/rampage/storage"
)

// ErrCampaignOver is returned when stepping a session whose last level is done.
var ErrCampaignOver = errors.New("session: campaign over")

// RunStore receives finished runs. *storage.Store implements it.
type RunStore interface {
	SaveRun(r storage.Run) (int64, error)
}

// ChangeSource reports prefab files edited since the last call.
// *prefabs.Watcher implements it.
type ChangeSource interface {
	Drain() []string
}

// Options are the collaborators of a Session. Only Campaign is required.
type Options struct {
	Logger   *log.Logger
	Clock    obj.Clock
	Rand     *rand.Rand
	Assets   *assets.Library
	Levels   fs.FS
	Campaign *prefabs.CampaignSpec
	Store    RunStore
	Changes  ChangeSource
	// LoadConfig is called when prefabs change. Defaults to obj.LoadConfig.
	LoadConfig func() (obj.Config, error)
}

// Session is not safe for concurrent use.
type Session struct {
	opts  Options
	log   *log.Logger
	world *obj.World

	level      string
	checkpoint obj.Progress
	recorded   bool
	done       bool
	dirty      []string
	saved      []int64
}

// New creates a session. Start loads the first level.
func New(cfg obj.Config, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Levels == nil {
		opts.Levels = levels.LevelsFS
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = obj.LoadConfig
	}
	if opts.Assets == nil {
		opts.Assets = assets.New(nil)
	}
	obj.RegisterPlaceholders(opts.Assets, cfg)

	deps := obj.Deps{
		Logger: opts.Logger,
		Clock:  opts.Clock,
		Rand:   opts.Rand,
		Assets: opts.Assets,
	}
	return &Session{
		opts:  opts,
		log:   opts.Logger.With("component", "session"),
		world: obj.NewWorld(cfg, deps),
	}
}

// Start loads level with fresh progress. An empty name starts the campaign
// from its first level.
func (s *Session) Start(level string) error {
	if level == "" {
		if s.opts.Campaign == nil || len(s.opts.Campaign.Levels) == 0 {
			return fmt.Errorf("session: no level to start")
		}
		level = s.opts.Campaign.Levels[0]
	}
	s.done = false
	return s.enter(level, obj.NewProgress(s.world.Config()))
}

func (s *Session) enter(level string, progress obj.Progress) error {
	s.applyChanges()
	doc, err := levels.LoadLevel(s.opts.Levels, level)
	if err != nil {
		return fmt.Errorf("session: enter %s: %w", level, err)
	}
	if err := s.world.Load(doc); err != nil {
		return err
	}
	if _, err := s.world.ProcessData(progress); err != nil {
		return err
	}
	s.level = doc.Name
	s.checkpoint = progress
	s.recorded = false
	s.log.Info("level started", "level", s.level, "kills", progress.Kills, "bullets", progress.Inventory.Bullets)
	return nil
}

// Step advances the world one tick and returns what happened during it.
// Collecting the finish flag records the run and moves on to the next
// level of the campaign, carrying progress.
func (s *Session) Step(in obj.Input) ([]obj.Event, error) {
	if s.done {
		return nil, ErrCampaignOver
	}
	if s.world.Player() == nil {
		return nil, obj.ErrNoLevel
	}
	if changed := s.drain(); len(changed) > 0 {
		s.log.Info("prefabs changed, applying on next respawn", "files", changed)
	}

	s.world.Tick(in)
	events := s.world.Events()
	for _, e := range events {
		s.logEvent(e)
		if e.Type == obj.EventPlayerDied {
			s.record(storage.OutcomeDied)
		}
	}

	if s.world.LevelFinished() {
		s.record(storage.OutcomeCompleted)
		next, ok := s.opts.Campaign.Next(s.level)
		if !ok {
			s.done = true
			s.log.Info("campaign complete", "kills", s.world.Kills())
			return events, nil
		}
		if err := s.enter(next, s.world.Progress()); err != nil {
			return events, err
		}
	}
	return events, nil
}

// Respawn restarts the current level with the progress the player entered
// it with. Pending prefab changes are applied first.
func (s *Session) Respawn() error {
	if s.level == "" {
		return obj.ErrNoLevel
	}
	if s.world.Player() != nil && s.world.Player().Alive() {
		s.record(storage.OutcomeQuit)
	}
	s.done = false
	if s.applyChanges() {
		return s.enter(s.level, s.checkpoint)
	}
	if _, err := s.world.Respawn(s.checkpoint); err != nil {
		return err
	}
	s.recorded = false
	return nil
}

// Close records the current run as quit if it has not ended yet.
func (s *Session) Close() {
	if s.world.Player() != nil && !s.done {
		s.record(storage.OutcomeQuit)
	}
}

func (s *Session) World() *obj.World { return s.world }
func (s *Session) Level() string     { return s.level }
func (s *Session) Done() bool        { return s.done }

// Saved lists the IDs of the runs written to the store, oldest first.
func (s *Session) Saved() []int64 { return s.saved }

// Dead reports whether the player is waiting for a respawn.
func (s *Session) Dead() bool {
	p := s.world.Player()
	return p != nil && !p.Alive()
}

func (s *Session) record(outcome storage.Outcome) {
	if s.recorded || s.world.Player() == nil {
		return
	}
	s.recorded = true
	run := storage.Run{
		Level:    s.level,
		Outcome:  outcome,
		Kills:    s.world.Kills() - s.checkpoint.Kills,
		Bullets:  s.world.Bullets(),
		Ticks:    s.world.Ticks(),
		Duration: s.world.Elapsed(),
	}
	s.log.Info("run ended", "level", run.Level, "outcome", run.Outcome, "kills", run.Kills, "time", run.Duration)
	if s.opts.Store == nil {
		return
	}
	id, err := s.opts.Store.SaveRun(run)
	if err != nil {
		s.log.Error("save run", "err", err)
		return
	}
	s.saved = append(s.saved, id)
}

// applyChanges reloads the tuning specs when a prefab file changed. It
// reports whether the world config was replaced.
func (s *Session) applyChanges() bool {
	s.drain()
	if len(s.dirty) == 0 {
		return false
	}
	files := s.dirty
	s.dirty = nil
	cfg, err := s.opts.LoadConfig()
	if err != nil {
		s.log.Error("reload prefabs, keeping previous config", "files", files, "err", err)
		return false
	}
	obj.RegisterPlaceholders(s.opts.Assets, cfg)
	s.world.SetConfig(cfg)
	s.log.Info("prefabs reloaded", "files", files)
	return true
}

func (s *Session) drain() []string {
	if s.opts.Changes == nil {
		return nil
	}
	changed := s.opts.Changes.Drain()
	s.dirty = append(s.dirty, changed...)
	return changed
}

func (s *Session) logEvent(e obj.Event) {
	switch e.Type {
	case obj.EventShot:
		s.log.Debug("shot", "weapon", e.Source, "ammo", e.Amount)
	case obj.EventEnemyHit:
		s.log.Debug("enemy hit", "enemy", e.Source, "health", e.Amount)
	case obj.EventPlayerHit:
		s.log.Debug("player hit", "by", e.Source, "health", e.Amount)
	case obj.EventEnemyKilled:
		s.log.Info("enemy killed", "enemy", e.Source, "kills", e.Amount)
	case obj.EventCollected:
		s.log.Info("collected", "item", e.Source, "amount", e.Amount)
	case obj.EventLevelFinished:
		s.log.Info("level finished", "level", e.Source)
	}
}
