// rampage is a side-scrolling action platformer.
//
// Usage:
//
//	rampage [play]          - Play the campaign in a window
//	rampage sim             - Run a level headless with scripted input
//	rampage levels          - List the campaign levels
//	rampage runs            - Show run history
//
// Global flags:
//
//	--debug         - Debug logging and overlay
//	--level <name>  - Start from this level instead of the first one
//	--seed <value>  - RNG seed for enemy patrols (0 = time based)
//	--db <path>     - Run history database (empty disables it)
//	--watch         - Reload prefabs from disk when they change
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/rampage/assets"
	"github.com/milk9111/rampage/obj"
	"github.com/milk9111/rampage/prefabs"
	"github.com/milk9111/rampage/session"
	"github.com/milk9111/rampage/storage"
)

var (
	flagDebug  bool
	flagLevel  string
	flagSeed   int64
	flagDBPath string
	flagWatch  bool
	flagAssets string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rampage",
	Short: "A side-scrolling action platformer",
	Long: `Run through the campaign, shoot what moves and grab the flag at the end
of every level.

Examples:
  rampage
  rampage play --level level1_data --watch
  rampage sim --ticks 3600
  rampage runs --limit 5`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging and overlay")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "", "level name in levels/ (basename, .json optional)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rampage/runs.db", "path to run history database (empty to disable)")
	rootCmd.PersistentFlags().BoolVar(&flagWatch, "watch", false, "reload prefabs when files under prefabs/ change")
	rootCmd.PersistentFlags().StringVar(&flagAssets, "assets", "assets", "directory searched for <sprite>.png files")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(runsCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "rampage",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func newRand() *rand.Rand {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newLibrary() *assets.Library {
	if flagAssets == "" {
		return assets.New(nil)
	}
	if info, err := os.Stat(flagAssets); err != nil || !info.IsDir() {
		return assets.New(nil)
	}
	return assets.New(os.DirFS(flagAssets))
}

// openStore opens the history database. Failures are logged and the game
// runs without history.
func openStore(logger *log.Logger) *storage.Store {
	if flagDBPath == "" {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("run history disabled", "db", flagDBPath, "err", err)
		return nil
	}
	return store
}

// openWatcher watches the on-disk prefab directory when --watch is set.
func openWatcher(logger *log.Logger) *prefabs.Watcher {
	if !flagWatch {
		return nil
	}
	w, err := prefabs.NewWatcher(prefabs.Dir)
	if err != nil {
		logger.Warn("prefab watch disabled", "dir", prefabs.Dir, "err", err)
		return nil
	}
	logger.Info("watching prefabs", "dir", prefabs.Dir)
	return w
}

// newSession wires a session from the global flags. The returned cleanup
// closes the store and watcher.
func newSession(logger *log.Logger, clock obj.Clock, lib *assets.Library) (*session.Session, func(), error) {
	cfg, err := obj.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load prefabs: %w", err)
	}
	campaign, err := prefabs.LoadCampaignSpec()
	if err != nil {
		return nil, nil, err
	}

	store := openStore(logger)
	watcher := openWatcher(logger)
	opts := session.Options{
		Logger:   logger,
		Clock:    clock,
		Rand:     newRand(),
		Assets:   lib,
		Campaign: campaign,
	}
	if store != nil {
		opts.Store = store
	}
	if watcher != nil {
		opts.Changes = watcher
	}

	s := session.New(cfg, opts)
	cleanup := func() {
		s.Close()
		if watcher != nil {
			watcher.Close()
		}
		if store != nil {
			store.Close()
		}
	}
	if err := s.Start(flagLevel); err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}
