package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/rampage/obj"
)

var flagBaseMonitor bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the campaign in a window",
	Long: `Open a window and play the campaign, starting at --level if given.

Controls (prefabs/keybinds.yaml):
  A/D, arrows   - Move
  W/Space/Up    - Jump
  J/Left Ctrl   - Fire
  Enter         - Respawn
  F11           - Fullscreen
  F3            - Debug overlay`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&flagBaseMonitor, "monitor", "m", false, "use base monitor instead of primary (for multi-monitor setups)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	keys, err := LoadKeymap()
	if err != nil {
		return err
	}

	lib := newLibrary()
	s, cleanup, err := newSession(logger, obj.NewWallClock(), lib)
	if err != nil {
		return err
	}
	defer cleanup()

	if flagBaseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	cfg := s.World().Config()
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.World.Screen.Width, cfg.World.Screen.Height)
	ebiten.SetWindowTitle("rampage")
	if cfg.World.FPS > 0 {
		ebiten.SetTPS(cfg.World.FPS)
	}

	game := NewGame(s, keys, newRenderer(lib, logger), logger, flagDebug)
	return ebiten.RunGame(game)
}
