package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/rampage/obj"
	"github.com/milk9111/rampage/session"
)

var (
	flagTicks   int
	flagScript  string
	flagRespawn bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the campaign headless with scripted input",
	Long: `Step the simulation without a window. Time advances one frame per tick,
so runs with the same --seed and script are identical.

The script is a YAML list of input steps, each active for ticks [from, to):

  steps:
    - {from: 0, to: 600, right: true, fire: true}
    - {from: 120, to: 121, jump: true}

Without --script the player runs right, fires and jumps once a second.`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "number of ticks to simulate")
	simCmd.Flags().StringVar(&flagScript, "script", "", "path to an input script YAML file")
	simCmd.Flags().BoolVar(&flagRespawn, "respawn", false, "respawn immediately when the player dies")
}

type scriptFile struct {
	Steps []struct {
		From  int  `yaml:"from"`
		To    int  `yaml:"to"`
		Left  bool `yaml:"left"`
		Right bool `yaml:"right"`
		Jump  bool `yaml:"jump"`
		Fire  bool `yaml:"fire"`
	} `yaml:"steps"`
}

func loadScript(path string, ticks int) (obj.Script, error) {
	if path == "" {
		script := obj.Script{{From: 0, To: ticks, Input: obj.Input{MoveRight: true, Fire: true}}}
		for t := 0; t < ticks; t += 60 {
			script = append(script, obj.ScriptStep{From: t, To: t + 1, Input: obj.Input{Jump: true}})
		}
		return script, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal script %s: %w", path, err)
	}
	script := make(obj.Script, 0, len(f.Steps))
	for i, s := range f.Steps {
		if s.To <= s.From {
			return nil, fmt.Errorf("script %s: step %d: to (%d) must be after from (%d)", path, i, s.To, s.From)
		}
		script = append(script, obj.ScriptStep{
			From:  s.From,
			To:    s.To,
			Input: obj.Input{MoveLeft: s.Left, MoveRight: s.Right, Jump: s.Jump, Fire: s.Fire},
		})
	}
	return script, nil
}

func runSim(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	script, err := loadScript(flagScript, flagTicks)
	if err != nil {
		return err
	}

	clock := &obj.ManualClock{}
	s, cleanup, err := newSession(logger, clock, newLibrary())
	if err != nil {
		return err
	}
	defer cleanup()

	frame := obj.TickDuration(s.World().Config().World.FPS)
	deaths := 0
	tick := 0
	for ; tick < flagTicks; tick++ {
		clock.Advance(frame)
		events, err := s.Step(script.At(tick))
		if errors.Is(err, session.ErrCampaignOver) {
			break
		}
		if err != nil {
			return err
		}
		for _, e := range events {
			if e.Type == obj.EventPlayerDied {
				deaths++
			}
		}
		if s.Done() {
			tick++
			break
		}
		if s.Dead() && flagRespawn {
			if err := s.Respawn(); err != nil {
				return err
			}
		}
	}

	w := s.World()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Simulated %d ticks (%s)\n\n", tick, clock.Now())
	fmt.Fprintf(out, "  %-10s %s\n", "Level", s.Level())
	fmt.Fprintf(out, "  %-10s %d\n", "Kills", w.Kills())
	fmt.Fprintf(out, "  %-10s %d\n", "Deaths", deaths)
	if p := w.Player(); p != nil {
		fmt.Fprintf(out, "  %-10s %d/%d\n", "Health", p.HealthPoints(), p.MaxHealthPoints())
		fmt.Fprintf(out, "  %-10s %d\n", "Ammo", p.Bullets())
	}
	fmt.Fprintf(out, "  %-10s %d\n", "Enemies", len(w.Enemies()))
	fmt.Fprintf(out, "  %-10s %t\n", "Complete", s.Done())
	return nil
}
