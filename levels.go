package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/rampage/levels"
	"github.com/milk9111/rampage/obj"
	"github.com/milk9111/rampage/prefabs"
	"github.com/milk9111/rampage/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the campaign levels",
	Long: `Show every level of the campaign in play order with its size, what
spawns in it and the best completed run from the history database.`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

type levelSummary struct {
	columns, rows int
	enemies       int
	pickups       int
}

func summarize(lvl *levels.Level, cfg obj.Config) levelSummary {
	sum := levelSummary{columns: lvl.Attributes.LevelSize, rows: lvl.Attributes.LevelHeight}
	for _, t := range lvl.Tiles {
		if _, ok := cfg.Enemies.ByTile(t.Type); ok {
			sum.enemies++
		}
		if _, ok := cfg.Collectibles.ByTile(t.Type); ok {
			sum.pickups++
		}
	}
	return sum
}

func runLevels(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := obj.LoadConfig()
	if err != nil {
		return err
	}
	campaign, err := prefabs.LoadCampaignSpec()
	if err != nil {
		return err
	}
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Campaign %q\n\n", campaign.Name)
	fmt.Fprintf(out, "  %-3s  %-20s  %-8s  %-7s  %-7s  %s\n", "#", "Level", "Size", "Enemies", "Pickups", "Best")
	fmt.Fprintf(out, "  %-3s  %-20s  %-8s  %-7s  %-7s  %s\n", "-", "-----", "----", "-------", "-------", "----")

	for i, name := range campaign.Levels {
		lvl, err := levels.LoadLevelFromFS(name)
		if err != nil {
			fmt.Fprintf(out, "  %-3d  %-20s  invalid: %v\n", i+1, name, err)
			continue
		}
		sum := summarize(lvl, cfg)
		best := "-"
		if store != nil {
			run, err := store.BestRun(lvl.Name)
			switch {
			case err == nil:
				best = fmt.Sprintf("%s (%d kills)", run.Duration, run.Kills)
			case !errors.Is(err, storage.ErrNoRuns):
				logger.Warn("best run", "level", lvl.Name, "err", err)
			}
		}
		fmt.Fprintf(out, "  %-3d  %-20s  %-8s  %-7d  %-7d  %s\n",
			i+1, lvl.Name, fmt.Sprintf("%dx%d", sum.columns, sum.rows), sum.enemies, sum.pickups, best)
	}
	return nil
}
