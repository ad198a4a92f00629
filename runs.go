package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/rampage/levels"
	"github.com/milk9111/rampage/storage"
)

var (
	flagLimit int
	flagClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show run history",
	Long: `Display the most recent runs and per-level totals. --level filters the
history to one level; --clear deletes it.

Examples:
  rampage runs
  rampage runs --level level0_data --limit 20
  rampage runs --clear`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "number of runs to show")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "delete the history instead of showing it")
}

func runRuns(cmd *cobra.Command, args []string) error {
	if flagDBPath == "" {
		return fmt.Errorf("run history is disabled (empty --db)")
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	level := flagLevel
	if level != "" {
		level = levels.FileName(level)
	}

	out := cmd.OutOrStdout()
	if flagClear {
		if err := store.ClearRuns(level); err != nil {
			return err
		}
		fmt.Fprintln(out, "Run history cleared.")
		return nil
	}

	runs, err := store.RecentRuns(level, flagLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'rampage play' to start one!")
		return nil
	}

	fmt.Fprintln(out, "Recent runs")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-16s  %-20s  %-9s  %-5s  %-4s  %s\n", "Date", "Level", "Outcome", "Kills", "Ammo", "Time")
	fmt.Fprintf(out, "  %-16s  %-20s  %-9s  %-5s  %-4s  %s\n", "----", "-----", "-------", "-----", "----", "----")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-16s  %-20s  %-9s  %-5d  %-4d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Level, r.Outcome, r.Kills, r.Bullets, r.Duration)
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-20s  %-8s  %-9s  %-5s  %s\n", "Level", "Attempts", "Completed", "Kills", "Best")
	for _, st := range stats {
		if level != "" && st.Level != level {
			continue
		}
		best := "-"
		if st.BestTime > 0 {
			best = st.BestTime.String()
		}
		fmt.Fprintf(out, "  %-20s  %-8d  %-9d  %-5d  %s\n", st.Level, st.Attempts, st.Completions, st.Kills, best)
	}
	return nil
}
