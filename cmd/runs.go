package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/execpath/internal/store"
	"github.com/spf13/cobra"
)

var runsDataDir string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage persisted runs",
	Long:  `List, inspect, and delete persisted run records and their step traces.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all persisted runs",
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a persisted run record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var deleteRunCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a persisted run and its trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteRun,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(deleteRunCmd)

	runsCmd.PersistentFlags().StringVar(&runsDataDir, "data-dir", "./data", "Base directory for run storage")
}

func runListRuns(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tALGORITHM\tFUNCTION\tSTEPS\tSTARTED")
	fmt.Fprintln(w, "------\t---------\t--------\t-----\t-------")

	for _, info := range infos {
		displayID := info.RunID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			displayID,
			info.Algorithm,
			info.Function,
			info.Steps,
			info.StartTime.Format("2006-01-02 15:04:05"),
		)
	}

	w.Flush()

	fmt.Printf("\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowRun(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	record, err := runStore.LoadRun(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

func runDeleteRun(cmd *cobra.Command, args []string) error {
	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	if err := runStore.DeleteRun(args[0]); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	fmt.Printf("Deleted run %s\n", args[0])
	return nil
}
