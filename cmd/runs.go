package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/store"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/verifier"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored verification runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		runs, err := st.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no verification runs recorded")
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %-8s  %3d candidates  %3d passed  %s\n",
				run.ID, run.Status, run.Candidates, run.Passed,
				run.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var runShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the stored results of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		verified, err := st.ListVerified(cmd.Context(), run.ID)
		if err != nil {
			return err
		}

		fmt.Println(verifier.FormatReport(verified, run.CreatedAt.Local()))
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	runsCmd.AddCommand(runShowCmd)
	rootCmd.AddCommand(runsCmd)
}
