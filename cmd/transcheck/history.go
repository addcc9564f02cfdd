package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ternarybob/transcheck/internal/app"
	"github.com/ternarybob/transcheck/internal/common"
	"github.com/ternarybob/transcheck/internal/models"
	"github.com/ternarybob/transcheck/internal/report"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 lists all)")
	historyCmd.AddCommand(historyShowCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := setup(common.FlagOverrides{}); err != nil {
		return err
	}

	storage, err := app.OpenRunStorage(config, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	runs, err := storage.ListRuns(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Started", "Base", "Translators", "Status", "Duration"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.BaseBranch,
			len(run.TranslatorIDs),
			run.Status(),
			run.Duration().Round(time.Millisecond).String(),
		})
	}
	t.Render()
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if err := setup(common.FlagOverrides{}); err != nil {
		return err
	}

	storage, err := app.OpenRunStorage(config, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	run, err := storage.GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	printRun(run)
	return nil
}

func printRun(run *models.RunRecord) {
	fmt.Printf("Run:         %s\n", run.ID)
	fmt.Printf("Status:      %s\n", run.Status())
	fmt.Printf("Started:     %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Printf("Duration:    %s\n", run.Duration().Round(time.Millisecond))
	fmt.Printf("Base branch: %s\n", run.BaseBranch)
	fmt.Printf("Translators: %s\n", strings.Join(run.TranslatorIDs, ", "))
	if run.ArtifactsDir != "" {
		fmt.Printf("Artifacts:   %s\n", run.ArtifactsDir)
	}
	if run.Error != "" {
		fmt.Printf("Error:       %s\n", run.Error)
		return
	}

	fmt.Println()
	summary := &report.Summary{Subjects: run.Subjects}
	summary.RenderTable(os.Stdout)
}
