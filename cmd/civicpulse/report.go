package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/civicpulse/civicpulse/internal/database"
	"github.com/civicpulse/civicpulse/internal/pipeline"
	"github.com/civicpulse/civicpulse/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and read predictive reports",
}

var dryRun bool

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the report pipeline: load -> analyze -> save",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		ctx := context.Background()

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun(ctx)
		} else {
			result = pipe.Run(ctx)
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/3: %s\n", i+1, step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}
		if err := result.Err(); err != nil {
			return err
		}

		if dryRun {
			fmt.Println()
			fmt.Println(report.Markdown(result.Report))
			return nil
		}
		fmt.Printf("\nReport #%d saved. Run 'civicpulse report show %d' or 'civicpulse serve' to read it.\n",
			result.ReportID, result.ReportID)
		return nil
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		reports, err := db.ListReports()
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Println("No reports yet. Generate one with: civicpulse report generate")
			return nil
		}
		for _, r := range reports {
			fmt.Printf("  [%d] %s  %s  (%.1f%% confidence, %d recommendations)\n",
				r.ID, database.FormatDisplay(r.GeneratedAt), truncate(r.Title, 60), r.Confidence, r.RecommendationCount)
		}
		return nil
	},
}

var showJSON bool

var reportShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid report ID: %s", args[0])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stored, err := db.GetReport(id)
		if err != nil {
			return err
		}
		if showJSON {
			fmt.Println(string(stored.Data))
			return nil
		}
		fmt.Println(stored.BodyMarkdown)

		predictions, err := db.GetPredictions(id)
		if err != nil {
			return err
		}
		for _, p := range predictions {
			fmt.Printf("\n%s valid until %s\n", p.Type, database.FormatDisplay(p.ValidUntil))
		}
		return nil
	},
}

func init() {
	reportGenerateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build and print the report without saving it")
	reportShowCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw report JSON")

	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
}
