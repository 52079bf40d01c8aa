package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicpulse/civicpulse/internal/config"
	"github.com/civicpulse/civicpulse/internal/database"
	"github.com/civicpulse/civicpulse/internal/pipeline"
	"github.com/civicpulse/civicpulse/internal/report"
	"github.com/civicpulse/civicpulse/internal/server"
	"github.com/civicpulse/civicpulse/internal/taxonomy"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "civicpulse",
	Short:   "Citizen feedback analytics and reports",
	Long:    "CivicPulse records citizen complaints, policy feedback and service ratings, and turns them into predictive reports for government ministries.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setLogFlags(verbose)

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		setLogFlags(verbose || cfg.Logging.Level == "DEBUG")
		return nil
	},
}

func setLogFlags(detailed bool) {
	if detailed {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(complaintCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(ratingCmd)
	rootCmd.AddCommand(districtCmd)
	rootCmd.AddCommand(ministryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("civicpulse", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/civicpulse/ and register the ministries",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if configPath != "" {
			target = configPath
		}

		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
		} else {
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Printf("Created config: %s\n", target)
		}

		var err error
		if cfg, err = config.Load(target); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		added := 0
		for _, e := range taxonomy.Default().Entries() {
			id, err := db.InsertMinistry(e.Ministry, e.MinistryCode)
			if err != nil {
				return err
			}
			if id != 0 {
				added++
			}
		}
		fmt.Printf("Database: %s (%d ministries registered)\n", db.Path(), added)
		fmt.Println("Add districts with: civicpulse district add NAME REGION")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}
		snap, err := db.Snapshot(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading records: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Println("Complaints:")
		fmt.Printf("  Total: %d\n", stats.Complaints)
		fmt.Printf("  Pending: %d\n", stats.PendingComplaints)
		fmt.Printf("  In progress: %d\n", stats.InProgressComplaints)
		fmt.Printf("  Resolved: %d\n", stats.ResolvedComplaints)
		fmt.Printf("  Urgent / High / Normal: %d / %d / %d\n",
			stats.UrgentComplaints, stats.HighComplaints, stats.NormalComplaints)
		fmt.Println("\nCitizen input:")
		fmt.Printf("  Registered citizens: %d\n", stats.Citizens)
		fmt.Printf("  Policies: %d\n", stats.Policies)
		fmt.Printf("  Policy feedback: %d\n", stats.Feedback)
		fmt.Printf("  Service ratings: %d\n", stats.Ratings)
		fmt.Println("\nDirectory:")
		fmt.Printf("  Ministries: %d\n", stats.Ministries)
		fmt.Printf("  Districts: %d\n", stats.Districts)
		fmt.Println("\nOutput:")
		fmt.Printf("  Reports: %d\n", stats.Reports)

		printDistribution(report.Distribute(snap, time.Now()))
		return nil
	},
}

func printDistribution(d report.Distribution) {
	if len(d.ByMinistry) > 0 {
		fmt.Println("\nBy ministry (total / pending / in progress / resolved):")
		for _, m := range d.ByMinistry {
			fmt.Printf("  %-6s %4d / %4d / %4d / %4d  %5.1f%%\n",
				m.Code, m.Total, m.Pending, m.InProgress, m.Resolved, m.ResolutionRate)
		}
	}
	if len(d.ByDistrict) > 0 {
		fmt.Println("\nBy district (total / pending / resolved):")
		for _, dc := range d.ByDistrict {
			fmt.Printf("  %-20s %4d / %4d / %4d\n", truncate(dc.District, 20), dc.Total, dc.Pending, dc.Resolved)
		}
	}
	if len(d.ByCategory) > 0 {
		fmt.Println("\nBy category:")
		for _, c := range d.ByCategory {
			fmt.Printf("  %-20s %4d\n", c.Category, c.Count)
		}
	}
	if len(d.Unresolved) > 0 {
		fmt.Println("\nMost unresolved:")
		for _, u := range d.Unresolved {
			fmt.Printf("  %4d  %s\n", u.Count, u.Ministry)
		}
	}
	fmt.Printf("\nLast %d months:\n", len(d.Timeline))
	for _, b := range d.Timeline {
		fmt.Printf("  %s  %4d\n", b.Label(), b.Count)
	}
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server and the report scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched, err := pipeline.NewScheduler(cfg.Reports.Schedule, pipeline.New(cfg, db))
		switch {
		case errors.Is(err, pipeline.ErrNoSchedule):
			log.Println("Scheduled reports disabled (reports.schedule not set)")
		case err != nil:
			return err
		default:
			sched.Start(ctx)
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ctx, db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on (overrides config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(filepath.Join(dataDir, database.FileName))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
