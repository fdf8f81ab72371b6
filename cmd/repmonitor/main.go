package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/RepMonitor/internal/config"
	"github.com/TobiSchelling/RepMonitor/internal/database"
	"github.com/TobiSchelling/RepMonitor/internal/logging"
	"github.com/TobiSchelling/RepMonitor/internal/news"
	"github.com/TobiSchelling/RepMonitor/internal/pipeline"
	"github.com/TobiSchelling/RepMonitor/internal/rating"
	"github.com/TobiSchelling/RepMonitor/internal/report"
	"github.com/TobiSchelling/RepMonitor/internal/server"
	"github.com/TobiSchelling/RepMonitor/internal/translate"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	envFile    string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "repmonitor",
	Short:   "News sentiment monitor",
	Long:    "RepMonitor rates how the domestic and international press talk about a topic.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.InitLogger("info", verbose)

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		config.LoadEnv(envFile)

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logging.InitLogger(cfg.Logging.Level, verbose)
		if path != "" {
			slog.Debug("config loaded", "path", path)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file with API keys")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("repmonitor", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/repmonitor/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to tune locales, lexicon terms, thresholds and the translation provider.")
		return nil
	},
}

// --- analyze command ---

var (
	analyzePeriod string
	jsonOutput    bool
	noCache       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [topic]",
	Short: "Rate the news coverage of a topic",
	Long: `Searches the configured locales for the topic, scores every item and
prints ratings, a summary and the feed. Quote a phrase to search it literally:

  repmonitor analyze '"crisis del pepino"' --period week`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := news.SearchRequest{
			Topic:  strings.Join(args, " "),
			Period: analyzePeriod,
		}

		analyzer, closeStore, err := newAnalyzer(!noCache)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := analyzer.Analyze(ctx, req)
		if err != nil {
			if errors.Is(err, news.ErrEmptyQuery) || errors.Is(err, news.ErrUnknownPeriod) {
				cmd.SilenceUsage = false
			}
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if verbose {
			for i, step := range result.Steps {
				fmt.Fprintf(os.Stderr, "Step %d/%d: %s\n  %s\n", i+1, len(result.Steps), step.Name, step.Summary)
			}
		}
		fmt.Print(report.Markdown(result, reportOptions()))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzePeriod, "period", "p", "24h", "Lookback period label (see config periods)")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the translation cache")
	analyzeCmd.SilenceUsage = true
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, closeStore, err := newAnalyzer(true)
		if err != nil {
			return err
		}
		defer closeStore()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(analyzer, cfg.Periods, reportOptions(), port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- cache command ---

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the translation cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetCacheStats()
		if err != nil {
			return fmt.Errorf("getting cache stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Printf("  Entries: %d\n", stats.Entries)
		fmt.Printf("  Hits:    %d\n", stats.Hits)
		if stats.Oldest != nil {
			fmt.Printf("  Oldest:  %s\n", *stats.Oldest)
		}
		return nil
	},
}

var clearOlderThan time.Duration

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.PruneTranslations(clearOlderThan)
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Printf("Deleted %d cached translation(s).\n", n)
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().DurationVar(&clearOlderThan, "older-than", 0, "Only delete entries older than this (e.g. 720h)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// newAnalyzer wires the pipeline. The translation cache is optional: if the
// database cannot be opened the analysis runs uncached.
func newAnalyzer(useCache bool) (*pipeline.Analyzer, func(), error) {
	var store translate.Store
	closeStore := func() {}

	if useCache && cfg.Translation.Cache {
		db, err := openDB()
		if err != nil {
			slog.Warn("translation cache unavailable", "err", err)
		} else {
			store = db
			closeStore = func() { db.Close() }
		}
	}

	analyzer, err := pipeline.New(cfg, store)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return analyzer, closeStore, nil
}

func reportOptions() report.Options {
	return report.Options{
		Labels: rating.ItemThresholds{
			Good: cfg.Thresholds.Item.Good,
			Bad:  cfg.Thresholds.Item.Bad,
		},
		CardLength: report.DefaultCardLength,
	}
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "repmonitor.db")
	return database.Open(dbPath)
}
