package commands

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"insightgen/internal/config"
	"insightgen/internal/dataset"
	"insightgen/internal/gemini"
	"insightgen/internal/ingest"
	"insightgen/internal/insight"
	"insightgen/internal/logging"
	"insightgen/internal/pipeline"
	"insightgen/internal/planner"
	"insightgen/internal/report"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	openReport bool
	outputDir  string

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "insightgen [files...]",
	Short: "Insightgen turns raw tabular data into an analysis report",
	Long: `Insightgen ingests CSV, JSON, and SQLite datasets, classifies them with a
Gemini-backed planner (with a deterministic fallback), computes KPIs, resolves
chart bindings, and writes a markdown + JSON report.`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Insightgen starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		datasets := make(map[string]*dataset.Dataset, len(args))
		for _, path := range args {
			ds, err := ingest.Load(ctx, path)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			datasets[ingest.DatasetName(path)] = ds
		}

		engine := &pipeline.Engine{}
		if cfg.Gemini.APIKey != "" {
			client := gemini.NewClient(cfg.Gemini)
			engine.Planner = planner.NewGemini(client)
			engine.Insights = insight.New(client)
		} else {
			log.Warn().Msg("GEMINI_API_KEY not set, using deterministic planning only")
		}

		results, err := engine.AnalyzeAll(ctx, datasets)
		if err != nil {
			return err
		}

		dir := outputDir
		if dir == "" {
			dir = cfg.OutputDir
		}
		path, err := report.Write(dir, results, datasets)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)

		if engine.Insights != nil {
			u := engine.Insights.Usage()
			log.Info().
				Int("requests", u.Requests).
				Int("totalTokens", u.TotalTokens).
				Msg("Insight API usage")
		}

		if openReport {
			if err := browser.OpenFile(path); err != nil {
				log.Warn().Err(err).Msg("Failed to open report")
			}
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&openReport, "open", false, "open the generated report")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "report output directory (default from config)")
}
