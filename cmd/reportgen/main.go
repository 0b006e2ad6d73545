package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/reportgen/config"
	"github.com/mohammad-safakhou/reportgen/internal/report"
	srv "github.com/mohammad-safakhou/reportgen/internal/server"
	"github.com/mohammad-safakhou/reportgen/internal/telemetry"
	"github.com/mohammad-safakhou/reportgen/provider"
	"github.com/mohammad-safakhou/reportgen/tools/web_search"
)

func main() {
	// credentials may live in a local .env during development
	_ = godotenv.Load()

	root := &cobra.Command{Use: "reportgen", Short: "Business research report generator"}
	var cfgPath string
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	var serveAddr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			pipeline, err := buildPipeline(cfg, report.NopSink{})
			if err != nil {
				return err
			}
			if serveAddr == "" {
				serveAddr = cfg.Server.Address
			}
			return srv.New(pipeline).Run(serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")

	generate := &cobra.Command{
		Use:   "generate [theme]",
		Short: "Generate one report and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			pipeline, err := buildPipeline(cfg, report.WriterSink{W: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			_, state, err := pipeline.Run(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, state.FinalReport())
			fmt.Fprintln(out)
			fmt.Fprintln(out, "References:")
			for _, section := range state.Sections {
				fmt.Fprintf(out, "\n%s:\n", section)
				for _, ref := range state.References[section] {
					fmt.Fprintf(out, "- %s (%s)\n", ref.Title, ref.Link)
				}
			}
			return nil
		},
	}

	root.AddCommand(serve, generate)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildPipeline(cfg *config.Config, progress report.ProgressSink) (*report.Pipeline, error) {
	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	searcher, err := web_search.NewWebSearcher(
		web_search.Provider(cfg.Search.Provider),
		cfg.Search.APIKey,
		cfg.Search.Endpoint,
		cfg.Search.Timeout,
	)
	if err != nil {
		return nil, err
	}
	tel := telemetry.NewTelemetry(cfg.Telemetry, prometheus.DefaultRegisterer)

	planner := report.NewPlanner(llm, cfg.General.DefaultTimeout, tel)
	researcher := report.NewResearcher(llm, searcher, cfg, progress, tel)
	compiler := report.NewCompiler(llm, cfg.General.DefaultTimeout, cfg.Report.SummaryTemperature, cfg.Report.SummaryMaxTokens, tel)
	return report.NewPipeline(planner, researcher, compiler, tel), nil
}
