package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/affinity/internal/connections"
	"github.com/spigell/affinity/internal/dataset"
	"github.com/spigell/affinity/internal/logger"
	"github.com/spigell/affinity/internal/matching"
)

const (
	PromptBrowse      = "Browse matches"
	PromptExclusions  = "Report exclusions"
	PromptFilters     = "Report filters"
	PromptMatchesFile = "Dump matches to file"
	PromptExit        = "Exit"
	PromptBack        = "back"
)

// Package-level alias, the logger package is shadowed inside handlers.
const (
	fieldCandidate = logger.FieldCandidate
	fieldBatch     = logger.FieldBatch
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptBrowse, PromptExclusions, PromptFilters, PromptMatchesFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the candidates of a batch file for its seeker",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("batch", "b", "", "a yaml or json file with the seeker, candidates and interest frequencies")
	matchCmd.Flags().StringP("output", "o", "", "write the full outcome as json to this file")
	matchCmd.Flags().BoolP("interactive", "i", false, "browse the results interactively")
	matchCmd.Flags().StringSlice("skip-filter", nil, "disable a filter by name: deal_breakers, max_distance or max_age_gap")
	matchCmd.MarkFlagRequired("batch")

	viper.BindPFlag("matching.skip-filters", matchCmd.Flags().Lookup("skip-filter"))
}

func match(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the affinity matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config.Matching, "", "  ")
	logger.Debug(fmt.Sprintf("starting with matching config: \n %s", pretty))

	batchFile := cmd.Flag("batch").Value.String()
	batch, err := dataset.LoadBatch(batchFile)
	if err != nil {
		logger.Fatal("loading a batch", zap.Error(err), zap.String("filename", batchFile))
	}

	registry := prometheus.NewRegistry()
	opts := []matching.Option{matching.WithMetrics(matching.NewMetrics(registry))}
	if len(batch.Frequencies) > 0 {
		opts = append(opts, matching.WithFrequencies(connections.MapFrequencyTable(batch.Frequencies)))
	}

	engine, err := matching.New(config.Matching, logger, opts...)
	if err != nil {
		logger.Fatal("creating the matching engine", zap.Error(err))
	}

	outcome, err := engine.FindMatches(ctx, batch.Seeker, batch.Candidates)
	switch {
	case err != nil && outcome == nil:
		logger.Fatal("matching failed", zap.Error(err))
	case err != nil:
		logger.Warn("matching interrupted, results are partial",
			zap.Error(err),
			zap.Int("abandoned", len(outcome.Abandoned)),
		)
	}

	reportOutcome(logger, outcome)
	reportMetrics(logger, registry)

	if output := cmd.Flag("output").Value.String(); output != "" {
		filename, err := dataset.WriteOutcomeFile(output, outcome)
		if err != nil {
			logger.Fatal("writing the outcome", zap.Error(err))
		}
		logger.Info("outcome written", zap.String("filename", filename))
	}

	if cmd.Flag("interactive").Value.String() == "false" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, engine, outcome); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, engine *matching.Engine, outcome *matching.Outcome) error {
	switch action {
	case PromptBrowse:
		return browse(logger, outcome)
	case PromptExclusions:
		pretty, _ := json.MarshalIndent(struct {
			Excluded  []matching.Exclusion      `json:"excluded"`
			Rejected  []matching.CandidateError `json:"rejected"`
			Abandoned []string                  `json:"abandoned,omitempty"`
		}{outcome.Excluded, outcome.Rejected, outcome.Abandoned}, "", "  ")
		logger.Info(string(pretty), zap.Int("excluded count", len(outcome.Excluded)+len(outcome.Rejected)))
		return nil
	case PromptFilters:
		pretty, _ := json.MarshalIndent(engine.Filters(), "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptMatchesFile:
		filename, err := dataset.WriteOutcomeFile("", outcome)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func browse(logger *zap.Logger, outcome *matching.Outcome) error {
	rows := dataset.Summarize(outcome)
	if len(rows) == 0 {
		logger.Info("nothing to browse", zap.String("reason", "no matches"))
		return nil
	}

	items := make([]string, 0, len(rows)+1)
	for _, r := range rows {
		items = append(items, fmt.Sprintf("%d %s / %.3f / risk %.2f", r.Rank, r.CandidateID, r.Score, r.RiskLevel))
	}

	for {
		matchPrompt := promptui.Select{
			Label: "Choose a match and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := matchPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		m := outcome.Matches[idx]
		pretty, _ := json.MarshalIndent(m, "", "  ")
		logger.Info(string(pretty),
			zap.String(fieldCandidate, m.Candidate.ID),
			zap.String("risk_areas", strings.Join(m.Risk.Areas, ",")),
		)
	}
}

func reportOutcome(logger *zap.Logger, outcome *matching.Outcome) {
	for _, row := range dataset.Summarize(outcome) {
		logger.Info("match",
			zap.Int("rank", row.Rank),
			zap.String(fieldCandidate, row.CandidateID),
			zap.Float64("score", row.Score),
			zap.Float64("risk_level", row.RiskLevel),
			zap.Strings("risk_areas", row.RiskAreas),
			zap.String("starter", row.Starter),
		)
	}

	for _, ex := range outcome.Excluded {
		logger.Debug("excluded", zap.String(fieldCandidate, ex.CandidateID), zap.String("stage", ex.Stage), zap.String("reason", ex.Reason))
	}

	for _, rej := range outcome.Rejected {
		logger.Warn("rejected", zap.String(fieldCandidate, rej.CandidateID), zap.String("error", rej.Message))
	}

	logger.Info("batch finished",
		zap.String(fieldBatch, outcome.BatchID),
		zap.Int("matches", len(outcome.Matches)),
		zap.Int("excluded", len(outcome.Excluded)),
		zap.Int("rejected", len(outcome.Rejected)),
		zap.Int("abandoned", len(outcome.Abandoned)),
	)
}

func reportMetrics(logger *zap.Logger, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		logger.Warn("gathering metrics", zap.Error(err))
		return
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, l := range m.GetLabel() {
				fields = append(fields, zap.String(l.GetName(), l.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()),
				)
			}
			logger.Debug("metric", fields...)
		}
	}
}
