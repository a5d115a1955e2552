package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/affinity/internal/ai"
	"github.com/spigell/affinity/internal/ai/gemini"
	"github.com/spigell/affinity/internal/dataset"
	"github.com/spigell/affinity/internal/logger"
	"github.com/spigell/affinity/internal/secrets"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Infer a personality profile from questionnaire answers, posts and voice features",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("signals", "s", "", "a yaml or json file with the user's signals")
	analyzeCmd.Flags().StringP("provider", "p", "", "analyzer provider: rule or gemini (default from analyzer.provider)")
	analyzeCmd.MarkFlagRequired("signals")

	viper.BindPFlag("analyzer.provider", analyzeCmd.Flags().Lookup("provider"))
}

func analyze(cmd *cobra.Command) {
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

	signalsFile := cmd.Flag("signals").Value.String()
	signals, err := dataset.LoadSignals(signalsFile)
	if err != nil {
		logger.Fatal("loading signals", zap.Error(err), zap.String("filename", signalsFile))
	}

	analyzer, err := newAnalyzer(ctx, config.Analyzer, logger)
	if err != nil {
		logger.Fatal("creating an analyzer",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'analyzer.gemini.api-key-file' key in the configuration file"),
		)
	}

	analysis, err := analyzer.Analyze(ctx, signals)
	if err != nil {
		logger.Fatal("analyzing signals", zap.Error(err), zap.String("user_id", signals.UserID))
	}

	logger.Info("analysis finished",
		zap.String("user_id", signals.UserID),
		zap.String("mbti", analysis.Personality.MBTI.Type),
		zap.Float64("mbti_confidence", analysis.Confidence.MBTI),
	)

	pretty, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		logger.Fatal("encoding the analysis", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

func newAnalyzer(ctx context.Context, cfg *AnalyzerConfig, logger *zap.Logger) (ai.Analyzer, error) {
	provider := ai.ProviderRule
	if cfg != nil && strings.TrimSpace(cfg.Provider) != "" {
		provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	}

	switch provider {
	case ai.ProviderRule:
		return ai.NewRuleBased(logger), nil
	case "gemini":
	default:
		return nil, fmt.Errorf("unsupported analyzer provider: %s", provider)
	}

	gc := &GeminiConfig{}
	if cfg != nil && cfg.Gemini != nil {
		gc = cfg.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gc.APIKey,
		File:  gc.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, gemini.GeneratorConfig{
		APIKey:     apiKey,
		Model:      gc.Model,
		MaxRetries: gc.MaxRetries,
	}, logger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyzer(generator, gc.MaxLogLength, logger), nil
}
