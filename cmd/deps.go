package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"github.com/spigell/resume-advisor/internal/ai"
	"github.com/spigell/resume-advisor/internal/ai/gemini"
	"github.com/spigell/resume-advisor/internal/document"
	"github.com/spigell/resume-advisor/internal/logger"
	"github.com/spigell/resume-advisor/internal/resume"
	"github.com/spigell/resume-advisor/internal/secrets"
	"github.com/spigell/resume-advisor/internal/skills"
	"go.uber.org/zap"
)

// setup returns the logger and the parsed configuration, exiting on failure.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(logger.Config{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		// stdout carries command output.
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return logger, config
}

func loadVocabulary(cfg *SkillsConfig, logger *zap.Logger) (*skills.Vocabulary, error) {
	path := strings.TrimSpace(cfg.VocabularyFile)
	if path == "" {
		vocab := skills.Default()
		logger.Debug("using built-in skill vocabulary", zap.Int("skills", vocab.Len()))
		return vocab, nil
	}

	vocab, err := skills.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading skill vocabulary: %w", err)
	}

	logger.Info("loaded skill vocabulary", zap.String("file", path), zap.Int("skills", vocab.Len()))
	return vocab, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	return gemini.NewGenerator(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
		Logger:     logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)),
	})
}

// newAIServices builds the recommender and planner. Both are nil when AI is
// disabled.
func newAIServices(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Recommender, ai.Planner, error) {
	if !cfg.Enabled {
		log.Info("ai recommendations are disabled")
		return nil, nil, nil
	}

	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	aiLogger := logger.WithCommonFields(log, gemini.ProviderName, generator.Model())

	recommender := gemini.NewRecommender(generator, aiLogger, cfg.Gemini.MaxLogLength)
	recommender.SetPromptOverrides(gemini.PromptOverrides{
		Goals:     cfg.Goals,
		Platforms: cfg.Platforms,
	})

	planner := gemini.NewPlanner(generator, aiLogger, cfg.Gemini.MaxLogLength)

	return recommender, planner, nil
}

func newAnalyzer(config *Config, recommender ai.Recommender, log *zap.Logger) (*resume.Analyzer, error) {
	vocab, err := loadVocabulary(config.Skills, log)
	if err != nil {
		return nil, err
	}

	return resume.NewAnalyzer(document.NewExtractor(log), resume.Options{
		Vocabulary:       vocab,
		Recommender:      recommender,
		RecommendTimeout: config.AI.Gemini.Timeout,
		Logger:           log,
	}), nil
}
