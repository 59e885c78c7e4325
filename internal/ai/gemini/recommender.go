package gemini

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spigell/resume-advisor/internal/ai"
	"github.com/spigell/resume-advisor/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

const defaultMaxLogLength = 200

type Recommender struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

func NewRecommender(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Recommender {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recommender{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Recommender) SetPromptOverrides(overrides PromptOverrides) {
	r.overrides = overrides
}

// Recommend asks the model for courses matching the profile. A reply that is
// not valid JSON is not an error; it is returned as {"raw": reply}.
func (r *Recommender) Recommend(ctx context.Context, profile ai.Profile) (*ai.Recommendation, error) {
	prompt := buildRecommendPrompt(profile, r.overrides)

	raw, err := generate(ctx, r.generator, r.logger, r.maxLogLen, recommendSystem, prompt,
		zap.String("seniority", profile.Seniority),
		zap.Int("skills", len(profile.Skills)),
	)
	if err != nil {
		return nil, err
	}

	return &ai.Recommendation{
		Prompt: prompt,
		Raw:    raw,
		Parsed: parseResponse(raw),
	}, nil
}

// generate runs a single prompt and logs previews of both sides. Errors are
// always reported as ai.ErrServiceUnavailable.
func generate(ctx context.Context, generator contentGenerator, logger *zap.Logger, maxLogLen int, system, prompt string, fields ...zap.Field) (string, error) {
	if generator == nil {
		return "", fmt.Errorf("%w: no generator configured", ai.ErrServiceUnavailable)
	}

	logger.Debug("gemini generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, maxLogLen)),
	)...)

	raw, err := generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		if !errors.Is(err, ai.ErrServiceUnavailable) {
			err = fmt.Errorf("%w: %w", ai.ErrServiceUnavailable, err)
		}
		return "", err
	}

	logger.Debug("gemini generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, maxLogLen)),
	)...)

	return raw, nil
}
