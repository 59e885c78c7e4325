package gemini

import (
	"context"

	"github.com/spigell/resume-advisor/internal/ai"
	"go.uber.org/zap"
)

type Planner struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewPlanner(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Planner {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Planner{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

// Plan requests a daily study plan for a course.
func (p *Planner) Plan(ctx context.Context, req ai.PlanRequest) (*ai.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := buildPlanPrompt(req)

	raw, err := generate(ctx, p.generator, p.logger, p.maxLogLen, planSystem, prompt,
		zap.String("course", req.CourseName),
		zap.Int("daily_hours", req.DailyHours),
	)
	if err != nil {
		return nil, err
	}

	return &ai.Plan{
		Prompt: prompt,
		Raw:    raw,
		Parsed: parseResponse(raw),
	}, nil
}
