// Package resume ties document extraction, skill matching, experience
// estimation and course recommendations into a single analysis.
package resume

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/resume-advisor/internal/ai"
	"github.com/spigell/resume-advisor/internal/document"
	"github.com/spigell/resume-advisor/internal/experience"
	"github.com/spigell/resume-advisor/internal/skills"
	"go.uber.org/zap"
)

type textExtractor interface {
	Extract(ctx context.Context, in document.Input) (*document.Document, error)
}

// Signals are the facts derived from résumé text alone.
type Signals struct {
	Skills []string `json:"skills"`
	// Experience is nil when no phrasing in the text states a duration.
	Experience *float64 `json:"experience"`
	Seniority  string   `json:"seniority"`
}

// ExtractSignals matches skills and estimates experience in text.
func ExtractSignals(text string, vocab *skills.Vocabulary) Signals {
	signals := Signals{Skills: skills.Match(text, vocab)}

	if years, ok := experience.Estimate(text); ok {
		signals.Experience = &years
	}
	signals.Seniority = experience.ClassifyEstimate(signals.Experience)

	return signals
}

// Profile converts the signals into the recommender input.
func (s Signals) Profile() ai.Profile {
	return ai.Profile{
		Seniority: s.Seniority,
		Skills:    s.Skills,
		Years:     s.Experience,
	}
}

// Analysis is the complete result for one uploaded document.
type Analysis struct {
	Filename string `json:"filename"`
	Signals
	SkillGroups map[string][]string `json:"skill_groups,omitempty"`
	Document    *document.Document  `json:"document"`
	Text        string              `json:"-"`

	// Recommendation is nil when recommendations were not requested.
	Recommendation *ai.Recommendation `json:"-"`
	Summary        string             `json:"summary,omitempty"`
	Courses        []ai.Course        `json:"course_list"`
}

// HasText reports whether any text was extracted from the document.
func (a *Analysis) HasText() bool {
	return a != nil && !a.Document.Empty()
}

type Options struct {
	Vocabulary *skills.Vocabulary
	// Recommender is optional; without one no recommendations are requested.
	Recommender ai.Recommender
	// RecommendTimeout bounds a single recommendation request when positive.
	RecommendTimeout time.Duration
	Logger           *zap.Logger
}

type Analyzer struct {
	extractor   textExtractor
	vocab       *skills.Vocabulary
	recommender ai.Recommender
	timeout     time.Duration
	logger      *zap.Logger
}

func NewAnalyzer(extractor textExtractor, opts Options) *Analyzer {
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = skills.Default()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		extractor:   extractor,
		vocab:       vocab,
		recommender: opts.Recommender,
		timeout:     opts.RecommendTimeout,
		logger:      logger,
	}
}

// RecommendationsEnabled reports whether Analyze will call the recommender.
func (a *Analyzer) RecommendationsEnabled() bool {
	return a.recommender != nil
}

// Analyze extracts the document and derives its signals. Recommendations are
// requested only when the document has text and a recommender is configured.
func (a *Analyzer) Analyze(ctx context.Context, in document.Input) (*Analysis, error) {
	doc, err := a.extractor.Extract(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("extracting %q: %w", in.Filename, err)
	}

	analysis := &Analysis{
		Filename: in.Filename,
		Document: doc,
		Text:     doc.Text,
		Courses:  make([]ai.Course, 0),
	}

	if !analysis.HasText() {
		a.logger.Info("no extractable text found",
			zap.String("format", string(doc.Format)),
			zap.Int("pages", doc.Pages),
		)
		analysis.Signals = Signals{Skills: make([]string, 0), Seniority: experience.SeniorityUnknown}
		return analysis, nil
	}

	analysis.Signals = ExtractSignals(doc.Text, a.vocab)
	analysis.SkillGroups = skills.Grouped(analysis.Skills, a.vocab)

	fields := []zap.Field{
		zap.Strings("skills", analysis.Skills),
		zap.String("seniority", analysis.Seniority),
		zap.Int("pages", doc.Pages),
		zap.Int("pages_with_text", doc.PagesWithText),
	}
	if analysis.Experience != nil {
		fields = append(fields, zap.Float64("experience", *analysis.Experience))
	}
	a.logger.Info("extracted resume signals", fields...)

	if a.recommender == nil {
		return analysis, nil
	}

	rec, err := a.recommend(ctx, analysis.Profile())
	if err != nil {
		return nil, fmt.Errorf("requesting recommendations: %w", err)
	}
	if rec == nil {
		rec = &ai.Recommendation{Parsed: map[string]any{}}
	}

	analysis.Recommendation = rec
	analysis.Courses = ai.CourseList(rec.Parsed)
	analysis.Summary = ai.Summary(rec.Parsed)

	a.logger.Info("received recommendations", zap.Int("courses", len(analysis.Courses)))

	return analysis, nil
}

func (a *Analyzer) recommend(ctx context.Context, profile ai.Profile) (*ai.Recommendation, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	return a.recommender.Recommend(ctx, profile)
}
