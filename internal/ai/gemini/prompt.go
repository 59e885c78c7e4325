package gemini

import (
	_ "embed"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/resume-advisor/internal/ai"
)

//go:embed prompts/recommend_system.md
var recommendSystem string

//go:embed prompts/recommend.md
var recommendTemplate string

//go:embed prompts/plan_system.md
var planSystem string

//go:embed prompts/plan.md
var planTemplate string

const (
	maxUserInstructionRunes = 600
	maxSingleLineRunes      = 200
	noneValue               = "none"
)

// PromptOverrides carries user-supplied preferences that are placed into the
// recommendation prompt after sanitization.
type PromptOverrides struct {
	// Goals is free-form, possibly multi-line, career goal text.
	Goals string
	// Platforms lists preferred learning platforms on a single line.
	Platforms string
}

func buildRecommendPrompt(profile ai.Profile, overrides PromptOverrides) string {
	skills := "None"
	if len(profile.Skills) > 0 {
		skills = strings.Join(profile.Skills, ", ")
	}

	years := "unknown"
	if profile.Years != nil {
		years = strconv.FormatFloat(*profile.Years, 'f', -1, 64)
	}

	seniority := sanitizeSingleLine(profile.Seniority)
	if seniority == "" {
		seniority = "Unknown"
	}

	return strings.NewReplacer(
		"{{SENIORITY}}", seniority,
		"{{YEARS}}", years,
		"{{SKILLS}}", skills,
		"{{PLATFORMS}}", orNone(sanitizeSingleLine(overrides.Platforms)),
		"{{GOALS}}", sanitizeInstructions(overrides.Goals),
	).Replace(strings.TrimSpace(recommendTemplate))
}

func buildPlanPrompt(req ai.PlanRequest) string {
	level := sanitizeSingleLine(req.Level)
	if level == "" {
		level = ai.DefaultPlanLevel
	}

	return strings.NewReplacer(
		"{{COURSE}}", sanitizeSingleLine(req.CourseName),
		"{{DAILY_HOURS}}", strconv.Itoa(req.DailyHours),
		"{{LEVEL}}", level,
	).Replace(strings.TrimSpace(planTemplate))
}

// sanitizeSingleLine collapses whitespace and neutralises section markers so
// user text cannot open a new prompt section.
func sanitizeSingleLine(s string) string {
	s = neutraliseBrackets(strings.Join(strings.Fields(s), " "))
	return truncateRunes(s, maxSingleLineRunes)
}

// sanitizeInstructions renders multi-line user text as an indented list,
// one entry per non-empty line, capped at maxUserInstructionRunes.
func sanitizeInstructions(s string) string {
	budget := maxUserInstructionRunes

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = neutraliseBrackets(strings.Join(strings.Fields(line), " "))
		if line == "" || budget <= 0 {
			continue
		}
		line = truncateRunes(line, budget)
		budget -= utf8.RuneCountInString(line)
		lines = append(lines, "  - "+line)
	}

	if len(lines) == 0 {
		return "  - " + noneValue
	}

	return strings.Join(lines, "\n")
}

func neutraliseBrackets(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '[':
			return '('
		case ']':
			return ')'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func orNone(s string) string {
	if s == "" {
		return noneValue
	}
	return s
}
