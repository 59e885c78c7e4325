package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spigell/resume-advisor/internal/ai"
	"github.com/spigell/resume-advisor/internal/document"
	"github.com/spigell/resume-advisor/internal/resume"
	"github.com/spigell/resume-advisor/internal/utils"
	"go.uber.org/zap"
)

const PromptSkip = "Skip"

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a resume file and print skills, experience and course recommendations",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Bool("no-ai", false, "only extract skills and experience")
	analyzeCmd.Flags().StringP("output", "o", "", "write the analysis to a file instead of stdout")
	analyzeCmd.Flags().Bool("pick", false, "choose a recommended course and generate a study plan for it")
	analyzeCmd.Flags().Int("snippet-length", 0, "include the first N characters of the text in the output")
}

type analyzeOutput struct {
	*resume.Analysis
	Snippet string `json:"full_text_snippet,omitempty"`
}

func analyze(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, config := setup()

	if noAI, _ := cmd.Flags().GetBool("no-ai"); noAI {
		config.AI.Enabled = false
	}

	recommender, planner, err := newAIServices(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai services", zap.Error(err))
	}

	analyzer, err := newAnalyzer(config, recommender, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading resume", zap.String("file", path), zap.Error(err))
	}

	analysis, err := analyzer.Analyze(ctx, document.Input{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        data,
	})
	if err != nil {
		logger.Fatal("analyzing resume", zap.String("file", path), zap.Error(err))
	}

	out := analyzeOutput{Analysis: analysis}
	if n, _ := cmd.Flags().GetInt("snippet-length"); n > 0 {
		out.Snippet = utils.Snippet(analysis.Text, n)
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("encoding analysis", zap.Error(err))
	}

	if err := writeOutput(cmd, pretty); err != nil {
		logger.Fatal("writing analysis", zap.Error(err))
	}

	if pick, _ := cmd.Flags().GetBool("pick"); !pick {
		return
	}

	if planner == nil || len(analysis.Courses) == 0 {
		logger.Info("nothing to pick", zap.Int("courses", len(analysis.Courses)))
		return
	}

	req, err := pickCourse(analysis.Courses)
	if err != nil {
		if errors.Is(err, errSkipped) {
			return
		}
		logger.Fatal("picking a course", zap.Error(err))
	}

	if err := printPlan(ctx, cmd, planner, req, config.AI.Gemini.Timeout); err != nil {
		logger.Fatal("planning the course", zap.String("course", req.CourseName), zap.Error(err))
	}
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return os.WriteFile(output, append(data, '\n'), 0o644)
}

var errSkipped = errors.New("skipped by user")

func pickCourse(courses []ai.Course) (ai.PlanRequest, error) {
	items := make([]string, 0, len(courses)+1)
	for i, course := range courses {
		label := course.Title
		if level := course.Detail("level"); level != "" {
			label = fmt.Sprintf("%s (%s)", label, level)
		}
		items = append(items, fmt.Sprintf("%d. %s", i+1, label))
	}

	coursePrompt := promptui.Select{
		Label: "Choose a course to plan and press ENTER",
		Items: append(items, PromptSkip),
	}

	idx, selected, err := coursePrompt.Run()
	if err != nil {
		return ai.PlanRequest{}, err
	}
	if selected == PromptSkip {
		return ai.PlanRequest{}, errSkipped
	}

	hoursPrompt := promptui.Prompt{
		Label:   "Daily hours available for study",
		Default: "2",
		Validate: func(input string) error {
			hours, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || hours <= 0 {
				return errors.New("enter a positive whole number")
			}
			return nil
		},
	}

	input, err := hoursPrompt.Run()
	if err != nil {
		return ai.PlanRequest{}, err
	}

	hours, _ := strconv.Atoi(strings.TrimSpace(input))

	return ai.PlanRequest{CourseName: courses[idx].Title, DailyHours: hours}, nil
}
