package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spigell/resume-advisor/internal/ai"
	"go.uber.org/zap"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a daily study plan for a course and print its first day",
	Run: func(cmd *cobra.Command, _ []string) {
		plan(cmd)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringP("course", "c", "", "course title")
	planCmd.Flags().IntP("hours", "H", 2, "daily hours available for study")
	planCmd.Flags().String("level", ai.DefaultPlanLevel, "course level: Beginner, Intermediate or Advanced")
	planCmd.MarkFlagRequired("course")
}

func plan(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	// Planning always needs the model.
	config.AI.Enabled = true

	_, planner, err := newAIServices(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai services", zap.Error(err))
	}

	course, _ := cmd.Flags().GetString("course")
	hours, _ := cmd.Flags().GetInt("hours")
	level, _ := cmd.Flags().GetString("level")

	req := ai.PlanRequest{CourseName: course, DailyHours: hours, Level: level}
	if err := printPlan(ctx, cmd, planner, req, config.AI.Gemini.Timeout); err != nil {
		logger.Fatal("planning the course", zap.String("course", course), zap.Error(err))
	}
}

func printPlan(ctx context.Context, cmd *cobra.Command, planner ai.Planner, req ai.PlanRequest, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := planner.Plan(ctx, req)
	if err != nil {
		return err
	}

	overview, err := ai.FirstDay(result.Parsed, req)
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(map[string]any{"course_plan": overview}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return err
}
