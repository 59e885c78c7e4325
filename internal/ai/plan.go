package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNoFirstDay is returned when a generated plan has no entry for day 1.
var ErrNoFirstDay = errors.New("day 1 not found in plan")

// DefaultPlanLevel is used when a plan request names no level.
const DefaultPlanLevel = "Intermediate"

// PlanRequest asks for a daily study plan for a single course.
type PlanRequest struct {
	CourseName string
	DailyHours int
	// Level is Beginner, Intermediate or Advanced.
	Level string
}

// Validate reports whether the request can be sent to a planner.
func (r PlanRequest) Validate() error {
	if strings.TrimSpace(r.CourseName) == "" {
		return errors.New("course name is required")
	}
	if r.DailyHours <= 0 {
		return fmt.Errorf("daily hours must be positive, got %d", r.DailyHours)
	}
	return nil
}

// Plan is the parsed reply of a planner.
type Plan struct {
	Prompt string
	Raw    string
	Parsed map[string]any
}

// Planner generates study plans for courses.
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (*Plan, error)
}

// PlanOverview is the short form of a plan returned to clients.
type PlanOverview struct {
	BasicInfo BasicInfo      `json:"basic_info"`
	Day1      map[string]any `json:"day1"`
}

type BasicInfo struct {
	CourseTitle string `json:"course_title"`
	DailyHours  any    `json:"daily_hours"`
}

// FirstDay picks the day 1 entry out of a parsed plan. Title and hours the
// plan omits are filled from the request.
func FirstDay(parsed map[string]any, req PlanRequest) (*PlanOverview, error) {
	days, _ := parsed["days"].([]any)

	var day1 map[string]any
	for _, item := range days {
		day, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if number := coerceFloat(day["day"]); !math.IsNaN(number) && number == 1 {
			day1 = day
			break
		}
	}

	if day1 == nil {
		return nil, ErrNoFirstDay
	}

	info := BasicInfo{
		CourseTitle: coerceString(parsed["course_title"]),
		DailyHours:  parsed["daily_hours"],
	}
	if info.CourseTitle == "" {
		info.CourseTitle = strings.TrimSpace(req.CourseName)
	}
	if info.DailyHours == nil {
		info.DailyHours = req.DailyHours
	}

	return &PlanOverview{BasicInfo: info, Day1: day1}, nil
}
