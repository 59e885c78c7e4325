package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/spigell/resume-advisor/internal/ai"
	"github.com/spigell/resume-advisor/internal/document"
	internalutils "github.com/spigell/resume-advisor/internal/utils"
	"go.uber.org/zap"
)

const noTextMessage = "Document uploaded, but no extractable text found."

type uploadResponse struct {
	Filename        string      `json:"filename"`
	Skills          []string    `json:"skills"`
	Experience      *float64    `json:"experience"`
	Seniority       string      `json:"seniority"`
	FullTextSnippet string      `json:"full_text_snippet"`
	Summary         string      `json:"summary,omitempty"`
	CourseList      []ai.Course `json:"course_list"`
}

type noTextResponse struct {
	Message    string   `json:"message"`
	Skills     []string `json:"skills"`
	Experience *float64 `json:"experience"`
}

type coursePlanResponse struct {
	CoursePlan *ai.PlanOverview `json:"course_plan"`
}

func (s *Server) uploadResume(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.fail(c, consts.StatusBadRequest, "file is required", err)
		return
	}

	log := s.requestLogger(c, fileHeader.Filename)

	if fileHeader.Size > s.cfg.MaxUploadSize {
		s.fail(c, consts.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d bytes limit", s.cfg.MaxUploadSize), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.fail(c, consts.StatusInternalServerError, "failed to open uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(c, consts.StatusInternalServerError, "failed to read uploaded file", err)
		return
	}

	log.Info("analyzing uploaded document", zap.Int("size", len(data)))

	analysis, err := s.analyzer.Analyze(ctx, document.Input{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		status := statusFor(err)
		log.Warn("analysis failed", zap.Int("status", status), zap.Error(err))
		s.fail(c, status, detailFor(status, err), err)
		return
	}

	if !analysis.HasText() {
		c.JSON(consts.StatusOK, noTextResponse{
			Message: noTextMessage,
			Skills:  make([]string, 0),
		})
		return
	}

	c.JSON(consts.StatusOK, uploadResponse{
		Filename:        analysis.Filename,
		Skills:          analysis.Skills,
		Experience:      analysis.Experience,
		Seniority:       analysis.Seniority,
		FullTextSnippet: internalutils.Snippet(analysis.Text, s.cfg.SnippetLength),
		Summary:         analysis.Summary,
		CourseList:      analysis.Courses,
	})
}

func (s *Server) coursePlan(ctx context.Context, c *app.RequestContext) {
	if s.planner == nil {
		s.fail(c, consts.StatusServiceUnavailable, "course planning is not configured", nil)
		return
	}

	hours, err := strconv.Atoi(strings.TrimSpace(c.PostForm("daily_hours")))
	if err != nil {
		s.fail(c, consts.StatusBadRequest, "daily_hours must be an integer", err)
		return
	}

	req := ai.PlanRequest{
		CourseName: strings.TrimSpace(c.PostForm("course_name")),
		DailyHours: hours,
		Level:      strings.TrimSpace(c.PostForm("level")),
	}
	if err := req.Validate(); err != nil {
		s.fail(c, consts.StatusBadRequest, err.Error(), err)
		return
	}

	if s.cfg.PlanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PlanTimeout)
		defer cancel()
	}

	plan, err := s.planner.Plan(ctx, req)
	if err == nil {
		var overview *ai.PlanOverview
		overview, err = ai.FirstDay(plan.Parsed, req)
		if err == nil {
			c.JSON(consts.StatusOK, coursePlanResponse{CoursePlan: overview})
			return
		}
	}

	status := statusFor(err)
	s.requestLogger(c, "").Warn("course plan failed",
		zap.String("course", req.CourseName),
		zap.Int("status", status),
		zap.Error(err),
	)
	s.fail(c, status, detailFor(status, err), err)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		return consts.StatusBadRequest
	case errors.Is(err, document.ErrUnreadable):
		return consts.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrServiceUnavailable), errors.Is(err, ai.ErrNoFirstDay):
		return consts.StatusBadGateway
	default:
		return consts.StatusInternalServerError
	}
}

func detailFor(status int, err error) string {
	switch status {
	case consts.StatusBadRequest:
		return err.Error()
	case consts.StatusUnprocessableEntity:
		return "failed to read document"
	case consts.StatusBadGateway:
		return "recommendation service failed"
	default:
		return "failed to process request"
	}
}

func (s *Server) fail(c *app.RequestContext, status int, detail string, err error) {
	if err != nil && status >= consts.StatusInternalServerError {
		s.requestLogger(c, "").Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, utils.H{"detail": detail})
}
