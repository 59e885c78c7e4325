package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/spigell/resume-advisor/internal/ai"
	"github.com/spigell/resume-advisor/internal/document"
	"github.com/spigell/resume-advisor/internal/experience"
	"github.com/spigell/resume-advisor/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAnalyzer struct {
	analysis *resume.Analysis
	err      error
	input    document.Input
	calls    int
}

func (s *stubAnalyzer) Analyze(_ context.Context, in document.Input) (*resume.Analysis, error) {
	s.calls++
	s.input = in
	return s.analysis, s.err
}

type stubPlanner struct {
	plan *ai.Plan
	err  error
	req  ai.PlanRequest
}

func (s *stubPlanner) Plan(_ context.Context, req ai.PlanRequest) (*ai.Plan, error) {
	s.req = req
	return s.plan, s.err
}

func textAnalysis(text string) *resume.Analysis {
	years := 5.0
	return &resume.Analysis{
		Filename: "cv.pdf",
		Signals: resume.Signals{
			Skills:     []string{"aws", "docker", "python"},
			Experience: &years,
			Seniority:  experience.SeniorityMid,
		},
		Document: &document.Document{Format: document.FormatPDF, Text: text, Pages: 1, PagesWithText: 1},
		Text:     text,
		Courses:  []ai.Course{{Title: "AWS Developer", Reason: "cloud"}},
	}
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func upload(t *testing.T, s *Server, filename, contentType string, data []byte) *ut.ResponseRecorder {
	t.Helper()
	body, ct := multipartUpload(t, filename, contentType, data)
	return ut.PerformRequest(s.hertz.Engine, http.MethodPost, "/upload-resume",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: ct},
	)
}

func decode(t *testing.T, resp *ut.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), "body: %s", resp.Body.String())
	return out
}

func TestUploadResume(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: textAnalysis("Python developer with 5 years of experience using Docker and AWS.")}
	s := New(Config{}, analyzer, nil, zap.NewNop())

	resp := upload(t, s, "cv.pdf", document.MimePDF, []byte("%PDF-1.4"))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	out := decode(t, resp)
	assert.Equal(t, "cv.pdf", out["filename"])
	assert.Equal(t, []any{"aws", "docker", "python"}, out["skills"])
	assert.Equal(t, float64(5), out["experience"])
	assert.Equal(t, experience.SeniorityMid, out["seniority"])
	assert.Equal(t, "Python developer with 5 years of experience using Docker and AWS.", out["full_text_snippet"])

	courses, ok := out["course_list"].([]any)
	require.True(t, ok)
	require.Len(t, courses, 1)
	assert.Equal(t, "AWS Developer", courses[0].(map[string]any)["title"])

	assert.Equal(t, "cv.pdf", analyzer.input.Filename)
	assert.Equal(t, document.MimePDF, analyzer.input.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), analyzer.input.Data)

	assert.NotEmpty(t, resp.Header().Get(headerRequestID))
}

func TestUploadResumeTruncatesSnippet(t *testing.T) {
	text := strings.Repeat("x", 30)
	s := New(Config{SnippetLength: 10}, &stubAnalyzer{analysis: textAnalysis(text)}, nil, zap.NewNop())

	resp := upload(t, s, "cv.pdf", document.MimePDF, []byte("%PDF"))
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Equal(t, strings.Repeat("x", 10)+"...", decode(t, resp)["full_text_snippet"])
}

func TestUploadResumeWithoutText(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &resume.Analysis{
		Filename: "scan.pdf",
		Document: &document.Document{Format: document.FormatPDF, Pages: 3},
	}}
	s := New(Config{}, analyzer, nil, zap.NewNop())

	resp := upload(t, s, "scan.pdf", document.MimePDF, []byte("%PDF"))
	require.Equal(t, http.StatusOK, resp.Code)

	out := decode(t, resp)
	assert.Equal(t, noTextMessage, out["message"])
	assert.Equal(t, []any{}, out["skills"])
	v, ok := out["experience"]
	assert.True(t, ok, "experience must be present")
	assert.Nil(t, v)
	_, ok = out["course_list"]
	assert.False(t, ok)
}

func TestUploadResumeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "unsupported format", err: fmt.Errorf("extracting: %w", document.ErrUnsupportedFormat), status: http.StatusBadRequest},
		{name: "unreadable document", err: fmt.Errorf("extracting: %w", document.ErrUnreadable), status: http.StatusUnprocessableEntity},
		{name: "recommendation service", err: fmt.Errorf("requesting recommendations: %w", ai.ErrServiceUnavailable), status: http.StatusBadGateway},
		{name: "anything else", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{}, &stubAnalyzer{err: tt.err}, nil, zap.NewNop())

			resp := upload(t, s, "cv.pdf", document.MimePDF, []byte("%PDF"))
			require.Equal(t, tt.status, resp.Code)
			assert.NotEmpty(t, decode(t, resp)["detail"])
		})
	}
}

func TestUploadResumeRequiresFile(t *testing.T) {
	analyzer := &stubAnalyzer{}
	s := New(Config{}, analyzer, nil, zap.NewNop())

	resp := ut.PerformRequest(s.hertz.Engine, http.MethodPost, "/upload-resume", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, analyzer.calls)
}

func TestUploadResumeTooLarge(t *testing.T) {
	analyzer := &stubAnalyzer{}
	s := New(Config{MaxUploadSize: 8}, analyzer, nil, zap.NewNop())

	resp := upload(t, s, "cv.pdf", document.MimePDF, bytes.Repeat([]byte("a"), 64))
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Zero(t, analyzer.calls)
}

func postForm(s *Server, path string, values url.Values) *ut.ResponseRecorder {
	body := values.Encode()
	return ut.PerformRequest(s.hertz.Engine, http.MethodPost, path,
		&ut.Body{Body: strings.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/x-www-form-urlencoded"},
	)
}

func TestCoursePlan(t *testing.T) {
	planner := &stubPlanner{plan: &ai.Plan{Parsed: map[string]any{
		"course_title": "Kubernetes",
		"days": []any{
			map[string]any{"day": float64(1), "topics": []any{"pods"}},
			map[string]any{"day": float64(2)},
		},
	}}}
	s := New(Config{}, &stubAnalyzer{}, planner, zap.NewNop())

	resp := postForm(s, "/course_plan", url.Values{"course_name": {"Kubernetes"}, "daily_hours": {"2"}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	plan, ok := decode(t, resp)["course_plan"].(map[string]any)
	require.True(t, ok)

	info := plan["basic_info"].(map[string]any)
	assert.Equal(t, "Kubernetes", info["course_title"])
	assert.Equal(t, float64(2), info["daily_hours"])
	assert.Equal(t, float64(1), plan["day1"].(map[string]any)["day"])

	assert.Equal(t, ai.PlanRequest{CourseName: "Kubernetes", DailyHours: 2}, planner.req)
}

func TestCoursePlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		planner *stubPlanner
		form    url.Values
		status  int
	}{
		{
			name:    "hours not a number",
			planner: &stubPlanner{},
			form:    url.Values{"course_name": {"Go"}, "daily_hours": {"two"}},
			status:  http.StatusBadRequest,
		},
		{
			name:    "missing course",
			planner: &stubPlanner{},
			form:    url.Values{"daily_hours": {"2"}},
			status:  http.StatusBadRequest,
		},
		{
			name:    "service failure",
			planner: &stubPlanner{err: ai.ErrServiceUnavailable},
			form:    url.Values{"course_name": {"Go"}, "daily_hours": {"2"}},
			status:  http.StatusBadGateway,
		},
		{
			name:    "plan without day one",
			planner: &stubPlanner{plan: &ai.Plan{Parsed: map[string]any{"raw": "text"}}},
			form:    url.Values{"course_name": {"Go"}, "daily_hours": {"2"}},
			status:  http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{}, &stubAnalyzer{}, tt.planner, zap.NewNop())

			resp := postForm(s, "/course_plan", tt.form)
			require.Equal(t, tt.status, resp.Code, resp.Body.String())
		})
	}
}

func TestCoursePlanWithoutPlanner(t *testing.T) {
	s := New(Config{}, &stubAnalyzer{}, nil, zap.NewNop())

	resp := postForm(s, "/course_plan", url.Values{"course_name": {"Go"}, "daily_hours": {"2"}})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestHealthzAndCORS(t *testing.T) {
	s := New(Config{}, &stubAnalyzer{}, nil, zap.NewNop())

	resp := ut.PerformRequest(s.hertz.Engine, http.MethodGet, "/healthz", nil,
		ut.Header{Key: "Origin", Value: "http://localhost:3000"},
		ut.Header{Key: headerRequestID, Value: "req-42"},
	)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", decode(t, resp)["status"])
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-42", resp.Header().Get(headerRequestID))

	resp = ut.PerformRequest(s.hertz.Engine, http.MethodGet, "/healthz", nil,
		ut.Header{Key: "Origin", Value: "http://evil.example"},
	)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
