// Package server exposes résumé analysis and course planning over HTTP.
package server

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/hertz-contrib/cors"
	"github.com/spigell/resume-advisor/internal/ai"
	"github.com/spigell/resume-advisor/internal/document"
	"github.com/spigell/resume-advisor/internal/logger"
	"github.com/spigell/resume-advisor/internal/resume"
	"go.uber.org/zap"
)

const (
	DefaultAddress       = "127.0.0.1:8000"
	DefaultSnippetLength = 2000
	DefaultMaxUploadSize = 10 << 20

	headerRequestID = "X-Request-ID"
	keyRequestID    = "request_id"
)

var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5000"}

type Config struct {
	Address        string
	SnippetLength  int
	MaxUploadSize  int64
	AllowedOrigins []string
	// PlanTimeout bounds a single course plan request when positive.
	PlanTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.SnippetLength <= 0 {
		c.SnippetLength = DefaultSnippetLength
	}
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = DefaultMaxUploadSize
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = DefaultAllowedOrigins
	}
	return c
}

type analyzer interface {
	Analyze(ctx context.Context, in document.Input) (*resume.Analysis, error)
}

type Server struct {
	cfg      Config
	analyzer analyzer
	planner  ai.Planner
	logger   *zap.Logger
	hertz    *server.Hertz
}

// New builds the HTTP server. planner may be nil, in which case course plan
// requests are answered with 503.
func New(cfg Config, analyzer analyzer, planner ai.Planner, log *zap.Logger) *Server {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	h := server.New(
		server.WithHostPorts(cfg.Address),
		server.WithMaxRequestBodySize(int(cfg.MaxUploadSize)+1<<20),
		server.WithHandleMethodNotAllowed(true),
	)

	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		planner:  planner,
		logger:   log,
		hertz:    h,
	}

	h.Use(
		s.requestID,
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", headerRequestID},
			ExposeHeaders:    []string{headerRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		s.accessLog,
	)

	h.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
	h.POST("/upload-resume", s.uploadResume)
	h.POST("/course_plan", s.coursePlan)

	return s
}

// Run serves until the server is shut down.
func (s *Server) Run() error {
	s.logger.Info("starting http server", zap.String("address", s.cfg.Address))
	return s.hertz.Run()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.hertz.Shutdown(ctx)
}

func (s *Server) requestID(ctx context.Context, c *app.RequestContext) {
	id := string(c.GetHeader(headerRequestID))
	if id == "" {
		id = uuid.NewString()
	}

	c.Set(keyRequestID, id)
	c.Header(headerRequestID, id)
	c.Next(ctx)
}

func (s *Server) accessLog(ctx context.Context, c *app.RequestContext) {
	start := time.Now()
	c.Next(ctx)

	s.requestLogger(c, "").Debug("handled request",
		zap.String("method", string(c.Method())),
		zap.String("path", string(c.Path())),
		zap.Int("status", c.Response.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)
}

func (s *Server) requestLogger(c *app.RequestContext, filename string) *zap.Logger {
	return logger.WithRequest(s.logger, c.GetString(keyRequestID), filename)
}
