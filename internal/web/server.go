package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tabulr/timetabler/internal/config"
	"github.com/tabulr/timetabler/internal/scheduler"
	"github.com/tabulr/timetabler/pkg/logger"
)

// Server wires the HTTP surface around the allocation engine.
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *Metrics
	validate  *validator.Validate
	scheduler *scheduler.Scheduler
	store     *Store
}

// NewServer builds the server and its schedule store.
func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := NewStore(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare storage dir: %w", err)
	}
	validate := validator.New()
	return &Server{
		cfg:       cfg,
		logger:    log,
		metrics:   NewMetrics(),
		validate:  validate,
		scheduler: scheduler.New(validate, log),
		store:     store,
	}, nil
}

// Router assembles the gin engine with logging and metrics middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(s.logger))
	r.Use(s.metrics.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.GET("/schedule", s.handleListSchedules)
	r.GET("/schedule/:id", s.handleGetSchedule)
	r.POST("/schedule", s.handleCreateSchedule)

	return r
}

// Run starts the listener on the configured port.
func (s *Server) Run() error {
	return s.Router().Run(fmt.Sprintf(":%d", s.cfg.Port))
}
