package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/config"
	"github.com/mtarnawa/finbook/internal/models"
	"github.com/mtarnawa/finbook/internal/reminder"
	"github.com/mtarnawa/finbook/internal/report"
	"github.com/mtarnawa/finbook/internal/repository"
)

// scheduleNotifier lets handlers nudge the background sweep after a
// reminder write without depending on the scheduler package.
type scheduleNotifier interface {
	Notify()
}

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

type Deps struct {
	Users        *repository.UserRepository
	Categories   *repository.CategoryRepository
	Transactions *repository.TransactionRepository
	Reminders    *repository.ReminderRepository
	Alerts       *repository.AlertRepository
	Lifecycle    *reminder.Lifecycle
	Engine       *reminder.Engine
	Reports      *report.Service
	Scheduler    scheduleNotifier
}

func New(cfg *config.Config, deps Deps, log *zap.Logger) *Server {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handlers{deps: deps, jwtSecret: cfg.JWTSecret, log: log}

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", h.register)
	v1.POST("/auth/token", h.token)

	auth := v1.Group("", AuthMiddleware(cfg.JWTSecret))
	{
		auth.GET("/reminders", h.listReminders)
		auth.POST("/reminders", h.createReminder)
		auth.PUT("/reminders/:id", h.updateReminder)
		auth.POST("/reminders/:id/toggle", h.toggleReminder)
		auth.DELETE("/reminders/:id", h.deleteReminder)

		auth.GET("/transactions", h.listTransactions)
		auth.POST("/transactions", h.createTransaction)
		auth.PUT("/transactions/:id", h.updateTransaction)
		auth.DELETE("/transactions/:id", h.deleteTransaction)

		auth.GET("/categories", h.listCategories)
		auth.POST("/categories", h.createCategory)
		auth.PUT("/categories/:id", h.updateCategory)
		auth.DELETE("/categories/:id", h.deleteCategory)

		auth.GET("/alerts", h.listAlerts)
		auth.POST("/alerts/:id/read", h.markAlertRead)

		auth.GET("/reports/summary", h.reportSummary)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		log: log,
	}
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

type handlers struct {
	deps      Deps
	jwtSecret string
	log       *zap.Logger
}

// writeError maps the error taxonomy onto HTTP status codes.
func (h *handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
