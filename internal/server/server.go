package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradinglab/marketsim/internal/coordinator"
	"github.com/tradinglab/marketsim/internal/feed"
	"github.com/tradinglab/marketsim/internal/ledger"
	"github.com/tradinglab/marketsim/internal/model"
)

// Config holds server settings.
type Config struct {
	Addr     string // Listen address
	AdminKey string // Shared secret for /api/v1/admin endpoints
}

// Server is the HTTP/WebSocket surface of the lab.
type Server struct {
	cfg     Config
	channel *feed.Channel
	ledger  *ledger.Ledger
	coord   *coordinator.Coordinator
	hub     *Hub
	wd      *feed.Watchdog
	seed    []model.Instrument
	logger  *slog.Logger

	httpSrv *http.Server
}

// New creates the server and registers all routes. seed is the instrument
// list used by session reset.
func New(cfg Config, channel *feed.Channel, ldg *ledger.Ledger, coord *coordinator.Coordinator, hub *Hub, wd *feed.Watchdog, seed []model.Instrument, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		channel: channel,
		ledger:  ldg,
		coord:   coord,
		hub:     hub,
		wd:      wd,
		seed:    seed,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/login", s.login)
		v1.GET("/snapshot", s.snapshot)
		v1.POST("/orders", s.placeOrder)
		v1.GET("/leaderboard", s.leaderboard)
		v1.GET("/accounts/:id", s.account)
		v1.GET("/transactions", s.transactions)

		admin := v1.Group("/admin", s.requireAdminKey)
		{
			admin.POST("/status", s.setStatus)
			admin.POST("/lag", s.setLag)
			admin.POST("/news", s.injectNews)
			admin.POST("/override", s.overridePrice)
			admin.POST("/reset", s.resetSession)
		}
	}

	r.GET("/ws", func(c *gin.Context) {
		s.hub.HandleWS(c.Writer, c.Request)
	})
	r.GET("/healthz", s.health)

	s.httpSrv = &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	s.logger.Info("http server started", "addr", s.cfg.Addr)
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// requireAdminKey gates administrative endpoints behind the shared key.
func (s *Server) requireAdminKey(c *gin.Context) {
	if c.GetHeader("X-Admin-Key") != s.cfg.AdminKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
		return
	}
	c.Next()
}

// health reports coordinator and hub status.
func (s *Server) health(c *gin.Context) {
	snap := s.channel.Snapshot()
	stats := s.coord.Stats()

	status := http.StatusOK
	if stats.Degraded {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":           snap.Status,
		"tick":             snap.Tick,
		"degraded":         stats.Degraded,
		"stale":            s.wd.Stale(),
		"ticks_published":  stats.TicksPublished,
		"ticks_skipped":    stats.TicksSkipped,
		"publish_failures": stats.PublishFailures,
		"ws_clients":       s.hub.ClientCount(),
	})
}

// errorStatus maps a typed core error onto an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrMarketClosed):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientHoldings):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrUnknownParticipant),
		errors.Is(err, ledger.ErrUnknownSymbol),
		errors.Is(err, feed.ErrUnknownSymbol):
		return http.StatusNotFound
	case errors.Is(err, feed.ErrInvalidTransition),
		errors.Is(err, feed.ErrSessionEnded):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// fail writes a structured rejection reason.
func fail(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}
