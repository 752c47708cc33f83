package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradelingo/journal"
	"tradelingo/sim"
)

// SessionDefaults seed every new replay session.
type SessionDefaults struct {
	Candles       int
	InitialOffset int
	Window        int
	Balance       float64
}

// Server exposes the replay simulator over HTTP and websocket.
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	log      *zap.Logger
	journal  *journal.Client
	defaults SessionDefaults

	mu       sync.RWMutex
	sessions map[string]*sim.Session
	streams  map[string]*streamHub
}

// NewServer wires routes and middleware. journalClient may be nil.
func NewServer(port int, defaults SessionDefaults, journalClient *journal.Client, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(loggerMiddleware(log))

	s := &Server{
		engine:   engine,
		log:      log,
		journal:  journalClient,
		defaults: defaults,
		sessions: make(map[string]*sim.Session),
		streams:  make(map[string]*streamHub),
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: engine,
		},
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/assets", s.GetAssets)

		api.POST("/sessions", s.CreateSession)
		api.GET("/sessions/:id", s.GetSession)
		api.DELETE("/sessions/:id", s.DeleteSession)
		api.POST("/sessions/:id/instrument", s.SelectInstrument)

		api.POST("/sessions/:id/step", s.Step)
		api.POST("/sessions/:id/play", s.Play)
		api.POST("/sessions/:id/pause", s.Pause)
		api.POST("/sessions/:id/jump", s.Jump)

		api.POST("/sessions/:id/orders", s.PlaceOrder)
		api.DELETE("/sessions/:id/orders/:orderId", s.CancelOrder)
		api.POST("/sessions/:id/positions/:positionId/close", s.ClosePosition)

		api.POST("/sessions/:id/drawings", s.AddDrawing)
		api.DELETE("/sessions/:id/drawings", s.ClearDrawings)

		api.GET("/sessions/:id/chart.svg", s.RenderChart)
		api.GET("/sessions/:id/stream", s.Stream)

		api.POST("/exercises/validate", s.ValidateExercise)
		api.POST("/discipline/score", s.DisciplineScore)
	}

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.log.Info("api listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and pauses every session so no timer
// keeps ticking.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.Pause()
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) session(id string) (*sim.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func loggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
