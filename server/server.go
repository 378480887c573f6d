package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/container/logger"
	"github.com/kbukum/container/server/middleware"
)

// Server is the admin HTTP server: a Gin engine served over HTTP/1.1 and
// cleartext HTTP/2.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	listener   net.Listener
}

// New creates a server with the standard middleware stack applied. Routes are
// added with Register or Engine.
func New(cfg Config, log *logger.Logger) *Server {
	cfg.ApplyDefaults()
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log = log.WithComponent("server")
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
	)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          parseDuration(cfg.IdleTimeout),
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      h2c.NewHandler(engine, h2s),
			ReadTimeout:  parseDuration(cfg.ReadTimeout),
			WriteTimeout: parseDuration(cfg.WriteTimeout),
			IdleTimeout:  parseDuration(cfg.IdleTimeout),
		},
		engine: engine,
		config: cfg,
		log:    log,
	}
}

// Engine returns the Gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler returns the root handler, h2c included.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Use adds middleware to the engine.
func (s *Server) Use(mw ...gin.HandlerFunc) { s.engine.Use(mw...) }

// Start binds the port and serves in a goroutine. It returns once the listener
// is bound.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("Admin server listening", logger.Fields("addr", s.Addr()))
	return nil
}

// Stop shuts the server down within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	timeout := parseDuration(s.config.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("Admin server stopped")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
