// Package server exposes the cover page generator over HTTP: one-shot
// generation from a multipart upload, and upload sessions that keep an
// ordered file list between requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alnah/go-coverpdf"
)

// Server wires the assembler and the session store to a Gin engine.
type Server struct {
	cfg    Config
	asm    *coverpdf.Assembler
	store  SessionStore
	log    zerolog.Logger
	now    func() time.Time
	engine *gin.Engine
}

// New builds a Server. The caller keeps ownership of store.
func New(cfg Config, asm *coverpdf.Assembler, store SessionStore, log zerolog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		asm:   asm,
		store: store,
		log:   log,
		now:   time.Now,
	}
	s.engine = s.setupRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) setupRouter() *gin.Engine {
	setGinMode(s.cfg.GinMode)
	setupValidator()

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to AllowedOrigins when set, allow all otherwise.
	corsConfig := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", HeaderRequestID}
	corsConfig.ExposeHeaders = []string{HeaderRequestID, "Content-Disposition",
		HeaderPageCount, HeaderSkippedFiles, HeaderIgnoredFiles, HeaderCoverTemplate}
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))
	router.Use(requestID())
	router.Use(requestLogger(s.log))
	router.Use(recovery(s.log))

	router.GET("/healthz", s.health)
	router.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, ErrNotFound) })

	api := router.Group("/api/v1")
	api.GET("/types", s.listTypes)

	uploads := api.Group("")
	uploads.Use(bodyLimit(s.cfg.MaxUploadBytes))
	{
		uploads.POST("/generate", s.generate)

		sessions := uploads.Group("/sessions")
		sessions.POST("", s.createSession)
		sessions.GET("/:id", s.getSession)
		sessions.DELETE("/:id", s.deleteSession)
		sessions.POST("/:id/files", s.addFiles)
		sessions.DELETE("/:id/files/:index", s.removeFile)
		sessions.PUT("/:id/order", s.reorder)
		sessions.POST("/:id/generate", s.generateSession)
	}

	return router
}

// setGinMode sets the process-wide Gin mode; unknown modes mean release.
func setGinMode(mode string) {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		mode = gin.ReleaseMode
	}
	if gin.Mode() != mode {
		gin.SetMode(mode)
	}
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully. Listen errors are returned immediately.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Str("store", s.store.Name()).Msg("server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("shutdown complete")
	return nil
}
