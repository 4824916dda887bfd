package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "stylerelay/src/app"
	cfg "stylerelay/src/configuration"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires middleware and routes around the given transformer.
func NewRouter(config *cfg.Properties, transformer app.ImageTransformer) *gin.Engine {
	gin.SetMode(config.Server.Mode)

	router := gin.New()
	router.MaxMultipartMemory = config.Server.MaxMultipartMemory
	router.Use(RequestLogger(), Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Authorization", "Cache-Control", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	if config.Server.Pprof {
		pprof.Register(router)
	}

	handler := NewRelayHandler(transformer)

	router.GET("/health", handler.GetHealth)
	router.POST("/generate-image", handler.GenerateImage)

	router.NoRoute(func(ctx *gin.Context) { ctx.JSON(http.StatusNotFound, gin.H{}) })
	return router
}

// RunServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func RunServer(config *cfg.Properties) error {
	if !config.HasAPIKey() {
		log.Warn().Msg("RECRAFT_API_KEY is not set, upstream calls are sent without a credential")
	}

	transformer := app.NewRecraftClient(config.Recraft.URL, config.Recraft.APIKey, config.Recraft.Timeout)

	srv := &http.Server{
		Addr:              config.Address(),
		Handler:           NewRouter(config, transformer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("name", config.Server.Name).Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
