// cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/develop-ac/compras-backend/internal/api"
	"github.com/develop-ac/compras-backend/internal/cache"
	"github.com/develop-ac/compras-backend/internal/config"
	"github.com/develop-ac/compras-backend/internal/repository/postgres"
	"github.com/develop-ac/compras-backend/internal/service"
	"github.com/develop-ac/compras-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.UseJSON()
	}
	logger.SetLevel(cfg.Server.LogLevel)

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize cache (noop when disabled)
	sugestaoCache, err := cache.NewSugestaoCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		sugestaoCache = cache.NewNoopSugestaoCache()
	}

	// Initialize repositories and services
	sugestaoRepo := postgres.NewSugestaoRepository(db.DB)
	produtoRepo := postgres.NewProdutoComprasRepository(db)
	pedidoRepo := postgres.NewPedidoRepository(db.DB)

	comprasService := service.NewComprasService(sugestaoRepo, produtoRepo, sugestaoCache)
	comprasService.SetTargetBounds(cfg.Compras.MinTargetDays, cfg.Compras.MaxTargetDays)
	if cfg.Compras.PeriodDays > 0 {
		comprasService.SetPeriodDays(cfg.Compras.PeriodDays)
	}
	if cfg.Compras.TargetDays > 0 {
		comprasService.SetTargetDays(cfg.Compras.TargetDays)
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ComprasService: comprasService,
		PedidoRepo:     pedidoRepo,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Push any pending autosaves out before the process exits
	if err := comprasService.AutoSave.FlushAll(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to flush pending autosaves")
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
