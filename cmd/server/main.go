package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/iliyamo/farm-market/internal/app"
	"github.com/iliyamo/farm-market/internal/config"
	"github.com/iliyamo/farm-market/internal/logging"
	"github.com/iliyamo/farm-market/internal/market"
	"github.com/iliyamo/farm-market/internal/metrics"
	"github.com/iliyamo/farm-market/internal/queue"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := logging.Init(cfg.LogLevel)
	if err := cfg.RequireServerSecrets(); err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	if cfg.AdminPassword == config.DevAdminPassword {
		logger.Warn("admin login uses the built-in dev password; set ADMIN_PASSWORD")
	}
	if !cfg.VerifyPasswords {
		logger.Warn("password verification is off; any password logs in (set AUTH_VERIFY_PASSWORDS=true to enable bcrypt checks)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Error("open store", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}
	defer backend.Close()

	prices, err := market.NewBoard(time.Now())
	if err != nil {
		logger.Error("load market prices", "err", err)
		os.Exit(1)
	}

	metrics.Register()
	svc := app.NewServices(backend.KV, cfg, app.Publisher(cfg))
	e := app.NewEcho(cfg, backend, svc, prices, logger)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if cfg.AMQPEnabled {
		go func() {
			if err := queue.StartOrderConsumer(ctx, cfg.RabbitMQURL, cfg.OrderLogDir); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("order consumer stopped", "err", err)
			}
		}()
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(e)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Env, "store", backend.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
