package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"salon-admin/internal/config"
	"salon-admin/internal/generation"
	"salon-admin/internal/handler"
	"salon-admin/internal/logger"
	"salon-admin/internal/middleware"
	"salon-admin/internal/service"
	"salon-admin/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	ring := logger.NewRing(cfg.Log.RingSize)
	log := logger.Init(cfg.Log, ring)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	reader, err := cfg.OpenReader()
	if err != nil {
		slog.Error("db connect failed", "role", "reader", "err", err)
		os.Exit(1)
	}
	writer, err := cfg.OpenWriter()
	if err != nil {
		slog.Error("db connect failed", "role", "writer", "err", err)
		os.Exit(1)
	}
	st := store.New(reader, writer, cfg.Database.QueryTimeout)
	if cfg.Database.AutoMigrate {
		if err := st.AutoMigrate(context.Background()); err != nil {
			slog.Error("auto migrate failed", "err", err)
			os.Exit(1)
		}
	}

	gen, err := generation.New(cfg.Generation)
	if err != nil {
		slog.Error("generation client init failed", "err", err)
		os.Exit(1)
	}
	if cfg.Generation.APIKey == "" {
		slog.Warn("generation api key not configured", "provider", cfg.Generation.Provider)
	}

	var mirror service.Mirror
	if cfg.Catalog.Enabled {
		raw, err := cfg.NewRawClient()
		if err != nil {
			slog.Warn("sdk client init failed", "err", err)
		} else if cs := service.NewCatalogSync(raw, cfg.Catalog); cs.Ready() {
			mirror = cs
			slog.Info("catalog sync enabled", "database_id", cfg.Catalog.DatabaseID)
		} else {
			slog.Warn("catalog enabled but not provisioned; run salonctl catalog init")
		}
	}

	admin := service.NewAdminIdentity(st, cfg.Admin)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := admin.Ensure(ctx, log); err != nil {
		slog.Warn("admin identity not resolved at startup", "err", err)
	}
	cancel()

	secret := []byte(cfg.Auth.JWTSecret)
	routes := handler.Routes{
		Auth:         handler.NewAuthHandler(service.NewAuthService(st), secret, cfg.Auth.TokenTTL),
		Blog:         handler.NewBlogHandler(service.NewBlogService(st, gen, admin, mirror)),
		Reports:      handler.NewReportHandler(service.NewDailyReportService(st, mirror)),
		OwnerMessage: handler.NewOwnerMessageHandler(service.NewOwnerMessageService(st, gen)),
		Store:        st,
		Secret:       secret,
		TokenTTL:     cfg.Auth.TokenTTL,
	}
	if cfg.Server.Dev() {
		routes.Logs = handler.NewLogHandler(ring)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderSession},
		ExposeHeaders:    []string{"X-New-Token", middleware.HeaderSession, middleware.HeaderRequest},
		AllowCredentials: true,
	}))
	handler.Register(r, routes)

	slog.Info("server starting", "addr", cfg.Addr(), "mode", cfg.Server.Mode, "provider", cfg.Generation.Provider)
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
