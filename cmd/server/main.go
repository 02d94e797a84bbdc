package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bridgeapp "github.com/nextpos/printing/internal/application/bridge"
	printingapp "github.com/nextpos/printing/internal/application/printing"
	settingsapp "github.com/nextpos/printing/internal/application/settings"
	"github.com/nextpos/printing/internal/infrastructure/auth"
	"github.com/nextpos/printing/internal/infrastructure/cache"
	"github.com/nextpos/printing/internal/infrastructure/config"
	"github.com/nextpos/printing/internal/infrastructure/escpos"
	"github.com/nextpos/printing/internal/infrastructure/keystore"
	"github.com/nextpos/printing/internal/infrastructure/logger"
	"github.com/nextpos/printing/internal/infrastructure/persistence"
	"github.com/nextpos/printing/internal/infrastructure/signing"
	"github.com/nextpos/printing/internal/infrastructure/telemetry"
	"github.com/nextpos/printing/internal/interfaces/http/handler"
	"github.com/nextpos/printing/internal/interfaces/http/middleware"
	"github.com/nextpos/printing/internal/interfaces/http/router"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting print service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Settings store
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), 200*time.Millisecond)),
		persistence.WithPlugins(telemetry.DBTracingPlugin(cfg.Telemetry, cfg.Database)),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	settingsCache, closeCache, err := cache.NewSettingsCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateCache(ctx)
	if err != nil {
		log.Fatal("Failed to initialize settings cache", zap.Error(err))
	}
	defer func() {
		_ = closeCache()
	}()
	settingsRepo := cache.NewCachedSettingsRepository(
		persistence.NewGormSettingsRepository(db.DB),
		settingsCache,
		cfg.Printing.SettingsCacheTTL,
		log,
	)

	keyStore, err := keystore.Open(ctx, cfg.Bridge, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize key store", zap.Error(err))
	}

	commands, err := escpos.LookupCommandSet(cfg.Printing.CommandSet)
	if err != nil {
		log.Fatal("Invalid printing.command_set", zap.Error(err))
	}
	encoder, err := escpos.NewEncoder(cfg.Printing.CodePage)
	if err != nil {
		log.Fatal("Invalid printing.code_page", zap.Error(err))
	}

	// Application services
	receiptService := printingapp.NewReceiptService(settingsRepo, commands, encoder, printingapp.Options{
		DefaultPaperWidth:  cfg.Printing.DefaultPaperWidth,
		TrailingBlankLines: cfg.Printing.TrailingBlankLines,
	}, log)
	settingsService := settingsapp.NewSettingsService(settingsRepo, log)
	credentialService := bridgeapp.NewCredentialService(keyStore, signing.GenerateOptions{
		CommonName:   cfg.Bridge.CommonName,
		Organization: cfg.Bridge.Organization,
		Validity:     cfg.Bridge.CertValidity,
	}, log)

	if keyStore.Name() != config.KeyStoreConfig {
		result, err := credentialService.EnsureKeys(ctx)
		if err != nil {
			log.Fatal("Failed to prepare print bridge credentials", zap.Error(err))
		}
		if result.Generated {
			log.Info("Generated print bridge key pair", zap.String("key_store", result.KeyStore))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid http.trusted_proxies", zap.Error(err))
	}
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		}),
		middleware.SpanEnricher(),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, Version, map[string]handler.HealthCheck{
		"database": db.Ping,
	})
	engine.GET("/health", systemHandler.Health)

	var signLimit gin.HandlerFunc
	if cfg.HTTP.SignRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.SignRateLimit, cfg.HTTP.SignRateWindow)
		go limiter.Run(ctx)
		signLimit = middleware.RateLimit(limiter)
	}
	authMiddleware := middleware.JWTAuth(jwtService, log)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.PrintRoutes(
		handler.NewPrintHandler(receiptService),
		handler.NewSettingsHandler(settingsService),
		authMiddleware,
	)).
		Register(handler.BridgeRoutes(handler.NewBridgeHandler(credentialService), authMiddleware, signLimit)).
		Register(handler.SystemRoutes(systemHandler))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}
