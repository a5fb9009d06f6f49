package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tokensentry/tokensentry/internal/adapters"
	"github.com/tokensentry/tokensentry/internal/cache"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/errors"
	"github.com/tokensentry/tokensentry/internal/monitoring"
	"github.com/tokensentry/tokensentry/internal/ratelimit"
	"github.com/tokensentry/tokensentry/internal/scoring"
	"github.com/tokensentry/tokensentry/internal/snapshot"
	"github.com/tokensentry/tokensentry/internal/textscan"
)

var evmAddressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

type scanRequest struct {
	Chain   string `json:"chain" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type analyzeRequest struct {
	Query string `json:"query" binding:"required"`
}

// serverDeps bundles everything route handlers need.
type serverDeps struct {
	engine  *scoring.Engine
	builder *snapshot.Builder
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	limiter *ratelimit.RateLimiter
	cache   *cache.Cache

	corsOrigins []string
}

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Monitoring system
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// External fact sources
	explorer := adapters.NewEtherscanClient(cfg.EtherscanAPIKey, appMetrics)
	dexScreener := adapters.NewDexScreenerClient(appMetrics)

	builder := snapshot.NewBuilder(explorer, dexScreener)
	engine := scoring.NewEngine(builder, cfg.Weights)

	// Rate limiting: Redis when configured, in-memory fallback otherwise
	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin:   cfg.RateLimitPerMin,
		BurstMultiplier: 2,
	}, appMetrics)

	appCache := cache.NewCache(cfg.CacheTTL)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := setupRouter(serverDeps{
		engine:      engine,
		builder:     builder,
		metrics:     appMetrics,
		logger:      appLogger,
		limiter:     limiter,
		cache:       appCache,
		corsOrigins: cfg.CORSOrigins,
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := redisClient.Close(); err != nil {
		slog.Error("Failed to close Redis client", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter builds the gin engine with the full middleware chain and every
// route.
func setupRouter(deps serverDeps) *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(deps.corsOrigins) == 0 || (len(deps.corsOrigins) == 1 && deps.corsOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.corsOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Request-ID")
	r.Use(cors.New(corsConfig))

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	if deps.limiter != nil {
		r.Use(deps.limiter.IPRateLimitMiddleware())
	}
	if deps.cache != nil {
		r.Use(deps.cache.Middleware(deps.metrics))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"chains":    snapshot.SupportedChains(),
		})
	})

	// Full token scan: gather facts, score components, aggregate.
	r.POST("/api/scan", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		var req scanRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("chain and address are required")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		chain, addr, appErr := validateScanTarget(req.Chain, req.Address)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()
		result := deps.engine.ScoreToken(ctx, chain, addr)
		deps.logger.ScanLogger("token", addr, result.GlobalScore, string(result.Label), time.Since(start))

		c.JSON(http.StatusOK, result)
	})

	// Free-text heuristic analysis, no on-chain lookup.
	r.POST("/api/analyze", func(c *gin.Context) {
		var req analyzeRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("query is required")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		query := strings.TrimSpace(req.Query)
		if query == "" {
			appErr := errors.NewValidationError("query cannot be empty")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()
		result := textscan.Evaluate(query)
		deps.logger.ScanLogger("text", query, float64(result.Score), string(result.RiskLevel), time.Since(start))

		c.JSON(http.StatusOK, result)
	})

	// Raw standardized facts, bypassing the scorers. Useful for debugging
	// what the upstream sources actually returned.
	r.GET("/api/onchain/token", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		chain, addr, appErr := validateScanTarget(c.Query("chain"), c.Query("address"))
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		snap := deps.builder.Build(ctx, chain, addr)
		c.JSON(http.StatusOK, snap)
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.metrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		if deps.cache == nil {
			c.JSON(http.StatusOK, gin.H{"enabled": false})
			return
		}
		c.JSON(http.StatusOK, deps.cache.Stats())
	})

	return r
}

// validateScanTarget normalizes and validates the chain and address of a scan
// request. Both errors are client-input errors mapped to HTTP 400.
func validateScanTarget(rawChain, rawAddress string) (snapshot.Chain, string, *errors.AppError) {
	chain, err := snapshot.ParseChain(rawChain)
	if err != nil {
		return "", "", errors.ToAppError(err)
	}

	addr := strings.TrimSpace(rawAddress)
	if !evmAddressRe.MatchString(addr) {
		return "", "", errors.NewValidationError("Invalid contract address", rawAddress)
	}

	return chain, addr, nil
}
