package main

import (
	"fmt"
	"log/slog"
	"os"

	"bikeblog/database"
	"bikeblog/internal/cache"
	"bikeblog/internal/config"
	"bikeblog/internal/handler"
	"bikeblog/internal/middleware"
	"bikeblog/internal/notify"
	"bikeblog/internal/repository"
	"bikeblog/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	redisCache := cache.New(cfg.RedisURL, cfg.RedisPassword, logger)
	defer redisCache.Close()

	// Repositories
	postRepo := repository.NewPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	notifier := notify.NewRedisDispatcher(redisCache.Client(), logger)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	postService := service.NewPostService(
		postRepo, categoryRepo, tagRepo, relationRepo,
		redisCache, notifier, cfg.PageSize, cfg.HomeCacheTTL, logger,
	)
	relationService := service.NewRelationService(relationRepo, postRepo, redisCache, logger)
	categoryService := service.NewCategoryService(categoryRepo, postRepo)
	tagService := service.NewTagService(tagRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.SetFuncMap(handler.TemplateFuncMap())
	r.LoadHTMLGlob("web/templates/*.tmpl")

	// HTML pages
	handler.NewWebHandler(postService, categoryService, tagService, authService).RegisterRoutes(r)

	// JSON API
	api := r.Group("/api/v1")
	handler.NewAuthHandler(authService, cfg.AccessTokenTTL).RegisterRoutes(api.Group("/auth"))
	handler.NewPostHandler(postService, authService).RegisterRoutes(api.Group("/posts"))
	handler.NewRelationHandler(relationService, authService).RegisterRoutes(api.Group("/relations"))
	handler.NewCategoryHandler(categoryService, postService, authService).RegisterRoutes(api.Group("/categories"))
	handler.NewTagHandler(tagService, postService, authService).RegisterRoutes(api.Group("/tags"))
	handler.NewContactHandler(notifier).RegisterRoutes(api.Group("/contact"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.IsDevelopment()}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
