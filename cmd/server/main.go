// @title           Jewelry Studio Backend API
// @version         1.0.0
// @description     Backend API for custom name jewelry. Customers design a piece, watch AI product and on-body renders arrive, animate their favourite variation and place an order priced from the live gold rate.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an admin JWT token.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"jewelry-studio-backend/internal/config"
	"jewelry-studio-backend/internal/database"
	"jewelry-studio-backend/internal/gemini"
	"jewelry-studio-backend/internal/goldprice"
	"jewelry-studio-backend/internal/handlers"
	"jewelry-studio-backend/internal/logger"
	"jewelry-studio-backend/internal/metrics"
	"jewelry-studio-backend/internal/middleware"
	"jewelry-studio-backend/internal/ratelimit"
	"jewelry-studio-backend/internal/search"
	"jewelry-studio-backend/internal/services"
	"jewelry-studio-backend/internal/supabase"
	"jewelry-studio-backend/internal/transliterate"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(logger.Config{
		ServiceName: "jewelry-studio",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		zap.L().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database and migrations
	dbClient, err := supabase.NewDatabaseClient(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbClient.Close()

	if err := database.NewMigrator(dbClient.DB(), log).Run(ctx); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// Supabase clients
	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatal("failed to initialize storage client", zap.Error(err))
	}
	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		log.Fatal("failed to initialize supabase client", zap.Error(err))
	}

	m := metrics.New(nil)

	// Gemini
	geminiClient, err := gemini.New(ctx, gemini.Options{
		APIKey:      cfg.GeminiAPIKey,
		ImageModel:  cfg.GeminiImageModel,
		TextModel:   cfg.GeminiTextModel,
		VideoModel:  cfg.GeminiVideoModel,
		MinInterval: cfg.GeminiMinInterval,
		Logger:      log,
	})
	if err != nil {
		log.Fatal("failed to initialize gemini client", zap.Error(err))
	}
	retrier := gemini.NewRetrier(geminiClient, log, gemini.WithMetrics(m))

	// Redis is optional. Without it the hourly limit is counted in Postgres
	// and every replica fetches gold prices.
	var (
		limiter ratelimit.Limiter = ratelimit.NewStoreHourly(dbClient, cfg.GenerationsPerHour)
		locker  goldprice.Locker
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, using database rate limits", zap.Error(err))
		} else {
			limiter = ratelimit.NewRedisHourly(rdb, "ratelimit:designs", cfg.GenerationsPerHour)
			locker = ratelimit.NewLocker(rdb)
		}
	}

	// Gold prices
	goldPrices := goldprice.NewService(dbClient, goldprice.Options{
		APIURL:  cfg.MetalPriceAPIURL,
		APIKey:  cfg.MetalPriceAPIKey,
		Logger:  log,
		Metrics: m,
	})
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go goldPrices.Run(schedulerCtx, cfg.GoldPriceInterval, locker)

	// Services
	tasks := services.NewTaskRunner(log)
	videoService := services.NewVideoService(dbClient, storageClient, geminiClient, log, m, services.VideoOptions{})
	generationService := services.NewGenerationService(
		dbClient,
		storageClient,
		retrier,
		services.NewHTTPFetcher(nil),
		videoService,
		tasks,
		log,
		m,
		services.GenerationOptions{},
	)
	designService := services.NewDesignService(dbClient, storageClient, generationService, videoService, tasks, limiter, log)
	galleryService := services.NewGalleryService(dbClient, designService, supabaseClient)
	orderService := services.NewOrderService(dbClient, dbClient, goldPrices, log)
	transliterator := transliterate.NewService(geminiClient, log)
	referenceSearch := search.NewService(search.Options{
		APIURL:    cfg.UnsplashAPIURL,
		AccessKey: cfg.UnsplashAccessKey,
		Logger:    log,
	})

	// Handlers
	healthHandler := handlers.NewHealthHandler(dbClient)
	designsHandler := handlers.NewDesignsHandler(designService)
	uploadsHandler := handlers.NewUploadsHandler(designService)
	galleryHandler := handlers.NewGalleryHandler(galleryService)
	pricesHandler := handlers.NewPricesHandler(goldPrices, orderService)
	ordersHandler := handlers.NewOrdersHandler(orderService, designService)
	transliterateHandler := handlers.NewTransliterateHandler(transliterator)
	searchHandler := handlers.NewSearchHandler(referenceSearch)

	// Setup router
	router := gin.New()
	router.Use(logger.GinMiddleware(log))
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Designs
	api.POST("/designs", designsHandler.CreateDesign)
	api.GET("/designs/:design_id", designsHandler.GetDesign)
	api.POST("/designs/:design_id/regenerate", designsHandler.Regenerate)
	api.POST("/designs/:design_id/select", designsHandler.SelectVariation)
	api.POST("/designs/:design_id/gallery", designsHandler.SaveToGallery)
	api.POST("/designs/:design_id/videos/:index", designsHandler.TriggerVideo)
	api.GET("/designs/:design_id/before-after", designsHandler.BeforeAfter)
	api.POST("/uploads", uploadsHandler.Upload)

	// Gallery
	api.GET("/gallery/featured", galleryHandler.Featured)
	api.GET("/gallery/recent", galleryHandler.Recent)
	api.GET("/gallery/inspiration", galleryHandler.Inspiration)
	api.GET("/gallery/showcase", galleryHandler.Showcase)
	api.GET("/search", searchHandler.Search)

	// Prices and orders
	api.GET("/prices/current", pricesHandler.Current)
	api.POST("/prices/quote", pricesHandler.Quote)
	api.POST("/orders", ordersHandler.CreateOrder)
	api.GET("/orders/:order_id", ordersHandler.GetOrder)

	api.GET("/transliterate", transliterateHandler.Transliterate)

	// Admin (JWT)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg))
	admin.GET("/orders", ordersHandler.ListRecent)
	admin.PATCH("/orders/:order_id/status", ordersHandler.UpdateStatus)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
	stopScheduler()
	if err := tasks.Shutdown(shutdownCtx); err != nil {
		log.Warn("background tasks did not finish", zap.Error(err))
	}
	log.Info("server stopped")
}
