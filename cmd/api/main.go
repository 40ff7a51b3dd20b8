package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/config"
	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/handler"
	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/pubsub"
	pgRepo "github.com/yourusername/indcric-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/indcric-api/internal/repository/redis"
	"github.com/yourusername/indcric-api/internal/service"
	"github.com/yourusername/indcric-api/internal/service/adcache"
	"github.com/yourusername/indcric-api/internal/service/ai"
	"github.com/yourusername/indcric-api/internal/service/rewards"
	"github.com/yourusername/indcric-api/internal/storage"
	ws "github.com/yourusername/indcric-api/internal/websocket"
	"github.com/yourusername/indcric-api/pkg/auth"
	"github.com/yourusername/indcric-api/pkg/database"
	"github.com/yourusername/indcric-api/pkg/logger"
	"github.com/yourusername/indcric-api/pkg/metrics"
)

// Интервал рассылки метрик в админ-панель
const dashboardMetricsInterval = 30 * time.Second

func main() {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		// логгер ещё не настроен, пишем в формате по умолчанию
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Репозитории
	adRepo := pgRepo.NewAdRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)
	userRepo := pgRepo.NewUserRepo(db)
	paymentRepo := pgRepo.NewPaymentRepo(db)
	reportRepo := pgRepo.NewReportRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize CacheRepo")
	}

	var pubSubProvider pubsub.Provider
	if rp, err := pubsub.NewRedisPubSub(redisClient); err != nil {
		log.Warn().Err(err).Msg("Redis PubSub недоступен, инвалидация между экземплярами отключена")
		pubSubProvider = pubsub.NoOpPubSub{}
	} else {
		pubSubProvider = rp
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	store, closeStore, err := newStorage(ctx, cfg.Ads)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize media storage")
	}
	defer closeStore()

	textGen, closeGen := newTextGenerator(ctx, cfg.AI)
	defer closeGen()

	// Сервисы
	adCache := adcache.New(adRepo, cfg.Ads.CacheTTL, adcache.WithMetrics(appMetrics))
	policy := adcache.NewInterstitialPolicy(parseSlots(cfg.Ads.ExceptedSkipSlots))
	adService := service.NewAdService(adRepo, adCache, policy, store, pubSubProvider, appMetrics)
	userService := service.NewUserService(userRepo, attemptRepo, cfg.Auth.AdminUIDs)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, newEmailService(cfg.Email), appMetrics, cfg.Rewards.Amount)
	attemptService := service.NewAttemptService(attemptRepo, userRepo, paymentService)
	rewardService := service.NewRewardService(attemptRepo, adService, cacheRepo, rewards.Options{
		Location:   cfg.Rewards.Location(),
		MaxFormats: cfg.Rewards.MaxFormats,
	})
	reportService := service.NewReportService(reportRepo)

	jwtService, err := auth.NewJWTService(cfg.Auth.TokenSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize JWTService")
	}

	hub := ws.NewHub()
	go hub.Run(ctx)
	// Инвалидация кеша по сообщениям других экземпляров и уведомление админ-панели
	go adcache.Watch(ctx, pubSubProvider, adCache, hub.NotifyAdsChanged)
	go broadcastDashboardMetrics(ctx, hub, userService, adService)

	if err := handler.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validators")
	}
	handlers := &handler.Handlers{
		Ads:      handler.NewAdHandler(adService, cfg.Ads.MaxUploadMB),
		Users:    handler.NewUserHandler(userService),
		Attempts: handler.NewAttemptHandler(attemptService),
		Rewards:  handler.NewRewardHandler(rewardService),
		Payments: handler.NewPaymentHandler(paymentService),
		AI: handler.NewAIHandler(attemptService,
			ai.NewAnalyzer(textGen),
			ai.NewQuizGenerator(textGen, attemptRepo),
			ai.NewFactGenerator(textGen)),
		Reports: handler.NewReportHandler(reportService),
		WS:      handler.NewWSHandler(hub, cfg.Server.AllowedOrigins),
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinLogger(), middleware.Metrics(appMetrics))
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Warn().Err(err).Msg("failed to set trusted proxies")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// локальные файлы раздаёт сам сервис, если base URL относительный
	if local, ok := store.(*storage.Local); ok && strings.HasPrefix(cfg.Ads.PublicBaseURL, "/") {
		router.Static(cfg.Ads.PublicBaseURL, local.Dir())
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_clients": hub.ClientCount()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.Register(router, handler.RouterOptions{
		Auth:            middleware.NewAuthMiddleware(jwtService),
		Limiter:         middleware.NewRateLimiter(redisClient),
		PublicPerMinute: cfg.Server.RateLimitPerMinute,
	})

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Останавливаем фоновые горутины
	cancel()
	if err := pubSubProvider.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing PubSub provider")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	log.Info().Msg("Server exited properly")
}

// newStorage выбирает хранилище медиафайлов рекламы
func newStorage(ctx context.Context, cfg config.AdsConfig) (storage.Storage, func(), error) {
	if cfg.UploadBackend == "gcs" {
		gcs, err := storage.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentials)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	}
	local, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, nil, err
	}
	return local, func() {}, nil
}

// newTextGenerator возвращает nil интерфейс, если ключ модели не задан
func newTextGenerator(ctx context.Context, cfg config.AIConfig) (ai.TextGenerator, func()) {
	gemini, err := ai.NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	if err != nil {
		log.Error().Err(err).Msg("Gemini недоступен, используются запасные ответы")
		return nil, func() {}
	}
	if gemini == nil {
		log.Info().Msg("GEMINI_API_KEY не задан, генерация отключена")
		return nil, func() {}
	}
	return gemini, func() { _ = gemini.Close() }
}

func newEmailService(cfg config.EmailConfig) service.EmailService {
	if cfg.ResendAPIKey == "" {
		return &service.NoopEmailService{}
	}
	email, err := service.NewResendEmailService(cfg.ResendAPIKey, cfg.From)
	if err != nil {
		log.Error().Err(err).Msg("Resend недоступен, письма о выплатах отключены")
		return &service.NoopEmailService{}
	}
	return email
}

func parseSlots(raw []string) []entity.AdSlot {
	slots := make([]entity.AdSlot, 0, len(raw))
	for _, s := range raw {
		slot, ok := entity.ParseAdSlot(s)
		if !ok {
			log.Warn().Str("slot", s).Msg("Неизвестный слот в excepted_skip_slots пропущен")
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

// broadcastDashboardMetrics периодически рассылает сводку подключённым админам
func broadcastDashboardMetrics(ctx context.Context, hub *ws.Hub, users *service.UserService, ads *service.AdService) {
	ticker := time.NewTicker(dashboardMetricsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if hub.ClientCount() == 0 {
				continue
			}
			userMetrics, err := users.Metrics(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Не удалось собрать метрики пользователей")
				continue
			}
			_ = hub.Broadcast(ws.EventMetrics, gin.H{
				"users": userMetrics,
				"ads":   ads.Analytics(ctx),
			})
		}
	}
}
