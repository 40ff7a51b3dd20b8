package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/indcric-api/internal/middleware"
)

// Handlers набор обработчиков API
type Handlers struct {
	Ads      *AdHandler
	Users    *UserHandler
	Attempts *AttemptHandler
	Rewards  *RewardHandler
	Payments *PaymentHandler
	AI       *AIHandler
	Reports  *ReportHandler
	WS       *WSHandler
}

// RouterOptions middleware, общие для всех маршрутов
type RouterOptions struct {
	Auth *middleware.AuthMiddleware
	// Limiter может быть nil, тогда лимиты не применяются
	Limiter         *middleware.RateLimiter
	PublicPerMinute int
}

func (o RouterOptions) limit(cfg middleware.RateLimitConfig) gin.HandlerFunc {
	if o.Limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return o.Limiter.Limit(cfg)
}

// Register регистрирует маршруты /api и /ws
func (h *Handlers) Register(r gin.IRouter, opts RouterOptions) {
	slot := middleware.SlotParamOrEmpty("id", ParamSlot)
	adID := middleware.ExtractUUIDParam("id", ParamAdID)
	entityID := middleware.ExtractUUIDParam("id", ParamID)

	api := r.Group("/api")
	api.Use(opts.Auth.RequireAuth(), opts.limit(middleware.PublicRateLimitConfig(opts.PublicPerMinute)))
	{
		// маршруты рекламы используют один параметр :id для слота и для ID
		ads := api.Group("/ads")
		ads.GET("/:id", slot, h.Ads.GetAdsBySlot)
		ads.GET("/:id/single", slot, h.Ads.GetSingleAd)
		ads.GET("/:id/interstitial", slot, h.Ads.GetInterstitial)
		ads.POST("/:id/view", adID, h.Ads.LogView)
		ads.POST("/:id/click", adID, h.Ads.LogClick)

		users := api.Group("/users/me")
		users.GET("", h.Users.GetMe)
		users.PUT("", h.Users.UpdateMe)
		users.GET("/completeness", h.Users.GetCompleteness)

		attempts := api.Group("/attempts")
		attempts.POST("", h.Attempts.Submit)
		attempts.GET("", h.Attempts.History)
		attempts.POST("/:id/review", entityID, h.Attempts.MarkReviewed)

		rewards := api.Group("/rewards")
		rewards.GET("", h.Rewards.List)
		rewards.POST("/:slotId/scratch", h.Rewards.Scratch)
		rewards.DELETE("/:slotId", h.Rewards.Dismiss)

		generative := api.Group("", opts.limit(middleware.AIRateLimitConfig()))
		generative.POST("/analysis", h.AI.Analyze)
		generative.POST("/quizzes/generate", h.AI.GenerateQuiz)
		generative.POST("/facts", h.AI.Facts)

		api.POST("/questions/report", h.Reports.Report)
	}

	admin := api.Group("/admin", opts.Auth.AdminOnly())
	{
		ads := admin.Group("/ads")
		ads.GET("", h.Ads.ListAds)
		ads.POST("", h.Ads.CreateAd)
		ads.POST("/upload", h.Ads.UploadMedia)
		ads.GET("/analytics", h.Ads.Analytics)
		ads.PATCH("/:id", adID, h.Ads.UpdateAd)
		ads.DELETE("/:id", adID, h.Ads.DeleteAd)
		ads.POST("/:id/toggle", adID, h.Ads.ToggleAd)
		ads.GET("/:id/views", adID, h.Ads.ViewLogs)
		ads.GET("/:id/clicks", adID, h.Ads.ClickLogs)

		payments := admin.Group("/payments")
		payments.GET("", h.Payments.List)
		payments.GET("/stats", h.Payments.Stats)
		payments.GET("/export", h.Payments.Export)
		payments.POST("/:id/complete", entityID, h.Payments.Complete)
		payments.POST("/:id/fail", entityID, h.Payments.Fail)

		users := admin.Group("/users")
		users.GET("", h.Users.ListUsers)
		users.GET("/metrics", h.Users.Metrics)
		users.DELETE("/:id", h.Users.DeleteUser)

		admin.GET("/reports", h.Reports.List)
	}

	if h.WS != nil {
		ws := r.Group("/ws", opts.Auth.RequireAuthQuery(), opts.Auth.AdminOnly())
		ws.GET("/admin", h.WS.HandleAdminConnection)
	}
}
