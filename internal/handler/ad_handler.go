package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/internal/handler/dto"
	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/service"
)

// Ключи контекста, заполняемые middleware параметров
const (
	ParamAdID = "adID"
	ParamSlot = "adSlot"
	ParamID   = "entityID"
)

// AdHandler обрабатывает запросы рекламы
type AdHandler struct {
	adService      *service.AdService
	maxUploadBytes int64
}

// NewAdHandler создает обработчик рекламы. maxUploadMB <= 0 означает 50 MB.
func NewAdHandler(adService *service.AdService, maxUploadMB int64) *AdHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	return &AdHandler{adService: adService, maxUploadBytes: maxUploadMB << 20}
}

func slotFrom(c *gin.Context) entity.AdSlot {
	v, _ := c.Get(ParamSlot)
	slot, _ := v.(entity.AdSlot)
	return slot
}

// GetAdsBySlot GET /api/ads/:slot
func (h *AdHandler) GetAdsBySlot(c *gin.Context) {
	ads := h.adService.GetAdsBySlot(c.Request.Context(), slotFrom(c))
	if ads == nil {
		ads = []entity.Ad{}
	}
	c.JSON(http.StatusOK, dto.AdListResponse{Items: ads})
}

// GetSingleAd GET /api/ads/:slot/single. Пустой слот даёт {"ad": null}.
func (h *AdHandler) GetSingleAd(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ad": h.adService.GetSingleAd(c.Request.Context(), slotFrom(c))})
}

// GetInterstitial GET /api/ads/:slot/interstitial
func (h *AdHandler) GetInterstitial(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"interstitial": h.adService.GetInterstitial(c.Request.Context(), slotFrom(c))})
}

// LogView POST /api/ads/:id/view
func (h *AdHandler) LogView(c *gin.Context) {
	if err := h.adService.LogView(c.Request.Context(), c.GetString(ParamAdID), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogClick POST /api/ads/:id/click
func (h *AdHandler) LogClick(c *gin.Context) {
	if err := h.adService.LogClick(c.Request.Context(), c.GetString(ParamAdID), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAds GET /api/admin/ads
func (h *AdHandler) ListAds(c *gin.Context) {
	ads, err := h.adService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AdListResponse{Items: ads})
}

// CreateAd POST /api/admin/ads
func (h *AdHandler) CreateAd(c *gin.Context) {
	var req dto.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	slot, ok := entity.ParseAdSlot(req.AdSlot)
	if !ok {
		respondError(c, service.ErrInvalidSlot)
		return
	}
	kind := entity.MediaKind(req.AdType)
	if kind == "" {
		kind = entity.MediaImage
	}

	ad, err := h.adService.CreateAd(c.Request.Context(), service.AdInput{
		CompanyName: req.CompanyName,
		Slot:        slot,
		MediaKind:   kind,
		MediaURL:    req.MediaURL,
		RedirectURL: req.RedirectURL,
		Revenue:     req.Revenue,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// UpdateAd PATCH /api/admin/ads/:id
func (h *AdHandler) UpdateAd(c *gin.Context) {
	var req dto.UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	patch := service.AdPatch{
		CompanyName: req.CompanyName,
		MediaURL:    req.MediaURL,
		RedirectURL: req.RedirectURL,
		Revenue:     req.Revenue,
		IsActive:    req.IsActive,
	}
	if req.AdSlot != nil {
		slot, ok := entity.ParseAdSlot(*req.AdSlot)
		if !ok {
			respondError(c, service.ErrInvalidSlot)
			return
		}
		patch.Slot = &slot
	}
	if req.AdType != nil {
		kind := entity.MediaKind(*req.AdType)
		patch.MediaKind = &kind
	}

	ad, err := h.adService.UpdateAd(c.Request.Context(), c.GetString(ParamAdID), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// ToggleAd POST /api/admin/ads/:id/toggle
func (h *AdHandler) ToggleAd(c *gin.Context) {
	var req dto.ToggleAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.adService.SetActive(c.Request.Context(), c.GetString(ParamAdID), *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.GetString(ParamAdID), "is_active": *req.IsActive})
}

// DeleteAd DELETE /api/admin/ads/:id
func (h *AdHandler) DeleteAd(c *gin.Context) {
	if err := h.adService.DeleteAd(c.Request.Context(), c.GetString(ParamAdID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "реклама удалена"})
}

// UploadMedia POST /api/admin/ads/upload (multipart: file, ad_slot, company_name)
func (h *AdHandler) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл не найден: " + err.Error(), "error_type": errTypeValidation})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "файл слишком большой", "error_type": errTypeValidation})
		return
	}

	slot, ok := entity.ParseAdSlot(c.PostForm("ad_slot"))
	if !ok {
		respondError(c, service.ErrInvalidSlot)
		return
	}

	url, kind, err := h.adService.UploadMedia(c.Request.Context(), header.Filename, file, slot, c.PostForm("company_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UploadMediaResponse{MediaURL: url, AdType: kind})
}

// Analytics GET /api/admin/ads/analytics
func (h *AdHandler) Analytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.adService.Analytics(c.Request.Context()))
}

// ViewLogs GET /api/admin/ads/:id/views
func (h *AdHandler) ViewLogs(c *gin.Context) {
	events, err := h.adService.ViewLogs(c.Request.Context(), c.GetString(ParamAdID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AdEventListResponse{Items: events})
}

// ClickLogs GET /api/admin/ads/:id/clicks
func (h *AdHandler) ClickLogs(c *gin.Context) {
	events, err := h.adService.ClickLogs(c.Request.Context(), c.GetString(ParamAdID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AdEventListResponse{Items: events})
}
