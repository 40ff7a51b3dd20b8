package dto

import (
	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// CreateAdRequest тело запроса на создание рекламы
type CreateAdRequest struct {
	CompanyName string  `json:"company_name" binding:"required,max=100"`
	AdSlot      string  `json:"ad_slot" binding:"required"`
	AdType      string  `json:"ad_type" binding:"omitempty,oneof=image video"`
	MediaURL    string  `json:"media_url" binding:"required,url,max=1024"`
	RedirectURL string  `json:"redirect_url" binding:"omitempty,url,max=1024"`
	Revenue     float64 `json:"revenue" binding:"gte=0"`
}

// UpdateAdRequest частичное изменение рекламы
type UpdateAdRequest struct {
	CompanyName *string  `json:"company_name" binding:"omitempty,max=100"`
	AdSlot      *string  `json:"ad_slot"`
	AdType      *string  `json:"ad_type" binding:"omitempty,oneof=image video"`
	MediaURL    *string  `json:"media_url" binding:"omitempty,url,max=1024"`
	RedirectURL *string  `json:"redirect_url" binding:"omitempty,max=1024"`
	Revenue     *float64 `json:"revenue" binding:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

// ToggleAdRequest включение/выключение рекламы
type ToggleAdRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// UploadMediaResponse результат загрузки креатива
type UploadMediaResponse struct {
	MediaURL string           `json:"media_url"`
	AdType   entity.MediaKind `json:"ad_type"`
}

// AdListResponse список рекламы
type AdListResponse struct {
	Items []entity.Ad `json:"items"`
}

// AdEventListResponse журнал показов или кликов
type AdEventListResponse struct {
	Items []entity.AdEvent `json:"items"`
}
