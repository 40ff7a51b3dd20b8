package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/indcric-api/internal/domain/entity"
)

// ExtractUUIDParam создает middleware для извлечения и валидации UUID параметра URL.
// paramName - имя параметра в URL (например, "id").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractUUIDParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(paramName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(contextKey, id.String())
		c.Next()
	}
}

// SlotParamOrEmpty кладёт в контекст слот или пустое значение для неизвестного.
// Публичные чтения рекламы отдают пустой ответ вместо 400.
func SlotParamOrEmpty(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		slot, _ := entity.ParseAdSlot(c.Param(paramName))
		c.Set(contextKey, slot)
		c.Next()
	}
}
