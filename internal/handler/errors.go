package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

// Типы ошибок в ответах API
const (
	errTypeValidation   = "validation_error"
	errTypeUnauthorized = "unauthorized"
	errTypeForbidden    = "forbidden"
	errTypeNotFound     = "not_found"
	errTypeConflict     = "conflict"
	errTypeUnavailable  = "service_unavailable"
	errTypeInternal     = "internal_error"
)

// respondError переводит ошибку сервиса в HTTP ответ
func respondError(c *gin.Context, err error) {
	status, errType := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Необработанная ошибка сервиса")
		c.JSON(status, gin.H{"error": "внутренняя ошибка сервера", "error_type": errType})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "error_type": errType})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, errTypeValidation
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, errTypeUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, errTypeForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, errTypeNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, errTypeConflict
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable, errTypeUnavailable
	}
	return http.StatusInternalServerError, errTypeInternal
}

// respondBindError отвечает 400 на ошибку разбора тела запроса.
// Для ошибок валидатора возвращается список полей.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe)] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "некорректные данные запроса",
			"error_type": errTypeValidation,
			"fields":     fields,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные данные запроса: " + err.Error(), "error_type": errTypeValidation})
}

func jsonFieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}
