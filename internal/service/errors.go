package service

import (
	"errors"
	"fmt"

	apperrors "github.com/yourusername/indcric-api/internal/pkg/errors"
)

// Ошибки сервисного слоя, обёрнутые в категории apperrors
var (
	ErrInvalidSlot      = fmt.Errorf("%w: unknown ad slot", apperrors.ErrValidation)
	ErrUnsupportedMedia = fmt.Errorf("%w: unsupported media file", apperrors.ErrValidation)
	ErrAlreadyAttempted = fmt.Errorf("%w: quiz slot already attempted", apperrors.ErrConflict)
	ErrAlreadyResolved  = fmt.Errorf("%w: payment request already resolved", apperrors.ErrConflict)
)

// isNotFound сокращение для проверки apperrors.ErrNotFound
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
