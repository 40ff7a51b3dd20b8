package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (нет токена, неверный токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (повторная попытка прохождения того же слота викторины, повторная обработка выплаты).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется, когда внешний сервис (AI, почта, хранилище) не настроен или недоступен.
	ErrUnavailable = errors.New("external service unavailable")
)
