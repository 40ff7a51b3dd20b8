package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	"github.com/yourusername/indcric-api/pkg/auth"
)

// Ключи контекста Gin, которые выставляет RequireAuth
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// TokenParser проверяет токен доступа
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	tokens TokenParser
}

// NewAuthMiddleware создает middleware аутентификации
func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth проверяет Bearer токен и кладёт uid, email и роль в контекст
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.require(false)
}

// RequireAuthQuery то же, что RequireAuth, но принимает токен и из параметра ?token=.
// Нужен для WebSocket: браузер не передаёт заголовки при апгрейде.
func (m *AuthMiddleware) RequireAuthQuery() gin.HandlerFunc {
	return m.require(true)
}

func (m *AuthMiddleware) require(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errType := bearerToken(c.GetHeader("Authorization"))
		if token == "" && allowQuery {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			msg := "Authorization header is required"
			if errType == "token_format" {
				msg = "Authorization header format must be Bearer {token}"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "error_type": errType})
			return
		}

		claims, err := m.tokens.ParseToken(token)
		if err != nil {
			errType := "token_invalid"
			if errors.Is(err, auth.ErrTokenExpired) {
				errType = "token_expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": errType})
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// AdminOnly пропускает только пользователей с ролью admin. Применяется после RequireAuth.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if c.GetString(CtxRole) != entity.RoleAdmin {
			log.Warn().Str("component", "Auth").Str("user_id", userID).Str("path", c.FullPath()).Msg("Доступ к админке без роли admin")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin rights required", "error_type": "forbidden"})
			return
		}
		c.Next()
	}
}

// UserID возвращает uid аутентифицированного пользователя
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "token_missing"
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "token_format"
	}
	return parts[1], ""
}
