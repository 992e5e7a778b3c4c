package middleware

import (
	"net/http"
	"strings"

	"github.com/arch-spatula/jmc/internal/errors"
	"github.com/arch-spatula/jmc/pkg/util"
	"github.com/gin-gonic/gin"
)

const editorKey = "editor"

// AuthMiddleware 편집 권한 검사
// passwordHash가 비어 있으면 인증 없이 모든 요청을 통과시킨다
type AuthMiddleware struct {
	jwtSecret    string
	passwordHash string
}

func NewAuthMiddleware(jwtSecret, passwordHash string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:    jwtSecret,
		passwordHash: passwordHash,
	}
}

// Enabled reports whether editing requires a token
func (m *AuthMiddleware) Enabled() bool {
	return m.passwordHash != ""
}

// RequireEditor validates the editor token from the Authorization header
// or the token query parameter (websocket)
func (m *AuthMiddleware) RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Set(editorKey, true)
			c.Next()
			return
		}

		log := GetLoggerFromContext(c)

		token, ok := extractToken(c)
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "인증 형식이 올바르지 않습니다")
			c.Abort()
			return
		}
		if token == "" {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if _, err := util.ValidateToken(token, m.jwtSecret); err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "편집 권한이 만료되었습니다")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "유효하지 않은 인증 토큰입니다")
			}
			c.Abort()
			return
		}

		c.Set(editorKey, true)
		c.Next()
	}
}

// extractToken returns ok=false when an Authorization header is present but malformed
func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return c.Query("token"), true
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// IsEditor reports whether RequireEditor accepted the request
func IsEditor(c *gin.Context) bool {
	return c.GetBool(editorKey)
}
