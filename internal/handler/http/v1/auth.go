package v1

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

const teamContextKey = "rescue_team"

// bearerToken достает токен из заголовка Authorization: Bearer
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > len("Bearer ") && strings.EqualFold(authHeader[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// TeamAuthMiddleware - middleware для аутентификации команды по JWT.
// Команда берется только из проверенного токена, а не из тела запроса.
func (h *Handler) TeamAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := h.logger.WithField("method", "TeamAuthMiddleware")

		token := bearerToken(c)
		if token == "" {
			log.Warn("Bearer token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		team, err := h.teamService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				log.WithError(err).Warn("Rejected team credential")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": publicMessage(err)})
				return
			}
			log.WithError(err).Error("Failed to authenticate team")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(teamContextKey, team)
		c.Next()
	}
}

// teamFromContext возвращает команду, установленную TeamAuthMiddleware
func teamFromContext(c *gin.Context) *models.RescueTeam {
	if v, ok := c.Get(teamContextKey); ok {
		if team, ok := v.(*models.RescueTeam); ok {
			return team
		}
	}
	return nil
}

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу (служебные маршруты, /metrics)
func APIKeyAuthMiddleware(apiKeys []string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			apiKey = bearerToken(c)
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		isValid := false
		for _, key := range apiKeys {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				isValid = true
				break
			}
		}

		if !isValid {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}
