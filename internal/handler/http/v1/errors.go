package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

// statusForError сопоставляет доменные ошибки HTTP-кодам
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// publicMessage убирает из текста ошибки служебные префиксы слоев
func publicMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), "service: ")
	if idx := strings.Index(msg, ": "); idx >= 0 && strings.HasPrefix(msg, "could not ") {
		msg = msg[idx+2:]
	}
	return msg
}

// respondError пишет {"error": ...} с кодом по типу ошибки; 5xx не раскрывают детали
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	respondErrorWithStatus(c, log, statusForError(err), err)
}

func respondErrorWithStatus(c *gin.Context, log *logrus.Entry, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	log.WithError(err).Warn("Request rejected")
	c.JSON(status, gin.H{"error": publicMessage(err)})
}
