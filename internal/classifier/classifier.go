package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/metrics"
	"github.com/shenikar/sos_rescue_system/internal/models"
)

// Backend - внешний сервис оценки опасности
type Backend interface {
	Name() string
	Classify(ctx context.Context, description string, images [][]byte) (models.Classification, error)
}

// Adapter вызывает Backend с таймаутом и никогда не возвращает ошибку:
// при любом сбое сигнал получает уровень red и пустую оценку
type Adapter struct {
	backend Backend
	timeout time.Duration
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

func NewAdapter(backend Backend, timeout time.Duration, logger *logrus.Logger, m *metrics.Metrics) *Adapter {
	return &Adapter{
		backend: backend,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

// Classify возвращает оценку опасности для нового сигнала
func (a *Adapter) Classify(ctx context.Context, description string, images [][]byte) models.Classification {
	log := a.logger.WithFields(logrus.Fields{
		"component": "classifier",
		"backend":   a.backend.Name(),
		"images":    len(images),
	})

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	result, err := a.backend.Classify(callCtx, description, images)
	a.metrics.ClassifierDuration.Observe(time.Since(start).Seconds())

	if err == nil && !result.DangerLevel.IsValid() {
		err = fmt.Errorf("backend returned unknown danger level %q", result.DangerLevel)
	}
	if err != nil {
		a.metrics.ClassifierFallbacks.Inc()
		log.WithError(fmt.Errorf("%w: %w", models.ErrClassifierUnavailable, err)).
			Warn("Danger classifier failed, falling back to red")
		return models.Classification{DangerLevel: models.DangerRed}
	}

	log.WithField("danger_level", result.DangerLevel).Debug("Signal classified")
	return result
}

// ErrUnparseable - ответ модели не содержит распознаваемого уровня
var ErrUnparseable = errors.New("classifier response has no danger level")

// levelFromSeverity переводит high/medium/low модели в цветовой уровень
func levelFromSeverity(severity string) (models.DangerLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "high", "red", "critical":
		return models.DangerRed, true
	case "medium", "yellow", "moderate":
		return models.DangerYellow, true
	case "low", "green":
		return models.DangerGreen, true
	}
	return "", false
}

// parseLabeledResponse разбирает ответ формата
//
//	DANGER_LEVEL: high
//	ASSESSMENT: ...
func parseLabeledResponse(text string) (models.Classification, error) {
	var (
		level      models.DangerLevel
		found      bool
		assessment []string
		inAssess   bool
	)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		switch {
		case strings.HasPrefix(upper, "DANGER_LEVEL:"):
			level, found = levelFromSeverity(trimmed[len("DANGER_LEVEL:"):])
			inAssess = false
		case strings.HasPrefix(upper, "ASSESSMENT:"):
			assessment = append(assessment, strings.TrimSpace(trimmed[len("ASSESSMENT:"):]))
			inAssess = true
		case inAssess && trimmed != "":
			assessment = append(assessment, trimmed)
		}
	}
	if !found {
		return models.Classification{}, ErrUnparseable
	}

	result := models.Classification{DangerLevel: level}
	if text := strings.TrimSpace(strings.Join(assessment, "\n")); text != "" {
		result.AIAssessment = &text
	}
	return result, nil
}
