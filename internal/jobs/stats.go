package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

const refreshTimeout = 30 * time.Second

// StatsSource отдает актуальную статистику; сервис сигналов сам обновляет gauge-метрики
type StatsSource interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// StatsRefresher - периодическое обновление gauge-метрик по расписанию cron
type StatsRefresher struct {
	source   StatsSource
	schedule string
	logger   *logrus.Logger
	cron     *cron.Cron
}

// NewStatsRefresher проверяет расписание сразу, чтобы ошибка конфигурации всплыла при старте
func NewStatsRefresher(source StatsSource, schedule string, logger *logrus.Logger) (*StatsRefresher, error) {
	r := &StatsRefresher{
		source:   source,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
	if _, err := r.cron.AddFunc(schedule, func() { r.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid stats refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start запускает планировщик и останавливает его при отмене ctx
func (r *StatsRefresher) Start(ctx context.Context) {
	r.logger.WithField("schedule", r.schedule).Info("Starting stats refresher...")
	r.cron.Start()
	go func() {
		<-ctx.Done()
		// Ждем завершения уже запущенного обновления
		<-r.cron.Stop().Done()
		r.logger.Info("Stopping stats refresher.")
	}()
}

// RunOnce выполняет одно обновление; ошибки только логируются
func (r *StatsRefresher) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	log := r.logger.WithFields(logrus.Fields{
		"service": "StatsRefresher",
		"method":  "RunOnce",
	})

	stats, err := r.source.GetDashboardStats(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to refresh signal stats")
		return
	}
	log.WithFields(logrus.Fields{
		"total":       stats.Total,
		"pending":     stats.Pending,
		"in_progress": stats.InProgress,
	}).Debug("Signal stats refreshed")
}
