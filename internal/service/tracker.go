package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

// ReportPosition сохраняет последнюю позицию спасателя.
// Принимается только от назначенной команды, пока сигнал в работе; хранится только последняя точка.
func (s *signalService) ReportPosition(ctx context.Context, id, teamID uuid.UUID, pos models.Position) (*models.Signal, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "signal",
		"method":    "ReportPosition",
		"signal_id": id,
		"team_id":   teamID,
	})

	if err := pos.Validate(); err != nil {
		s.metrics.LocationReports.WithLabelValues("invalid").Inc()
		log.WithError(err).Warn("Position validation failed")
		return nil, err
	}

	signal, err := s.repo.UpdateRescuerLocation(ctx, id, teamID, pos)
	if err != nil {
		if errors.Is(err, models.ErrStateMismatch) {
			s.metrics.LocationReports.WithLabelValues("rejected").Inc()
			status := models.SignalStatus("")
			if signal != nil {
				status = signal.Status
			}
			log.WithField("current_status", status).Warn("Position report from a team that does not hold the signal")
			return nil, fmt.Errorf("service: position rejected for signal %s: %w", id, models.ErrUnauthorized)
		}
		s.metrics.LocationReports.WithLabelValues("error").Inc()
		log.WithError(err).Warn("Failed to update rescuer location in repository")
		return nil, fmt.Errorf("service: could not update rescuer location: %w", err)
	}

	s.metrics.LocationReports.WithLabelValues("ok").Inc()
	log.Debug("Rescuer location updated")
	return signal, nil
}
