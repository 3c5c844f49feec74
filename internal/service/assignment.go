package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

// UpdateStatus переводит сигнал в новый статус от имени команды.
// in_progress - захват свободного сигнала, completed - завершение своим исполнителем.
func (s *signalService) UpdateStatus(ctx context.Context, id, teamID uuid.UUID, status models.SignalStatus, notes *string) (*models.Signal, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "signal",
		"method":    "UpdateStatus",
		"signal_id": id,
		"team_id":   teamID,
		"status":    status,
	})
	log.Info("Attempting to change signal status")

	if !status.IsValid() {
		err := fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
		log.WithError(err).Warn("Status validation failed")
		return nil, err
	}

	var (
		signal *models.Signal
		err    error
	)
	switch status {
	case models.StatusInProgress:
		signal, err = s.claim(ctx, id, teamID, notes)
	case models.StatusCompleted:
		signal, err = s.complete(ctx, id, teamID, notes)
	default:
		// в pending вернуться нельзя, но о несуществующем сигнале сообщаем как 404
		if _, err = s.repo.GetByID(ctx, id); err == nil {
			err = fmt.Errorf("%w: signal cannot return to %s", models.ErrInvalidTransition, status)
		}
	}

	if err != nil {
		s.metrics.Transitions.WithLabelValues(string(status), transitionResult(err)).Inc()
		log.WithError(err).Warn("Signal status change rejected")
		return nil, fmt.Errorf("service: could not update signal status: %w", err)
	}

	s.metrics.Transitions.WithLabelValues(string(status), "ok").Inc()
	log.Info("Signal status changed successfully")
	return signal, nil
}

// claim: pending -> in_progress, исполнителем становится teamID
func (s *signalService) claim(ctx context.Context, id, teamID uuid.UUID, notes *string) (*models.Signal, error) {
	signal, err := s.repo.Transition(ctx, id, models.Transition{
		From:   models.StatusPending,
		To:     models.StatusInProgress,
		TeamID: teamID,
		Notes:  notes,
	})
	if err == nil {
		return signal, nil
	}

	current := currentOrNil(signal, err)
	if current == nil {
		return nil, err
	}
	// сигнал уже у другой команды: проигравший гонку получает Conflict
	if current.Status == models.StatusInProgress && !current.IsAssignedTo(teamID) {
		return nil, fmt.Errorf("%w: signal %s is already claimed by another team", models.ErrConflict, id)
	}
	return nil, fmt.Errorf("%w: cannot claim signal in status %s", models.ErrInvalidTransition, current.Status)
}

// complete: in_progress -> completed, только назначенной командой
func (s *signalService) complete(ctx context.Context, id, teamID uuid.UUID, notes *string) (*models.Signal, error) {
	signal, err := s.repo.Transition(ctx, id, models.Transition{
		From:            models.StatusInProgress,
		To:              models.StatusCompleted,
		TeamID:          teamID,
		RequireAssignee: true,
		Notes:           notes,
	})
	if err == nil {
		return signal, nil
	}

	current := currentOrNil(signal, err)
	if current == nil {
		return nil, err
	}
	if current.Status != models.StatusInProgress {
		return nil, fmt.Errorf("%w: cannot complete signal in status %s", models.ErrInvalidTransition, current.Status)
	}
	return nil, fmt.Errorf("%w: signal is assigned to another team", models.ErrInvalidTransition)
}

func transitionResult(err error) string {
	switch {
	case errors.Is(err, models.ErrConflict):
		return "conflict"
	case errors.Is(err, models.ErrInvalidTransition):
		return "invalid"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	}
	return "error"
}
