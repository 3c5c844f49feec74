package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

func TestUpdateStatus_ClaimSuccess(t *testing.T) {
	// Подготовка
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id, teamA := uuid.New(), uuid.New()
	notes := "on our way"
	claimed := &models.Signal{ID: id, Status: models.StatusInProgress, AssignedTeamID: &teamA}

	// Ожидания
	deps.repo.EXPECT().
		Transition(ctx, id, models.Transition{
			From:   models.StatusPending,
			To:     models.StatusInProgress,
			TeamID: teamA,
			Notes:  &notes,
		}).
		Return(claimed, nil).
		Times(1)

	// Действие
	signal, err := svc.UpdateStatus(ctx, id, teamA, models.StatusInProgress, &notes)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, claimed, signal)
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.metrics.Transitions.WithLabelValues("in_progress", "ok")))
}

func TestUpdateStatus_ClaimLostRaceIsConflict(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id, teamA, teamB := uuid.New(), uuid.New(), uuid.New()
	current := &models.Signal{ID: id, Status: models.StatusInProgress, AssignedTeamID: &teamA}

	deps.repo.EXPECT().
		Transition(ctx, id, gomock.Any()).
		Return(current, models.ErrStateMismatch).
		Times(1)

	signal, err := svc.UpdateStatus(ctx, id, teamB, models.StatusInProgress, nil)

	assert.Nil(t, signal)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NotErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.metrics.Transitions.WithLabelValues("in_progress", "conflict")))
}

func TestUpdateStatus_ClaimRejectedAsInvalidTransition(t *testing.T) {
	teamA := uuid.New()
	tests := []struct {
		name    string
		current *models.Signal
	}{
		{"already completed", &models.Signal{Status: models.StatusCompleted, AssignedTeamID: &teamA}},
		{"already held by caller", &models.Signal{Status: models.StatusInProgress, AssignedTeamID: &teamA}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestSignalService(t)
			deps.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.current, models.ErrStateMismatch)

			_, err := svc.UpdateStatus(context.Background(), uuid.New(), teamA, models.StatusInProgress, nil)
			assert.ErrorIs(t, err, models.ErrInvalidTransition)
			assert.NotErrorIs(t, err, models.ErrConflict)
		})
	}
}

func TestUpdateStatus_CompleteSuccess(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id, teamA := uuid.New(), uuid.New()
	completed := &models.Signal{ID: id, Status: models.StatusCompleted, AssignedTeamID: &teamA}

	deps.repo.EXPECT().
		Transition(ctx, id, models.Transition{
			From:            models.StatusInProgress,
			To:              models.StatusCompleted,
			TeamID:          teamA,
			RequireAssignee: true,
		}).
		Return(completed, nil)
	// ответ перехода без картинок, в кеш попадает только полный сигнал из GetSignal
	deps.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	signal, err := svc.UpdateStatus(ctx, id, teamA, models.StatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, signal.Status)
}

func TestUpdateStatus_CompleteRejected(t *testing.T) {
	teamA, teamB := uuid.New(), uuid.New()
	tests := []struct {
		name    string
		current *models.Signal
	}{
		{"by another team", &models.Signal{Status: models.StatusInProgress, AssignedTeamID: &teamA}},
		{"skipping in_progress", &models.Signal{Status: models.StatusPending}},
		{"twice", &models.Signal{Status: models.StatusCompleted, AssignedTeamID: &teamB}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestSignalService(t)
			deps.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.current, models.ErrStateMismatch)
			deps.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

			_, err := svc.UpdateStatus(context.Background(), uuid.New(), teamB, models.StatusCompleted, nil)
			assert.ErrorIs(t, err, models.ErrInvalidTransition)
		})
	}
}

func TestUpdateStatus_BackToPending(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()

	deps.repo.EXPECT().GetByID(ctx, id).Return(&models.Signal{ID: id, Status: models.StatusInProgress}, nil)
	deps.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpdateStatus(ctx, id, uuid.New(), models.StatusPending, nil)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, deps := newTestSignalService(t)

	deps.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), "archived", nil)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, deps := newTestSignalService(t)

	deps.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrNotFound)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), models.StatusInProgress, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.metrics.Transitions.WithLabelValues("in_progress", "not_found")))
}

func TestUpdateStatus_RepositoryError(t *testing.T) {
	svc, deps := newTestSignalService(t)
	dbErr := errors.New("connection reset")

	deps.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, dbErr)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), models.StatusCompleted, nil)
	assert.ErrorIs(t, err, dbErr)
	assert.ErrorContains(t, err, "could not update signal status")
}

func TestReportPosition(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id, teamA := uuid.New(), uuid.New()
	pos := models.Position{Latitude: 21.03, Longitude: 105.85}
	updated := &models.Signal{
		ID:              id,
		Status:          models.StatusInProgress,
		AssignedTeamID:  &teamA,
		RescuerLocation: &models.RescuerLocation{Latitude: pos.Latitude, Longitude: pos.Longitude, TeamID: teamA},
	}

	deps.repo.EXPECT().UpdateRescuerLocation(ctx, id, teamA, pos).Return(updated, nil).Times(1)

	signal, err := svc.ReportPosition(ctx, id, teamA, pos)
	require.NoError(t, err)
	assert.Equal(t, 21.03, signal.RescuerLocation.Latitude)
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.metrics.LocationReports.WithLabelValues("ok")))
}

func TestReportPosition_RejectedIsUnauthorized(t *testing.T) {
	teamA, teamB := uuid.New(), uuid.New()
	tests := []struct {
		name    string
		team    uuid.UUID
		current *models.Signal
	}{
		{"non-assignee", teamB, &models.Signal{Status: models.StatusInProgress, AssignedTeamID: &teamA}},
		{"after completion", teamA, &models.Signal{Status: models.StatusCompleted, AssignedTeamID: &teamA}},
		{"before claim", teamA, &models.Signal{Status: models.StatusPending}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestSignalService(t)
			deps.repo.EXPECT().UpdateRescuerLocation(gomock.Any(), gomock.Any(), tt.team, gomock.Any()).
				Return(tt.current, models.ErrStateMismatch)

			_, err := svc.ReportPosition(context.Background(), uuid.New(), tt.team, models.Position{Latitude: 1, Longitude: 1})
			assert.ErrorIs(t, err, models.ErrUnauthorized)
		})
	}
}

func TestReportPosition_InvalidPosition(t *testing.T) {
	svc, deps := newTestSignalService(t)

	deps.repo.EXPECT().UpdateRescuerLocation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.ReportPosition(context.Background(), uuid.New(), uuid.New(), models.Position{Latitude: 10, Longitude: 200})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestReportPosition_NotFound(t *testing.T) {
	svc, deps := newTestSignalService(t)

	deps.repo.EXPECT().UpdateRescuerLocation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrNotFound)

	_, err := svc.ReportPosition(context.Background(), uuid.New(), uuid.New(), models.Position{Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
