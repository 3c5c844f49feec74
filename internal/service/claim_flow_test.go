package service_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/sos_rescue_system/internal/config"
	"github.com/shenikar/sos_rescue_system/internal/metrics"
	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/repository"
	"github.com/shenikar/sos_rescue_system/internal/service"
)

type fixedClassifier struct {
	result models.Classification
}

func (f fixedClassifier) Classify(context.Context, string, [][]byte) models.Classification {
	return f.result
}

// newMemorySignalService собирает сервис поверх in-memory хранилища, без кэша
func newMemorySignalService(t *testing.T) service.SignalService {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	assessment := "moderate risk, monitor"
	classifier := fixedClassifier{result: models.Classification{
		DangerLevel:  models.DangerYellow,
		AIAssessment: &assessment,
	}}

	return service.NewSignalService(
		repository.NewMemorySignalRepository(),
		nil,
		classifier,
		metrics.New(),
		logger,
		&config.Config{MaxImageBytes: 1024},
	)
}

func TestSignalService_ConcurrentClaimSingleWinner(t *testing.T) {
	const teams = 20

	// Подготовка
	svc := newMemorySignalService(t)
	ctx := context.Background()
	signal := &models.Signal{Latitude: 10.5, Longitude: 106.7, Description: "building collapsed"}
	require.NoError(t, svc.CreateSignal(ctx, signal))

	teamIDs := make([]uuid.UUID, teams)
	for i := range teamIDs {
		teamIDs[i] = uuid.New()
	}

	// Действие: все команды одновременно пытаются взять сигнал
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
		winner   uuid.UUID
		other    []error
	)
	start := make(chan struct{})
	for _, teamID := range teamIDs {
		wg.Add(1)
		go func(teamID uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := svc.UpdateStatus(ctx, signal.ID, teamID, models.StatusInProgress, nil)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
				winner = teamID
			case errors.Is(err, models.ErrConflict):
				conflict++
			default:
				other = append(other, err)
			}
		}(teamID)
	}
	close(start)
	wg.Wait()

	// Проверки: ровно один победитель, остальные получили Conflict
	assert.Equal(t, 1, ok)
	assert.Equal(t, teams-1, conflict)
	assert.Empty(t, other)

	got, err := svc.GetSignal(ctx, signal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	require.NotNil(t, got.AssignedTeamID)
	assert.Equal(t, winner, *got.AssignedTeamID)

	history, err := svc.GetHistory(ctx, signal.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSignalService_FloodRescueFlow(t *testing.T) {
	svc := newMemorySignalService(t)
	ctx := context.Background()
	teamA, teamB := uuid.New(), uuid.New()

	// Сигнал создается в pending с оценкой классификатора
	signal := &models.Signal{Latitude: 21.0285, Longitude: 105.8542, Description: "flood, trapped on roof"}
	require.NoError(t, svc.CreateSignal(ctx, signal))
	assert.Equal(t, models.StatusPending, signal.Status)
	assert.Equal(t, models.DangerYellow, signal.DangerLevel)
	require.NotNil(t, signal.AIAssessment)
	assert.Equal(t, "moderate risk, monitor", *signal.AIAssessment)

	_, err := svc.GetRescuerLocation(ctx, signal.ID)
	assert.ErrorIs(t, err, models.ErrNotFound, "до захвата позиции нет")

	// Команда A берет сигнал
	claimed, err := svc.UpdateStatus(ctx, signal.ID, teamA, models.StatusInProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, claimed.Status)
	require.NotNil(t, claimed.AssignedTeamID)
	assert.Equal(t, teamA, *claimed.AssignedTeamID)

	// Команда B опоздала
	_, err = svc.UpdateStatus(ctx, signal.ID, teamB, models.StatusInProgress, nil)
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.ReportPosition(ctx, signal.ID, teamB, models.Position{Latitude: 21.02, Longitude: 105.84})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// Команда A сообщает позицию
	_, err = svc.ReportPosition(ctx, signal.ID, teamA, models.Position{Latitude: 21.03, Longitude: 105.85})
	require.NoError(t, err)

	loc, err := svc.GetRescuerLocation(ctx, signal.ID)
	require.NoError(t, err)
	assert.Equal(t, teamA, loc.TeamID)
	assert.Equal(t, 21.03, loc.Latitude)
	assert.Equal(t, 105.85, loc.Longitude)

	// B не может завершить чужой сигнал, A завершает
	_, err = svc.UpdateStatus(ctx, signal.ID, teamB, models.StatusCompleted, nil)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	notes := "all evacuated"
	completed, err := svc.UpdateStatus(ctx, signal.ID, teamA, models.StatusCompleted, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// После завершения позиции больше не принимаются
	_, err = svc.ReportPosition(ctx, signal.ID, teamA, models.Position{Latitude: 21.04, Longitude: 105.86})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	history, err := svc.GetHistory(ctx, signal.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.StatusPending, history[0].ToStatus)
	assert.Equal(t, models.StatusInProgress, history[1].ToStatus)
	assert.Equal(t, models.StatusCompleted, history[2].ToStatus)
	require.NotNil(t, history[2].Notes)
	assert.Equal(t, notes, *history[2].Notes)
}
