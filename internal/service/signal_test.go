package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/sos_rescue_system/internal/config"
	"github.com/shenikar/sos_rescue_system/internal/metrics"
	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/service/mocks"
)

type signalServiceDeps struct {
	repo       *mocks.MockSignalRepository
	cache      *mocks.MockSignalCache
	classifier *mocks.MockDangerClassifier
	metrics    *metrics.Metrics
}

// newTestSignalService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestSignalService(t *testing.T) (*signalService, signalServiceDeps) {
	ctrl := gomock.NewController(t)
	deps := signalServiceDeps{
		repo:       mocks.NewMockSignalRepository(ctrl),
		cache:      mocks.NewMockSignalCache(ctrl),
		classifier: mocks.NewMockDangerClassifier(ctrl),
		metrics:    metrics.New(),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{MaxImageBytes: 1024}

	svc := NewSignalService(deps.repo, deps.cache, deps.classifier, deps.metrics, logger, cfg)
	return svc.(*signalService), deps
}

func ptr[T any](v T) *T { return &v }

func TestCreateSignal_Success(t *testing.T) {
	// Подготовка
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	signal := &models.Signal{
		Latitude:    21.0285,
		Longitude:   105.8542,
		Description: "flood, trapped on roof",
		Images:      [][]byte{{1, 2, 3}},
	}

	// Ожидания
	deps.classifier.EXPECT().
		Classify(ctx, signal.Description, signal.Images).
		Return(models.Classification{DangerLevel: models.DangerYellow, AIAssessment: ptr("moderate risk, monitor")}).
		Times(1)

	deps.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s *models.Signal) error {
			// Симулируем, что хранилище присвоило ID и время
			s.ID = uuid.New()
			s.CreatedAt = time.Now()
			s.UpdatedAt = s.CreatedAt
			return nil
		}).Times(1)

	// Действие
	err := svc.CreateSignal(ctx, signal)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, signal.ID)
	assert.Equal(t, models.StatusPending, signal.Status)
	assert.Equal(t, models.DangerYellow, signal.DangerLevel)
	assert.Equal(t, "moderate risk, monitor", *signal.AIAssessment)
	assert.Equal(t, 1, signal.ImageCount)
	assert.Nil(t, signal.AssignedTeamID)
	assert.Equal(t, 1.0, testutil.ToFloat64(deps.metrics.SignalsCreated.WithLabelValues("yellow")))
}

func TestCreateSignal_ClassifierDowngradeStillCreates(t *testing.T) {
	// Подготовка
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	signal := &models.Signal{Latitude: 1, Longitude: 2, Description: "help"}

	// Ожидания: адаптер уже заменил сбой на red без оценки
	deps.classifier.EXPECT().
		Classify(ctx, "help", gomock.Nil()).
		Return(models.Classification{DangerLevel: models.DangerRed}).
		Times(1)
	deps.repo.EXPECT().Create(ctx, signal).Return(nil).Times(1)

	// Действие
	err := svc.CreateSignal(ctx, signal)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.DangerRed, signal.DangerLevel)
	assert.Nil(t, signal.AIAssessment)
}

func TestCreateSignal_ValidationError(t *testing.T) {
	tests := []struct {
		name   string
		signal *models.Signal
	}{
		{"empty description", &models.Signal{Latitude: 1, Longitude: 1, Description: "   "}},
		{"latitude out of range", &models.Signal{Latitude: 91, Longitude: 1, Description: "help"}},
		{"too many images", &models.Signal{Latitude: 1, Longitude: 1, Description: "help", Images: [][]byte{{1}, {2}, {3}, {4}}}},
		{"image too large", &models.Signal{Latitude: 1, Longitude: 1, Description: "help", Images: [][]byte{make([]byte, 2048)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestSignalService(t)

			// Ни классификатор, ни хранилище не должны вызываться
			deps.classifier.EXPECT().Classify(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

			err := svc.CreateSignal(context.Background(), tt.signal)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCreateSignal_RepositoryError(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()

	deps.classifier.EXPECT().Classify(ctx, gomock.Any(), gomock.Any()).Return(models.Classification{DangerLevel: models.DangerGreen})
	deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("db down"))

	err := svc.CreateSignal(ctx, &models.Signal{Latitude: 1, Longitude: 1, Description: "help"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not create signal")
}

func TestGetSignal_FromCache(t *testing.T) {
	// Подготовка
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()
	cached := &models.Signal{ID: id, Status: models.StatusCompleted}

	// Ожидания
	deps.cache.EXPECT().Get(ctx, id).Return(cached, nil).Times(1)
	deps.repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	signal, err := svc.GetSignal(ctx, id)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, cached, signal)
}

func TestGetSignal_CompletedIsCached(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()
	stored := &models.Signal{ID: id, Status: models.StatusCompleted}

	// 1. Промах кеша
	deps.cache.EXPECT().Get(ctx, id).Return(nil, nil).Times(1)
	// 2. Попадание в хранилище
	deps.repo.EXPECT().GetByID(ctx, id).Return(stored, nil).Times(1)
	// 3. Запись в кеш, так как сигнал больше не меняется
	deps.cache.EXPECT().Set(ctx, stored).Return(nil).Times(1)

	signal, err := svc.GetSignal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stored, signal)
}

func TestGetSignal_ActiveIsNotCached(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()
	stored := &models.Signal{ID: id, Status: models.StatusInProgress}

	deps.cache.EXPECT().Get(ctx, id).Return(nil, nil).Times(1)
	deps.repo.EXPECT().GetByID(ctx, id).Return(stored, nil).Times(1)
	deps.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	signal, err := svc.GetSignal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stored, signal)
}

func TestGetSignal_CacheErrorFallsThrough(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()
	stored := &models.Signal{ID: id, Status: models.StatusPending}

	deps.cache.EXPECT().Get(ctx, id).Return(nil, errors.New("redis down"))
	deps.repo.EXPECT().GetByID(ctx, id).Return(stored, nil)

	signal, err := svc.GetSignal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stored, signal)
}

func TestGetSignal_NotFound(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()

	deps.cache.EXPECT().Get(ctx, id).Return(nil, nil)
	deps.repo.EXPECT().GetByID(ctx, id).Return(nil, models.ErrNotFound)

	signal, err := svc.GetSignal(ctx, id)
	assert.Nil(t, signal)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorContains(t, err, "could not get signal")
}

func TestListSignals(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	filter := models.SignalFilter{Status: ptr(models.StatusPending), DangerLevel: ptr(models.DangerRed)}
	expected := []*models.Signal{{ID: uuid.New()}, {ID: uuid.New()}}

	deps.repo.EXPECT().List(ctx, filter).Return(expected, nil).Times(1)

	signals, err := svc.ListSignals(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, expected, signals)
}

func TestListSignals_InvalidFilter(t *testing.T) {
	svc, deps := newTestSignalService(t)

	deps.repo.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.ListSignals(context.Background(), models.SignalFilter{Status: ptr(models.SignalStatus("archived"))})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGetRescuerLocation(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()
	loc := &models.RescuerLocation{Latitude: 21.03, Longitude: 105.85, TeamID: uuid.New(), ReportedAt: time.Now()}

	// Ожидания: картинки и кеш не трогаются
	deps.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
	deps.repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)
	gomock.InOrder(
		deps.repo.EXPECT().GetState(ctx, id).Return(&models.Signal{ID: id, Status: models.StatusInProgress, RescuerLocation: loc}, nil),
		deps.repo.EXPECT().GetState(ctx, id).Return(&models.Signal{ID: id, Status: models.StatusPending}, nil),
		deps.repo.EXPECT().GetState(ctx, id).Return(nil, fmt.Errorf("signal with id %s: %w", id, models.ErrNotFound)),
	)

	got, err := svc.GetRescuerLocation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, loc, got)

	// позиция еще не сообщалась
	_, err = svc.GetRescuerLocation(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// сигнала нет
	_, err = svc.GetRescuerLocation(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetDashboardStats(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	stats := &models.DashboardStats{Total: 3, Red: 2, Yellow: 1, Pending: 3}

	deps.repo.EXPECT().Stats(ctx).Return(stats, nil).Times(1)

	got, err := svc.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
	assert.Equal(t, 2.0, testutil.ToFloat64(deps.metrics.SignalsByDanger.WithLabelValues("red")))
}

func TestGetHistory(t *testing.T) {
	svc, deps := newTestSignalService(t)
	ctx := context.Background()
	id := uuid.New()
	events := []*models.SignalEvent{{ID: 1, SignalID: id, ToStatus: models.StatusPending}}

	deps.repo.EXPECT().History(ctx, id).Return(events, nil)

	got, err := svc.GetHistory(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, events, got)
}
