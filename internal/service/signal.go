package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/config"
	"github.com/shenikar/sos_rescue_system/internal/metrics"
	"github.com/shenikar/sos_rescue_system/internal/models"
)

//go:generate mockgen -source=signal.go -destination=mocks/mock_signal.go -package=mocks

// SignalRepository определяет контракт хранилища сигналов
type SignalRepository interface {
	Create(ctx context.Context, signal *models.Signal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	// GetState возвращает сигнал без картинок, для частых опросов
	GetState(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	List(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error)
	// Transition атомарно меняет статус; при невыполненном условии возвращает
	// текущий снимок сигнала вместе с models.ErrStateMismatch
	Transition(ctx context.Context, id uuid.UUID, t models.Transition) (*models.Signal, error)
	UpdateRescuerLocation(ctx context.Context, id, teamID uuid.UUID, pos models.Position) (*models.Signal, error)
	History(ctx context.Context, id uuid.UUID) ([]*models.SignalEvent, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// SignalCache хранит только завершенные сигналы, Get возвращает nil, nil при промахе
type SignalCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	Set(ctx context.Context, signal *models.Signal) error
}

// DangerClassifier оценивает новый сигнал и никогда не возвращает ошибку
type DangerClassifier interface {
	Classify(ctx context.Context, description string, images [][]byte) models.Classification
}

// SignalService определяет контракт бизнес-логики сигналов
type SignalService interface {
	CreateSignal(ctx context.Context, signal *models.Signal) error
	GetSignal(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	ListSignals(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error)
	UpdateStatus(ctx context.Context, id, teamID uuid.UUID, status models.SignalStatus, notes *string) (*models.Signal, error)
	ReportPosition(ctx context.Context, id, teamID uuid.UUID, pos models.Position) (*models.Signal, error)
	GetRescuerLocation(ctx context.Context, id uuid.UUID) (*models.RescuerLocation, error)
	GetHistory(ctx context.Context, id uuid.UUID) ([]*models.SignalEvent, error)
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type signalService struct {
	repo       SignalRepository
	cache      SignalCache
	classifier DangerClassifier
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	cfg        *config.Config
}

// NewSignalService создает сервис сигналов; cache может быть nil, если Redis не настроен
func NewSignalService(
	repo SignalRepository,
	cache SignalCache,
	classifier DangerClassifier,
	m *metrics.Metrics,
	logger *logrus.Logger,
	cfg *config.Config,
) SignalService {
	return &signalService{
		repo:       repo,
		cache:      cache,
		classifier: classifier,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
	}
}

// CreateSignal проверяет сигнал, классифицирует его и сохраняет в статусе pending
func (s *signalService) CreateSignal(ctx context.Context, signal *models.Signal) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "signal",
		"method":  "CreateSignal",
		"images":  len(signal.Images),
	})
	log.Info("Attempting to create a new signal")

	if err := signal.Validate(); err != nil {
		log.WithError(err).Warn("Signal validation failed")
		return err
	}
	for i, img := range signal.Images {
		if len(img) > s.cfg.MaxImageBytes {
			err := fmt.Errorf("%w: image %d exceeds %d bytes", models.ErrValidation, i, s.cfg.MaxImageBytes)
			log.WithError(err).Warn("Signal validation failed")
			return err
		}
	}

	result := s.classifier.Classify(ctx, signal.Description, signal.Images)
	signal.DangerLevel = result.DangerLevel
	signal.AIAssessment = result.AIAssessment
	signal.Status = models.StatusPending
	signal.AssignedTeamID = nil
	signal.RescuerLocation = nil
	signal.ImageCount = len(signal.Images)

	if err := s.repo.Create(ctx, signal); err != nil {
		log.WithError(err).Error("Failed to create signal in repository")
		return fmt.Errorf("service: could not create signal: %w", err)
	}
	s.metrics.SignalsCreated.WithLabelValues(string(signal.DangerLevel)).Inc()

	log.WithFields(logrus.Fields{
		"signal_id":    signal.ID,
		"danger_level": signal.DangerLevel,
	}).Info("Signal created successfully")
	return nil
}

// GetSignal получает сигнал по ID; завершенные сигналы отдаются из кеша
func (s *signalService) GetSignal(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "signal",
		"method":    "GetSignal",
		"signal_id": id,
	})
	log.Debug("Fetching signal by ID")

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to read signal from cache")
		} else if cached != nil {
			log.Debug("Signal served from cache")
			return cached, nil
		}
	}

	signal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get signal from repository")
		return nil, fmt.Errorf("service: could not get signal: %w", err)
	}

	s.cacheIfTerminal(ctx, signal, log)
	return signal, nil
}

// ListSignals возвращает сигналы по фильтру, новые первыми
func (s *signalService) ListSignals(ctx context.Context, filter models.SignalFilter) ([]*models.Signal, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "signal",
		"method":  "ListSignals",
	})
	if err := filter.Validate(); err != nil {
		log.WithError(err).Warn("Invalid signal filter")
		return nil, err
	}

	signals, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list signals from repository")
		return nil, fmt.Errorf("service: could not list signals: %w", err)
	}

	log.WithField("count", len(signals)).Debug("Signals listed successfully")
	return signals, nil
}

// GetRescuerLocation возвращает последнюю позицию спасателя по сигналу
func (s *signalService) GetRescuerLocation(ctx context.Context, id uuid.UUID) (*models.RescuerLocation, error) {
	signal, err := s.repo.GetState(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":   "signal",
			"method":    "GetRescuerLocation",
			"signal_id": id,
		}).WithError(err).Warn("Failed to get signal state from repository")
		return nil, fmt.Errorf("service: could not get rescuer location: %w", err)
	}
	if signal.RescuerLocation == nil {
		return nil, fmt.Errorf("service: no rescuer location reported for signal %s: %w", id, models.ErrNotFound)
	}
	return signal.RescuerLocation, nil
}

// GetHistory возвращает историю статусов сигнала
func (s *signalService) GetHistory(ctx context.Context, id uuid.UUID) ([]*models.SignalEvent, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "signal",
		"method":    "GetHistory",
		"signal_id": id,
	})

	events, err := s.repo.History(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get signal history from repository")
		return nil, fmt.Errorf("service: could not get signal history: %w", err)
	}
	return events, nil
}

// GetDashboardStats считает сигналы по уровню опасности и статусу
func (s *signalService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "signal",
		"method":  "GetDashboardStats",
	})

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get dashboard stats from repository")
		return nil, fmt.Errorf("service: could not get dashboard stats: %w", err)
	}
	s.metrics.ObserveStats(stats)
	return stats, nil
}

func (s *signalService) cacheIfTerminal(ctx context.Context, signal *models.Signal, log *logrus.Entry) {
	if s.cache == nil || !signal.Status.IsTerminal() {
		return
	}
	if err := s.cache.Set(ctx, signal); err != nil {
		log.WithError(err).Warn("Failed to cache completed signal")
	}
}

// currentOrNil достает снимок сигнала, пришедший вместе с ErrStateMismatch
func currentOrNil(current *models.Signal, err error) *models.Signal {
	if errors.Is(err, models.ErrStateMismatch) {
		return current
	}
	return nil
}
