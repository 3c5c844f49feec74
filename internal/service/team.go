package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/sos_rescue_system/internal/auth"
	"github.com/shenikar/sos_rescue_system/internal/models"
)

//go:generate mockgen -source=team.go -destination=mocks/mock_team.go -package=mocks

const minPasswordLength = 6

// TeamRepository определяет контракт хранилища спасательных команд
type TeamRepository interface {
	// Create возвращает models.ErrConflict, если username уже занят
	Create(ctx context.Context, team *models.RescueTeam) error
	GetByUsername(ctx context.Context, username string) (*models.RescueTeam, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.RescueTeam, error)
}

// LoginLimiter ограничивает число неудачных попыток входа для одного username
type LoginLimiter interface {
	Allowed(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// TeamService определяет контракт регистрации и аутентификации команд
type TeamService interface {
	Register(ctx context.Context, username, password, teamName string) (*models.RescueTeam, error)
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.RescueTeam, error)
}

type teamService struct {
	repo    TeamRepository
	limiter LoginLimiter
	tokens  *auth.TokenManager
	logger  *logrus.Logger
}

// NewTeamService создает сервис команд; limiter может быть nil
func NewTeamService(repo TeamRepository, limiter LoginLimiter, tokens *auth.TokenManager, logger *logrus.Logger) TeamService {
	return &teamService{
		repo:    repo,
		limiter: limiter,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register создает команду с bcrypt-хэшем пароля
func (s *teamService) Register(ctx context.Context, username, password, teamName string) (*models.RescueTeam, error) {
	username = strings.TrimSpace(username)
	teamName = strings.TrimSpace(teamName)
	log := s.logger.WithFields(logrus.Fields{
		"service":  "team",
		"method":   "Register",
		"username": username,
	})
	log.Info("Attempting to register a rescue team")

	switch {
	case username == "":
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	case teamName == "":
		return nil, fmt.Errorf("%w: team name is required", models.ErrValidation)
	case len(password) < minPasswordLength:
		return nil, fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("service: could not register team: %w", err)
	}

	team := &models.RescueTeam{
		Username:     username,
		PasswordHash: hash,
		TeamName:     teamName,
	}
	if err := s.repo.Create(ctx, team); err != nil {
		log.WithError(err).Warn("Failed to create team in repository")
		return nil, fmt.Errorf("service: could not register team: %w", err)
	}

	log.WithField("team_id", team.ID).Info("Rescue team registered successfully")
	return team, nil
}

// Login проверяет пароль и выдает токен с фиксированным сроком жизни
func (s *teamService) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	username = strings.TrimSpace(username)
	log := s.logger.WithFields(logrus.Fields{
		"service":  "team",
		"method":   "Login",
		"username": username,
	})

	if s.limiter != nil {
		allowed, err := s.limiter.Allowed(ctx, username)
		if err != nil {
			// без Redis вход не блокируем
			log.WithError(err).Warn("Login limiter unavailable")
		} else if !allowed {
			log.Warn("Too many failed login attempts")
			return nil, fmt.Errorf("service: login blocked: %w", models.ErrTooManyAttempts)
		}
	}

	team, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.WithError(err).Error("Failed to get team from repository")
			return nil, fmt.Errorf("service: could not log in: %w", err)
		}
		s.recordFailure(ctx, username, log)
		return nil, fmt.Errorf("service: invalid credentials: %w", models.ErrUnauthorized)
	}

	ok, err := auth.CheckPassword(team.PasswordHash, password)
	if err != nil {
		log.WithError(err).Error("Failed to check password")
		return nil, fmt.Errorf("service: could not log in: %w", err)
	}
	if !ok {
		s.recordFailure(ctx, username, log)
		return nil, fmt.Errorf("service: invalid credentials: %w", models.ErrUnauthorized)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			log.WithError(err).Warn("Failed to reset login attempts")
		}
	}

	token, expiresAt, err := s.tokens.Issue(team)
	if err != nil {
		log.WithError(err).Error("Failed to issue token")
		return nil, fmt.Errorf("service: could not log in: %w", err)
	}

	log.WithField("team_id", team.ID).Info("Rescue team logged in")
	return &models.LoginResult{AccessToken: token, ExpiresAt: expiresAt, Team: team}, nil
}

// Authenticate проверяет токен и что команда все еще существует
func (s *teamService) Authenticate(ctx context.Context, token string) (*models.RescueTeam, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	team, err := s.repo.GetByID(ctx, claims.TeamID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown team", models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("service: could not authenticate team: %w", err)
	}
	return team, nil
}

func (s *teamService) recordFailure(ctx context.Context, username string, log *logrus.Entry) {
	log.Warn("Invalid login credentials")
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		log.WithError(err).Warn("Failed to record login failure")
	}
}
