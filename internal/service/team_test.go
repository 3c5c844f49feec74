package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/sos_rescue_system/internal/auth"
	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/service/mocks"
)

func newTestTeamService(t *testing.T) (*teamService, *mocks.MockTeamRepository, *mocks.MockLoginLimiter, *auth.TokenManager) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockTeamRepository(ctrl)
	limiterMock := mocks.NewMockLoginLimiter(ctrl)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := NewTeamService(repoMock, limiterMock, tokens, logger)
	return svc.(*teamService), repoMock, limiterMock, tokens
}

func storedTeam(t *testing.T, password string) *models.RescueTeam {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.RescueTeam{ID: uuid.New(), Username: "team-a", PasswordHash: hash, TeamName: "Team A"}
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _, _ := newTestTeamService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, team *models.RescueTeam) error {
			ok, err := auth.CheckPassword(team.PasswordHash, "s3cret-pass")
			require.NoError(t, err)
			assert.True(t, ok, "password must be stored as a hash")
			team.ID = uuid.New()
			return nil
		}).Times(1)

	// Действие
	team, err := svc.Register(ctx, " team-a ", "s3cret-pass", "Team A")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "team-a", team.Username)
	assert.NotEqual(t, "s3cret-pass", team.PasswordHash)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, repoMock, _, _ := newTestTeamService(t)

	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.ErrConflict)

	_, err := svc.Register(context.Background(), "team-a", "s3cret-pass", "Team A")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegister_Validation(t *testing.T) {
	svc, repoMock, _, _ := newTestTeamService(t)
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Register(context.Background(), "", "s3cret-pass", "Team A")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Register(context.Background(), "team-a", "123", "Team A")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Register(context.Background(), "team-a", "s3cret-pass", " ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestLogin_Success(t *testing.T) {
	svc, repoMock, limiterMock, tokens := newTestTeamService(t)
	ctx := context.Background()
	team := storedTeam(t, "s3cret-pass")

	limiterMock.EXPECT().Allowed(ctx, "team-a").Return(true, nil)
	repoMock.EXPECT().GetByUsername(ctx, "team-a").Return(team, nil)
	limiterMock.EXPECT().Reset(ctx, "team-a").Return(nil)

	result, err := svc.Login(ctx, "team-a", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, team, result.Team)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Minute)

	claims, err := tokens.Parse(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, team.ID, claims.TeamID)
}

func TestLogin_WrongPasswordRecordsFailure(t *testing.T) {
	svc, repoMock, limiterMock, _ := newTestTeamService(t)
	ctx := context.Background()

	limiterMock.EXPECT().Allowed(ctx, "team-a").Return(true, nil)
	repoMock.EXPECT().GetByUsername(ctx, "team-a").Return(storedTeam(t, "s3cret-pass"), nil)
	limiterMock.EXPECT().RecordFailure(ctx, "team-a").Return(nil).Times(1)

	_, err := svc.Login(ctx, "team-a", "wrong-pass")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, repoMock, limiterMock, _ := newTestTeamService(t)
	ctx := context.Background()

	limiterMock.EXPECT().Allowed(ctx, "ghost").Return(true, nil)
	repoMock.EXPECT().GetByUsername(ctx, "ghost").Return(nil, models.ErrNotFound)
	limiterMock.EXPECT().RecordFailure(ctx, "ghost").Return(nil).Times(1)

	_, err := svc.Login(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestLogin_Throttled(t *testing.T) {
	svc, repoMock, limiterMock, _ := newTestTeamService(t)

	limiterMock.EXPECT().Allowed(gomock.Any(), "team-a").Return(false, nil)
	repoMock.EXPECT().GetByUsername(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Login(context.Background(), "team-a", "s3cret-pass")
	assert.ErrorIs(t, err, models.ErrTooManyAttempts)
}

func TestLogin_LimiterUnavailableDoesNotBlock(t *testing.T) {
	svc, repoMock, limiterMock, _ := newTestTeamService(t)
	team := storedTeam(t, "s3cret-pass")

	limiterMock.EXPECT().Allowed(gomock.Any(), "team-a").Return(false, errors.New("redis down"))
	repoMock.EXPECT().GetByUsername(gomock.Any(), "team-a").Return(team, nil)
	limiterMock.EXPECT().Reset(gomock.Any(), "team-a").Return(errors.New("redis down"))

	_, err := svc.Login(context.Background(), "team-a", "s3cret-pass")
	require.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc, repoMock, _, tokens := newTestTeamService(t)
	ctx := context.Background()
	team := storedTeam(t, "s3cret-pass")
	token, _, err := tokens.Issue(team)
	require.NoError(t, err)

	repoMock.EXPECT().GetByID(ctx, team.ID).Return(team, nil)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, team, got)
}

func TestAuthenticate_Rejected(t *testing.T) {
	svc, repoMock, _, tokens := newTestTeamService(t)
	ctx := context.Background()
	team := storedTeam(t, "s3cret-pass")
	token, _, err := tokens.Issue(team)
	require.NoError(t, err)

	// команда удалена из хранилища
	repoMock.EXPECT().GetByID(ctx, team.ID).Return(nil, models.ErrNotFound)
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// подделанный токен до хранилища не доходит
	_, err = svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
