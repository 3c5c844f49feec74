package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	ok, err := CheckPassword(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	// соль делает хэши одного пароля разными
	other, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)

	_, err = CheckPassword("not-a-bcrypt-hash", "s3cret")
	assert.Error(t, err)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	team := &models.RescueTeam{ID: uuid.New(), Username: "alpha"}

	token, expiresAt, err := m.Issue(team)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, team.ID, claims.TeamID)
	assert.Equal(t, "alpha", claims.Username)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, _, err := m.Issue(&models.RescueTeam{ID: uuid.New(), Username: "alpha"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	require.ErrorIs(t, err, models.ErrUnauthorized)
	assert.ErrorContains(t, err, "token expired")
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	team := &models.RescueTeam{ID: uuid.New(), Username: "alpha"}

	// другой секрет
	foreign, _, err := NewTokenManager("other", time.Hour).Issue(team)
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// мусор
	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// без exp
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{TeamID: team.ID}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Parse(noExp)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// alg=none
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		TeamID:           team.ID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(none)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
