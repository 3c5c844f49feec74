package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

// Claims - полезная нагрузка токена команды
type Claims struct {
	TeamID   uuid.UUID `json:"team_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет HS256 токены с фиксированным сроком жизни
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает токен для команды и возвращает момент его истечения
func (m *TokenManager) Issue(team *models.RescueTeam) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	claims := Claims{
		TeamID:   team.ID,
		Username: team.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   team.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse проверяет подпись и срок действия. Любая ошибка сводится к models.ErrUnauthorized
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid token", models.ErrUnauthorized)
	}
	if claims.TeamID == uuid.Nil {
		return nil, fmt.Errorf("%w: token has no team", models.ErrUnauthorized)
	}
	return claims, nil
}
