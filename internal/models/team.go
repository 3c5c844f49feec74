package models

import (
	"time"

	"github.com/google/uuid"
)

// RescueTeam - зарегистрированная спасательная команда
type RescueTeam struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	TeamName     string    `json:"team_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginResult - выданный токен вместе с краткими данными команды
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Team        *RescueTeam
}
