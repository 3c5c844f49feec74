package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateSignalRequest DTO для создания SOS-сигнала
// @Description DTO для создания SOS-сигнала; картинки в base64, допускается data URL
type CreateSignalRequest struct {
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	Description  string   `json:"description" validate:"required,max=5000"`
	ImagesBase64 []string `json:"images_base64,omitempty" validate:"max=3,dive,required"`
}

// UpdateStatusRequest DTO для смены статуса сигнала
// @Description DTO для смены статуса сигнала
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending in_progress completed"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// RescuerLocationRequest DTO для отправки позиции спасателя
// @Description DTO для отправки позиции спасателя
type RescuerLocationRequest struct {
	SignalID  string   `json:"signal_id" validate:"required,uuid"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// RegisterTeamRequest DTO для регистрации команды
// @Description DTO для регистрации команды
type RegisterTeamRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	TeamName string `json:"team_name" validate:"required,min=2,max=255"`
}

// LoginRequest DTO для входа команды
// @Description DTO для входа команды
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RescuerLocationResponse DTO последней позиции спасателя
// @Description DTO последней позиции спасателя
type RescuerLocationResponse struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	TeamID     uuid.UUID `json:"team_id"`
	ReportedAt time.Time `json:"reported_at"`
}

// SignalResponse DTO для ответа с информацией о сигнале
// @Description DTO для ответа с информацией о сигнале; в списках картинки не передаются
type SignalResponse struct {
	ID              uuid.UUID                `json:"id"`
	Latitude        float64                  `json:"latitude"`
	Longitude       float64                  `json:"longitude"`
	Description     string                   `json:"description"`
	ImagesBase64    []string                 `json:"images_base64,omitempty"`
	ImageCount      int                      `json:"image_count"`
	DangerLevel     string                   `json:"danger_level"`
	AIAssessment    *string                  `json:"ai_assessment,omitempty"`
	Status          string                   `json:"status"`
	AssignedTeamID  *uuid.UUID               `json:"assigned_team_id,omitempty"`
	RescuerLocation *RescuerLocationResponse `json:"rescuer_location,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// SignalEventResponse DTO записи истории статусов
// @Description DTO записи истории статусов
type SignalEventResponse struct {
	ID         int64      `json:"id"`
	FromStatus *string    `json:"from_status,omitempty"`
	ToStatus   string     `json:"to_status"`
	TeamID     *uuid.UUID `json:"team_id,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LocationAcceptedResponse DTO подтверждения позиции
// @Description DTO подтверждения позиции
type LocationAcceptedResponse struct {
	Status     string    `json:"status"`
	ReportedAt time.Time `json:"reported_at"`
}

// TeamResponse DTO команды без пароля
// @Description DTO команды без пароля
type TeamResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	TeamName  string    `json:"team_name"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse DTO с токеном доступа
// @Description DTO с токеном доступа
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Team        TeamResponse `json:"team"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	TotalSignals      int `json:"total_signals"`
	RedSignals        int `json:"red_signals"`
	YellowSignals     int `json:"yellow_signals"`
	GreenSignals      int `json:"green_signals"`
	PendingSignals    int `json:"pending_signals"`
	InProgressSignals int `json:"in_progress_signals"`
	CompletedSignals  int `json:"completed_signals"`
}
