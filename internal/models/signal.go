package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSignalImages - максимальное количество фотографий в одном сигнале
const MaxSignalImages = 3

type DangerLevel string

const (
	DangerRed    DangerLevel = "red"
	DangerYellow DangerLevel = "yellow"
	DangerGreen  DangerLevel = "green"
)

// DangerLevels перечисляет уровни от самого опасного к наименее опасному
var DangerLevels = []DangerLevel{DangerRed, DangerYellow, DangerGreen}

func (d DangerLevel) IsValid() bool {
	switch d {
	case DangerRed, DangerYellow, DangerGreen:
		return true
	}
	return false
}

type SignalStatus string

const (
	StatusPending    SignalStatus = "pending"
	StatusInProgress SignalStatus = "in_progress"
	StatusCompleted  SignalStatus = "completed"
)

var SignalStatuses = []SignalStatus{StatusPending, StatusInProgress, StatusCompleted}

func (s SignalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo разрешает только переходы pending -> in_progress -> completed
func (s SignalStatus) CanTransitionTo(next SignalStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted
	}
	return false
}

// IsTerminal - из completed переходов нет
func (s SignalStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// Position - координаты в градусах WGS84
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrValidation, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrValidation, p.Longitude)
	}
	return nil
}

// RescuerLocation - последняя позиция спасателя, история не хранится
type RescuerLocation struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	TeamID     uuid.UUID `json:"team_id"`
	ReportedAt time.Time `json:"reported_at"`
}

// Classification - результат классификатора опасности
type Classification struct {
	DangerLevel  DangerLevel
	AIAssessment *string
}

type Signal struct {
	ID              uuid.UUID        `json:"id"`
	Latitude        float64          `json:"latitude"`
	Longitude       float64          `json:"longitude"`
	Description     string           `json:"description"`
	Images          [][]byte         `json:"images,omitempty"`
	ImageCount      int              `json:"image_count"`
	DangerLevel     DangerLevel      `json:"danger_level"`
	AIAssessment    *string          `json:"ai_assessment,omitempty"`
	Status          SignalStatus     `json:"status"`
	AssignedTeamID  *uuid.UUID       `json:"assigned_team_id,omitempty"`
	RescuerLocation *RescuerLocation `json:"rescuer_location,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Validate проверяет поля, которые заполняет репортер
func (s *Signal) Validate() error {
	if err := (Position{Latitude: s.Latitude, Longitude: s.Longitude}).Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if len(s.Images) > MaxSignalImages {
		return fmt.Errorf("%w: at most %d images allowed, got %d", ErrValidation, MaxSignalImages, len(s.Images))
	}
	for i, img := range s.Images {
		if len(img) == 0 {
			return fmt.Errorf("%w: image %d is empty", ErrValidation, i)
		}
	}
	return nil
}

// IsAssignedTo сообщает, держит ли команда этот сигнал
func (s *Signal) IsAssignedTo(teamID uuid.UUID) bool {
	return s.AssignedTeamID != nil && *s.AssignedTeamID == teamID
}

// Clone возвращает глубокую копию, чтобы читатели не видели последующих изменений
func (s *Signal) Clone() *Signal {
	if s == nil {
		return nil
	}
	c := *s
	if s.Images != nil {
		c.Images = make([][]byte, len(s.Images))
		for i, img := range s.Images {
			c.Images[i] = append([]byte(nil), img...)
		}
	}
	if s.AIAssessment != nil {
		a := *s.AIAssessment
		c.AIAssessment = &a
	}
	if s.AssignedTeamID != nil {
		id := *s.AssignedTeamID
		c.AssignedTeamID = &id
	}
	if s.RescuerLocation != nil {
		loc := *s.RescuerLocation
		c.RescuerLocation = &loc
	}
	return &c
}

// SignalFilter - необязательные фильтры списка, объединяются через AND
type SignalFilter struct {
	Status      *SignalStatus
	DangerLevel *DangerLevel
}

func (f SignalFilter) Validate() error {
	if f.Status != nil && !f.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *f.Status)
	}
	if f.DangerLevel != nil && !f.DangerLevel.IsValid() {
		return fmt.Errorf("%w: unknown danger level %q", ErrValidation, *f.DangerLevel)
	}
	return nil
}

// Matches используется in-memory хранилищем
func (f SignalFilter) Matches(s *Signal) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.DangerLevel != nil && s.DangerLevel != *f.DangerLevel {
		return false
	}
	return true
}

// Transition описывает compare-and-set смены статуса
type Transition struct {
	From            SignalStatus
	To              SignalStatus
	TeamID          uuid.UUID
	RequireAssignee bool
	Notes           *string
}

// Allows проверяет предусловие перехода на текущем снимке сигнала
func (t Transition) Allows(s *Signal) bool {
	if s.Status != t.From {
		return false
	}
	if t.RequireAssignee && !s.IsAssignedTo(t.TeamID) {
		return false
	}
	return true
}

// DashboardStats - счетчики для панели спасателей
type DashboardStats struct {
	Total      int `json:"total_signals"`
	Red        int `json:"red_signals"`
	Yellow     int `json:"yellow_signals"`
	Green      int `json:"green_signals"`
	Pending    int `json:"pending_signals"`
	InProgress int `json:"in_progress_signals"`
	Completed  int `json:"completed_signals"`
}

// Add учитывает один сигнал
func (d *DashboardStats) Add(s *Signal) {
	d.Total++
	switch s.DangerLevel {
	case DangerRed:
		d.Red++
	case DangerYellow:
		d.Yellow++
	case DangerGreen:
		d.Green++
	}
	switch s.Status {
	case StatusPending:
		d.Pending++
	case StatusInProgress:
		d.InProgress++
	case StatusCompleted:
		d.Completed++
	}
}
