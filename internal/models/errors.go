package models

import "errors"

// Доменные ошибки. Слои оборачивают их через %w, хэндлеры различают через errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTooManyAttempts   = errors.New("too many login attempts")

	// ErrClassifierUnavailable никогда не уходит клиенту: создание сигнала продолжается с уровнем red
	ErrClassifierUnavailable = errors.New("danger classifier unavailable")

	// ErrStateMismatch возвращается хранилищем, когда условие compare-and-set не выполнено
	ErrStateMismatch = errors.New("signal state does not match transition precondition")
)
