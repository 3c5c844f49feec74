package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shenikar/sos_rescue_system/internal/models"
	"github.com/shenikar/sos_rescue_system/internal/service"
)

var (
	_ service.SignalCache  = (*SignalCache)(nil)
	_ service.LoginLimiter = (*LoginLimiter)(nil)
)

// SignalCache кеширует завершенные сигналы в Redis; активные сигналы туда не попадают
type SignalCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSignalCache(redisClient *redis.Client, ttl time.Duration) *SignalCache {
	return &SignalCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func signalCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("signal:%s", id.String())
}

// Get пытается получить сигнал из Redis, nil без ошибки при промахе
func (c *SignalCache) Get(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	val, err := c.redisClient.Get(ctx, signalCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get signal from cache: %w", err)
	}

	signal := &models.Signal{}
	if err := json.Unmarshal(val, signal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signal from cache: %w", err)
	}
	return signal, nil
}

// Set сохраняет сигнал в Redis, если он уже не изменится
func (c *SignalCache) Set(ctx context.Context, signal *models.Signal) error {
	if !signal.Status.IsTerminal() {
		return nil
	}
	val, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("failed to marshal signal for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, signalCacheKey(signal.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set signal in cache: %w", err)
	}
	return nil
}

// LoginLimiter считает неудачные попытки входа в окне фиксированной длины
type LoginLimiter struct {
	redisClient *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(redisClient *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redisClient: redisClient,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func loginAttemptsKey(username string) string {
	return fmt.Sprintf("login_attempts:%s", username)
}

func (l *LoginLimiter) Allowed(ctx context.Context, username string) (bool, error) {
	if l.maxAttempts <= 0 {
		return true, nil
	}
	count, err := l.redisClient.Get(ctx, loginAttemptsKey(username)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get login attempts: %w", err)
	}
	return count < l.maxAttempts, nil
}

// RecordFailure увеличивает счетчик; окно отсчитывается от первой неудачи
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := loginAttemptsKey(username)
	count, err := l.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	if count == 1 {
		if err := l.redisClient.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set login attempts expiry: %w", err)
		}
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.redisClient.Del(ctx, loginAttemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}
