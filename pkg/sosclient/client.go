// Package sosclient - HTTP-клиент SOS API для приложений репортеров и спасателей.
package sosclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const apiPrefix = "/api/v1"

type RescuerLocation struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	TeamID     string    `json:"team_id"`
	ReportedAt time.Time `json:"reported_at"`
}

type Signal struct {
	ID              string           `json:"id"`
	Latitude        float64          `json:"latitude"`
	Longitude       float64          `json:"longitude"`
	Description     string           `json:"description"`
	ImagesBase64    []string         `json:"images_base64,omitempty"`
	ImageCount      int              `json:"image_count"`
	DangerLevel     string           `json:"danger_level"`
	AIAssessment    *string          `json:"ai_assessment,omitempty"`
	Status          string           `json:"status"`
	AssignedTeamID  *string          `json:"assigned_team_id,omitempty"`
	RescuerLocation *RescuerLocation `json:"rescuer_location,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewSignal - данные, которые отправляет репортер
type NewSignal struct {
	Latitude    float64
	Longitude   float64
	Description string
	Images      [][]byte
}

type Team struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TeamName  string    `json:"team_name"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Team        Team      `json:"team"`
}

type Stats struct {
	TotalSignals      int `json:"total_signals"`
	RedSignals        int `json:"red_signals"`
	YellowSignals     int `json:"yellow_signals"`
	GreenSignals      int `json:"green_signals"`
	PendingSignals    int `json:"pending_signals"`
	InProgressSignals int `json:"in_progress_signals"`
	CompletedSignals  int `json:"completed_signals"`
}

// APIError - ответ сервера с кодом 4xx/5xx
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sos api: status %d: %s", e.StatusCode, e.Message)
}

// Client - потокобезопасный клиент; токен команды задается после Login
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

type Option func(*resty.Client)

// WithTimeout задает таймаут одного HTTP-запроса
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries включает повторы для сетевых ошибок и 5xx
func WithRetries(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).
			SetRetryWaitTime(wait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			})
	}
}

func New(baseURL string, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(httpClient)
	}
	return &Client{http: httpClient}
}

// SetToken подставляет bearer-токен во все последующие запросы
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&APIError{})
	c.mu.RLock()
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	c.mu.RUnlock()
	return req
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("sos api request failed: %w", err)
	}
	if resp.IsError() {
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr == nil {
			apiErr = &APIError{}
		}
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = resp.Status()
		}
		return apiErr
	}
	return nil
}

func (c *Client) CreateSignal(ctx context.Context, in NewSignal) (*Signal, error) {
	body := map[string]any{
		"latitude":    in.Latitude,
		"longitude":   in.Longitude,
		"description": in.Description,
	}
	if len(in.Images) > 0 {
		encoded := make([]string, 0, len(in.Images))
		for _, img := range in.Images {
			encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
		}
		body["images_base64"] = encoded
	}

	var out Signal
	resp, err := c.request(ctx).SetBody(body).SetResult(&out).Post(apiPrefix + "/signals")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSignal(ctx context.Context, id string) (*Signal, error) {
	var out Signal
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get(apiPrefix + "/signals/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSignals - пустые status и dangerLevel означают "без фильтра"
func (c *Client) ListSignals(ctx context.Context, status, dangerLevel string) ([]Signal, error) {
	var out []Signal
	req := c.request(ctx).SetResult(&out)
	if status != "" {
		req.SetQueryParam("status", status)
	}
	if dangerLevel != "" {
		req.SetQueryParam("danger_level", dangerLevel)
	}
	resp, err := req.Get(apiPrefix + "/signals")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RescuerLocation(ctx context.Context, signalID string) (*RescuerLocation, error) {
	var out RescuerLocation
	resp, err := c.request(ctx).
		SetPathParam("id", signalID).
		SetResult(&out).
		Get(apiPrefix + "/signals/{id}/rescuer-location")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, username, password, teamName string) (*Team, error) {
	var out Team
	resp, err := c.request(ctx).
		SetBody(map[string]string{"username": username, "password": password, "team_name": teamName}).
		SetResult(&out).
		Post(apiPrefix + "/rescue/register")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login получает токен и сразу начинает использовать его в запросах
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var out Session
	resp, err := c.request(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		Post(apiPrefix + "/rescue/login")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

func (c *Client) UpdateStatus(ctx context.Context, signalID, status string, notes *string) (*Signal, error) {
	body := map[string]any{"status": status}
	if notes != nil {
		body["notes"] = *notes
	}
	var out Signal
	resp, err := c.request(ctx).
		SetPathParam("id", signalID).
		SetBody(body).
		SetResult(&out).
		Put(apiPrefix + "/signals/{id}/status")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReportLocation(ctx context.Context, signalID string, latitude, longitude float64) error {
	resp, err := c.request(ctx).
		SetBody(map[string]any{"signal_id": signalID, "latitude": latitude, "longitude": longitude}).
		Post(apiPrefix + "/rescue/location")
	return checkResponse(resp, err)
}

func (c *Client) DashboardStats(ctx context.Context) (*Stats, error) {
	var out Stats
	resp, err := c.request(ctx).SetResult(&out).Get(apiPrefix + "/rescue/dashboard/stats")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
