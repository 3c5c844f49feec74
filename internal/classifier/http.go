package classifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

type httpClassifyRequest struct {
	Description string   `json:"description"`
	Images      []string `json:"images_base64"`
}

type httpClassifyResponse struct {
	DangerLevel string  `json:"danger_level"`
	Assessment  *string `json:"assessment"`
}

// HTTPBackend обращается к собственной модели по HTTP: POST /classify
type HTTPBackend struct {
	client *resty.Client
}

func NewHTTPBackend(baseURL string) *HTTPBackend {
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &HTTPBackend{client: client}
}

func (b *HTTPBackend) Name() string { return "http" }

func (b *HTTPBackend) Classify(ctx context.Context, description string, images [][]byte) (models.Classification, error) {
	req := httpClassifyRequest{Description: description, Images: make([]string, 0, len(images))}
	for _, img := range images {
		req.Images = append(req.Images, base64.StdEncoding.EncodeToString(img))
	}

	var out httpClassifyResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/classify")
	if err != nil {
		return models.Classification{}, fmt.Errorf("classifier request failed: %w", err)
	}
	if resp.IsError() {
		return models.Classification{}, fmt.Errorf("classifier returned status %d", resp.StatusCode())
	}

	level, ok := levelFromSeverity(out.DangerLevel)
	if !ok {
		return models.Classification{}, fmt.Errorf("%w: %q", ErrUnparseable, out.DangerLevel)
	}
	result := models.Classification{DangerLevel: level}
	if out.Assessment != nil && *out.Assessment != "" {
		result.AIAssessment = out.Assessment
	}
	return result, nil
}
