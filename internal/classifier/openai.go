package classifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

const systemPrompt = "You are an emergency assessment AI. Analyze the situation and determine danger level."

const userPromptTemplate = `Analyze this emergency situation:

Description: %s

Based on the description and any images provided, assess:
1. Danger level (high/medium/low)
2. Brief assessment of the situation
3. Recommended immediate actions

Respond in this format:
DANGER_LEVEL: [high/medium/low]
ASSESSMENT: [your assessment]`

// OpenAIBackend классифицирует сигнал через chat completion с картинками
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

func NewOpenAIBackend(apiKey, model, baseURL string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Classify(ctx context.Context, description string, images [][]byte) (models.Classification, error) {
	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: fmt.Sprintf(userPromptTemplate, description),
	}}
	for i, img := range images {
		if i == models.MaxSignalImages {
			break
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL(img),
				Detail: openai.ImageURLDetailLow,
			},
		})
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return models.Classification{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Classification{}, fmt.Errorf("openai returned no choices")
	}
	return parseLabeledResponse(resp.Choices[0].Message.Content)
}

// dataURL кодирует картинку для image_url; тип определяется по сигнатуре
func dataURL(img []byte) string {
	return "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
}
