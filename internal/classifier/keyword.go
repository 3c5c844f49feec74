package classifier

import (
	"context"
	"strings"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

// defaultDangerKeywords - английские и вьетнамские слова, указывающие на угрозу жизни
var defaultDangerKeywords = []string{
	"fire", "blood", "injured", "accident", "trapped", "emergency", "burn",
	"cháy", "nguy hiểm", "kêu cứu", "khẩn cấp", "tai nạn", "kẹt",
}

// KeywordBackend - офлайн-классификатор по ключевым словам
type KeywordBackend struct {
	keywords []string
}

func NewKeywordBackend(keywords ...string) *KeywordBackend {
	if len(keywords) == 0 {
		keywords = defaultDangerKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &KeywordBackend{keywords: lowered}
}

func (b *KeywordBackend) Name() string { return "keyword" }

func (b *KeywordBackend) Classify(ctx context.Context, description string, _ [][]byte) (models.Classification, error) {
	if err := ctx.Err(); err != nil {
		return models.Classification{}, err
	}
	desc := strings.ToLower(description)
	for _, k := range b.keywords {
		if strings.Contains(desc, k) {
			assessment := "High danger: description mentions \"" + k + "\""
			return models.Classification{DangerLevel: models.DangerRed, AIAssessment: &assessment}, nil
		}
	}
	assessment := "Medium danger: no high-risk keywords found"
	return models.Classification{DangerLevel: models.DangerYellow, AIAssessment: &assessment}, nil
}
