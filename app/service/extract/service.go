package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"concierge/app/client/llm"
	"concierge/app/config"

	_ "embed"

	"github.com/samber/do"
)

//go:embed classify_prompt.txt
var classifyPrompt string

//go:embed fields_prompt.txt
var fieldsPrompt string

// orderKeywords force the order category regardless of what the classifier
// returned.
var orderKeywords = []string{"order", "đặt món"}

// Completer is the slice of the completion collaborator this stage needs.
type Completer interface {
	CompleteJSON(ctx context.Context, model, instructions, input string, out any) error
}

type Service struct {
	cfg *config.Config
	llm Completer
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*llm.Client](di),
	), nil
}

func NewService(cfg *config.Config, completer Completer) *Service {
	return &Service{
		cfg: cfg,
		llm: completer,
	}
}

// Extract turns free text into a structured intent. It never fails: any
// upstream or parse error degrades to the default intent so the caller's flow
// continues.
func (s *Service) Extract(ctx context.Context, text string) Intent {
	intent := DefaultIntent()

	var cls classification
	if err := s.llm.CompleteJSON(ctx, s.cfg.OpenAI.ExtractionModel, classifyPrompt, text, &cls); err != nil {
		slog.Warn("Classification failed, falling back to general intent", "error", err)
		return applyOrderKeyword(intent, text)
	}

	intent.Category = normalizeCategory(cls.Type)
	intent.Sentiment = normalizeSentiment(cls.Sentiment)

	var raw map[string]any
	if err := s.llm.CompleteJSON(ctx, s.cfg.OpenAI.ExtractionModel, fieldsPrompt, text, &raw); err != nil {
		slog.Warn("Field extraction failed, keeping empty fields", "error", err)
		return applyOrderKeyword(intent, text)
	}

	intent.Fields = flattenFields(raw)

	return applyOrderKeyword(intent, text)
}

func applyOrderKeyword(intent Intent, text string) Intent {
	lower := strings.ToLower(text)
	for _, kw := range orderKeywords {
		if strings.Contains(lower, kw) {
			intent.Category = CategoryOrder
			break
		}
	}

	return intent
}

func flattenFields(raw map[string]any) map[string]string {
	fields := make(map[string]string, len(raw))

	for key, value := range raw {
		if value == nil {
			continue
		}

		str := strings.TrimSpace(fmt.Sprint(value))
		if str == "" || strings.EqualFold(str, "null") || strings.EqualFold(str, "unknown") {
			continue
		}

		fields[strings.ToLower(strings.TrimSpace(key))] = str
	}

	return fields
}
