package extract

import "strings"

type Category string

const (
	CategoryPlanning Category = "planning"
	CategoryInquiry  Category = "inquiry"
	CategoryOrder    Category = "order"
	CategoryGeneral  Category = "general"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Well-known field keys produced by the extraction prompt.
const (
	FieldDestination = "destination"
	FieldDuration    = "duration"
	FieldPeople      = "number_of_people"
	FieldBudget      = "budget"
	FieldName        = "name"
)

// Intent is the structured view of one user turn. It lives for the current
// turn only; derived values survive through the plan cache.
type Intent struct {
	Category  Category
	Fields    map[string]string
	Sentiment Sentiment
}

// DefaultIntent is the fail-soft fallback for malformed upstream output.
func DefaultIntent() Intent {
	return Intent{
		Category:  CategoryGeneral,
		Fields:    map[string]string{},
		Sentiment: SentimentNeutral,
	}
}

type classification struct {
	Type      string `json:"type"`
	Intent    string `json:"intent"`
	Sentiment string `json:"sentiment"`
}

func normalizeCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryPlanning:
		return CategoryPlanning
	case CategoryInquiry:
		return CategoryInquiry
	case CategoryOrder:
		return CategoryOrder
	default:
		return CategoryGeneral
	}
}

func normalizeSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
