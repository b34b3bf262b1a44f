package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	OpenAI  OpenAI  `yaml:"openai"`
	Search  Search  `yaml:"search"`
	Session Session `yaml:"session"`
	Stocks  Stocks  `yaml:"stocks"`
}

type OpenAI struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1"`
	// API token, falls back to the OPENAI_API_KEY env variable
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// Model used for classification and field extraction
	ExtractionModel string `yaml:"extraction_model" example:"gpt-3.5-turbo" validate:"required"`
	// Model used for structured plan generation and menu answers
	GenerationModel string `yaml:"generation_model" example:"gpt-4o-mini" validate:"required"`
	// Model used for per-item price lookups
	PricingModel string `yaml:"pricing_model" example:"gpt-3.5-turbo" validate:"required"`
}

type Search struct {
	// Vector store holding the menu documents
	VectorStoreID string `yaml:"vector_store_id" example:"vs_67eb86b4070881919f5fd74d2b39b844"`
	// Maximum number of search results to request
	MaxResults int `yaml:"max_results" example:"2"`
}

type Session struct {
	// Number of question/answer pairs kept in the rolling history
	MaxPairs int `yaml:"max_pairs" example:"5"`
}

type Stocks struct {
	// Data source appended to every search query as a site: filter
	SourceURL string `yaml:"source_url" example:"cafef.vn/du-lieu/lich-su-giao-dich-vnm-1.chn"`
	// Model used for analysis answers
	Model string `yaml:"model" example:"gpt-4o"`
}

type Log struct {
	// Console log level: debug, info, warn or error
	Level string `yaml:"level" example:"debug"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.OpenAI.Token == "" {
		result.OpenAI.Token = os.Getenv("OPENAI_API_KEY")
	}
	if result.OpenAI.Token == "" {
		return nil, oops.Errorf("openai token is not set in config.yaml or OPENAI_API_KEY")
	}
	if result.Search.MaxResults <= 0 {
		result.Search.MaxResults = 2
	}
	if result.Session.MaxPairs <= 0 {
		result.Session.MaxPairs = 5
	}
	if result.Stocks.Model == "" {
		result.Stocks.Model = result.OpenAI.GenerationModel
	}
	if result.Log.Level == "" {
		result.Log.Level = "debug"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
