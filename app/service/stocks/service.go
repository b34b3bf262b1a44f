package stocks

import (
	"context"
	"fmt"
	"log/slog"

	"concierge/app/client/llm"
	"concierge/app/config"
	"concierge/app/service/session"

	_ "embed"

	"github.com/samber/do"
)

//go:embed analysis_prompt.txt
var analysisPrompt string

const (
	greeting = `Hello! I am a stock analysis assistant. I can help you look at:
1. Cash flow and dividend coverage
2. Valuation against the sector
3. Trading volume and liquidity
4. Technical indicators (MA, RSI, MACD)
5. Risk and upside potential

For example:
- "Is the operating cash flow stable?"
- "Is the stock valued above or below its sector?"
- "What is the average daily matched order value?"
- "How risky is this stock?"`

	analysisUnavailable = "Sorry, something went wrong while analyzing. Please try again in a moment."
)

// Completer is the web-search-augmented completion collaborator.
type Completer interface {
	CompleteWithSearch(ctx context.Context, model, instructions, input string) (string, error)
}

type Service struct {
	cfg     *config.Config
	llm     Completer
	session *session.Store
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(cfg, do.MustInvoke[*llm.Client](di)), nil
}

func NewService(cfg *config.Config, completer Completer) *Service {
	return &Service{
		cfg:     cfg,
		llm:     completer,
		session: session.NewStore(cfg.Session.MaxPairs),
	}
}

func (s *Service) Greeting() string {
	return greeting
}

func (s *Service) Session() *session.Store {
	return s.session
}

func (s *Service) ClearHistory() string {
	s.session.Reset()

	return "Conversation history cleared."
}

func (s *Service) Cancel() string {
	return "There is nothing to cancel. Ask me about a stock instead!"
}

func (s *Service) HandleTurn(ctx context.Context, text string) (string, error) {
	s.session.Append(session.RoleUser, text)

	reply := s.analyze(ctx, text)

	s.session.Append(session.RoleAssistant, reply)

	return reply, nil
}

func (s *Service) analyze(ctx context.Context, text string) string {
	query := text
	if s.cfg.Stocks.SourceURL != "" {
		query = fmt.Sprintf("%s site:%s", text, s.cfg.Stocks.SourceURL)
	}

	answer, err := s.llm.CompleteWithSearch(ctx, s.cfg.Stocks.Model, analysisPrompt, query)
	if err != nil {
		slog.Warn("Stock analysis failed", "error", err)
		return analysisUnavailable
	}

	return answer
}
