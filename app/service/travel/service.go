package travel

import (
	"context"
	"fmt"
	"log/slog"

	"concierge/app/client/llm"
	"concierge/app/config"
	"concierge/app/service/extract"
	"concierge/app/service/session"

	"github.com/samber/do"
)

const (
	greeting = `Hi! I am your travel planning assistant. I can:
1. Put together a detailed travel plan
2. Look up information about destinations
3. Suggest activities and places to stay
4. Estimate costs

For example:
- "I want to visit Da Lat for 3 days with 2 people on a 5 million VND budget"
- "What is there to do in Phu Quoc?"
- "Plan a 4-day Ha Long trip for a family of 4"`

	generalHelp = "I can help you plan a trip. Where would you like to go, for how long, and on what budget?"

	askDestination        = "Where would you like to travel to?"
	askInquiryDestination = "Which destination would you like to know more about?"

	planUnavailable = "Sorry, I cannot put together a travel plan right now. Please try again in a moment."
)

// Extractor turns raw input into a structured intent.
type Extractor interface {
	Extract(ctx context.Context, text string) extract.Intent
}

// PlanSource is the cache-then-generate pipeline.
type PlanSource interface {
	GetOrGenerate(ctx context.Context, req PlanRequest) (*Plan, error)
}

// Completer is the plain completion collaborator used for price lookups.
type Completer interface {
	Complete(ctx context.Context, model, instructions, input string) (string, error)
}

type Service struct {
	cfg       *config.Config
	extractor Extractor
	plans     PlanSource
	llm       Completer
	session   *session.Store
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	client := do.MustInvoke[*llm.Client](di)
	extractor := do.MustInvoke[*extract.Service](di)

	return NewService(cfg, extractor, NewCache(cfg, client), client), nil
}

func NewService(cfg *config.Config, extractor Extractor, plans PlanSource, completer Completer) *Service {
	return &Service{
		cfg:       cfg,
		extractor: extractor,
		plans:     plans,
		llm:       completer,
		session:   session.NewStore(cfg.Session.MaxPairs),
	}
}

func (s *Service) Greeting() string {
	return greeting
}

// Session exposes the conversation state, mainly for tests.
func (s *Service) Session() *session.Store {
	return s.session
}

func (s *Service) HandleTurn(ctx context.Context, text string) (string, error) {
	s.session.Append(session.RoleUser, text)

	reply := s.respond(ctx, text)

	s.session.Append(session.RoleAssistant, reply)

	return reply, nil
}

func (s *Service) ClearHistory() string {
	s.session.Reset()

	return "Conversation history cleared."
}

func (s *Service) Cancel() string {
	return "There is nothing to cancel. Ask me about a trip instead!"
}

// respond is the per-turn dispatch. Every failure downstream degrades to a
// user-facing fallback; this never errors.
func (s *Service) respond(ctx context.Context, text string) string {
	intent := s.extractor.Extract(ctx, text)

	if name, ok := intent.Fields[extract.FieldName]; ok {
		s.session.SetName(name)
	}

	switch intent.Category {
	case extract.CategoryPlanning:
		destination, ok := intent.Fields[extract.FieldDestination]
		if !ok {
			return askDestination
		}

		plan, err := s.plans.GetOrGenerate(ctx, PlanRequest{
			Destination: destination,
			Duration:    intent.Fields[extract.FieldDuration],
			People:      intent.Fields[extract.FieldPeople],
			Budget:      intent.Fields[extract.FieldBudget],
		})
		if err != nil {
			slog.Warn("Plan generation failed", "destination", destination, "error", err)
			return planUnavailable
		}

		return s.formatPlan(ctx, plan)

	case extract.CategoryInquiry:
		destination, ok := intent.Fields[extract.FieldDestination]
		if !ok {
			return askInquiryDestination
		}

		return fmt.Sprintf(
			"I can look up %s for you. What exactly would you like to know? For example: sights, hotels, restaurants.",
			destination,
		)

	default:
		return generalHelp
	}
}
