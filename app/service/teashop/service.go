package teashop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"concierge/app/client/docstore"
	"concierge/app/client/llm"
	"concierge/app/config"
	"concierge/app/service/order"
	"concierge/app/service/session"

	_ "embed"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

//go:embed menu_prompt.txt
var menuPrompt string

// Searcher is the document store collaborator slice this service needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]docstore.Result, error)
}

type Completer interface {
	Complete(ctx context.Context, model, instructions, input string) (string, error)
}

type Service struct {
	cfg     *config.Config
	llm     Completer
	search  Searcher
	order   *order.Order
	session *session.Store
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		cfg,
		do.MustInvoke[*llm.Client](di),
		do.MustInvoke[*docstore.Client](di),
	), nil
}

func NewService(cfg *config.Config, completer Completer, search Searcher) *Service {
	return &Service{
		cfg:     cfg,
		llm:     completer,
		search:  search,
		order:   order.New(),
		session: session.NewStore(cfg.Session.MaxPairs),
	}
}

func (s *Service) Greeting() string {
	return greeting
}

// Order exposes the current draft, mainly for tests.
func (s *Service) Order() *order.Order {
	return s.order
}

func (s *Service) Session() *session.Store {
	return s.session
}

func (s *Service) ClearHistory() string {
	s.session.Reset()
	s.order.Cancel()

	return "Conversation history cleared."
}

func (s *Service) Cancel() string {
	s.order.Cancel()

	return cancelAck
}

func (s *Service) HandleTurn(ctx context.Context, text string) (string, error) {
	s.session.Append(session.RoleUser, text)

	reply := s.respond(ctx, text)

	s.session.Append(session.RoleAssistant, reply)

	return reply, nil
}

func (s *Service) respond(ctx context.Context, text string) string {
	// Deterministic order commands short-circuit the model entirely.
	if name, price, quantity, ok := parseAddCommand(text); ok {
		if err := s.order.AddItem(name, price, quantity); err != nil {
			slog.Warn("Rejected line item", "name", name, "error", err)
			return "I could not add that item: the price and quantity must be positive."
		}

		return fmt.Sprintf("Added %s x%d.\n\n%s\n%s", name, quantity, s.order.Summary(), confirmPrompt)
	}

	if note, ok := parseNoteCommand(text); ok {
		s.order.SetNote(note)

		return fmt.Sprintf("Noted: %s", note)
	}

	// Confirmation and cancellation apply regardless of what the classifier
	// would say about the rest of the message.
	if hasConfirmKeywords(text) {
		return s.confirmOrder()
	}

	if hasCancelKeyword(text) {
		s.order.Cancel()

		return cancelAck
	}

	reply := s.menuAnswer(ctx, text)

	if hasOrderKeyword(text) && !s.order.IsEmpty() {
		reply = fmt.Sprintf("%s\n\n%s\n%s", reply, s.order.Summary(), confirmPrompt)
	}

	return reply
}

func (s *Service) confirmOrder() string {
	receipt, err := s.order.Confirm()
	if err != nil {
		if errors.Is(err, order.ErrEmpty) {
			return nothingToConfirm
		}

		slog.Error("Order confirmation failed", "error", err)
		return nothingToConfirm
	}

	return fmt.Sprintf(
		"Your order is confirmed!\nOrder ID: %s\nTotal: %s\nThank you for your order!",
		receipt.ID, order.FormatAmount(receipt.Total),
	)
}

// menuAnswer asks the completion collaborator to answer a menu question,
// grounded on the best snippet the document store returns.
func (s *Service) menuAnswer(ctx context.Context, text string) string {
	var menuInfo string

	results, err := s.search.Search(ctx, text)
	if err != nil {
		slog.Warn("Menu search failed", "error", err)
	} else {
		idx := pie.FindFirstUsing(results, func(r docstore.Result) bool {
			return r.Text != ""
		})
		if idx >= 0 {
			menuInfo = results[idx].Text
		}
	}

	var input strings.Builder

	input.WriteString("<conversation_history>\n")
	input.WriteString(s.session.Format())
	input.WriteString("</conversation_history>\n")

	if menuInfo != "" {
		input.WriteString("<menu_excerpt>\n")
		input.WriteString(menuInfo)
		input.WriteString("\n</menu_excerpt>\n")
	}

	input.WriteString("Customer: ")
	input.WriteString(text)

	reply, err := s.llm.Complete(ctx, s.cfg.OpenAI.GenerationModel, menuPrompt, input.String())
	if err != nil {
		slog.Warn("Menu answer failed", "error", err)
		return menuUnavailable
	}

	return reply
}
