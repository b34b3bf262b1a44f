package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"concierge/app/config"
	"concierge/app/service/queue"

	"github.com/samber/do"
)

// Assistant is one conversational frontend driven by the console loop.
type Assistant interface {
	Greeting() string
	HandleTurn(ctx context.Context, text string) (string, error)
	ClearHistory() string
	Cancel() string
}

type Service struct {
	cfg       *config.Config
	assistant Assistant
	queueSvc  *queue.Service
	out       io.Writer
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:       do.MustInvoke[*config.Config](di),
		assistant: do.MustInvoke[Assistant](di),
		queueSvc:  do.MustInvoke[*queue.Service](di),
		out:       os.Stdout,
	}, nil
}

// Run drives the conversation until exit, stdin close or cancellation. Turns
// are processed strictly one at a time; a failed turn never stops the loop.
func (s *Service) Run(ctx context.Context) {
	s.print(s.assistant.Greeting())
	s.print("\nType 'exit' to quit, 'clear-history' to reset the conversation, 'cancel' to discard the current order.")
	s.prompt()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}

			if !s.handleLine(ctx, line) {
				return
			}

			s.prompt()
		}
	}
}

func (s *Service) handleLine(ctx context.Context, line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return true
	case "exit":
		s.print("Goodbye! Thanks for stopping by!")
		return false
	case "clear-history":
		s.print(s.assistant.ClearHistory())
		return true
	case "cancel":
		s.print(s.assistant.Cancel())
		return true
	}

	start := time.Now()

	reply, err := s.assistant.HandleTurn(ctx, line)
	if err != nil {
		slog.Warn("HandleTurn error", "error", err)
		s.print("Sorry, something went wrong. Please try again.")
		return true
	}

	slog.Debug("Processed turn", "duration", time.Since(start))

	s.print("\nAI: " + reply)

	return true
}

func (s *Service) prompt() {
	fmt.Fprint(s.out, "\nYou: ")
}

func (s *Service) print(text string) {
	fmt.Fprintln(s.out, text)
}
