package queue

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

// Service buffers console input lines between the stdin reader goroutine and
// the engine loop.
type Service struct {
	lines     chan string
	closeOnce sync.Once
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		lines: make(chan string, bufferSize),
	}, nil
}

// RunReader pumps stdin into the queue until the context is cancelled or
// stdin is closed.
func (s *Service) RunReader(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.Add(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		slog.Warn("stdin reader stopped", "error", err)
	}

	s.close()
}

func (s *Service) Add(text string) {
	defer func() {
		if r := recover(); r != nil {

		}
	}()

	select {
	case s.lines <- text:
	default:
		slog.Warn("input queue is full")
	}
}

func (s *Service) Channel() <-chan string {
	return s.lines
}

func (s *Service) close() {
	s.closeOnce.Do(func() {
		close(s.lines)
	})
}

func (s *Service) Shutdown() error {
	s.close()

	return nil
}
