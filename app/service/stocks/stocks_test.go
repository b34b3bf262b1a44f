package stocks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"concierge/app/config"
)

type fakeCompleter struct {
	answer    string
	err       error
	lastInput string
}

func (f *fakeCompleter) CompleteWithSearch(_ context.Context, _, _, input string) (string, error) {
	f.lastInput = input
	if f.err != nil {
		return "", f.err
	}

	return f.answer, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OpenAI: config.OpenAI{
			ExtractionModel: "test-extract",
			GenerationModel: "test-generate",
			PricingModel:    "test-price",
		},
		Session: config.Session{MaxPairs: 5},
		Stocks: config.Stocks{
			SourceURL: "cafef.vn/du-lieu/lich-su-giao-dich-vnm-1.chn",
			Model:     "test-analyze",
		},
	}
}

func TestAnalyzeScopesQueryToSource(t *testing.T) {
	completer := &fakeCompleter{answer: "Cash flow looks stable."}
	svc := NewService(testConfig(), completer)

	reply, err := svc.HandleTurn(context.Background(), "Is the operating cash flow stable?")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if reply != "Cash flow looks stable." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if !strings.Contains(completer.lastInput, "site:cafef.vn/du-lieu/lich-su-giao-dich-vnm-1.chn") {
		t.Fatalf("expected site filter in query, got %q", completer.lastInput)
	}
}

func TestAnalyzeFailureIsFailSoft(t *testing.T) {
	svc := NewService(testConfig(), &fakeCompleter{err: errors.New("upstream down")})

	reply, err := svc.HandleTurn(context.Background(), "How risky is this stock?")
	if err != nil {
		t.Fatalf("HandleTurn must not propagate the failure, got %v", err)
	}
	if reply != analysisUnavailable {
		t.Fatalf("expected fallback message, got %q", reply)
	}
}

func TestTurnsAreRecorded(t *testing.T) {
	svc := NewService(testConfig(), &fakeCompleter{answer: "Looks fine."})

	if _, err := svc.HandleTurn(context.Background(), "valuation?"); err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if got := svc.Session().Len(); got != 2 {
		t.Fatalf("expected 2 recorded messages, got %d", got)
	}
}
