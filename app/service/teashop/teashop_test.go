package teashop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"concierge/app/client/docstore"
	"concierge/app/config"
)

type fakeSearcher struct {
	results []docstore.Result
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, _ string) ([]docstore.Result, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.results, nil
}

type fakeCompleter struct {
	reply     string
	err       error
	lastInput string
}

func (f *fakeCompleter) Complete(_ context.Context, _, _, input string) (string, error) {
	f.lastInput = input
	if f.err != nil {
		return "", f.err
	}

	return f.reply, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OpenAI: config.OpenAI{
			ExtractionModel: "test-extract",
			GenerationModel: "test-generate",
			PricingModel:    "test-price",
		},
		Search:  config.Search{VectorStoreID: "vs_test", MaxResults: 2},
		Session: config.Session{MaxPairs: 5},
	}
}

func newTestService(completer *fakeCompleter, searcher *fakeSearcher) *Service {
	return NewService(testConfig(), completer, searcher)
}

func TestConfirmWithEmptyOrder(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "menu"}, &fakeSearcher{})

	reply, err := svc.HandleTurn(context.Background(), "confirm yes")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if reply != nothingToConfirm {
		t.Fatalf("expected nothing-to-confirm message, got %q", reply)
	}
}

func TestConfirmFlowResetsOrder(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "menu"}, &fakeSearcher{})

	if err := svc.Order().AddItem("Milk Tea", 30000, 2); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if err := svc.Order().AddItem("Taro", 35000, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	reply, err := svc.HandleTurn(context.Background(), "confirm yes")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	for _, want := range []string{"Order ID: ORD", "Total: 95,000 VND", "confirmed"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("expected confirmation to contain %q, got %q", want, reply)
		}
	}

	if !svc.Order().IsEmpty() || svc.Order().Total() != 0 {
		t.Fatalf("expected empty order after confirm")
	}
}

func TestOrderKeywordAppendsSummary(t *testing.T) {
	completer := &fakeCompleter{reply: "Here is our menu."}
	svc := newTestService(completer, &fakeSearcher{results: []docstore.Result{
		{FileID: "f1", Filename: "menu.md", Score: 0.9, Text: "Milk Tea 30,000 VND"},
	}})

	if err := svc.Order().AddItem("Milk Tea", 30000, 2); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	reply, err := svc.HandleTurn(context.Background(), "I want to order")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	for _, want := range []string{"Here is our menu.", "Your current order:", "Total: 60,000 VND", confirmPrompt} {
		if !strings.Contains(reply, want) {
			t.Fatalf("expected reply to contain %q, got %q", want, reply)
		}
	}

	if !strings.Contains(completer.lastInput, "Milk Tea 30,000 VND") {
		t.Fatalf("expected the top search snippet in the prompt, got %q", completer.lastInput)
	}
}

func TestOrderKeywordWithoutItemsSkipsSummary(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "Here is our menu."}, &fakeSearcher{})

	reply, err := svc.HandleTurn(context.Background(), "how do I order?")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if strings.Contains(reply, "Your current order:") {
		t.Fatalf("empty order must not produce a summary, got %q", reply)
	}
}

func TestCancelKeywordResetsOrder(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "menu"}, &fakeSearcher{})

	if err := svc.Order().AddItem("Milk Tea", 30000, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	reply, err := svc.HandleTurn(context.Background(), "please cancel that")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if reply != cancelAck {
		t.Fatalf("expected cancellation acknowledgement, got %q", reply)
	}
	if !svc.Order().IsEmpty() {
		t.Fatalf("expected empty order after cancel")
	}
}

func TestAddAndNoteCommands(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "menu"}, &fakeSearcher{})

	reply, err := svc.HandleTurn(context.Background(), "add Milk Tea 30000 x2")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}
	if !strings.Contains(reply, "Added Milk Tea x2") {
		t.Fatalf("expected add acknowledgement, got %q", reply)
	}
	if svc.Order().Total() != 60000 {
		t.Fatalf("expected total 60000, got %v", svc.Order().Total())
	}

	reply, err = svc.HandleTurn(context.Background(), "note less sugar")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}
	if !strings.Contains(reply, "less sugar") {
		t.Fatalf("expected note acknowledgement, got %q", reply)
	}
	if svc.Order().Note() != "less sugar" {
		t.Fatalf("expected note to be recorded, got %q", svc.Order().Note())
	}
}

func TestSearchFailureIsFailSoft(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "I can still help."}, &fakeSearcher{err: errors.New("store down")})

	reply, err := svc.HandleTurn(context.Background(), "what teas do you have?")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}
	if reply != "I can still help." {
		t.Fatalf("expected answer without menu grounding, got %q", reply)
	}
}

func TestCompletionFailureIsFailSoft(t *testing.T) {
	svc := newTestService(&fakeCompleter{err: errors.New("llm down")}, &fakeSearcher{})

	reply, err := svc.HandleTurn(context.Background(), "what teas do you have?")
	if err != nil {
		t.Fatalf("HandleTurn must not propagate the failure, got %v", err)
	}
	if reply != menuUnavailable {
		t.Fatalf("expected fallback message, got %q", reply)
	}
}

func TestClearHistoryResetsOrderToo(t *testing.T) {
	svc := newTestService(&fakeCompleter{reply: "menu"}, &fakeSearcher{})

	if err := svc.Order().AddItem("Milk Tea", 30000, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := svc.HandleTurn(context.Background(), "hello"); err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	svc.ClearHistory()

	if svc.Session().Len() != 0 {
		t.Fatalf("expected empty history after clear")
	}
	if !svc.Order().IsEmpty() {
		t.Fatalf("expected empty order after clear")
	}
}

func TestParseAddCommand(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		price    float64
		quantity int
		ok       bool
	}{
		{"add Milk Tea 30000 x2", "Milk Tea", 30000, 2, true},
		{"add Taro 35,000", "Taro", 35000, 1, true},
		{"ADD matcha latte 45000 X3", "matcha latte", 45000, 3, true},
		{"add Milk Tea", "", 0, 0, false},
		{"add 30000", "", 0, 0, false},
		{"hello there", "", 0, 0, false},
		{"add Milk Tea 30000 xtwo", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, price, quantity, ok := parseAddCommand(tt.in)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if name != tt.name || price != tt.price || quantity != tt.quantity {
				t.Fatalf("expected (%q, %v, %d), got (%q, %v, %d)", tt.name, tt.price, tt.quantity, name, price, quantity)
			}
		})
	}
}
