package session

import (
	"fmt"
	"testing"
)

func TestAppendKeepsHistoryBounded(t *testing.T) {
	store := NewStore(2)

	for i := 0; i < 10; i++ {
		store.Append(RoleUser, fmt.Sprintf("question %d", i))
		store.Append(RoleAssistant, fmt.Sprintf("answer %d", i))
	}

	if got := store.Len(); got != 4 {
		t.Fatalf("expected 4 retained messages, got %d", got)
	}

	recent := store.Recent(4)
	want := []Message{
		{RoleUser, "question 8"},
		{RoleAssistant, "answer 8"},
		{RoleUser, "question 9"},
		{RoleAssistant, "answer 9"},
	}

	for i, msg := range want {
		if recent[i] != msg {
			t.Fatalf("message %d: expected %+v, got %+v", i, msg, recent[i])
		}
	}
}

func TestRecentShorterThanRequested(t *testing.T) {
	store := NewStore(5)
	store.Append(RoleUser, "hello")

	recent := store.Recent(10)
	if len(recent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(recent))
	}
	if recent[0].Content != "hello" {
		t.Fatalf("unexpected message: %+v", recent[0])
	}

	if got := store.Recent(0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}

func TestResetClearsHistoryButKeepsName(t *testing.T) {
	store := NewStore(5)
	store.Append(RoleUser, "hi, I'm An")
	store.SetName("An")

	store.Reset()

	if store.Len() != 0 {
		t.Fatalf("expected empty history after reset")
	}
	if store.Name() != "An" {
		t.Fatalf("expected name to survive reset, got %q", store.Name())
	}
}

func TestNameFirstWriteSticks(t *testing.T) {
	store := NewStore(5)

	store.SetName("An")
	store.SetName("Binh")

	if store.Name() != "An" {
		t.Fatalf("expected first name to stick, got %q", store.Name())
	}

	store.UpdateName("Binh")
	if store.Name() != "Binh" {
		t.Fatalf("expected explicit update to win, got %q", store.Name())
	}
}

func TestLastInteractionMarker(t *testing.T) {
	store := NewStore(5)

	if !store.LastInteraction().IsZero() {
		t.Fatalf("expected zero marker before any append")
	}

	store.Append(RoleUser, "hello")

	if store.LastInteraction().IsZero() {
		t.Fatalf("expected marker to be set after append")
	}
}

func TestFormat(t *testing.T) {
	store := NewStore(5)

	if got := store.Format(); got != "No previous messages" {
		t.Fatalf("unexpected empty format: %q", got)
	}

	store.Append(RoleUser, "hello")
	store.Append(RoleAssistant, "hi there")

	want := "User: hello\nAssistant: hi there\n"
	if got := store.Format(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
