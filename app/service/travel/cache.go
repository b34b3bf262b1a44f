package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"concierge/app/config"

	_ "embed"

	"github.com/samber/oops"
)

//go:embed generate_prompt.txt
var generatePrompt string

// Generator is the structured-generation collaborator slice the cache needs.
type Generator interface {
	GenerateStructured(ctx context.Context, model, instructions, input, schemaName string, schema json.RawMessage, webSearch bool) (json.RawMessage, error)
}

// Cache memoizes generated plans by request fingerprint for the lifetime of
// the process. The first successful generation wins; failures are never
// cached.
type Cache struct {
	cfg *config.Config
	llm Generator

	mu    sync.Mutex
	plans map[string]*Plan
}

func NewCache(cfg *config.Config, llm Generator) *Cache {
	return &Cache{
		cfg:   cfg,
		llm:   llm,
		plans: make(map[string]*Plan),
	}
}

// GetOrGenerate returns the cached plan for the request fields or generates
// one through the web-search-augmented collaborator.
func (c *Cache) GetOrGenerate(ctx context.Context, req PlanRequest) (*Plan, error) {
	key := req.Fingerprint()

	c.mu.Lock()
	if plan, ok := c.plans[key]; ok {
		c.mu.Unlock()
		slog.Debug("Plan cache hit", "key", key)
		return plan, nil
	}
	c.mu.Unlock()

	prompt := fmt.Sprintf(
		"Create a travel plan for %s, duration %s, for %s people with a budget of %s",
		req.Destination, req.Duration, req.People, req.Budget,
	)

	raw, err := c.llm.GenerateStructured(ctx, c.cfg.OpenAI.GenerationModel, generatePrompt, prompt, "travel_plan", planSchema, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate travel plan: %w", err)
	}

	var plan Plan
	if err = json.Unmarshal(raw, &plan); err != nil {
		return nil, oops.Code("malformed_output").Wrapf(err, "failed to unmarshal travel plan")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another generation for the same key may have finished first.
	if existing, ok := c.plans[key]; ok {
		return existing, nil
	}
	c.plans[key] = &plan

	slog.Debug("Plan cached", "key", key, "destination", plan.Destination)

	return &plan, nil
}

// Len reports the number of cached plans.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.plans)
}
