package travel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	priceFallback = "price on request"

	// Independent lookups run concurrently, capped to stay polite to the API.
	maxPriceLookups = 4

	advisories = `Travel tips:
- Book tickets and rooms early for better rates
- Carry ID documents and travel insurance
- Check the weather before you go
- Keep maps and emergency contacts at hand
- Prices are often negotiable with local providers`
)

type itemKind struct {
	heading      string
	instructions string
}

var (
	kindActivity = itemKind{
		heading:      "Suggested activities",
		instructions: "Return the estimated price for the activity in VND format",
	}
	kindAccommodation = itemKind{
		heading:      "Suggested accommodations",
		instructions: "Return the estimated price per night for the accommodation in VND format",
	}
	kindTransport = itemKind{
		heading:      "Transportation options",
		instructions: "Return the estimated price for the transportation in VND format",
	}
)

func (s *Service) formatPlan(ctx context.Context, plan *Plan) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Travel plan for %s:\n\n", plan.Destination))
	builder.WriteString(fmt.Sprintf("Duration: %s\n", plan.Duration))
	builder.WriteString(fmt.Sprintf("Party size: %d\n", plan.NumberOfPeople))
	builder.WriteString(fmt.Sprintf("Budget: %s\n", plan.Budget))

	sections := []struct {
		kind  itemKind
		items []string
	}{
		{kindActivity, plan.Activities},
		{kindAccommodation, plan.Accommodations},
		{kindTransport, plan.Transportation},
	}

	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}

		prices := s.lookupPrices(ctx, section.kind, section.items)

		builder.WriteString(fmt.Sprintf("\n%s:\n", section.kind.heading))
		for i, item := range section.items {
			builder.WriteString(fmt.Sprintf("%d. %s - Price: %s\n", i+1, item, prices[i]))
		}
	}

	builder.WriteString(fmt.Sprintf("\nEstimated total cost: %s\n", plan.EstimatedCost))
	builder.WriteString("\n")
	builder.WriteString(advisories)

	return builder.String()
}

// lookupPrices resolves a price per item. Lookups are independent of each
// other and run in parallel; a failed lookup degrades to a fallback label.
func (s *Service) lookupPrices(ctx context.Context, kind itemKind, items []string) []string {
	prices := make([]string, len(items))

	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPriceLookups)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			price, err := s.llm.Complete(ctx, s.cfg.OpenAI.PricingModel, kind.instructions,
				fmt.Sprintf("What is the price for %s?", item))
			if err != nil {
				slog.Warn("Price lookup failed", "item", item, "error", err)
				price = priceFallback
			}

			mu.Lock()
			prices[i] = price
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return prices
}
