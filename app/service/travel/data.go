package travel

import (
	"encoding/json"
	"strings"
)

// Plan is the structured generation result. The schema below forbids any
// deviation from this exact shape.
type Plan struct {
	Destination    string   `json:"destination"`
	Duration       string   `json:"duration"`
	NumberOfPeople int      `json:"number_of_people"`
	Budget         string   `json:"budget"`
	Activities     []string `json:"activities"`
	Accommodations []string `json:"accommodations"`
	Transportation []string `json:"transportation"`
	EstimatedCost  string   `json:"estimated_cost"`
}

var planSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "destination": {"type": "string"},
    "duration": {"type": "string"},
    "number_of_people": {"type": "integer"},
    "budget": {"type": "string"},
    "activities": {"type": "array", "items": {"type": "string"}},
    "accommodations": {"type": "array", "items": {"type": "string"}},
    "transportation": {"type": "array", "items": {"type": "string"}},
    "estimated_cost": {"type": "string"}
  },
  "required": [
    "destination",
    "duration",
    "number_of_people",
    "budget",
    "activities",
    "accommodations",
    "transportation",
    "estimated_cost"
  ],
  "additionalProperties": false
}`)

// PlanRequest carries the extracted fields the generation pipeline needs.
type PlanRequest struct {
	Destination string
	Duration    string
	People      string
	Budget      string
}

// Fingerprint derives the cache key. Identical fields always map to the same
// key.
func (r PlanRequest) Fingerprint() string {
	normalize := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}

	return normalize(r.Destination) + "|" + normalize(r.Duration) + "|" + normalize(r.People)
}
