package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sjperalta/dairydash-api/internal/models"
)

// Parser turns a spoken command into an Intent
type Parser interface {
	Parse(ctx context.Context, text string, today time.Time) (Intent, error)
}

// Generator produces a JSON document from a system prompt and user input
type Generator interface {
	GenerateJSON(ctx context.Context, systemPrompt, input string) (string, error)
}

// LLMParser asks a Generator to tag the command and decodes its answer
type LLMParser struct {
	gen Generator
}

// NewLLMParser creates a parser backed by gen
func NewLLMParser(gen Generator) *LLMParser {
	return &LLMParser{gen: gen}
}

// Parse implements Parser
func (p *LLMParser) Parse(ctx context.Context, text string, today time.Time) (Intent, error) {
	if strings.TrimSpace(text) == "" {
		return Unknown{Reason: defaultUnknownReason}, nil
	}
	out, err := p.gen.GenerateJSON(ctx, SystemPrompt(today), text)
	if err != nil {
		return nil, err
	}
	return Decode([]byte(stripFences(out)))
}

// SystemPrompt instructs the model to answer with one JSON object
func SystemPrompt(today time.Time) string {
	return fmt.Sprintf(systemPrompt, today.Format(models.DateLayout))
}

// stripFences removes a ```json ... ``` wrapper some models add
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

const systemPrompt = `You are a parsing system for DairyDash, a milk delivery app.
Parse the vendor's voice command (English, Hindi or Hinglish) into a single JSON object.
Do not include any text, markdown or explanation outside the JSON object.

The vendor can perform 3 actions:
1. "CREATE_CUSTOMER": add a new customer.
2. "CREATE_DELIVERY": record a milk delivery for an existing customer.
3. "CREATE_PAYMENT": record a payment from an existing customer.

INTENT: CREATE_CUSTOMER
- Requires: customerName, milkType, liters, rate. Optional: phone.
- milkType must be 'cow' or 'buffalo'. Default to 'cow' if unspecified.
- Input: "Add Rakesh, 2 liters buffalo milk, 60 rupees"
- Output: {"intent": "CREATE_CUSTOMER", "customerName": "Rakesh", "milkType": "buffalo", "liters": 2, "rate": 60}

INTENT: CREATE_DELIVERY
- Requires: customerName, liters. Optional: date (YYYY-MM-DD).
- Input: "Ramesh 2 liter"
- Output: {"intent": "CREATE_DELIVERY", "customerName": "Ramesh", "liters": 2}

INTENT: CREATE_PAYMENT
- Requires: customerName, amount. Optional: date (YYYY-MM-DD).
- Input: "Sunita ne 150 rupaye diye"
- Output: {"intent": "CREATE_PAYMENT", "customerName": "Sunita", "amount": 150}

If the intent is unclear, return:
{"intent": "UNKNOWN", "error": "Could not understand. Please try again."}

Today's date is: %s
`
