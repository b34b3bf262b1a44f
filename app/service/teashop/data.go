package teashop

import (
	"strconv"
	"strings"
)

const (
	greeting = `Hello! I am the tea shop assistant. Ask me anything about the menu.

For example:
- "Show me the milk tea menu"
- "How much is the pearl milk tea?"
- "Describe the matcha milk tea"
- "What toppings do you have?"
- "I want to order"

Manage your order with:
- "add <item> <price> x<quantity>"  e.g. "add Milk Tea 30000 x2"
- "note <special request>"
- "confirm yes" to place the order, "cancel" to discard it`

	confirmPrompt = "Would you like to confirm your order? (yes/no)"

	nothingToConfirm = "You haven't ordered anything yet. Please order before confirming."
	cancelAck        = "Your order has been cancelled. Feel free to order something new."

	menuUnavailable = "Sorry, I cannot check the menu right now. Please try again in a moment."
)

func hasConfirmKeywords(text string) bool {
	lower := strings.ToLower(text)

	return strings.Contains(lower, "confirm") && strings.Contains(lower, "yes")
}

func hasCancelKeyword(text string) bool {
	return strings.Contains(strings.ToLower(text), "cancel")
}

func hasOrderKeyword(text string) bool {
	lower := strings.ToLower(text)

	return strings.Contains(lower, "order") || strings.Contains(lower, "đặt món")
}

// parseAddCommand recognizes "add <name> <price> [x<qty>]". Quantity defaults
// to 1 when the trailing x<qty> token is absent.
func parseAddCommand(text string) (name string, price float64, quantity int, ok bool) {
	fields := strings.Fields(text)
	if len(fields) < 3 || !strings.EqualFold(fields[0], "add") {
		return "", 0, 0, false
	}

	quantity = 1
	rest := fields[1:]

	last := rest[len(rest)-1]
	if len(last) > 1 && (last[0] == 'x' || last[0] == 'X') {
		n, err := strconv.Atoi(last[1:])
		if err != nil {
			return "", 0, 0, false
		}
		quantity = n
		rest = rest[:len(rest)-1]
	}

	if len(rest) < 2 {
		return "", 0, 0, false
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(rest[len(rest)-1], ",", ""), 64)
	if err != nil {
		return "", 0, 0, false
	}

	name = strings.Join(rest[:len(rest)-1], " ")
	if name == "" {
		return "", 0, 0, false
	}

	return name, price, quantity, true
}

func parseNoteCommand(text string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(text), "note ") {
		return "", false
	}

	note := strings.TrimSpace(text[len("note "):])
	if note == "" {
		return "", false
	}

	return note, true
}
