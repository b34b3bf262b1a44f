package order

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	// ErrEmpty is returned by Confirm when there is nothing to confirm.
	ErrEmpty = errors.New("order is empty")
	// ErrInvalidItem is returned for a non-positive quantity or negative price.
	ErrInvalidItem = errors.New("invalid line item")
)

// seq disambiguates order ids minted within the same second.
var seq atomic.Uint64

type LineItem struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

func (i LineItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Receipt is emitted once per confirmed order.
type Receipt struct {
	ID    string
	Total float64
}

// Order accumulates line items for the current draft. The running total always
// equals the sum of line item subtotals.
type Order struct {
	mu    sync.Mutex
	items []LineItem
	total float64
	note  string
}

func New() *Order {
	return &Order{}
}

func (o *Order) AddItem(name string, unitPrice float64, quantity int) error {
	if quantity < 1 || unitPrice < 0 {
		return fmt.Errorf("%w: %q price=%v quantity=%d", ErrInvalidItem, name, unitPrice, quantity)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	item := LineItem{Name: name, UnitPrice: unitPrice, Quantity: quantity}
	o.items = append(o.items, item)
	o.total += item.Subtotal()

	return nil
}

// SetNote overwrites the special request note, last write wins.
func (o *Order) SetNote(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.note = text
}

func (o *Order) Items() []LineItem {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]LineItem, len(o.items))
	copy(result, o.items)

	return result
}

func (o *Order) Total() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.total
}

func (o *Order) Note() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.note
}

func (o *Order) IsEmpty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.items) == 0
}

// Confirm mints a receipt and resets the draft. Fails with ErrEmpty when no
// items have been added; the draft is left untouched in that case.
func (o *Order) Confirm() (Receipt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.items) == 0 {
		return Receipt{}, ErrEmpty
	}

	receipt := Receipt{
		ID:    mintID(),
		Total: o.total,
	}

	o.reset()

	return receipt, nil
}

// Cancel discards the draft unconditionally. Safe to call on an empty order.
func (o *Order) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.reset()
}

func (o *Order) reset() {
	o.items = nil
	o.total = 0
	o.note = ""
}

// Summary renders the draft as user-facing text. Empty orders render empty.
func (o *Order) Summary() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.items) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString("Your current order:\n")
	for _, item := range o.items {
		builder.WriteString(fmt.Sprintf("- %s x%d: %s VND\n", item.Name, item.Quantity, humanize.Commaf(item.Subtotal())))
	}
	builder.WriteString(fmt.Sprintf("Total: %s VND\n", humanize.Commaf(o.total)))

	if o.note != "" {
		builder.WriteString(fmt.Sprintf("Special request: %s\n", o.note))
	}

	return builder.String()
}

// FormatAmount renders a VND amount with thousands separators.
func FormatAmount(v float64) string {
	return humanize.Commaf(v) + " VND"
}

func mintID() string {
	return fmt.Sprintf("ORD%s-%04d", time.Now().UTC().Format("20060102150405"), seq.Add(1))
}
