// Package quote builds price quotes for a client and renders them as the
// plain-text "Orçamento" document handed to the client.
package quote

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"erp/internal/core"
)

// State of a Builder.
type State int

const (
	Drafting State = iota
	Generated
)

func (s State) String() string {
	if s == Generated {
		return "generated"
	}
	return "drafting"
}

var (
	ErrEmptyItemDescription = errors.New("empty item description")
	ErrEmptyQuantity        = errors.New("empty quantity")
	ErrInvalidQuantity      = errors.New("invalid quantity (expected a positive integer)")
	ErrEmptyUnitPrice       = errors.New("empty unit price")
)

// Item is one quote line. Items live only as long as their Builder.
type Item struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Subtotal is quantity times unit price.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Options configures a Builder.
type Options struct {
	Company string
	Now     func() time.Time
	NewID   func() string
}

// Builder accumulates a client and line items until a document is
// generated. Generating keeps the draft; any further edit moves the
// builder back to Drafting.
type Builder struct {
	mu          sync.Mutex
	clientName  string
	clientPhone string
	items       []Item
	state       State
	company     string
	now         func() time.Time
	newID       func() string
}

func NewBuilder(opts Options) *Builder {
	b := &Builder{
		company: opts.Company,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if b.company == "" {
		b.company = DefaultCompany
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	return b
}

func (b *Builder) SetClient(name, phone string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clientName = strings.TrimSpace(name)
	b.clientPhone = strings.TrimSpace(phone)
	b.state = Drafting
}

// Client returns the client name and phone.
func (b *Builder) Client() (name, phone string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clientName, b.clientPhone
}

// AddItem parses and appends a line item. Any empty or malformed field
// leaves the draft unchanged.
func (b *Builder) AddItem(description, quantity, unitPrice string) (Item, error) {
	description = strings.TrimSpace(description)
	quantity = strings.TrimSpace(quantity)
	if description == "" {
		return Item{}, ErrEmptyItemDescription
	}
	if quantity == "" {
		return Item{}, ErrEmptyQuantity
	}
	if strings.TrimSpace(unitPrice) == "" {
		return Item{}, ErrEmptyUnitPrice
	}
	qty, err := strconv.Atoi(quantity)
	if err != nil || qty < 1 {
		return Item{}, ErrInvalidQuantity
	}
	price, err := core.ParseAmount(unitPrice)
	if err != nil {
		return Item{}, err
	}
	if price.Mul(decimal.NewFromInt(int64(qty))).GreaterThan(core.MaxAmount) {
		return Item{}, core.ErrAmountTooLarge
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	item := Item{
		ID:          b.uniqueID(),
		Description: description,
		Quantity:    qty,
		UnitPrice:   price,
	}
	b.items = append(b.items, item)
	b.state = Drafting
	return item, nil
}

// RemoveItem drops the item with the given id. Unknown ids are ignored.
func (b *Builder) RemoveItem(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	before := len(b.items)
	b.items = slices.DeleteFunc(b.items, func(i Item) bool { return i.ID == id })
	b.state = Drafting
	return len(b.items) != before
}

// Items returns a copy of the line items in insertion order.
func (b *Builder) Items() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

func (b *Builder) Total() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return total(b.items)
}

func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Generate renders the current draft. When the client name, the client
// phone or the items are missing it returns a *ValidationError and no
// document.
func (b *Builder) Generate() (Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var missing []string
	if b.clientName == "" {
		missing = append(missing, FieldClientName)
	}
	if b.clientPhone == "" {
		missing = append(missing, FieldClientPhone)
	}
	if len(b.items) == 0 {
		missing = append(missing, FieldItems)
	}
	if len(missing) > 0 {
		return Document{}, &ValidationError{Missing: missing}
	}

	doc := render(draft{
		clientName:  b.clientName,
		clientPhone: b.clientPhone,
		items:       b.items,
		company:     b.company,
		date:        b.now(),
	})
	b.state = Generated
	return doc, nil
}

// Reset clears the draft.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clientName, b.clientPhone = "", ""
	b.items = nil
	b.state = Drafting
}

// must hold b.mu
func (b *Builder) uniqueID() string {
	for {
		id := b.newID()
		if id != "" && !slices.ContainsFunc(b.items, func(i Item) bool { return i.ID == id }) {
			return id
		}
	}
}

func total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range items {
		sum = sum.Add(i.Subtotal())
	}
	return sum
}
