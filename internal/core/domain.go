package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by every entry.
const DateLayout = "2006-01-02"

const (
	CategoryMaterial Category = "material"
	CategoryLabor    Category = "labor"
	CategoryFreight  Category = "freight"
	CategoryFixed    Category = "fixed"
	CategoryOther    Category = "other"
)

type (
	Category string

	RevenueEntry struct {
		ID          string          `json:"id"`
		Date        string          `json:"date"`
		Client      string          `json:"client"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	CostEntry struct {
		ID          string          `json:"id"`
		Date        string          `json:"date"`
		Category    Category        `json:"category"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// RevenueInput carries the raw form fields of a new revenue entry.
	RevenueInput struct {
		Date        string
		Client      string
		Description string
		Amount      string
	}

	// CostInput carries the raw form fields of a new cost entry.
	CostInput struct {
		Date        string
		Category    string
		Description string
		Amount      string
	}
)

var (
	ErrEmptyDate        = errors.New("empty date")
	ErrInvalidDate      = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrEmptyClient      = errors.New("empty client")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyAmount      = errors.New("empty amount")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountTooLarge   = errors.New("amount too large")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidCategory  = errors.New("invalid category")
)

// Categories lists the cost categories in their fixed display order.
var Categories = []Category{
	CategoryMaterial,
	CategoryLabor,
	CategoryFreight,
	CategoryFixed,
	CategoryOther,
}

// legacy slugs written by earlier versions of the dashboard
var categoryAliases = map[string]Category{
	"mao-de-obra":  CategoryLabor,
	"frete":        CategoryFreight,
	"custos-fixos": CategoryFixed,
	"outros":       CategoryOther,
}

// ParseCategory maps a form value onto the category enum.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrEmptyCategory
	}
	if c := Category(s); c.Valid() {
		return c, nil
	}
	if c, ok := categoryAliases[s]; ok {
		return c, nil
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	switch c {
	case CategoryMaterial, CategoryLabor, CategoryFreight, CategoryFixed, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// UnmarshalJSON maps the legacy slugs of older stored payloads onto the
// enum. Unknown values are kept as they are.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParseCategory(s); err == nil {
		*c = parsed
		return nil
	}
	*c = Category(s)
	return nil
}

// ValidateDate checks that s is a real calendar date in YYYY-MM-DD form.
func ValidateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmptyDate
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (e RevenueEntry) EntryID() string { return e.ID }

func (e CostEntry) EntryID() string { return e.ID }

func (in RevenueInput) Validate() error {
	if err := ValidateDate(in.Date); err != nil {
		return err
	}
	if strings.TrimSpace(in.Client) == "" {
		return ErrEmptyClient
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(in.Amount) == "" {
		return ErrEmptyAmount
	}
	if _, err := ParseAmount(in.Amount); err != nil {
		return err
	}
	return nil
}

// Build turns a validated input into a ledger entry.
func (in RevenueInput) Build(id string, createdAt time.Time) RevenueEntry {
	amount, _ := ParseAmount(in.Amount)
	return RevenueEntry{
		ID:          id,
		Date:        strings.TrimSpace(in.Date),
		Client:      strings.TrimSpace(in.Client),
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		CreatedAt:   createdAt,
	}
}

func (in CostInput) Validate() error {
	if err := ValidateDate(in.Date); err != nil {
		return err
	}
	if _, err := ParseCategory(in.Category); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(in.Amount) == "" {
		return ErrEmptyAmount
	}
	if _, err := ParseAmount(in.Amount); err != nil {
		return err
	}
	return nil
}

// Build turns a validated input into a ledger entry.
func (in CostInput) Build(id string, createdAt time.Time) CostEntry {
	amount, _ := ParseAmount(in.Amount)
	category, _ := ParseCategory(in.Category)
	return CostEntry{
		ID:          id,
		Date:        strings.TrimSpace(in.Date),
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		CreatedAt:   createdAt,
	}
}
