package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// timestampLayouts are accepted for wire timestamps, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

// ServerBudgetItem is the server's representation of a budget item.
// Timestamps travel as ISO-8601 strings and there is no synced flag.
type ServerBudgetItem struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        ItemKind        `json:"kind"`
	OccurredAt  string          `json:"occurred_at"`
	UpdatedAt   string          `json:"updated_at"`
	CreatedAt   string          `json:"created_at"`
	Deleted     bool            `json:"deleted"`
}

// FormatTimestamp renders t the way the server expects it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses a wire timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ToServer converts a local item to its wire shape.
func (b BudgetItem) ToServer() ServerBudgetItem {
	return ServerBudgetItem{
		ID:          b.ID,
		Category:    b.Category,
		Description: b.Description,
		Amount:      b.Amount,
		Kind:        b.Kind,
		OccurredAt:  FormatTimestamp(b.OccurredAt),
		UpdatedAt:   FormatTimestamp(b.UpdatedAt),
		CreatedAt:   FormatTimestamp(b.CreatedAt),
		Deleted:     b.Deleted,
	}
}

// ToLocal converts a server item to the local shape. The result is marked
// synced since the server copy is authoritative for itself.
func (s ServerBudgetItem) ToLocal() (BudgetItem, error) {
	occurredAt, err := ParseTimestamp(s.OccurredAt)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("item %s occurred_at: %w", s.ID, err)
	}
	updatedAt, err := ParseTimestamp(s.UpdatedAt)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("item %s updated_at: %w", s.ID, err)
	}
	createdAt, err := ParseTimestamp(s.CreatedAt)
	if err != nil {
		return BudgetItem{}, fmt.Errorf("item %s created_at: %w", s.ID, err)
	}
	if createdAt.After(updatedAt) {
		createdAt = updatedAt
	}

	return BudgetItem{
		Base: Base{
			ID:        s.ID,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		Category:    s.Category,
		Description: s.Description,
		Amount:      s.Amount,
		Kind:        s.Kind,
		OccurredAt:  occurredAt,
		Synced:      true,
		Deleted:     s.Deleted,
	}, nil
}
