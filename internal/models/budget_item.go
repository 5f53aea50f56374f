package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind is the direction of a budget item.
type ItemKind string

const (
	ItemKindIncome  ItemKind = "income"
	ItemKindExpense ItemKind = "expense"
)

// Valid reports whether k is a known kind.
func (k ItemKind) Valid() bool {
	return k == ItemKindIncome || k == ItemKindExpense
}

// BudgetItem is one income or expense line kept in the local store.
//
// Synced is true only once the server has accepted the current version.
// Deleted marks a soft delete that still has to reach the server before the
// row may be physically removed.
type BudgetItem struct {
	Base
	Category    string          `gorm:"not null" json:"category"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:text;not null" json:"amount"`
	Kind        ItemKind        `gorm:"not null" json:"kind"`
	OccurredAt  time.Time       `gorm:"not null;index:idx_budget_items_active,priority:2" json:"occurred_at"`
	Synced      bool            `gorm:"not null;index" json:"synced"`
	Deleted     bool            `gorm:"not null;index:idx_budget_items_active,priority:1" json:"deleted"`
}

// BudgetItemInput carries the caller-supplied fields of a new item.
type BudgetItemInput struct {
	Category    string
	Description string
	Amount      decimal.Decimal
	Kind        ItemKind
	OccurredAt  time.Time
}

// BudgetItemPatch carries a partial update. Nil fields are left unchanged.
type BudgetItemPatch struct {
	Category    *string
	Description *string
	Amount      *decimal.Decimal
	Kind        *ItemKind
	OccurredAt  *time.Time
	Deleted     *bool
}

// Apply merges the non-nil fields of p into item.
func (p BudgetItemPatch) Apply(item *BudgetItem) {
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Amount != nil {
		item.Amount = *p.Amount
	}
	if p.Kind != nil {
		item.Kind = *p.Kind
	}
	if p.OccurredAt != nil {
		item.OccurredAt = *p.OccurredAt
	}
	if p.Deleted != nil {
		item.Deleted = *p.Deleted
	}
}

// Summary aggregates the active items.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

// Summarize sums income and expense over items, skipping soft-deleted rows.
func Summarize(items []BudgetItem) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, item := range items {
		if item.Deleted {
			continue
		}
		switch item.Kind {
		case ItemKindIncome:
			s.Income = s.Income.Add(item.Amount)
		case ItemKindExpense:
			s.Expense = s.Expense.Add(item.Amount)
		}
		s.Count++
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}
