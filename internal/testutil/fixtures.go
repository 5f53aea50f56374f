package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/najeeb67/my-money-mat/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestItem inserts an unsynced item of the given kind and amount, stamped now.
func CreateTestItem(t *testing.T, db *gorm.DB, kind models.ItemKind, amount string) *models.BudgetItem {
	t.Helper()
	return CreateTestItemAt(t, db, kind, amount, time.Now().UTC(), false)
}

// CreateTestItemAt inserts an item with an explicit updated_at and synced flag.
func CreateTestItemAt(t *testing.T, db *gorm.DB, kind models.ItemKind, amount string, updatedAt time.Time, synced bool) *models.BudgetItem {
	t.Helper()

	n := nextID()
	item := &models.BudgetItem{
		Base: models.Base{
			ID:        fmt.Sprintf("item-%d", n),
			CreatedAt: updatedAt,
			UpdatedAt: updatedAt,
		},
		Category:    fmt.Sprintf("Test Category %d", n),
		Description: "fixture",
		Amount:      decimal.RequireFromString(amount),
		Kind:        kind,
		OccurredAt:  updatedAt.Truncate(24 * time.Hour),
		Synced:      synced,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

// CreateTestMutation inserts a queued mutation created at the given time.
func CreateTestMutation(t *testing.T, db *gorm.DB, operation string, createdAt time.Time) *models.MutationQueueEntry {
	t.Helper()

	entry := &models.MutationQueueEntry{
		OperationName: operation,
		Arguments:     []byte(fmt.Sprintf(`{"n":%d}`, nextID())),
		CreatedAt:     createdAt,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test mutation: %v", err)
	}
	return entry
}

// ServerCopy returns the wire form of item with updated_at shifted by offset.
func ServerCopy(item *models.BudgetItem, offset time.Duration) models.ServerBudgetItem {
	s := item.ToServer()
	s.UpdatedAt = models.FormatTimestamp(item.UpdatedAt.Add(offset))
	return s
}
