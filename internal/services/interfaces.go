package services

import (
	"encoding/json"

	"github.com/najeeb67/my-money-mat/internal/models"
	"github.com/najeeb67/my-money-mat/internal/pagination"
)

// BudgetItemServicer is the durable local store of budget items. Every
// mutation leaves the item unsynced; MarkSynced is the only way back.
type BudgetItemServicer interface {
	Create(input models.BudgetItemInput) (*models.BudgetItem, error)
	Get(id string) (*models.BudgetItem, error)
	Update(id string, patch models.BudgetItemPatch) (*models.BudgetItem, error)
	SoftDelete(id string) (bool, error)
	HardDelete(id string) error
	Replace(item models.BudgetItem) error
	ListActive() ([]models.BudgetItem, error)
	ListActivePage(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetItem], error)
	ListUnsynced() ([]models.BudgetItem, error)
	CountUnsynced() (int64, error)
	MarkSynced(pushed []models.BudgetItem) error
	Summary() (*models.Summary, error)
}

// OutboxServicer is the durable FIFO queue of named mutations.
type OutboxServicer interface {
	Enqueue(operationName string, arguments json.RawMessage) (*models.MutationQueueEntry, error)
	List() ([]models.MutationQueueEntry, error)
	Remove(id string) error
	Count() (int64, error)
}
