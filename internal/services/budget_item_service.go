package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/najeeb67/my-money-mat/internal/errors"
	"github.com/najeeb67/my-money-mat/internal/events"
	"github.com/najeeb67/my-money-mat/internal/logger"
	"github.com/najeeb67/my-money-mat/internal/models"
	"github.com/najeeb67/my-money-mat/internal/pagination"
)

// markSyncedChunk bounds the IN (...) list size per statement.
const markSyncedChunk = 500

// budgetItemService is the durable local store of budget items.
type budgetItemService struct {
	db        *gorm.DB
	publisher events.Publisher
	now       func() time.Time
}

// NewBudgetItemService creates a new BudgetItemServicer. Mutations publish
// the new unsynced count on publisher.
func NewBudgetItemService(db *gorm.DB, publisher events.Publisher) BudgetItemServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &budgetItemService{
		db:        db,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new unsynced item with fresh id and timestamps.
func (s *budgetItemService) Create(input models.BudgetItemInput) (*models.BudgetItem, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	item := &models.BudgetItem{
		Base: models.Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		Amount:      input.Amount,
		Kind:        input.Kind,
		OccurredAt:  input.OccurredAt.UTC(),
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.publishUnsyncedCount()
	return item, nil
}

// Get returns one item, including soft-deleted ones.
func (s *budgetItemService) Get(id string) (*models.BudgetItem, error) {
	var item models.BudgetItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// Update merges patch into the item, marks it unsynced and refreshes updated_at.
func (s *budgetItemService) Update(id string, patch models.BudgetItemPatch) (*models.BudgetItem, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var item models.BudgetItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrItemNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		patch.Apply(&item)
		if patch.Category != nil {
			item.Category = strings.TrimSpace(item.Category)
		}
		if patch.OccurredAt != nil {
			item.OccurredAt = item.OccurredAt.UTC()
		}
		item.Synced = false
		item.UpdatedAt = s.now()
		if item.UpdatedAt.Before(item.CreatedAt) {
			item.UpdatedAt = item.CreatedAt
		}

		if err := tx.Save(&item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishUnsyncedCount()
	return &item, nil
}

// SoftDelete marks the item deleted. It reports false when the id is unknown.
func (s *budgetItemService) SoftDelete(id string) (bool, error) {
	deleted := true
	if _, err := s.Update(id, models.BudgetItemPatch{Deleted: &deleted}); err != nil {
		if errors.Is(err, apperrors.ErrItemNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// HardDelete physically removes the row. Unknown ids are a no-op.
func (s *budgetItemService) HardDelete(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.BudgetItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.publishUnsyncedCount()
	return nil
}

// Replace writes item exactly as given, inserting it when absent. Conflict
// resolution uses it to store the resolved record with its own flags.
func (s *budgetItemService) Replace(item models.BudgetItem) error {
	if item.ID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "id is required")
	}
	if err := validateInput(models.BudgetItemInput{
		Category:   item.Category,
		Amount:     item.Amount,
		Kind:       item.Kind,
		OccurredAt: item.OccurredAt,
	}); err != nil {
		return err
	}

	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	item.OccurredAt = item.OccurredAt.UTC()
	if item.CreatedAt.After(item.UpdatedAt) {
		item.CreatedAt = item.UpdatedAt
	}

	if err := s.db.Save(&item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.publishUnsyncedCount()
	return nil
}

// ListActive returns non-deleted items, newest occurrence first.
func (s *budgetItemService) ListActive() ([]models.BudgetItem, error) {
	var items []models.BudgetItem
	if err := s.active().Order("occurred_at DESC").Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// ListActivePage is ListActive with offset pagination.
func (s *budgetItemService) ListActivePage(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetItem], error) {
	page.Defaults()

	var totalItems int64
	if err := s.active().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.BudgetItem
	if err := s.active().
		Order("occurred_at DESC").
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListUnsynced returns every unsynced item, deleted or not, in insertion order.
func (s *budgetItemService) ListUnsynced() ([]models.BudgetItem, error) {
	var items []models.BudgetItem
	if err := s.db.Where("synced = ?", false).Order("rowid ASC").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return items, nil
}

// CountUnsynced returns the number of items awaiting sync.
func (s *budgetItemService) CountUnsynced() (int64, error) {
	var count int64
	if err := s.db.Model(&models.BudgetItem{}).Where("synced = ?", false).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// MarkSynced records server acknowledgement of the pushed versions: deleted
// items are removed, the rest flip to synced. A row whose updated_at moved
// since it was pushed was edited mid-flight and stays unsynced for the next
// pass. Repeating the call is harmless.
func (s *budgetItemService) MarkSynced(pushed []models.BudgetItem) error {
	if len(pushed) == 0 {
		return nil
	}

	versions := make(map[string]time.Time, len(pushed))
	ids := make([]string, 0, len(pushed))
	for _, item := range pushed {
		if _, ok := versions[item.ID]; !ok {
			ids = append(ids, item.ID)
		}
		versions[item.ID] = item.UpdatedAt
	}

	var stale int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(ids); start += markSyncedChunk {
			end := start + markSyncedChunk
			if end > len(ids) {
				end = len(ids)
			}

			var current []models.BudgetItem
			if err := tx.Where("id IN ?", ids[start:end]).Find(&current).Error; err != nil {
				return err
			}

			var removed, acked []string
			for _, row := range current {
				if !row.UpdatedAt.Equal(versions[row.ID]) {
					stale++
					continue
				}
				if row.Deleted {
					removed = append(removed, row.ID)
				} else {
					acked = append(acked, row.ID)
				}
			}

			if len(removed) > 0 {
				if err := tx.Where("id IN ?", removed).Delete(&models.BudgetItem{}).Error; err != nil {
					return err
				}
			}
			if len(acked) > 0 {
				if err := tx.Model(&models.BudgetItem{}).
					Where("id IN ?", acked).
					Update("synced", true).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if stale > 0 {
		logger.Get().Debugw("items edited during sync left unsynced", "count", stale)
	}

	s.publishUnsyncedCount()
	return nil
}

// Summary aggregates income, expense and balance over active items.
func (s *budgetItemService) Summary() (*models.Summary, error) {
	items, err := s.ListActive()
	if err != nil {
		return nil, err
	}
	summary := models.Summarize(items)
	return &summary, nil
}

func (s *budgetItemService) active() *gorm.DB {
	return s.db.Model(&models.BudgetItem{}).Where("deleted = ?", false)
}

// publishUnsyncedCount is best-effort; a failed count is logged, never returned.
func (s *budgetItemService) publishUnsyncedCount() {
	count, err := s.CountUnsynced()
	if err != nil {
		logger.Get().Errorw("failed to count unsynced items", "error", err)
		return
	}
	s.publisher.Publish(events.UnsyncedCountChanged, map[string]int64{"count": count})
}

func validateInput(input models.BudgetItemInput) error {
	if strings.TrimSpace(input.Category) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if input.Amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !input.Kind.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'income' or 'expense'")
	}
	if input.OccurredAt.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "occurred_at is required")
	}
	return nil
}

func validatePatch(patch models.BudgetItemPatch) error {
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category must not be empty")
	}
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'income' or 'expense'")
	}
	if patch.OccurredAt != nil && patch.OccurredAt.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "occurred_at must not be empty")
	}
	return nil
}
