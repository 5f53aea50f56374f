package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/najeeb67/my-money-mat/internal/errors"
	"github.com/najeeb67/my-money-mat/internal/models"
)

// outboxService is the durable FIFO of mutations captured while offline.
type outboxService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOutboxService creates a new OutboxServicer.
func NewOutboxService(db *gorm.DB) OutboxServicer {
	return &outboxService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue appends a mutation. Empty arguments are stored as an empty object.
func (s *outboxService) Enqueue(operationName string, arguments json.RawMessage) (*models.MutationQueueEntry, error) {
	operationName = strings.TrimSpace(operationName)
	if operationName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "operation_name is required")
	}

	args := bytes.TrimSpace(arguments)
	if len(args) == 0 || bytes.Equal(args, []byte("null")) {
		args = []byte("{}")
	}
	if !json.Valid(args) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "arguments must be valid JSON")
	}

	entry := &models.MutationQueueEntry{
		OperationName: operationName,
		Arguments:     json.RawMessage(args),
		CreatedAt:     s.now(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// List returns all queued mutations, oldest first. Ties on created_at fall
// back to insertion order.
func (s *outboxService) List() ([]models.MutationQueueEntry, error) {
	var entries []models.MutationQueueEntry
	if err := s.db.Order("created_at ASC").Order("rowid ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// Remove deletes one entry. Unknown ids are a no-op.
func (s *outboxService) Remove(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.MutationQueueEntry{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Count returns the number of queued mutations.
func (s *outboxService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&models.MutationQueueEntry{}).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
