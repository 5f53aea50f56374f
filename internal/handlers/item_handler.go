package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/najeeb67/my-money-mat/internal/errors"
	"github.com/najeeb67/my-money-mat/internal/models"
	"github.com/najeeb67/my-money-mat/internal/pagination"
	"github.com/najeeb67/my-money-mat/internal/services"
)

// ItemHandler handles budget item requests. Every write lands in the local
// store first and succeeds without a connection.
type ItemHandler struct {
	itemService services.BudgetItemServicer
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService services.BudgetItemServicer) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// CreateItemRequest represents the request payload for creating a budget item.
type CreateItemRequest struct {
	Category    string          `json:"category" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"gte=0" swaggertype:"string" example:"42.50"`
	Kind        models.ItemKind `json:"kind" binding:"required,item_kind"`
	OccurredAt  time.Time       `json:"occurred_at" binding:"required"`
}

// UpdateItemRequest represents the request payload for updating a budget item.
type UpdateItemRequest struct {
	Category    *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gte=0" swaggertype:"string" example:"42.50"`
	Kind        *models.ItemKind `json:"kind" binding:"omitempty,item_kind"`
	OccurredAt  *time.Time       `json:"occurred_at"`
}

// CreateItem handles the creation of a new budget item.
// @Summary     Create a budget item
// @Description Store a new income or expense locally; it is pushed on the next sync
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body CreateItemRequest true "Item details"
// @Success     201 {object} models.BudgetItem "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.itemService.Create(models.BudgetItemInput{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// ListItems handles listing active budget items.
// @Summary     List budget items
// @Description Paginated list of active items, newest occurrence first
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[models.BudgetItem] "Paginated items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.itemService.ListActivePage(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetItem handles fetching one budget item.
// @Summary     Get a budget item
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} models.BudgetItem "Item"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.itemService.Get(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateItem handles a partial update of a budget item.
// @Summary     Update a budget item
// @Description Apply a partial update; the item becomes unsynced
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string            true "Item ID"
// @Param       request body UpdateItemRequest true "Fields to change"
// @Success     200 {object} models.BudgetItem "Item updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.itemService.Update(id, models.BudgetItemPatch{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
		OccurredAt:  req.OccurredAt,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles soft-deleting a budget item.
// @Summary     Delete a budget item
// @Description Soft-delete; the row is removed once the server acknowledges it
// @Tags        items
// @Security    ApiKeyAuth
// @Param       id path string true "Item ID"
// @Success     204 "Item deleted"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	found, err := h.itemService.SoftDelete(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !found {
		respondWithError(c, apperrors.ErrItemNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary handles the income/expense aggregate.
// @Summary     Get item summary
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} models.Summary "Summary"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/summary [get]
func (h *ItemHandler) GetSummary(c *gin.Context) {
	summary, err := h.itemService.Summary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetUnsyncedCount handles the pending-sync counter.
// @Summary     Count unsynced items
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]int64 "Unsynced count"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /items/unsynced/count [get]
func (h *ItemHandler) GetUnsyncedCount(c *gin.Context) {
	count, err := h.itemService.CountUnsynced()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
