package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/najeeb67/my-money-mat/internal/pagination"
	"github.com/najeeb67/my-money-mat/internal/services"
	"github.com/najeeb67/my-money-mat/internal/syncer"
)

// MutationHandler handles named remote mutations and the outbox behind them.
type MutationHandler struct {
	outboxService services.OutboxServicer
	controller    syncer.Controller
}

// NewMutationHandler creates a new MutationHandler.
func NewMutationHandler(outboxService services.OutboxServicer, controller syncer.Controller) *MutationHandler {
	return &MutationHandler{outboxService: outboxService, controller: controller}
}

// ExecuteMutationRequest represents a named operation and its arguments.
type ExecuteMutationRequest struct {
	OperationName string          `json:"operation_name" binding:"required,operation_name" example:"create_expense"`
	Arguments     json.RawMessage `json:"arguments" swaggertype:"object"`
}

// ExecuteMutation runs a named operation now, or queues it when offline.
// @Summary     Execute a named mutation
// @Description Runs against the server when online; queued for replay when offline or unreachable
// @Tags        mutations
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ExecuteMutationRequest true "Operation"
// @Success     200 {object} syncer.MutationResult "Executed"
// @Success     202 {object} syncer.MutationResult "Queued"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown operation"
// @Failure     502 {object} ErrorResponse "Server rejected the operation"
// @Router      /mutations [post]
func (h *MutationHandler) ExecuteMutation(c *gin.Context) {
	var req ExecuteMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.controller.Execute(c.Request.Context(), req.OperationName, req.Arguments)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := http.StatusOK
	if result.Queued {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

// ListMutations handles listing the queued mutations in replay order.
// @Summary     List queued mutations
// @Tags        mutations
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[models.MutationQueueEntry] "Queued mutations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /mutations [get]
func (h *MutationHandler) ListMutations(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	entries, err := h.outboxService.List()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Slice(entries, page))
}

// DeleteMutation drops a queued mutation without replaying it.
// @Summary     Discard a queued mutation
// @Tags        mutations
// @Security    ApiKeyAuth
// @Param       id path string true "Entry ID"
// @Success     204 "Removed (or already gone)"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /mutations/{id} [delete]
func (h *MutationHandler) DeleteMutation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.outboxService.Remove(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ReplayMutations replays the outbox now.
// @Summary     Replay queued mutations
// @Tags        mutations
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} syncer.ReplayResult "Replay counts"
// @Failure     409 {object} ErrorResponse "Replay already running"
// @Failure     503 {object} ErrorResponse "Offline"
// @Router      /mutations/replay [post]
func (h *MutationHandler) ReplayMutations(c *gin.Context) {
	result := h.controller.ReplayOutbox(c.Request.Context())
	if result.Err != nil {
		respondWithError(c, result.Err)
		return
	}

	c.JSON(http.StatusOK, result)
}
