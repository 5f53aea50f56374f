package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/najeeb67/my-money-mat/internal/syncer"
)

// SyncHandler exposes sync control: trigger, status and conflict resolution.
type SyncHandler struct {
	controller syncer.Controller
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(controller syncer.Controller) *SyncHandler {
	return &SyncHandler{controller: controller}
}

// ResolveConflictsRequest carries one decision per pending conflict.
type ResolveConflictsRequest struct {
	Resolutions []syncer.Decision `json:"resolutions" binding:"required,min=1,dive"`
}

// SyncResponse reports a sync pass and the outbox replay that followed it.
type SyncResponse struct {
	Sync   syncer.SyncResult    `json:"sync"`
	Replay *syncer.ReplayResult `json:"replay,omitempty"`
}

// TriggerSync runs a sync pass followed by an outbox replay.
// @Summary     Sync now
// @Description Push unsynced items and replay queued mutations. A pass that finds conflicts pushes nothing.
// @Tags        sync
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} SyncResponse "Pass finished (check sync.success and sync.conflicts)"
// @Failure     409 {object} ErrorResponse "A sync is already in progress"
// @Failure     503 {object} ErrorResponse "Offline"
// @Router      /sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	syncResult, replayResult := h.controller.SyncAll(c.Request.Context())
	if syncer.IsRefusal(syncResult.Err) {
		respondWithError(c, syncResult.Err)
		return
	}

	resp := SyncResponse{Sync: syncResult}
	if replayResult.Err == nil {
		resp.Replay = &replayResult
	}
	c.JSON(http.StatusOK, resp)
}

// GetStatus returns the current sync state.
// @Summary     Sync status
// @Tags        sync
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} syncer.Status "Status"
// @Router      /sync/status [get]
func (h *SyncHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Status())
}

// ListConflicts returns the conflicts awaiting a decision.
// @Summary     Pending conflicts
// @Tags        sync
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]interface{} "Conflicts"
// @Router      /sync/conflicts [get]
func (h *SyncHandler) ListConflicts(c *gin.Context) {
	conflicts := h.controller.Conflicts()
	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts, "count": len(conflicts)})
}

// ResolveConflicts applies the given decisions and re-runs sync.
// @Summary     Resolve conflicts
// @Tags        sync
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ResolveConflictsRequest true "Decisions"
// @Success     200 {object} syncer.SyncResult "Result of the re-triggered pass"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "No pending conflict for an item"
// @Failure     409 {object} ErrorResponse "Nothing to resolve or a sync is running"
// @Router      /sync/conflicts/resolve [post]
func (h *SyncHandler) ResolveConflicts(c *gin.Context) {
	var req ResolveConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.controller.ResolveConflicts(c.Request.Context(), req.Resolutions)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AutoResolveConflicts resolves every pending conflict by last-write-wins.
// @Summary     Auto-resolve all conflicts
// @Tags        sync
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} syncer.SyncResult "Result of the re-triggered pass"
// @Failure     409 {object} ErrorResponse "Nothing to resolve or a sync is running"
// @Router      /sync/conflicts/auto-resolve [post]
func (h *SyncHandler) AutoResolveConflicts(c *gin.Context) {
	result, err := h.controller.AutoResolveAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
