// Package syncer reconciles the local store with the remote finance API.
//
// An Orchestrator runs sync passes over unsynced budget items and replays the
// mutation outbox. At most one sync pass runs at a time; a pass that finds
// conflicting items pushes nothing and waits for ResolveConflicts.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/najeeb67/my-money-mat/internal/client"
	"github.com/najeeb67/my-money-mat/internal/conflict"
	apperrors "github.com/najeeb67/my-money-mat/internal/errors"
	"github.com/najeeb67/my-money-mat/internal/events"
	"github.com/najeeb67/my-money-mat/internal/logger"
	"github.com/najeeb67/my-money-mat/internal/models"
	"github.com/najeeb67/my-money-mat/internal/services"
)

// Remote is the subset of the finance API the orchestrator needs.
type Remote interface {
	Ping(ctx context.Context) error
	FetchItems(ctx context.Context, ids []string) (map[string]models.ServerBudgetItem, error)
	SyncItems(ctx context.Context, items []models.ServerBudgetItem) ([]string, error)
	Execute(ctx context.Context, operationName string, arguments json.RawMessage) (json.RawMessage, error)
}

// tokenInspector is implemented by remotes that can report token expiry.
type tokenInspector interface {
	TokenExpiresAt() (time.Time, bool)
}

// State is the orchestrator's position in a sync pass.
type State string

const (
	StateIdle               State = "idle"
	StateChecking           State = "checking"
	StateSyncing            State = "syncing"
	StateAwaitingResolution State = "awaiting_resolution"
)

// SyncResult reports one sync pass. A pass that stopped on conflicts has
// Success=false, Conflicts>0 and no Err.
type SyncResult struct {
	Success        bool          `json:"success"`
	Err            error         `json:"-"`
	Error          string        `json:"error,omitempty"`
	Pushed         int           `json:"pushed"`
	AdoptedDeletes int           `json:"adopted_deletes"`
	Conflicts      int           `json:"conflicts"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
}

// ReplayResult reports one outbox replay.
type ReplayResult struct {
	Err       error  `json:"-"`
	Error     string `json:"error,omitempty"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Remaining int64  `json:"remaining"`
}

// MutationResult reports how a named mutation was handled.
type MutationResult struct {
	Executed bool                       `json:"executed"`
	Queued   bool                       `json:"queued"`
	Entry    *models.MutationQueueEntry `json:"entry,omitempty"`
	Response json.RawMessage            `json:"response,omitempty"`
}

// Decision is a user's choice for one pending conflict.
type Decision struct {
	ItemID     string              `json:"item_id" binding:"required"`
	Resolution conflict.Resolution `json:"resolution" binding:"required,resolution"`
}

// Status is a snapshot of the sync state.
type Status struct {
	Online           bool       `json:"online"`
	Syncing          bool       `json:"syncing"`
	State            State      `json:"state"`
	LastSyncAt       *time.Time `json:"last_sync_at,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
	PendingConflicts int        `json:"pending_conflicts"`
	UnsyncedCount    int64      `json:"unsynced_count"`
	QueuedMutations  int64      `json:"queued_mutations"`
	TokenExpiresAt   *time.Time `json:"token_expires_at,omitempty"`
}

// Options tunes an Orchestrator.
type Options struct {
	// AutoResolve applies last-write-wins to conflicts instead of waiting
	// for ResolveConflicts.
	AutoResolve bool
}

// Orchestrator drives sync passes and outbox replay.
type Orchestrator struct {
	items     services.BudgetItemServicer
	outbox    services.OutboxServicer
	remote    Remote
	publisher events.Publisher
	opts      Options
	now       func() time.Time

	syncing   atomic.Bool
	replaying atomic.Bool
	online    atomic.Bool

	mu         sync.RWMutex
	state      State
	conflicts  []conflict.SyncConflict
	resolved   map[string]time.Time // item id -> updated_at written by a resolution
	lastSyncAt time.Time
	lastErr    string
}

// NewOrchestrator creates an orchestrator. It starts offline; call
// CheckConnectivity or SetOnline before syncing.
func NewOrchestrator(items services.BudgetItemServicer, outbox services.OutboxServicer, remote Remote, publisher events.Publisher, opts Options) *Orchestrator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Orchestrator{
		items:     items,
		outbox:    outbox,
		remote:    remote,
		publisher: publisher,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
		state:     StateIdle,
		resolved:  make(map[string]time.Time),
	}
}

// Online reports the last known connectivity.
func (o *Orchestrator) Online() bool {
	return o.online.Load()
}

// SetOnline records connectivity and reports whether it changed.
func (o *Orchestrator) SetOnline(online bool) bool {
	if o.online.Swap(online) == online {
		return false
	}
	logger.Get().Infow("connectivity changed", "online", online)
	o.publisher.Publish(events.OnlineStatusChanged, map[string]bool{"online": online})
	return true
}

// CheckConnectivity probes the server and reports whether the client just
// came back online.
func (o *Orchestrator) CheckConnectivity(ctx context.Context) bool {
	err := o.remote.Ping(ctx)
	if err != nil {
		logger.Get().Debugw("connectivity probe failed", "error", err)
	}
	online := err == nil
	return o.SetOnline(online) && online
}

// SyncAll runs a sync pass followed by an outbox replay.
func (o *Orchestrator) SyncAll(ctx context.Context) (SyncResult, ReplayResult) {
	syncResult := o.Sync(ctx)
	replayResult := o.ReplayOutbox(ctx)
	return syncResult, replayResult
}

// Sync runs one sync pass. It is refused with ErrOffline when offline and
// with ErrSyncInProgress when another pass is running.
func (o *Orchestrator) Sync(ctx context.Context) SyncResult {
	if !o.online.Load() {
		return failed(apperrors.ErrOffline, 0)
	}
	if !o.syncing.CompareAndSwap(false, true) {
		return failed(apperrors.ErrSyncInProgress, 0)
	}
	defer o.syncing.Store(false)

	return o.timedPass(ctx)
}

// timedPass runs a pass and publishes its result. The caller holds the
// syncing guard.
func (o *Orchestrator) timedPass(ctx context.Context) SyncResult {
	start := time.Now()
	result := o.runPass(ctx)
	result.Duration = time.Since(start)
	result.DurationMS = result.Duration.Milliseconds()

	o.finishPass(result)
	return result
}

func (o *Orchestrator) runPass(ctx context.Context) SyncResult {
	log := logger.Get()

	o.setState(StateChecking)
	unsynced, err := o.items.ListUnsynced()
	if err != nil {
		return failed(err, 0)
	}
	if len(unsynced) == 0 {
		o.setState(StateIdle)
		return SyncResult{Success: true}
	}

	o.setState(StateSyncing)
	safe, conflicts, adopted, err := o.partition(ctx, unsynced)
	if err != nil {
		return failed(err, 0)
	}

	if len(conflicts) > 0 && o.opts.AutoResolve {
		resolutions := make([]conflict.ResolvedConflict, 0, len(conflicts))
		for _, c := range conflicts {
			resolutions = append(resolutions, conflict.AutoResolve(c))
		}
		if _, err := o.applyResolutions(resolutions); err != nil {
			return failed(err, 0)
		}
		log.Infow("auto-resolved conflicts", "count", len(resolutions))

		unsynced, err = o.items.ListUnsynced()
		if err != nil {
			return failed(err, 0)
		}
		var more int
		safe, conflicts, more, err = o.partition(ctx, unsynced)
		if err != nil {
			return failed(err, 0)
		}
		adopted += more
	}

	if len(conflicts) > 0 {
		o.setConflicts(conflicts)
		log.Infow("sync pass stopped on conflicts", "conflicts", len(conflicts), "safe", len(safe))
		return SyncResult{Conflicts: len(conflicts), AdoptedDeletes: adopted}
	}
	o.setConflicts(nil)

	if len(safe) == 0 {
		o.setState(StateIdle)
		return SyncResult{Success: true, AdoptedDeletes: adopted}
	}

	payload := make([]models.ServerBudgetItem, 0, len(safe))
	for _, item := range safe {
		payload = append(payload, item.ToServer())
	}

	ackIDs, err := o.remote.SyncItems(ctx, payload)
	if err != nil {
		if client.IsNetworkError(err) {
			o.SetOnline(false)
			return failed(apperrors.Wrap(apperrors.ErrNetwork, err), adopted)
		}
		return failed(apperrors.Wrap(apperrors.ErrRemoteRejected, err), adopted)
	}
	acked := make(map[string]bool, len(ackIDs))
	for _, id := range ackIDs {
		acked[id] = true
	}
	pushed := make([]models.BudgetItem, 0, len(ackIDs))
	for _, item := range safe {
		if acked[item.ID] {
			pushed = append(pushed, item)
		}
	}
	if err := o.items.MarkSynced(pushed); err != nil {
		return failed(err, adopted)
	}
	o.forgetResolved(ackIDs)

	o.setState(StateIdle)
	log.Infow("sync pass completed", "pushed", len(ackIDs), "candidates", len(safe), "adopted_deletes", adopted)
	return SyncResult{Success: true, Pushed: len(ackIDs), AdoptedDeletes: adopted}
}

// partition splits unsynced items into safe and conflicting ones. Items the
// server deleted more recently than the local edit are hard-deleted locally
// and counted as adopted.
func (o *Orchestrator) partition(ctx context.Context, unsynced []models.BudgetItem) (safe []models.BudgetItem, conflicts []conflict.SyncConflict, adopted int, err error) {
	ids := make([]string, 0, len(unsynced))
	for _, item := range unsynced {
		ids = append(ids, item.ID)
	}

	serverItems, fetchErr := o.remote.FetchItems(ctx, ids)
	if fetchErr != nil {
		logger.Get().Warnw("fetching server copies failed, pushing optimistically", "error", fetchErr)
		serverItems = nil
	}

	for _, item := range unsynced {
		server, ok := serverItems[item.ID]
		if !ok || o.isResolved(item) {
			safe = append(safe, item)
			continue
		}

		if c := conflict.Detect(item, server); c != nil {
			conflicts = append(conflicts, *c)
			continue
		}

		if !item.Deleted && server.Deleted {
			if err := o.items.HardDelete(item.ID); err != nil {
				return nil, nil, 0, err
			}
			adopted++
			continue
		}
		safe = append(safe, item)
	}
	return safe, conflicts, adopted, nil
}

// ReplayOutbox executes every queued mutation in order. Failures are counted
// and left queued; they never stop the remaining entries.
func (o *Orchestrator) ReplayOutbox(ctx context.Context) ReplayResult {
	if !o.online.Load() {
		return ReplayResult{Err: apperrors.ErrOffline, Error: apperrors.ErrOffline.Error()}
	}
	if !o.replaying.CompareAndSwap(false, true) {
		return ReplayResult{Err: apperrors.ErrSyncInProgress, Error: apperrors.ErrSyncInProgress.Error()}
	}
	defer o.replaying.Store(false)

	log := logger.Get()
	entries, err := o.outbox.List()
	if err != nil {
		return ReplayResult{Err: err, Error: err.Error()}
	}

	var result ReplayResult
	for _, entry := range entries {
		if ctx.Err() != nil {
			result.Failed += len(entries) - result.Succeeded - result.Failed
			break
		}
		if _, err := o.remote.Execute(ctx, entry.OperationName, entry.Arguments); err != nil {
			result.Failed++
			log.Warnw("replaying mutation failed", "id", entry.ID, "operation", entry.OperationName, "error", err)
			continue
		}
		if err := o.outbox.Remove(entry.ID); err != nil {
			result.Failed++
			log.Errorw("removing replayed mutation failed", "id", entry.ID, "error", err)
			continue
		}
		result.Succeeded++
	}

	remaining, err := o.outbox.Count()
	if err != nil {
		log.Errorw("counting queued mutations failed", "error", err)
	}
	result.Remaining = remaining

	if len(entries) > 0 {
		log.Infow("outbox replayed", "succeeded", result.Succeeded, "failed", result.Failed, "remaining", remaining)
	}
	o.publisher.Publish(events.OutboxReplayed, result)
	return result
}

// Execute runs a named mutation now, or queues it when offline or when the
// server cannot be reached. A server rejection is returned as an error and
// nothing is queued.
func (o *Orchestrator) Execute(ctx context.Context, operationName string, arguments json.RawMessage) (MutationResult, error) {
	if _, err := client.BuildOperation(operationName, arguments); err != nil {
		return MutationResult{}, err
	}

	if o.online.Load() {
		resp, err := o.remote.Execute(ctx, operationName, arguments)
		if err == nil {
			return MutationResult{Executed: true, Response: resp}, nil
		}
		if !client.IsNetworkError(err) {
			return MutationResult{}, apperrors.Wrap(apperrors.ErrRemoteRejected, err)
		}
		logger.Get().Warnw("mutation failed on network, queueing", "operation", operationName, "error", err)
		o.SetOnline(false)
	}

	entry, err := o.outbox.Enqueue(operationName, arguments)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Queued: true, Entry: entry}, nil
}

// ResolveConflicts applies decisions to pending conflicts and immediately
// runs a new sync pass under the same guard. Conflicts left pending stay
// listed. Decisions are checked before any is written.
func (o *Orchestrator) ResolveConflicts(ctx context.Context, decisions []Decision) (SyncResult, error) {
	if !o.syncing.CompareAndSwap(false, true) {
		return SyncResult{}, apperrors.ErrSyncInProgress
	}
	defer o.syncing.Store(false)

	resolutions, remaining, err := o.match(decisions)
	if err != nil {
		return SyncResult{}, err
	}
	if err := o.checkResolutions(resolutions); err != nil {
		return SyncResult{}, err
	}
	if applied, err := o.applyResolutions(resolutions); err != nil {
		o.setConflicts(withoutItems(o.Conflicts(), applied))
		return SyncResult{}, err
	}
	o.setConflicts(remaining)

	if !o.online.Load() {
		return failed(apperrors.ErrOffline, 0), nil
	}
	return o.timedPass(ctx), nil
}

// AutoResolveAll resolves every pending conflict by last-write-wins.
func (o *Orchestrator) AutoResolveAll(ctx context.Context) (SyncResult, error) {
	pending := o.Conflicts()
	if len(pending) == 0 {
		return SyncResult{}, apperrors.ErrNoPendingConflicts
	}

	decisions := make([]Decision, 0, len(pending))
	for _, c := range pending {
		decisions = append(decisions, Decision{ItemID: c.ItemID, Resolution: conflict.AutoResolve(c).Resolution})
	}
	return o.ResolveConflicts(ctx, decisions)
}

// match pairs decisions with pending conflicts. Undecided and pending
// conflicts are returned as remaining.
func (o *Orchestrator) match(decisions []Decision) ([]conflict.ResolvedConflict, []conflict.SyncConflict, error) {
	pending := o.Conflicts()
	if len(pending) == 0 {
		return nil, nil, apperrors.ErrNoPendingConflicts
	}

	byID := make(map[string]conflict.SyncConflict, len(pending))
	for _, c := range pending {
		byID[c.ItemID] = c
	}

	decided := make(map[string]bool, len(decisions))
	resolutions := make([]conflict.ResolvedConflict, 0, len(decisions))
	for _, d := range decisions {
		c, ok := byID[d.ItemID]
		if !ok {
			return nil, nil, apperrors.WithMessage(apperrors.ErrConflictNotFound, "no pending conflict for item "+d.ItemID)
		}
		if !d.Resolution.Valid() {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unknown resolution %q", d.Resolution))
		}
		if d.Resolution == conflict.ResolutionPending {
			continue
		}
		decided[d.ItemID] = true
		resolutions = append(resolutions, conflict.ResolvedConflict{SyncConflict: c, Resolution: d.Resolution})
	}

	var remaining []conflict.SyncConflict
	for _, c := range pending {
		if !decided[c.ItemID] {
			remaining = append(remaining, c)
		}
	}
	return resolutions, remaining, nil
}

// checkResolutions builds every resolved record without writing it.
func (o *Orchestrator) checkResolutions(resolutions []conflict.ResolvedConflict) error {
	now := o.now()
	for _, r := range resolutions {
		if r.Resolution == conflict.ResolutionPending {
			continue
		}
		if r.Resolution == conflict.ResolutionKeepServer && r.Server.Deleted {
			continue
		}
		if _, err := conflict.ApplyResolution(r, now); err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("resolving item %s: %v", r.ItemID, err))
		}
	}
	return nil
}

// applyResolutions writes each resolved record to the local store and
// returns the ids written before any failure.
func (o *Orchestrator) applyResolutions(resolutions []conflict.ResolvedConflict) ([]string, error) {
	now := o.now()
	applied := make([]string, 0, len(resolutions))
	for _, r := range resolutions {
		if r.Resolution == conflict.ResolutionPending {
			continue
		}

		if r.Resolution == conflict.ResolutionKeepServer && r.Server.Deleted {
			if err := o.items.HardDelete(r.ItemID); err != nil {
				return applied, err
			}
			o.forgetResolved([]string{r.ItemID})
			applied = append(applied, r.ItemID)
			continue
		}

		item, err := conflict.ApplyResolution(r, now)
		if err != nil {
			return applied, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("resolving item %s: %v", r.ItemID, err))
		}
		if err := o.items.Replace(item); err != nil {
			return applied, err
		}
		if item.Synced {
			o.forgetResolved([]string{item.ID})
		} else {
			o.markResolved(item.ID, item.UpdatedAt)
		}
		applied = append(applied, item.ID)
	}
	return applied, nil
}

// withoutItems drops conflicts for the given item ids.
func withoutItems(conflicts []conflict.SyncConflict, ids []string) []conflict.SyncConflict {
	if len(ids) == 0 {
		return conflicts
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []conflict.SyncConflict
	for _, c := range conflicts {
		if !drop[c.ItemID] {
			kept = append(kept, c)
		}
	}
	return kept
}

// Conflicts returns a copy of the pending conflicts.
func (o *Orchestrator) Conflicts() []conflict.SyncConflict {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]conflict.SyncConflict, len(o.conflicts))
	copy(out, o.conflicts)
	return out
}

// Status returns a snapshot of the sync state.
func (o *Orchestrator) Status() Status {
	o.mu.RLock()
	status := Status{
		Online:           o.online.Load(),
		Syncing:          o.syncing.Load(),
		State:            o.state,
		LastError:        o.lastErr,
		PendingConflicts: len(o.conflicts),
	}
	if !o.lastSyncAt.IsZero() {
		t := o.lastSyncAt
		status.LastSyncAt = &t
	}
	o.mu.RUnlock()

	log := logger.Get()
	if n, err := o.items.CountUnsynced(); err != nil {
		log.Errorw("counting unsynced items failed", "error", err)
	} else {
		status.UnsyncedCount = n
	}
	if n, err := o.outbox.Count(); err != nil {
		log.Errorw("counting queued mutations failed", "error", err)
	} else {
		status.QueuedMutations = n
	}
	if ti, ok := o.remote.(tokenInspector); ok {
		if exp, ok := ti.TokenExpiresAt(); ok {
			status.TokenExpiresAt = &exp
		}
	}
	return status
}

func (o *Orchestrator) finishPass(result SyncResult) {
	o.mu.Lock()
	switch {
	case result.Success:
		o.lastSyncAt = o.now()
		o.lastErr = ""
	case result.Err != nil:
		o.lastErr = result.Err.Error()
		if o.state != StateAwaitingResolution {
			o.state = StateIdle
		}
	}
	o.mu.Unlock()

	if result.Err != nil {
		logger.Get().Warnw("sync pass failed", "error", result.Err)
	}
	o.publisher.Publish(events.SyncPassCompleted, result)
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

// setConflicts replaces the pending list and moves to AwaitingResolution
// when it is non-empty.
func (o *Orchestrator) setConflicts(conflicts []conflict.SyncConflict) {
	o.mu.Lock()
	changed := len(o.conflicts) != 0 || len(conflicts) != 0
	o.conflicts = conflicts
	if len(conflicts) > 0 {
		o.state = StateAwaitingResolution
	} else if o.state == StateAwaitingResolution {
		o.state = StateIdle
	}
	o.mu.Unlock()

	if changed {
		o.publisher.Publish(events.ConflictsUpdated, map[string]any{
			"count":     len(conflicts),
			"conflicts": conflicts,
		})
	}
}

func (o *Orchestrator) isResolved(item models.BudgetItem) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	at, ok := o.resolved[item.ID]
	return ok && at.Equal(item.UpdatedAt)
}

func (o *Orchestrator) markResolved(id string, updatedAt time.Time) {
	o.mu.Lock()
	o.resolved[id] = updatedAt
	o.mu.Unlock()
}

func (o *Orchestrator) forgetResolved(ids []string) {
	o.mu.Lock()
	for _, id := range ids {
		delete(o.resolved, id)
	}
	o.mu.Unlock()
}

// failed builds a refused or aborted result.
func failed(err error, adopted int) SyncResult {
	return SyncResult{Err: err, Error: err.Error(), AdoptedDeletes: adopted}
}

// IsRefusal reports whether err means the pass never started.
func IsRefusal(err error) bool {
	return errors.Is(err, apperrors.ErrOffline) || errors.Is(err, apperrors.ErrSyncInProgress)
}
