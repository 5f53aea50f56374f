// Package conflict classifies and resolves divergence between a local budget
// item and its server counterpart. Every function here is pure: callers own
// persistence and the clock.
package conflict

import (
	"fmt"
	"time"

	"github.com/najeeb67/my-money-mat/internal/models"
)

// Tolerance is the clock skew under which two versions count as the same state.
const Tolerance = 1000 * time.Millisecond

// Type classifies a conflict.
type Type string

const (
	// TypeUpdate is part of the wire vocabulary but never produced by Detect.
	TypeUpdate       Type = "update"
	TypeDeleteLocal  Type = "delete_local"
	TypeDeleteServer Type = "delete_server"
	TypeBothModified Type = "both_modified"
)

// Resolution is the strategy chosen for one conflict.
type Resolution string

const (
	ResolutionKeepLocal  Resolution = "keep_local"
	ResolutionKeepServer Resolution = "keep_server"
	ResolutionMerge      Resolution = "merge"
	ResolutionPending    Resolution = "pending"
)

// Valid reports whether r is a known resolution.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionKeepLocal, ResolutionKeepServer, ResolutionMerge, ResolutionPending:
		return true
	}
	return false
}

// SyncConflict pairs the two diverged versions of one item.
type SyncConflict struct {
	ItemID string                  `json:"item_id"`
	Type   Type                    `json:"type"`
	Local  models.BudgetItem       `json:"local"`
	Server models.ServerBudgetItem `json:"server"`
}

// ResolvedConflict is a conflict with a chosen resolution. Merged is only
// meaningful for ResolutionMerge and is computed on demand when nil.
type ResolvedConflict struct {
	SyncConflict
	Resolution Resolution         `json:"resolution"`
	Merged     *models.BudgetItem `json:"merged,omitempty"`
}

// ServerTime parses the server's updated_at. An unparseable value yields the
// zero time, so the local version always looks newer.
func ServerTime(server models.ServerBudgetItem) time.Time {
	t, err := models.ParseTimestamp(server.UpdatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Detect compares local against server and returns nil when the pair can be
// synced without a decision.
func Detect(local models.BudgetItem, server models.ServerBudgetItem) *SyncConflict {
	l := local.UpdatedAt
	s := ServerTime(server)

	var kind Type
	switch {
	case local.Deleted && !server.Deleted:
		if !s.After(l) {
			return nil
		}
		kind = TypeDeleteLocal
	case !local.Deleted && server.Deleted:
		if !l.After(s) {
			return nil
		}
		kind = TypeDeleteServer
	default:
		diff := l.Sub(s)
		if diff < 0 {
			diff = -diff
		}
		if diff <= Tolerance {
			return nil
		}
		kind = TypeBothModified
	}

	return &SyncConflict{
		ItemID: local.ID,
		Type:   kind,
		Local:  local,
		Server: server,
	}
}

// localIsNewer is the last-write-wins comparison; ties go to local.
func localIsNewer(local models.BudgetItem, server models.ServerBudgetItem) bool {
	return !local.UpdatedAt.Before(ServerTime(server))
}

// AutoResolve applies last-write-wins.
func AutoResolve(c SyncConflict) ResolvedConflict {
	resolution := ResolutionKeepServer
	if localIsNewer(c.Local, c.Server) {
		resolution = ResolutionKeepLocal
	}
	return ResolvedConflict{SyncConflict: c, Resolution: resolution}
}

// MergeItems takes the whole record from the newer side. The result is
// unsynced and stamped now so it is pushed on the next pass.
func MergeItems(local models.BudgetItem, server models.ServerBudgetItem, now time.Time) (models.BudgetItem, error) {
	merged := local
	if !localIsNewer(local, server) {
		remote, err := server.ToLocal()
		if err != nil {
			return models.BudgetItem{}, err
		}
		merged = remote
	}

	merged.ID = local.ID
	merged.Synced = false
	merged.UpdatedAt = now.UTC()
	if merged.CreatedAt.After(merged.UpdatedAt) {
		merged.CreatedAt = merged.UpdatedAt
	}
	return merged, nil
}

// ApplyResolution returns the record the local store should hold afterwards.
func ApplyResolution(r ResolvedConflict, now time.Time) (models.BudgetItem, error) {
	switch r.Resolution {
	case ResolutionKeepLocal:
		item := r.Local
		item.Synced = false
		return item, nil
	case ResolutionKeepServer:
		return r.Server.ToLocal()
	case ResolutionMerge:
		if r.Merged != nil {
			return *r.Merged, nil
		}
		return MergeItems(r.Local, r.Server, now)
	case ResolutionPending:
		return r.Local, nil
	default:
		return models.BudgetItem{}, fmt.Errorf("unknown resolution %q", r.Resolution)
	}
}
