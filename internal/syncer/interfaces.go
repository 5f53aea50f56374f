package syncer

import (
	"context"
	"encoding/json"

	"github.com/najeeb67/my-money-mat/internal/conflict"
)

// Controller is the sync control surface exposed to the local API and CLI.
type Controller interface {
	Sync(ctx context.Context) SyncResult
	SyncAll(ctx context.Context) (SyncResult, ReplayResult)
	ReplayOutbox(ctx context.Context) ReplayResult
	Execute(ctx context.Context, operationName string, arguments json.RawMessage) (MutationResult, error)
	ResolveConflicts(ctx context.Context, decisions []Decision) (SyncResult, error)
	AutoResolveAll(ctx context.Context) (SyncResult, error)
	Conflicts() []conflict.SyncConflict
	Status() Status
}

var _ Controller = (*Orchestrator)(nil)
