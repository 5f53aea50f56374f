package conflict

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/najeeb67/my-money-mat/internal/models"
)

var baseTime = time.Date(2024, 4, 10, 8, 30, 0, 0, time.UTC)

func localItem(updatedAt time.Time, amount string, deleted bool) models.BudgetItem {
	return models.BudgetItem{
		Base: models.Base{
			ID:        "item-1",
			CreatedAt: baseTime.Add(-time.Hour),
			UpdatedAt: updatedAt,
		},
		Category:    "Groceries",
		Description: "local",
		Amount:      decimal.RequireFromString(amount),
		Kind:        models.ItemKindExpense,
		OccurredAt:  baseTime.Truncate(24 * time.Hour),
		Deleted:     deleted,
	}
}

func serverItem(updatedAt time.Time, amount string, deleted bool) models.ServerBudgetItem {
	return models.ServerBudgetItem{
		ID:          "item-1",
		Category:    "Food",
		Description: "server",
		Amount:      decimal.RequireFromString(amount),
		Kind:        models.ItemKindExpense,
		OccurredAt:  models.FormatTimestamp(baseTime.Truncate(24 * time.Hour)),
		UpdatedAt:   models.FormatTimestamp(updatedAt),
		CreatedAt:   models.FormatTimestamp(baseTime.Add(-time.Hour)),
		Deleted:     deleted,
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		local  models.BudgetItem
		server models.ServerBudgetItem
		want   Type
	}{
		{
			name:   "matching_timestamps",
			local:  localItem(baseTime, "100", false),
			server: serverItem(baseTime, "100", false),
		},
		{
			name:   "within_tolerance",
			local:  localItem(baseTime, "100", false),
			server: serverItem(baseTime.Add(999*time.Millisecond), "200", false),
		},
		{
			name:   "exactly_tolerance",
			local:  localItem(baseTime.Add(Tolerance), "100", false),
			server: serverItem(baseTime, "200", false),
		},
		{
			name:   "divergent_edits",
			local:  localItem(baseTime, "100", false),
			server: serverItem(baseTime.Add(5*time.Second), "200", false),
			want:   TypeBothModified,
		},
		{
			name:   "both_deleted_divergent",
			local:  localItem(baseTime.Add(3*time.Second), "100", true),
			server: serverItem(baseTime, "100", true),
			want:   TypeBothModified,
		},
		{
			name:   "local_delete_newer_than_server_edit",
			local:  localItem(baseTime.Add(10*time.Second), "100", true),
			server: serverItem(baseTime, "200", false),
		},
		{
			name:   "local_delete_older_than_server_edit",
			local:  localItem(baseTime, "100", true),
			server: serverItem(baseTime.Add(10*time.Second), "200", false),
			want:   TypeDeleteLocal,
		},
		{
			name:   "local_delete_same_time",
			local:  localItem(baseTime, "100", true),
			server: serverItem(baseTime, "200", false),
		},
		{
			name:   "server_delete_newer",
			local:  localItem(baseTime, "100", false),
			server: serverItem(baseTime.Add(10*time.Second), "100", true),
		},
		{
			name:   "local_edit_after_server_delete",
			local:  localItem(baseTime.Add(10*time.Second), "150", false),
			server: serverItem(baseTime, "100", true),
			want:   TypeDeleteServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.local, tt.server)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected no conflict, got %s", got.Type)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s conflict, got none", tt.want)
			}
			if got.Type != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Type)
			}
			if got.ItemID != tt.local.ID {
				t.Errorf("expected item id %s, got %s", tt.local.ID, got.ItemID)
			}
		})
	}
}

func TestDetect_UnparseableServerTimestamp(t *testing.T) {
	server := serverItem(baseTime, "100", false)
	server.UpdatedAt = "yesterday"

	got := Detect(localItem(baseTime, "100", false), server)
	if got == nil || got.Type != TypeBothModified {
		t.Fatalf("expected both_modified against zero server time, got %+v", got)
	}
	if r := AutoResolve(*got); r.Resolution != ResolutionKeepLocal {
		t.Errorf("expected keep_local, got %s", r.Resolution)
	}
}

func TestAutoResolve(t *testing.T) {
	t.Run("server_newer", func(t *testing.T) {
		c := Detect(localItem(baseTime, "100", false), serverItem(baseTime.Add(5*time.Second), "200", false))
		if c == nil {
			t.Fatal("expected conflict")
		}
		if r := AutoResolve(*c); r.Resolution != ResolutionKeepServer {
			t.Errorf("expected keep_server, got %s", r.Resolution)
		}
	})

	t.Run("local_newer", func(t *testing.T) {
		c := Detect(localItem(baseTime.Add(5*time.Second), "100", false), serverItem(baseTime, "200", false))
		if c == nil {
			t.Fatal("expected conflict")
		}
		if r := AutoResolve(*c); r.Resolution != ResolutionKeepLocal {
			t.Errorf("expected keep_local, got %s", r.Resolution)
		}
	})

	t.Run("tie_goes_to_local", func(t *testing.T) {
		c := SyncConflict{
			ItemID: "item-1",
			Type:   TypeBothModified,
			Local:  localItem(baseTime, "100", false),
			Server: serverItem(baseTime, "200", false),
		}
		if r := AutoResolve(c); r.Resolution != ResolutionKeepLocal {
			t.Errorf("expected keep_local, got %s", r.Resolution)
		}
	})
}

func TestMergeItems(t *testing.T) {
	now := baseTime.Add(time.Minute)

	t.Run("server_newer_takes_whole_server_record", func(t *testing.T) {
		merged, err := MergeItems(localItem(baseTime, "100", false), serverItem(baseTime.Add(5*time.Second), "200.55", false), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !merged.Amount.Equal(decimal.RequireFromString("200.55")) {
			t.Errorf("expected server amount, got %s", merged.Amount)
		}
		if merged.Category != "Food" || merged.Description != "server" {
			t.Errorf("expected every field from server, got %q / %q", merged.Category, merged.Description)
		}
		if merged.Synced {
			t.Error("expected merged item to be unsynced")
		}
		if !merged.UpdatedAt.Equal(now) {
			t.Errorf("expected updated_at %v, got %v", now, merged.UpdatedAt)
		}
	})

	t.Run("local_newer_takes_whole_local_record", func(t *testing.T) {
		merged, err := MergeItems(localItem(baseTime.Add(5*time.Second), "100", false), serverItem(baseTime, "200", false), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !merged.Amount.Equal(decimal.RequireFromString("100")) || merged.Category != "Groceries" {
			t.Errorf("expected local fields, got %+v", merged)
		}
		if merged.Synced || !merged.UpdatedAt.Equal(now) {
			t.Errorf("expected unsynced item stamped now, got synced=%v updated_at=%v", merged.Synced, merged.UpdatedAt)
		}
	})

	t.Run("bad_server_record", func(t *testing.T) {
		server := serverItem(baseTime.Add(5*time.Second), "200", false)
		server.OccurredAt = "not a date"
		if _, err := MergeItems(localItem(baseTime, "100", false), server, now); err == nil {
			t.Error("expected error for unparseable server record")
		}
	})
}

func TestApplyResolution(t *testing.T) {
	now := baseTime.Add(time.Minute)
	c := SyncConflict{
		ItemID: "item-1",
		Type:   TypeBothModified,
		Local:  localItem(baseTime, "100", false),
		Server: serverItem(baseTime.Add(5*time.Second), "200", false),
	}
	c.Local.Synced = true

	t.Run("keep_local_forces_unsynced", func(t *testing.T) {
		item, err := ApplyResolution(ResolvedConflict{SyncConflict: c, Resolution: ResolutionKeepLocal}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Synced {
			t.Error("expected keep_local result to be unsynced")
		}
		if !item.UpdatedAt.Equal(c.Local.UpdatedAt) || !item.Amount.Equal(c.Local.Amount) {
			t.Errorf("expected local record otherwise unchanged, got %+v", item)
		}
	})

	t.Run("keep_server_is_synced", func(t *testing.T) {
		item, err := ApplyResolution(ResolvedConflict{SyncConflict: c, Resolution: ResolutionKeepServer}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !item.Synced {
			t.Error("expected keep_server result to be synced")
		}
		if !item.Amount.Equal(decimal.RequireFromString("200")) {
			t.Errorf("expected server amount, got %s", item.Amount)
		}
	})

	t.Run("merge_uses_precomputed", func(t *testing.T) {
		pre := c.Local
		pre.Description = "precomputed"
		item, err := ApplyResolution(ResolvedConflict{SyncConflict: c, Resolution: ResolutionMerge, Merged: &pre}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Description != "precomputed" {
			t.Errorf("expected precomputed merge, got %q", item.Description)
		}
	})

	t.Run("merge_computes_when_missing", func(t *testing.T) {
		item, err := ApplyResolution(ResolvedConflict{SyncConflict: c, Resolution: ResolutionMerge}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Synced || !item.UpdatedAt.Equal(now) {
			t.Errorf("expected fresh unsynced merge, got %+v", item)
		}
	})

	t.Run("pending_returns_local", func(t *testing.T) {
		item, err := ApplyResolution(ResolvedConflict{SyncConflict: c, Resolution: ResolutionPending}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !item.Synced {
			t.Error("expected pending to leave the local record untouched")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := ApplyResolution(ResolvedConflict{SyncConflict: c, Resolution: "coin_flip"}, now); err == nil {
			t.Error("expected error for unknown resolution")
		}
	})
}

func TestRoundTripPreservesAmounts(t *testing.T) {
	local := localItem(baseTime, "1234567.8901", false)
	local.Kind = models.ItemKindIncome

	back, err := local.ToServer().ToLocal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Amount.Equal(local.Amount) || back.Amount.String() != "1234567.8901" {
		t.Errorf("amount changed: %s -> %s", local.Amount, back.Amount)
	}
	if back.Category != local.Category || back.Kind != local.Kind {
		t.Errorf("fields changed: %+v", back)
	}

	merged, err := MergeItems(local, serverItem(baseTime.Add(-5*time.Second), "1", false), baseTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := merged.ToServer().ToLocal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Amount.Equal(local.Amount) || again.Kind != models.ItemKindIncome {
		t.Errorf("merge round trip lost data: %+v", again)
	}
}
