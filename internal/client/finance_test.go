package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/najeeb67/my-money-mat/internal/models"
)

func TestPing(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/health" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewFinanceClient(server.URL, "", server.Client())
		if err := c.Ping(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		url := server.URL
		server.Close()

		c := NewFinanceClient(url, "", &http.Client{Timeout: time.Second})
		err := c.Ping(context.Background())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !IsNetworkError(err) {
			t.Errorf("expected network error, got %T: %v", err, err)
		}
	})
}

func TestFetchItems(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/api/v1/budget-items/batch" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("unexpected Authorization header %q", got)
			}

			var body struct {
				IDs []string `json:"ids"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if len(body.IDs) != 2 {
				t.Errorf("expected 2 ids, got %v", body.IDs)
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"items":{"a":{"id":"a","category":"Rent","description":"","amount":"950.25","kind":"expense","occurred_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-02T10:00:00.5Z","created_at":"2024-01-01T00:00:00Z","deleted":false}}}`)
		}))
		defer server.Close()

		c := NewFinanceClient(server.URL, "test-token", server.Client())
		items, err := c.FetchItems(context.Background(), []string{"a", "b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		a := items["a"]
		if !a.Amount.Equal(decimal.RequireFromString("950.25")) || a.Kind != models.ItemKindExpense {
			t.Errorf("item mismatch: %+v", a)
		}
		if _, ok := items["b"]; ok {
			t.Error("expected unknown id to be absent")
		}
	})

	t.Run("no_ids_skips_request", func(t *testing.T) {
		c := NewFinanceClient("http://127.0.0.1:1", "", nil)
		items, err := c.FetchItems(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected empty map, got %v", items)
		}
	})

	t.Run("server_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
		}))
		defer server.Close()

		c := NewFinanceClient(server.URL, "", server.Client())
		_, err := c.FetchItems(context.Background(), []string{"a"})
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %T: %v", err, err)
		}
		if statusErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", statusErr.StatusCode)
		}
		if IsNetworkError(err) {
			t.Error("a status error is not a network error")
		}
		if !strings.Contains(err.Error(), "boom") {
			t.Errorf("error %q should include the response body", err.Error())
		}
	})
}

func TestSyncItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/budget-items/sync" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("expected no Authorization header without a token")
		}

		var body struct {
			Items []models.ServerBudgetItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		ids := make([]string, 0, len(body.Items))
		for _, item := range body.Items {
			if _, err := models.ParseTimestamp(item.UpdatedAt); err != nil {
				t.Errorf("expected ISO-8601 updated_at, got %q", item.UpdatedAt)
			}
			ids = append(ids, item.ID)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"synced_ids": ids})
	}))
	defer server.Close()

	now := time.Now().UTC()
	items := []models.ServerBudgetItem{
		models.BudgetItem{Base: models.Base{ID: "x", CreatedAt: now, UpdatedAt: now}, Category: "Food", Amount: decimal.NewFromInt(3), Kind: models.ItemKindExpense, OccurredAt: now}.ToServer(),
		models.BudgetItem{Base: models.Base{ID: "y", CreatedAt: now, UpdatedAt: now}, Category: "Pay", Amount: decimal.NewFromInt(9), Kind: models.ItemKindIncome, OccurredAt: now}.ToServer(),
	}

	c := NewFinanceClient(server.URL, "", server.Client())
	ids, err := c.SyncItems(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "x" || ids[1] != "y" {
		t.Errorf("unexpected synced ids %v", ids)
	}
}

func TestExecute(t *testing.T) {
	t.Run("update_routes_id_into_path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}
			if r.URL.Path != "/api/v1/expenses/42" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if _, ok := body["id"]; ok {
				t.Error("expected id to be stripped from the body")
			}
			if body["amount"] != "10.00" {
				t.Errorf("unexpected body %v", body)
			}
			_, _ = io.WriteString(w, `{"ok":true}`)
		}))
		defer server.Close()

		c := NewFinanceClient(server.URL, "", server.Client())
		raw, err := c.Execute(context.Background(), "update_expense", json.RawMessage(`{"id":42,"amount":"10.00"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(raw) != `{"ok":true}` {
			t.Errorf("unexpected response %s", raw)
		}
	})

	t.Run("delete_sends_no_body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/savings-goals/g-1" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			data, _ := io.ReadAll(r.Body)
			if len(data) != 0 {
				t.Errorf("expected empty body, got %s", data)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		c := NewFinanceClient(server.URL, "", server.Client())
		if _, err := c.Execute(context.Background(), "delete_savings_goal", json.RawMessage(`{"id":"g-1"}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown_operation", func(t *testing.T) {
		c := NewFinanceClient("http://127.0.0.1:1", "", nil)
		_, err := c.Execute(context.Background(), "transfer_funds", json.RawMessage(`{}`))
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if IsNetworkError(err) {
			t.Error("unknown operation must not look like a network error")
		}
	})
}
