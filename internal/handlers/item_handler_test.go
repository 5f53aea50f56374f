package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/najeeb67/my-money-mat/internal/errors"
	"github.com/najeeb67/my-money-mat/internal/models"
	"github.com/najeeb67/my-money-mat/internal/pagination"
	"github.com/najeeb67/my-money-mat/internal/services"
	"github.com/najeeb67/my-money-mat/internal/validator"
)

// --- mock item service ---

type mockItemService struct {
	createFn         func(input models.BudgetItemInput) (*models.BudgetItem, error)
	getFn            func(id string) (*models.BudgetItem, error)
	updateFn         func(id string, patch models.BudgetItemPatch) (*models.BudgetItem, error)
	softDeleteFn     func(id string) (bool, error)
	listActivePageFn func(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetItem], error)
	countUnsyncedFn  func() (int64, error)
	summaryFn        func() (*models.Summary, error)
}

func (m *mockItemService) Create(input models.BudgetItemInput) (*models.BudgetItem, error) {
	if m.createFn != nil {
		return m.createFn(input)
	}
	return &models.BudgetItem{}, nil
}

func (m *mockItemService) Get(id string) (*models.BudgetItem, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.BudgetItem{Base: models.Base{ID: id}}, nil
}

func (m *mockItemService) Update(id string, patch models.BudgetItemPatch) (*models.BudgetItem, error) {
	if m.updateFn != nil {
		return m.updateFn(id, patch)
	}
	return &models.BudgetItem{Base: models.Base{ID: id}}, nil
}

func (m *mockItemService) SoftDelete(id string) (bool, error) {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(id)
	}
	return true, nil
}

func (m *mockItemService) HardDelete(string) error { return nil }

func (m *mockItemService) Replace(models.BudgetItem) error { return nil }

func (m *mockItemService) ListActive() ([]models.BudgetItem, error) { return nil, nil }

func (m *mockItemService) ListActivePage(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetItem], error) {
	if m.listActivePageFn != nil {
		return m.listActivePageFn(page)
	}
	resp := pagination.NewPageResponse([]models.BudgetItem{}, 1, 50, 0)
	return &resp, nil
}

func (m *mockItemService) ListUnsynced() ([]models.BudgetItem, error) { return nil, nil }

func (m *mockItemService) CountUnsynced() (int64, error) {
	if m.countUnsyncedFn != nil {
		return m.countUnsyncedFn()
	}
	return 0, nil
}

func (m *mockItemService) MarkSynced([]models.BudgetItem) error { return nil }

func (m *mockItemService) Summary() (*models.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn()
	}
	return &models.Summary{}, nil
}

var _ services.BudgetItemServicer = (*mockItemService)(nil)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func setupItemRouter(handler *ItemHandler) *gin.Engine {
	r := gin.New()
	r.POST("/items", handler.CreateItem)
	r.GET("/items", handler.ListItems)
	r.GET("/items/summary", handler.GetSummary)
	r.GET("/items/unsynced/count", handler.GetUnsyncedCount)
	r.GET("/items/:id", handler.GetItem)
	r.PUT("/items/:id", handler.UpdateItem)
	r.DELETE("/items/:id", handler.DeleteItem)
	return r
}

// --- tests ---

func TestItemHandler_CreateItem(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got models.BudgetItemInput
		svc := &mockItemService{
			createFn: func(input models.BudgetItemInput) (*models.BudgetItem, error) {
				got = input
				return &models.BudgetItem{
					Base:     models.Base{ID: "item-1"},
					Category: input.Category,
					Amount:   input.Amount,
					Kind:     input.Kind,
				}, nil
			},
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "POST", "/items",
			`{"category":"Groceries","description":"weekly shop","amount":"42.50","kind":"expense","occurred_at":"2025-03-01T10:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		item := parseJSON(t, rec)["item"].(map[string]interface{})
		if item["category"] != "Groceries" {
			t.Errorf("expected Groceries, got %v", item["category"])
		}
		if !got.Amount.Equal(decimal.RequireFromString("42.5")) {
			t.Errorf("expected amount 42.5, got %s", got.Amount)
		}
		if got.Kind != models.ItemKindExpense {
			t.Errorf("expected expense, got %s", got.Kind)
		}
		if !got.OccurredAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected occurred_at %v", got.OccurredAt)
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupItemRouter(NewItemHandler(&mockItemService{}))

		rec := doRequest(r, "POST", "/items",
			`{"amount":"1","kind":"income","occurred_at":"2025-03-01T10:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unknown kind", func(t *testing.T) {
		r := setupItemRouter(NewItemHandler(&mockItemService{}))

		rec := doRequest(r, "POST", "/items",
			`{"category":"Rent","amount":"1","kind":"transfer","occurred_at":"2025-03-01T10:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		called := false
		svc := &mockItemService{
			createFn: func(models.BudgetItemInput) (*models.BudgetItem, error) {
				called = true
				return &models.BudgetItem{}, nil
			},
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "POST", "/items",
			`{"category":"Rent","amount":"-5","kind":"expense","occurred_at":"2025-03-01T10:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if called {
			t.Error("service should not be called")
		}
	})

	t.Run("returns 500 on unexpected error", func(t *testing.T) {
		svc := &mockItemService{
			createFn: func(models.BudgetItemInput) (*models.BudgetItem, error) {
				return nil, errors.New("disk full")
			},
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "POST", "/items",
			`{"category":"Rent","amount":"5","kind":"expense","occurred_at":"2025-03-01T10:00:00Z"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestItemHandler_ListItems(t *testing.T) {
	t.Run("passes page through", func(t *testing.T) {
		var got pagination.PageRequest
		svc := &mockItemService{
			listActivePageFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.BudgetItem], error) {
				got = page
				resp := pagination.NewPageResponse([]models.BudgetItem{{Base: models.Base{ID: "a"}}}, 2, 10, 11)
				return &resp, nil
			},
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "GET", "/items?page=2&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Page != 2 || got.PageSize != 10 {
			t.Errorf("unexpected page request %+v", got)
		}
		result := parseJSON(t, rec)
		if result["total_pages"].(float64) != 2 {
			t.Errorf("expected 2 pages, got %v", result["total_pages"])
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupItemRouter(NewItemHandler(&mockItemService{}))

		rec := doRequest(r, "GET", "/items?page_size=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestItemHandler_GetItem(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockItemService{
			getFn: func(string) (*models.BudgetItem, error) {
				return nil, apperrors.ErrItemNotFound
			},
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "GET", "/items/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ITEM_NOT_FOUND")
	})

	t.Run("returns 400 on oversized id", func(t *testing.T) {
		r := setupItemRouter(NewItemHandler(&mockItemService{}))

		rec := doRequest(r, "GET", "/items/"+strings.Repeat("x", maxIDLength+1), "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestItemHandler_UpdateItem(t *testing.T) {
	t.Run("sends only provided fields", func(t *testing.T) {
		var got models.BudgetItemPatch
		svc := &mockItemService{
			updateFn: func(id string, patch models.BudgetItemPatch) (*models.BudgetItem, error) {
				got = patch
				return &models.BudgetItem{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "PUT", "/items/item-1", `{"description":"updated"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Description == nil || *got.Description != "updated" {
			t.Errorf("expected description patch, got %+v", got.Description)
		}
		if got.Category != nil || got.Amount != nil || got.Kind != nil || got.OccurredAt != nil {
			t.Errorf("expected other fields nil, got %+v", got)
		}
	})

	t.Run("returns 400 on unknown kind", func(t *testing.T) {
		r := setupItemRouter(NewItemHandler(&mockItemService{}))

		rec := doRequest(r, "PUT", "/items/item-1", `{"kind":"gift"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockItemService{
			updateFn: func(string, models.BudgetItemPatch) (*models.BudgetItem, error) {
				return nil, apperrors.ErrItemNotFound
			},
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "PUT", "/items/item-1", `{"description":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestItemHandler_DeleteItem(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		r := setupItemRouter(NewItemHandler(&mockItemService{}))

		rec := doRequest(r, "DELETE", "/items/item-1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when nothing was deleted", func(t *testing.T) {
		svc := &mockItemService{
			softDeleteFn: func(string) (bool, error) { return false, nil },
		}
		r := setupItemRouter(NewItemHandler(svc))

		rec := doRequest(r, "DELETE", "/items/item-1", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ITEM_NOT_FOUND")
	})
}

func TestItemHandler_Aggregates(t *testing.T) {
	svc := &mockItemService{
		summaryFn: func() (*models.Summary, error) {
			return &models.Summary{
				Income:  decimal.NewFromInt(100),
				Expense: decimal.NewFromInt(40),
				Balance: decimal.NewFromInt(60),
				Count:   3,
			}, nil
		},
		countUnsyncedFn: func() (int64, error) { return 7, nil },
	}
	r := setupItemRouter(NewItemHandler(svc))

	t.Run("summary", func(t *testing.T) {
		rec := doRequest(r, "GET", "/items/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["balance"] != "60" {
			t.Errorf("expected balance \"60\", got %v", summary["balance"])
		}
	})

	t.Run("unsynced count", func(t *testing.T) {
		rec := doRequest(r, "GET", "/items/unsynced/count", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["count"].(float64) != 7 {
			t.Errorf("expected count 7, got %v", rec.Body.String())
		}
	})
}
