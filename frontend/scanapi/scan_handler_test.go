package scanapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sessioncontext "quickstock/frontend/shared/context"
	"quickstock/models"
)

func TestScanCommandHandler_ItemResponse(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"barcode":"PART001","context":"receive"}`))
	rec := httptest.NewRecorder()
	ScanCommandHandler(db)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var item ItemResult
	if err := json.NewDecoder(rec.Body).Decode(&item); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if item.Type != "item" || item.SKU != "PART001" || item.SuggestedQty != 500 {
		t.Fatalf("unexpected response %+v", item)
	}
	if item.Context != "receive" {
		t.Fatalf("context not echoed: %+v", item)
	}
}

func TestScanCommandHandler_NotFoundAndEmpty(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"barcode":"NOPE-1"}`))
	rec := httptest.NewRecorder()
	ScanCommandHandler(db)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var e ErrorResult
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if e.Error != "Barcode not found" || e.Barcode != "NOPE-1" {
		t.Fatalf("unexpected error body %+v", e)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"barcode":""}`))
	rec = httptest.NewRecorder()
	ScanCommandHandler(db)(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestQuickReceiveCommandHandler(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	body := `{"item_id":1,"location_id":1,"quantity":500}`
	req := httptest.NewRequest(http.MethodPost, "/api/quick-receive", strings.NewReader(body))
	req = req.WithContext(sessioncontext.NewContextWithSession(req.Context(), models.Session{ID: "tok", UserID: 1}))
	rec := httptest.NewRecorder()
	QuickReceiveCommandHandler(db, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var res MutationResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success || res.NewQuantity != 500 {
		t.Fatalf("unexpected response %+v", res)
	}
}

func TestQuickReceiveCommandHandler_RequiresSession(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/quick-receive", strings.NewReader(`{"item_id":1,"location_id":1,"quantity":5}`))
	rec := httptest.NewRecorder()
	QuickReceiveCommandHandler(db, nil)(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestQuickMoveCommandHandler_SourceValidation(t *testing.T) {
	db := openTestDB(t)
	seedBase(t, db)

	body := `{"item_id":1,"from_location_id":2,"to_location_id":1,"quantity":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/quick-move", strings.NewReader(body))
	req = req.WithContext(sessioncontext.NewContextWithSession(req.Context(), models.Session{ID: "tok", UserID: 1}))
	rec := httptest.NewRecorder()
	QuickMoveCommandHandler(db, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (no source stock)", rec.Code)
	}
	var res MutationResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Error != "Insufficient stock at source location" {
		t.Fatalf("unexpected error %q", res.Error)
	}
}
