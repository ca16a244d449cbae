package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/cache"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/service"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopDashboardCache{}, time.UTC)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

func loginAs(t *testing.T, api *API, username, password string) string {
	t.Helper()

	body, _ := json.Marshal(domain.LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = fmt.Sprintf("10.0.0.%d:4000", len(username))
	res := httptest.NewRecorder()

	api.Handler().ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("login as %s failed, status %d (body: %s)", username, res.Code, res.Body.String())
	}

	var payload domain.LoginResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}
	if payload.AccessToken == "" {
		t.Fatalf("expected access token in login response")
	}
	return payload.AccessToken
}

func authedRequest(token, method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLoginSuccess(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")
	if token == "" {
		t.Fatalf("expected token")
	}
}

func TestHandleLoginInvalidCredentials(t *testing.T) {
	api := newTestAPI(t)

	payload, _ := json.Marshal(domain.LoginRequest{Username: "admin", Password: "wrongpassword"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleCatalogRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleCatalogWithValidToken(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "cashier", "cashier123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodGet, "/api/v1/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var catalog domain.CatalogResponse
	if err := json.NewDecoder(rec.Body).Decode(&catalog); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(catalog.Items) == 0 || len(catalog.Services) == 0 {
		t.Fatalf("expected seeded items and services, got %d/%d", len(catalog.Items), len(catalog.Services))
	}
}

func TestHandleDashboardForbiddenForCashier(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "cashier", "cashier123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodGet, "/api/v1/admin/dashboard", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleDashboardAdmin(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodGet, "/api/v1/admin/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var totals domain.DashboardTotals
	if err := json.NewDecoder(rec.Body).Decode(&totals); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if totals.GeneratedAt.IsZero() {
		t.Fatalf("expected generated_at to be stamped")
	}
}

func TestHandleCreateBill(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "cashier", "cashier123")

	// Pick a real service from the seeded catalog.
	catRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(catRec, authedRequest(token, http.MethodGet, "/api/v1/catalog", nil))
	if catRec.Code != http.StatusOK {
		t.Fatalf("catalog failed: %d", catRec.Code)
	}
	var catalog domain.CatalogResponse
	if err := json.NewDecoder(catRec.Body).Decode(&catalog); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}

	payload, _ := json.Marshal(domain.BillCreateRequest{
		Lines: []domain.BillLineRequest{
			{LineType: domain.LineTypeService, RefID: catalog.Services[0].ID, Qty: 1},
		},
	})
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodPost, "/api/v1/bills", payload))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp domain.BillResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode bill response: %v", err)
	}
	if !resp.Bill.Total.Equal(catalog.Services[0].Price) {
		t.Fatalf("expected total %s, got %s", catalog.Services[0].Price, resp.Bill.Total)
	}
	if len(resp.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(resp.Lines))
	}
}

func TestHandleCreateBillRejectsUnknownField(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "cashier", "cashier123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodPost, "/api/v1/bills", []byte(`{"surprise":true}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestHandleTodayBills(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "cashier", "cashier123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodGet, "/api/v1/bills/today", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp domain.TodayBillsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode today bills: %v", err)
	}
	if !resp.From.Before(resp.To) {
		t.Fatalf("expected trading-day window from < to, got %s / %s", resp.From, resp.To)
	}
}

func TestHandleItemDeleteAndSoldOut(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	payload, _ := json.Marshal(map[string]any{
		"name":       "foam",
		"price":      "45",
		"cost_price": "20",
		"stock_qty":  0,
	})
	createRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(createRec, authedRequest(token, http.MethodPost, "/api/v1/items", payload))
	if createRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", createRec.Code, createRec.Body.String())
	}
	var created struct {
		Item domain.Item `json:"item"`
	}
	if err := json.NewDecoder(createRec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created item: %v", err)
	}

	soldOutRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(soldOutRec, authedRequest(token, http.MethodGet, "/api/v1/items/sold-out", nil))
	if soldOutRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", soldOutRec.Code, soldOutRec.Body.String())
	}
	var soldOut struct {
		Items []domain.Item `json:"items"`
	}
	if err := json.NewDecoder(soldOutRec.Body).Decode(&soldOut); err != nil {
		t.Fatalf("decode sold-out items: %v", err)
	}
	if len(soldOut.Items) != 1 || soldOut.Items[0].ID != created.Item.ID {
		t.Fatalf("expected the new item to be sold out, got %+v", soldOut.Items)
	}

	delRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(delRec, authedRequest(token, http.MethodDelete, "/api/v1/items/"+created.Item.ID.String(), nil))
	if delRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", delRec.Code, delRec.Body.String())
	}
	var deleted struct {
		Item domain.Item `json:"item"`
	}
	if err := json.NewDecoder(delRec.Body).Decode(&deleted); err != nil {
		t.Fatalf("decode deleted item: %v", err)
	}
	if deleted.Item.Active {
		t.Fatalf("expected item to be inactive after delete")
	}
}

func TestHandleCashierShareRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	payload, _ := json.Marshal(map[string]string{"cashier_share_pct": "35"})
	putRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(putRec, authedRequest(token, http.MethodPut, "/api/v1/admin/settings/cashier-share", payload))
	if putRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", putRec.Code, putRec.Body.String())
	}

	getRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(getRec, authedRequest(token, http.MethodGet, "/api/v1/admin/settings/cashier-share", nil))
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}
	var resp domain.ShareSettingResponse
	if err := json.NewDecoder(getRec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode share setting: %v", err)
	}
	if !resp.CashierSharePct.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("expected share 35, got %s", resp.CashierSharePct)
	}
}

func TestHandleRangeReportBadDates(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodGet, "/api/v1/admin/reports/range?from=2026-02-01&to=2026-01-01", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reversed range, got %d", rec.Code)
	}
}

func TestHandleRangeReportXLSX(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodGet, "/api/v1/admin/reports/range?from=2026-01-01&to=2026-01-31&format=xlsx", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("expected workbook bytes")
	}
}

func TestHandleWeekStatementPDF(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, authedRequest(token, http.MethodGet, "/api/v1/admin/reports/week-statement.pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected PDF payload")
	}
}

func TestHandleCashiersLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	payload, _ := json.Marshal(domain.CashierCreateRequest{
		Username: "samir",
		FullName: "Samir",
		Password: "longenough",
	})
	createRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(createRec, authedRequest(token, http.MethodPost, "/api/v1/admin/users/cashiers", payload))
	if createRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", createRec.Code, createRec.Body.String())
	}
	var created struct {
		User domain.CashierUser `json:"user"`
	}
	if err := json.NewDecoder(createRec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created cashier: %v", err)
	}

	deactivate, _ := json.Marshal(map[string]bool{"active": false})
	patchRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(patchRec, authedRequest(token, http.MethodPatch, "/api/v1/admin/users/cashiers/"+created.User.ID.String(), deactivate))
	if patchRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", patchRec.Code, patchRec.Body.String())
	}

	// The deactivated cashier can no longer log in.
	body, _ := json.Marshal(domain.LoginRequest{Username: "samir", Password: "longenough"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginReq.RemoteAddr = "10.0.9.9:4000"
	loginRec := httptest.NewRecorder()
	api.Handler().ServeHTTP(loginRec, loginReq)
	if loginRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deactivated cashier, got %d", loginRec.Code)
	}
}
