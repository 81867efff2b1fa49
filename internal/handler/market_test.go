package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Vaishnavi024/escrow-marketplace/internal/escrow"
	"github.com/Vaishnavi024/escrow-marketplace/internal/handler"
	"github.com/Vaishnavi024/escrow-marketplace/internal/payout"
	"github.com/Vaishnavi024/escrow-marketplace/internal/store"
)

const (
	sellerAddr = "0x1111111111111111111111111111111111111111"
	buyerAddr  = "0x2222222222222222222222222222222222222222"
)

func newTestHandler() *handler.MarketHandler {
	engine := escrow.New(store.NewMemory(), payout.LogOnly{})
	return handler.NewMarketHandler(engine, nil)
}

// call invokes an echo handler directly with an authenticated caller
// and optional :name path parameter, returning the recorder.
func call(t *testing.T, h echo.HandlerFunc, method, body, caller, name string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != "" {
		c.Set("caller_addr", caller)
	}
	if name != "" {
		c.SetParamNames("name")
		c.SetParamValues(name)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestListItemEndpoint(t *testing.T) {
	h := newTestHandler()

	rec := call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":100}`, sellerAddr, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp["is_sold"] != false || resp["seller"] != sellerAddr {
		t.Errorf("unexpected listing response: %v", resp)
	}
}

func TestListItemValidation(t *testing.T) {
	h := newTestHandler()

	if rec := call(t, h.ListItem, http.MethodPost, `{"name":"","price":100}`, sellerAddr, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}
	if rec := call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":0}`, sellerAddr, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("zero price status = %d, want 400", rec.Code)
	}
	if rec := call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":100}`, "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}
}

func TestDuplicateListingConflict(t *testing.T) {
	h := newTestHandler()

	call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":100}`, sellerAddr, "")
	if rec := call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":200}`, buyerAddr, ""); rec.Code != http.StatusConflict {
		t.Errorf("duplicate listing status = %d, want 409", rec.Code)
	}
}

func TestBuyEndpointErrors(t *testing.T) {
	h := newTestHandler()
	call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":100}`, sellerAddr, "")

	if rec := call(t, h.BuyItem, http.MethodPost, `{"amount":99}`, buyerAddr, "Widget"); rec.Code != http.StatusBadRequest {
		t.Errorf("wrong amount status = %d, want 400", rec.Code)
	}
	if rec := call(t, h.BuyItem, http.MethodPost, `{"amount":100}`, sellerAddr, "Widget"); rec.Code != http.StatusForbidden {
		t.Errorf("self purchase status = %d, want 403", rec.Code)
	}
	if rec := call(t, h.BuyItem, http.MethodPost, `{"amount":100}`, buyerAddr, "Ghost"); rec.Code != http.StatusNotFound {
		t.Errorf("missing item status = %d, want 404", rec.Code)
	}
}

func TestFullLifecycleOverHTTP(t *testing.T) {
	h := newTestHandler()

	call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":100}`, sellerAddr, "")

	if rec := call(t, h.BuyItem, http.MethodPost, `{"amount":100}`, buyerAddr, "Widget"); rec.Code != http.StatusOK {
		t.Fatalf("buy status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := call(t, h.ConfirmReceipt, http.MethodPost, "", buyerAddr, "Widget"); rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec := call(t, h.GetItemDetails, http.MethodGet, "", "", "Widget")
	if rec.Code != http.StatusOK {
		t.Fatalf("details status = %d", rec.Code)
	}
	var details map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if details["is_confirmed"] != true || details["buyer"] != buyerAddr {
		t.Errorf("unexpected details after confirmation: %v", details)
	}

	rec = call(t, h.WithdrawFunds, http.MethodPost, "", sellerAddr, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("withdraw status = %d, body %s", rec.Code, rec.Body.String())
	}
	var w map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if w["amount"] != float64(100) {
		t.Errorf("withdrawn amount = %v, want 100", w["amount"])
	}

	if rec := call(t, h.WithdrawFunds, http.MethodPost, "", sellerAddr, ""); rec.Code != http.StatusConflict {
		t.Errorf("second withdraw status = %d, want 409", rec.Code)
	}
}

func TestDisputeOverHTTP(t *testing.T) {
	h := newTestHandler()

	call(t, h.ListItem, http.MethodPost, `{"name":"Widget","price":100}`, sellerAddr, "")
	call(t, h.BuyItem, http.MethodPost, `{"amount":100}`, buyerAddr, "Widget")

	if rec := call(t, h.RaiseDispute, http.MethodPost, "", buyerAddr, "Widget"); rec.Code != http.StatusOK {
		t.Fatalf("dispute status = %d, body %s", rec.Code, rec.Body.String())
	}
	// Terminal: further transitions conflict.
	if rec := call(t, h.ConfirmReceipt, http.MethodPost, "", buyerAddr, "Widget"); rec.Code != http.StatusConflict {
		t.Errorf("confirm after dispute status = %d, want 409", rec.Code)
	}

	rec := call(t, h.Balance, http.MethodGet, "", sellerAddr, "")
	var b map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if b["balance"] != float64(0) {
		t.Errorf("seller balance after dispute = %v, want 0", b["balance"])
	}
}
