package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vaishnavi024/escrow-marketplace/internal/escrow"
	"github.com/Vaishnavi024/escrow-marketplace/internal/middleware"
	"github.com/Vaishnavi024/escrow-marketplace/internal/queue"
	"github.com/Vaishnavi024/escrow-marketplace/internal/repository"
	queue_publisher "github.com/Vaishnavi024/escrow-marketplace/internal/service"

	"github.com/google/uuid"
)

// MarketHandler exposes the escrow engine over HTTP. All routes except
// item details require an authenticated caller; the resolved address
// is the identity every engine operation runs as. Engine errors are
// surfaced verbatim so clients can pass the message through to the
// end user.
type MarketHandler struct {
	Engine    *escrow.Engine
	Transfers *repository.TransferRepo // nil when running on the memory store
}

// NewMarketHandler constructs a MarketHandler. The engine must be
// non-nil; the transfer repo is optional.
func NewMarketHandler(engine *escrow.Engine, transfers *repository.TransferRepo) *MarketHandler {
	if engine == nil {
		panic("nil engine passed to NewMarketHandler")
	}
	return &MarketHandler{Engine: engine, Transfers: transfers}
}

type listItemReq struct {
	Name  string `json:"name"`
	Price uint64 `json:"price"`
}

type buyItemReq struct {
	Amount uint64 `json:"amount"`
}

// ListItem handles POST /v1/market/items. The caller becomes the
// seller of the new listing.
func (h *MarketHandler) ListItem(c echo.Context) error {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req listItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	item, err := h.Engine.ListItem(c.Request().Context(), caller, req.Name, req.Price)
	if err != nil {
		return marketError(c, err)
	}

	h.publish(c, queue.EscrowEvent{
		Kind:     queue.KindItemListed,
		ItemName: item.Name,
		Seller:   item.Seller,
		Caller:   caller,
		Amount:   item.PriceWei,
		Status:   string(item.Status),
	})
	return c.JSON(http.StatusCreated, item.Details())
}

// BuyItem handles POST /v1/market/items/:name/buy. The amount field
// stands in for the value attached to the call and must equal the
// listed price exactly.
func (h *MarketHandler) BuyItem(c echo.Context) error {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	name := c.Param("name")
	var req buyItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	item, err := h.Engine.BuyItem(c.Request().Context(), caller, name, req.Amount)
	if err != nil {
		return marketError(c, err)
	}

	h.publish(c, queue.EscrowEvent{
		Kind:     queue.KindItemSold,
		ItemName: item.Name,
		Seller:   item.Seller,
		Buyer:    item.Buyer,
		Caller:   caller,
		Amount:   item.PriceWei,
		Status:   string(item.Status),
	})
	return c.JSON(http.StatusOK, item.Details())
}

// GetItemDetails handles GET /v1/market/items/:name. Read-only and
// repeatable; this route sits behind the response cache.
func (h *MarketHandler) GetItemDetails(c echo.Context) error {
	details, err := h.Engine.GetItemDetails(c.Request().Context(), c.Param("name"))
	if err != nil {
		return marketError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// ConfirmReceipt handles POST /v1/market/items/:name/confirm.
func (h *MarketHandler) ConfirmReceipt(c echo.Context) error {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	item, err := h.Engine.ConfirmReceipt(c.Request().Context(), caller, c.Param("name"))
	if err != nil {
		return marketError(c, err)
	}

	h.publish(c, queue.EscrowEvent{
		Kind:     queue.KindReceiptConfirmed,
		ItemName: item.Name,
		Seller:   item.Seller,
		Buyer:    item.Buyer,
		Caller:   caller,
		Amount:   item.PriceWei,
		Status:   string(item.Status),
	})
	return c.JSON(http.StatusOK, item.Details())
}

// RaiseDispute handles POST /v1/market/items/:name/dispute.
func (h *MarketHandler) RaiseDispute(c echo.Context) error {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	item, err := h.Engine.RaiseDispute(c.Request().Context(), caller, c.Param("name"))
	if err != nil {
		return marketError(c, err)
	}

	h.publish(c, queue.EscrowEvent{
		Kind:     queue.KindDisputeRaised,
		ItemName: item.Name,
		Seller:   item.Seller,
		Buyer:    item.Buyer,
		Caller:   caller,
		Amount:   item.PriceWei,
		Status:   string(item.Status),
	})
	return c.JSON(http.StatusOK, item.Details())
}

// WithdrawFunds handles POST /v1/market/withdraw, paying out the
// caller's entire withdrawable balance.
func (h *MarketHandler) WithdrawFunds(c echo.Context) error {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	w, err := h.Engine.WithdrawFunds(c.Request().Context(), caller)
	if err != nil {
		return marketError(c, err)
	}

	h.publish(c, queue.EscrowEvent{
		Kind:      queue.KindFundsWithdrawn,
		Caller:    caller,
		Amount:    w.Amount,
		Reference: w.Reference,
	})
	return c.JSON(http.StatusOK, w)
}

// Balance handles GET /v1/market/balance, returning the caller's
// withdrawable balance.
func (h *MarketHandler) Balance(c echo.Context) error {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	amount, err := h.Engine.Balance(c.Request().Context(), caller)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"address": caller, "balance": amount})
}

// Withdrawals handles GET /v1/market/withdrawals, listing the caller's
// payout history. Unavailable on the memory store.
func (h *MarketHandler) Withdrawals(c echo.Context) error {
	caller := middleware.CallerAddress(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Transfers == nil {
		return c.JSON(http.StatusNotImplemented, echo.Map{"error": "withdrawal history not available"})
	}
	transfers, err := h.Transfers.ListByAddress(c.Request().Context(), caller)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, echo.Map{
			"reference":  t.Reference,
			"amount":     t.AmountWei,
			"created_at": t.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// publish sends an escrow event after a committed transition. Publish
// failures are ignored; the state change already happened and the
// audit trail is best-effort.
func (h *MarketHandler) publish(c echo.Context, ev queue.EscrowEvent) {
	ev.ID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	_ = queue_publisher.PublishEscrowEvent(c.Request().Context(), ev)
}

// marketError maps engine sentinel errors onto HTTP statuses. The
// error text is returned verbatim for the client to surface.
func marketError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, escrow.ErrInvalidPrice),
		errors.Is(err, escrow.ErrInvalidName),
		errors.Is(err, escrow.ErrWrongAmount):
		status = http.StatusBadRequest
	case errors.Is(err, escrow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, escrow.ErrAlreadyListed),
		errors.Is(err, escrow.ErrInvalidState),
		errors.Is(err, escrow.ErrNothingToWithdraw):
		status = http.StatusConflict
	case errors.Is(err, escrow.ErrSelfPurchase),
		errors.Is(err, escrow.ErrNotBuyer),
		errors.Is(err, escrow.ErrNotParticipant):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
