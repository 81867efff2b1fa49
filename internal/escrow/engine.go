package escrow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
)

// Engine drives the escrow state machine over an injectable Store.
// All state-mutating operations are serialized by a single mutex so
// one call fully completes before the next begins, mirroring the
// execution model the contract surface assumes. The mutex is released
// before any external transfer runs, so a transfer callback that
// re-enters the engine sees committed state rather than deadlocking.
type Engine struct {
	mu       sync.Mutex
	store    Store
	transfer Transferor
}

// Withdrawal reports the outcome of a successful WithdrawFunds call.
type Withdrawal struct {
	Amount    uint64 `json:"amount"`
	Reference string `json:"reference"`
}

// New constructs an Engine. Both dependencies must be non-nil.
func New(store Store, transfer Transferor) *Engine {
	if store == nil || transfer == nil {
		panic("nil dependency passed to escrow.New")
	}
	return &Engine{store: store, transfer: transfer}
}

// ListItem creates a new listing owned by caller. The name becomes the
// immutable catalog key and is blocked for as long as any item record
// exists under it, including confirmed and disputed sales, so sale
// history is never overwritten.
func (e *Engine) ListItem(ctx context.Context, caller, name string, price uint64) (*model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if price == 0 {
		return nil, ErrInvalidPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UTC()
	item := &model.Item{
		Name:      name,
		PriceWei:  price,
		Seller:    caller,
		Status:    model.StatusListed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := e.store.Update(ctx, func(tx Tx) error {
		return tx.CreateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// BuyItem moves a listed item to SOLD with caller as buyer. The paid
// amount must match the price exactly; the funds are considered held
// in escrow custody from this point, attributable to neither party,
// until released by confirmation or frozen by dispute.
func (e *Engine) BuyItem(ctx context.Context, caller, name string, paid uint64) (*model.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var item *model.Item
	err := e.store.Update(ctx, func(tx Tx) error {
		var err error
		item, err = tx.GetItem(ctx, name)
		if err != nil {
			return err
		}
		if err := Authorize(OpBuy, item, caller); err != nil {
			return err
		}
		if paid != item.PriceWei {
			return ErrWrongAmount
		}
		item.Buyer = caller
		item.Status = model.StatusSold
		item.UpdatedAt = time.Now().UTC()
		return tx.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ConfirmReceipt is the buyer attesting delivery. The item moves to
// its terminal CONFIRMED state and the escrowed price is credited to
// the seller's withdrawable balance in the same unit of work.
func (e *Engine) ConfirmReceipt(ctx context.Context, caller, name string) (*model.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var item *model.Item
	err := e.store.Update(ctx, func(tx Tx) error {
		var err error
		item, err = tx.GetItem(ctx, name)
		if err != nil {
			return err
		}
		if err := Authorize(OpConfirm, item, caller); err != nil {
			return err
		}
		item.Status = model.StatusConfirmed
		item.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateItem(ctx, item); err != nil {
			return err
		}
		return tx.CreditBalance(ctx, item.Seller, item.PriceWei)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RaiseDispute freezes a sold item. Either party may raise it; the
// escrowed funds stay in custody and no balance is credited. DISPUTED
// is terminal pending manual resolution; there is no automatic refund
// or release.
func (e *Engine) RaiseDispute(ctx context.Context, caller, name string) (*model.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var item *model.Item
	err := e.store.Update(ctx, func(tx Tx) error {
		var err error
		item, err = tx.GetItem(ctx, name)
		if err != nil {
			return err
		}
		if err := Authorize(OpDispute, item, caller); err != nil {
			return err
		}
		item.Status = model.StatusDisputed
		item.UpdatedAt = time.Now().UTC()
		return tx.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// WithdrawFunds pays out the caller's entire withdrawable balance.
// The balance is zeroed and committed before the external transfer
// runs; a re-entrant call into the engine during the transfer finds
// nothing left to withdraw. If the transfer itself fails the zeroed
// amount is credited back so funds are never silently lost.
func (e *Engine) WithdrawFunds(ctx context.Context, caller string) (*Withdrawal, error) {
	e.mu.Lock()
	var amount uint64
	err := e.store.Update(ctx, func(tx Tx) error {
		a, err := tx.DrainBalance(ctx, caller)
		if err != nil {
			return err
		}
		if a == 0 {
			return ErrNothingToWithdraw
		}
		amount = a
		return nil
	})
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	ref, err := e.transfer.Transfer(ctx, caller, amount)
	if err != nil {
		e.mu.Lock()
		credErr := e.store.Update(ctx, func(tx Tx) error {
			return tx.CreditBalance(ctx, caller, amount)
		})
		e.mu.Unlock()
		if credErr != nil {
			log.Printf("escrow: CRITICAL failed to restore balance of %d for %s after payout failure: %v", amount, caller, credErr)
		}
		return nil, fmt.Errorf("payout failed: %w", err)
	}
	return &Withdrawal{Amount: amount, Reference: ref}, nil
}

// GetItemDetails returns a read-only snapshot of the item, repeatable
// without side effects.
func (e *Engine) GetItemDetails(ctx context.Context, name string) (model.ItemDetails, error) {
	var details model.ItemDetails
	err := e.store.View(ctx, func(tx Tx) error {
		item, err := tx.GetItem(ctx, name)
		if err != nil {
			return err
		}
		details = item.Details()
		return nil
	})
	if err != nil {
		return model.ItemDetails{}, err
	}
	return details, nil
}

// Balance returns the caller's current withdrawable balance without
// mutating anything.
func (e *Engine) Balance(ctx context.Context, caller string) (uint64, error) {
	var amount uint64
	err := e.store.View(ctx, func(tx Tx) error {
		var err error
		amount, err = tx.GetBalance(ctx, caller)
		return err
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
