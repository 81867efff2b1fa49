// Package escrow implements the marketplace engine: the item lifecycle
// state machine, fund custody, and withdrawable balances. All state is
// accessed through an injectable Store so isolated engines can be
// created per test. Handlers translate the sentinel errors below into
// HTTP responses; the engine never retries and never leaves a partial
// effect behind a returned error.
package escrow

import "errors"

// Validation errors: the caller supplied a value outside the allowed
// range. Rejected before any state change.
var (
	ErrInvalidPrice = errors.New("price must be greater than zero")
	ErrInvalidName  = errors.New("item name must not be empty")
	ErrWrongAmount  = errors.New("paid amount does not match item price")
)

// State errors: the operation is invalid given the item's current
// lifecycle position.
var (
	ErrAlreadyListed = errors.New("an item with this name already exists")
	ErrNotFound      = errors.New("item not found")
	ErrInvalidState  = errors.New("operation not allowed in current item state")
)

// Authorization errors: the caller does not hold the required role for
// the operation.
var (
	ErrSelfPurchase   = errors.New("seller cannot buy their own item")
	ErrNotBuyer       = errors.New("only the buyer can confirm receipt")
	ErrNotParticipant = errors.New("only the buyer or seller can raise a dispute")
)

// Resource errors.
var ErrNothingToWithdraw = errors.New("no withdrawable balance")
