package escrow

import (
	"context"

	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
)

// Tx is the set of storage operations available inside a single atomic
// unit of work. Implementations must guarantee that either every
// mutation performed through a Tx becomes visible, or none does.
type Tx interface {
	// GetItem returns the item listed under name, in any status.
	// Returns ErrNotFound when no item with that name was ever listed.
	GetItem(ctx context.Context, name string) (*model.Item, error)

	// CreateItem persists a new item. Returns ErrAlreadyListed when the
	// name is already taken.
	CreateItem(ctx context.Context, item *model.Item) error

	// UpdateItem persists a status/buyer transition for an existing item.
	UpdateItem(ctx context.Context, item *model.Item) error

	// GetBalance returns the owner's current withdrawable balance,
	// zero when no balance row exists.
	GetBalance(ctx context.Context, owner string) (uint64, error)

	// CreditBalance adds amount to the owner's withdrawable balance,
	// creating the balance row if needed.
	CreditBalance(ctx context.Context, owner string, amount uint64) error

	// DrainBalance atomically zeroes the owner's withdrawable balance
	// and returns the amount that was held. Returns 0 when the owner
	// has no balance.
	DrainBalance(ctx context.Context, owner string) (uint64, error)
}

// Store is the injectable storage handle owned by an engine instance.
// Update runs fn inside a read-modify-write unit that commits only if
// fn returns nil; View runs fn read-only.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Transferor is the execution environment's synchronous value-transfer
// primitive. Transfer pays amount to the given address and returns a
// reference for reconciliation. It runs only after the engine has
// committed its state change, so a nested call back into the engine
// observes the post-commit state.
type Transferor interface {
	Transfer(ctx context.Context, to string, amount uint64) (reference string, err error)
}
