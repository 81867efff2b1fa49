package escrow

import "github.com/Vaishnavi024/escrow-marketplace/internal/model"

// Operation identifies a state-machine transition for authorization
// purposes.
type Operation int

const (
	OpBuy Operation = iota + 1
	OpConfirm
	OpDispute
)

// Authorize checks whether the caller holds the required role for the
// given transition on the item's current state. It is a pure predicate
// with no side effects; every engine transition consults it before
// mutating anything. Denial reasons map one-to-one onto the sentinel
// authorization and state errors.
func Authorize(op Operation, item *model.Item, caller string) error {
	switch op {
	case OpBuy:
		if item.Status != model.StatusListed {
			return ErrInvalidState
		}
		if caller == item.Seller {
			return ErrSelfPurchase
		}
	case OpConfirm:
		if item.Status != model.StatusSold {
			return ErrInvalidState
		}
		if caller != item.Buyer {
			return ErrNotBuyer
		}
	case OpDispute:
		if item.Status != model.StatusSold {
			return ErrInvalidState
		}
		if caller != item.Buyer && caller != item.Seller {
			return ErrNotParticipant
		}
	default:
		return ErrInvalidState
	}
	return nil
}
