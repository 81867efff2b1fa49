package model

import "time"

// Transfer records a completed outbound payout as stored in the
// `transfers` table. One row is written per successful withdrawal,
// after the withdrawable balance has already been zeroed. The
// reference is a UUID handed back to the caller for reconciliation.
type Transfer struct {
	Reference string    // transfers.reference
	ToAddr    string    // transfers.to_addr
	AmountWei uint64    // transfers.amount_wei
	CreatedAt time.Time // transfers.created_at
}
