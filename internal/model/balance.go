package model

import "time"

// Balance tracks a seller's withdrawable funds as stored in the
// `balances` table. The amount is increased only by confirmation
// events and decreased only by a successful withdrawal; it never goes
// negative. Funds locked in escrow for a sold-but-unconfirmed item are
// not part of any balance; they belong to custody until released.
type Balance struct {
	Owner     string    // balances.owner_addr
	AmountWei uint64    // balances.amount_wei
	UpdatedAt time.Time // balances.updated_at
}
