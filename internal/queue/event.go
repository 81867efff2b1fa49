// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into an audit
// trail.
package queue

// Event kinds published to the escrow.events queue.
const (
	KindItemListed       = "item.listed"
	KindItemSold         = "item.sold"
	KindReceiptConfirmed = "receipt.confirmed"
	KindDisputeRaised    = "dispute.raised"
	KindFundsWithdrawn   = "funds.withdrawn"
)

// EscrowEvent is published after each committed escrow transition. It
// carries enough for downstream consumers to audit, notify or feed
// analytics without querying the primary database. Amount is the item
// price for item events and the payout amount for withdrawals; the
// Reference field is set only for withdrawals.
type EscrowEvent struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	ItemName   string `json:"item_name,omitempty"`
	Seller     string `json:"seller,omitempty"`
	Buyer      string `json:"buyer,omitempty"`
	Caller     string `json:"caller"`
	Amount     uint64 `json:"amount"`
	Status     string `json:"status,omitempty"`
	Reference  string `json:"reference,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
