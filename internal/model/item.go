package model

import "time"

// ItemStatus enumerates the lifecycle states of a listed item.
// The happy path is LISTED → SOLD → CONFIRMED; a sold item may
// instead move to DISPUTED. CONFIRMED and DISPUTED are terminal.
type ItemStatus string

const (
	StatusListed    ItemStatus = "LISTED"
	StatusSold      ItemStatus = "SOLD"
	StatusConfirmed ItemStatus = "CONFIRMED"
	StatusDisputed  ItemStatus = "DISPUTED"
)

// Terminal reports whether no further transition is defined for the status.
func (s ItemStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusDisputed
}

// Item represents a single unit of sale as stored in the `items` table.
// The name is the unique catalog key and never changes once listed.
// Price is denominated in the smallest currency unit. Buyer is empty
// until the item is sold and immutable thereafter. Items are never
// physically deleted; their history stays queryable by name.
type Item struct {
	Name      string     // items.name
	PriceWei  uint64     // items.price_wei
	Seller    string     // items.seller_addr
	Buyer     string     // items.buyer_addr (empty = none)
	Status    ItemStatus // items.status
	CreatedAt time.Time  // items.created_at
	UpdatedAt time.Time  // items.updated_at
}

// ItemDetails is the read-only snapshot returned to clients. IsSold is
// true for any status past LISTED; IsConfirmed only for CONFIRMED.
type ItemDetails struct {
	Name        string `json:"name"`
	Price       uint64 `json:"price"`
	IsSold      bool   `json:"is_sold"`
	Buyer       string `json:"buyer"`
	Seller      string `json:"seller"`
	IsConfirmed bool   `json:"is_confirmed"`
	Status      string `json:"status"`
}

// Details derives the client-facing snapshot from an item record.
func (i *Item) Details() ItemDetails {
	return ItemDetails{
		Name:        i.Name,
		Price:       i.PriceWei,
		IsSold:      i.Status != StatusListed,
		Buyer:       i.Buyer,
		Seller:      i.Seller,
		IsConfirmed: i.Status == StatusConfirmed,
		Status:      string(i.Status),
	}
}
