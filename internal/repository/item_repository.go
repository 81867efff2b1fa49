package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Vaishnavi024/escrow-marketplace/internal/escrow"
	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
)

// ItemRepo provides access to the items table. An item row is created
// once by a listing and only its status, buyer and updated_at columns
// ever change afterwards; rows are never deleted so the sale history
// of a name stays queryable.
type ItemRepo struct{ DB *sql.DB }

// NewItemRepo returns an ItemRepo bound to the given database.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

const itemColumns = "name, price_wei, seller_addr, buyer_addr, status, created_at, updated_at"

func scanItem(row *sql.Row) (*model.Item, error) {
	var it model.Item
	var status string
	err := row.Scan(&it.Name, &it.PriceWei, &it.Seller, &it.Buyer, &status, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, escrow.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	it.Status = model.ItemStatus(status)
	return &it, nil
}

// GetTx fetches an item by name inside an existing transaction. The
// row is locked for update so concurrent transitions on the same item
// serialize at the database as well.
func (r *ItemRepo) GetTx(ctx context.Context, tx *sql.Tx, name string) (*model.Item, error) {
	const q = "SELECT " + itemColumns + " FROM items WHERE name=? FOR UPDATE"
	return scanItem(tx.QueryRowContext(ctx, q, name))
}

// Get fetches an item by name outside any transaction.
func (r *ItemRepo) Get(ctx context.Context, name string) (*model.Item, error) {
	const q = "SELECT " + itemColumns + " FROM items WHERE name=?"
	return scanItem(r.DB.QueryRowContext(ctx, q, name))
}

// CreateTx inserts a new item row inside an existing transaction.
// Returns escrow.ErrAlreadyListed when the name is already taken in
// any status.
func (r *ItemRepo) CreateTx(ctx context.Context, tx *sql.Tx, it *model.Item) error {
	const q = `INSERT INTO items (name, price_wei, seller_addr, buyer_addr, status, created_at, updated_at)
	           VALUES (?,?,?,?,?,?,?)`
	_, err := tx.ExecContext(ctx, q, it.Name, it.PriceWei, it.Seller, it.Buyer, string(it.Status), it.CreatedAt, it.UpdatedAt)
	if isDuplicate(err) {
		return escrow.ErrAlreadyListed
	}
	return err
}

// UpdateTx persists a status/buyer transition for an existing item
// inside an existing transaction. Name, price and seller are immutable
// and excluded from the statement.
func (r *ItemRepo) UpdateTx(ctx context.Context, tx *sql.Tx, it *model.Item) error {
	const q = "UPDATE items SET buyer_addr=?, status=?, updated_at=? WHERE name=?"
	res, err := tx.ExecContext(ctx, q, it.Buyer, string(it.Status), it.UpdatedAt, it.Name)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		// RowsAffected is also 0 when nothing changed; confirm existence.
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE name=?", it.Name).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return escrow.ErrNotFound
		}
	}
	return nil
}
