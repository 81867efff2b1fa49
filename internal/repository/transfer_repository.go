package repository

import (
	"context"
	"database/sql"

	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
)

// TransferRepo records completed payouts in the transfers table. Rows
// are written by the payout recorder after the withdrawable balance
// has already been zeroed and committed.
type TransferRepo struct{ DB *sql.DB }

func NewTransferRepo(db *sql.DB) *TransferRepo { return &TransferRepo{DB: db} }

// Create inserts a transfer row.
func (r *TransferRepo) Create(ctx context.Context, t *model.Transfer) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO transfers (reference, to_addr, amount_wei, created_at) VALUES (?,?,?,?)",
		t.Reference, t.ToAddr, t.AmountWei, t.CreatedAt)
	return err
}

// ListByAddress returns the payout history for an address, newest
// first.
func (r *TransferRepo) ListByAddress(ctx context.Context, addr string) ([]model.Transfer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT reference, to_addr, amount_wei, created_at FROM transfers WHERE to_addr=? ORDER BY created_at DESC",
		addr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Transfer
	for rows.Next() {
		var t model.Transfer
		if err := rows.Scan(&t.Reference, &t.ToAddr, &t.AmountWei, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
