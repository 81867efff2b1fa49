package repository

import (
	"context"
	"database/sql"
	"errors"
)

// BalanceRepo provides access to the balances table, one row per
// owner address. Credits and drains always run inside a transaction
// shared with the item transition that caused them, so a failed call
// leaves the balance untouched.
type BalanceRepo struct{ DB *sql.DB }

// NewBalanceRepo returns a BalanceRepo bound to the given database.
func NewBalanceRepo(db *sql.DB) *BalanceRepo { return &BalanceRepo{DB: db} }

// GetTx reads the owner's withdrawable balance inside an existing
// transaction. A missing row means zero.
func (r *BalanceRepo) GetTx(ctx context.Context, tx *sql.Tx, owner string) (uint64, error) {
	var amount uint64
	err := tx.QueryRowContext(ctx,
		"SELECT amount_wei FROM balances WHERE owner_addr=?", owner).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// Get reads the owner's withdrawable balance outside any transaction.
func (r *BalanceRepo) Get(ctx context.Context, owner string) (uint64, error) {
	var amount uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT amount_wei FROM balances WHERE owner_addr=?", owner).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// CreditTx adds amount to the owner's balance inside an existing
// transaction, creating the row on first credit.
func (r *BalanceRepo) CreditTx(ctx context.Context, tx *sql.Tx, owner string, amount uint64) error {
	const q = `INSERT INTO balances (owner_addr, amount_wei) VALUES (?,?)
	           ON DUPLICATE KEY UPDATE amount_wei = amount_wei + VALUES(amount_wei)`
	_, err := tx.ExecContext(ctx, q, owner, amount)
	return err
}

// DrainTx zeroes the owner's balance inside an existing transaction
// and returns the amount that was held. The row is locked for update
// first so the read and the zeroing are a single atomic step.
func (r *BalanceRepo) DrainTx(ctx context.Context, tx *sql.Tx, owner string) (uint64, error) {
	var amount uint64
	err := tx.QueryRowContext(ctx,
		"SELECT amount_wei FROM balances WHERE owner_addr=? FOR UPDATE", owner).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, nil
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE balances SET amount_wei=0 WHERE owner_addr=?", owner); err != nil {
		return 0, err
	}
	return amount, nil
}
