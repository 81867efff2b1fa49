package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Vaishnavi024/escrow-marketplace/internal/escrow"
	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
)

// MySQLStore implements escrow.Store on top of the items and balances
// repositories. Every Update runs inside one database transaction, so
// an item transition and the balance credit it causes become visible
// together or not at all.
type MySQLStore struct {
	db       *sql.DB
	items    *ItemRepo
	balances *BalanceRepo
}

// NewMySQLStore returns a store bound to the given database.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{
		db:       db,
		items:    NewItemRepo(db),
		balances: NewBalanceRepo(db),
	}
}

// Update runs fn inside a read-write transaction, committing only when
// fn returns nil.
func (s *MySQLStore) Update(ctx context.Context, fn func(tx escrow.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqlTx{tx: tx, items: s.items, balances: s.balances}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// View runs fn inside a read-only transaction that is always rolled
// back.
func (s *MySQLStore) View(ctx context.Context, fn func(tx escrow.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	return fn(&sqlTx{tx: tx, items: s.items, balances: s.balances, readOnly: true})
}

// sqlTx adapts the Tx-scoped repository methods to the escrow.Tx
// interface.
type sqlTx struct {
	tx       *sql.Tx
	items    *ItemRepo
	balances *BalanceRepo
	readOnly bool
}

func (t *sqlTx) GetItem(ctx context.Context, name string) (*model.Item, error) {
	if t.readOnly {
		const q = "SELECT " + itemColumns + " FROM items WHERE name=?"
		return scanItem(t.tx.QueryRowContext(ctx, q, name))
	}
	return t.items.GetTx(ctx, t.tx, name)
}

func (t *sqlTx) CreateItem(ctx context.Context, it *model.Item) error {
	return t.items.CreateTx(ctx, t.tx, it)
}

func (t *sqlTx) UpdateItem(ctx context.Context, it *model.Item) error {
	return t.items.UpdateTx(ctx, t.tx, it)
}

func (t *sqlTx) GetBalance(ctx context.Context, owner string) (uint64, error) {
	return t.balances.GetTx(ctx, t.tx, owner)
}

func (t *sqlTx) CreditBalance(ctx context.Context, owner string, amount uint64) error {
	return t.balances.CreditTx(ctx, t.tx, owner, amount)
}

func (t *sqlTx) DrainBalance(ctx context.Context, owner string) (uint64, error) {
	return t.balances.DrainTx(ctx, t.tx, owner)
}
