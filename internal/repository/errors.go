// Package repository implements MySQL-backed persistence for items,
// balances, accounts, refresh tokens and transfers. Repositories
// expose Tx-scoped variants of their mutating methods so the escrow
// store can compose them inside a single database transaction; the
// caller owns commit and rollback. Storage-level failures are mapped
// to the escrow package's sentinel errors where the engine defines a
// meaning for them (ErrNotFound, ErrAlreadyListed).
package repository

import "strings"

// isDuplicate reports whether err is a MySQL duplicate-entry violation
// (error 1062), which signals a unique-key conflict on insert.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
