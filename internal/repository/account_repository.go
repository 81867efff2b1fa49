package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
	"github.com/Vaishnavi024/escrow-marketplace/internal/utils"
)

type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts an account with a freshly generated address and
// returns it. The address is the caller identity the escrow engine
// sees; it is generated server-side and never changes.
func (r *AccountRepo) Create(ctx context.Context, email, password string, cost int) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.Account{}, err
	}
	addr, err := utils.NewAddress()
	if err != nil {
		return model.Account{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (address, email, password_hash) VALUES (?,?,?)",
		addr, email, hash)
	if err != nil {
		if isDuplicate(err) {
			return model.Account{}, ErrEmailExists
		}
		return model.Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{ID: uint64(id), Address: addr, Email: email, PasswordHash: hash, IsActive: true}, nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,address,email,password_hash,is_active,created_at,updated_at FROM accounts WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Address, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByAddress fetches an account by its hex address.
func (r *AccountRepo) GetByAddress(ctx context.Context, address string) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,address,email,password_hash,is_active,created_at,updated_at FROM accounts WHERE address=? LIMIT 1",
		address).Scan(&a.ID, &a.Address, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,address,email,password_hash,is_active,created_at,updated_at FROM accounts WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Address, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
