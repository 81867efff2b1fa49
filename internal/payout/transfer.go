// Package payout implements the outbound value-transfer primitive the
// escrow engine invokes after committing a withdrawal. The engine has
// already zeroed the withdrawable balance by the time Transfer runs,
// so these implementations must never call back into the engine
// expecting funds to still be there.
package payout

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
	"github.com/Vaishnavi024/escrow-marketplace/internal/repository"
)

// Recorder persists each payout as a transfers row keyed by a fresh
// UUID reference. In a deployment with a real settlement rail this is
// where the rail call would go; the row is the durable record either
// way.
type Recorder struct {
	transfers *repository.TransferRepo
}

// NewRecorder returns a Recorder writing through the given repo.
func NewRecorder(transfers *repository.TransferRepo) *Recorder {
	if transfers == nil {
		panic("nil transfer repo passed to payout.NewRecorder")
	}
	return &Recorder{transfers: transfers}
}

// Transfer records the payout and returns its reference.
func (r *Recorder) Transfer(ctx context.Context, to string, amount uint64) (string, error) {
	t := &model.Transfer{
		Reference: uuid.NewString(),
		ToAddr:    to,
		AmountWei: amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.transfers.Create(ctx, t); err != nil {
		return "", err
	}
	log.Printf("payout: transferred %d to %s (ref=%s)", amount, to, t.Reference)
	return t.Reference, nil
}

// LogOnly is the payout sink for the memory store driver. It records
// nothing durable and always succeeds.
type LogOnly struct{}

func (LogOnly) Transfer(ctx context.Context, to string, amount uint64) (string, error) {
	ref := uuid.NewString()
	log.Printf("payout: transferred %d to %s (ref=%s)", amount, to, ref)
	return ref, nil
}
