package escrow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Vaishnavi024/escrow-marketplace/internal/escrow"
	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
	"github.com/Vaishnavi024/escrow-marketplace/internal/store"
)

const (
	seller   = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	buyer    = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	stranger = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// stubTransfer implements escrow.Transferor for tests. It can be made
// to fail, and can run an arbitrary callback mid-transfer to model a
// re-entrant call into the engine.
type stubTransfer struct {
	calls  int
	fail   bool
	during func()
}

func (s *stubTransfer) Transfer(ctx context.Context, to string, amount uint64) (string, error) {
	if s.during != nil {
		s.during()
	}
	if s.fail {
		return "", errors.New("rail unavailable")
	}
	s.calls++
	return fmt.Sprintf("ref-%d", s.calls), nil
}

func newEngine(t *testing.T) (*escrow.Engine, *stubTransfer) {
	t.Helper()
	tr := &stubTransfer{}
	return escrow.New(store.NewMemory(), tr), tr
}

func TestListThenDetails(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	d, err := eng.GetItemDetails(ctx, "Widget")
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if d.IsSold || d.IsConfirmed {
		t.Errorf("fresh listing should be unsold and unconfirmed, got %+v", d)
	}
	if d.Buyer != "" {
		t.Errorf("fresh listing should have no buyer, got %q", d.Buyer)
	}
	if d.Price != 100 || d.Seller != seller {
		t.Errorf("unexpected details: %+v", d)
	}
}

func TestListDuplicateName(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("first list failed: %v", err)
	}
	// A different price or seller makes no difference.
	if _, err := eng.ListItem(ctx, stranger, "Widget", 250); !errors.Is(err, escrow.ErrAlreadyListed) {
		t.Errorf("expected ErrAlreadyListed, got %v", err)
	}
}

func TestListValidation(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 0); !errors.Is(err, escrow.ErrInvalidPrice) {
		t.Errorf("zero price: expected ErrInvalidPrice, got %v", err)
	}
	if _, err := eng.ListItem(ctx, seller, "   ", 10); !errors.Is(err, escrow.ErrInvalidName) {
		t.Errorf("blank name: expected ErrInvalidName, got %v", err)
	}
}

func TestBuyWrongAmountLeavesListed(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 99); !errors.Is(err, escrow.ErrWrongAmount) {
		t.Fatalf("expected ErrWrongAmount, got %v", err)
	}

	d, err := eng.GetItemDetails(ctx, "Widget")
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if d.IsSold {
		t.Errorf("failed buy must leave the item listed, got %+v", d)
	}
}

func TestBuyNotFound(t *testing.T) {
	eng, _ := newEngine(t)
	if _, err := eng.BuyItem(context.Background(), buyer, "Ghost", 100); !errors.Is(err, escrow.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSelfPurchase(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, seller, "Widget", 100); !errors.Is(err, escrow.ErrSelfPurchase) {
		t.Errorf("expected ErrSelfPurchase, got %v", err)
	}
}

func TestDoubleBuy(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, stranger, "Widget", 100); !errors.Is(err, escrow.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for second buy, got %v", err)
	}
}

func TestHappyPath(t *testing.T) {
	eng, tr := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	// No credit until confirmation: funds sit in custody.
	if b, _ := eng.Balance(ctx, seller); b != 0 {
		t.Fatalf("seller balance before confirmation = %d, want 0", b)
	}

	item, err := eng.ConfirmReceipt(ctx, buyer, "Widget")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if item.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", item.Status)
	}
	if b, _ := eng.Balance(ctx, seller); b != 100 {
		t.Fatalf("seller balance after confirmation = %d, want 100", b)
	}

	w, err := eng.WithdrawFunds(ctx, seller)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if w.Amount != 100 {
		t.Errorf("withdrew %d, want 100", w.Amount)
	}
	if tr.calls != 1 {
		t.Errorf("expected exactly one transfer, got %d", tr.calls)
	}

	if _, err := eng.WithdrawFunds(ctx, seller); !errors.Is(err, escrow.ErrNothingToWithdraw) {
		t.Errorf("second withdrawal: expected ErrNothingToWithdraw, got %v", err)
	}
}

func TestMultipleSalesAccumulate(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	for i, price := range []uint64{100, 250} {
		name := fmt.Sprintf("Widget-%d", i)
		if _, err := eng.ListItem(ctx, seller, name, price); err != nil {
			t.Fatalf("list %s failed: %v", name, err)
		}
		if _, err := eng.BuyItem(ctx, buyer, name, price); err != nil {
			t.Fatalf("buy %s failed: %v", name, err)
		}
		if _, err := eng.ConfirmReceipt(ctx, buyer, name); err != nil {
			t.Fatalf("confirm %s failed: %v", name, err)
		}
	}

	w, err := eng.WithdrawFunds(ctx, seller)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if w.Amount != 350 {
		t.Errorf("withdrew %d, want accumulated 350", w.Amount)
	}
}

func TestDisputeFreezesFunds(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	item, err := eng.RaiseDispute(ctx, buyer, "Widget")
	if err != nil {
		t.Fatalf("dispute failed: %v", err)
	}
	if item.Status != model.StatusDisputed {
		t.Errorf("status = %s, want DISPUTED", item.Status)
	}
	if b, _ := eng.Balance(ctx, seller); b != 0 {
		t.Errorf("seller balance after dispute = %d, want 0 (frozen)", b)
	}

	// Disputed is terminal.
	if _, err := eng.ConfirmReceipt(ctx, buyer, "Widget"); !errors.Is(err, escrow.ErrInvalidState) {
		t.Errorf("confirm on disputed: expected ErrInvalidState, got %v", err)
	}
	if _, err := eng.RaiseDispute(ctx, seller, "Widget"); !errors.Is(err, escrow.ErrInvalidState) {
		t.Errorf("re-dispute: expected ErrInvalidState, got %v", err)
	}
}

func TestDisputeBySeller(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.RaiseDispute(ctx, seller, "Widget"); err != nil {
		t.Errorf("seller must be allowed to dispute, got %v", err)
	}
}

func TestDisputeByStranger(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.RaiseDispute(ctx, stranger, "Widget"); !errors.Is(err, escrow.ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}

func TestConfirmByNonBuyer(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.ConfirmReceipt(ctx, seller, "Widget"); !errors.Is(err, escrow.ErrNotBuyer) {
		t.Errorf("expected ErrNotBuyer, got %v", err)
	}
}

func TestConfirmBeforeSale(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.ConfirmReceipt(ctx, buyer, "Widget"); !errors.Is(err, escrow.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestNameBlockedAfterConfirm(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.ConfirmReceipt(ctx, buyer, "Widget"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	// Sale history is preserved; the name stays blocked even after a
	// completed sale.
	if _, err := eng.ListItem(ctx, seller, "Widget", 100); !errors.Is(err, escrow.ErrAlreadyListed) {
		t.Errorf("expected ErrAlreadyListed after confirmed sale, got %v", err)
	}
}

func TestReentrantWithdrawal(t *testing.T) {
	eng, tr := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.ConfirmReceipt(ctx, buyer, "Widget"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	// The transfer callback re-enters the engine; the balance was
	// zeroed and committed before the transfer ran, so the nested call
	// must find nothing left.
	var nestedErr error
	tr.during = func() {
		tr.during = nil // only re-enter once
		_, nestedErr = eng.WithdrawFunds(ctx, seller)
	}

	w, err := eng.WithdrawFunds(ctx, seller)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if w.Amount != 100 {
		t.Errorf("withdrew %d, want 100", w.Amount)
	}
	if !errors.Is(nestedErr, escrow.ErrNothingToWithdraw) {
		t.Errorf("nested withdrawal: expected ErrNothingToWithdraw, got %v", nestedErr)
	}
	if tr.calls != 1 {
		t.Errorf("expected exactly one transfer, got %d", tr.calls)
	}
}

func TestFailedTransferRestoresBalance(t *testing.T) {
	eng, tr := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := eng.BuyItem(ctx, buyer, "Widget", 100); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.ConfirmReceipt(ctx, buyer, "Widget"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	tr.fail = true
	if _, err := eng.WithdrawFunds(ctx, seller); err == nil {
		t.Fatal("expected withdraw to surface the transfer failure")
	}

	// The zeroed amount must have been credited back.
	if b, _ := eng.Balance(ctx, seller); b != 100 {
		t.Errorf("balance after failed payout = %d, want 100", b)
	}

	tr.fail = false
	if w, err := eng.WithdrawFunds(ctx, seller); err != nil || w.Amount != 100 {
		t.Errorf("retry withdraw = (%+v, %v), want amount 100", w, err)
	}
}

func TestDetailsIdempotent(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	if _, err := eng.ListItem(ctx, seller, "Widget", 100); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	first, err := eng.GetItemDetails(ctx, "Widget")
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	second, err := eng.GetItemDetails(ctx, "Widget")
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	if first != second {
		t.Errorf("repeated reads differ: %+v vs %+v", first, second)
	}
}

func TestDetailsNotFound(t *testing.T) {
	eng, _ := newEngine(t)
	if _, err := eng.GetItemDetails(context.Background(), "Ghost"); !errors.Is(err, escrow.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
