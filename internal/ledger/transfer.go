package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborbank/ledger/internal/domain"
	"github.com/harborbank/ledger/internal/store"
)

// maxAttempts bounds every conflict-retry loop. The store is the sole
// serialization point, so contention shows up as version conflicts here.
const maxAttempts = 5

// Engine moves money between accounts. Concurrency is arbitrated entirely
// through the store's version check: there are no locks, only bounded
// read-compute-save retries.
type Engine struct {
	accounts store.Accounts
}

func NewEngine(accounts store.Accounts) *Engine {
	return &Engine{accounts: accounts}
}

// Transfer debits amount from the account owned by from and credits it to
// the account owned by to. Both balances change or neither does, except for
// the reconciliation case documented on PartialTransferError.
func (e *Engine) Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error {
	if !domain.ValidAmount(amount) {
		return ErrInvalidAmount
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		src, err := e.accounts.FindByOwner(ctx, from)
		if err != nil {
			return notFound(err, from)
		}
		if _, err := e.accounts.FindByOwner(ctx, to); err != nil {
			return notFound(err, to)
		}

		if from == to {
			// Debit and credit cancel out; skip the writes rather than
			// burn two version bumps on a zero net change.
			return nil
		}

		newBalance := src.Balance.Sub(amount)
		if newBalance.IsNegative() {
			return &InsufficientFundsError{Owner: from, Amount: amount}
		}

		src.Balance = newBalance
		if _, err := e.accounts.Save(ctx, src); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				// A concurrent writer got in first. Restart with fresh
				// reads of both sides so its state is observed.
				continue
			}
			return err
		}

		return e.credit(ctx, to, amount)
	}
	return ErrConcurrencyExhausted
}

// credit applies the second leg. The debit is already persisted at this
// point, so the credit is retried on its own budget and never rolled back;
// exhaustion surfaces as a PartialTransferError naming the leg.
func (e *Engine) credit(ctx context.Context, to uuid.UUID, amount decimal.Decimal) error {
	var last error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		dst, err := e.accounts.FindByOwner(ctx, to)
		if err != nil {
			last = err
			break
		}
		dst.Balance = dst.Balance.Add(amount)
		if _, err := e.accounts.Save(ctx, dst); err != nil {
			last = err
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			break
		}
		return nil
	}
	return &PartialTransferError{Leg: LegCredit, Owner: to, Amount: amount, Err: last}
}

func notFound(err error, owner uuid.UUID) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Owner: owner}
	}
	return err
}
