package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborbank/ledger/internal/domain"
	"github.com/harborbank/ledger/internal/store"
)

// Default accrual policy: +10% per sweep, capped at 207% of the balance the
// account was created with.
const (
	DefaultRate          = "1.10"
	DefaultCapMultiplier = "2.07"
)

// Accruer applies periodic interest to every account. Each account's step is
// an independent optimistic write; a conflict means a transfer touched the
// balance mid-step, so the step recomputes from the fresh balance instead of
// reapplying a stale delta.
type Accruer struct {
	accounts store.Accounts
	rate     decimal.Decimal
	capMult  decimal.Decimal
}

func NewAccruer(accounts store.Accounts, rate, capMult decimal.Decimal) *Accruer {
	return &Accruer{accounts: accounts, rate: rate, capMult: capMult}
}

// Accrue runs one interest step for a single account and reports whether the
// balance changed. An account at or above its cap is steady state, not an
// error.
func (a *Accruer) Accrue(ctx context.Context, owner uuid.UUID) (bool, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		acc, err := a.accounts.FindByOwner(ctx, owner)
		if err != nil {
			return false, notFound(err, owner)
		}

		next, grew := a.step(acc)
		if !grew {
			return false, nil
		}

		acc.Balance = next
		if _, err := a.accounts.Save(ctx, acc); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return false, err
		}
		return true, nil
	}
	return false, ErrConcurrencyExhausted
}

// step computes the post-accrual balance: min(balance × rate, initial × cap),
// both products rounded half-even to the money scale.
func (a *Accruer) step(acc domain.Account) (decimal.Decimal, bool) {
	limit := domain.RoundMoney(acc.InitialBalance.Mul(a.capMult))
	increased := domain.RoundMoney(acc.Balance.Mul(a.rate))
	next := decimal.Min(increased, limit)
	if next.GreaterThan(acc.Balance) {
		return next, true
	}
	return decimal.Decimal{}, false
}

// Sweep accrues every account once. Failures are isolated per account: one
// exhausted retry budget must not starve the rest, and whatever was skipped
// is picked up by the next scheduled run.
func (a *Accruer) Sweep(ctx context.Context) error {
	accs, err := a.accounts.All(ctx)
	if err != nil {
		return err
	}

	var skipped int
	for _, acc := range accs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := a.Accrue(ctx, acc.Owner); err != nil {
			skipped++
			log.Printf("[accrual] account %s skipped: %v", acc.Owner, err)
		}
	}
	if skipped > 0 {
		return fmt.Errorf("accrual sweep: %d of %d accounts skipped", skipped, len(accs))
	}
	return nil
}

// Run drives Sweep on a fixed period until ctx is canceled.
func (a *Accruer) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	log.Printf("[accrual] loop started, interval=%s rate=%s cap=%s", interval, a.rate, a.capMult)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[accrual] loop stopped: %v", ctx.Err())
			return
		case <-t.C:
			if err := a.Sweep(ctx); err != nil {
				log.Printf("[accrual] %v", err)
			}
		}
	}
}
