package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount rejects transfer amounts that are not strictly
	// positive or carry more than two fractional digits.
	ErrInvalidAmount = errors.New("amount must be positive with at most 2 decimal places")
	// ErrConcurrencyExhausted is surfaced after the bounded retry budget is
	// spent on version conflicts. The whole operation can be retried later.
	ErrConcurrencyExhausted = errors.New("too many concurrent writes, retry later")
)

// Leg names the transfer write that was left dangling. Only the credit
// side can dangle: a debit failure aborts before anything is persisted and
// surfaces as ErrConcurrencyExhausted, never as a partial transfer.
type Leg string

const LegCredit Leg = "credit"

type NotFoundError struct {
	Owner uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account not found for user %s", e.Owner)
}

type InsufficientFundsError struct {
	Owner  uuid.UUID
	Amount decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("user %s has insufficient funds for transfer of %s", e.Owner, e.Amount)
}

// PartialTransferError means the debit leg was persisted but the credit leg
// could not be, even after its own retry budget. The pair is out of balance
// and needs reconciliation; it is never silently dropped.
type PartialTransferError struct {
	Leg    Leg
	Owner  uuid.UUID
	Amount decimal.Decimal
	Err    error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("transfer %s leg failed for user %s (amount %s): %v", e.Leg, e.Owner, e.Amount, e.Err)
}

func (e *PartialTransferError) Unwrap() error { return e.Err }
