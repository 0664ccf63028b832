package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborbank/ledger/internal/domain"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned by Save when the stored version no
	// longer matches the version the caller read. The caller re-reads and
	// retries; the stale write is never applied.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicate is returned when a unique value (login, email, phone)
	// is already taken. The per-field sentinels below wrap it, so callers
	// can match the specific field or the general condition.
	ErrDuplicate = errors.New("duplicate value")

	ErrDupLogin = fmt.Errorf("login taken: %w", ErrDuplicate)
	ErrDupEmail = fmt.Errorf("email taken: %w", ErrDuplicate)
	ErrDupPhone = fmt.Errorf("phone taken: %w", ErrDuplicate)
)

// Accounts is the persistence contract the transfer engine and the accrual
// sweep operate through. Save must be atomic per account and must reject a
// write whose version no longer matches the stored one.
type Accounts interface {
	FindByOwner(ctx context.Context, owner uuid.UUID) (domain.Account, error)
	// Save persists acc's balance if acc.Version still matches the stored
	// version, bumps the version and returns the updated record.
	Save(ctx context.Context, acc domain.Account) (domain.Account, error)
	All(ctx context.Context) ([]domain.Account, error)
}

// UserFilter narrows a user search. Zero-valued fields are ignored.
type UserFilter struct {
	DateOfBirthAfter *time.Time
	NamePrefix       string
	Email            string
	Phone            string
	Page             int
	Size             int
}

type Users interface {
	// Create inserts the user together with its first email, first phone
	// and its account (balance = initialBalance) in one atomic step.
	Create(ctx context.Context, u domain.User, email, phone string, initialBalance decimal.Decimal) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Update(ctx context.Context, u domain.User) error
	Search(ctx context.Context, f UserFilter) ([]domain.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Contacts interface {
	EmailsByOwner(ctx context.Context, owner uuid.UUID) ([]domain.EmailRecord, error)
	FindEmail(ctx context.Context, id uuid.UUID) (domain.EmailRecord, error)
	AddEmail(ctx context.Context, rec domain.EmailRecord) error
	UpdateEmail(ctx context.Context, rec domain.EmailRecord) error
	DeleteEmail(ctx context.Context, id uuid.UUID) error

	PhonesByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhoneRecord, error)
	FindPhone(ctx context.Context, id uuid.UUID) (domain.PhoneRecord, error)
	AddPhone(ctx context.Context, rec domain.PhoneRecord) error
	UpdatePhone(ctx context.Context, rec domain.PhoneRecord) error
	DeletePhone(ctx context.Context, id uuid.UUID) error
}
