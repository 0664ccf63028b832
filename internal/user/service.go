// Package user implements the profile and contact-record operations around
// the ledger core: signup, profile updates, search, and email/phone
// management. Authentication is out of scope; callers are trusted to pass
// already-authorized user ids.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborbank/ledger/internal/domain"
	"github.com/harborbank/ledger/internal/store"
)

var (
	ErrLoginTaken        = errors.New("login already in use")
	ErrEmailTaken        = errors.New("email already in use")
	ErrPhoneTaken        = errors.New("phone already in use")
	ErrNotOwned          = errors.New("contact record belongs to another user")
	ErrLastContact       = errors.New("a user must keep at least one email and one phone")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrBirthDateInFuture = errors.New("date of birth cannot be in the future")
	ErrNegativeBalance   = errors.New("initial balance cannot be negative")
)

const minPasswordLen = 8

type Service struct {
	users    store.Users
	contacts store.Contacts
}

func NewService(users store.Users, contacts store.Contacts) *Service {
	return &Service{users: users, contacts: contacts}
}

type SignupInput struct {
	Login          string
	Password       string
	Name           string
	DateOfBirth    time.Time
	Email          string
	Phone          string
	InitialBalance decimal.Decimal
}

// Signup creates the user, its first email and phone, and its account in one
// atomic step. The account starts at the initial balance and keeps that
// value forever as the accrual cap base.
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	if len(in.Password) < minPasswordLen {
		return domain.User{}, ErrPasswordTooShort
	}
	if in.DateOfBirth.After(time.Now()) {
		return domain.User{}, ErrBirthDateInFuture
	}
	if in.InitialBalance.IsNegative() {
		return domain.User{}, ErrNegativeBalance
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           uuid.New(),
		Login:        in.Login,
		PasswordHash: string(hash),
		Name:         in.Name,
		DateOfBirth:  in.DateOfBirth,
	}
	if err := s.users.Create(ctx, u, in.Email, in.Phone, domain.RoundMoney(in.InitialBalance)); err != nil {
		return domain.User{}, mapDuplicate(err)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f store.UserFilter) ([]domain.User, error) {
	return s.users.Search(ctx, f)
}

func (s *Service) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Name = name
	return s.users.Update(ctx, u)
}

func (s *Service) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return s.users.Update(ctx, u)
}

func (s *Service) UpdateDateOfBirth(ctx context.Context, id uuid.UUID, dob time.Time) error {
	if dob.After(time.Now()) {
		return ErrBirthDateInFuture
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.DateOfBirth = dob
	return s.users.Update(ctx, u)
}

// mapDuplicate translates the store's per-field duplicate sentinels into
// the taken-value errors this package exposes.
func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, store.ErrDupLogin):
		return ErrLoginTaken
	case errors.Is(err, store.ErrDupEmail):
		return ErrEmailTaken
	case errors.Is(err, store.ErrDupPhone):
		return ErrPhoneTaken
	default:
		return err
	}
}
