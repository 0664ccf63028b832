package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/harborbank/ledger/internal/domain"
	"github.com/harborbank/ledger/internal/store"
)

func (s *Service) Emails(ctx context.Context, owner uuid.UUID) ([]domain.EmailRecord, error) {
	if err := s.ensureUser(ctx, owner); err != nil {
		return nil, err
	}
	return s.contacts.EmailsByOwner(ctx, owner)
}

func (s *Service) AddEmail(ctx context.Context, owner uuid.UUID, email string) (domain.EmailRecord, error) {
	if err := s.ensureUser(ctx, owner); err != nil {
		return domain.EmailRecord{}, err
	}
	rec := domain.EmailRecord{ID: uuid.New(), Owner: owner, Email: email}
	if err := s.contacts.AddEmail(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDupEmail) {
			return domain.EmailRecord{}, ErrEmailTaken
		}
		return domain.EmailRecord{}, err
	}
	return rec, nil
}

func (s *Service) UpdateEmail(ctx context.Context, owner, id uuid.UUID, email string) (domain.EmailRecord, error) {
	rec, err := s.contacts.FindEmail(ctx, id)
	if err != nil {
		return domain.EmailRecord{}, err
	}
	if rec.Owner != owner {
		return domain.EmailRecord{}, ErrNotOwned
	}
	rec.Email = email
	if err := s.contacts.UpdateEmail(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDupEmail) {
			return domain.EmailRecord{}, ErrEmailTaken
		}
		return domain.EmailRecord{}, err
	}
	return rec, nil
}

// DeleteEmail removes one email record; the user's last email is kept, a
// user must always stay reachable.
func (s *Service) DeleteEmail(ctx context.Context, owner, id uuid.UUID) error {
	rec, err := s.contacts.FindEmail(ctx, id)
	if err != nil {
		return err
	}
	if rec.Owner != owner {
		return ErrNotOwned
	}
	all, err := s.contacts.EmailsByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if len(all) <= 1 {
		return ErrLastContact
	}
	return s.contacts.DeleteEmail(ctx, id)
}

func (s *Service) Phones(ctx context.Context, owner uuid.UUID) ([]domain.PhoneRecord, error) {
	if err := s.ensureUser(ctx, owner); err != nil {
		return nil, err
	}
	return s.contacts.PhonesByOwner(ctx, owner)
}

func (s *Service) AddPhone(ctx context.Context, owner uuid.UUID, phone string) (domain.PhoneRecord, error) {
	if err := s.ensureUser(ctx, owner); err != nil {
		return domain.PhoneRecord{}, err
	}
	rec := domain.PhoneRecord{ID: uuid.New(), Owner: owner, Phone: phone}
	if err := s.contacts.AddPhone(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDupPhone) {
			return domain.PhoneRecord{}, ErrPhoneTaken
		}
		return domain.PhoneRecord{}, err
	}
	return rec, nil
}

func (s *Service) UpdatePhone(ctx context.Context, owner, id uuid.UUID, phone string) (domain.PhoneRecord, error) {
	rec, err := s.contacts.FindPhone(ctx, id)
	if err != nil {
		return domain.PhoneRecord{}, err
	}
	if rec.Owner != owner {
		return domain.PhoneRecord{}, ErrNotOwned
	}
	rec.Phone = phone
	if err := s.contacts.UpdatePhone(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDupPhone) {
			return domain.PhoneRecord{}, ErrPhoneTaken
		}
		return domain.PhoneRecord{}, err
	}
	return rec, nil
}

func (s *Service) DeletePhone(ctx context.Context, owner, id uuid.UUID) error {
	rec, err := s.contacts.FindPhone(ctx, id)
	if err != nil {
		return err
	}
	if rec.Owner != owner {
		return ErrNotOwned
	}
	all, err := s.contacts.PhonesByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if len(all) <= 1 {
		return ErrLastContact
	}
	return s.contacts.DeletePhone(ctx, id)
}

func (s *Service) ensureUser(ctx context.Context, id uuid.UUID) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}
