package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborbank/ledger/internal/domain"
)

type PGContacts struct {
	db *pgxpool.Pool
}

func NewPGContacts(db *pgxpool.Pool) *PGContacts { return &PGContacts{db: db} }

func (s *PGContacts) EmailsByOwner(ctx context.Context, owner uuid.UUID) ([]domain.EmailRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, email FROM email_data WHERE user_id=$1 ORDER BY email`, owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.EmailRecord
	for rows.Next() {
		var rec domain.EmailRecord
		if err := rows.Scan(&rec.ID, &rec.Owner, &rec.Email); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *PGContacts) FindEmail(ctx context.Context, id uuid.UUID) (domain.EmailRecord, error) {
	var rec domain.EmailRecord
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, email FROM email_data WHERE id=$1`, id,
	).Scan(&rec.ID, &rec.Owner, &rec.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EmailRecord{}, ErrNotFound
		}
		return domain.EmailRecord{}, err
	}
	return rec, nil
}

func (s *PGContacts) AddEmail(ctx context.Context, rec domain.EmailRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO email_data(id, user_id, email) VALUES($1,$2,$3)`,
		rec.ID, rec.Owner, rec.Email,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %q: %w", rec.Email, ErrDupEmail)
	}
	return err
}

func (s *PGContacts) UpdateEmail(ctx context.Context, rec domain.EmailRecord) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE email_data SET email=$1 WHERE id=$2`, rec.Email, rec.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", rec.Email, ErrDupEmail)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGContacts) DeleteEmail(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM email_data WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGContacts) PhonesByOwner(ctx context.Context, owner uuid.UUID) ([]domain.PhoneRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, phone FROM phone_data WHERE user_id=$1 ORDER BY phone`, owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.PhoneRecord
	for rows.Next() {
		var rec domain.PhoneRecord
		if err := rows.Scan(&rec.ID, &rec.Owner, &rec.Phone); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *PGContacts) FindPhone(ctx context.Context, id uuid.UUID) (domain.PhoneRecord, error) {
	var rec domain.PhoneRecord
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, phone FROM phone_data WHERE id=$1`, id,
	).Scan(&rec.ID, &rec.Owner, &rec.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PhoneRecord{}, ErrNotFound
		}
		return domain.PhoneRecord{}, err
	}
	return rec, nil
}

func (s *PGContacts) AddPhone(ctx context.Context, rec domain.PhoneRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO phone_data(id, user_id, phone) VALUES($1,$2,$3)`,
		rec.ID, rec.Owner, rec.Phone,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("phone %q: %w", rec.Phone, ErrDupPhone)
	}
	return err
}

func (s *PGContacts) UpdatePhone(ctx context.Context, rec domain.PhoneRecord) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE phone_data SET phone=$1 WHERE id=$2`, rec.Phone, rec.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone %q: %w", rec.Phone, ErrDupPhone)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGContacts) DeletePhone(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM phone_data WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
