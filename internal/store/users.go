package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/harborbank/ledger/internal/domain"
)

type PGUsers struct {
	db *pgxpool.Pool
}

func NewPGUsers(db *pgxpool.Pool) *PGUsers { return &PGUsers{db: db} }

func (s *PGUsers) Create(ctx context.Context, u domain.User, email, phone string, initialBalance decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users(id, login, password_hash, name, date_of_birth)
		 VALUES($1,$2,$3,$4,$5)`,
		u.ID, u.Login, u.PasswordHash, u.Name, u.DateOfBirth,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("login %q: %w", u.Login, ErrDupLogin)
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO email_data(id, user_id, email) VALUES($1,$2,$3)`,
		uuid.New(), u.ID, email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", email, ErrDupEmail)
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO phone_data(id, user_id, phone) VALUES($1,$2,$3)`,
		uuid.New(), u.ID, phone,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone %q: %w", phone, ErrDupPhone)
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts(owner_id, balance, initial_balance, version)
		 VALUES($1,$2,$2,0)`,
		u.ID, initialBalance,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PGUsers) FindByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		`SELECT id, login, password_hash, name, date_of_birth FROM users WHERE id=$1`,
		id,
	).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Name, &u.DateOfBirth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *PGUsers) Update(ctx context.Context, u domain.User) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET name=$1, password_hash=$2, date_of_birth=$3 WHERE id=$4`,
		u.Name, u.PasswordHash, u.DateOfBirth, u.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGUsers) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

// Search composes the optional filters into one WHERE clause, pages by
// LIMIT/OFFSET and orders by id so pages are stable.
func (s *PGUsers) Search(ctx context.Context, f UserFilter) ([]domain.User, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.DateOfBirthAfter != nil {
		conds = append(conds, "u.date_of_birth > "+arg(*f.DateOfBirthAfter))
	}
	if f.NamePrefix != "" {
		conds = append(conds, "u.name LIKE "+arg(f.NamePrefix+"%"))
	}
	if f.Email != "" {
		conds = append(conds, "EXISTS(SELECT 1 FROM email_data e WHERE e.user_id=u.id AND e.email="+arg(f.Email)+")")
	}
	if f.Phone != "" {
		conds = append(conds, "EXISTS(SELECT 1 FROM phone_data p WHERE p.user_id=u.id AND p.phone="+arg(f.Phone)+")")
	}

	query := `SELECT u.id, u.login, u.password_hash, u.name, u.date_of_birth FROM users u`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	size := f.Size
	if size <= 0 {
		size = 20
	}
	page := f.Page
	if page < 0 {
		page = 0
	}
	query += " ORDER BY u.id LIMIT " + arg(size) + " OFFSET " + arg(page*size)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Name, &u.DateOfBirth); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
