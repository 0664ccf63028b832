package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborbank/ledger/internal/domain"
)

// PGAccounts is the postgres-backed Accounts implementation. Optimistic
// concurrency is a conditional UPDATE on the version column: zero rows
// affected with an existing row means somebody else wrote first.
type PGAccounts struct {
	db *pgxpool.Pool
}

func NewPGAccounts(db *pgxpool.Pool) *PGAccounts { return &PGAccounts{db: db} }

func (s *PGAccounts) FindByOwner(ctx context.Context, owner uuid.UUID) (domain.Account, error) {
	var acc domain.Account
	err := s.db.QueryRow(ctx,
		`SELECT owner_id, balance, initial_balance, version
		   FROM accounts WHERE owner_id=$1`,
		owner,
	).Scan(&acc.Owner, &acc.Balance, &acc.InitialBalance, &acc.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}
	return acc, nil
}

func (s *PGAccounts) Save(ctx context.Context, acc domain.Account) (domain.Account, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE accounts SET balance=$1, version=version+1
		  WHERE owner_id=$2 AND version=$3`,
		acc.Balance, acc.Owner, acc.Version,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM accounts WHERE owner_id=$1)`, acc.Owner,
		).Scan(&exists)
		if err != nil {
			return domain.Account{}, err
		}
		if !exists {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, ErrVersionConflict
	}
	acc.Version++
	return acc, nil
}

func (s *PGAccounts) All(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx,
		`SELECT owner_id, balance, initial_balance, version FROM accounts ORDER BY owner_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accs []domain.Account
	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(&acc.Owner, &acc.Balance, &acc.InitialBalance, &acc.Version); err != nil {
			return nil, err
		}
		accs = append(accs, acc)
	}
	return accs, rows.Err()
}

// isUniqueViolation reports whether err is a postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
