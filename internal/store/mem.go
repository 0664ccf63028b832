package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborbank/ledger/internal/domain"
)

// Mem is an in-memory store implementing Accounts, Users and Contacts with
// the same semantics as the postgres implementations, including the
// version-conflict check on account saves. It backs the unit tests, which
// must run without a live database.
type Mem struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]domain.Account
	users    map[uuid.UUID]domain.User
	emails   map[uuid.UUID]domain.EmailRecord
	phones   map[uuid.UUID]domain.PhoneRecord
}

func NewMem() *Mem {
	return &Mem{
		accounts: make(map[uuid.UUID]domain.Account),
		users:    make(map[uuid.UUID]domain.User),
		emails:   make(map[uuid.UUID]domain.EmailRecord),
		phones:   make(map[uuid.UUID]domain.PhoneRecord),
	}
}

// PutAccount seeds an account directly, bypassing user creation. Test helper.
func (m *Mem) PutAccount(acc domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acc.Owner] = acc
}

func (m *Mem) FindByOwner(_ context.Context, owner uuid.UUID) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[owner]
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	return acc, nil
}

func (m *Mem) Save(_ context.Context, acc domain.Account) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.accounts[acc.Owner]
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	if cur.Version != acc.Version {
		return domain.Account{}, ErrVersionConflict
	}
	acc.Version++
	m.accounts[acc.Owner] = acc
	return acc, nil
}

func (m *Mem) All(_ context.Context) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accs := make([]domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool {
		return accs[i].Owner.String() < accs[j].Owner.String()
	})
	return accs, nil
}

func (m *Mem) Create(_ context.Context, u domain.User, email, phone string, initialBalance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if other.Login == u.Login {
			return fmt.Errorf("login %q: %w", u.Login, ErrDupLogin)
		}
	}
	for _, rec := range m.emails {
		if rec.Email == email {
			return fmt.Errorf("email %q: %w", email, ErrDupEmail)
		}
	}
	for _, rec := range m.phones {
		if rec.Phone == phone {
			return fmt.Errorf("phone %q: %w", phone, ErrDupPhone)
		}
	}
	m.users[u.ID] = u
	em := domain.EmailRecord{ID: uuid.New(), Owner: u.ID, Email: email}
	m.emails[em.ID] = em
	ph := domain.PhoneRecord{ID: uuid.New(), Owner: u.ID, Phone: phone}
	m.phones[ph.ID] = ph
	m.accounts[u.ID] = domain.Account{
		Owner:          u.ID,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
	}
	return nil
}

func (m *Mem) FindByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Mem) Update(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *Mem) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *Mem) Search(_ context.Context, f UserFilter) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.User
	for _, u := range m.users {
		if f.DateOfBirthAfter != nil && !u.DateOfBirth.After(*f.DateOfBirthAfter) {
			continue
		}
		if f.NamePrefix != "" && !strings.HasPrefix(u.Name, f.NamePrefix) {
			continue
		}
		if f.Email != "" && !m.ownerHasEmail(u.ID, f.Email) {
			continue
		}
		if f.Phone != "" && !m.ownerHasPhone(u.ID, f.Phone) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})

	size := f.Size
	if size <= 0 {
		size = 20
	}
	page := f.Page
	if page < 0 {
		page = 0
	}
	lo := page * size
	if lo >= len(out) {
		return nil, nil
	}
	hi := lo + size
	if hi > len(out) {
		hi = len(out)
	}
	return out[lo:hi], nil
}

func (m *Mem) ownerHasEmail(owner uuid.UUID, email string) bool {
	for _, rec := range m.emails {
		if rec.Owner == owner && rec.Email == email {
			return true
		}
	}
	return false
}

func (m *Mem) ownerHasPhone(owner uuid.UUID, phone string) bool {
	for _, rec := range m.phones {
		if rec.Owner == owner && rec.Phone == phone {
			return true
		}
	}
	return false
}

func (m *Mem) EmailsByOwner(_ context.Context, owner uuid.UUID) ([]domain.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var recs []domain.EmailRecord
	for _, rec := range m.emails {
		if rec.Owner == owner {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Email < recs[j].Email })
	return recs, nil
}

func (m *Mem) FindEmail(_ context.Context, id uuid.UUID) (domain.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.emails[id]
	if !ok {
		return domain.EmailRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Mem) AddEmail(_ context.Context, rec domain.EmailRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.emails {
		if other.Email == rec.Email {
			return fmt.Errorf("email %q: %w", rec.Email, ErrDupEmail)
		}
	}
	m.emails[rec.ID] = rec
	return nil
}

func (m *Mem) UpdateEmail(_ context.Context, rec domain.EmailRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.emails[rec.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range m.emails {
		if id != rec.ID && other.Email == rec.Email {
			return fmt.Errorf("email %q: %w", rec.Email, ErrDupEmail)
		}
	}
	cur.Email = rec.Email
	m.emails[rec.ID] = cur
	return nil
}

func (m *Mem) DeleteEmail(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emails[id]; !ok {
		return ErrNotFound
	}
	delete(m.emails, id)
	return nil
}

func (m *Mem) PhonesByOwner(_ context.Context, owner uuid.UUID) ([]domain.PhoneRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var recs []domain.PhoneRecord
	for _, rec := range m.phones {
		if rec.Owner == owner {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Phone < recs[j].Phone })
	return recs, nil
}

func (m *Mem) FindPhone(_ context.Context, id uuid.UUID) (domain.PhoneRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.phones[id]
	if !ok {
		return domain.PhoneRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Mem) AddPhone(_ context.Context, rec domain.PhoneRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.phones {
		if other.Phone == rec.Phone {
			return fmt.Errorf("phone %q: %w", rec.Phone, ErrDupPhone)
		}
	}
	m.phones[rec.ID] = rec
	return nil
}

func (m *Mem) UpdatePhone(_ context.Context, rec domain.PhoneRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.phones[rec.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range m.phones {
		if id != rec.ID && other.Phone == rec.Phone {
			return fmt.Errorf("phone %q: %w", rec.Phone, ErrDupPhone)
		}
	}
	cur.Phone = rec.Phone
	m.phones[rec.ID] = cur
	return nil
}

func (m *Mem) DeletePhone(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.phones[id]; !ok {
		return ErrNotFound
	}
	delete(m.phones, id)
	return nil
}
