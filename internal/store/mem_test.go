package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborbank/ledger/internal/domain"
	"github.com/harborbank/ledger/internal/store"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestMemAccountSave(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()
	owner := uuid.New()
	m.PutAccount(domain.Account{
		Owner:          owner,
		Balance:        dec(t, "100.00"),
		InitialBalance: dec(t, "100.00"),
	})

	acc, err := m.FindByOwner(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if acc.Version != 0 {
		t.Fatalf("fresh account version %d", acc.Version)
	}

	acc.Balance = dec(t, "80.00")
	saved, err := m.Save(ctx, acc)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Version != 1 {
		t.Fatalf("save did not bump version: %d", saved.Version)
	}

	// A writer holding the old version must lose.
	acc.Balance = dec(t, "90.00")
	if _, err := m.Save(ctx, acc); !errors.Is(err, store.ErrVersionConflict) {
		t.Fatalf("stale save: got %v", err)
	}

	got, err := m.FindByOwner(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(dec(t, "80.00")) {
		t.Fatalf("stale write landed: %s", got.Balance)
	}
}

func TestMemAccountNotFound(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()

	if _, err := m.FindByOwner(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	if _, err := m.Save(ctx, domain.Account{Owner: uuid.New()}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("save of unknown owner: got %v", err)
	}
}

func TestMemAll(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()
	for i := 0; i < 3; i++ {
		m.PutAccount(domain.Account{Owner: uuid.New(), Balance: dec(t, "10.00"), InitialBalance: dec(t, "10.00")})
	}

	all, err := m.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d accounts", len(all))
	}
}

func TestMemUserLifecycle(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()

	u := domain.User{
		ID:           uuid.New(),
		Login:        "anna",
		PasswordHash: "x",
		Name:         "Anna",
		DateOfBirth:  time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := m.Create(ctx, u, "anna@example.com", "+79990001122", dec(t, "100.00")); err != nil {
		t.Fatal(err)
	}

	// duplicate login, email and phone each come back as their own
	// sentinel, which still matches the generic one
	dupes := []struct {
		name  string
		login string
		email string
		phone string
		want  error
	}{
		{"login", "anna", "other@example.com", "+70000000001", store.ErrDupLogin},
		{"email", "boris", "anna@example.com", "+70000000002", store.ErrDupEmail},
		{"phone", "clara", "clara@example.com", "+79990001122", store.ErrDupPhone},
	}
	for _, d := range dupes {
		err := m.Create(ctx, domain.User{ID: uuid.New(), Login: d.login}, d.email, d.phone, dec(t, "1"))
		if !errors.Is(err, d.want) {
			t.Fatalf("%s dupe: got %v", d.name, err)
		}
		if !errors.Is(err, store.ErrDuplicate) {
			t.Fatalf("%s dupe does not match the generic sentinel: %v", d.name, err)
		}
	}

	// the signup opened an account at the initial balance
	acc, err := m.FindByOwner(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(dec(t, "100.00")) || !acc.InitialBalance.Equal(dec(t, "100.00")) {
		t.Fatalf("account %s/%s", acc.Balance, acc.InitialBalance)
	}

	ok, err := m.Exists(ctx, u.ID)
	if err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}

	u.Name = "Anna K"
	if err := m.Update(ctx, u); err != nil {
		t.Fatal(err)
	}
	got, err := m.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Anna K" {
		t.Fatalf("update lost: %q", got.Name)
	}
}

func TestMemSearchPagination(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()
	for _, login := range []string{"u1", "u2", "u3", "u4", "u5"} {
		u := domain.User{ID: uuid.New(), Login: login, Name: "Pat"}
		if err := m.Create(ctx, u, login+"@example.com", "+7000000000"+login[1:], dec(t, "1")); err != nil {
			t.Fatal(err)
		}
	}

	page0, err := m.Search(ctx, store.UserFilter{NamePrefix: "Pat", Page: 0, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	page1, err := m.Search(ctx, store.UserFilter{NamePrefix: "Pat", Page: 1, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page0) != 2 || len(page1) != 2 {
		t.Fatalf("pages %d/%d", len(page0), len(page1))
	}
	if page0[0].ID == page1[0].ID {
		t.Fatal("pages overlap")
	}

	last, err := m.Search(ctx, store.UserFilter{NamePrefix: "Pat", Page: 2, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 1 {
		t.Fatalf("last page %d", len(last))
	}
}
