package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborbank/ledger/internal/store"
	"github.com/harborbank/ledger/internal/user"
)

func born(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func signup(t *testing.T, svc *user.Service, login, email, phone string) uuid.UUID {
	t.Helper()
	u, err := svc.Signup(context.Background(), user.SignupInput{
		Login:          login,
		Password:       "correct-horse",
		Name:           "Test " + login,
		DateOfBirth:    born(t, "1990-05-01"),
		Email:          email,
		Phone:          phone,
		InitialBalance: decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("signup %s: %v", login, err)
	}
	return u.ID
}

func newService() (*user.Service, *store.Mem) {
	m := store.NewMem()
	return user.NewService(m, m), m
}

func TestSignupCreatesAccount(t *testing.T) {
	svc, m := newService()
	id := signup(t, svc, "alice", "alice@example.com", "79001112233")

	acc, err := m.FindByOwner(context.Background(), id)
	if err != nil {
		t.Fatalf("account missing after signup: %v", err)
	}
	want := decimal.RequireFromString("100.00")
	if !acc.Balance.Equal(want) || !acc.InitialBalance.Equal(want) {
		t.Fatalf("account = %s/%s, want 100.00/100.00", acc.Balance, acc.InitialBalance)
	}

	u, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestSignupRejectsDuplicates(t *testing.T) {
	svc, _ := newService()
	signup(t, svc, "alice", "alice@example.com", "79001112233")

	cases := []struct {
		name                string
		login, email, phone string
		want                error
	}{
		{"login", "alice", "other@example.com", "79009998877", user.ErrLoginTaken},
		{"email", "bob", "alice@example.com", "79009998877", user.ErrEmailTaken},
		{"phone", "bob", "bob@example.com", "79001112233", user.ErrPhoneTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), user.SignupInput{
				Login:          tc.login,
				Password:       "correct-horse",
				Name:           "Dup",
				DateOfBirth:    born(t, "1990-05-01"),
				Email:          tc.email,
				Phone:          tc.phone,
				InitialBalance: decimal.RequireFromString("1.00"),
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Signup(context.Background(), user.SignupInput{
		Login: "bob", Password: "short", Name: "Bob",
		DateOfBirth: born(t, "1990-05-01"),
		Email:       "bob@example.com", Phone: "79000000001",
	})
	if !errors.Is(err, user.ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}

	_, err = svc.Signup(context.Background(), user.SignupInput{
		Login: "bob", Password: "correct-horse", Name: "Bob",
		DateOfBirth: time.Now().Add(24 * time.Hour),
		Email:       "bob@example.com", Phone: "79000000001",
	})
	if !errors.Is(err, user.ErrBirthDateInFuture) {
		t.Fatalf("err = %v, want ErrBirthDateInFuture", err)
	}

	_, err = svc.Signup(context.Background(), user.SignupInput{
		Login: "bob", Password: "correct-horse", Name: "Bob",
		DateOfBirth: born(t, "1990-05-01"),
		Email:       "bob@example.com", Phone: "79000000001",
		InitialBalance: decimal.RequireFromString("-2.00"),
	})
	if !errors.Is(err, user.ErrNegativeBalance) {
		t.Fatalf("err = %v, want ErrNegativeBalance", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newService()
	id := signup(t, svc, "alice", "alice@example.com", "79001112233")
	ctx := context.Background()

	if err := svc.UpdateName(ctx, id, "Alice Renamed"); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateDateOfBirth(ctx, id, born(t, "1991-06-02")); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateDateOfBirth(ctx, id, time.Now().Add(time.Hour)); !errors.Is(err, user.ErrBirthDateInFuture) {
		t.Fatalf("err = %v, want ErrBirthDateInFuture", err)
	}
	if err := svc.UpdatePassword(ctx, id, "tiny"); !errors.Is(err, user.ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}
	if err := svc.UpdatePassword(ctx, id, "brand-new-password"); err != nil {
		t.Fatal(err)
	}

	u, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Alice Renamed" {
		t.Fatalf("name = %q", u.Name)
	}
	if !u.DateOfBirth.Equal(born(t, "1991-06-02")) {
		t.Fatalf("dob = %s", u.DateOfBirth)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("brand-new-password")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestContactRules(t *testing.T) {
	svc, _ := newService()
	alice := signup(t, svc, "alice", "alice@example.com", "79001112233")
	bob := signup(t, svc, "bob", "bob@example.com", "79004445566")
	ctx := context.Background()

	// Uniqueness spans users.
	if _, err := svc.AddEmail(ctx, bob, "alice@example.com"); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	if _, err := svc.AddPhone(ctx, bob, "79001112233"); !errors.Is(err, user.ErrPhoneTaken) {
		t.Fatalf("err = %v, want ErrPhoneTaken", err)
	}

	second, err := svc.AddEmail(ctx, alice, "alice+2@example.com")
	if err != nil {
		t.Fatal(err)
	}

	// Ownership is enforced on update and delete.
	if _, err := svc.UpdateEmail(ctx, bob, second.ID, "steal@example.com"); !errors.Is(err, user.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}
	if err := svc.DeleteEmail(ctx, bob, second.ID); !errors.Is(err, user.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}

	if _, err := svc.UpdateEmail(ctx, alice, second.ID, "alice+3@example.com"); err != nil {
		t.Fatal(err)
	}

	// Deleting down to one is fine; deleting the last one is not.
	if err := svc.DeleteEmail(ctx, alice, second.ID); err != nil {
		t.Fatal(err)
	}
	rest, err := svc.Emails(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 {
		t.Fatalf("emails left = %d, want 1", len(rest))
	}
	if err := svc.DeleteEmail(ctx, alice, rest[0].ID); !errors.Is(err, user.ErrLastContact) {
		t.Fatalf("err = %v, want ErrLastContact", err)
	}

	phones, err := svc.Phones(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeletePhone(ctx, alice, phones[0].ID); !errors.Is(err, user.ErrLastContact) {
		t.Fatalf("err = %v, want ErrLastContact", err)
	}
}

func TestContactUnknownUser(t *testing.T) {
	svc, _ := newService()
	_, err := svc.AddEmail(context.Background(), uuid.New(), "ghost@example.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchFilters(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	mkUser := func(login, name, dob, email, phone string) uuid.UUID {
		t.Helper()
		u, err := svc.Signup(ctx, user.SignupInput{
			Login: login, Password: "correct-horse", Name: name,
			DateOfBirth: born(t, dob), Email: email, Phone: phone,
			InitialBalance: decimal.RequireFromString("1.00"),
		})
		if err != nil {
			t.Fatal(err)
		}
		return u.ID
	}

	anna := mkUser("anna", "Anna", "1985-01-01", "anna@example.com", "79000000001")
	mkUser("andre", "Andre", "1995-01-01", "andre@example.com", "79000000002")
	boris := mkUser("boris", "Boris", "2000-01-01", "boris@example.com", "79000000003")

	byPrefix, err := svc.Search(ctx, store.UserFilter{NamePrefix: "An"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byPrefix) != 2 {
		t.Fatalf("prefix search = %d users, want 2", len(byPrefix))
	}

	after := born(t, "1999-01-01")
	byDob, err := svc.Search(ctx, store.UserFilter{DateOfBirthAfter: &after})
	if err != nil {
		t.Fatal(err)
	}
	if len(byDob) != 1 || byDob[0].ID != boris {
		t.Fatalf("dob search = %v, want only boris", byDob)
	}

	byEmail, err := svc.Search(ctx, store.UserFilter{Email: "anna@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byEmail) != 1 || byEmail[0].ID != anna {
		t.Fatalf("email search = %v, want only anna", byEmail)
	}

	byPhone, err := svc.Search(ctx, store.UserFilter{Phone: "79000000003"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byPhone) != 1 || byPhone[0].ID != boris {
		t.Fatalf("phone search = %v, want only boris", byPhone)
	}

	// Pagination: page size 2 over 3 users.
	page0, err := svc.Search(ctx, store.UserFilter{Page: 0, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	page1, err := svc.Search(ctx, store.UserFilter{Page: 1, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page0) != 2 || len(page1) != 1 {
		t.Fatalf("pages = %d,%d, want 2,1", len(page0), len(page1))
	}
}
