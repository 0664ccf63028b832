package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Login        string
	PasswordHash string
	Name         string
	DateOfBirth  time.Time
}

// EmailRecord and PhoneRecord are a user's contact entries. Values are unique
// across the whole system, not just per user.
type EmailRecord struct {
	ID    uuid.UUID
	Owner uuid.UUID
	Email string
}

type PhoneRecord struct {
	ID    uuid.UUID
	Owner uuid.UUID
	Phone string
}
