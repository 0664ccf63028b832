package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for dates of birth.
const DateLayout = "2006-01-02"

type CreateUserRequest struct {
	Login          string          `json:"login" validate:"required,min=3,max=255"`
	Password       string          `json:"password" validate:"required,min=8,max=72"`
	Name           string          `json:"name" validate:"required,max=500"`
	DateOfBirth    string          `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Email          string          `json:"email" validate:"required,email"`
	Phone          string          `json:"phone" validate:"required,min=5,max=32"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"`
}

type SearchUsersResponse struct {
	Users []UserResponse `json:"users"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,max=500"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateDateOfBirthRequest struct {
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type EmailResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type PhoneRequest struct {
	Phone string `json:"phone" validate:"required,min=5,max=32"`
}

type PhoneResponse struct {
	ID    uuid.UUID `json:"id"`
	Phone string    `json:"phone"`
}

type TransferRequest struct {
	FromUserID uuid.UUID       `json:"from_user_id" validate:"required"`
	ToUserID   uuid.UUID       `json:"to_user_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

type BalanceResponse struct {
	UserID  uuid.UUID       `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}
