package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/harborbank/ledger/internal/cache"
	"github.com/harborbank/ledger/internal/domain"
	"github.com/harborbank/ledger/internal/ledger"
	"github.com/harborbank/ledger/internal/store"
	"github.com/harborbank/ledger/internal/user"
)

var validate = validator.New()

type Handlers struct {
	engine   *ledger.Engine
	users    *user.Service
	accounts store.Accounts
	balances *cache.Lookup[domain.BalanceResponse]
	profiles *cache.Lookup[domain.UserResponse]
}

func NewHandlers(
	engine *ledger.Engine,
	users *user.Service,
	accounts store.Accounts,
	balances *cache.Lookup[domain.BalanceResponse],
	profiles *cache.Lookup[domain.UserResponse],
) *Handlers {
	return &Handlers{
		engine:   engine,
		users:    users,
		accounts: accounts,
		balances: balances,
		profiles: profiles,
	}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

type fieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// decodeValid decodes the body and runs struct-tag validation, writing the
// 400 itself on failure. Returns false when the request was already handled.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	err := validate.Struct(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeErr(w, http.StatusBadRequest, "invalid request")
		return false
	}
	details := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: "invalid value",
		})
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "validation failed",
		"details": details,
	})
	return false
}

func httpStatusForErr(err error) int {
	var (
		notFound     *ledger.NotFoundError
		insufficient *ledger.InsufficientFundsError
		partial      *ledger.PartialTransferError
	)
	switch {
	case err == nil:
		return http.StatusOK

	// Transfer/accrual taxonomy. Partial failures are checked before the
	// sentinels they may wrap.
	case errors.As(err, &partial):
		return http.StatusInternalServerError
	case errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrConcurrencyExhausted):
		return http.StatusConflict
	case errors.As(err, &notFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Profile/contact rules
	case errors.Is(err, user.ErrLoginTaken),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrPhoneTaken),
		errors.Is(err, user.ErrLastContact):
		return http.StatusConflict
	case errors.Is(err, user.ErrNotOwned):
		return http.StatusForbidden
	case errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrBirthDateInFuture),
		errors.Is(err, user.ErrNegativeBalance):
		return http.StatusBadRequest

	// Context / timeouts
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout

	default:
		return http.StatusInternalServerError
	}
}

func publicErrMessage(code int, err error) string {
	// Don't leak internals on 5xx.
	if code >= 500 {
		return "internal error"
	}
	return err.Error()
}

func respondErr(w http.ResponseWriter, err error) {
	code := httpStatusForErr(err)
	writeErr(w, code, publicErrMessage(code, err))
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}

// POST /v1/transfers
func (h *Handlers) PostTransfer(w http.ResponseWriter, r *http.Request) {
	var req domain.TransferRequest
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.engine.Transfer(ctx, req.FromUserID, req.ToUserID, req.Amount); err != nil {
		respondErr(w, err)
		return
	}

	h.balances.Evict(ctx, req.FromUserID.String())
	h.balances.Evict(ctx, req.ToUserID.String())
	writeJSON(w, http.StatusOK, map[string]any{"status": "completed"})
}

// GET /v1/accounts/{owner}/balance
func (h *Handlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	owner, ok := pathUUID(r, "owner")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if resp, hit := h.balances.Get(ctx, owner.String()); hit {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	acc, err := h.accounts.FindByOwner(ctx, owner)
	if err != nil {
		respondErr(w, err)
		return
	}

	resp := domain.BalanceResponse{UserID: acc.Owner, Balance: acc.Balance}
	h.balances.Set(ctx, owner.String(), resp)
	writeJSON(w, http.StatusOK, resp)
}
