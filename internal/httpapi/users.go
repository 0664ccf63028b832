package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/harborbank/ledger/internal/domain"
	"github.com/harborbank/ledger/internal/store"
	"github.com/harborbank/ledger/internal/user"
)

func userResponse(u domain.User) domain.UserResponse {
	return domain.UserResponse{
		ID:          u.ID,
		Login:       u.Login,
		Name:        u.Name,
		DateOfBirth: u.DateOfBirth.Format(domain.DateLayout),
	}
}

// POST /v1/users
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decodeValid(w, r, &req) {
		return
	}

	dob, err := time.Parse(domain.DateLayout, req.DateOfBirth)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid date_of_birth")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.Signup(ctx, user.SignupInput{
		Login:          req.Login,
		Password:       req.Password,
		Name:           req.Name,
		DateOfBirth:    dob,
		Email:          req.Email,
		Phone:          req.Phone,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse(u))
}

// GET /v1/users/{id}
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if resp, hit := h.profiles.Get(ctx, id.String()); hit {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	resp := userResponse(u)
	h.profiles.Set(ctx, id.String(), resp)
	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/users?date_of_birth_after=&name_prefix=&email=&phone=&page=&size=
func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.UserFilter{
		NamePrefix: q.Get("name_prefix"),
		Email:      q.Get("email"),
		Phone:      q.Get("phone"),
	}
	if v := q.Get("date_of_birth_after"); v != "" {
		dob, err := time.Parse(domain.DateLayout, v)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid date_of_birth_after")
			return
		}
		f.DateOfBirthAfter = &dob
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeErr(w, http.StatusBadRequest, "invalid page")
			return
		}
		f.Page = n
	}
	f.Size = 20
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeErr(w, http.StatusBadRequest, "invalid size")
			return
		}
		f.Size = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	users, err := h.users.Search(ctx, f)
	if err != nil {
		respondErr(w, err)
		return
	}

	resp := domain.SearchUsersResponse{
		Users: make([]domain.UserResponse, 0, len(users)),
		Page:  f.Page,
		Size:  f.Size,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, userResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PATCH /v1/users/{id}/name
func (h *Handlers) UpdateName(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req domain.UpdateNameRequest
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.UpdateName(ctx, id, req.Name); err != nil {
		respondErr(w, err)
		return
	}
	h.profiles.Evict(ctx, id.String())
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /v1/users/{id}/password
func (h *Handlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req domain.UpdatePasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.UpdatePassword(ctx, id, req.Password); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /v1/users/{id}/date-of-birth
func (h *Handlers) UpdateDateOfBirth(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req domain.UpdateDateOfBirthRequest
	if !decodeValid(w, r, &req) {
		return
	}
	dob, err := time.Parse(domain.DateLayout, req.DateOfBirth)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid date_of_birth")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.UpdateDateOfBirth(ctx, id, dob); err != nil {
		respondErr(w, err)
		return
	}
	h.profiles.Evict(ctx, id.String())
	w.WriteHeader(http.StatusNoContent)
}
