package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/harborbank/ledger/internal/domain"
)

// GET /v1/users/{id}/emails
func (h *Handlers) ListEmails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	recs, err := h.users.Emails(ctx, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]domain.EmailResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.EmailResponse{ID: rec.ID, Email: rec.Email})
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /v1/users/{id}/emails
func (h *Handlers) AddEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req domain.EmailRequest
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rec, err := h.users.AddEmail(ctx, id, req.Email)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.EmailResponse{ID: rec.ID, Email: rec.Email})
}

// PUT /v1/users/{id}/emails/{emailID}
func (h *Handlers) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	emailID, ok := pathUUID(r, "emailID")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid email id")
		return
	}
	var req domain.EmailRequest
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rec, err := h.users.UpdateEmail(ctx, id, emailID, req.Email)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.EmailResponse{ID: rec.ID, Email: rec.Email})
}

// DELETE /v1/users/{id}/emails/{emailID}
func (h *Handlers) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	emailID, ok := pathUUID(r, "emailID")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid email id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.DeleteEmail(ctx, id, emailID); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/users/{id}/phones
func (h *Handlers) ListPhones(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	recs, err := h.users.Phones(ctx, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]domain.PhoneResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.PhoneResponse{ID: rec.ID, Phone: rec.Phone})
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /v1/users/{id}/phones
func (h *Handlers) AddPhone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req domain.PhoneRequest
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rec, err := h.users.AddPhone(ctx, id, req.Phone)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.PhoneResponse{ID: rec.ID, Phone: rec.Phone})
}

// PUT /v1/users/{id}/phones/{phoneID}
func (h *Handlers) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	phoneID, ok := pathUUID(r, "phoneID")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid phone id")
		return
	}
	var req domain.PhoneRequest
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rec, err := h.users.UpdatePhone(ctx, id, phoneID, req.Phone)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.PhoneResponse{ID: rec.ID, Phone: rec.Phone})
}

// DELETE /v1/users/{id}/phones/{phoneID}
func (h *Handlers) DeletePhone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	phoneID, ok := pathUUID(r, "phoneID")
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid phone id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.DeletePhone(ctx, id, phoneID); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
