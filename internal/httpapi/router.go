package httpapi

import (
	"net/http"
	"os"
	"strconv"
)

func Router(h *Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Healthz)

	mux.HandleFunc("POST /v1/users", h.CreateUser)
	mux.HandleFunc("GET /v1/users", h.SearchUsers)
	mux.HandleFunc("GET /v1/users/{id}", h.GetUser)
	mux.HandleFunc("PATCH /v1/users/{id}/name", h.UpdateName)
	mux.HandleFunc("PATCH /v1/users/{id}/password", h.UpdatePassword)
	mux.HandleFunc("PATCH /v1/users/{id}/date-of-birth", h.UpdateDateOfBirth)

	mux.HandleFunc("GET /v1/users/{id}/emails", h.ListEmails)
	mux.HandleFunc("POST /v1/users/{id}/emails", h.AddEmail)
	mux.HandleFunc("PUT /v1/users/{id}/emails/{emailID}", h.UpdateEmail)
	mux.HandleFunc("DELETE /v1/users/{id}/emails/{emailID}", h.DeleteEmail)

	mux.HandleFunc("GET /v1/users/{id}/phones", h.ListPhones)
	mux.HandleFunc("POST /v1/users/{id}/phones", h.AddPhone)
	mux.HandleFunc("PUT /v1/users/{id}/phones/{phoneID}", h.UpdatePhone)
	mux.HandleFunc("DELETE /v1/users/{id}/phones/{phoneID}", h.DeletePhone)

	mux.HandleFunc("POST /v1/transfers", h.PostTransfer)
	mux.HandleFunc("GET /v1/accounts/{owner}/balance", h.GetBalance)

	// Backpressure at the edge.
	// Prevents unbounded goroutine/pool queueing when DB is saturated.
	max := mustIntEnv("LEDGER_HTTP_MAX_INFLIGHT", 64)
	return withConcurrencyLimit(mux, max)
}

func mustIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func withConcurrencyLimit(next http.Handler, max int) http.Handler {
	if max <= 0 {
		max = 64
	}
	sem := make(chan struct{}, max)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
			next.ServeHTTP(w, r)
		default:
			// Fast fail instead of queueing forever.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"server busy"}`))
		}
	})
}
