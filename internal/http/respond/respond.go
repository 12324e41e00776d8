// Package respond holds the JSON encoding and error mapping shared by the API handlers.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/saldo/internal/auth"
	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// Ledgers resolves the ledger of an owner. *ledger.Registry implements it.
type Ledgers interface {
	Get(ctx context.Context, ownerID string) (*ledger.Store, error)
}

type ViolationResponse struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error      string              `json:"error"`
	Violations []ViolationResponse `json:"violations,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// Violations converts a validation error for embedding in other responses.
func Violations(err error) []ViolationResponse {
	var verr *transaction.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}

	out := make([]ViolationResponse, len(verr.Violations))
	for i, v := range verr.Violations {
		out[i] = ViolationResponse{Field: v.Field, Rule: v.Rule, Message: v.Message}
	}

	return out
}

// Error writes err with the status its kind maps to. A persistence failure
// wins over the not-found it may wrap.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrValidation):
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Violations: Violations(err)})
	case errors.Is(err, transaction.ErrPersistence):
		slog.Warn("mutation rolled back", "error", err)
		JSON(w, http.StatusServiceUnavailable, errorResponse{Error: transaction.ErrPersistence.Error()})
	case errors.Is(err, transaction.ErrNotFound):
		JSON(w, http.StatusNotFound, errorResponse{Error: "transaction not found"})
	case errors.Is(err, categorize.ErrInvalidRule):
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func Owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := auth.OwnerFrom(r.Context())
	if !ok {
		JSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	}

	return owner, ok
}

// Ledger resolves the caller's ledger, writing the error response itself when
// that fails.
func Ledger(w http.ResponseWriter, r *http.Request, ledgers Ledgers) (*ledger.Store, bool) {
	owner, ok := Owner(w, r)
	if !ok {
		return nil, false
	}

	s, err := ledgers.Get(r.Context(), owner)
	if err != nil {
		slog.Error("failed to load ledger", "owner_id", owner, "error", err)
		JSON(w, http.StatusServiceUnavailable, errorResponse{Error: "could not load transactions, please retry"})

		return nil, false
	}

	return s, true
}
