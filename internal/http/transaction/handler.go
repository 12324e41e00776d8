package transaction

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/http/respond"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
	"github.com/MrJamesThe3rd/saldo/internal/view"
)

type Handler struct {
	ledgers respond.Ledgers
}

func NewHandler(ledgers respond.Ledgers) *Handler {
	return &Handler{ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Kind        transaction.Kind     `json:"kind"`
	Description string               `json:"description"`
	Category    transaction.Category `json:"category"`
	Amount      decimal.Decimal      `json:"amount"`
	OccurredOn  string               `json:"occurred_on"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	var date time.Time
	if req.OccurredOn != "" {
		d, err := transaction.ParseDate(req.OccurredOn)
		if err != nil {
			respond.BadRequest(w, "occurred_on must be YYYY-MM-DD")
			return
		}

		date = d
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	tx, err := store.Create(r.Context(), transaction.Candidate{
		Kind:        req.Kind,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		OccurredOn:  date,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, respond.Transaction(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pred, err := view.ParsePredicate(q.Get("kind"), q.Get("category"), q.Get("q"))
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	key, err := view.ParseSortKey(q.Get("sort"))
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	dir, err := view.ParseDirection(q.Get("order"))
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	txs, err := view.Filter(store.List(), pred)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if txs, err = view.Sort(txs, key, dir); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Transactions(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	tx, err := store.Get(id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Transaction(tx))
}

type updateTransactionRequest struct {
	Kind        *transaction.Kind     `json:"kind,omitempty"`
	Description *string               `json:"description,omitempty"`
	Category    *transaction.Category `json:"category,omitempty"`
	Amount      *decimal.Decimal      `json:"amount,omitempty"`
	OccurredOn  *string               `json:"occurred_on,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	patch := transaction.Patch{
		Kind:        req.Kind,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
	}

	if req.OccurredOn != nil {
		d, err := transaction.ParseDate(*req.OccurredOn)
		if err != nil {
			respond.BadRequest(w, "occurred_on must be YYYY-MM-DD")
			return
		}

		patch.OccurredOn = new(d)
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	tx, err := store.Update(r.Context(), id, patch)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Transaction(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	if err := store.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
