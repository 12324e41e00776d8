package categorize

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/http/respond"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

type Handler struct {
	svc *categorize.Service
}

func NewHandler(svc *categorize.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description          string               `json:"description"`
	Matched              bool                 `json:"matched"`
	Category             transaction.Category `json:"category,omitempty"`
	CategoryLabel        string               `json:"category_label,omitempty"`
	SuggestedDescription string               `json:"suggested_description,omitempty"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		respond.BadRequest(w, "description query parameter is required")
		return
	}

	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	rule, matched, err := h.svc.Suggest(r.Context(), owner, desc)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := suggestResponse{Description: desc, Matched: matched}
	if matched {
		resp.Category = rule.Category
		resp.CategoryLabel = rule.Category.Label()
		resp.SuggestedDescription = rule.Description
	}

	respond.JSON(w, http.StatusOK, resp)
}

type learnRequest struct {
	Pattern     string               `json:"pattern"`
	Category    transaction.Category `json:"category"`
	Description string               `json:"description"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	owner, ok := respond.Owner(w, r)
	if !ok {
		return
	}

	err := h.svc.Learn(r.Context(), owner, categorize.Rule{
		Pattern:     req.Pattern,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
