package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/saldo/internal/http/respond"
	"github.com/MrJamesThe3rd/saldo/internal/importer"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	ledgers   respond.Ledgers
}

func NewHandler(importSvc *importer.Service, ledgers respond.Ledgers) *Handler {
	return &Handler{importSvc: importSvc, ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type rejectedResponse struct {
	Row         int                         `json:"row"`
	Description string                      `json:"description"`
	Error       string                      `json:"error"`
	Violations  []respond.ViolationResponse `json:"violations,omitempty"`
}

type importResponse struct {
	Imported     int                           `json:"imported"`
	Transactions []respond.TransactionResponse `json:"transactions"`
	Rejected     []rejectedResponse            `json:"rejected"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		respond.BadRequest(w, "bank field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	res, err := h.importSvc.Import(r.Context(), store.Owner(), bank, file, store)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	resp := importResponse{
		Imported:     len(res.Created),
		Transactions: respond.Transactions(res.Created),
		Rejected:     make([]rejectedResponse, 0, len(res.Rejected)),
	}

	for _, rej := range res.Rejected {
		resp.Rejected = append(resp.Rejected, rejectedResponse{
			Row:         rej.Row,
			Description: rej.Candidate.Description,
			Error:       rej.Err.Error(),
			Violations:  respond.Violations(rej.Err),
		})
	}

	respond.JSON(w, http.StatusCreated, resp)
}
