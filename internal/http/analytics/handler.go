package analytics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/analytics"
	"github.com/MrJamesThe3rd/saldo/internal/http/respond"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
	"github.com/MrJamesThe3rd/saldo/internal/view"
)

const maxRecent = 100

type Handler struct {
	ledgers respond.Ledgers
	now     func() time.Time
}

// NewHandler anchors windows at today according to now when the request
// carries no ref date.
func NewHandler(ledgers respond.Ledgers, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{ledgers: ledgers, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/categories", h.categories)
	r.Get("/window", h.window)
	r.Get("/series", h.series)
	r.Get("/recent", h.recent)
}

type summaryResponse struct {
	Balance     string `json:"balance"`
	Income      string `json:"income"`
	Expenses    string `json:"expenses"`
	SavingsRate string `json:"savings_rate"`
	Count       int    `json:"count"`
}

func toSummary(s analytics.Summary) summaryResponse {
	return summaryResponse{
		Balance:     money(s.Balance),
		Income:      money(s.Totals.Income),
		Expenses:    money(s.Totals.Expenses),
		SavingsRate: s.SavingsRate.Round(4).String(),
		Count:       s.Count,
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	s, err := analytics.Summarize(store.List())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummary(s))
}

type shareResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Amount   string `json:"amount"`
	Count    int    `json:"count"`
	Percent  string `json:"percent"`
}

type categoryResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
	Count    int    `json:"count"`
}

type categoriesResponse struct {
	Kind       transaction.Kind   `json:"kind"`
	Shares     []shareResponse    `json:"shares"`
	Categories []categoryResponse `json:"categories"`
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	kind := transaction.KindExpense
	if s := r.URL.Query().Get("kind"); s != "" {
		k, err := transaction.ParseKind(s)
		if err != nil {
			respond.BadRequest(w, err.Error())
			return
		}

		kind = k
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	breakdown, err := analytics.CategoryBreakdown(store.List())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := categoriesResponse{Kind: kind, Shares: []shareResponse{}, Categories: []categoryResponse{}}

	for _, s := range analytics.Shares(breakdown, kind) {
		resp.Shares = append(resp.Shares, shareResponse{
			Category: string(s.Category),
			Label:    s.Category.Label(),
			Amount:   money(s.Amount),
			Count:    s.Count,
			Percent:  s.Percent.StringFixed(2),
		})
	}

	for _, c := range transaction.Categories() {
		ct, ok := breakdown[c]
		if !ok {
			continue
		}

		resp.Categories = append(resp.Categories, categoryResponse{
			Category: string(c),
			Label:    c.Label(),
			Income:   money(ct.Income),
			Expenses: money(ct.Expenses),
			Net:      money(ct.Net()),
			Count:    ct.Count,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}

type windowResponse struct {
	Range   analytics.Window `json:"range"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Summary summaryResponse  `json:"summary"`
}

func (h *Handler) window(w http.ResponseWriter, r *http.Request) {
	win, ref, ok := h.windowParams(w, r)
	if !ok {
		return
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	in, err := analytics.WindowedFilter(store.List(), ref, win)
	if err != nil {
		respond.Error(w, err)
		return
	}

	s, err := analytics.Summarize(in)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, windowResponse{
		Range:   win,
		Start:   transaction.FormatDate(win.Start(ref)),
		End:     transaction.FormatDate(ref),
		Summary: toSummary(s),
	})
}

type bucketResponse struct {
	Label    string `json:"label"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	win, ref, ok := h.windowParams(w, r)
	if !ok {
		return
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	buckets, err := analytics.Series(store.List(), ref, win)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]bucketResponse, len(buckets))
	for i, b := range buckets {
		resp[i] = bucketResponse{
			Label:    b.Label,
			Start:    transaction.FormatDate(b.Start),
			End:      transaction.FormatDate(b.End),
			Income:   money(b.Income),
			Expenses: money(b.Expenses),
			Net:      money(b.Net()),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	n := view.RecentCount
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > maxRecent {
			respond.BadRequest(w, "n must be an integer between 0 and 100")
			return
		}

		n = v
	}

	store, ok := respond.Ledger(w, r, h.ledgers)
	if !ok {
		return
	}

	txs, err := view.Recent(store.List(), n)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Transactions(txs))
}

// windowParams reads range (default 30d) and ref (default today).
func (h *Handler) windowParams(w http.ResponseWriter, r *http.Request) (analytics.Window, time.Time, bool) {
	q := r.URL.Query()

	win := analytics.WindowMonth
	if s := q.Get("range"); s != "" {
		v, err := analytics.ParseWindow(s)
		if err != nil {
			respond.BadRequest(w, err.Error())
			return "", time.Time{}, false
		}

		win = v
	}

	ref := transaction.DateOf(h.now())
	if s := q.Get("ref"); s != "" {
		v, err := transaction.ParseDate(s)
		if err != nil {
			respond.BadRequest(w, "ref must be YYYY-MM-DD")
			return "", time.Time{}, false
		}

		ref = v
	}

	return win, ref, true
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
