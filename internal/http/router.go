package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/saldo/internal/auth"
	"github.com/MrJamesThe3rd/saldo/internal/http/analytics"
	"github.com/MrJamesThe3rd/saldo/internal/http/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/http/importcsv"
	"github.com/MrJamesThe3rd/saldo/internal/http/transaction"
	applog "github.com/MrJamesThe3rd/saldo/internal/log"
)

type Config struct {
	Logger         *slog.Logger
	Verifier       *auth.Verifier
	AllowedOrigins []string
}

func New(
	cfg Config,
	transactionsV1 *transaction.Handler,
	analyticsV1 *analytics.Handler,
	importV1 *importcsv.Handler,
	categorizeV1 *categorize.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(applog.Middleware(cfg.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cfg.Verifier.Middleware)

		r.Route("/transactions", func(r chi.Router) {
			r.Route("/import", importV1.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})
		})

		r.Route("/analytics", analyticsV1.Routes)

		r.Route("/categorize", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categorizeV1.Routes(r)
		})
	})

	return router
}
