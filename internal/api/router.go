package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/bank-transactions/internal/api/handlers"
	"github.com/baharkarakas/bank-transactions/internal/config"
	"github.com/baharkarakas/bank-transactions/internal/metrics"
	"github.com/baharkarakas/bank-transactions/internal/middleware"
	"github.com/baharkarakas/bank-transactions/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Log        *slog.Logger
	TxnSvc     *services.TransactionService
	AccountSvc *services.AccountService
}

func NewRouter(d RouterDeps) http.Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(log), middleware.Recover(log), middleware.HTTPMetrics)
	r.Use(middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	th := handlers.NewTransactionHandler(d.TxnSvc, log)
	ah := handlers.NewAccountHandler(d.AccountSvc, log)

	r.Group(func(r chi.Router) {
		if d.Cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(d.Cfg.RequestTimeout))
		}

		// ---------- transactions ----------
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/create", th.Create)
			r.Get("/search", th.Search)
			r.Get("/status", th.Status)
		})

		// ---------- accounts ----------
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/create", ah.Create)
			r.Get("/{iban}", ah.Get)
		})
	})

	return r
}
