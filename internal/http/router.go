package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chargepay/internal/checkout"
	"chargepay/internal/config"
	"chargepay/internal/http/handlers"
	middlewarex "chargepay/internal/http/middleware"
	"chargepay/internal/status"
	"chargepay/internal/store/postgres"
)

// RouterDependencies holds everything the HTTP surface needs.
type RouterDependencies struct {
	Config       config.Cfg
	Orchestrator *checkout.Orchestrator
	Registry     *status.Registry
	Cache        *status.SnapshotCache
	Fetcher      status.Fetcher
	Repo         *postgres.Repo
}

func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.TokenAuth(deps.Config.App.APIToken))

		r.Post("/payments", handlers.SubmitPayment(deps.Orchestrator, deps.Config.Merchant.OperatingAccountID))
		r.Get("/payments", handlers.ListPayments(deps.Repo))

		r.Route("/payments/{transactionID}", func(r chi.Router) {
			r.Get("/status", handlers.TransactionStatus(deps.Registry, deps.Cache, deps.Fetcher))
			r.Post("/track", handlers.TrackTransaction(deps.Registry))
			r.Delete("/track", handlers.StopTracking(deps.Registry))
			r.Post("/refresh", handlers.RefreshTransaction(deps.Registry))
		})
	})

	return r
}
