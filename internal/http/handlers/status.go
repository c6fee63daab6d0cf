package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chargepay/internal/core"
	"chargepay/internal/gateway"
	"chargepay/internal/status"
)

type statusResp struct {
	TransactionID string                       `json:"transactionId"`
	Snapshot      *gateway.TransactionSnapshot `json:"snapshot,omitempty"`
	SessionState  string                       `json:"sessionState,omitempty"`
	FetchError    string                       `json:"fetchError,omitempty"`
	Source        string                       `json:"source"`
}

// TrackTransaction starts (or joins) a polling session for a transaction.
func TrackTransaction(reg *status.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "transactionID")
		s, err := reg.Track(id)
		if err != nil {
			if errors.Is(err, core.ErrInvalidTransactionID) {
				http.Error(w, "invalid transaction id", http.StatusBadRequest)
				return
			}
			http.Error(w, "tracking failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"transactionId": id,
			"sessionState":  string(s.State()),
		})
	}
}

// StopTracking ends the polling session for a transaction, if any.
func StopTracking(reg *status.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg.Stop(chi.URLParam(r, "transactionID"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// RefreshTransaction triggers one immediate fetch on a live session.
func RefreshTransaction(reg *status.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := reg.Get(chi.URLParam(r, "transactionID"))
		if !ok {
			http.Error(w, "no session for transaction", http.StatusNotFound)
			return
		}
		s.Refresh()
		w.WriteHeader(http.StatusAccepted)
	}
}

// TransactionStatus reports the latest known state of a transaction:
// session snapshot first, then the Redis cache, then a live gateway read.
func TransactionStatus(reg *status.Registry, cache *status.SnapshotCache, fetcher status.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "transactionID")
		resp := statusResp{TransactionID: id}

		if s, ok := reg.Get(id); ok {
			resp.SessionState = string(s.State())
			if err := s.Err(); err != nil {
				resp.FetchError = err.Error()
			}
			if snap, ok := s.Snapshot(); ok {
				resp.Snapshot = &snap
				resp.Source = "session"
			}
		}
		if resp.Snapshot == nil && cache != nil {
			if snap, ok := cache.Get(r.Context(), id); ok {
				resp.Snapshot = &snap
				resp.Source = "cache"
			}
		}
		if resp.Snapshot == nil {
			snap, err := fetcher.GetTransaction(r.Context(), id)
			if err != nil {
				var reqFailed *core.RequestFailedError
				if errors.As(err, &reqFailed) && reqFailed.HTTPStatus == http.StatusNotFound {
					http.Error(w, "transaction not found", http.StatusNotFound)
					return
				}
				http.Error(w, "status fetch failed", http.StatusBadGateway)
				return
			}
			resp.Snapshot = &snap
			resp.Source = "gateway"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
