package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"chargepay/internal/checkout"
	"chargepay/internal/core"
	"chargepay/internal/store/postgres"
	"chargepay/internal/wallet"
)

type submitReq struct {
	Method       string `json:"method"`
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode,omitempty"`
	ContractID   string `json:"contractId,omitempty"`
	WalletToken  *struct {
		ApplePayToken  string `json:"applePayToken,omitempty"`
		GooglePayToken string `json:"googlePayToken,omitempty"`
	} `json:"walletToken,omitempty"`
}

type submitResp struct {
	AttemptID     string `json:"attemptId"`
	TransactionID string `json:"transactionId,omitempty"`
	Status        string `json:"status"`
	RedirectURL   string `json:"redirectUrl,omitempty"`
}

// SubmitPayment drives one payment attempt through the orchestrator.
func SubmitPayment(o *checkout.Orchestrator, accountID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in submitReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}

		// Bounded context for the processor call
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		orch := o
		if in.WalletToken != nil {
			orch = o.WithProvider(wallet.Preacquired{Token: wallet.Token{
				ApplePay:  in.WalletToken.ApplePayToken,
				GooglePay: in.WalletToken.GooglePayToken,
			}})
		}

		sub, err := orch.SubmitPayment(ctx, core.PaymentRequest{
			Method:     core.Method(in.Method),
			Amount:     in.Amount,
			Currency:   in.CurrencyCode,
			AccountID:  accountID,
			ContractID: in.ContractID,
		})
		if err != nil {
			writeSubmitError(w, in.Method, err)
			return
		}
		if sub == nil {
			// Wallet prompt abandoned; nothing was submitted.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(submitResp{
			AttemptID:     sub.AttemptID,
			TransactionID: sub.TransactionID,
			Status:        string(sub.Status),
			RedirectURL:   sub.RedirectURL,
		})
	}
}

func writeSubmitError(w http.ResponseWriter, method string, err error) {
	var reqFailed *core.RequestFailedError
	switch {
	case errors.Is(err, core.ErrUnsupportedMethod):
		http.Error(w, "unsupported method/contract combination", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrTokenExtraction):
		http.Error(w, "wallet token missing both brand payloads", http.StatusUnprocessableEntity)
	case errors.As(err, &reqFailed):
		log.Error().Err(err).Str("method", method).Msg("gateway rejected submission")
		http.Error(w, "payment gateway error", http.StatusBadGateway)
	default:
		log.Error().Err(err).Str("method", method).Msg("submission failed")
		http.Error(w, "payment failed", http.StatusBadGateway)
	}
}

// ListPayments returns recent stored attempts.
func ListPayments(repo *postgres.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			http.Error(w, "persistence not configured", http.StatusNotImplemented)
			return
		}
		limit := 50
		offset := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}
		rows, err := repo.ListAttempts(r.Context(), limit, offset)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": rows})
	}
}
