package gateway

import (
	"time"

	"chargepay/internal/core"
)

// PaymentResult is the normalized outcome of one gateway submission.
// Created once per submission and never mutated; later polls produce
// TransactionSnapshots, not updates to this value.
type PaymentResult struct {
	ID      string        `json:"id"`
	Status  core.Status   `json:"status"`
	Action  string        `json:"action,omitempty"`
	Details ResultDetails `json:"details"`
}

type ResultDetails struct {
	URL string `json:"url,omitempty"`
}

// RedirectURL returns the challenge URL when the processor asks the
// shopper to be redirected, or "" otherwise.
func (r PaymentResult) RedirectURL() string {
	if r.Status == core.StatusInitiated && r.Action == core.ActionRedirectShopper {
		return r.Details.URL
	}
	return ""
}

// TransactionSnapshot is the latest known state of a transaction as
// reported by the status endpoint. Replaced wholesale on each fetch,
// never partially merged.
type TransactionSnapshot struct {
	ID                string      `json:"id"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	AccountID         string      `json:"accountId"`
	MerchantAccountID string      `json:"merchantAccountId"`
	Status            core.Status `json:"status"`
}

// WalletAuthorization is the input to AuthorizeWalletPayment. Exactly one
// of the two token fields must be populated; each holds the JSON-encoded
// token object as produced by the native capability prompt.
type WalletAuthorization struct {
	AccountID      string
	Amount         int64
	Currency       string
	ApplePayToken  string
	GooglePayToken string
}

// CardCharge is the input to CreateCardCharge against a stored payment
// contract.
type CardCharge struct {
	AccountID   string
	Amount      int64
	Currency    string
	ContractID  string
	RedirectURL string
}
