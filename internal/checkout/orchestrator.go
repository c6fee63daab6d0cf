// Package checkout drives one payment attempt end to end: flow selection,
// wallet token acquisition, gateway submission, and next-action handling.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"chargepay/internal/core"
	"chargepay/internal/gateway"
	"chargepay/internal/metrics"
	"chargepay/internal/wallet"
)

// Gateway is the slice of the gateway client the orchestrator uses.
type Gateway interface {
	AuthorizeWalletPayment(ctx context.Context, a gateway.WalletAuthorization) (gateway.PaymentResult, error)
	CreateCardCharge(ctx context.Context, c gateway.CardCharge) (gateway.PaymentResult, error)
}

// Recorder persists submission attempts. A nil Recorder disables
// persistence without changing payment semantics.
type Recorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

// Attempt is the persisted record of one submission.
type Attempt struct {
	ID            string
	TransactionID string
	Method        core.Method
	Amount        int64
	Currency      string
	ContractID    string
	Status        core.Status
	CreatedAt     time.Time
}

// Submission is what the caller gets back from a completed submission.
// RedirectURL is non-empty only on the pending-challenge path; the caller
// must send the shopper there before the transaction can progress.
type Submission struct {
	AttemptID     string
	TransactionID string
	Status        core.Status
	RedirectURL   string
}

// Options carries the merchant-side constants for building payloads and
// capability requests.
type Options struct {
	// MerchantIdentifier is forwarded to the wallet capability prompt.
	MerchantIdentifier string
	CountryCode        string
	Currency           string
	// CardRedirectURL is the return deep link the processor embeds in a
	// card challenge flow.
	CardRedirectURL string
}

type Orchestrator struct {
	gw       Gateway
	provider wallet.TokenProvider
	recorder Recorder
	opts     Options
}

func New(gw Gateway, provider wallet.TokenProvider, recorder Recorder, opts Options) *Orchestrator {
	return &Orchestrator{gw: gw, provider: provider, recorder: recorder, opts: opts}
}

// WithProvider returns a copy bound to a different token provider, used
// when the capability adapter is scoped to a single payment attempt.
func (o *Orchestrator) WithProvider(p wallet.TokenProvider) *Orchestrator {
	clone := *o
	clone.provider = p
	return &clone
}

// SubmitPayment selects the flow for req and submits it to the gateway.
//
// A (nil, nil) return means the shopper abandoned the wallet prompt or the
// device cannot present one; nothing was submitted and nothing is owed to
// the caller.
func (o *Orchestrator) SubmitPayment(ctx context.Context, req core.PaymentRequest) (*Submission, error) {
	if !req.Method.Known() || (req.Method.IsCard() && req.ContractID == "") {
		metrics.SubmissionsTotal.WithLabelValues(string(req.Method), "rejected").Inc()
		return nil, core.ErrUnsupportedMethod
	}
	if req.Currency == "" {
		req.Currency = o.opts.Currency
	}

	var (
		result gateway.PaymentResult
		err    error
	)
	if req.Method == core.MethodWallet {
		var abandoned bool
		result, abandoned, err = o.submitWallet(ctx, req)
		if abandoned {
			metrics.SubmissionsTotal.WithLabelValues(string(req.Method), "abandoned").Inc()
			return nil, nil
		}
	} else {
		result, err = o.gw.CreateCardCharge(ctx, gateway.CardCharge{
			AccountID:   req.AccountID,
			Amount:      req.Amount,
			Currency:    req.Currency,
			ContractID:  req.ContractID,
			RedirectURL: o.opts.CardRedirectURL,
		})
	}
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(req.Method), "error").Inc()
		return nil, err
	}

	sub := &Submission{
		AttemptID:     uuid.NewString(),
		TransactionID: result.ID,
		Status:        result.Status,
		RedirectURL:   result.RedirectURL(),
	}
	metrics.SubmissionsTotal.WithLabelValues(string(req.Method), string(result.Status)).Inc()

	if o.recorder != nil {
		err := o.recorder.RecordAttempt(ctx, Attempt{
			ID:            sub.AttemptID,
			TransactionID: result.ID,
			Method:        req.Method,
			Amount:        req.Amount,
			Currency:      req.Currency,
			ContractID:    req.ContractID,
			Status:        result.Status,
			CreatedAt:     time.Now().UTC(),
		})
		if err != nil {
			// The processor has already acted; losing the local record must
			// not fail the payment.
			log.Error().Err(err).
				Str("attempt_id", sub.AttemptID).
				Str("transaction_id", result.ID).
				Msg("failed to record payment attempt")
		}
	}

	log.Info().
		Str("method", string(req.Method)).
		Str("transaction_id", result.ID).
		Str("status", string(result.Status)).
		Bool("redirect", sub.RedirectURL != "").
		Msg("payment submitted")
	return sub, nil
}

// submitWallet runs the two-step capability flow: prompt for a token,
// authorize it, then close the native prompt with the outcome.
func (o *Orchestrator) submitWallet(ctx context.Context, req core.PaymentRequest) (gateway.PaymentResult, bool, error) {
	if !o.provider.Available(ctx) {
		log.Info().Msg("wallet capability unavailable on this device")
		return gateway.PaymentResult{}, true, nil
	}

	token, err := o.provider.RequestToken(ctx, wallet.CapabilityRequest{
		Brands:             []wallet.Brand{wallet.BrandApplePay, wallet.BrandGooglePay},
		MerchantIdentifier: o.opts.MerchantIdentifier,
		CountryCode:        o.opts.CountryCode,
		CurrencyCode:       req.Currency,
		Total:              wallet.DisplayAmount(req.Amount),
	})
	if err != nil {
		if errors.Is(err, wallet.ErrAbandoned) {
			log.Info().Msg("wallet prompt dismissed by shopper")
			return gateway.PaymentResult{}, true, nil
		}
		return gateway.PaymentResult{}, false, err
	}

	brand, payload, ok := token.Payload()
	if !ok {
		return gateway.PaymentResult{}, false, core.ErrTokenExtraction
	}

	auth := gateway.WalletAuthorization{
		AccountID: req.AccountID,
		Amount:    req.Amount,
		Currency:  req.Currency,
	}
	if brand == wallet.BrandApplePay {
		auth.ApplePayToken = payload
	} else {
		auth.GooglePayToken = payload
	}

	result, gwErr := o.gw.AuthorizeWalletPayment(ctx, auth)

	// Close the native sheet whatever the gateway said; the shopper is
	// still staring at it.
	success := gwErr == nil && result.Status == core.StatusAuthorized
	if err := o.provider.Complete(ctx, success); err != nil {
		log.Error().Err(err).Msg("wallet completion signal failed")
	}

	return result, false, gwErr
}
