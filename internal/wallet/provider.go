// Package wallet defines the boundary to the native payment-capability
// prompt. The prompt itself is platform code; only the request/response
// types and the provider contract live here.
package wallet

import (
	"context"
	"errors"
	"fmt"
)

// Brand identifies which wallet produced a token.
type Brand string

const (
	BrandApplePay  Brand = "APPLE_PAY"
	BrandGooglePay Brand = "GOOGLE_PAY"
)

// ErrAbandoned signals that the device lacks the capability or the user
// dismissed the prompt. It is a normal abandonment path, not a failure;
// callers stop silently when they see it.
var ErrAbandoned = errors.New("wallet prompt abandoned")

// CapabilityRequest describes the prompt to present: which wallet brands
// are acceptable and what the shopper is paying.
type CapabilityRequest struct {
	Brands []Brand
	// MerchantIdentifier is the Apple Pay merchant registration the prompt
	// presents under.
	MerchantIdentifier string
	CountryCode        string
	CurrencyCode       string
	// Total is the display amount, e.g. "101.00".
	Total string
}

// DisplayAmount converts minor currency units to the two-decimal string
// the capability prompt renders (10100 -> "101.00").
func DisplayAmount(minorUnits int64) string {
	return fmt.Sprintf("%d.%02d", minorUnits/100, minorUnits%100)
}

// Token is the opaque, brand-tagged credential returned by the prompt.
// Each payload is the JSON-encoded token object; exactly one is populated
// on a successful invocation. Payloads are encrypted upstream and never
// decrypted here.
type Token struct {
	ApplePay  string
	GooglePay string
}

// Payload returns whichever brand payload is populated. ok is false when
// neither is, which callers must treat as a token-extraction failure.
func (t Token) Payload() (brand Brand, payload string, ok bool) {
	switch {
	case t.ApplePay != "":
		return BrandApplePay, t.ApplePay, true
	case t.GooglePay != "":
		return BrandGooglePay, t.GooglePay, true
	}
	return "", "", false
}

// TokenProvider is implemented by a platform-specific adapter over the
// native payment sheet.
type TokenProvider interface {
	// Available reports whether the device can present the prompt at all.
	Available(ctx context.Context) bool
	// RequestToken presents the prompt and blocks until the user approves
	// or dismisses it. Returns ErrAbandoned on dismissal.
	RequestToken(ctx context.Context, req CapabilityRequest) (Token, error)
	// Complete closes the native prompt with a success or failure
	// indication after the gateway has responded.
	Complete(ctx context.Context, success bool) error
}
