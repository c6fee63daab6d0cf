package wallet

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Unsupported is the provider for environments with no payment sheet at
// all; wallet submissions become silent abandonments.
type Unsupported struct{}

func (Unsupported) Available(ctx context.Context) bool { return false }

func (Unsupported) RequestToken(ctx context.Context, req CapabilityRequest) (Token, error) {
	return Token{}, ErrAbandoned
}

func (Unsupported) Complete(ctx context.Context, success bool) error { return nil }

// Preacquired adapts a token the device already obtained: the native
// prompt ran client-side and the API call carries its output. Complete
// only logs, since the sheet was closed by the device.
type Preacquired struct {
	Token Token
}

func (p Preacquired) Available(ctx context.Context) bool { return true }

func (p Preacquired) RequestToken(ctx context.Context, req CapabilityRequest) (Token, error) {
	return p.Token, nil
}

func (p Preacquired) Complete(ctx context.Context, success bool) error {
	log.Debug().Bool("success", success).Msg("wallet completion acknowledged")
	return nil
}
