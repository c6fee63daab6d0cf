package core

// Method selects the payment flow for one attempt. Immutable once chosen.
type Method string

const (
	MethodWallet           Method = "wallet"
	MethodFrictionlessCard Method = "frictionless-card"
	MethodFingerprintCard  Method = "fingerprint-card"
	MethodChallengeCard    Method = "challenge-card"
)

// IsCard reports whether the method charges a stored payment contract.
func (m Method) IsCard() bool {
	switch m {
	case MethodFrictionlessCard, MethodFingerprintCard, MethodChallengeCard:
		return true
	}
	return false
}

// Known reports whether m is one of the supported methods.
func (m Method) Known() bool {
	return m == MethodWallet || m.IsCard()
}

// Status is the processor's transaction status vocabulary.
type Status string

const (
	StatusInitiated  Status = "INITIATED"
	StatusPending    Status = "PENDING"
	StatusAuthorized Status = "AUTHORIZED"
	StatusDeclined   Status = "DECLINED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// Terminal reports whether no further state change is expected for a
// transaction in this status. Polling must stop once a terminal status
// is observed.
func (s Status) Terminal() bool {
	switch s {
	case StatusAuthorized, StatusDeclined, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Action values the processor may attach to a payment result.
const ActionRedirectShopper = "REDIRECT_SHOPPER"

// PaymentRequest carries the parameters needed to build a gateway payload.
// Card methods require a non-empty ContractID; the wallet flow ignores it.
type PaymentRequest struct {
	Method     Method
	Amount     int64 // minor currency units
	Currency   string
	AccountID  string
	ContractID string
}
