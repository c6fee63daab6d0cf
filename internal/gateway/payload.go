package gateway

// Wire payloads for the two submission endpoints. Both flows share the
// same outer shape and differ only in the card sub-object, so a single
// builder produces both and the field sets cannot drift apart.

type paymentPayload struct {
	AccountID         string        `json:"accountId"`
	Amount            int64         `json:"amount"`
	CurrencyCode      string        `json:"currencyCode"`
	PaymentContractID string        `json:"paymentContractId,omitempty"`
	PaymentMethod     methodDetails `json:"paymentMethodDetails"`
}

type methodDetails struct {
	Card cardDetails `json:"card"`
}

type cardDetails struct {
	CaptureWhen          string `json:"captureWhen"`
	TransactionType      string `json:"transactionType,omitempty"`
	AuthorizationType    string `json:"authorizationType"`
	PreAuthorizationType string `json:"preAuthorizationType,omitempty"`
	InitiatorType        string `json:"initiatorType,omitempty"`
	RedirectURL          string `json:"redirectUrl,omitempty"`
	ApplePayToken        string `json:"applePayToken,omitempty"`
	GooglePayToken       string `json:"googlePayToken,omitempty"`
}

// walletPayload builds the authorize-payment body: funds are captured
// manually after a final authorization of the full amount.
func walletPayload(a WalletAuthorization) paymentPayload {
	return paymentPayload{
		AccountID:    a.AccountID,
		Amount:       a.Amount,
		CurrencyCode: a.Currency,
		PaymentMethod: methodDetails{Card: cardDetails{
			CaptureWhen:       "MANUAL",
			TransactionType:   "FIRST_UNSCHEDULED",
			AuthorizationType: "FINAL_AUTH",
			ApplePayToken:     a.ApplePayToken,
			GooglePayToken:    a.GooglePayToken,
		}},
	}
}

// cardPayload builds the create-charge body: a shopper-initiated
// pre-authorization with incremental capture against a stored contract.
func cardPayload(c CardCharge) paymentPayload {
	return paymentPayload{
		AccountID:         c.AccountID,
		Amount:            c.Amount,
		CurrencyCode:      c.Currency,
		PaymentContractID: c.ContractID,
		PaymentMethod: methodDetails{Card: cardDetails{
			CaptureWhen:          "MANUAL",
			PreAuthorizationType: "INCREMENTAL",
			AuthorizationType:    "PRE_AUTH",
			InitiatorType:        "SHOPPER",
			RedirectURL:          c.RedirectURL,
		}},
	}
}
