// Package gateway submits payments to the remote processor and queries
// transaction state. Each call is exactly one network round trip: no
// caching, no retries, failures surface immediately.
package gateway

import (
	"context"
	"fmt"

	"chargepay/internal/core"
)

const (
	authorizePaymentPath = "/v2/payment/authorizePayment"
	createChargePath     = "/v2/payment/paymentContract/createCharge"
	transactionPath      = "/v2/transaction/getTransactionById/"
)

// Client talks to the payment processor's v2 API. It holds no mutable
// state between calls and is safe for concurrent use.
type Client struct {
	http *httpClient
}

func NewClient(baseURL string, creds CredentialSource) *Client {
	return &Client{http: newHTTPClient(baseURL, creds, 30)}
}

// AuthorizeWalletPayment submits a wallet token for authorization.
func (c *Client) AuthorizeWalletPayment(ctx context.Context, a WalletAuthorization) (PaymentResult, error) {
	return c.submit(ctx, authorizePaymentPath, walletPayload(a))
}

// CreateCardCharge charges a stored payment contract.
func (c *Client) CreateCardCharge(ctx context.Context, ch CardCharge) (PaymentResult, error) {
	return c.submit(ctx, createChargePath, cardPayload(ch))
}

func (c *Client) submit(ctx context.Context, path string, payload paymentPayload) (PaymentResult, error) {
	resp, err := c.http.postJSON(ctx, path, payload)
	if err != nil {
		return PaymentResult{}, err
	}
	if !resp.isSuccess() {
		return PaymentResult{}, &core.RequestFailedError{HTTPStatus: resp.StatusCode}
	}

	var result PaymentResult
	if err := resp.unmarshal(&result); err != nil {
		return PaymentResult{}, &core.ResponseInvalidError{Err: err}
	}
	return result, nil
}

// GetTransaction fetches the current state of a transaction by id.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (TransactionSnapshot, error) {
	resp, err := c.http.get(ctx, transactionPath+transactionID)
	if err != nil {
		return TransactionSnapshot{}, err
	}
	if !resp.isSuccess() {
		return TransactionSnapshot{}, &core.RequestFailedError{HTTPStatus: resp.StatusCode}
	}

	var snap TransactionSnapshot
	if err := resp.unmarshal(&snap); err != nil {
		return TransactionSnapshot{}, &core.ResponseInvalidError{Err: err}
	}
	if snap.ID == "" {
		return TransactionSnapshot{}, &core.ResponseInvalidError{Err: fmt.Errorf("snapshot missing id")}
	}
	return snap, nil
}
