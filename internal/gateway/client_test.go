package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"chargepay/internal/core"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, BasicAuth("apiKeyId", "apiKeySecret"))
}

func TestAuthorizeWalletPaymentBuildsPayload(t *testing.T) {
	var got map[string]any
	var auth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/payment/authorizePayment", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "tx-1", "status": "AUTHORIZED"})
	})

	res, err := c.AuthorizeWalletPayment(context.Background(), WalletAuthorization{
		AccountID:     "acct-1",
		Amount:        10100,
		Currency:      "EUR",
		ApplePayToken: `{"paymentData":{"data":"opaque"}}`,
	})
	require.NoError(t, err)
	require.Equal(t, "tx-1", res.ID)
	require.Equal(t, core.StatusAuthorized, res.Status)

	// Basic auth credential as the processor expects it.
	require.Equal(t, "Basic YXBpS2V5SWQ6YXBpS2V5U2VjcmV0", auth)

	require.Equal(t, "acct-1", got["accountId"])
	require.Equal(t, float64(10100), got["amount"])
	require.Equal(t, "EUR", got["currencyCode"])

	card := got["paymentMethodDetails"].(map[string]any)["card"].(map[string]any)
	require.Equal(t, "MANUAL", card["captureWhen"])
	require.Equal(t, "FIRST_UNSCHEDULED", card["transactionType"])
	require.Equal(t, "FINAL_AUTH", card["authorizationType"])
	require.Equal(t, `{"paymentData":{"data":"opaque"}}`, card["applePayToken"])
	_, hasGoogle := card["googlePayToken"]
	require.False(t, hasGoogle, "empty brand payload must be omitted")
}

func TestCreateCardChargeBuildsPayload(t *testing.T) {
	var got map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/payment/paymentContract/createCharge", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "tx-2", "status": "INITIATED", "action": "REDIRECT_SHOPPER",
			"details": map[string]string{"url": "https://challenge"},
		})
	})

	res, err := c.CreateCardCharge(context.Background(), CardCharge{
		AccountID:   "acct-1",
		Amount:      101,
		Currency:    "EUR",
		ContractID:  "contract-9",
		RedirectURL: "chargepay://return",
	})
	require.NoError(t, err)
	require.Equal(t, "tx-2", res.ID)
	require.Equal(t, "https://challenge", res.RedirectURL())

	require.Equal(t, "contract-9", got["paymentContractId"])
	card := got["paymentMethodDetails"].(map[string]any)["card"].(map[string]any)
	require.Equal(t, "MANUAL", card["captureWhen"])
	require.Equal(t, "INCREMENTAL", card["preAuthorizationType"])
	require.Equal(t, "PRE_AUTH", card["authorizationType"])
	require.Equal(t, "SHOPPER", card["initiatorType"])
	require.Equal(t, "chargepay://return", card["redirectUrl"])
	_, hasTxType := card["transactionType"]
	require.False(t, hasTxType, "card charges carry no wallet transaction type")
}

func TestSubmitNonSuccessStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := c.CreateCardCharge(context.Background(), CardCharge{ContractID: "x"})
	var reqFailed *core.RequestFailedError
	require.ErrorAs(t, err, &reqFailed)
	require.Equal(t, http.StatusForbidden, reqFailed.HTTPStatus)
}

func TestSubmitMalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.AuthorizeWalletPayment(context.Background(), WalletAuthorization{})
	var invalid *core.ResponseInvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestGetTransaction(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v2/transaction/getTransactionById/tx-3", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                "tx-3",
			"createdAt":         "2025-05-01T10:00:00Z",
			"updatedAt":         "2025-05-01T10:00:05Z",
			"accountId":         "acct-1",
			"merchantAccountId": "merch-1",
			"status":            "PENDING",
		})
	})

	snap, err := c.GetTransaction(context.Background(), "tx-3")
	require.NoError(t, err)
	require.Equal(t, "tx-3", snap.ID)
	require.Equal(t, "merch-1", snap.MerchantAccountID)
	require.Equal(t, core.StatusPending, snap.Status)
	require.False(t, snap.Status.Terminal())
}

func TestGetTransactionEmptyBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	_, err := c.GetTransaction(context.Background(), "tx-3")
	var invalid *core.ResponseInvalidError
	require.ErrorAs(t, err, &invalid)
}
