package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chargepay/internal/checkout"
	"chargepay/internal/config"
	"chargepay/internal/core"
	"chargepay/internal/gateway"
	"chargepay/internal/status"
	"chargepay/internal/wallet"
)

type fakeGateway struct {
	result gateway.PaymentResult
	err    error
}

func (f *fakeGateway) AuthorizeWalletPayment(ctx context.Context, a gateway.WalletAuthorization) (gateway.PaymentResult, error) {
	return f.result, f.err
}

func (f *fakeGateway) CreateCardCharge(ctx context.Context, c gateway.CardCharge) (gateway.PaymentResult, error) {
	return f.result, f.err
}

type fakeFetcher struct {
	snap gateway.TransactionSnapshot
	err  error
}

func (f *fakeFetcher) GetTransaction(ctx context.Context, id string) (gateway.TransactionSnapshot, error) {
	return f.snap, f.err
}

func testServer(t *testing.T, gw checkout.Gateway, fetcher status.Fetcher) *httptest.Server {
	t.Helper()
	cfg := config.Cfg{}
	cfg.App.APIToken = "secret"
	cfg.Merchant.OperatingAccountID = "acct-1"

	orch := checkout.New(gw, wallet.Unsupported{}, nil, checkout.Options{
		CountryCode: "NL", Currency: "EUR",
	})
	reg := status.NewRegistry(context.Background(), fetcher, time.Hour)
	t.Cleanup(reg.StopAll)

	srv := httptest.NewServer(NewRouter(RouterDependencies{
		Config:       cfg,
		Orchestrator: orch,
		Registry:     reg,
		Fetcher:      fetcher,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	srv := testServer(t, &fakeGateway{}, &fakeFetcher{})
	resp := doJSON(t, http.MethodGet, srv.URL+"/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRequiresToken(t *testing.T) {
	srv := testServer(t, &fakeGateway{}, &fakeFetcher{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments", "", `{}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments", "wrong", `{}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitCardPayment(t *testing.T) {
	gw := &fakeGateway{result: gateway.PaymentResult{ID: "tx-2", Status: core.StatusInitiated,
		Action: core.ActionRedirectShopper, Details: gateway.ResultDetails{URL: "https://challenge"}}}
	srv := testServer(t, gw, &fakeFetcher{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments", "secret",
		`{"method":"fingerprint-card","amount":101,"contractId":"contract-9"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
		RedirectURL   string `json:"redirectUrl"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "tx-2", out.TransactionID)
	require.Equal(t, "INITIATED", out.Status)
	require.Equal(t, "https://challenge", out.RedirectURL)
}

func TestSubmitCardWithoutContract(t *testing.T) {
	srv := testServer(t, &fakeGateway{}, &fakeFetcher{})
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments", "secret",
		`{"method":"challenge-card","amount":101}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmitWalletWithPreacquiredToken(t *testing.T) {
	gw := &fakeGateway{result: gateway.PaymentResult{ID: "tx-1", Status: core.StatusAuthorized}}
	srv := testServer(t, gw, &fakeFetcher{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments", "secret",
		`{"method":"wallet","amount":10100,"walletToken":{"applePayToken":"{\"tok\":1}"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		TransactionID string `json:"transactionId"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "tx-1", out.TransactionID)
}

func TestSubmitWalletWithoutTokenIsAbandoned(t *testing.T) {
	// The default provider reports the capability unavailable, so a wallet
	// submission with no token is a silent abandonment.
	srv := testServer(t, &fakeGateway{}, &fakeFetcher{})
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments", "secret",
		`{"method":"wallet","amount":100}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSubmitGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: &core.RequestFailedError{HTTPStatus: 503}}
	srv := testServer(t, gw, &fakeFetcher{})
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments", "secret",
		`{"method":"frictionless-card","amount":100,"contractId":"c-1"}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestTrackAndStatus(t *testing.T) {
	fetcher := &fakeFetcher{snap: gateway.TransactionSnapshot{
		ID: "tx-3", AccountID: "acct-1", MerchantAccountID: "merch-1", Status: core.StatusPending,
	}}
	srv := testServer(t, &fakeGateway{}, fetcher)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments/tx-3/track", "secret", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statusOut struct {
		Snapshot     *gateway.TransactionSnapshot `json:"snapshot"`
		SessionState string                       `json:"sessionState"`
	}
	require.Eventually(t, func() bool {
		r := doJSON(t, http.MethodGet, srv.URL+"/api/v1/payments/tx-3/status", "secret", "")
		if r.StatusCode != http.StatusOK {
			return false
		}
		statusOut = struct {
			Snapshot     *gateway.TransactionSnapshot `json:"snapshot"`
			SessionState string                       `json:"sessionState"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&statusOut); err != nil {
			return false
		}
		return statusOut.Snapshot != nil
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, "polling", statusOut.SessionState)
	require.Equal(t, core.StatusPending, statusOut.Snapshot.Status)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/payments/tx-3/track", "secret", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTrackInvalidID(t *testing.T) {
	srv := testServer(t, &fakeGateway{}, &fakeFetcher{})
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/payments/%20/track", "secret", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFallsBackToGateway(t *testing.T) {
	fetcher := &fakeFetcher{snap: gateway.TransactionSnapshot{
		ID: "tx-9", Status: core.StatusAuthorized,
	}}
	srv := testServer(t, &fakeGateway{}, fetcher)

	// No session, no cache: the handler reads the gateway directly.
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/payments/tx-9/status", "secret", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Source   string                       `json:"source"`
		Snapshot *gateway.TransactionSnapshot `json:"snapshot"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "gateway", out.Source)
	require.Equal(t, core.StatusAuthorized, out.Snapshot.Status)
}
