package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayAmount(t *testing.T) {
	require.Equal(t, "101.00", DisplayAmount(10100))
	require.Equal(t, "1.01", DisplayAmount(101))
	require.Equal(t, "0.05", DisplayAmount(5))
	require.Equal(t, "0.00", DisplayAmount(0))
}

func TestTokenPayloadSelection(t *testing.T) {
	brand, payload, ok := Token{ApplePay: "a"}.Payload()
	require.True(t, ok)
	require.Equal(t, BrandApplePay, brand)
	require.Equal(t, "a", payload)

	brand, payload, ok = Token{GooglePay: "g"}.Payload()
	require.True(t, ok)
	require.Equal(t, BrandGooglePay, brand)
	require.Equal(t, "g", payload)

	_, _, ok = Token{}.Payload()
	require.False(t, ok)
}
