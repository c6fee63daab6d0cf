package gateway

import "encoding/base64"

// CredentialSource produces an Authorization header value on demand.
// Credential generation lives outside the client so key rotation or
// token-based schemes can be swapped in without touching request code.
type CredentialSource func() string

// BasicAuth returns a CredentialSource for the processor's API key pair.
func BasicAuth(keyID, keySecret string) CredentialSource {
	encoded := base64.StdEncoding.EncodeToString([]byte(keyID + ":" + keySecret))
	return func() string { return "Basic " + encoded }
}
