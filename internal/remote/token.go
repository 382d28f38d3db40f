package remote

import (
	"os"

	"github.com/taskboardhq/pulse/internal/credential"
)

// tokenKey is the keyring entry holding the backend API token.
const tokenKey = "api-token"

// ResolveToken returns the backend API token from the PULSE_API_TOKEN
// environment variable, falling back to the system keyring. An empty
// string means no token is configured; the backend decides whether
// anonymous access is acceptable.
func ResolveToken() string {
	if token := os.Getenv("PULSE_API_TOKEN"); token != "" {
		return token
	}

	token, err := credential.Get(tokenKey)
	if err != nil {
		return ""
	}
	return token
}

// StoreToken saves the backend API token in the system keyring.
func StoreToken(token string) error {
	return credential.Set(tokenKey, token)
}
