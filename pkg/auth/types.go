package auth

import (
	"context"
	"time"
)

// Credentials are temporary AWS credentials obtained through the
// identity pool federation exchange.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// User identifies a signed-in user pool user.
type User struct {
	Username string
}

// Identity is the federated identity resolved by the exchange. Its ID
// namespaces object-storage keys and matches the identity the API
// handlers see on incoming requests.
type Identity struct {
	ID string
}

// Status is the outcome of an authentication check. "Not authenticated"
// is a normal outcome, not an error; errors are reserved for failures
// of the flow itself.
type Status int

const (
	StatusNotAuthenticated Status = iota
	StatusAuthenticated
)

// IdentityProvider answers who is currently signed in and produces
// fresh session tokens for them.
type IdentityProvider interface {
	// CurrentUser returns the signed-in user, or nil when nobody is.
	CurrentUser(ctx context.Context) (*User, error)
	// SessionToken returns a session token that is valid right now,
	// refreshing the underlying session if needed. Fails with a
	// *SessionError when the session cannot be refreshed.
	SessionToken(ctx context.Context, user *User) (string, error)
	// SignOut ends the user's session with the provider.
	SignOut(ctx context.Context, user *User) error
}

// CredentialExchanger trades a session token for temporary AWS
// credentials and the federated identity they belong to.
type CredentialExchanger interface {
	Exchange(ctx context.Context, sessionToken string) (Identity, Credentials, error)
}
