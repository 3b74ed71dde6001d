package mocks

import (
	"context"
	"fmt"

	"github.com/mbaxter/notes-serverless/pkg/auth"
)

// Provider is a hand-written mock for auth.IdentityProvider.
type Provider struct {
	CurrentUserFunc  func(ctx context.Context) (*auth.User, error)
	SessionTokenFunc func(ctx context.Context, user *auth.User) (string, error)
	SignOutFunc      func(ctx context.Context, user *auth.User) error

	CurrentUserCalls  int
	SessionTokenCalls int
	SignOutCalls      int
}

func (m *Provider) CurrentUser(ctx context.Context) (*auth.User, error) {
	m.CurrentUserCalls++
	if m.CurrentUserFunc == nil {
		return nil, fmt.Errorf("CurrentUserFunc is not set")
	}
	return m.CurrentUserFunc(ctx)
}

func (m *Provider) SessionToken(ctx context.Context, user *auth.User) (string, error) {
	m.SessionTokenCalls++
	if m.SessionTokenFunc == nil {
		return "", fmt.Errorf("SessionTokenFunc is not set")
	}
	return m.SessionTokenFunc(ctx, user)
}

func (m *Provider) SignOut(ctx context.Context, user *auth.User) error {
	m.SignOutCalls++
	if m.SignOutFunc == nil {
		return fmt.Errorf("SignOutFunc is not set")
	}
	return m.SignOutFunc(ctx, user)
}

// Exchanger is a hand-written mock for auth.CredentialExchanger.
type Exchanger struct {
	ExchangeFunc func(ctx context.Context, sessionToken string) (auth.Identity, auth.Credentials, error)

	ExchangeCalls    int
	LastSessionToken string
}

func (m *Exchanger) Exchange(ctx context.Context, sessionToken string) (auth.Identity, auth.Credentials, error) {
	m.ExchangeCalls++
	m.LastSessionToken = sessionToken
	if m.ExchangeFunc == nil {
		return auth.Identity{}, auth.Credentials{}, fmt.Errorf("ExchangeFunc is not set")
	}
	return m.ExchangeFunc(ctx, sessionToken)
}

// Session mocks the authenticated-session surface consumed by the
// gateway client, the uploader and the CLI.
type Session struct {
	EnsureAuthenticatedFunc func(ctx context.Context) (auth.Status, error)
	SignOutFunc             func(ctx context.Context) error
	CredentialsFunc         func() (auth.Credentials, bool)
	IdentityIDFunc          func() string

	EnsureAuthenticatedCalls int
	SignOutCalls             int
	CredentialsCalls         int
	IdentityIDCalls          int
}

func (m *Session) EnsureAuthenticated(ctx context.Context) (auth.Status, error) {
	m.EnsureAuthenticatedCalls++
	if m.EnsureAuthenticatedFunc == nil {
		return auth.StatusNotAuthenticated, fmt.Errorf("EnsureAuthenticatedFunc is not set")
	}
	return m.EnsureAuthenticatedFunc(ctx)
}

func (m *Session) SignOut(ctx context.Context) error {
	m.SignOutCalls++
	if m.SignOutFunc == nil {
		return fmt.Errorf("SignOutFunc is not set")
	}
	return m.SignOutFunc(ctx)
}

func (m *Session) Credentials() (auth.Credentials, bool) {
	m.CredentialsCalls++
	if m.CredentialsFunc == nil {
		return auth.Credentials{}, false
	}
	return m.CredentialsFunc()
}

func (m *Session) IdentityID() string {
	m.IdentityIDCalls++
	if m.IdentityIDFunc == nil {
		return ""
	}
	return m.IdentityIDFunc()
}
