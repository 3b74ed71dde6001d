package auth

import (
	"context"
	"fmt"
	"sync"
)

// Session composes the identity provider, the credential exchanger and
// the credential cache into one ensure-authenticated operation. A
// single mutex serializes concurrent calls, so two racing flows can't
// clobber each other's stored credentials.
type Session struct {
	mu        sync.Mutex
	provider  IdentityProvider
	exchanger CredentialExchanger
	cache     *CredentialCache
	identity  Identity
}

// NewSession creates a session. A nil cache gets a fresh one with the
// default expiry margin.
func NewSession(provider IdentityProvider, exchanger CredentialExchanger, cache *CredentialCache) *Session {
	if cache == nil {
		cache = NewCredentialCache()
	}
	return &Session{
		provider:  provider,
		exchanger: exchanger,
		cache:     cache,
	}
}

// EnsureAuthenticated makes sure valid temporary credentials are
// cached, performing the full sign-in exchange only when they aren't:
//
//  1. Cached credentials still valid: done, no provider calls.
//  2. No current user: StatusNotAuthenticated, nil error.
//  3. Fetch a session token (failures carry *SessionError).
//  4. Exchange it for credentials (failures carry *ExchangeError).
//  5. Cache the new set.
//
// There are no retries; a failed step fails the whole operation and the
// caller decides whether to run the flow again.
func (s *Session) EnsureAuthenticated(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.Valid() {
		return StatusAuthenticated, nil
	}

	user, err := s.provider.CurrentUser(ctx)
	if err != nil {
		return StatusNotAuthenticated, fmt.Errorf("failed to resolve current user: %w", err)
	}
	if user == nil {
		return StatusNotAuthenticated, nil
	}

	token, err := s.provider.SessionToken(ctx, user)
	if err != nil {
		return StatusNotAuthenticated, err
	}

	identity, creds, err := s.exchanger.Exchange(ctx, token)
	if err != nil {
		return StatusNotAuthenticated, err
	}

	s.cache.Store(creds)
	s.identity = identity
	return StatusAuthenticated, nil
}

// SignOut ends the provider session for the current user if there is
// one, then clears the credential cache. Signing out while already
// signed out is a no-op that succeeds.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.provider.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve current user: %w", err)
	}
	if user != nil {
		if err := s.provider.SignOut(ctx, user); err != nil {
			return fmt.Errorf("failed to sign out %q: %w", user.Username, err)
		}
	}

	s.cache.Clear()
	s.identity = Identity{}
	return nil
}

// Credentials returns the cached credential set if it is still valid.
func (s *Session) Credentials() (Credentials, bool) {
	return s.cache.Credentials()
}

// IdentityID returns the federated identity ID from the last successful
// exchange, or empty if there hasn't been one.
func (s *Session) IdentityID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.ID
}
