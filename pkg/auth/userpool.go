package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	idptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type cognitoIDPAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
}

// UserPool authenticates users against a Cognito user pool and tracks
// the signed-in user's token set in a TokenStore. It implements
// IdentityProvider.
type UserPool struct {
	client   cognitoIDPAPI
	store    TokenStore
	clientID string
	now      func() time.Time
}

// NewUserPool creates a user pool client backed by AWS SDK v2.
func NewUserPool(cfg awsv2.Config, clientID string, store TokenStore) *UserPool {
	return newUserPool(cognitoidentityprovider.NewFromConfig(cfg), clientID, store)
}

func newUserPool(client cognitoIDPAPI, clientID string, store TokenStore) *UserPool {
	return &UserPool{
		client:   client,
		store:    store,
		clientID: clientID,
		now:      time.Now,
	}
}

// SignIn authenticates with username and password and stores the
// resulting token set.
func (p *UserPool) SignIn(ctx context.Context, username, password string) error {
	out, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: idptypes.AuthFlowTypeUserPasswordAuth,
		ClientId: awsv2.String(p.clientID),
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to sign in %q: %w", username, err)
	}
	if out.AuthenticationResult == nil {
		return fmt.Errorf("sign-in for %q requires challenge %q, which is not supported", username, out.ChallengeName)
	}

	tokens := tokensFromResult(username, out.AuthenticationResult, p.now())
	if err := p.store.Save(tokens); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil when the token store
// is empty.
func (p *UserPool) CurrentUser(ctx context.Context) (*User, error) {
	tokens, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if tokens == nil {
		return nil, nil
	}
	return &User{Username: tokens.Username}, nil
}

// SessionToken returns an ID token that is valid right now. An expired
// token is renewed through the refresh token; if that fails the session
// is gone and the caller gets a *SessionError.
func (p *UserPool) SessionToken(ctx context.Context, user *User) (string, error) {
	tokens, err := p.store.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if tokens == nil {
		return "", &SessionError{Err: errors.New("no stored session")}
	}

	if p.now().Before(tokens.ExpiresAt) {
		return tokens.IDToken, nil
	}

	out, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: idptypes.AuthFlowTypeRefreshTokenAuth,
		ClientId: awsv2.String(p.clientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": tokens.RefreshToken,
		},
	})
	if err != nil {
		return "", &SessionError{Err: err}
	}
	if out.AuthenticationResult == nil || out.AuthenticationResult.IdToken == nil {
		return "", &SessionError{Err: errors.New("refresh returned no tokens")}
	}

	refreshed := tokensFromResult(tokens.Username, out.AuthenticationResult, p.now())
	// The refresh flow doesn't return a new refresh token; keep the old one.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = tokens.RefreshToken
	}
	if err := p.store.Save(refreshed); err != nil {
		return "", fmt.Errorf("failed to store refreshed session: %w", err)
	}
	return refreshed.IDToken, nil
}

// SignOut revokes the user's tokens with the provider when possible and
// always clears the stored session.
func (p *UserPool) SignOut(ctx context.Context, user *User) error {
	tokens, err := p.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if tokens != nil && tokens.AccessToken != "" {
		// Revocation is best effort: a rejected or already-expired access
		// token still leaves us signed out locally.
		_, _ = p.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
			AccessToken: awsv2.String(tokens.AccessToken),
		})
	}

	if err := p.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func tokensFromResult(username string, result *idptypes.AuthenticationResultType, now time.Time) *Tokens {
	return &Tokens{
		Username:     username,
		IDToken:      awsv2.ToString(result.IdToken),
		AccessToken:  awsv2.ToString(result.AccessToken),
		RefreshToken: awsv2.ToString(result.RefreshToken),
		ExpiresAt:    now.Add(time.Duration(result.ExpiresIn) * time.Second),
	}
}
