package auth

import (
	"context"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
)

type cognitoIdentityAPI interface {
	GetId(ctx context.Context, params *cognitoidentity.GetIdInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetIdOutput, error)
	GetCredentialsForIdentity(ctx context.Context, params *cognitoidentity.GetCredentialsForIdentityInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetCredentialsForIdentityOutput, error)
}

// IdentityPool exchanges a user pool session token for temporary AWS
// credentials through a Cognito identity pool. It implements
// CredentialExchanger.
type IdentityPool struct {
	client         cognitoIdentityAPI
	identityPoolID string
	providerName   string
}

// NewIdentityPool creates an identity pool client backed by AWS SDK v2.
// The provider name keyed in the logins map is fixed by Cognito to the
// user pool's issuer hostname and ID.
func NewIdentityPool(cfg awsv2.Config, region, userPoolID, identityPoolID string) *IdentityPool {
	providerName := fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
	return newIdentityPool(cognitoidentity.NewFromConfig(cfg), identityPoolID, providerName)
}

func newIdentityPool(client cognitoIdentityAPI, identityPoolID, providerName string) *IdentityPool {
	return &IdentityPool{
		client:         client,
		identityPoolID: identityPoolID,
		providerName:   providerName,
	}
}

// Exchange resolves the federated identity for the session token and
// requests temporary credentials for it. Any failure surfaces as an
// *ExchangeError.
func (p *IdentityPool) Exchange(ctx context.Context, sessionToken string) (Identity, Credentials, error) {
	logins := map[string]string{p.providerName: sessionToken}

	idOut, err := p.client.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: awsv2.String(p.identityPoolID),
		Logins:         logins,
	})
	if err != nil {
		return Identity{}, Credentials{}, &ExchangeError{Err: fmt.Errorf("failed to resolve identity: %w", err)}
	}
	if idOut.IdentityId == nil {
		return Identity{}, Credentials{}, &ExchangeError{Err: errors.New("identity pool returned no identity id")}
	}

	credsOut, err := p.client.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: idOut.IdentityId,
		Logins:     logins,
	})
	if err != nil {
		return Identity{}, Credentials{}, &ExchangeError{Err: fmt.Errorf("failed to get credentials: %w", err)}
	}
	if credsOut.Credentials == nil {
		return Identity{}, Credentials{}, &ExchangeError{Err: errors.New("identity pool returned no credentials")}
	}

	creds := credsOut.Credentials
	identity := Identity{ID: awsv2.ToString(idOut.IdentityId)}
	return identity, Credentials{
		AccessKeyID:     awsv2.ToString(creds.AccessKeyId),
		SecretAccessKey: awsv2.ToString(creds.SecretKey),
		SessionToken:    awsv2.ToString(creds.SessionToken),
		Expiration:      awsv2.ToTime(creds.Expiration),
	}, nil
}
