package aws

import (
	"context"

	"github.com/mbaxter/notes-serverless/pkg/auth"
)

// Identity captures the principal behind a set of temporary
// credentials, as reported by STS.
type Identity struct {
	Arn     string
	Account string
	UserID  string
}

// Service answers identity questions about temporary credentials.
type Service interface {
	GetCallerIdentity(ctx context.Context, creds auth.Credentials) (Identity, error)
}
