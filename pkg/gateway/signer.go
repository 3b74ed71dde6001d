package gateway

import (
	"context"
	"net/http"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/mbaxter/notes-serverless/pkg/auth"
)

// apiGatewayService is the SigV4 service name API Gateway endpoints are
// signed for.
const apiGatewayService = "execute-api"

// RequestSigner signs an outgoing request with the given credentials.
// The payload hash is the hex-encoded SHA-256 of the request body.
type RequestSigner interface {
	Sign(ctx context.Context, req *http.Request, payloadHash string, creds auth.Credentials) error
}

type sigV4Signer struct {
	signer *v4.Signer
	region string
	now    func() time.Time
}

// NewSigV4Signer creates a signer for API Gateway requests in the given
// region.
func NewSigV4Signer(region string) RequestSigner {
	return &sigV4Signer{
		signer: v4.NewSigner(),
		region: region,
		now:    time.Now,
	}
}

func (s *sigV4Signer) Sign(ctx context.Context, req *http.Request, payloadHash string, creds auth.Credentials) error {
	return s.signer.SignHTTP(ctx, awsv2.Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
	}, req, payloadHash, apiGatewayService, s.region, s.now())
}
