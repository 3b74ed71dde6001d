// Package aws verifies federated credentials against STS.
package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/mbaxter/notes-serverless/pkg/auth"
)

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type stsClientFactory interface {
	NewForCredentials(region string, creds auth.Credentials) stsAPI
}

type defaultSTSClientFactory struct{}

func (defaultSTSClientFactory) NewForCredentials(region string, creds auth.Credentials) stsAPI {
	cfg := awsv2.Config{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		),
	}
	return sts.NewFromConfig(cfg)
}

// SDKService is the concrete implementation backed by AWS SDK v2.
type SDKService struct {
	region     string
	stsFactory stsClientFactory
}

// NewService creates an STS-backed identity service for the region.
func NewService(region string) *SDKService {
	return newSDKService(region, defaultSTSClientFactory{})
}

func newSDKService(region string, stsFactory stsClientFactory) *SDKService {
	return &SDKService{
		region:     region,
		stsFactory: stsFactory,
	}
}

// GetCallerIdentity reports which principal the given temporary
// credentials belong to.
func (s *SDKService) GetCallerIdentity(ctx context.Context, creds auth.Credentials) (Identity, error) {
	out, err := s.stsFactory.NewForCredentials(s.region, creds).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		Arn:     awsv2.ToString(out.Arn),
		Account: awsv2.ToString(out.Account),
		UserID:  awsv2.ToString(out.UserId),
	}, nil
}
