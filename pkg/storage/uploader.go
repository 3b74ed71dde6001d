// Package storage uploads note attachments to the uploads bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mbaxter/notes-serverless/pkg/auth"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Authenticator is the session surface the uploader needs.
type Authenticator interface {
	EnsureAuthenticated(ctx context.Context) (auth.Status, error)
	IdentityID() string
}

// UploadResult describes a stored attachment.
type UploadResult struct {
	Bucket   string
	Key      string
	Location string
	ETag     string
}

// Uploader stores attachments under keys namespaced by the federated
// identity, so different users' files can't collide or leak into each
// other's listings.
type Uploader struct {
	client  s3API
	session Authenticator
	bucket  string
	now     func() time.Time
}

// NewUploader creates an uploader backed by AWS SDK v2.
func NewUploader(cfg awsv2.Config, session Authenticator, bucket string) *Uploader {
	return newUploader(s3.NewFromConfig(cfg), session, bucket)
}

func newUploader(client s3API, session Authenticator, bucket string) *Uploader {
	return &Uploader{
		client:  client,
		session: session,
		bucket:  bucket,
		now:     time.Now,
	}
}

// Upload stores the file under "{identityID}-{unixMillis}-{filename}"
// with public-read visibility. An unauthenticated session fails with
// *auth.NotAuthenticatedError before any storage call.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*UploadResult, error) {
	status, err := u.session.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if status != auth.StatusAuthenticated {
		return nil, &auth.NotAuthenticatedError{}
	}

	key := fmt.Sprintf("%s-%d-%s", u.session.IdentityID(), u.now().UnixMilli(), filepath.Base(filename))

	out, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awsv2.String(u.bucket),
		Key:         awsv2.String(key),
		Body:        body,
		ContentType: awsv2.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %q: %w", filename, err)
	}

	return &UploadResult{
		Bucket:   u.bucket,
		Key:      key,
		Location: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key),
		ETag:     awsv2.ToString(out.ETag),
	}, nil
}
