// Package cmd implements the notes CLI: sign in against the user pool,
// inspect the federated session, call the notes API and upload
// attachments.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	awslib "github.com/mbaxter/notes-serverless/pkg/aws"
	"github.com/mbaxter/notes-serverless/pkg/auth"
	"github.com/mbaxter/notes-serverless/pkg/gateway"
	"github.com/mbaxter/notes-serverless/pkg/storage"
)

// Config is the externally provisioned service configuration. All
// values are opaque identifiers handed out by the infrastructure.
type Config struct {
	Region         string
	UserPoolID     string
	AppClientID    string
	IdentityPoolID string
	APIEndpoint    string
	UploadsBucket  string
}

func configFromEnv() Config {
	region := os.Getenv("NOTES_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	return Config{
		Region:         region,
		UserPoolID:     os.Getenv("NOTES_USER_POOL_ID"),
		AppClientID:    os.Getenv("NOTES_APP_CLIENT_ID"),
		IdentityPoolID: os.Getenv("NOTES_IDENTITY_POOL_ID"),
		APIEndpoint:    os.Getenv("NOTES_API_URL"),
		UploadsBucket:  os.Getenv("NOTES_UPLOADS_BUCKET"),
	}
}

type sessionAPI interface {
	EnsureAuthenticated(ctx context.Context) (auth.Status, error)
	SignOut(ctx context.Context) error
	Credentials() (auth.Credentials, bool)
	IdentityID() string
}

type uploaderAPI interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*storage.UploadResult, error)
}

type apiInvoker interface {
	Invoke(ctx context.Context, req gateway.Request) (json.RawMessage, error)
}

type runDeps struct {
	session      sessionAPI
	signIn       func(ctx context.Context, username, password string) error
	uploader     uploaderAPI
	api          apiInvoker
	identity     awslib.Service
	readPassword func() (string, error)
	stdout       io.Writer
	stderr       io.Writer
}

type depsBuilder func(ctx context.Context) (runDeps, error)

func defaultRunDeps(ctx context.Context) (runDeps, error) {
	cfg := configFromEnv()
	if cfg.Region == "" {
		return runDeps{}, fmt.Errorf("NOTES_REGION (or AWS_REGION) is not set")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return runDeps{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	store, err := auth.NewFileTokenStore()
	if err != nil {
		return runDeps{}, err
	}

	pool := auth.NewUserPool(awsCfg, cfg.AppClientID, store)
	exchanger := auth.NewIdentityPool(awsCfg, cfg.Region, cfg.UserPoolID, cfg.IdentityPoolID)
	session := auth.NewSession(pool, exchanger, nil)

	return runDeps{
		session:  session,
		signIn:   pool.SignIn,
		uploader: storage.NewUploader(awsCfg, session, cfg.UploadsBucket),
		api:      gateway.NewClient(session, cfg.Region, cfg.APIEndpoint),
		identity: awslib.NewService(cfg.Region),
		readPassword: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}, nil
}

// NewRootCmd creates the root CLI command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultRunDeps)
}

func newRootCmd(build depsBuilder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "notes",
		Short: "Authenticated client for the notes API",
		Long: `Signs in against the configured user pool, federates the session into
temporary AWS credentials, and uses them to call the notes API and
upload attachments. Configuration comes from NOTES_* environment
variables.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newLoginCmd(build),
		newLogoutCmd(build),
		newStatusCmd(build),
		newWhoamiCmd(build),
		newInvokeCmd(build),
		newUploadCmd(build),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
