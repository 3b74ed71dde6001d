package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbaxter/notes-serverless/pkg/auth"
)

func newLoginCmd(build depsBuilder) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and establish a federated session",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), deps, username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "user pool username (usually an email address)")
	cmd.MarkFlagRequired("username")

	return cmd
}

func runLogin(ctx context.Context, deps runDeps, username string) error {
	fmt.Fprint(deps.stdout, "Password: ")
	password, err := deps.readPassword()
	fmt.Fprintln(deps.stdout)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password must not be empty")
	}

	if err := deps.signIn(ctx, username, password); err != nil {
		return err
	}

	status, err := deps.session.EnsureAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("signed in, but credential exchange failed: %w", err)
	}
	if status != auth.StatusAuthenticated {
		return fmt.Errorf("signed in, but no federated session was established")
	}

	fmt.Fprintf(deps.stdout, "Signed in as %s (identity %s)\n", username, deps.session.IdentityID())
	return nil
}

func newLogoutCmd(build depsBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard cached credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return runLogout(cmd.Context(), deps)
		},
	}
}

func runLogout(ctx context.Context, deps runDeps) error {
	if err := deps.session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(deps.stdout, "Signed out.")
	return nil
}

func newStatusCmd(build depsBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), deps)
		},
	}
}

func runStatus(ctx context.Context, deps runDeps) error {
	status, err := deps.session.EnsureAuthenticated(ctx)
	if err != nil {
		return err
	}
	if status != auth.StatusAuthenticated {
		fmt.Fprintln(deps.stdout, "Not signed in. Run 'notes login'.")
		return nil
	}

	creds, ok := deps.session.Credentials()
	if !ok {
		fmt.Fprintln(deps.stdout, "Not signed in. Run 'notes login'.")
		return nil
	}

	fmt.Fprintf(deps.stdout, "Identity:           %s\n", deps.session.IdentityID())
	fmt.Fprintf(deps.stdout, "Credentials expire: %s\n", creds.Expiration.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func newWhoamiCmd(build depsBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the federated credentials against STS",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return runWhoami(cmd.Context(), deps)
		},
	}
}

func runWhoami(ctx context.Context, deps runDeps) error {
	status, err := deps.session.EnsureAuthenticated(ctx)
	if err != nil {
		return err
	}
	if status != auth.StatusAuthenticated {
		return &auth.NotAuthenticatedError{}
	}

	creds, ok := deps.session.Credentials()
	if !ok {
		return &auth.NotAuthenticatedError{}
	}

	identity, err := deps.identity.GetCallerIdentity(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	fmt.Fprintf(deps.stdout, "Account:  %s\n", identity.Account)
	fmt.Fprintf(deps.stdout, "Arn:      %s\n", identity.Arn)
	fmt.Fprintf(deps.stdout, "Identity: %s\n", deps.session.IdentityID())
	return nil
}
