package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mbaxter/notes-serverless/pkg/gateway"
)

func newInvokeCmd(build depsBuilder) *cobra.Command {
	var method string
	var data string

	cmd := &cobra.Command{
		Use:   "invoke <path>",
		Short: "Call the notes API with a signed request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return runInvoke(cmd.Context(), deps, args[0], method, data)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")

	return cmd
}

func runInvoke(ctx context.Context, deps runDeps, path, method, data string) error {
	req := gateway.Request{
		Path:   path,
		Method: method,
	}
	if data != "" {
		if !json.Valid([]byte(data)) {
			return fmt.Errorf("request body is not valid JSON")
		}
		req.Body = json.RawMessage(data)
	}

	body, err := deps.api.Invoke(ctx, req)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		// Not JSON after all; print it as-is.
		fmt.Fprintln(deps.stdout, string(body))
		return nil
	}
	fmt.Fprintln(deps.stdout, pretty.String())
	return nil
}

func newUploadCmd(build depsBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an attachment to the uploads bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return runUpload(cmd.Context(), deps, args[0])
		},
	}
}

func runUpload(ctx context.Context, deps runDeps, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := deps.uploader.Upload(ctx, filepath.Base(path), contentType, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.stdout, "Uploaded %s\n", result.Key)
	fmt.Fprintf(deps.stdout, "Location: %s\n", result.Location)
	return nil
}
