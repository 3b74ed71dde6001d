// Package handler implements the Lambda handlers behind the notes API.
//
// Every handler responds with one of two fixed envelopes: the result
// JSON with status 200, or {"status":false} with status 500. Error
// detail is logged but never returned to the caller.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mbaxter/notes-serverless/pkg/notes"
)

// NotesStore is the notes table surface the handlers consume.
type NotesStore interface {
	List(ctx context.Context, userID string) ([]notes.Note, error)
	Get(ctx context.Context, userID, noteID string) (*notes.Note, error)
	Create(ctx context.Context, userID, content, attachment string) (*notes.Note, error)
	Update(ctx context.Context, userID, noteID, content, attachment string) error
	Delete(ctx context.Context, userID, noteID string) error
}

// Handler holds the dependencies shared by all notes handlers.
type Handler struct {
	store NotesStore
	log   *slog.Logger
}

// New creates a handler set. A nil logger gets a JSON logger on stderr,
// which CloudWatch picks up line by line.
func New(store NotesStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return &Handler{store: store, log: log}
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Credentials": "true",
}

func success(v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return failure()
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}

func failure() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    corsHeaders,
		Body:       `{"status":false}`,
	}
}

// identityID is the caller's federated identity from the request
// context, the same ID that namespaces their uploads.
func identityID(req events.APIGatewayProxyRequest) string {
	return req.RequestContext.Identity.CognitoIdentityID
}
