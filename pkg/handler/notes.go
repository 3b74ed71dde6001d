package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mbaxter/notes-serverless/pkg/notes"
)

type noteInput struct {
	Content    string `json:"content"`
	Attachment string `json:"attachment"`
}

type statusBody struct {
	Status bool `json:"status"`
}

// List returns all of the caller's notes as {"items":[...]}.
func (h *Handler) List(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := identityID(req)
	if userID == "" {
		h.log.ErrorContext(ctx, "request has no federated identity")
		return failure(), nil
	}

	items, err := h.store.List(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to list notes", "error", err)
		return failure(), nil
	}

	return success(map[string]any{"items": items}), nil
}

// Get returns one note by its path parameter id.
func (h *Handler) Get(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := identityID(req)
	noteID := req.PathParameters["id"]
	if userID == "" || noteID == "" {
		h.log.ErrorContext(ctx, "request missing identity or note id")
		return failure(), nil
	}

	note, err := h.store.Get(ctx, userID, noteID)
	if err != nil {
		if !errors.Is(err, notes.ErrNoteNotFound) {
			h.log.ErrorContext(ctx, "failed to get note", "noteId", noteID, "error", err)
		}
		return failure(), nil
	}

	return success(note), nil
}

// Create stores a new note from the request body and returns it.
func (h *Handler) Create(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := identityID(req)
	if userID == "" {
		h.log.ErrorContext(ctx, "request has no federated identity")
		return failure(), nil
	}

	var input noteInput
	if err := json.Unmarshal([]byte(req.Body), &input); err != nil {
		h.log.ErrorContext(ctx, "failed to parse request body", "error", err)
		return failure(), nil
	}

	note, err := h.store.Create(ctx, userID, input.Content, input.Attachment)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to create note", "error", err)
		return failure(), nil
	}

	return success(note), nil
}

// Update replaces a note's content and attachment, responding with
// {"status":true}.
func (h *Handler) Update(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := identityID(req)
	noteID := req.PathParameters["id"]
	if userID == "" || noteID == "" {
		h.log.ErrorContext(ctx, "request missing identity or note id")
		return failure(), nil
	}

	var input noteInput
	if err := json.Unmarshal([]byte(req.Body), &input); err != nil {
		h.log.ErrorContext(ctx, "failed to parse request body", "error", err)
		return failure(), nil
	}

	if err := h.store.Update(ctx, userID, noteID, input.Content, input.Attachment); err != nil {
		h.log.ErrorContext(ctx, "failed to update note", "noteId", noteID, "error", err)
		return failure(), nil
	}

	return success(statusBody{Status: true}), nil
}

// Delete removes a note, responding with {"status":true}.
func (h *Handler) Delete(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID := identityID(req)
	noteID := req.PathParameters["id"]
	if userID == "" || noteID == "" {
		h.log.ErrorContext(ctx, "request missing identity or note id")
		return failure(), nil
	}

	if err := h.store.Delete(ctx, userID, noteID); err != nil {
		h.log.ErrorContext(ctx, "failed to delete note", "noteId", noteID, "error", err)
		return failure(), nil
	}

	return success(statusBody{Status: true}), nil
}
