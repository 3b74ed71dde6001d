package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mbaxter/notes-serverless/pkg/notes"
)

type fakeStore struct {
	notes     []notes.Note
	note      *notes.Note
	err       error
	deleteErr error

	listCalls   int
	deleteCalls int
	lastUserID  string
	lastNoteID  string
}

func (f *fakeStore) List(ctx context.Context, userID string) ([]notes.Note, error) {
	f.listCalls++
	f.lastUserID = userID
	return f.notes, f.err
}

func (f *fakeStore) Get(ctx context.Context, userID, noteID string) (*notes.Note, error) {
	f.lastUserID = userID
	f.lastNoteID = noteID
	if f.err != nil {
		return nil, f.err
	}
	return f.note, nil
}

func (f *fakeStore) Create(ctx context.Context, userID, content, attachment string) (*notes.Note, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &notes.Note{
		UserID:     userID,
		NoteID:     "note-1",
		Content:    content,
		Attachment: attachment,
	}, nil
}

func (f *fakeStore) Update(ctx context.Context, userID, noteID, content, attachment string) error {
	f.lastUserID = userID
	f.lastNoteID = noteID
	return f.err
}

func (f *fakeStore) Delete(ctx context.Context, userID, noteID string) error {
	f.deleteCalls++
	f.lastUserID = userID
	f.lastNoteID = noteID
	return f.deleteErr
}

func testHandler(store *fakeStore) *Handler {
	return New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func request(identityID, noteID, body string) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{
		Body: body,
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity: events.APIGatewayRequestIdentity{
				CognitoIdentityID: identityID,
			},
		},
	}
	if noteID != "" {
		req.PathParameters = map[string]string{"id": noteID}
	}
	return req
}

func TestListSuccess(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		notes: []notes.Note{
			{UserID: "us-east-1:1234", NoteID: "note-1", Content: "first"},
			{UserID: "us-east-1:1234", NoteID: "note-2", Content: "second"},
		},
	}
	h := testHandler(store)

	resp, err := h.List(context.Background(), request("us-east-1:1234", "", ""))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if store.lastUserID != "us-east-1:1234" {
		t.Fatalf("store saw userID %q", store.lastUserID)
	}

	var envelope struct {
		Items []notes.Note `json:"items"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &envelope); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if len(envelope.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(envelope.Items))
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestListFailureHidesDetail(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: errors.New("ProvisionedThroughputExceededException")}
	h := testHandler(store)

	resp, err := h.List(context.Background(), request("us-east-1:1234", "", ""))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if resp.Body != `{"status":false}` {
		t.Fatalf("failure envelope leaked detail: %q", resp.Body)
	}
}

func TestListWithoutIdentity(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	h := testHandler(store)

	resp, err := h.List(context.Background(), request("", "", ""))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", resp.StatusCode)
	}
	if store.listCalls != 0 {
		t.Fatalf("store should not be called, got %d calls", store.listCalls)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: notes.ErrNoteNotFound}
	h := testHandler(store)

	resp, err := h.Get(context.Background(), request("us-east-1:1234", "missing", ""))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if resp.Body != `{"status":false}` {
		t.Fatalf("unexpected body: %q", resp.Body)
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	h := testHandler(store)

	resp, err := h.Create(context.Background(), request("us-east-1:1234", "", `{"content":"hello","attachment":"cat.jpg"}`))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}

	var created notes.Note
	if err := json.Unmarshal([]byte(resp.Body), &created); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if created.Content != "hello" || created.Attachment != "cat.jpg" {
		t.Fatalf("unexpected note: %+v", created)
	}
}

func TestCreateBadBody(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	h := testHandler(store)

	resp, err := h.Create(context.Background(), request("us-east-1:1234", "", "{not json"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", resp.StatusCode)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	h := testHandler(store)

	resp, err := h.Update(context.Background(), request("us-east-1:1234", "note-1", `{"content":"edited"}`))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if resp.Body != `{"status":true}` {
		t.Fatalf("unexpected body: %q", resp.Body)
	}
	if store.lastNoteID != "note-1" {
		t.Fatalf("store saw noteID %q", store.lastNoteID)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	h := testHandler(store)

	resp, err := h.Delete(context.Background(), request("us-east-1:1234", "note-1", ""))
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Body != `{"status":true}` {
		t.Fatalf("unexpected body: %q", resp.Body)
	}
	if store.deleteCalls != 1 {
		t.Fatalf("expected 1 delete call, got %d", store.deleteCalls)
	}
}

func TestDeleteFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{deleteErr: errors.New("conditional check failed")}
	h := testHandler(store)

	resp, err := h.Delete(context.Background(), request("us-east-1:1234", "note-1", ""))
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if resp.Body != `{"status":false}` {
		t.Fatalf("unexpected body: %q", resp.Body)
	}
}
