// Package notes reads and writes notes in the DynamoDB table keyed
// (userId, noteId).
package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/oklog/ulid/v2"
)

// ErrNoteNotFound is returned when the requested (userId, noteId) pair
// doesn't exist.
var ErrNoteNotFound = errors.New("note not found")

// Note is one row in the notes table. UserID is the caller's federated
// identity; Attachment is the storage key of an uploaded file, if any.
type Note struct {
	UserID     string `dynamodbav:"userId" json:"userId"`
	NoteID     string `dynamodbav:"noteId" json:"noteId"`
	Content    string `dynamodbav:"content" json:"content"`
	Attachment string `dynamodbav:"attachment,omitempty" json:"attachment,omitempty"`
	CreatedAt  int64  `dynamodbav:"createdAt" json:"createdAt"`
}

type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store is the notes table access layer.
type Store struct {
	db    dynamoAPI
	table string
	newID func() string
	now   func() time.Time
}

// NewStore creates a store for the given table backed by AWS SDK v2.
func NewStore(cfg awsv2.Config, table string) *Store {
	return newStore(dynamodb.NewFromConfig(cfg), table)
}

func newStore(db dynamoAPI, table string) *Store {
	return &Store{
		db:    db,
		table: table,
		newID: func() string { return ulid.Make().String() },
		now:   time.Now,
	}
}

func noteKey(userID, noteID string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"userId": &ddbtypes.AttributeValueMemberS{Value: userID},
		"noteId": &ddbtypes.AttributeValueMemberS{Value: noteID},
	}
}

// Create stores a new note with a generated ID and returns it.
func (s *Store) Create(ctx context.Context, userID, content, attachment string) (*Note, error) {
	note := &Note{
		UserID:     userID,
		NoteID:     s.newID(),
		Content:    content,
		Attachment: attachment,
		CreatedAt:  s.now().UnixMilli(),
	}

	item, err := attributevalue.MarshalMap(note)
	if err != nil {
		return nil, fmt.Errorf("failed to encode note: %w", err)
	}

	if _, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: awsv2.String(s.table),
		Item:      item,
	}); err != nil {
		return nil, fmt.Errorf("failed to store note: %w", err)
	}
	return note, nil
}

// Get fetches one note, or ErrNoteNotFound.
func (s *Store) Get(ctx context.Context, userID, noteID string) (*Note, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: awsv2.String(s.table),
		Key:       noteKey(userID, noteID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get note %q: %w", noteID, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNoteNotFound
	}

	var note Note
	if err := attributevalue.UnmarshalMap(out.Item, &note); err != nil {
		return nil, fmt.Errorf("failed to decode note %q: %w", noteID, err)
	}
	return &note, nil
}

// List returns all of the user's notes.
func (s *Store) List(ctx context.Context, userID string) ([]Note, error) {
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              awsv2.String(s.table),
		KeyConditionExpression: awsv2.String("userId = :userId"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":userId": &ddbtypes.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := []Note{}
	if len(out.Items) > 0 {
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &notes); err != nil {
			return nil, fmt.Errorf("failed to decode notes: %w", err)
		}
	}
	return notes, nil
}

// Update replaces the note's content and attachment.
func (s *Store) Update(ctx context.Context, userID, noteID, content, attachment string) error {
	_, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        awsv2.String(s.table),
		Key:              noteKey(userID, noteID),
		UpdateExpression: awsv2.String("SET content = :content, attachment = :attachment"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":content":    &ddbtypes.AttributeValueMemberS{Value: content},
			":attachment": &ddbtypes.AttributeValueMemberS{Value: attachment},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update note %q: %w", noteID, err)
	}
	return nil
}

// Delete removes the note. Deleting a note that doesn't exist is not an
// error.
func (s *Store) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: awsv2.String(s.table),
		Key:       noteKey(userID, noteID),
	}); err != nil {
		return fmt.Errorf("failed to delete note %q: %w", noteID, err)
	}
	return nil
}
