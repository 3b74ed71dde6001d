package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/mbaxter/notes-serverless/pkg/handler"
	"github.com/mbaxter/notes-serverless/pkg/notes"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	store := notes.NewStore(cfg, os.Getenv("NOTES_TABLE"))
	lambda.Start(handler.New(store, log).Delete)
}
