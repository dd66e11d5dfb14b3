package main

import (
	"context"
	"log"

	"pathtree_service/cache"
	"pathtree_service/internal/lambda"
	"pathtree_service/repository"

	awslambda "github.com/aws/aws-lambda-go/lambda"
)

func main() {
	// Initialize repository
	repo := repository.NewSQLiteRepository()
	if err := repo.Initialize(context.Background()); err != nil {
		log.Fatal("Failed to initialize repository:", err)
	}

	// Initialize cache
	if err := cache.Initialize(); err != nil {
		log.Fatal("Failed to initialize cache:", err)
	}

	// Create handler with repository
	handler := lambda.NewHandler(repo)

	// Start Lambda
	awslambda.Start(handler.Handle)
}
