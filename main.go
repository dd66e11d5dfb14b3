package main

import (
	"context"
	"log"
	"os"

	"pathtree_service/cache"
	"pathtree_service/config"
	"pathtree_service/handlers"
	"pathtree_service/repository"

	"github.com/gin-gonic/gin"
)

func main() {
	// Set development environment
	os.Setenv("APP_ENV", "development")

	// Create context
	ctx := context.Background()

	// Initialize config provider
	cfgProvider := config.NewEnvProvider("")

	// Initialize repository
	repo, err := repository.NewPostgresRepository(cfgProvider)
	if err != nil {
		log.Fatal("Failed to create repository:", err)
	}
	if err := repo.Initialize(ctx); err != nil {
		log.Fatal("Failed to initialize repository:", err)
	}
	defer repo.Cleanup(ctx)

	// Initialize cache
	if err := cache.Initialize(); err != nil {
		log.Fatal("Failed to initialize cache:", err)
	}

	// Initialize handlers
	treeHandler := handlers.NewTreeHandler(repo)

	// Initialize router
	r := gin.Default()

	// Tree routes
	r.POST("/trees/:tree_id/root", treeHandler.CreateRoot)
	r.POST("/trees/:tree_id/nodes", treeHandler.CreateChild)
	r.GET("/trees", treeHandler.GetAllTrees)
	r.GET("/trees/:tree_id", treeHandler.GetTree)
	r.GET("/trees/:tree_id/nested", treeHandler.GetTreeNested)

	// Node routes
	r.PATCH("/nodes/:node_id", treeHandler.UpdateNode)
	r.DELETE("/nodes/:tree_id/:path", treeHandler.DeleteSubtree)

	// Start server
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
