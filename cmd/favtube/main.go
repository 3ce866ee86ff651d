package main

import (
	"log"

	"github.com/MrSnakeDoc/favtube/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ favtube failed to start: %v", err)
	}
}
