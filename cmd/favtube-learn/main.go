package main

import (
	"log"

	"github.com/MrSnakeDoc/favtube/internal/app"
)

func main() {
	if err := app.NewLearn().Run(); err != nil {
		log.Fatalf("❌ favtube-learn failed to start: %v", err)
	}
}
