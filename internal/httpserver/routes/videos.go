package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/handlers"
)

func init() { Register(registerVideos) }

func registerVideos(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.ListVideos(d))
	r.Post("/", handlers.CreateVideo(d))
	r.Get("/{id}", handlers.GetVideo(d))
	r.Patch("/{id}", handlers.UpdateVideo(d))
	r.Delete("/{id}", handlers.DeleteVideo(d))
	r.Get("/d/{id}", handlers.StreamDescription(d))
}
