package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/mw"
)

func init() { Register(registerProbes, mw.NoStore) }

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
}
