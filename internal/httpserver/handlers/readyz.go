package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
)

const defaultReadyTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports 200 while the store answers a ping, 503 otherwise.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pingStore(r.Context(), d); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, readyzResponse{Error: err.Error()})
			return
		}
		respond.JSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}

func pingStore(ctx context.Context, d deps.Deps) error {
	timeout := d.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return d.Store.Ping(ctx)
}
