package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
	"github.com/MrSnakeDoc/favtube/internal/logger"
)

// ConnectFailed answers every request while the store is unreachable.
// The status stays 200, the body carries the connection error.
func ConnectFailed(connErr error, log logger.Logger) http.HandlerFunc {
	body := "Failed to connect mongodb: " + connErr.Error()
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("store unavailable, answering with the connection error",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path))
		respond.Text(w, http.StatusOK, body)
	}
}
