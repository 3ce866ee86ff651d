package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
)

type componentStatus struct {
	OK           bool   `json:"ok"`
	Driver       string `json:"driver,omitempty"`
	VideosStored *int   `json:"videos_stored,omitempty"`
	Error        string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra describes the store backing the API and how many videos it holds.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := componentStatus{OK: true, Driver: d.StoreDriver}
		if err := pingStore(r.Context(), d); err != nil {
			status.OK = false
			status.Error = err.Error()
		} else if videos, err := d.Store.List(r.Context()); err != nil {
			status.OK = false
			status.Error = err.Error()
		} else {
			n := len(videos)
			status.VideosStored = &n
		}

		mode := "operational"
		if !status.OK {
			mode = "degraded"
		}

		respond.JSON(w, http.StatusOK, infraResponse{
			Mode:       mode,
			Components: map[string]componentStatus{"store": status},
		})
	}
}
