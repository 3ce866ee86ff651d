package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// Body size accepted by POST and PATCH.
const maxBodyBytes = 1 << 20

// errMalformedBody is reported for a body that is not a JSON object.
var errMalformedBody = errors.New("Malformed JSON in request body")

// Func is a handler that may fail. A returned error is rendered as an
// "App error: ..." response with status 500.
type Func func(w http.ResponseWriter, r *http.Request) error

func handle(d deps.Deps, fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			d.Logger.Error("request failed",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Error(err))
			respond.AppError(w, err)
		}
	}
}

// parseID answers 400 "Invalid ID" when the {id} path parameter is not a
// 24 hex digit ObjectId.
func parseID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "id")
	if !domain.IsValidID(raw) {
		respond.JSON(w, http.StatusBadRequest, "Invalid ID")
		return primitive.NilObjectID, false
	}
	id, err := domain.ParseID(raw)
	if err != nil {
		respond.JSON(w, http.StatusBadRequest, "Invalid ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// findVideo resolves {id} to a stored video. When ok is false the response
// (400 or 404) has already been written. Store failures are returned.
func findVideo(w http.ResponseWriter, r *http.Request, d deps.Deps) (*domain.Video, bool, error) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false, nil
	}

	v, err := d.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.JSON(w, http.StatusNotFound, "Document not found")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// decodeObject reads the request body as a JSON object.
func decodeObject(w http.ResponseWriter, r *http.Request, d deps.Deps) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		d.Logger.Debug("invalid request body", logger.Error(err))
		return nil, errMalformedBody
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected an object", errMalformedBody)
	}
	return raw, nil
}
