package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
)

// ListVideos answers GET / with every stored video.
func ListVideos(d deps.Deps) http.HandlerFunc {
	return handle(d, func(w http.ResponseWriter, r *http.Request) error {
		videos, err := d.Store.List(r.Context())
		if err != nil {
			return err
		}
		if videos == nil {
			videos = []domain.Video{}
		}
		respond.JSON(w, http.StatusOK, videos)
		return nil
	})
}

// CreateVideo answers POST /. Validation and store failures are reported
// as a 500 whose body is the error message as a JSON string.
func CreateVideo(d deps.Deps) http.HandlerFunc {
	return handle(d, func(w http.ResponseWriter, r *http.Request) error {
		raw, err := decodeObject(w, r, d)
		if err != nil {
			return err
		}

		v, err := domain.NewVideo(raw)
		if err != nil {
			respond.JSON(w, http.StatusInternalServerError, err.Error())
			return nil
		}

		created, err := d.Store.Insert(r.Context(), v)
		if err != nil {
			d.Logger.Warn("insert failed", logger.Error(err))
			respond.JSON(w, http.StatusInternalServerError, err.Error())
			return nil
		}

		respond.JSON(w, http.StatusCreated, created)
		return nil
	})
}

// GetVideo answers GET /{id}.
func GetVideo(d deps.Deps) http.HandlerFunc {
	return handle(d, func(w http.ResponseWriter, r *http.Request) error {
		v, ok, err := findVideo(w, r, d)
		if err != nil || !ok {
			return err
		}
		respond.JSON(w, http.StatusOK, v)
		return nil
	})
}

// UpdateVideo answers PATCH /{id}. Existence is checked before the body
// is read, so a missing record is a 404 whatever the payload.
func UpdateVideo(d deps.Deps) http.HandlerFunc {
	return handle(d, func(w http.ResponseWriter, r *http.Request) error {
		v, ok, err := findVideo(w, r, d)
		if err != nil || !ok {
			return err
		}

		raw, err := decodeObject(w, r, d)
		if err != nil {
			return err
		}

		patch, err := domain.NewPatch(raw)
		if err != nil {
			respond.JSON(w, http.StatusInternalServerError, err.Error())
			return nil
		}

		updated, err := d.Store.Update(r.Context(), v.ID, patch)
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between the lookup and the update.
			respond.JSON(w, http.StatusNotFound, "Document not found")
			return nil
		}
		if err != nil {
			d.Logger.Warn("update failed", logger.String("id", v.ID.Hex()), logger.Error(err))
			respond.JSON(w, http.StatusInternalServerError, err.Error())
			return nil
		}

		respond.JSON(w, http.StatusOK, updated)
		return nil
	})
}

// DeleteVideo answers DELETE /{id} with the removed record, or null when
// nothing matched.
func DeleteVideo(d deps.Deps) http.HandlerFunc {
	return handle(d, func(w http.ResponseWriter, r *http.Request) error {
		id, ok := parseID(w, r)
		if !ok {
			return nil
		}

		deleted, err := d.Store.Delete(r.Context(), id)
		if err != nil {
			d.Logger.Warn("delete failed", logger.String("id", id.Hex()), logger.Error(err))
			respond.JSON(w, http.StatusInternalServerError, err.Error())
			return nil
		}

		if deleted == nil {
			respond.JSON(w, http.StatusOK, nil)
			return nil
		}
		respond.JSON(w, http.StatusOK, deleted)
		return nil
	})
}
