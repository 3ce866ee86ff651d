package learn

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favtube/internal/httpserver"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
	"github.com/MrSnakeDoc/favtube/internal/logger"
)

const welcomePage = "<h1>Hello, welcome!</h1>"

type message struct {
	Message string `json:"message"`
}

type handler struct {
	catalog *Catalog
	log     logger.Logger
	delay   time.Duration
}

// NewRouter returns the demo routes over c. delay is the pause after each
// line of the GET /videos stream.
func NewRouter(c *Catalog, log logger.Logger, delay time.Duration) http.Handler {
	h := &handler{catalog: c, log: log, delay: delay}

	r := httpserver.NewBaseRouter(log)
	r.Get("/", h.welcome)
	r.Post("/video", h.create)
	r.Get("/videos", h.streamAll)
	r.Delete("/videos", h.deleteAll)
	r.Get("/video/{id}", h.get)
	r.Put("/video/{id}", h.replace)
	r.Delete("/video/{id}", h.delete)
	return r
}

func (h *handler) welcome(w http.ResponseWriter, r *http.Request) {
	respond.HTML(w, http.StatusOK, welcomePage)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	f, ok := h.decodeFields(w, r)
	if !ok {
		return
	}
	v := h.catalog.Add(f)
	h.log.Info("video added", logger.String("id", v.ID), logger.String("video_name", v.VideoName))
	respond.JSON(w, http.StatusOK, v)
}

// streamAll writes one JSON document per line, pausing after each line.
func (h *handler) streamAll(w http.ResponseWriter, r *http.Request) {
	videos := h.catalog.All()
	rc := http.NewResponseController(w)
	ctx := r.Context()

	w.Header().Set("Content-Type", respond.ContentTypeText)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	for i, v := range videos {
		if err := enc.Encode(v); err != nil {
			h.log.Info("video stream aborted", logger.Int("sent", i), logger.Error(err))
			return
		}
		if err := rc.Flush(); err != nil {
			h.log.Info("video stream aborted", logger.Int("sent", i), logger.Error(err))
			return
		}

		select {
		case <-ctx.Done():
			h.log.Info("video stream aborted", logger.Int("sent", i+1), logger.Error(ctx.Err()))
			return
		case <-time.After(h.delay):
		}
	}
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	v, ok := h.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		respond.Text(w, http.StatusNotFound, "Video not found")
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

func (h *handler) replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.catalog.Get(id); !ok {
		respond.Text(w, http.StatusNotFound, "Video not found")
		return
	}

	f, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	v, ok := h.catalog.Replace(id, f)
	if !ok {
		respond.Text(w, http.StatusNotFound, "Video not found")
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	h.catalog.Delete(chi.URLParam(r, "id"))
	respond.JSON(w, http.StatusOK, message{Message: "Video deleted"})
}

func (h *handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	h.catalog.Clear()
	respond.JSON(w, http.StatusOK, message{Message: "All videos deleted"})
}

func (h *handler) decodeFields(w http.ResponseWriter, r *http.Request) (Fields, bool) {
	var f Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		h.log.Debug("invalid video payload", logger.Error(err))
		respond.Text(w, http.StatusInternalServerError, "Internal Server Error")
		return Fields{}, false
	}
	return f, true
}
