package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
	"github.com/MrSnakeDoc/favtube/internal/logger"
)

// StreamDescription answers GET /d/{id} by sending the description one
// character per chunk, pausing d.StreamDelay between chunks.
func StreamDescription(d deps.Deps) http.HandlerFunc {
	return handle(d, func(w http.ResponseWriter, r *http.Request) error {
		v, ok, err := findVideo(w, r, d)
		if err != nil || !ok {
			return err
		}

		h := w.Header()
		h.Set("Content-Type", respond.ContentTypeText)
		h.Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)

		// Headers are sent: failures from here on are logged, never answered.
		sent, err := streamRunes(r.Context(), w, v.Description, d.StreamDelay)
		if err != nil {
			d.Logger.Info("stream aborted",
				logger.String("id", v.ID.Hex()),
				logger.Int("sent", sent),
				logger.Error(err))
		}
		return nil
	})
}

// streamRunes writes text one rune at a time, flushing after each write.
// It returns how many runes reached the connection.
func streamRunes(ctx context.Context, w http.ResponseWriter, text string, delay time.Duration) (int, error) {
	rc := http.NewResponseController(w)
	runes := []rune(text)

	var timer *time.Timer
	if delay > 0 {
		timer = time.NewTimer(delay)
		timer.Stop()
		defer timer.Stop()
	}

	for i, ch := range runes {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := io.WriteString(w, string(ch)); err != nil {
			return i, err
		}
		if err := rc.Flush(); err != nil {
			return i, err
		}

		if timer == nil || i == len(runes)-1 {
			continue
		}
		timer.Reset(delay)
		select {
		case <-ctx.Done():
			return i + 1, ctx.Err()
		case <-timer.C:
		}
	}
	return len(runes), nil
}
