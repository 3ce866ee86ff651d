package mw

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
	"github.com/MrSnakeDoc/favtube/internal/logger"
)

// Recover turns a handler panic into an "App error: ..." response.
// The stack is logged, never sent to the client.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				log.Error("panic in handler",
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path),
					logger.Error(err),
					logger.Stack("stack"))
				respond.AppError(w, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
