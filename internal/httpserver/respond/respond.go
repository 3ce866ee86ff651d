// Package respond writes the response bodies shared by every handler.
package respond

import (
	"encoding/json"
	"net/http"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=UTF-8"
	ContentTypeHTML = "text/html; charset=UTF-8"
)

// JSON writes v as a JSON body. A string value becomes a bare JSON string
// ("Invalid ID"), which is how error details are returned by the API.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Text writes a plain text body.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", ContentTypeText)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// HTML writes an HTML body.
func HTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// AppError is the response of the global error layer.
func AppError(w http.ResponseWriter, err error) {
	Text(w, http.StatusInternalServerError, "App error: "+err.Error())
}
