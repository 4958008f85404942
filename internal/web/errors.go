package web

// errors.go maps pipeline errors to HTTP responses. The technical error is
// logged with the request id; clients get the core.MapError message.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/gencsv/internal/core"
	"github.com/JonMunkholm/gencsv/internal/generator"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a pipeline error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrSchema),
		errors.Is(err, core.ErrRowLimit),
		errors.Is(err, core.ErrDeleteTarget),
		errors.Is(err, core.ErrAppendSchemaMismatch),
		errors.Is(err, generator.ErrRangeParse),
		errors.Is(err, core.ErrInvalidParam):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoLoader):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-facing response, JSON for API
// routes and an HTML fragment otherwise.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusFor(err)
	uerr := core.NewUserError(err)
	userMsg := uerr.User

	// Mapped errors are the client's to fix; unmapped ones are ours.
	level := slog.LevelWarn
	if !core.IsUserFacing(err) {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", uerr.Technical.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if statusCode == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if rerr := ErrorAlert(userMsg).Render(r.Context(), w); rerr != nil {
		slog.Warn("render error alert", "error", rerr)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
