package service

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-sql-driver/mysql"

	"github.com/agentview/api/internal/cloudflare"
	"github.com/agentview/api/internal/orchestrator"
	"github.com/agentview/api/internal/validation"
)

// Common error messages that don't disclose resource existence.
const (
	ErrMsgNotFound      = "resource not found"
	ErrMsgInvalidInput  = "invalid input"
	ErrMsgNoConnection  = "customer has no active platform connection"
	ErrMsgAlreadyExists = "resource already exists"
	ErrMsgPlatform      = "platform request failed"
	ErrMsgInternalError = "internal server error"
)

// respondError maps application errors to HTTP statuses without exposing
// implementation details. Validation errors carry their field message;
// platform rejections surface the platform's own message since the caller
// owns the remote account.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Error()})
		return
	}

	if errors.Is(err, orchestrator.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrMsgNotFound})
		return
	}

	if errors.Is(err, orchestrator.ErrNoConnection) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrMsgNoConnection})
		return
	}

	var apiErr *cloudflare.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: apiErr.Error()})
		return
	}
	var transportErr *cloudflare.TransportError
	if errors.As(err, &transportErr) {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrMsgPlatform})
		return
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrMsgAlreadyExists})
			return
		case 1452:
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidInput})
			return
		}
	}

	slog.ErrorContext(r.Context(), "Unhandled request error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrMsgInternalError})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}
