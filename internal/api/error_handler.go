package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeErrorJSON(w, appErr)
}

func writeErrorJSON(w http.ResponseWriter, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: appErr.Code, Message: appErr.Message}})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	handleError(w, r, errors.NewNotFoundError("page", r.URL.Path))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	handleError(w, r, &errors.AppError{
		Code:    errors.ErrCodeBadRequest,
		Message: "method " + r.Method + " not allowed on " + r.URL.Path,
		Status:  http.StatusMethodNotAllowed,
	})
}
