package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	UserMessage  string `json:"userMessage"`
	DebugMessage string `json:"debugMessage"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger         *zap.Logger
	debug          bool
	defaultStatus  int
	notFoundStatus int
}

// NewErrorHandler creates a new error handler. notFoundStatus replaces the
// status of NOT_FOUND errors; zero keeps 404.
func NewErrorHandler(logger *zap.Logger, debug bool, notFoundStatus int) *ErrorHandler {
	if notFoundStatus == 0 {
		notFoundStatus = http.StatusNotFound
	}
	return &ErrorHandler{
		logger:         logger,
		debug:          debug,
		defaultStatus:  http.StatusInternalServerError,
		notFoundStatus: notFoundStatus,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	requestID := middleware.GetReqID(r.Context())

	appErr := GetAppError(err)
	if appErr == nil {
		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
		)

		response := ErrorResponse{
			UserMessage:  userMessageInternal,
			DebugMessage: "An internal error occurred",
		}
		if h.debug {
			response.DebugMessage = err.Error()
		}
		h.sendJSON(w, h.defaultStatus, response)
		return
	}

	status := h.StatusFor(appErr)
	h.logError(r, appErr, status, requestID)

	response := ErrorResponse{
		UserMessage:  appErr.UserMessage,
		DebugMessage: appErr.DebugMessage,
	}
	// Backend causes stay in the logs unless debugging
	if h.debug && appErr.Cause != nil {
		response.DebugMessage = appErr.Error()
	}

	h.sendJSON(w, status, response)
}

// StatusFor resolves the HTTP status of an application error
func (h *ErrorHandler) StatusFor(appErr *AppError) int {
	if appErr.Type == ErrorTypeNotFound {
		return h.notFoundStatus
	}
	if appErr.HTTPStatus == 0 {
		return h.defaultStatus
	}
	return appErr.HTTPStatus
}

// logError logs an application error with appropriate level
func (h *ErrorHandler) logError(r *http.Request, err *AppError, status int, requestID string) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", requestID),
	}

	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}

	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	if h.debug && status >= 500 && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}

	// Absent records are a normal answer, not a fault
	switch {
	case err.Type == ErrorTypeNotFound:
		h.logger.Info(err.Message, fields...)
	case status >= 500:
		h.logger.Error(err.Message, fields...)
	default:
		h.logger.Warn(err.Message, fields...)
	}
}

// sendJSON sends a JSON response
func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(err),
			zap.Any("data", data),
		)
	}
}
