package errors

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Default Retry-After hints when the error carries none
const (
	defaultRateLimitRetry = time.Minute
	defaultInFlightRetry  = time.Second
)

// ErrorResponse is the body of every failed REST call
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	TraceID   string                 `json:"trace_id,omitempty"`
}

// ErrorHandler writes AppErrors to the REST facade
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler. In debug mode stack traces
// and raw internal messages reach the client.
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{logger: logger, debug: debug}
}

// Handle writes err as an ErrorResponse. Errors that are not AppErrors are
// reported as INTERNAL without leaking their text outside debug mode.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	appErr := GetAppError(err)
	if appErr == nil {
		appErr = NewInternalError("An internal error occurred").WithCause(err)
		if h.debug {
			appErr.Message = err.Error()
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	response := ErrorResponse{
		Error:     true,
		Type:      string(appErr.Type),
		Message:   appErr.Message,
		Code:      appErr.Code,
		Details:   appErr.Details,
		RequestID: requestID(r),
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
		response.TraceID = sc.TraceID().String()
	}
	if h.debug && appErr.StackTrace != "" {
		details := make(map[string]interface{}, len(response.Details)+1)
		for k, v := range response.Details {
			details[k] = v
		}
		details["stack_trace"] = appErr.StackTrace
		response.Details = details
	}

	if wait := retryAfter(appErr); wait > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	}

	h.log(r, appErr, status, response)
	h.sendJSON(w, status, response)
}

func (h *ErrorHandler) log(r *http.Request, err *AppError, status int, response ErrorResponse) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", response.RequestID),
	}
	if response.TraceID != "" {
		fields = append(fields, zap.String("trace_id", response.TraceID))
	}
	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}

	switch {
	case err.Type == ErrorTypeSessionExpired:
		// the session manager has already dropped the credential
		h.logger.Info("Forced logout", append(fields, zap.String("event", "session.forced_logout"))...)
	case status >= 500:
		h.logger.Error(err.Message, fields...)
	case status == http.StatusTooManyRequests, err.Type == ErrorTypeOperationInFlight:
		h.logger.Debug(err.Message, fields...)
	default:
		h.logger.Warn(err.Message, append(fields, zap.Any("details", err.Details))...)
	}
}

func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Middleware turns panics into INTERNAL responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func retryAfter(err *AppError) time.Duration {
	if err.RetryAfter > 0 {
		return err.RetryAfter
	}
	switch err.Type {
	case ErrorTypeRateLimited:
		return defaultRateLimitRetry
	case ErrorTypeOperationInFlight:
		return defaultInFlightRetry
	default:
		return 0
	}
}

func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return r.Header.Get(middleware.RequestIDHeader)
}
