// Package dispatcher implements the single catch-all HTTP endpoint that
// speaks the DynamoDB_20120810 JSON wire protocol: it reads the
// "x-amz-target" header to find an operation name, decodes the body,
// serializes access to the table manager behind one coarse-grained lock,
// and encodes the result (or error) back onto the wire.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ddblocal/internal/tablemanager"
	apperrors "ddblocal/pkg/errors"
	"ddblocal/pkg/observability"
)

const contentType = "application/x-amz-json-1.0"

// Server is the dispatcher's process-wide state. One Server serves an
// entire process; its mu field is the only synchronization the table
// manager gets, matching the reference implementation's
// Arc<RwLock<TableManager>> model.
type Server struct {
	mu      sync.RWMutex
	manager *tablemanager.Manager

	logger   *zap.Logger
	tracer   trace.Tracer
	validate *validator.Validate
	metrics  *observability.Metrics
	breaker  *gobreaker.CircuitBreaker
}

// New builds a dispatcher around a fresh, empty table manager.
func New(logger *zap.Logger, tracer trace.Tracer, metrics *observability.Metrics) *Server {
	s := &Server{
		manager:  tablemanager.New(time.Now),
		logger:   logger,
		tracer:   tracer,
		validate: validator.New(),
		metrics:  metrics,
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "table-manager",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip after three consecutive internal failures. A healthy
			// emulator should never hit this; it exists for the same
			// reason the reference implementation treats a poisoned
			// RwLock as terminal: once the shared state is suspect, stop
			// handing out more requests to it until it's proven sane.
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// Client-caused errors (missing table, bad JSON, ...) are not
			// internal failures and must not count towards tripping.
			return err == nil || apperrors.As(err).Kind != apperrors.KindInternalError
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("table manager circuit breaker state change",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return s
}

// Seed pre-populates the manager, used at startup to load a fixture file.
func (s *Server) Seed(fn func(m *tablemanager.Manager) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.manager)
}

// ServeHTTP implements the single fallback route. Health and metrics
// endpoints are wired separately by the caller (see interfaces/http/rest).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("x-amzn-RequestId", requestID)
	w.Header().Set("x-amzn-requestid", requestID)

	ctx, span := s.tracer.Start(r.Context(), "dynamodb.request",
		trace.WithAttributes(attribute.String("request.id", requestID)))
	defer span.End()

	logger := s.logger.With(zap.String("request_id", requestID))

	operation, err := extractOperation(r.Header.Get("x-amz-target"))
	if err != nil {
		logger.Warn("could not extract operation", zap.Error(err))
		s.writeError(w, apperrors.As(apperrors.New(apperrors.KindInvalidOperation, err.Error())))
		return
	}
	span.SetAttributes(attribute.String("dynamodb.operation", operation))
	logger = logger.With(zap.String("operation", operation))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("failed reading request body", zap.Error(err))
		s.writeError(w, apperrors.As(apperrors.New(apperrors.KindSerializationError, "failed to read request body")))
		return
	}
	logger.Debug("handling operation", zap.ByteString("body", body))

	start := time.Now()
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.dispatch(ctx, logger, operation, body)
	})
	duration := time.Since(start)

	if err != nil {
		appErr := apperrors.As(err)
		span.SetStatus(codes.Error, appErr.Error())
		s.metrics.ObserveRequest(operation, string(appErr.Kind), duration)
		logger.Info("operation failed", zap.String("kind", string(appErr.Kind)), zap.Error(appErr))
		s.writeError(w, appErr)
		return
	}

	s.metrics.ObserveRequest(operation, "Success", duration)
	logger.Debug("operation succeeded", zap.Duration("duration", duration))
	s.writeJSON(w, http.StatusOK, result)
}

// extractOperation parses "DynamoDB_20120810.OperationName" into just the
// operation name, the way extractors::Operation does in the reference
// implementation.
func extractOperation(target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("missing x-amz-target header")
	}
	parts := strings.SplitN(target, ".", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("malformed x-amz-target header %q", target)
	}
	return parts[1], nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed encoding response", zap.Error(err))
	}
}

type errorEnvelope struct {
	Type    string `json:"__type"`
	Message string `json:"message,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, appErr *apperrors.Error) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("x-amzn-ErrorType", appErr.Kind.AWSType())
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(appErr.Kind.HTTPStatus())
	_ = json.NewEncoder(w).Encode(errorEnvelope{Type: appErr.Kind.AWSType(), Message: appErr.Message})
}

// dispatch decodes the body for the named operation, runs it under the
// appropriate lock, and returns the response payload. It recovers from
// panics raised deep in the table engine the same way the reference
// implementation treats a poisoned RwLock: as an internal error, not a
// crash.
func (s *Server) dispatch(ctx context.Context, logger *zap.Logger, operation string, body []byte) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered panic in operation handler", zap.Any("panic", r))
			err = apperrors.New(apperrors.KindInternalError, fmt.Sprintf("internal error: %v", r))
		}
	}()

	handler, ok := operations[operation]
	if !ok {
		return nil, apperrors.New(apperrors.KindInvalidOperation, fmt.Sprintf("operation %q is not handled", operation))
	}
	return handler(s, ctx, body)
}
