// Package httpclient talks JSON over HTTP to the topology store, the
// simulation engine, the identity service and the payment service.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"feeder-workbench/application/ports"
	pkgerrors "feeder-workbench/pkg/errors"
	"feeder-workbench/pkg/observability"
)

const maxErrorBody = 4 << 10

// Options configures a Client
type Options struct {
	Service string
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
	Tokens     ports.TokenStore
	Metrics    *observability.Collector
	Tracer     *observability.Tracer
	Logger     *zap.Logger
}

// Client is a JSON client for one backend service
type Client struct {
	service string
	baseURL string
	http    *http.Client
	tokens  ports.TokenStore
	metrics *observability.Collector
	tracer  *observability.Tracer
	logger  *zap.Logger
}

// NewClient creates a client for one backend
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = observability.NewTracer("feeder-workbench")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		service: opts.Service,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		tokens:  opts.Tokens,
		metrics: opts.Metrics,
		tracer:  tracer,
		logger:  logger,
	}
}

// call describes one request
type call struct {
	operation string
	method    string
	path      string
	body      interface{}
	out       interface{}
	// send the bearer token when one is stored
	auth bool
	// the call is meaningless without a token
	requireAuth bool
}

// do sends a request and decodes the JSON answer into c.out.
// Transport failures and unexpected statuses become NetworkFailure;
// a rejected credential becomes SessionExpired.
func (c *Client) do(ctx context.Context, req call) error {
	ctx, span := c.tracer.StartSpan(ctx, c.service+"."+req.operation,
		attribute.String("http.method", req.method),
		attribute.String("backend.service", c.service),
	)
	defer span.End()

	start := time.Now()
	status := "error"
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordBackendCall(c.service, req.operation, status, time.Since(start))
		}
	}()

	token, err := c.bearer(req)
	if err != nil {
		status = "unauthenticated"
		return err
	}

	httpReq, err := c.newRequest(ctx, req, token)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		observability.RecordError(span, err)
		c.logger.Warn("Backend request failed",
			zap.String("service", c.service),
			zap.String("operation", req.operation),
			zap.String("request_id", httpReq.Header.Get("X-Request-ID")),
			zap.Error(err),
		)
		return pkgerrors.NewNetworkFailure(c.service, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := c.statusError(resp)
		observability.RecordError(span, err)
		return err
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		observability.RecordError(span, err)
		return pkgerrors.NewNetworkFailure(c.service, fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

func (c *Client) bearer(req call) (string, error) {
	if !req.auth || c.tokens == nil {
		if req.requireAuth {
			return "", pkgerrors.NewSessionExpired("not logged in")
		}
		return "", nil
	}
	token := c.tokens.Token()
	if token == "" {
		if req.requireAuth {
			return "", pkgerrors.NewSessionExpired("not logged in")
		}
		return "", nil
	}
	if c.tokens.Expired(token) {
		return "", pkgerrors.NewSessionExpired("stored credential has expired")
	}
	return token, nil
}

func (c *Client) newRequest(ctx context.Context, req call, token string) (*http.Request, error) {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to encode request").WithCause(err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build request").WithCause(err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	observability.InjectHeaders(ctx, propagation.HeaderCarrier(httpReq.Header))
	return httpReq, nil
}

// statusError maps a non-2xx answer onto the error taxonomy
func (c *Client) statusError(resp *http.Response) error {
	message := readErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return pkgerrors.NewSessionExpired(message).WithDetail("service", c.service)
	case http.StatusForbidden:
		return pkgerrors.NewPermissionDenied(message).WithDetail("service", c.service)
	case http.StatusNotFound:
		return pkgerrors.NewNotFoundError(c.service + " resource").WithDetail("message", message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.NewValidationError(message).WithDetail("service", c.service)
	default:
		return pkgerrors.NewNetworkFailure(c.service, fmt.Errorf("status %d: %s", resp.StatusCode, message)).
			WithDetail("status", resp.StatusCode)
	}
}

// readErrorMessage pulls a message out of an error body, whatever its shape
func readErrorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Error   interface{} `json:"error"`
		Message string      `json:"message"`
		Detail  interface{} `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Message != "":
			return body.Message
		case body.Error != nil:
			if s, ok := body.Error.(string); ok {
				return s
			}
		case body.Detail != nil:
			if s, ok := body.Detail.(string); ok {
				return s
			}
		}
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return "request failed"
}
