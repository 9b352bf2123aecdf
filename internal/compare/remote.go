package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
)

const (
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	defaultTimeout  = 30 * time.Second

	// maxResponseSize bounds how much of a response body is read
	maxResponseSize = 32 << 20
)

// Remote asks a comparison service for the differences between two documents.
// The service answers POST <base>/compare with a {success, message, data}
// envelope whose data holds a "differences" list.
type Remote struct {
	baseURL  string
	client   *http.Client
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// RemoteOption configures a Remote
type RemoteOption func(*Remote)

// WithHTTPClient replaces the HTTP client used for requests
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		if client != nil {
			r.client = client
		}
	}
}

// WithRetry sets how many attempts are made and the initial backoff delay
func WithRetry(attempts int, delay time.Duration) RemoteOption {
	return func(r *Remote) {
		r.attempts = attempts
		r.delay = delay
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *log.Logger) RemoteOption {
	return func(r *Remote) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRemote creates a client for the service at baseURL, e.g. "http://localhost:8080/api"
func NewRemote(baseURL string, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: defaultTimeout},
		attempts: defaultAttempts,
		delay:    defaultDelay,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compare implements Comparer
func (r *Remote) Compare(ctx context.Context, left, right models.JSONValue, settings models.CompareSettings) ([]models.DiffEntry, error) {
	payload, err := codec.Encode(models.ObjectOf(
		"left", left,
		"right", right,
		"settings", settings,
	), 0)
	if err != nil {
		return nil, errors.NewCompareError("cannot encode comparison request", err)
	}

	var body []byte
	err = retry(ctx, r.attempts, r.delay, func() error {
		var postErr error
		body, postErr = r.post(ctx, "/compare", payload)
		if postErr != nil {
			r.logger.Debug("comparison request failed", "err", postErr)
		}
		return postErr
	})
	if err != nil {
		return nil, err
	}

	data, err := Unwrap(body)
	if err != nil {
		return nil, err
	}

	diffs, err := DecodeDifferences(data)
	if err != nil {
		return nil, err
	}
	return truncate(diffs, settings.MaxDifferences), nil
}

func (r *Remote) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewCompareError("cannot build comparison request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{errors.NewCompareError("comparison service unreachable", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &retryableError{errors.NewCompareError("failed to read comparison response", err)}
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, &retryableError{errors.NewCompareError(
			fmt.Sprintf("comparison service returned %s", resp.Status), errors.ErrRemoteFailure)}
	case resp.StatusCode >= 400:
		// Client errors still carry an envelope explaining what was wrong
		if _, envErr := Unwrap(body); envErr != nil {
			return nil, envErr
		}
		return nil, errors.NewCompareError(
			fmt.Sprintf("comparison service returned %s", resp.Status), errors.ErrRemoteFailure)
	}
	return body, nil
}

// Unwrap extracts data from a {success, message, data} response envelope.
// A body that is not an envelope is returned whole; success false becomes an
// error carrying the service's message.
func Unwrap(body []byte) (models.JSONValue, error) {
	doc, err := codec.ParseBytes(body)
	if err != nil {
		return nil, errors.NewCompareError("comparison service sent an unreadable response", err)
	}

	envelope, ok := doc.(*models.Object)
	if !ok || !envelope.Has("success") {
		return doc, nil
	}

	if success, _ := envelope.Get("success"); success != true {
		message := "request failed"
		if m, ok := envelope.Get("message"); ok {
			if s, isString := m.(string); isString && s != "" {
				message = s
			}
		}
		return nil, errors.NewCompareError(message, errors.ErrRemoteFailure)
	}

	data, _ := envelope.Get("data")
	return data, nil
}
