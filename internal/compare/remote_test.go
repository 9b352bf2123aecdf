package compare

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceResponse = `{
  "success": true,
  "message": "success",
  "data": {
    "totalDifferences": 3,
    "differences": [
      {"path": "$.user.name", "type": "modified", "oldValue": "Alice", "newValue": "Bob", "depth": 3},
      {"path": "$.tags[1]", "type": "added", "newValue": "new"},
      {"path": "$.legacy", "type": "removed", "oldValue": {"z": 1, "a": 2}}
    ],
    "duration": 4
  },
  "timestamp": 1700000000000
}`

func newTestRemote(url string) *Remote {
	return NewRemote(url, WithRetry(3, time.Millisecond))
}

func TestRemote_Compare(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/compare", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(serviceResponse))
	}))
	defer server.Close()

	left := mustParse(t, `{"user":{"name":"Alice"}}`)
	right := mustParse(t, `{"user":{"name":"Bob"}}`)

	diffs, err := newTestRemote(server.URL+"/api/").Compare(context.Background(), left, right, models.DefaultCompareSettings())
	require.NoError(t, err)
	require.Len(t, diffs, 3)

	assertEntry(t, models.Modified("user.name", "Alice", "Bob"), diffs[0])
	assertEntry(t, models.Added("tags[1]", "new"), diffs[1])
	assertEntry(t, models.Removed("legacy", models.ObjectOf("z", json.Number("1"), "a", json.Number("2"))), diffs[2])

	assert.Contains(t, received, "left")
	assert.Contains(t, received, "right")
	settings, ok := received["settings"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, settings["ignoreWhitespace"])
	assert.Equal(t, true, settings["caseSensitive"])
}

func TestRemote_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"differences":[]}}`))
	}))
	defer server.Close()

	diffs, err := newTestRemote(server.URL).Compare(context.Background(), nil, nil, models.DefaultCompareSettings())
	require.NoError(t, err)
	assert.Empty(t, diffs)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemote_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestRemote(server.URL).Compare(context.Background(), nil, nil, models.DefaultCompareSettings())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrRemoteFailure))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemote_EnvelopeFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"left document is invalid","data":null}`))
	}))
	defer server.Close()

	_, err := newTestRemote(server.URL).Compare(context.Background(), nil, nil, models.DefaultCompareSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left document is invalid")
	assert.True(t, stderrors.Is(err, errors.ErrRemoteFailure))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemote_MaxDifferences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(serviceResponse))
	}))
	defer server.Close()

	settings := models.DefaultCompareSettings()
	settings.MaxDifferences = 1
	diffs, err := newTestRemote(server.URL).Compare(context.Background(), nil, nil, settings)
	require.NoError(t, err)
	assert.Len(t, diffs, 1)
}

func TestRemote_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRemote(server.URL, WithRetry(5, time.Hour)).Compare(ctx, nil, nil, models.DefaultCompareSettings())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnwrap(t *testing.T) {
	data, err := Unwrap([]byte(`{"success":true,"data":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, data.(*models.Array).Len())

	// bodies without an envelope pass through
	data, err = Unwrap([]byte(`{"differences":[]}`))
	require.NoError(t, err)
	assert.True(t, data.(*models.Object).Has("differences"))

	_, err = Unwrap([]byte(`{"success":false}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")

	_, err = Unwrap([]byte(`<html>`))
	assert.Error(t, err)
}

func TestDecodeDifferences_RejectsUnknownType(t *testing.T) {
	_, err := DecodeDifferences(mustParse(t, `[{"path":"$.a","type":"moved"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moved")
}

func TestNormalizeServicePath(t *testing.T) {
	tests := map[string]string{
		"$":          "",
		"$.a.b[0]":   "a.b[0]",
		"$[2].x":     "[2].x",
		"plain.path": "plain.path",
		"":           "",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, NormalizeServicePath(in), in)
	}
}

func TestServicePath_RoundTrip(t *testing.T) {
	for _, path := range []string{"", "a", "a.b[0]", "[2].x", "[0][1]"} {
		assert.Equal(t, path, NormalizeServicePath(ServicePath(path)), path)
	}
	assert.Equal(t, "$", ServicePath(""))
	assert.Equal(t, "$.a[1]", ServicePath("a[1]"))
}

func TestEncodeDifferences(t *testing.T) {
	diffs := []models.DiffEntry{
		models.Added("tags[1]", "new"),
		models.Removed("legacy", json.Number("1")),
		models.Modified("user.name", "Alice", nil),
	}

	encoded := EncodeDifferences(diffs)
	assert.Equal(t,
		`[{"path":"$.tags[1]","type":"added","newValue":"new","depth":1},`+
			`{"path":"$.legacy","type":"removed","oldValue":1,"depth":1},`+
			`{"path":"$.user.name","type":"modified","oldValue":"Alice","newValue":null,"depth":2}]`,
		codec.Stringify(encoded, 0))

	decoded, err := DecodeDifferences(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(diffs))
	for i := range diffs {
		assertEntry(t, diffs[i], decoded[i])
	}
}
