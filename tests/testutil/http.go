package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Header names understood by the API middleware
const (
	AccountIDHeader      = "X-Account-ID"
	IdempotencyKeyHeader = "Idempotency-Key"
)

// Envelope is the standard response wrapper with Data kept raw
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

// APIClient sends account-scoped JSON requests to an in-process handler.
type APIClient struct {
	Handler   http.Handler
	AccountID uuid.UUID
	Prefix    string
}

// NewAPIClient creates a client for handler under /api/v1.
func NewAPIClient(handler http.Handler, accountID uuid.UUID) *APIClient {
	return &APIClient{Handler: handler, AccountID: accountID, Prefix: "/api/v1"}
}

// Do sends body as JSON and returns the recorded response.
func (c *APIClient) Do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, c.Prefix+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.AccountID != uuid.Nil {
		req.Header.Set(AccountIDHeader, c.AccountID.String())
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return w
}

// DecodeEnvelope parses the response wrapper.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// DecodeData requires a success response and decodes its data into a T.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

// RequireErrorCode requires an error response with the given status and code.
func RequireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	env := DecodeEnvelope(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
