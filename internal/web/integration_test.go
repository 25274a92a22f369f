package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumate/volumate/internal/db"
	"github.com/volumate/volumate/internal/domain"
	"github.com/volumate/volumate/internal/foodapi"
	"github.com/volumate/volumate/internal/resolver"
	"github.com/volumate/volumate/internal/scan"
	"github.com/volumate/volumate/internal/store"
)

var testFrame = domain.ScanFrame{Top: 100, Left: 50, Width: 200, Height: 120}

// newFoodServer fakes the remote food-database service with one known
// product.
func newFoodServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/health":
			_, err := w.Write([]byte(`{"success":true}`))
			assert.NoError(t, err)
		case "/products/5000112637922":
			_, err := w.Write([]byte(`{
				"success": true,
				"data": {
					"barcode": "5000112637922",
					"displayName": "Coca-Cola",
					"volumeSerenityScore": 12,
					"volumeSerenityRating": "Consider a Healthier Option",
					"volumeSerenityRatingColor": "#F44336"
				}
			}`))
			assert.NoError(t, err)
		case "/products/4000417025005":
			// Resolvable, but no score could be computed.
			_, err := w.Write([]byte(`{"success":true,"data":{"barcode":"4000417025005","displayName":"Mystery Snack"}}`))
			assert.NoError(t, err)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	food := newFoodServer(t)
	t.Cleanup(food.Close)

	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	client := foodapi.NewClient(food.URL)
	res := resolver.NewResolver(store.NewProductStore(d), client, slog.Default())
	return NewServer(res, scan.NewSession(testFrame), client, slog.Default())
}

// do issues a request against the server and decodes the envelope.
func do(t *testing.T, s *Server, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())
	return rec.Code, envelope
}

func data(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	d, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "envelope data is not an object: %v", envelope)
	return d
}

func TestResolveEndpoint(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/products/5000112637922", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, env["success"])

	res := data(t, env)
	assert.Equal(t, "resolved", res["state"])
	assert.Equal(t, false, res["alreadySaved"])

	product := res["product"].(map[string]any)
	assert.Equal(t, "Coca-Cola", product["displayName"])
	assert.Equal(t, float64(12), product["volumeSerenityScore"])
}

func TestResolveEndpointUnknownBarcode(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/products/1111111111111", nil)
	assert.Equal(t, http.StatusOK, code)

	res := data(t, env)
	assert.Equal(t, "failed", res["state"])
	assert.NotEmpty(t, res["displayError"])
	assert.Nil(t, res["product"])
}

func TestResolveEndpointInvalidBarcode(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/products/12345", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, env["success"])
}

func TestSaveFlow(t *testing.T) {
	s := newTestServer(t)

	_, _ = do(t, s, http.MethodGet, "/api/products/5000112637922", nil)

	code, env := do(t, s, http.MethodPost, "/api/products/5000112637922/save", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "saved", data(t, env)["state"])

	code, env = do(t, s, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, code)
	list := env["data"].([]any)
	require.Len(t, list, 1)
	row := list[0].(map[string]any)
	assert.Equal(t, "5000112637922", row["barcode"])
	assert.Equal(t, float64(12), row["score"])

	code, _ = do(t, s, http.MethodDelete, "/api/products/5000112637922", nil)
	assert.Equal(t, http.StatusOK, code)

	_, env = do(t, s, http.MethodGet, "/api/products", nil)
	assert.Empty(t, env["data"])
}

func TestSaveWithoutResolution(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodPost, "/api/products/5000112637922/save", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, env["success"])
}

func TestSaveWithoutScore(t *testing.T) {
	s := newTestServer(t)

	_, _ = do(t, s, http.MethodGet, "/api/products/4000417025005", nil)

	code, env := do(t, s, http.MethodPost, "/api/products/4000417025005/save", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, false, env["success"])

	_, env = do(t, s, http.MethodGet, "/api/products", nil)
	assert.Empty(t, env["data"])
}

func TestScanFlow(t *testing.T) {
	s := newTestServer(t)

	inside := map[string]any{
		"barcode": "5000112637922",
		"bounds":  map[string]any{"x": 130, "y": 150, "width": 40, "height": 20},
	}
	outside := map[string]any{
		"barcode": "5000112637922",
		"bounds":  map[string]any{"x": 0, "y": 0, "width": 10, "height": 10},
	}

	// A tick outside the frame is ignored and does not latch.
	code, env := do(t, s, http.MethodPost, "/api/scan", outside)
	assert.Equal(t, http.StatusOK, code)
	res := data(t, env)
	assert.Equal(t, false, res["accepted"])
	assert.Equal(t, false, res["locked"])

	// A tick inside resolves and latches the session.
	code, env = do(t, s, http.MethodPost, "/api/scan", inside)
	assert.Equal(t, http.StatusOK, code)
	res = data(t, env)
	assert.Equal(t, true, res["accepted"])
	assert.Equal(t, true, res["locked"])
	resolution := res["resolution"].(map[string]any)
	assert.Equal(t, "resolved", resolution["state"])

	// Latched: the same tick is now ignored.
	_, env = do(t, s, http.MethodPost, "/api/scan", inside)
	res = data(t, env)
	assert.Equal(t, false, res["accepted"])
	assert.Equal(t, true, res["locked"])

	// Reset unlatches.
	_, env = do(t, s, http.MethodPost, "/api/scan/reset", nil)
	assert.Equal(t, false, data(t, env)["locked"])

	_, env = do(t, s, http.MethodPost, "/api/scan", inside)
	assert.Equal(t, true, data(t, env)["accepted"])
}

func TestScanEventValidation(t *testing.T) {
	s := newTestServer(t)

	code, _ := do(t, s, http.MethodPost, "/api/scan", map[string]any{"bounds": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	code, env := do(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, true, data(t, env)["remoteHealthy"])
}

// Saving after a scan-driven resolution must work exactly like the
// manual-entry path.
func TestScanThenSave(t *testing.T) {
	s := newTestServer(t)

	event := map[string]any{"barcode": "5000112637922"}
	_, env := do(t, s, http.MethodPost, "/api/scan", event)
	require.Equal(t, true, data(t, env)["accepted"])

	code, env := do(t, s, http.MethodPost, "/api/products/5000112637922/save", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "saved", data(t, env)["state"])
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
