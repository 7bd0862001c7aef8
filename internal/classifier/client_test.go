package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "http://classifier.test/"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, cfg Config) (*Client, *httpmock.MockTransport) {
	t.Helper()
	if cfg.Endpoint == "" {
		cfg.Endpoint = testEndpoint
	}
	require.NoError(t, cfg.Finalize(nil))

	c := NewClient(&cfg, discardLogger(), nil)
	transport := httpmock.NewMockTransport()
	c.http.Transport = transport
	return c, transport
}

func TestClassify_Success(t *testing.T) {
	c, transport := newTestClient(t, Config{})

	transport.RegisterResponder("POST", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json; charset=utf-8", req.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "Great service", body["title"])
			assert.Equal(t, "Quick and friendly", body["text"])

			return httpmock.NewStringResponse(http.StatusOK, `{"results": 1, "probability": 87}`), nil
		})

	result := c.Classify(context.Background(), "Great service", "Quick and friendly")

	assert.Equal(t, Clean, result.Label)
	assert.InDelta(t, 87.0, result.Confidence, 0.0001)
	assert.False(t, result.Fallback)
	assert.Equal(t, "87", result.ConfidenceText())
}

func TestClassify_LabelPolarity(t *testing.T) {
	tests := []struct {
		name    string
		results int
		want    Label
	}{
		{"zero is flagged", 0, Flagged},
		{"one is clean", 1, Clean},
		{"other nonzero is clean", 5, Clean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, transport := newTestClient(t, Config{})
			transport.RegisterResponder("POST", testEndpoint,
				httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
					"results":     tt.results,
					"probability": 0.42,
				}))

			result := c.Classify(context.Background(), "t", "b")

			assert.Equal(t, tt.want, result.Label)
			assert.Equal(t, "0.42", result.ConfidenceText())
			assert.False(t, result.Fallback)
		})
	}
}

func TestClassify_FallbackCases(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{"internal server error", httpmock.NewStringResponder(http.StatusInternalServerError, "boom")},
		{"service unavailable", httpmock.NewStringResponder(http.StatusServiceUnavailable, "")},
		{"created is not success", httpmock.NewStringResponder(http.StatusCreated, `{"results": 1, "probability": 99}`)},
		{"malformed body", httpmock.NewStringResponder(http.StatusOK, `{"results": `)},
		{"missing results field", httpmock.NewStringResponder(http.StatusOK, `{"probability": 99}`)},
		{"transport error", httpmock.NewErrorResponder(errors.New("connection refused"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, transport := newTestClient(t, Config{})
			transport.RegisterResponder("POST", testEndpoint, tt.responder)

			result := c.Classify(context.Background(), "t", "b")

			assert.Equal(t, Fallback(), result)
			assert.Equal(t, Clean, result.Label)
			assert.Equal(t, "0", result.ConfidenceText())
			assert.True(t, result.Fallback)
		})
	}
}

func TestClassify_RedirectNotFollowed(t *testing.T) {
	c, transport := newTestClient(t, Config{})

	transport.RegisterResponder("POST", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusFound, "")
			resp.Header.Set("Location", "http://elsewhere.test/")
			return resp, nil
		})
	transport.RegisterResponder("POST", "http://elsewhere.test/",
		httpmock.NewStringResponder(http.StatusOK, `{"results": 1, "probability": 99}`))

	result := c.Classify(context.Background(), "t", "b")

	assert.True(t, result.Fallback)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestClassify_Timeout(t *testing.T) {
	c, transport := newTestClient(t, Config{Timeout: "50ms"})

	transport.RegisterResponder("POST", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(2 * time.Second):
				return httpmock.NewStringResponse(http.StatusOK, `{"results": 1, "probability": 99}`), nil
			}
		})

	start := time.Now()
	result := c.Classify(context.Background(), "t", "b")

	assert.True(t, result.Fallback)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClassify_CachesSuccessOnly(t *testing.T) {
	c, transport := newTestClient(t, Config{CacheTTL: "1m"})

	transport.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(http.StatusOK, `{"results": 0, "probability": 12}`))

	first := c.Classify(context.Background(), "same", "text")
	second := c.Classify(context.Background(), "same", "text")

	assert.Equal(t, first, second)
	assert.Equal(t, Flagged, second.Label)
	assert.Equal(t, 1, transport.GetTotalCallCount())

	transport.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	c.Classify(context.Background(), "other", "text")
	c.Classify(context.Background(), "other", "text")

	assert.Equal(t, 3, transport.GetTotalCallCount())
}

func TestClassify_NoCacheByDefault(t *testing.T) {
	c, transport := newTestClient(t, Config{})
	transport.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(http.StatusOK, `{"results": 1, "probability": 50}`))

	c.Classify(context.Background(), "t", "b")
	c.Classify(context.Background(), "t", "b")

	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestCacheKeySeparatesFields(t *testing.T) {
	assert.NotEqual(t, cacheKey("ab", "c"), cacheKey("a", "bc"))
	assert.Equal(t, cacheKey("a", "b"), cacheKey("a", "b"))
}

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Finalize(nil))

	c := New(&cfg, discardLogger(), nil)

	_, ok := c.(*Disabled)
	require.True(t, ok, "expected Disabled classifier")
	assert.Equal(t, Fallback(), c.Classify(context.Background(), "t", "b"))
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"valid endpoint", Config{Endpoint: "https://ml.internal/classify"}, false},
		{"relative endpoint", Config{Endpoint: "/classify"}, true},
		{"unsupported scheme", Config{Endpoint: "ftp://ml.internal"}, true},
		{"bad timeout", Config{Timeout: "soon"}, true},
		{"zero timeout", Config{Timeout: "0s"}, true},
		{"negative ttl", Config{CacheTTL: "-1m"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CLASSIFIER_ENDPOINT", "http://env.test/")
	t.Setenv("TEST_CLASSIFIER_TIMEOUT", "2s")

	cfg := Config{Endpoint: "http://file.test/"}
	require.NoError(t, cfg.Finalize(&Env{
		Endpoint: "TEST_CLASSIFIER_ENDPOINT",
		Timeout:  "TEST_CLASSIFIER_TIMEOUT",
	}))

	assert.Equal(t, "http://env.test/", cfg.Endpoint)
	assert.Equal(t, 2*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, time.Duration(0), cfg.CacheTTLDuration())
}
