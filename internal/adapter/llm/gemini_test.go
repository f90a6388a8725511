package llm

import (
	"context"
	"encoding/json"
	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiTestServer(t *testing.T, status int, body string, gotPath *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewGeminiGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), config.GeminiConfig{}, 0)
	require.Error(t, err)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var path string
	srv := newGeminiTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"Q1?\nQ2?"}]}}]}`, &path)

	gen, err := NewGeminiGenerator(context.Background(), config.GeminiConfig{APIKey: "test", BaseURL: srv.URL}, time.Second)
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "gemini-1.5-flash", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Q1?\nQ2?", text)
	assert.True(t, strings.HasSuffix(path, "models/gemini-1.5-flash:generateContent"), path)
}

func TestGeminiGenerator_SendsPrompt(t *testing.T) {
	var received struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	gen, err := NewGeminiGenerator(context.Background(), config.GeminiConfig{APIKey: "test", BaseURL: srv.URL}, 0)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "gemini-2.0-flash", "evaluate this")
	require.NoError(t, err)
	require.Len(t, received.Contents, 1)
	require.Len(t, received.Contents[0].Parts, 1)
	assert.Equal(t, "evaluate this", received.Contents[0].Parts[0].Text)
}

func TestGeminiGenerator_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode domain.ErrorCode
		limited  bool
	}{
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`,
			wantCode: domain.ErrRateLimited,
			limited:  true,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`,
			wantCode: domain.ErrLLMServiceError,
		},
		{
			name:     "empty candidates",
			status:   http.StatusOK,
			body:     `{"candidates":[]}`,
			wantCode: domain.ErrLLMServiceError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGeminiTestServer(t, tt.status, tt.body, nil)
			gen, err := NewGeminiGenerator(context.Background(), config.GeminiConfig{APIKey: "test", BaseURL: srv.URL}, 0)
			require.NoError(t, err)

			_, err = gen.Generate(context.Background(), "gemini-2.0-flash", "prompt")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, domain.CodeOf(err))
			assert.Equal(t, tt.limited, domain.IsRateLimited(err))
		})
	}
}

func TestGeminiGenerator_RateLimitMessageKeepsStatus(t *testing.T) {
	srv := newGeminiTestServer(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`, nil)
	gen, err := NewGeminiGenerator(context.Background(), config.GeminiConfig{APIKey: "test", BaseURL: srv.URL}, 0)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "gemini-2.0-flash", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
