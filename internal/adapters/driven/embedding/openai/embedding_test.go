package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*EmbeddingService, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	var slept []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return svc, &slept
}

func writeEmbeddings(w http.ResponseWriter, inputs []string) {
	type item struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	}
	data := make([]item, len(inputs))
	// Reverse order to check results are placed by index.
	for i := range inputs {
		j := len(inputs) - 1 - i
		data[i] = item{Embedding: []float64{float64(j), 0.5}, Index: j}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "sk-test"})

	require.NoError(t, err)
	assert.Equal(t, "text-embedding-ada-002", svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultMaxRetries, svc.maxRetries)
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq embeddingRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		writeEmbeddings(w, gotReq.Input)
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/embeddings", gotPath)
	assert.Equal(t, "text-embedding-ada-002", gotReq.Model)
	assert.Equal(t, []string{"a", "b", "c"}, gotReq.Input)
	require.Len(t, embeddings, 3)
	for i, e := range embeddings {
		assert.Equal(t, []float32{float32(i), 0.5}, e)
	}
}

func TestEmbeddingService_EmbedBatch_Empty(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	embeddings, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestEmbeddingService_Embed(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeEmbeddings(w, []string{"q"})
	})

	embedding, err := svc.Embed(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5}, embedding)
}

func TestEmbeddingService_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	svc, slept := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeEmbeddings(w, []string{"q"})
	})

	_, err := svc.Embed(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, *slept)
}

func TestEmbeddingService_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		writeEmbeddings(w, []string{"q"})
	})

	_, err := svc.Embed(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbeddingService_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Embed(context.Background(), "q")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, int32(DefaultMaxRetries+1), calls.Load())
}

func TestEmbeddingService_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := svc.Embed(context.Background(), "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmbeddingService_MissingEmbedding(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeEmbeddings(w, []string{"only one"})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})

	assert.Error(t, err)
}

func TestEmbeddingService_Ping(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, retryDelay(0))
	assert.Equal(t, 800*time.Millisecond, retryDelay(2))
	assert.Equal(t, 5*time.Second, retryDelay(10))
	assert.Equal(t, 200*time.Millisecond, retryDelay(-1))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestRateLimiter_WaitHonoursBackoff(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	limiter.RecordRateLimit(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, limiter.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_Unlimited(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	limiter.RecordRateLimit(0)

	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Wait(context.Background()))
	}
}
