package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerator_Generate(t *testing.T) {
	var gotReq ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "the answer"})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(srv.URL, "test-model", 0.3, time.Second)
	answer, err := g.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, "the prompt", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	assert.InDelta(t, 0.3, gotReq.Temperature, 1e-9)
}

func TestOllamaGenerator_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	g := NewOllamaGenerator(srv.URL, "missing", 0, time.Second)
	_, err := g.Generate(context.Background(), "p")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestOllamaGenerator_ConnectionRefused(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	g := NewOllamaGenerator(srv.URL, "m", 0, time.Second)
	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
}

func TestMock_RecordsPrompts(t *testing.T) {
	m := NewMock(MockResponse{Answer: "first"}, MockResponse{Answer: "second"})

	a, err := m.Generate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "first", a)

	a, _ = m.Generate(context.Background(), "p2")
	assert.Equal(t, "second", a)

	// Repeats the last response once exhausted.
	a, _ = m.Generate(context.Background(), "p3")
	assert.Equal(t, "second", a)

	assert.Equal(t, 3, m.Calls())
	assert.Equal(t, []string{"p1", "p2", "p3"}, m.Prompts())
}
