package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/DreamLogger/internal/errors"
)

func TestHuggingFace_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test/model", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a prompt", body["inputs"])

		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG"))
	}))
	defer srv.Close()

	hf := NewHuggingFace("test/model", "tok", srv.URL)
	data, err := hf.Generate(context.Background(), "a prompt")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data)
	assert.Equal(t, "huggingface:test/model", hf.Name())
}

func TestHuggingFace_NotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"estimated_time": 20}`))
	}))
	defer srv.Close()

	_, err := NewHuggingFace("m", "tok", srv.URL).Generate(context.Background(), "p")
	assert.True(t, errors.Is(err, ErrNotImage))
}

func TestHuggingFace_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHuggingFace("m", "", srv.URL).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.True(t, apperrors.IsProviderError(err))
}
