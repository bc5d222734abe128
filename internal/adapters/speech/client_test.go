package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSpeechAPI implements the three-phase contract: upload, submit, poll.
type fakeSpeechAPI struct {
	t          *testing.T
	uploaded   atomic.Int32
	polls      atomic.Int32
	pollsUntil int32 // number of pending responses before completion
	finalState string
	finalText  string
}

func (f *fakeSpeechAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(f.t, http.MethodPost, r.Method)
		assert.Equal(f.t, "test-key", r.Header.Get("authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NotEmpty(f.t, body)
		f.uploaded.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/a1"})
	})
	mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(f.t, http.MethodPost, r.Method)
		var req map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "https://cdn.example/a1", req["audio_url"])
		json.NewEncoder(w).Encode(map[string]string{"id": "job-42"})
	})
	mux.HandleFunc("/transcript/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(f.t, http.MethodGet, r.Method)
		assert.True(f.t, strings.HasSuffix(r.URL.Path, "/job-42"))
		n := f.polls.Add(1)
		st := map[string]string{"status": "processing"}
		if n > f.pollsUntil {
			st["status"] = f.finalState
			st["text"] = f.finalText
			if f.finalState == "error" {
				st["error"] = "audio too noisy"
			}
		}
		json.NewEncoder(w).Encode(st)
	})
	return mux
}

func newTestClient(t *testing.T, api *fakeSpeechAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewClient("test-key", srv.URL, WithPolling(5*time.Millisecond, 500*time.Millisecond))
}

func TestTranscribeHappyPath(t *testing.T) {
	api := &fakeSpeechAPI{t: t, pollsUntil: 2, finalState: "completed", finalText: "hello world"}
	c := newTestClient(t, api)

	text, err := c.Transcribe(context.Background(), []byte("wav-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, int32(1), api.uploaded.Load())
	assert.GreaterOrEqual(t, api.polls.Load(), int32(3))
}

func TestPollTerminalError(t *testing.T) {
	api := &fakeSpeechAPI{t: t, pollsUntil: 1, finalState: "error"}
	c := newTestClient(t, api)

	_, err := c.Transcribe(context.Background(), []byte("wav-bytes"))
	require.ErrorIs(t, err, ErrJobFailed)
	assert.Contains(t, err.Error(), "audio too noisy")
}

func TestPollTimeout(t *testing.T) {
	// Job never leaves processing; the bounded poll loop must give up.
	api := &fakeSpeechAPI{t: t, pollsUntil: 1 << 30, finalState: "completed"}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	c := NewClient("test-key", srv.URL, WithPolling(5*time.Millisecond, 40*time.Millisecond))

	_, err := c.Transcribe(context.Background(), []byte("wav-bytes"))
	require.ErrorIs(t, err, ErrPollTimeout)
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	c := NewClient("bad-key", srv.URL)

	_, err := c.Upload(context.Background(), []byte("wav-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
