// Package speech is the client for the external speech-to-text service.
// The service exposes a three-phase protocol: upload raw audio, submit the
// uploaded url for transcription, then poll the job until it completes.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrJobFailed = errors.New("speech: transcription job failed")
	// ErrPollTimeout bounds the poll loop; a stuck upstream job must not
	// hang the process forever.
	ErrPollTimeout = errors.New("speech: poll timed out")
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollTimeout  = 10 * time.Minute
)

type Client struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpc        *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func WithPolling(interval, timeout time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if timeout > 0 {
			c.pollTimeout = timeout
		}
	}
}

func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
		httpc:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload pushes raw audio bytes and returns the url the service stored them at.
func (c *Client) Upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/octet-stream")

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("speech: upload: %w", err)
	}
	return out.UploadURL, nil
}

// Submit queues a transcription for an uploaded audio url and returns the job id.
func (c *Client) Submit(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("speech: submit: %w", err)
	}
	return out.ID, nil
}

type jobStatus struct {
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Poll blocks until the job completes, fails, or the poll timeout elapses.
func (c *Client) Poll(ctx context.Context, jobID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		st, err := c.status(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("%w: job %s", ErrPollTimeout, jobID)
			}
			return "", err
		}
		switch st.Status {
		case "completed":
			return st.Text, nil
		case "error":
			return "", fmt.Errorf("%w: %s", ErrJobFailed, st.Error)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: job %s", ErrPollTimeout, jobID)
		case <-ticker.C:
		}
	}
}

// Transcribe runs the full upload, submit, poll sequence for one audio chunk.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	url, err := c.Upload(ctx, audio)
	if err != nil {
		return "", err
	}
	jobID, err := c.Submit(ctx, url)
	if err != nil {
		return "", err
	}
	log.Debug().Str("module", "speech").Str("job", jobID).Msg("transcription submitted")
	return c.Poll(ctx, jobID)
}

func (c *Client) status(ctx context.Context, jobID string) (*jobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("authorization", c.apiKey)

	var st jobStatus
	if err := c.do(req, &st); err != nil {
		return nil, fmt.Errorf("speech: poll: %w", err)
	}
	return &st, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, b)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
