package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client talks to the transcription sidecar service over HTTP. The sidecar
// runs WhisperX with diarization and shares the filesystem with this
// process, so requests carry a path rather than the media bytes.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a transcription client for the given endpoint.
// Timeout can be configured via MINUTED_TRANSCRIBE_TIMEOUT (default 30m;
// long recordings transcribe slowly on CPU).
func NewClient(endpoint string) *Client {
	timeout := 30 * time.Minute
	if t := os.Getenv("MINUTED_TRANSCRIBE_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type transcribeRequest struct {
	Path string `json:"path"`
}

type transcribeError struct {
	Error string `json:"error"`
}

// Transcribe submits a file for transcription and waits for the full result.
func (c *Client) Transcribe(ctx context.Context, path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("media file: %w", err)
	}

	reqBody, err := json.Marshal(transcribeRequest{Path: path})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+"/transcribe", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var svcErr transcribeError
		if json.Unmarshal(body, &svcErr) == nil && svcErr.Error != "" {
			return nil, fmt.Errorf("transcription failed: %s", svcErr.Error)
		}
		return nil, fmt.Errorf("transcription service error: %s - %s", resp.Status, string(body))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Segments) == 0 {
		return nil, fmt.Errorf("transcription returned no segments")
	}

	return &result, nil
}
