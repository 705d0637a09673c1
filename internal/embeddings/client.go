// Package embeddings talks to the sentence embedding service that turns
// event text into a vector.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single Embed call.
const DefaultTimeout = 10 * time.Second

// Client posts sentences to URL and decodes the returned vector.
type Client struct {
	URL  string
	HTTP *http.Client
}

// New returns a Client with DefaultTimeout.
func New(url string) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: DefaultTimeout}}
}

type request struct {
	Sentence string `json:"sentence"`
}

type response struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding of sentence. Non-2xx statuses and empty
// vectors are errors.
func (c *Client) Embed(ctx context.Context, sentence string) ([]float64, error) {
	body, err := json.Marshal(request{Sentence: sentence})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embeddings: status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embeddings: decode: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("embeddings: empty vector")
	}
	return out.Embedding, nil
}
