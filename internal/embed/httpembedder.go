package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/zenith-dev/zenith/internal/zerrors"
)

// DefaultRequestsPerSecond caps how fast embedOne fires at the local
// embedding server, the same defensive rate-limiting the teacher's eodhd
// client applies to its own one-request-at-a-time API (internal/eodhd/
// client.go's DefaultRateLimit): a local process is still an external
// collaborator that can be overwhelmed by a large batch.
const DefaultRequestsPerSecond = 20

// HTTPEmbedder calls a local embedding server (e.g. llama-server's
// /embedding endpoint) one text at a time, the same wire shape the
// teacher's offline llama client uses for its embedding requests
// (internal/services/llm/offline/llama.go's Embed). The model process
// itself is an external collaborator per spec §1; this is only the
// client side of that boundary.
type HTTPEmbedder struct {
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPEmbedder(baseURL string, timeout time.Duration) *HTTPEmbedder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPEmbedder{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultRequestsPerSecond),
	}
}

// WithRateLimit overrides the default requests-per-second cap, matching
// the teacher client's WithRateLimit option.
func (e *HTTPEmbedder) WithRateLimit(requestsPerSecond int) *HTTPEmbedder {
	e.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	return e
}

type embeddingRequest struct {
	Content string `json:"content"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed calls the server once per text; the server itself is expected to
// batch internally if it wants to, but the wire protocol this client
// speaks (one content string in, one embedding out) only needs to support
// a single request at a time.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (e *HTTPEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, zerrors.Wrap(zerrors.Embedding, err, "waiting for embedding rate limiter")
	}

	body, err := json.Marshal(embeddingRequest{Content: text})
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Serialization, err, "marshaling embedding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/embedding", bytes.NewReader(body))
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "building embedding request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "calling embedding server at %s", e.BaseURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "reading embedding response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, zerrors.New(zerrors.Embedding, "embedding server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Embedding) == 0 {
		var flat []float32
		if err := json.Unmarshal(respBody, &flat); err != nil {
			return nil, zerrors.Wrap(zerrors.Serialization, err, "parsing embedding response body %q", string(respBody))
		}
		return flat, nil
	}
	return parsed.Embedding, nil
}

var _ Embedder = (*HTTPEmbedder)(nil)

func (e *HTTPEmbedder) String() string {
	return fmt.Sprintf("HTTPEmbedder(%s)", e.BaseURL)
}
