package embed

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/zenith-dev/zenith/internal/common"
)

// RetryConfig mirrors the teacher's GeminiRetryConfig
// (internal/services/llm/gemini_retry.go) shape exactly: the embedding
// provider is also a rate-limited external API, so the same exponential
// backoff-with-API-hint strategy applies.
type RetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

const (
	DefaultMaxRetries        = 5
	DefaultInitialBackoff    = 2 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 1.5
)

func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        DefaultMaxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		MaxBackoff:        DefaultMaxBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// IsRateLimitError checks for the same textual markers the teacher's
// Gemini client recognizes in upstream error bodies.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota")
}

var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+|retry-after[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses an API-suggested retry delay out of an error
// message, returning 0 if none is present.
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}
	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}
	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func (c *RetryConfig) CalculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.InitialBackoff
	if apiDelay > 0 {
		base = apiDelay + time.Second
	}
	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= c.BackoffMultiplier
	}
	backoff := time.Duration(float64(base) * multiplier)
	if backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}
	return backoff
}

// RetryingEmbedder wraps an Embedder with the backoff policy above,
// retrying only on rate-limit-shaped errors and giving up immediately on
// anything else (a malformed request retried is still malformed).
type RetryingEmbedder struct {
	inner  Embedder
	config *RetryConfig
	logger arbor.ILogger
}

func NewRetryingEmbedder(inner Embedder, config *RetryConfig, logger arbor.ILogger) *RetryingEmbedder {
	if config == nil {
		config = NewDefaultRetryConfig()
	}
	if logger == nil {
		logger = common.GetLogger()
	}
	return &RetryingEmbedder{inner: inner, config: config, logger: logger}
}

func (r *RetryingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		vectors, err := r.inner.Embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if !IsRateLimitError(err) {
			return nil, err
		}
		if attempt == r.config.MaxRetries {
			break
		}
		delay := r.config.CalculateBackoff(attempt, ExtractRetryDelay(err))
		r.logger.Warn().Err(err).Msg("embedder rate limited, backing off")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}
