// Package advisor turns the current subscription picture into short
// natural-language saving tips using the Anthropic API. Responses are cached
// in memory keyed by the prompt digest, so unchanged data never costs a
// second API call inside the TTL.
package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dgraph-io/ristretto"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/logger"
)

const (
	requestTimeout = 30 * time.Second
	maxTokens      = 1024
	defaultModel   = "claude-sonnet-4-5"

	cacheNumCounters = 10_000
	cacheMaxCost     = 1 << 20
	cacheBufferItems = 64
)

// ErrDisabled indicates no API key is configured.
var ErrDisabled = errors.New("advisor: no api key configured")

// Advisor asks the model for saving tips. A nil Advisor is valid and always
// reports ErrDisabled.
type Advisor struct {
	client anthropic.Client
	model  anthropic.Model
	ttl    time.Duration
	cache  *ristretto.Cache
}

// New creates an advisor for the given config. Returns nil when no API key is
// available from the environment or the config file.
func New(cfg config.Config) *Advisor {
	key := config.GetAdvisorAPIKey(cfg)
	if key == "" {
		return nil
	}

	model := strings.TrimSpace(cfg.Advisor.Model)
	if model == "" {
		model = defaultModel
	}

	ttl := time.Duration(cfg.Advisor.CacheTTLMins) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		logger.Log.Warnf("advisor response cache disabled: %v", err)
		cache = nil
	}

	return &Advisor{
		client: anthropic.NewClient(option.WithAPIKey(key)),
		model:  anthropic.Model(model),
		ttl:    ttl,
		cache:  cache,
	}
}

// Enabled reports whether advice calls can be made.
func (a *Advisor) Enabled() bool {
	return a != nil
}

// Advise sends the digest to the model and returns its tip lines. An
// identical digest inside the cache TTL is answered from memory.
func (a *Advisor) Advise(ctx context.Context, digest string) ([]string, error) {
	if a == nil {
		return nil, ErrDisabled
	}

	key := cacheKey(digest)
	if a.cache != nil {
		if v, ok := a.cache.Get(key); ok {
			if lines, ok := v.([]string); ok {
				return lines, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(digest)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: requesting advice: %w", err)
	}

	lines := extractLines(msg)
	if a.cache != nil && len(lines) > 0 {
		var cost int64
		for _, l := range lines {
			cost += int64(len(l))
		}
		a.cache.SetWithTTL(key, lines, cost, a.ttl)
	}
	return lines, nil
}

// Close releases the response cache.
func (a *Advisor) Close() {
	if a != nil && a.cache != nil {
		a.cache.Close()
	}
}

func cacheKey(digest string) string {
	sum := sha256.Sum256([]byte(digest))
	return hex.EncodeToString(sum[:])
}

// extractLines flattens the response into clean tip lines, stripping the
// list markers the model tends to prepend.
func extractLines(msg *anthropic.Message) []string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
			b.WriteString("\n")
		}
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = trimListNumber(line)
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// trimListNumber strips a leading "1. " or "2) " style marker.
func trimListNumber(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}
		if (c == '.' || c == ')') && i > 0 && i+1 < len(s) && s[i+1] == ' ' {
			return s[i+2:]
		}
		break
	}
	return s
}
