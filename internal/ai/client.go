package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"healthassist/internal/config"
	"healthassist/internal/metrics"
)

// ApologyResponse is returned to the user whenever a model call fails. The
// product degrades to this string instead of surfacing errors.
const ApologyResponse = "I apologize, but I'm having trouble connecting to my knowledge base right now. Please try again in a moment."

// Client wraps the Gemini API with rate limiting and an optional redis
// response cache.
type Client struct {
	model     *genai.GenerativeModel
	modelName string
	genai     *genai.Client
	limiter   *rate.Limiter
	redis     *redis.Client
	cacheTTL  time.Duration
	logger    *zerolog.Logger
}

// NewClient connects to the Gemini API. Returns an error if no API key is
// configured; callers treat a nil client as "AI features disabled".
func NewClient(ctx context.Context, cfg config.GeminiConfig, logger *zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 30
	}

	return &Client{
		model:     gc.GenerativeModel(cfg.Model),
		modelName: cfg.Model,
		genai:     gc,
		limiter:   rate.NewLimiter(rate.Limit(rpm/60.0), 3),
		logger:    logger,
	}, nil
}

// UseRedisCache enables response caching. Identical prompts within the TTL
// are served from redis without a model call.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.genai.Close()
}

// Generate runs one prompt through the model. It never returns an empty
// string: on any failure the apology text comes back and the error is
// logged, so callers can render the result directly.
func (c *Client) Generate(ctx context.Context, feature, prompt string) string {
	cacheKey := c.cacheKey(prompt)
	if cached, ok := c.readCache(ctx, cacheKey); ok {
		metrics.IncAIRequest(feature, "cache_hit")
		return cached
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn().Err(err).Str("feature", feature).Msg("AI rate limit wait aborted")
		metrics.IncAIRequest(feature, "rate_limited")
		return ApologyResponse
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error().Err(err).Str("feature", feature).Msg("Gemini call failed")
		metrics.IncAIRequest(feature, "error")
		return ApologyResponse
	}

	text := extractText(resp)
	if text == "" {
		c.logger.Warn().Str("feature", feature).Msg("Gemini returned no text")
		metrics.IncAIRequest(feature, "empty")
		return ApologyResponse
	}

	text = CleanHTML(text)
	c.writeCache(ctx, cacheKey, text)
	metrics.IncAIRequest(feature, "ok")
	return text
}

// AnalyzeSentiment classifies text as Positive, Negative or Neutral.
// Anything unexpected from the model collapses to Neutral.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return "Neutral"
	}
	got := strings.TrimSpace(c.Generate(ctx, "sentiment", SentimentPrompt(text)))
	switch got {
	case "Positive", "Negative", "Neutral":
		return got
	}
	return "Neutral"
}

func (c *Client) cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(c.modelName + "\x00" + prompt))
	return "ai:response:" + hex.EncodeToString(sum[:])
}

func (c *Client) readCache(ctx context.Context, key string) (string, bool) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return "", false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) writeCache(ctx context.Context, key, val string) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	_ = c.redis.Set(ctx, key, val, c.cacheTTL).Err()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// CleanHTML strips markdown code fences the model sometimes wraps HTML in.
func CleanHTML(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```html")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
