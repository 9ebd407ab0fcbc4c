package leadscore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"suryaghar-backend/internal/metrics"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrLLMNotConfigured = errors.New("LLM_NOT_CONFIGURED")
	ErrLLMRequestFailed = errors.New("LLM_REQUEST_FAILED")
	ErrLLMBadResponse   = errors.New("LLM_BAD_RESPONSE")
)

const DefaultModel = "gpt-4o-mini"

// resultSchema is the object the model must return.
const resultSchema = `{
  "type": "object",
  "required": ["score", "tier", "conversionProbability", "factors", "recommendation"],
  "properties": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "tier": {"type": "string", "enum": ["hot", "warm", "cold"]},
    "conversionProbability": {"type": "number", "minimum": 0, "maximum": 100},
    "factors": {"type": "array", "items": {"type": "string"}},
    "recommendation": {"type": "string", "minLength": 1}
  }
}`

const systemPrompt = `You score residential rooftop solar leads for the PM Surya Ghar subsidy scheme in India.
Reply with a single JSON object: {"score": 0-100 integer, "tier": "hot"|"warm"|"cold",
"conversionProbability": 0-100, "factors": [short strings], "recommendation": one sentence}.
Tiers: hot >= 70, warm >= 40, otherwise cold.`

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	schema *gojsonschema.Schema
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
	if err != nil {
		return nil, fmt.Errorf("compile lead score schema: %w", err)
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		schema: schema,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Score asks the model for a rating. Any failure is returned wrapped in
// one of the package sentinel errors.
func (c *Client) Score(ctx context.Context, in Input) (*Result, error) {
	if c == nil || c.cfg.APIKey == "" {
		return nil, ErrLLMNotConfigured
	}

	attrs, _ := json.Marshal(in)
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Lead attributes: " + string(attrs)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrLLMRequestFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLLMBadResponse, err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrLLMBadResponse)
	}

	return c.parse(chat.Choices[0].Message.Content)
}

func (c *Client) parse(content string) (*Result, error) {
	validation, err := c.schema.Validate(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMBadResponse, err)
	}
	if !validation.Valid() {
		errs := make([]string, len(validation.Errors()))
		for i, desc := range validation.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: schema: %s", ErrLLMBadResponse, strings.Join(errs, "; "))
	}

	var raw struct {
		Score                 int      `json:"score"`
		ConversionProbability float64  `json:"conversionProbability"`
		Factors               []string `json:"factors"`
		Recommendation        string   `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMBadResponse, err)
	}

	score := clamp(raw.Score, 0, 100)
	return &Result{
		Score: score,
		// The model's own tier is ignored so tier and score never disagree.
		Tier:                  TierFor(score),
		ConversionProbability: clamp(int(raw.ConversionProbability+0.5), minProbability, maxProbability),
		Factors:               raw.Factors,
		Recommendation:        raw.Recommendation,
		Source:                SourceAI,
	}, nil
}
