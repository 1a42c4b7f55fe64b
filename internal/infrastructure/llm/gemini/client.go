package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/time/rate"

	"github.com/unirecords/archive-console/internal/core/domain"
	"github.com/unirecords/archive-console/internal/infrastructure/resilience"
)

// Client calls the Gemini generateContent endpoint to turn raw file content
// into structured archive metadata and entities.
//
// The adapter deliberately never surfaces a hard failure: any terminal error
// (network, quota, malformed or schema-violating response) degrades to the
// labeled fallback result so the review pipeline keeps moving. Only context
// cancellation returns an error.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
	limiter    *rate.Limiter
	schema     *openapi3.Schema
}

type Options struct {
	RequestTimeout     time.Duration
	RateLimitPerSecond float64
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, apiKey, model string, options Options) (*Client, error) {
	schema, err := newParseResultSchema()
	if err != nil {
		return nil, err
	}

	requestTimeout := options.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 120 * time.Second
	}
	limit := rate.Limit(options.RateLimitPerSecond)
	if limit <= 0 {
		limit = rate.Inf
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		executor:   options.ResilienceExecutor,
		limiter:    rate.NewLimiter(limit, 1),
		schema:     schema,
	}, nil
}

func (c *Client) Parse(ctx context.Context, content []byte, mimeType string) (domain.ParseResult, error) {
	result, err := c.parse(ctx, content, mimeType)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.ParseResult{}, ctxErr
		}
		slog.Warn("gemini_parse_fallback", "model", c.model, "error", err)
		return domain.FallbackParseResult(time.Now()), nil
	}
	return result, nil
}

func (c *Client) parse(ctx context.Context, content []byte, mimeType string) (domain.ParseResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ParseResult{}, err
	}

	request := generateContentRequest{
		SystemInstruction: &contentBlock{Parts: []part{{Text: systemInstruction}}},
		Contents: []contentBlock{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(content)}},
				{Text: userPrompt},
			},
		}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}

	var response generateContentResponse
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, fmt.Sprintf("/v1beta/models/%s:generateContent", c.model), request, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "gemini.generate_content", call, classifyGeminiError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.ParseResult{}, err
	}

	text := response.firstText()
	if text == "" {
		return domain.ParseResult{}, fmt.Errorf("empty gemini response")
	}
	return c.decodeResult(text)
}

// decodeResult validates the raw response against the extraction schema
// before decoding into domain types; an out-of-contract response is treated
// like any other extraction failure.
func (c *Client) decodeResult(text string) (domain.ParseResult, error) {
	raw := extractJSONObject(text)

	var untyped map[string]any
	if err := json.Unmarshal([]byte(raw), &untyped); err != nil {
		return domain.ParseResult{}, fmt.Errorf("parse extraction json: %w", err)
	}
	if err := c.schema.VisitJSON(untyped); err != nil {
		return domain.ParseResult{}, fmt.Errorf("extraction response violates schema: %w", err)
	}

	var result domain.ParseResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return domain.ParseResult{}, fmt.Errorf("decode extraction result: %w", err)
	}
	if result.Entities == nil {
		result.Entities = []domain.Entity{}
	}
	return result, nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

type generateContentRequest struct {
	SystemInstruction *contentBlock     `json:"systemInstruction,omitempty"`
	Contents          []contentBlock    `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type contentBlock struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *generateContentResponse) firstText() string {
	for _, candidate := range r.Candidates {
		for _, p := range candidate.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}
