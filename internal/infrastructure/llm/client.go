package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/config"
	"github.com/levente-murgas/producthunt-ideator/internal/domain"
	"github.com/levente-murgas/producthunt-ideator/internal/ports"
)

const summarizePrompt = `You are a summarization assistant tasked with creating concise, insightful
descriptions of products based on the provided information.
Use the name, tagline, description, and raw landing page text to craft a clear,
engaging summary. The summary should:

Highlight the core functionality and value proposition of the product.
Avoid repeating any one source verbatim.
Be no longer than 50 words.
Your summaries will serve as input for another assistant tasked with reimagining
these products for new industries, demographics, or trends.
Focus on clarity, potential appeal, and unique aspects.
Do not introduce speculative details or solutions.`

const analyzePrompt = `You are an innovation assistant specializing in reimagining
existing product ideas for B2B applications.
Based on the provided product summary, your task is to:

Identify Gaps or Potential: Analyze areas where the product could improve,
expand its functionality, or address unmet needs for businesses.
Adapt the Idea: Propose innovative ways to apply the concept to new industries,
business demographics, geographies, or B2B business models.
Integrate Emerging Trends: Suggest ways to incorporate cutting-edge technologies
or societal trends (e.g., generative AI, sustainability, blockchain)
while maintaining relevance to B2B markets.
Focus on creating solutions that enhance efficiency, profitability, or
operational capacity for businesses. Think of examples like Slack,
which adapted instant messaging to improve workplace communication, or Shopify,
which transformed e-commerce infrastructure for merchants.
Similarly, your ideas should aim to offer measurable value to organizations.

Your output should include:

A brief analysis of the product's current strengths and weaknesses.
Three distinct B2B-focused reimagination proposals, prioritizing practicality,
originality, and market alignment.
Avoid generic or vague suggestions; prioritize detail, clarity,
and creativity while tailoring all solutions to B2B applications.`

const promptModeSuffix = `

Respond with a single JSON object with the keys "strengths" (string),
"weaknesses" (string) and "proposals" (array of objects with "title" and
"description"). Do not wrap the JSON in markdown fences or add commentary.`

// Client implements the summarizer and analyzer ports against an
// OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	outputMode string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ ports.Summarizer = (*Client)(nil)
	_ ports.Analyzer   = (*Client)(nil)
)

// NewClient builds a client from configuration. outputMode selects how
// Analyze obtains its structure: config.OutputModeSchema sends a JSON-schema
// response format, config.OutputModePrompt asks for JSON and parses it.
func NewClient(cfg config.OpenAIConfig, outputMode string, logger *slog.Logger) *Client {
	if outputMode == "" {
		outputMode = config.OutputModeSchema
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		outputMode: outputMode,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Summarize produces the short reimagining-oriented product summary.
func (c *Client) Summarize(ctx context.Context, product domain.Product, landingText string) (string, error) {
	user := fmt.Sprintf("Name: %s\nTagline: %s\nDescription: %s\nLanding Page Text: %s",
		product.Name, product.Tagline, product.Description, landingText)

	content, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: summarizePrompt},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

// Analyze produces the structured strengths/weaknesses critique with three
// B2B reimagining proposals. Both output modes yield the same shape.
func (c *Client) Analyze(ctx context.Context, product domain.Product) (domain.Analysis, error) {
	user := fmt.Sprintf("Product Name: %s\nProduct Tagline: %s\nProduct Description: %s %s",
		product.Name, product.Tagline, product.Description, product.LongDescription)

	req := chatRequest{Model: c.model}
	switch c.outputMode {
	case config.OutputModePrompt:
		req.Messages = []chatMessage{
			{Role: "system", Content: analyzePrompt + promptModeSuffix},
			{Role: "user", Content: user},
		}
	default:
		req.Messages = []chatMessage{
			{Role: "system", Content: analyzePrompt},
			{Role: "user", Content: user},
		}
		req.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   "analysis",
				Strict: true,
				Schema: analysisSchema(),
			},
		}
	}

	content, err := c.complete(ctx, req)
	if err != nil {
		return domain.Analysis{}, err
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(stripFences(content)), &analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("parse analysis: %w", err)
	}

	return analysis, nil
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// analysisSchema declares the JSON schema matching domain.Analysis for
// schema-constrained generation.
func analysisSchema() map[string]any {
	str := map[string]any{"type": "string"}
	proposal := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       str,
			"description": str,
		},
		"required":             []string{"title", "description"},
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strengths":  str,
			"weaknesses": str,
			"proposals":  map[string]any{"type": "array", "items": proposal},
		},
		"required":             []string{"strengths", "weaknesses", "proposals"},
		"additionalProperties": false,
	}
}

// stripFences tolerates models that wrap JSON in a markdown code block
// despite instructions.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}
