// Package llm talks to an OpenAI-compatible completion backend (LM
// Studio or any /v1/completions server) and degrades to rule-based
// analysis and report templates when the backend is unreachable.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/oeelens/oee-apiserver/internal/analysis"
	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// Config holds the completion backend settings.
type Config struct {
	BaseURL     string        // e.g. http://127.0.0.1:1234
	Model       string        // model name as registered in the backend
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client calls the completion backend over HTTP.
type Client struct {
	client *client.Client
	cfg    Config
	logger *slog.Logger
}

var _ domain.LLMClient = (*Client)(nil)

// NewClient creates a completion client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithClientReadTimeout(cfg.Timeout),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Client{client: c, cfg: cfg, logger: logger}, nil
}

type completionRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Model       string  `json:"model"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// complete sends one prompt to the backend and returns the raw text.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := sonic.Marshal(completionRequest{
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Model:       c.cfg.Model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.cfg.BaseURL + "/v1/completions")
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return "", domain.NewUpstreamError(err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return "", domain.NewUpstreamError(fmt.Errorf("backend returned status %d", resp.StatusCode()))
	}

	var parsed completionResponse
	if err := sonic.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}
	return parsed.Choices[0].Text, nil
}

// AnalyzeQuery interprets a user query into a structured Analysis. On
// any backend or parse failure it returns the rule-based fallback.
func (c *Client) AnalyzeQuery(ctx context.Context, query, machine string, summary *entity.Summary) *entity.Analysis {
	prompt := fmt.Sprintf(`Analyze this manufacturing data query and provide a structured response.

Machine: %s
Available data: %s

User query: %q

Respond with JSON only:
{
    "intent": "summary|comparison|trend|specific_metric",
    "time_period": "specific dates or periods mentioned",
    "metrics": ["list of specific metrics requested"],
    "needs_chart": true,
    "chart_types": ["bar", "line", "pie", "comparison"],
    "analysis_type": "descriptive analysis needed"
}`, machine, dataContext(summary), query)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("analysis call failed, using fallback", "error", err)
		return analysis.Fallback(query)
	}

	parsed, err := parseAnalysis(text)
	if err != nil {
		c.logger.Warn("unparseable analysis output, using fallback", "error", err)
		return analysis.Fallback(query)
	}
	return parsed
}

// GenerateResponse produces the markdown answer text for a query. On
// backend failure it returns a rule-based template report.
func (c *Client) GenerateResponse(ctx context.Context, query, machine string, summary *entity.Summary, a *entity.Analysis) string {
	analysisJSON, _ := sonic.MarshalString(a)
	prompt := fmt.Sprintf(`You are a manufacturing data analyst assistant. Generate a response to the user's query about machine %s.

User Query: %q

Analysis Context: %s

Data Summary: %s

Instructions:
1. Provide a clear, professional response
2. Include specific numbers and insights from the data
3. Mention key performance indicators (OEE, production rates, quality metrics)
4. Highlight any notable trends or patterns
5. Keep the response informative but concise
6. Use manufacturing terminology appropriately

Response:`, machine, query, analysisJSON, dataSummary(summary))

	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("response call failed, using template report", "error", err)
		return FallbackResponse(query, machine, summary)
	}
	return strings.TrimSpace(text)
}

// parseAnalysis extracts the first JSON object from model output.
// Models routinely wrap JSON in prose or code fences.
func parseAnalysis(text string) (*entity.Analysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in output")
	}

	var a entity.Analysis
	if err := sonic.UnmarshalString(text[start:end+1], &a); err != nil {
		return nil, err
	}
	if a.Intent == "" {
		return nil, fmt.Errorf("missing intent")
	}
	return &a, nil
}

func dataContext(summary *entity.Summary) string {
	if summary == nil || summary.TotalRecords == 0 {
		return "No data available"
	}
	return fmt.Sprintf("%d records from %s to %s",
		summary.TotalRecords,
		summary.DateStart.Format("2006-01-02"),
		summary.DateEnd.Format("2006-01-02"))
}

func dataSummary(summary *entity.Summary) string {
	if summary == nil {
		return "No summary available"
	}
	return fmt.Sprintf(`Total Records: %d
Parts Produced: %.0f
Parts Rejected: %.0f
Average OEE: %.2f%%
Quality Rate: %.2f%%
Total Energy: %.2f KwH
Total Cost: %.2f`,
		summary.TotalRecords,
		summary.TotalPartsProduced,
		summary.TotalPartsRejected,
		summary.AverageOEE,
		summary.QualityRate,
		summary.TotalEnergy,
		summary.TotalCost)
}
