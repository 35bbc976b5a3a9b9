// Package gemini generates chart summaries with the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"analytics_backend/internal/feature/analysis/usecase"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Config selects credentials and model. An empty APIKey falls back to
// application default credentials (GOOGLE_GENAI_USE_VERTEXAI and friends).
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Summarizer implements usecase.Summarizer on top of genai.
type Summarizer struct {
	client *genai.Client
	model  string
}

var _ usecase.Summarizer = (*Summarizer)(nil)

func NewSummarizer(ctx context.Context, cfg Config) (*Summarizer, error) {
	cc := &genai.ClientConfig{HTTPClient: cfg.HTTPClient}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}, nil
}

// Summarize asks the model for a short description of the chart.
func (s *Summarizer) Summarize(ctx context.Context, req usecase.SummaryRequest) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(BuildPrompt(req)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty summary")
	}
	return text, nil
}

// BuildPrompt renders the chart definition and sample points as plain text.
func BuildPrompt(req usecase.SummaryRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a data analyst. Summarize the following %s chart in at most three sentences.\n", req.ChartType)
	fmt.Fprintf(&b, "Dataset: %s (%d rows). X axis: %q. Y axis: %q.\n", req.FileName, req.RowCount, req.XAxis, req.YAxis)
	if len(req.Points) < req.RowCount {
		fmt.Fprintf(&b, "First %d data points:\n", len(req.Points))
	} else {
		b.WriteString("Data points:\n")
	}
	for _, p := range req.Points {
		fmt.Fprintf(&b, "- %v: %g\n", p.X, p.Y)
	}
	b.WriteString("Mention the overall trend and any notable highs or lows. Do not invent values.")
	return b.String()
}
