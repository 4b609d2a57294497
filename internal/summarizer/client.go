package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/justicelink/case-management/internal"
)

// Client talks to the external summarization API. It composes a prompt
// from the case name and its document file names and returns the model's
// text response.
type Client struct {
	apiURL  string
	apiKey  string
	model   string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

type Config struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiURL:  config.APIURL,
		apiKey:  config.APIKey,
		model:   config.Model,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type summaryRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// Summarize requests a digest of the named documents. Callers treat any
// returned error as a soft failure and substitute displayable text.
func (c *Client) Summarize(ctx context.Context, caseName string, fileNames []string) (string, error) {
	prompt := buildPrompt(caseName, fileNames)

	body, err := json.Marshal(summaryRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("summarization request failed", "error", err, "case_name", caseName)
		return "", internal.NewExternalError("summarization service unreachable", internal.ErrCodeSummarizerFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("summarization service returned error",
			"status_code", resp.StatusCode,
			"case_name", caseName)
		return "", internal.NewExternalError(
			fmt.Sprintf("summarization service returned status %d", resp.StatusCode),
			internal.ErrCodeSummarizerFailed, nil)
	}

	var apiResponse summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", internal.NewExternalError("failed to decode summary response", internal.ErrCodeSummarizerFailed, err)
	}

	c.logger.Info("summary generated", "case_name", caseName, "document_count", len(fileNames))

	return apiResponse.Summary, nil
}

func buildPrompt(caseName string, fileNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the legal case %q based on its document set:\n", caseName)
	for _, name := range fileNames {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}
