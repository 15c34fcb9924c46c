// Package ocr is a thin client for the Typhoon OCR HTTP service. The
// service is an external collaborator: it takes image bytes and returns
// plain text, which the normalizer treats as untrusted, arbitrarily noisy
// input with no schema guarantees.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("ocr: api key not configured")

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "typhoon-ocr-preview"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// requestParams mirrors the service's expected "params" form field.
type requestParams struct {
	Model             string  `json:"model"`
	TaskType          string  `json:"task_type"`
	MaxTokens         int     `json:"max_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

type response struct {
	Results []pageResult `json:"results"`
}

type pageResult struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
	Message  struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"message"`
}

// ExtractText uploads one image and returns the recognized text, joining
// multi-page results with newlines. Pages that fail are logged and
// skipped; the call errors only when the whole request fails or no page
// yields text.
func (c *Client) ExtractText(ctx context.Context, filename string, file io.Reader) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}
	start := time.Now()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(filename))}
	h["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy file data: %w", err)
	}

	params, err := json.Marshal(requestParams{
		Model:             c.cfg.Model,
		TaskType:          "default",
		MaxTokens:         16000,
		Temperature:       0.1,
		TopP:              0.6,
		RepetitionPenalty: 1.2,
	})
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	if err := writer.WriteField("params", string(params)); err != nil {
		return "", fmt.Errorf("write params field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ocr service status %d: %s", resp.StatusCode, string(body))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}

	var texts []string
	for _, page := range out.Results {
		if !page.Success {
			c.logger.Warn("ocr.page_failed", "filename", page.Filename, "error", page.Error)
			continue
		}
		if len(page.Message.Choices) == 0 {
			continue
		}
		texts = append(texts, pageText(page.Message.Choices[0].Message.Content))
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("ocr returned no text for %s", filename)
	}

	text := strings.Join(texts, "\n")
	c.logger.Info("ocr.extract.ok",
		"filename", filename,
		"pages", len(texts),
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// pageText unwraps structured page output ({"natural_text": ...}) and
// falls back to the raw content.
func pageText(content string) string {
	var structured struct {
		NaturalText string `json:"natural_text"`
	}
	if err := json.Unmarshal([]byte(content), &structured); err == nil && structured.NaturalText != "" {
		return structured.NaturalText
	}
	return content
}
