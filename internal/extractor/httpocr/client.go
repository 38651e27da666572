// Package httpocr calls an OCR service that accepts a multipart document
// upload and answers with the extracted text.
package httpocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"cigfip/internal/config"
	"cigfip/internal/domain"
	"cigfip/internal/extractor"
	"cigfip/internal/port"
)

// ProviderName is the registry key of this provider.
const ProviderName = "http"

// ocrErrorPrefix marks text the service returns in place of a result when OCR
// itself failed; the HTTP status is still 200 in that case.
const ocrErrorPrefix = "Erro na extração OCR"

// Client implements port.TextExtractor against an OCR HTTP endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
}

// New creates an OCR client from a provider config.
func New(cfg *config.ExtractorProviderConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Second,
		client:     &http.Client{Timeout: timeout},
	}
}

// Register adds this provider to the extractor registry.
func Register() {
	extractor.RegisterProvider(ProviderName, func(cfg *config.ExtractorProviderConfig) (port.TextExtractor, error) {
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("http extractor: endpoint is required")
		}
		return New(cfg), nil
	})
}

// response models the OCR service payload.
type response struct {
	Status        string `json:"status"`
	ReceivedFile  string `json:"arquivo_recebido"`
	SizeBytes     int64  `json:"tamanho_bytes"`
	ExtractedText string `json:"texto_extraido"`
	Message       string `json:"mensagem"`
	Details       string `json:"detalhes"`
}

// permanentError marks failures that retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func (c *Client) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	var out *port.ExtractOutput
	attempts := c.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			res, err := c.extractOnce(ctx, input)
			if err != nil {
				return err
			}
			out = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		var pe *permanentError
		if errors.As(err, &pe) {
			return nil, pe.err
		}
		return nil, err
	}
	return out, nil
}

func isRetryable(err error) bool {
	var rl *extractor.RateLimitError
	var pe *permanentError
	return !errors.As(err, &rl) && !errors.As(err, &pe)
}

func (c *Client) extractOnce(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	body, contentType, err := buildMultipart(input)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("building multipart body: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ocr service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		baseErr := fmt.Errorf("ocr service error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
		retryAfter := extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, extractor.NewRateLimitError(ProviderName, baseErr, retryAfter)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("ocr service error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	case resp.StatusCode != http.StatusOK:
		return nil, &permanentError{fmt.Errorf("ocr service error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))}
	}

	return parseResponse(respBody)
}

func parseResponse(body []byte) (*port.ExtractOutput, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, &permanentError{fmt.Errorf("unmarshaling response: %w", err)}
	}
	if r.Status == "erro" {
		return nil, &permanentError{fmt.Errorf("%w: %s", domain.ErrExtractionFailed, r.Details)}
	}
	if strings.HasPrefix(r.ExtractedText, ocrErrorPrefix) {
		return nil, &permanentError{fmt.Errorf("%w: %s", domain.ErrExtractionFailed, truncate(r.ExtractedText, 200))}
	}
	return &port.ExtractOutput{
		Text:     r.ExtractedText,
		Provider: ProviderName,
	}, nil
}

func buildMultipart(input port.ExtractInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := input.FileName
	if name == "" {
		name = "documento.pdf"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(input.FileBytes); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
