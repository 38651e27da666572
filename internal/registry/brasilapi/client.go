// Package brasilapi resolves CNPJs to company names through a BrasilAPI
// compatible endpoint: GET {base}/cnpj/v1/{cnpj}.
package brasilapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"cigfip/internal/config"
	"cigfip/internal/domain"
)

// Client implements port.CompanyRegistry. Resolved names and definitive
// misses are cached for the lifetime of the process.
type Client struct {
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client

	mu    sync.RWMutex
	cache map[string]string
}

// New creates a registry client from config.
func New(cfg *config.RegistryConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: 500 * time.Millisecond,
		client:     &http.Client{Timeout: timeout},
		cache:      make(map[string]string),
	}
}

type companyResponse struct {
	CNPJ        string `json:"cnpj"`
	LegalName   string `json:"razao_social"`
	TradingName string `json:"nome_fantasia"`
}

var errNotRetryable = errors.New("not retryable")

// LookupName returns the company's legal name, or its trading name when the
// legal name is blank. Unknown CNPJs return domain.ErrNotFound.
func (c *Client) LookupName(ctx context.Context, cnpj string) (string, error) {
	if len(cnpj) != 14 {
		return "", fmt.Errorf("%w: cnpj must have 14 digits", domain.ErrNotFound)
	}

	c.mu.RLock()
	name, cached := c.cache[cnpj]
	c.mu.RUnlock()
	if cached {
		if name == "" {
			return "", domain.ErrNotFound
		}
		return name, nil
	}

	attempts := c.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	err := retry.Do(
		func() error {
			n, err := c.fetch(ctx, cnpj)
			if err != nil {
				return err
			}
			name = n
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, errNotRetryable) && !errors.Is(err, domain.ErrNotFound)
		}),
	)
	if errors.Is(err, domain.ErrNotFound) {
		c.store(cnpj, "")
		return "", domain.ErrNotFound
	}
	if err != nil {
		log.Printf("brasilapi.LookupName: lookup of %s failed: %v", cnpj, err)
		return "", err
	}

	c.store(cnpj, name)
	return name, nil
}

func (c *Client) store(cnpj, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[cnpj] = name
}

func (c *Client) fetch(ctx context.Context, cnpj string) (string, error) {
	url := fmt.Sprintf("%s/cnpj/v1/%s", c.baseURL, cnpj)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w: %w", errNotRetryable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling registry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", domain.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("registry error (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("registry error (status %d): %w", resp.StatusCode, errNotRetryable)
	}

	var company companyResponse
	if err := json.Unmarshal(body, &company); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w: %w", errNotRetryable, err)
	}
	name := strings.TrimSpace(company.LegalName)
	if name == "" {
		name = strings.TrimSpace(company.TradingName)
	}
	if name == "" {
		return "", domain.ErrNotFound
	}
	return name, nil
}
