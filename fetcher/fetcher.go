package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"

	"github.com/joeychilson/pdftools/config"
	urlutil "github.com/joeychilson/pdftools/url"
)

// Response represents a downloaded resource.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher downloads resources using the provided configuration.
type Fetcher struct {
	config config.FetchConfig
	client *http.Client
}

// ssrfProtectedTransport wraps a transport with SSRF protection.
type ssrfProtectedTransport struct {
	base http.RoundTripper
}

// RoundTrip validates that the destination IP is not private/internal before making the request.
func (t *ssrfProtectedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := urlutil.ValidateNotPrivate(req.URL.Host); err != nil {
		return nil, err
	}

	return t.base.RoundTrip(req)
}

// New creates a new Fetcher with the given configuration.
func New(cfg config.FetchConfig) *Fetcher {
	maxRedirects := cfg.GetMaxRedirects()

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.SkipTLSVerify(), //nolint:gosec // opt-out is a config option
	}

	var transport http.RoundTripper = base
	if cfg.EnableSSRFProtection {
		transport = &ssrfProtectedTransport{base: base}
	}

	client := &http.Client{
		Timeout:   cfg.GetTimeout(),
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{
		config: cfg,
		client: client,
	}
}

// Fetch retrieves the body at the given URL. Any status outside 2xx is an error.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Response, error) {
	parsed, err := urlutil.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range f.config.GetHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	maxBodySize := f.config.GetMaxBodySize()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, fmt.Errorf("response body exceeds maximum size of %d bytes", maxBodySize)
	}

	return &Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
