package assets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// HTTPLoader fetches templates from {baseURL}/{name}.
// Any non-2xx response is treated as not found.
type HTTPLoader struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPLoader creates an HTTPLoader. A nil client uses a client without
// a timeout; requests are bounded only by the caller's context.
func NewHTTPLoader(baseURL string, client *http.Client) (*HTTPLoader, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q is not an http(s) URL", ErrInvalidLocation, baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidLocation, baseURL)
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPLoader{base: u, client: client}, nil
}

// URL returns the address a template name is fetched from.
func (h *HTTPLoader) URL(name string) string {
	u := *h.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + name
	u.RawPath = ""
	return u.String()
}

// LoadTemplate performs GET {baseURL}/{name}.
func (h *HTTPLoader) LoadTemplate(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateTemplateName(name); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL(name), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %q (HTTP %d)", ErrTemplateNotFound, name, resp.StatusCode)
	}
	return readLimited(resp.Body, name)
}

// Compile-time interface check.
var _ TemplateLoader = (*HTTPLoader)(nil)
