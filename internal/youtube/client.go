package youtube

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ytget/markitdown-app/internal/proxy"
)

// Client defaults
const (
	DefaultHTTPTimeout = 30 * time.Second
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// NewHTTPClient builds the client shared by the metadata and transcript
// lookups. The proxy of each request is taken from its context, see
// proxy.NewContext.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{
		Transport: newCompressionTransport(proxy.NewSwitch()),
		Timeout:   timeout,
	}
}

// HTTPError is a non-2xx response from the video service
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// get issues a GET request and returns the response when its status is 2xx
func get(ctx context.Context, client *http.Client, rawURL, language string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if language != "" {
		req.Header.Set("Accept-Language", language)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &HTTPError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
