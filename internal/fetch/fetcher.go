// Package fetch performs the one outbound HTTP request of a boot run and
// hands back the response body verbatim.
package fetch

import (
	"context"
	"fmt"
)

// Response is one completed request whose body has not been read yet.
type Response interface {
	// Text materializes the entire body as a string. May only be called once.
	Text() (string, error)
}

// Transport issues requests. It owes the caller no timeout; pass a bounded
// ctx if a hung server must not stall the run.
type Transport interface {
	Get(ctx context.Context, url string) (Response, error)
}

// Fetcher performs exactly one GET of URL per call to Fetch.
type Fetcher struct {
	Transport Transport
	URL       string
}

// Fetch issues the request and returns the full body, unmodified. No
// retries; any failure is terminal for the run.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	resp, err := f.Transport.Get(ctx, f.URL)
	if err != nil {
		return "", fmt.Errorf("couldn't download %s: %w", f.URL, err)
	}
	body, err := resp.Text()
	if err != nil {
		return "", fmt.Errorf("couldn't read body of %s: %w", f.URL, err)
	}
	return body, nil
}
