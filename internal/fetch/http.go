package fetch

import (
	"context"
	"io"
	"net/http"
)

// HTTPTransport is the net/http-backed Transport. On the device the standard
// library's client runs over the board's netdev stack; on a host build it
// uses the OS network.
type HTTPTransport struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (t *HTTPTransport) Get(ctx context.Context, url string) (Response, error) {
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	return &httpResponse{resp: resp}, nil
}

type httpResponse struct {
	resp *http.Response
}

// Text drains and closes the body. Non-2xx responses still yield their body,
// matching plain GET semantics.
func (r *httpResponse) Text() (string, error) {
	defer r.resp.Body.Close()
	b, err := io.ReadAll(r.resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
