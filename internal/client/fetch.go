package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elpatron68/todo-web/internal/page"
)

// FetchPage loads the rendered list at pageURL and parses it.
func FetchPage(ctx context.Context, hc *http.Client, pageURL, username, password string) (*page.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if username != "" {
		req.SetBasicAuth(username, password)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", pageURL, resp.Status)
	}
	return page.Parse(resp.Body)
}
