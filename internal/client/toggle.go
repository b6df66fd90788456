// Package client talks to a running todo-web server the way the list page
// does: it toggles completion and follows the redirect the server answers
// with.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	applog "github.com/elpatron68/todo-web/internal/log"
)

// CompletePath is the endpoint that toggles a todo.
const CompletePath = "/complete"

// Navigator moves the current browsing context to another URL.
type Navigator interface {
	Navigate(url string)
}

// Result describes what a toggle did. It is informational: failures are
// logged, never returned as errors.
type Result struct {
	RequestURL string
	StatusCode int
	Redirected bool
	Location   string
	Err        error
}

type Toggler struct {
	BaseURL    string
	HTTPClient *http.Client
	Navigator  Navigator

	// Optional basic auth credentials.
	Username string
	Password string
}

func NewToggler(baseURL string, nav Navigator) *Toggler {
	return &Toggler{BaseURL: baseURL, HTTPClient: http.DefaultClient, Navigator: nav}
}

// CompleteURL builds <base>/complete?id=<id> with the id query-escaped.
func CompleteURL(baseURL string, id any) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + CompletePath)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	q := url.Values{}
	q.Set("id", fmt.Sprint(id))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Toggle sends one POST for id. When the server redirected, the Navigator is
// sent to the final URL. Everything else only gets logged.
func (t *Toggler) Toggle(ctx context.Context, id any) Result {
	target, err := CompleteURL(t.BaseURL, id)
	if err != nil {
		applog.Errorf("toggle %v: %v", id, err)
		return Result{Err: err}
	}
	res := Result{RequestURL: target}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		applog.Errorf("toggle %v: %v", id, err)
		res.Err = err
		return res
	}
	if t.Username != "" {
		req.SetBasicAuth(t.Username, t.Password)
	}

	hc := t.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		applog.Errorf("toggle %v: %v", id, err)
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.StatusCode = resp.StatusCode
	final := resp.Request.URL.String()
	if final != target {
		res.Redirected = true
		res.Location = final
		if t.Navigator != nil {
			t.Navigator.Navigate(final)
		}
		applog.Debugf("toggle %v: redirected to %s", id, final)
		return res
	}
	if resp.StatusCode >= 400 {
		applog.Warnf("toggle %v: server answered %s", id, resp.Status)
	} else {
		applog.Debugf("toggle %v: %s without redirect", id, resp.Status)
	}
	return res
}

// Go runs Toggle in the background; done (optional) receives the result.
func (t *Toggler) Go(ctx context.Context, id any, done func(Result)) {
	go func() {
		res := t.Toggle(ctx, id)
		if done != nil {
			done(res)
		}
	}()
}

// Location is a Navigator that records where it was sent. The first
// navigation unloads the "page"; later ones are counted but ignored.
type Location struct {
	mu       sync.Mutex
	href     string
	count    int
	attempts int
}

func NewLocation(href string) *Location { return &Location{href: href} }

func (l *Location) Navigate(href string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts++
	if l.count > 0 {
		return
	}
	l.href = href
	l.count++
}

func (l *Location) Href() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.href
}

// Navigations is the number of effective navigations (0 or 1).
func (l *Location) Navigations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Attempts counts every Navigate call, including ignored ones.
func (l *Location) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}
