package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elpatron68/todo-web/internal/auth"
	"github.com/elpatron68/todo-web/internal/config"
	applog "github.com/elpatron68/todo-web/internal/log"
	"github.com/elpatron68/todo-web/internal/page"
	"github.com/elpatron68/todo-web/internal/store"
	"github.com/elpatron68/todo-web/internal/todo"
)

func init() { applog.SetOutput(io.Discard) }

func newTestServer(t *testing.T, users ...string) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	us := auth.NewInMemoryUserStore()
	for _, u := range users {
		if err := us.AddUserPlain(u, u); err != nil {
			t.Fatalf("user: %v", err)
		}
	}
	s := NewServerWithConfig(us, st, config.Default())
	s.now = func() time.Time { return time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC) }
	return s, st
}

func seed(t *testing.T, st *store.Store, tasks ...string) []todo.Todo {
	t.Helper()
	out := make([]todo.Todo, 0, len(tasks))
	for _, task := range tasks {
		added, err := st.Add(context.Background(), todo.Todo{Task: task})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		out = append(out, added)
	}
	return out
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func postForm(target string, form url.Values, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: csrfCookie, Value: token})
	}
	return req
}

func TestHealthzBypassesAuth(t *testing.T) {
	s, _ := newTestServer(t, "admin")
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response %d %q", rr.Code, rr.Body.String())
	}
}

func TestAuthRequiredWhenUsersConfigured(t *testing.T) {
	s, _ := newTestServer(t, "admin")
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "admin")
	rr = serve(s, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with credentials, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Signed in as admin") {
		t.Fatalf("expected username in page")
	}
}

func TestIndexRendersRows(t *testing.T) {
	s, st := newTestServer(t)
	todos := seed(t, st, "**bold** task", "plain")
	if _, err := st.ToggleCompleted(context.Background(), todos[0].ID); err != nil {
		t.Fatal(err)
	}
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<strong>bold</strong> task") {
		t.Fatalf("markdown not rendered: %s", body)
	}
	if !strings.Contains(body, `/static/js/scripts.js`) {
		t.Fatalf("script tag missing")
	}
	var hasCSRF bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == csrfCookie && c.Value != "" {
			hasCSRF = true
		}
	}
	if !hasCSRF {
		t.Fatalf("expected csrf cookie on page render")
	}

	doc, err := page.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	rows := doc.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Checked || rows[1].Checked {
		t.Fatalf("checkbox state not rendered: %+v", rows)
	}
	for _, r := range rows {
		if !r.Visible {
			t.Fatalf("all rows visible by default")
		}
	}
}

func TestIndexServerSideStatus(t *testing.T) {
	s, st := newTestServer(t)
	todos := seed(t, st, "done one", "open one")
	if _, err := st.ToggleCompleted(context.Background(), todos[0].ID); err != nil {
		t.Fatal(err)
	}
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/?status=pending", nil))
	doc, err := page.Parse(rr.Body)
	if err != nil {
		t.Fatal(err)
	}
	visible := doc.Visible()
	if len(visible) != 1 || visible[0].Text != "open one" {
		t.Fatalf("expected only the open task visible, got %+v", visible)
	}
	// every row is still rendered so the client filter can show it again
	if err := doc.Filter("all"); err != nil {
		t.Fatal(err)
	}
	if len(doc.Visible()) != 2 {
		t.Fatalf("client-side all should reveal hidden rows")
	}
}

func TestIndexUnknownStatusWarns(t *testing.T) {
	s, st := newTestServer(t)
	seed(t, st, "x")
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/?status=archived", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Unknown filter") {
		t.Fatalf("expected warning for unknown status")
	}
}

func TestAddRequiresCSRF(t *testing.T) {
	s, st := newTestServer(t)
	rr := serve(s, postForm("/add", url.Values{"task": {"x"}, "csrf_token": {"tok"}}, ""))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	list, _ := st.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("task must not be added without csrf cookie")
	}
}

func TestAddCreatesTodo(t *testing.T) {
	s, st := newTestServer(t)
	form := url.Values{"task": {"buy milk"}, "due_date": {"2025-05-01"}, "category": {"home"}, "csrf_token": {"tok"}}
	rr := serve(s, postForm("/add", form, "tok"))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	list, err := st.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one todo, got %v %v", list, err)
	}
	if list[0].Task != "buy milk" || list[0].Category != "home" || list[0].DueString() != "2025-05-01" {
		t.Fatalf("unexpected todo %+v", list[0])
	}

	rr = serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rr.Body.String(), "due overdue") {
		t.Fatalf("past due date should be marked overdue")
	}
	if !strings.Contains(rr.Body.String(), "add #1") {
		t.Fatalf("activity footer should list the add")
	}
}

func TestAddValidation(t *testing.T) {
	s, _ := newTestServer(t)
	rr := serve(s, postForm("/add", url.Values{"task": {"  "}, "csrf_token": {"tok"}}, "tok"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty task, got %d", rr.Code)
	}
	rr = serve(s, postForm("/add", url.Values{"task": {"x"}, "due_date": {"01.05.2025"}, "csrf_token": {"tok"}}, "tok"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rr.Code)
	}
}

func TestCompleteToggles(t *testing.T) {
	s, st := newTestServer(t)
	todos := seed(t, st, "toggle")
	rr := serve(s, httptest.NewRequest(http.MethodPost, "/complete?id=1", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	got, _ := st.Get(context.Background(), todos[0].ID)
	if !got.Completed {
		t.Fatalf("expected completed")
	}

	cases := []struct {
		method, target string
		want           int
	}{
		{http.MethodGet, "/complete?id=1", http.StatusMethodNotAllowed},
		{http.MethodPost, "/complete", http.StatusBadRequest},
		{http.MethodPost, "/complete?id=abc", http.StatusBadRequest},
		{http.MethodPost, "/complete?id=99", http.StatusNotFound},
	}
	for _, c := range cases {
		rr := serve(s, httptest.NewRequest(c.method, c.target, nil))
		if rr.Code != c.want {
			t.Fatalf("%s %s: expected %d, got %d", c.method, c.target, c.want, rr.Code)
		}
	}
}

func TestDelete(t *testing.T) {
	s, st := newTestServer(t)
	seed(t, st, "a", "b")
	rr := serve(s, httptest.NewRequest(http.MethodPost, "/delete?id=1", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	rr = serve(s, httptest.NewRequest(http.MethodGet, "/delete?id=2", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for link-style delete, got %d", rr.Code)
	}
	list, _ := st.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
	rr = serve(s, httptest.NewRequest(http.MethodPost, "/delete?id=1", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestEdit(t *testing.T) {
	s, st := newTestServer(t)
	seed(t, st, "old text")
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/edit?id=1", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `value="old text"`) {
		t.Fatalf("edit form not rendered: %d", rr.Code)
	}
	rr = serve(s, httptest.NewRequest(http.MethodGet, "/edit?id=7", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	form := url.Values{"id": {"1"}, "task": {"new text"}, "category": {"work"}, "due_date": {""}, "csrf_token": {"tok"}}
	rr = serve(s, postForm("/edit", form, "tok"))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	got, _ := st.Get(context.Background(), 1)
	if got.Task != "new text" || got.Category != "work" {
		t.Fatalf("edit not saved: %+v", got)
	}

	rr = serve(s, postForm("/edit", url.Values{"id": {"1"}, "task": {"x"}}, ""))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/edit?id=1" {
		t.Fatalf("expected redirect back to form without csrf, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestFlashShownOnce(t *testing.T) {
	s, st := newTestServer(t)
	seed(t, st, "a")
	rr := serve(s, httptest.NewRequest(http.MethodPost, "/delete?id=1", nil))
	var flashC *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == flashCookie {
			flashC = c
		}
	}
	if flashC == nil {
		t.Fatalf("expected flash cookie")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(flashC)
	rr = serve(s, req)
	if !strings.Contains(rr.Body.String(), "Task #1 deleted") {
		t.Fatalf("flash text missing")
	}
	var expired bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Fatalf("flash cookie should be expired after display")
	}
}

func TestActivityToggleCookie(t *testing.T) {
	s, _ := newTestServer(t)
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/__activity?show=0&return=/?status=pending", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/?status=pending" {
		t.Fatalf("unexpected redirect %d %q", rr.Code, rr.Header().Get("Location"))
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: activityCookie, Value: "off"})
	rr = serve(s, req)
	if !strings.Contains(rr.Body.String(), "Show recent activity") {
		t.Fatalf("footer should be collapsed")
	}
	rr = serve(s, httptest.NewRequest(http.MethodGet, "/__activity?show=1&return=//evil.example", nil))
	if rr.Header().Get("Location") != "/" {
		t.Fatalf("foreign return target must be rejected, got %q", rr.Header().Get("Location"))
	}
}

func TestStaticScriptServed(t *testing.T) {
	s, _ := newTestServer(t)
	rr := serve(s, httptest.NewRequest(http.MethodGet, "/static/js/scripts.js", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "addEventListener('DOMContentLoaded'") || !strings.Contains(body, "response.redirected") {
		t.Fatalf("unexpected script body")
	}
}
