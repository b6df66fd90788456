package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	csrfCookie     = "csrf_token"
	flashCookie    = "flash"
	activityCookie = "activity"
)

// ensureCSRFToken returns the request's CSRF token, issuing a cookie when missing.
func (s *Server) ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

func validateCSRFToken(r *http.Request, token string) bool {
	c, err := r.Cookie(csrfCookie)
	if err != nil || c.Value == "" || token == "" {
		return false
	}
	return c.Value == token
}

type flash struct{ Type, Text string }

func (s *Server) setFlash(w http.ResponseWriter, typ, text string) {
	if typ == "" {
		typ = "info"
	}
	// short-lived, read by the next page render
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: url.QueryEscape(typ + "|" + text), Path: "/", MaxAge: 5})
}

// takeFlash reads the flash cookie and expires it.
func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) *flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	val, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	typ, text, ok := strings.Cut(val, "|")
	if !ok {
		return &flash{Type: "info", Text: val}
	}
	return &flash{Type: typ, Text: text}
}

// showActivity combines the config default with the visitor's cookie.
func (s *Server) showActivity(r *http.Request) bool {
	show := s.cfg.UI.ShowActivity
	if c, err := r.Cookie(activityCookie); err == nil {
		switch c.Value {
		case "off":
			show = false
		case "on":
			show = true
		}
	}
	return show
}

// safeReturn only allows local paths as redirect targets.
func safeReturn(ret string) string {
	if ret == "" || !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") {
		return "/"
	}
	return ret
}
