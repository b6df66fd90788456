package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/elpatron68/todo-web/internal/auth"
	"github.com/elpatron68/todo-web/internal/config"
	applog "github.com/elpatron68/todo-web/internal/log"
	"github.com/elpatron68/todo-web/internal/store"
	"github.com/elpatron68/todo-web/internal/ui"
)

type Server struct {
	userStore auth.UserStore
	store     *store.Store
	cfg       *config.Config
	router    *mux.Router
	activity  *ui.ActivityStore
	listTpl   *template.Template
	editTpl   *template.Template
	now       func() time.Time
}

const faviconSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
  <rect rx="12" width="64" height="64" fill="#0366d6"/>
  <path d="M26 44L14 32l4-4 8 8 20-20 4 4-24 24z" fill="#fff"/>
</svg>`

func NewServer(userStore auth.UserStore, st *store.Store) *Server {
	return NewServerWithConfig(userStore, st, config.Default())
}

func NewServerWithConfig(userStore auth.UserStore, st *store.Store, cfg *config.Config) *Server {
	s := &Server{
		userStore: userStore,
		store:     st,
		cfg:       cfg,
		router:    mux.NewRouter(),
		activity:  ui.NewActivityStore(cfg.UI.ActivityMax),
		listTpl:   parsePage("index.html"),
		editTpl:   parsePage("edit.html"),
		now:       time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestLogger)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/favicon.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		_, _ = w.Write([]byte(faviconSVG))
	}).Methods(http.MethodGet)
	r.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/favicon.svg", http.StatusMovedPermanently)
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/add", s.handleAdd).Methods(http.MethodPost)
	r.HandleFunc("/complete", s.handleComplete).Methods(http.MethodPost)
	r.HandleFunc("/delete", s.handleDelete).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/edit", s.handleEditForm).Methods(http.MethodGet)
	r.HandleFunc("/edit", s.handleEditSubmit).Methods(http.MethodPost)
	r.HandleFunc("/__activity", s.handleActivityToggle).Methods(http.MethodGet)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS()))))
}

// requestLogger tags each request with an id and logs it at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()[:8]
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
		applog.Debugf("%s %s %s (%s)", id, r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

func (s *Server) Handler() http.Handler {
	// Basic Auth für alle außer /healthz
	protected := auth.BasicAuthMiddleware(s.userStore, "todo-web", s.router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			s.router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})
}
