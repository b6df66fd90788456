package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/elpatron68/todo-web/internal/config"
)

type UserStore interface {
	HasUser(username string) bool
	CheckPassword(username, plain string) bool
	// Empty is true when no login is configured; the UI is open then.
	Empty() bool
}

type InMemoryUserStore struct {
	mu sync.RWMutex
	// username -> bcrypt hash
	hashes map[string][]byte
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{hashes: make(map[string][]byte)}
}

// FromConfig builds a store from the configured users, skipping incomplete entries.
func FromConfig(cfg *config.Config) (*InMemoryUserStore, error) {
	s := NewInMemoryUserStore()
	for _, u := range cfg.Users {
		if u.Username == "" || u.PasswordHash == "" {
			continue
		}
		if err := s.AddUserHash(u.Username, []byte(u.PasswordHash)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *InMemoryUserStore) HasUser(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hashes[username]
	return ok
}

func (s *InMemoryUserStore) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hashes) == 0
}

func (s *InMemoryUserStore) AddUserPlain(username, password string) error {
	if username == "" {
		return errors.New("username empty")
	}
	if password == "" {
		return errors.New("password empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.hashes[username] = hash
	s.mu.Unlock()
	return nil
}

func (s *InMemoryUserStore) AddUserHash(username string, bcryptHash []byte) error {
	if username == "" {
		return errors.New("username empty")
	}
	if len(bcryptHash) == 0 {
		return errors.New("hash empty")
	}
	if _, err := bcrypt.Cost(bcryptHash); err != nil {
		return err
	}
	s.mu.Lock()
	s.hashes[username] = bcryptHash
	s.mu.Unlock()
	return nil
}

func (s *InMemoryUserStore) CheckPassword(username, plain string) bool {
	s.mu.RLock()
	hash, ok := s.hashes[username]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}

// BasicAuthMiddleware requires valid credentials unless the store is empty.
func BasicAuthMiddleware(store UserStore, realm string, next http.Handler) http.Handler {
	if realm == "" {
		realm = "Restricted"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if store.Empty() {
			next.ServeHTTP(w, r)
			return
		}
		username, password, ok := r.BasicAuth()
		if !ok || !store.HasUser(username) || !store.CheckPassword(username, password) {
			unauthorized(w, realm)
			return
		}
		// attach username to context for later use
		ctx := context.WithValue(r.Context(), userKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, realm string) {
	w.Header().Set("WWW-Authenticate", "Basic realm=\""+realm+"\"")
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

type contextKey string

const userKey contextKey = "auth.user"

func UsernameFromRequest(r *http.Request) (string, bool) {
	v := r.Context().Value(userKey)
	s, ok := v.(string)
	return s, ok
}
