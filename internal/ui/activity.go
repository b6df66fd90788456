package ui

import (
	"strings"
	"sync"
	"time"
)

type ActivityEntry struct {
	When   time.Time
	Action string
	Detail string
}

// ActivityStore keeps the most recent actions per user, oldest dropped first.
type ActivityStore struct {
	mu     sync.Mutex
	byUser map[string][]ActivityEntry
	max    int
	now    func() time.Time
}

func NewActivityStore(max int) *ActivityStore {
	if max <= 0 {
		max = 200
	}
	return &ActivityStore{byUser: make(map[string][]ActivityEntry), max: max, now: time.Now}
}

func (s *ActivityStore) SetMax(max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max <= 0 {
		return
	}
	s.max = max
	for u, buf := range s.byUser {
		if len(buf) > max {
			s.byUser[u] = buf[len(buf)-max:]
		}
	}
}

func (s *ActivityStore) Append(username, action string, details ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := s.byUser[username]
	buf = append(buf, ActivityEntry{When: s.now(), Action: action, Detail: JoinDetails(details)})
	if len(buf) > s.max {
		// drop oldest
		buf = buf[len(buf)-s.max:]
	}
	s.byUser[username] = buf
}

// List returns the last n entries in chronological order; n <= 0 means all.
func (s *ActivityStore) List(username string, n int) []ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := s.byUser[username]
	if n <= 0 || n > len(buf) {
		n = len(buf)
	}
	out := make([]ActivityEntry, n)
	copy(out, buf[len(buf)-n:])
	return out
}

func (s *ActivityStore) Len(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser[username])
}

func JoinDetails(details []string) string {
	parts := details[:0:0]
	for _, d := range details {
		if d = strings.TrimSpace(d); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " · ")
}
