package api

import (
	"sync"

	"github.com/banshee-data/motion.report/internal/session"
)

// sessionStore keeps the newest reports, evicting the oldest beyond limit.
type sessionStore struct {
	mu      sync.RWMutex
	limit   int
	order   []string // oldest first
	reports map[string]*session.Report
}

func newSessionStore(limit int) *sessionStore {
	if limit < 1 {
		limit = 1
	}
	return &sessionStore{limit: limit, reports: make(map[string]*session.Report)}
}

func (s *sessionStore) put(rep *session.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[rep.ID]; !ok {
		s.order = append(s.order, rep.ID)
	}
	s.reports[rep.ID] = rep
	for len(s.order) > s.limit {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *sessionStore) get(id string) (*session.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.reports[id]
	return rep, ok
}

// list returns reports newest first.
func (s *sessionStore) list() []*session.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*session.Report, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.reports[s.order[i]])
	}
	return out
}
