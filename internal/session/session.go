// Package session keeps per-browser state in memory: the current profile,
// the latest prediction, the daily task note and the chat transcript.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/studybuddy/internal/model"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 12 * time.Hour

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session is the state owned by one interactive session.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	lastSeen   time.Time
	profile    model.StudentProfile
	score      *float64
	dailyTask  string
	transcript []model.ChatTurn
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	ID         string
	Profile    model.StudentProfile
	Score      *float64
	DailyTask  string
	Transcript []model.ChatTurn
}

// SetProfile replaces the session's profile.
func (s *Session) SetProfile(p model.StudentProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// RecordPrediction stores the latest clamped score, overwriting the previous one.
func (s *Session) RecordPrediction(score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score = &score
}

// SetDailyTask stores the free-form plan note for today.
func (s *Session) SetDailyTask(task string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyTask = task
}

// AppendTurn adds a message to the transcript.
func (s *Session) AppendTurn(role model.Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, model.ChatTurn{Role: role, Text: text, At: time.Now()})
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:         s.ID,
		Profile:    s.profile,
		DailyTask:  s.dailyTask,
		Transcript: append([]model.ChatTurn(nil), s.transcript...),
	}
	if s.score != nil {
		v := *s.score
		snap.Score = &v
	}
	return snap
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager owns all live sessions.
type Manager struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager that expires sessions idle for longer than ttl.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with the default profile.
func (m *Manager) Create() *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastSeen:  now,
		profile:   model.DefaultProfile(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	slog.Debug("created session", "id", s.ID)
	return s
}

// Get returns a live session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if now.Sub(s.idleSince()) > m.ttl {
		m.Delete(id)
		return nil, ErrNotFound
	}
	s.touch(now)
	return s, nil
}

// Delete ends a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Cleanup removes all expired sessions and returns how many were removed.
func (m *Manager) Cleanup() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
