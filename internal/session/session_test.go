package session

import (
	"errors"
	"testing"
	"time"

	"github.com/pavelanni/studybuddy/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	m := NewManager(ttl)
	m.now = clock.Now
	return m, clock
}

func TestSessionLifecycle(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)

	s := m.Create()
	if s.ID == "" {
		t.Fatal("expected session ID")
	}
	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	snap := s.Snapshot()
	if snap.Score != nil {
		t.Error("new session should have no prediction")
	}
	if snap.Profile != model.DefaultProfile() {
		t.Errorf("new session profile = %+v, want default", snap.Profile)
	}

	m.Delete(s.ID)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Delete, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected no sessions, got %d", m.Len())
	}
}

func TestSessionState(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	s := m.Create()

	p := model.StudentProfile{StudyHours: 4, Attendance: 90, MentalHealth: 7, SleepHours: 7}
	s.SetProfile(p)
	s.RecordPrediction(61.5)
	s.RecordPrediction(72.25)
	s.SetDailyTask("Revise chapter 3")
	s.AppendTurn(model.RoleUser, "hello")
	s.AppendTurn(model.RoleAssistant, "hi there")

	snap := s.Snapshot()
	if snap.Profile != p {
		t.Errorf("Profile = %+v, want %+v", snap.Profile, p)
	}
	if snap.Score == nil || *snap.Score != 72.25 {
		t.Errorf("Score = %v, want latest prediction 72.25", snap.Score)
	}
	if snap.DailyTask != "Revise chapter 3" {
		t.Errorf("DailyTask = %q", snap.DailyTask)
	}
	if len(snap.Transcript) != 2 || snap.Transcript[0].Role != model.RoleUser || snap.Transcript[1].Text != "hi there" {
		t.Errorf("unexpected transcript %+v", snap.Transcript)
	}

	// Snapshots are copies.
	snap.Transcript[0].Text = "changed"
	*snap.Score = 0
	again := s.Snapshot()
	if again.Transcript[0].Text != "hello" || *again.Score != 72.25 {
		t.Error("snapshot mutation leaked into the session")
	}
}

func TestTranscriptOnlyGrows(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	s := m.Create()

	for i, role := range []model.Role{model.RoleUser, model.RoleAssistant, model.RoleUser, model.RoleAssistant} {
		s.AppendTurn(role, "turn")
		if n := len(s.Snapshot().Transcript); n != i+1 {
			t.Fatalf("after %d appends transcript has %d turns", i+1, n)
		}
	}

	// Only ending the session discards the transcript.
	m.Delete(s.ID)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: %v, want ErrNotFound", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	m, clock := newTestManager(t, time.Hour)
	active := m.Create()
	idle := m.Create()

	clock.Advance(40 * time.Minute)
	if _, err := m.Get(active.ID); err != nil {
		t.Fatalf("Get active: %v", err)
	}

	clock.Advance(30 * time.Minute)
	if removed := m.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d sessions, want 1", removed)
	}
	if _, err := m.Get(idle.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected idle session to be gone, got %v", err)
	}
	if _, err := m.Get(active.ID); err != nil {
		t.Errorf("active session should survive: %v", err)
	}

	clock.Advance(2 * time.Hour)
	if _, err := m.Get(active.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired session on Get, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expired session should be removed on Get, %d left", m.Len())
	}
}

func TestGetUnknown(t *testing.T) {
	m := NewManager(0)
	if m.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want default", m.ttl)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
