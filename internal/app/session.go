package app

import (
	"context"
	"sync"
	"time"

	"rights-arcade/internal/domain"
	"rights-arcade/internal/engine"
)

// QuestionView is the entity as the player sees it. The correct index stays
// hidden until the answer is in; Detail, Reference and Links are revealed with the feedback.
type QuestionView struct {
	ID        string            `json:"id"`
	Kind      domain.Kind       `json:"kind"`
	Prompt    string            `json:"prompt"`
	Options   []string          `json:"options"`
	Detail    string            `json:"detail,omitempty"`
	Reference *domain.Reference `json:"reference,omitempty"`
	Links     []domain.Link     `json:"links,omitempty"`
}

// SessionView is the snapshot pushed to clients after every transition.
type SessionView struct {
	ID           string              `json:"sessionId"`
	Profile      string              `json:"profileId"`
	Mode         domain.ModeID       `json:"mode"`
	Kind         domain.Kind         `json:"kind"`
	Total        int                 `json:"total"`
	State        engine.State        `json:"state"`
	Question     *QuestionView       `json:"question,omitempty"`
	Board        *engine.Board       `json:"board,omitempty"`
	LastMatch    *engine.MatchResult `json:"lastMatch,omitempty"`
	Achievements []string            `json:"achievements,omitempty"`
	Finished     bool                `json:"finished"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// Session hosts one running game of one profile.
type Session struct {
	id      string
	profile string
	spec    domain.ModeSpec
	now     func() time.Time

	mu           sync.Mutex
	state        engine.State
	board        *engine.Board
	lastMatch    *engine.MatchResult
	achievements []string
	stopTimer    context.CancelFunc
	subscribers  map[chan SessionView]struct{}
	discarded    bool
	updatedAt    time.Time
}

func newSession(id, profile string, spec domain.ModeSpec, now func() time.Time) *Session {
	return &Session{
		id:          id,
		profile:     profile,
		spec:        spec,
		now:         now,
		subscribers: make(map[chan SessionView]struct{}),
		updatedAt:   now(),
	}
}

// ID is the session identifier.
func (s *Session) ID() string { return s.id }

// Profile is the owning profile.
func (s *Session) Profile() string { return s.profile }

// Mode is the mode being played.
func (s *Session) Mode() domain.ModeID { return s.spec.ID }

// Snapshot returns the current view.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) finishedLocked() bool {
	if s.board != nil {
		return s.board.Complete()
	}
	return s.state.Phase == engine.PhaseFinished
}

func (s *Session) viewLocked() SessionView {
	view := SessionView{
		ID:           s.id,
		Profile:      s.profile,
		Mode:         s.spec.ID,
		Kind:         s.spec.Kind,
		Total:        len(s.state.Entities),
		State:        s.state,
		LastMatch:    s.lastMatch,
		Achievements: s.achievements,
		Finished:     s.finishedLocked(),
		UpdatedAt:    s.updatedAt,
	}
	if s.board != nil {
		board := *s.board
		view.Board = &board
		view.Total = len(board.Scenarios)
	}
	if entity, ok := s.state.Current(); ok {
		q := &QuestionView{
			ID:      entity.ID,
			Kind:    entity.Kind,
			Prompt:  entity.Prompt,
			Options: entity.Options,
		}
		if s.state.Phase == engine.PhaseShowingFeedback {
			q.Detail = entity.Detail
			q.Reference = entity.Reference
			q.Links = entity.Links
		}
		view.Question = q
	}
	return view
}

func (s *Session) touchLocked() {
	s.updatedAt = s.now()
}

// subscribe registers a channel and queues the current view on it. The send
// happens under mu so no broadcast or close can slip in before it.
func (s *Session) subscribe() (<-chan SessionView, func(), error) {
	ch := make(chan SessionView, 8)

	s.mu.Lock()
	if s.discarded {
		s.mu.Unlock()
		return nil, nil, domain.ErrSessionNotFound
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.viewLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *Session) broadcastLocked() SessionView {
	view := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// drop the oldest update so a slow reader never blocks the game
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (s *Session) closeSubscribersLocked() {
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) stopTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// TimerRunning reports whether a countdown goroutine is attached.
func (s *Session) TimerRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopTimer != nil
}
