// Package engine holds the question-sequencing and scoring state machine shared
// by every quiz-like game mode. Transition is pure: it never touches storage,
// timers or the network, so callers apply side effects from the returned state.
package engine

import (
	"fmt"
	"math/rand"

	"rights-arcade/internal/domain"
)

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseAwaitingAnswer
	PhaseShowingFeedback
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseShowingFeedback:
		return "showing_feedback"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText renders the phase name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// AnswerRecord is what the player sees after answering: the verdict, the right
// option and the awards, plus the inputs the awards were computed from.
type AnswerRecord struct {
	Index         int    `json:"index"`
	EntityID      string `json:"entityId"`
	Selected      int    `json:"selected"`
	CorrectIndex  int    `json:"correctIndex"`
	Correct       bool   `json:"correct"`
	StreakBefore  int    `json:"streakBefore"`
	TimeRemaining int    `json:"timeRemaining"`
	Points        int    `json:"points"`
	Currency      int    `json:"currency"`
	Explanation   string `json:"explanation"`
}

// State is one session's progress through its sampled entities.
type State struct {
	Phase         Phase             `json:"phase"`
	Mode          domain.ModeID     `json:"mode"`
	Entities      []domain.Entity   `json:"-"`
	Index         int               `json:"index"`
	Countdown     int               `json:"countdown"`
	TimeRemaining int               `json:"timeRemaining"`
	Points        int               `json:"points"`
	Currency      int               `json:"currency"`
	Streak        int               `json:"streak"`
	BestStreak    int               `json:"bestStreak"`
	Correct       int               `json:"correct"`
	Wrong         int               `json:"wrong"`
	LastAnswer    *AnswerRecord     `json:"lastAnswer,omitempty"`
	History       []AnswerRecord    `json:"history,omitempty"`
	Reward        domain.RewardTier `json:"reward,omitempty"`
}

// Active reports whether the session is between start and finish.
func (s State) Active() bool {
	return s.Phase == PhaseAwaitingAnswer || s.Phase == PhaseShowingFeedback
}

// Current returns the entity being played. ok is false outside an active session.
func (s State) Current() (domain.Entity, bool) {
	if !s.Active() || s.Index < 0 || s.Index >= len(s.Entities) {
		return domain.Entity{}, false
	}
	return s.Entities[s.Index], true
}

// Event is an input to Transition.
type Event interface {
	event()
}

// Shuffler permutes n items via swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// Start samples a new session from Catalog.
type Start struct {
	Mode       domain.ModeID
	Catalog    []domain.Entity
	SampleSize int
	Countdown  int
	Shuffle    Shuffler // nil uses math/rand
}

// Answer submits the option at index Option for the current entity.
type Answer struct {
	Option int
}

// Advance moves past the feedback screen.
type Advance struct{}

// Tick is one second of the per-question countdown.
type Tick struct{}

// Abandon throws the session away.
type Abandon struct{}

func (Start) event()   {}
func (Answer) event()  {}
func (Advance) event() {}
func (Tick) event()    {}
func (Abandon) event() {}

// Transition applies e to s. On error the returned state equals s.
func Transition(s State, e Event) (State, error) {
	switch ev := e.(type) {
	case Start:
		return start(s, ev)
	case Answer:
		return answer(s, ev)
	case Advance:
		return advance(s)
	case Tick:
		return tick(s)
	case Abandon:
		if s.Phase == PhaseFinished {
			return s, domain.ErrInvalidTransition
		}
		return State{}, nil
	default:
		return s, fmt.Errorf("unknown event %T: %w", e, domain.ErrInvalidTransition)
	}
}

func start(s State, ev Start) (State, error) {
	if s.Active() {
		return s, domain.ErrInvalidTransition
	}
	if len(ev.Catalog) == 0 {
		return s, &domain.ConfigurationError{Mode: ev.Mode, Reason: "catalog is empty"}
	}
	if ev.SampleSize <= 0 {
		return s, &domain.ConfigurationError{Mode: ev.Mode, Reason: "sample size must be positive"}
	}
	for _, entity := range ev.Catalog {
		if len(entity.Options) == 0 {
			return s, &domain.ConfigurationError{Mode: ev.Mode, Reason: fmt.Sprintf("entity %q has no options", entity.ID)}
		}
		if entity.CorrectIndex < 0 || entity.CorrectIndex >= len(entity.Options) {
			return s, &domain.ConfigurationError{Mode: ev.Mode, Reason: fmt.Sprintf("entity %q has correct index out of range", entity.ID)}
		}
	}
	countdown := ev.Countdown
	if countdown < 0 {
		countdown = 0
	}
	return State{
		Phase:         PhaseAwaitingAnswer,
		Mode:          ev.Mode,
		Entities:      Sample(ev.Catalog, ev.SampleSize, ev.Shuffle),
		Countdown:     countdown,
		TimeRemaining: countdown,
	}, nil
}

func answer(s State, ev Answer) (State, error) {
	if s.Phase != PhaseAwaitingAnswer {
		return s, domain.ErrInvalidTransition
	}
	entity := s.Entities[s.Index]
	rec := AnswerRecord{
		Index:         s.Index,
		EntityID:      entity.ID,
		Selected:      ev.Option,
		CorrectIndex:  entity.CorrectIndex,
		Correct:       ev.Option == entity.CorrectIndex,
		StreakBefore:  s.Streak,
		TimeRemaining: s.TimeRemaining,
		Explanation:   entity.Explanation,
	}

	next := s
	if rec.Correct {
		rec.Points = PointsFor(s.Streak, s.TimeRemaining)
		rec.Currency = CurrencyFor(s.Streak)
		next.Points += rec.Points
		next.Currency += rec.Currency
		next.Streak++
		next.Correct++
		if next.Streak > next.BestStreak {
			next.BestStreak = next.Streak
		}
	} else {
		next.Streak = 0
		next.Wrong++
	}
	next.Phase = PhaseShowingFeedback
	next.LastAnswer = &rec
	// full slice expression so appends never write into the caller's backing array
	next.History = append(s.History[:len(s.History):len(s.History)], rec)
	return next, nil
}

func advance(s State) (State, error) {
	if s.Phase != PhaseShowingFeedback {
		return s, domain.ErrInvalidTransition
	}
	next := s
	next.LastAnswer = nil
	if s.Index+1 < len(s.Entities) {
		next.Index++
		next.TimeRemaining = s.Countdown
		next.Phase = PhaseAwaitingAnswer
		return next, nil
	}
	next.Phase = PhaseFinished
	next.TimeRemaining = 0
	next.Reward = RewardTierFor(s.Points)
	return next, nil
}

func tick(s State) (State, error) {
	if s.Phase != PhaseAwaitingAnswer || s.TimeRemaining <= 0 {
		return s, domain.ErrInvalidTransition
	}
	next := s
	next.TimeRemaining--
	return next, nil
}

// Sample returns min(size, len(catalog)) distinct entities in random order.
// The catalog itself is never reordered.
func Sample(catalog []domain.Entity, size int, shuffle Shuffler) []domain.Entity {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	pool := make([]domain.Entity, len(catalog))
	copy(pool, catalog)
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if size < len(pool) {
		pool = pool[:size]
	}
	return pool
}
