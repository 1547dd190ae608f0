package app_test

import (
	"fmt"
	"testing"
	"time"

	"rights-arcade/internal/app"
	"rights-arcade/internal/domain"
	"rights-arcade/internal/engine"
	"rights-arcade/internal/infra/memory"
)

const (
	quizMode  domain.ModeID = "quiz"
	timedMode domain.ModeID = "timed"
	boardMode domain.ModeID = "board"
)

type manualTicker struct{ ch chan time.Time }

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}

type fixture struct {
	kv       *memory.KVStore
	sessions *memory.SessionStore
	progress *app.ProgressStore
	games    *app.GameService
	shell    *app.Shell
	ticks    chan time.Time
}

var keepOrder engine.Shuffler = func(int, func(i, j int)) {}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	modes := []domain.ModeSpec{
		{ID: quizMode, Title: "Quiz", Kind: domain.KindQuiz, SampleSize: 5, Countdown: 30},
		{ID: timedMode, Title: "Timed", Kind: domain.KindQuiz, SampleSize: 1, Countdown: 2},
		{ID: boardMode, Title: "Board", Kind: domain.KindMatching},
	}
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
		quizMode:  {Mode: quizMode, Entities: entities(7)},
		timedMode: {Mode: timedMode, Entities: entities(3)},
		boardMode: {Mode: boardMode, Pairs: []domain.Pair{
			{ID: "p1", Scenario: "A stranger asks for your address", Solution: "Right to safety"},
			{ID: "p2", Scenario: "You are kept out of school", Solution: "Right to education"},
			{ID: "p3", Scenario: "Nobody listens to you", Solution: "Right to be heard"},
		}},
	}), time.Minute)

	f := &fixture{
		kv:       memory.NewKVStore(),
		sessions: memory.NewSessionStore(),
		ticks:    make(chan time.Time),
	}
	ids := make([]domain.ModeID, len(modes))
	for i, m := range modes {
		ids[i] = m.ID
	}
	f.progress = app.NewProgressStore(f.kv, ids)
	f.games = app.NewGameService(f.sessions, catalogs, f.progress, modes, time.Second,
		app.WithShuffler(keepOrder),
		app.WithTicker(func(time.Duration) app.Ticker { return &manualTicker{ch: f.ticks} }),
	)
	f.shell = app.NewShell(f.games, f.progress)
	return f
}

// entities builds n questions whose first option is always right.
func entities(n int) []domain.Entity {
	out := make([]domain.Entity, n)
	for i := range out {
		out[i] = domain.Entity{
			ID:           fmt.Sprintf("e%d", i+1),
			Kind:         domain.KindQuiz,
			Prompt:       fmt.Sprintf("Question %d", i+1),
			Options:      []string{"right", "wrong"},
			CorrectIndex: 0,
			Explanation:  "because",
			Detail:       "detail",
		}
	}
	return out
}
