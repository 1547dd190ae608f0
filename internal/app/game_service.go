package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rights-arcade/internal/domain"
	"rights-arcade/internal/engine"
)

// CompletionHook is told about every finished game.
type CompletionHook func(ctx context.Context, profile string, mode domain.ModeID, score, currency int)

// Ticker drives the per-question countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// GameOption customizes a GameService.
type GameOption func(*GameService)

// WithTicker replaces the countdown ticker factory.
func WithTicker(newTicker func(time.Duration) Ticker) GameOption {
	return func(g *GameService) { g.newTicker = newTicker }
}

// WithShuffler makes sampling deterministic.
func WithShuffler(shuffle engine.Shuffler) GameOption {
	return func(g *GameService) { g.shuffle = shuffle }
}

// WithClock sets the clock used for view timestamps.
func WithClock(now func() time.Time) GameOption {
	return func(g *GameService) { g.now = now }
}

// GameService hosts engine sessions and applies their side effects to the
// progress store. The engine itself stays pure.
type GameService struct {
	sessions     SessionRepository
	catalogs     CatalogRepository
	progress     *ProgressStore
	modes        []domain.ModeSpec
	byID         map[domain.ModeID]domain.ModeSpec
	tickInterval time.Duration
	newTicker    func(time.Duration) Ticker
	shuffle      engine.Shuffler
	now          func() time.Time
	onComplete   CompletionHook
}

func NewGameService(sessions SessionRepository, catalogs CatalogRepository, progress *ProgressStore, modes []domain.ModeSpec, tickInterval time.Duration, opts ...GameOption) *GameService {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	g := &GameService{
		sessions:     sessions,
		catalogs:     catalogs,
		progress:     progress,
		modes:        modes,
		byID:         make(map[domain.ModeID]domain.ModeSpec, len(modes)),
		tickInterval: tickInterval,
		newTicker:    newTimeTicker,
		now:          time.Now,
	}
	for _, m := range modes {
		g.byID[m.ID] = m
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnComplete registers the completion hook.
func (g *GameService) OnComplete(hook CompletionHook) {
	g.onComplete = hook
}

// Modes lists the playable modes in display order.
func (g *GameService) Modes() []domain.ModeSpec {
	out := make([]domain.ModeSpec, len(g.modes))
	copy(out, g.modes)
	return out
}

// Mode looks up a mode by ID.
func (g *GameService) Mode(id domain.ModeID) (domain.ModeSpec, error) {
	spec, ok := g.byID[id]
	if !ok {
		return domain.ModeSpec{}, fmt.Errorf("%w: %s", domain.ErrModeNotFound, id)
	}
	return spec, nil
}

// Start opens a new session of mode for profile.
func (g *GameService) Start(ctx context.Context, profile string, mode domain.ModeID) (SessionView, error) {
	spec, err := g.Mode(mode)
	if err != nil {
		return SessionView{}, err
	}
	catalog, err := g.catalogs.GetCatalog(ctx, mode)
	if err != nil {
		return SessionView{}, err
	}

	session := newSession(uuid.NewString(), profile, spec, g.now)
	if spec.Kind == domain.KindMatching {
		board, err := engine.NewBoard(mode, catalog.Pairs, g.shuffle)
		if err != nil {
			return SessionView{}, err
		}
		session.board = &board
	} else {
		size := spec.SampleSize
		if size == 0 {
			size = len(catalog.Entities)
		}
		state, err := engine.Transition(engine.State{}, engine.Start{
			Mode:       mode,
			Catalog:    catalog.Entities,
			SampleSize: size,
			Countdown:  spec.Countdown,
			Shuffle:    g.shuffle,
		})
		if err != nil {
			return SessionView{}, err
		}
		session.state = state
	}

	g.sessions.Put(session)

	session.mu.Lock()
	defer session.mu.Unlock()
	g.startTimerLocked(session)
	log.Printf("session %s started: profile=%s mode=%s", session.id, profile, mode)
	return session.viewLocked(), nil
}

// Answer submits option for the current entity.
func (g *GameService) Answer(ctx context.Context, sessionID string, option int) (SessionView, error) {
	session, err := g.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.board != nil {
		return session.viewLocked(), domain.ErrWrongModeKind
	}
	next, err := engine.Transition(session.state, engine.Answer{Option: option})
	if err != nil {
		return session.viewLocked(), err
	}
	session.stopTimerLocked()
	session.state = next
	session.touchLocked()

	rec := next.LastAnswer
	if rec.Correct {
		g.logEffect(g.progress.AddCurrency(ctx, session.profile, rec.Currency))
		g.logEffect(g.progress.IncrementCounter(ctx, session.profile, CounterCorrectAnswers))
	} else {
		g.logEffect(g.progress.IncrementCounter(ctx, session.profile, CounterWrongAnswers))
	}
	return session.broadcastLocked(), nil
}

// Advance moves past the feedback of the current entity. Advancing past the
// last one finishes the game and commits its score.
func (g *GameService) Advance(ctx context.Context, sessionID string) (SessionView, error) {
	session, err := g.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.board != nil {
		return session.viewLocked(), domain.ErrWrongModeKind
	}
	next, err := engine.Transition(session.state, engine.Advance{})
	if err != nil {
		return session.viewLocked(), err
	}
	session.state = next
	session.touchLocked()

	if next.Phase == engine.PhaseFinished {
		g.finishLocked(ctx, session)
	} else {
		g.startTimerLocked(session)
	}
	return session.broadcastLocked(), nil
}

// Tick counts the current question down by one. At zero the countdown stops
// and the question waits for an answer.
func (g *GameService) Tick(_ context.Context, sessionID string) (SessionView, error) {
	session, err := g.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return g.tickLocked(session)
}

func (g *GameService) tickLocked(session *Session) (SessionView, error) {
	next, err := engine.Transition(session.state, engine.Tick{})
	if err != nil {
		return session.viewLocked(), err
	}
	session.state = next
	session.touchLocked()
	if next.TimeRemaining == 0 {
		session.stopTimerLocked()
	}
	return session.broadcastLocked(), nil
}

// Match pairs solutionID with scenarioID on a matching board.
func (g *GameService) Match(ctx context.Context, sessionID, solutionID, scenarioID string) (SessionView, engine.MatchResult, error) {
	session, err := g.session(sessionID)
	if err != nil {
		return SessionView{}, engine.MatchResult{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.board == nil {
		return session.viewLocked(), engine.MatchResult{}, domain.ErrWrongModeKind
	}
	picked := session.board.Pick(solutionID)
	if picked.Selected != solutionID {
		return session.viewLocked(), engine.MatchResult{}, domain.ErrInvalidTransition
	}
	next, res, err := picked.Connect(scenarioID)
	if err != nil {
		return session.viewLocked(), engine.MatchResult{}, err
	}
	session.board = &next
	session.lastMatch = &res
	session.touchLocked()

	if res.Correct {
		g.logEffect(g.progress.IncrementCounter(ctx, session.profile, CounterCorrectAnswers))
	} else {
		g.logEffect(g.progress.IncrementCounter(ctx, session.profile, CounterWrongAnswers))
	}
	if res.Complete {
		g.finishBoardLocked(ctx, session)
	}
	return session.broadcastLocked(), res, nil
}

// Abandon throws away an unfinished session. Answers already committed stay committed.
func (g *GameService) Abandon(_ context.Context, sessionID string) error {
	session, err := g.session(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.board == nil {
		next, err := engine.Transition(session.state, engine.Abandon{})
		if err != nil {
			return err
		}
		session.state = next
	} else if session.board.Complete() {
		return domain.ErrInvalidTransition
	}
	g.discardLocked(session)
	log.Printf("session %s abandoned", session.id)
	return nil
}

// End discards a session whatever its phase.
func (g *GameService) End(_ context.Context, sessionID string) {
	session, err := g.session(sessionID)
	if err != nil {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	g.discardLocked(session)
}

// Snapshot returns the current view of a session.
func (g *GameService) Snapshot(_ context.Context, sessionID string) (SessionView, error) {
	session, err := g.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives a view after every transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (g *GameService) Subscribe(_ context.Context, sessionID string) (<-chan SessionView, func(), error) {
	session, err := g.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session.subscribe()
}

func (g *GameService) session(id string) (*Session, error) {
	session, ok := g.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (g *GameService) discardLocked(session *Session) {
	session.stopTimerLocked()
	session.discarded = true
	session.closeSubscribersLocked()
	g.sessions.Delete(session.id)
}

func (g *GameService) finishLocked(ctx context.Context, session *Session) {
	session.stopTimerLocked()
	state := session.state
	g.logEffect(g.progress.AddScore(ctx, session.profile, state.Points))

	// the completion hook below records this game, so count it here already
	played := g.progress.Load(ctx, session.profile).GamesPlayed + 1
	for _, name := range engine.Achievements(state, played, session.spec.Badge) {
		unlocked, err := g.progress.UnlockAchievement(ctx, session.profile, name)
		if err != nil {
			log.Printf("unlock %q failed: %v", name, err)
			continue
		}
		if unlocked {
			session.achievements = append(session.achievements, name)
		}
	}
	if g.onComplete != nil {
		g.onComplete(ctx, session.profile, session.spec.ID, state.Points, state.Currency)
	}
	log.Printf("session %s finished: points=%d reward=%q", session.id, state.Points, state.Reward)
}

func (g *GameService) finishBoardLocked(ctx context.Context, session *Session) {
	g.logEffect(g.progress.AddCurrency(ctx, session.profile, engine.BoardReward))
	if g.onComplete != nil {
		g.onComplete(ctx, session.profile, session.spec.ID, session.board.Score, engine.BoardReward)
	}
	log.Printf("session %s board complete: misses=%d", session.id, session.board.Misses)
}

func (g *GameService) startTimerLocked(session *Session) {
	session.stopTimerLocked()
	if session.board != nil || session.state.Phase != engine.PhaseAwaitingAnswer || session.state.TimeRemaining <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	session.stopTimer = cancel
	ticker := g.newTicker(g.tickInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				if !g.timerTick(ctx, session) {
					return
				}
			}
		}
	}()
}

func (g *GameService) timerTick(ctx context.Context, session *Session) bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	// cancelled while waiting for the lock
	if ctx.Err() != nil {
		return false
	}
	view, err := g.tickLocked(session)
	if err != nil {
		return false
	}
	return view.State.TimeRemaining > 0
}

func (g *GameService) logEffect(_ int, err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("progress update failed: %v", err)
	}
}
