package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"rights-arcade/internal/domain"
)

func noShuffle(int, func(i, j int)) {}

func catalogOf(n int) []domain.Entity {
	out := make([]domain.Entity, n)
	for i := range out {
		out[i] = domain.Entity{
			ID:           fmt.Sprintf("q%d", i+1),
			Kind:         domain.KindQuiz,
			Prompt:       fmt.Sprintf("question %d", i+1),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
			Explanation:  "because",
		}
	}
	return out
}

func mustStart(t *testing.T, catalog []domain.Entity, size int) State {
	t.Helper()
	s, err := Transition(State{}, Start{Mode: "rights-quiz", Catalog: catalog, SampleSize: size, Countdown: DefaultCountdown, Shuffle: noShuffle})
	require.NoError(t, err)
	return s
}

func step(t *testing.T, s State, e Event) State {
	t.Helper()
	next, err := Transition(s, e)
	require.NoError(t, err)
	return next
}

func TestScenarioSevenQuestionsSampleFive(t *testing.T) {
	catalog := catalogOf(7)
	s, err := Transition(State{}, Start{Mode: "rights-quiz", Catalog: catalog, SampleSize: 5, Countdown: 30, Shuffle: rand.New(rand.NewSource(7)).Shuffle})
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingAnswer, s.Phase)
	require.Len(t, s.Entities, 5)

	seen := map[string]bool{}
	for _, e := range s.Entities {
		require.False(t, seen[e.ID], "duplicate %s", e.ID)
		seen[e.ID] = true
	}

	for i := 0; i < 10; i++ {
		s = step(t, s, Tick{})
	}
	require.Equal(t, 20, s.TimeRemaining)

	s = step(t, s, Answer{Option: s.Entities[0].CorrectIndex})
	require.Equal(t, 20, s.Points)
	require.Equal(t, 3, s.Currency)
	require.Equal(t, 1, s.Streak)
	require.True(t, s.LastAnswer.Correct)

	s = step(t, s, Advance{})
	require.Equal(t, 30, s.TimeRemaining)
	wrong := (s.Entities[1].CorrectIndex + 1) % len(s.Entities[1].Options)
	s = step(t, s, Answer{Option: wrong})
	require.Equal(t, 0, s.Streak)
	require.Equal(t, 20, s.Points)
	require.Equal(t, 3, s.Currency)
	require.Equal(t, 0, s.LastAnswer.Points)

	for i := 2; i < 5; i++ {
		s = step(t, s, Advance{})
		require.Equal(t, i, s.Index)
		s = step(t, s, Answer{Option: s.Entities[i].CorrectIndex})
	}
	s = step(t, s, Advance{})
	require.Equal(t, PhaseFinished, s.Phase)
	require.Equal(t, 4, s.Correct)
	require.Equal(t, 1, s.Wrong)
	require.Equal(t, RewardTierFor(s.Points), s.Reward)
}

func TestScoreEqualsSumOfAwards(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		catalog := catalogOf(3 + rng.Intn(8))
		s := mustStart(t, catalog, 5)
		want, wantCurrency := 0, 0
		for s.Phase != PhaseFinished {
			for n := rng.Intn(35); n > 0 && s.TimeRemaining > 0; n-- {
				s = step(t, s, Tick{})
			}
			entity, ok := s.Current()
			require.True(t, ok)
			option := entity.CorrectIndex
			if rng.Intn(3) == 0 {
				option = (option + 1) % len(entity.Options)
			}
			streak, left := s.Streak, s.TimeRemaining
			s = step(t, s, Answer{Option: option})
			if option == entity.CorrectIndex {
				want += 10 + left/2 + 2*streak
				wantCurrency += 3 + streak/2
			}
			s = step(t, s, Advance{})
		}
		require.Equal(t, want, s.Points)
		require.Equal(t, wantCurrency, s.Currency)

		sum := 0
		for _, rec := range s.History {
			sum += rec.Points
			require.GreaterOrEqual(t, rec.Points, 0)
		}
		require.Equal(t, s.Points, sum)
	}
}

func TestStreakCountsConsecutiveCorrect(t *testing.T) {
	s := mustStart(t, catalogOf(8), 8)
	pattern := []bool{true, true, false, true, true, true, false, true}
	run := 0
	for i, correct := range pattern {
		option := s.Entities[i].CorrectIndex
		if !correct {
			option = (option + 1) % 4
			run = 0
		} else {
			run++
		}
		s = step(t, s, Answer{Option: option})
		require.Equal(t, run, s.Streak, "after answer %d", i)
		s = step(t, s, Advance{})
	}
	require.Equal(t, 3, s.BestStreak)
}

func TestStartBoundaries(t *testing.T) {
	t.Run("exact size selects all once", func(t *testing.T) {
		catalog := catalogOf(5)
		s, err := Transition(State{}, Start{Catalog: catalog, SampleSize: 5, Countdown: 30})
		require.NoError(t, err)
		require.ElementsMatch(t, catalog, s.Entities)
	})
	t.Run("fewer entries than sample size", func(t *testing.T) {
		catalog := catalogOf(3)
		s, err := Transition(State{}, Start{Catalog: catalog, SampleSize: 5, Countdown: 30})
		require.NoError(t, err)
		require.ElementsMatch(t, catalog, s.Entities)
	})
	t.Run("empty catalog", func(t *testing.T) {
		s, err := Transition(State{}, Start{Mode: "empty", SampleSize: 5})
		require.Error(t, err)
		require.True(t, domain.IsConfiguration(err))
		require.Equal(t, PhaseNotStarted, s.Phase)
	})
	t.Run("zero sample size", func(t *testing.T) {
		_, err := Transition(State{}, Start{Catalog: catalogOf(2), SampleSize: 0})
		require.True(t, domain.IsConfiguration(err))
	})
	t.Run("bad correct index", func(t *testing.T) {
		bad := catalogOf(1)
		bad[0].CorrectIndex = 9
		_, err := Transition(State{}, Start{Catalog: bad, SampleSize: 1})
		require.True(t, domain.IsConfiguration(err))
	})
	t.Run("catalog order untouched", func(t *testing.T) {
		catalog := catalogOf(6)
		_, err := Transition(State{}, Start{Catalog: catalog, SampleSize: 3, Shuffle: rand.New(rand.NewSource(1)).Shuffle})
		require.NoError(t, err)
		require.Equal(t, catalogOf(6), catalog)
	})
}

func TestRepeatedAnswerIsRejected(t *testing.T) {
	s := mustStart(t, catalogOf(2), 2)
	s = step(t, s, Answer{Option: s.Entities[0].CorrectIndex})
	again, err := Transition(s, Answer{Option: s.Entities[0].CorrectIndex})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.Equal(t, s, again)
	require.Equal(t, 1, again.Correct)
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	_, err := Transition(State{}, Answer{Option: 0})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	s := mustStart(t, catalogOf(2), 2)
	same, err := Transition(s, Advance{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.Equal(t, s, same)

	_, err = Transition(s, Start{Catalog: catalogOf(2), SampleSize: 2})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTickStopsAtZeroWithoutSubmitting(t *testing.T) {
	s, err := Transition(State{}, Start{Catalog: catalogOf(1), SampleSize: 1, Countdown: 2, Shuffle: noShuffle})
	require.NoError(t, err)
	s = step(t, s, Tick{})
	s = step(t, s, Tick{})
	require.Equal(t, 0, s.TimeRemaining)

	stopped, err := Transition(s, Tick{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.Equal(t, PhaseAwaitingAnswer, stopped.Phase)
	require.Equal(t, 0, stopped.TimeRemaining)

	s = step(t, s, Answer{Option: s.Entities[0].CorrectIndex})
	require.Equal(t, 10, s.Points)
}

func TestTickIgnoredDuringFeedback(t *testing.T) {
	s := mustStart(t, catalogOf(1), 1)
	s = step(t, s, Answer{Option: 0})
	_, err := Transition(s, Tick{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAbandon(t *testing.T) {
	s := mustStart(t, catalogOf(3), 3)
	s = step(t, s, Answer{Option: s.Entities[0].CorrectIndex})
	s = step(t, s, Abandon{})
	require.Equal(t, State{}, s)

	finished := mustStart(t, catalogOf(1), 1)
	finished = step(t, finished, Answer{Option: 0})
	finished = step(t, finished, Advance{})
	_, err := Transition(finished, Abandon{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestFinishedSessionCanRestart(t *testing.T) {
	s := mustStart(t, catalogOf(1), 1)
	s = step(t, s, Answer{Option: 0})
	s = step(t, s, Advance{})
	require.Equal(t, PhaseFinished, s.Phase)

	s = step(t, s, Start{Catalog: catalogOf(2), SampleSize: 2, Countdown: 30})
	require.Equal(t, PhaseAwaitingAnswer, s.Phase)
	require.Zero(t, s.Points)
	require.Empty(t, s.History)
}

func TestHistoryDoesNotAliasPreviousState(t *testing.T) {
	s := mustStart(t, catalogOf(3), 3)
	s = step(t, s, Answer{Option: 0})
	s = step(t, s, Advance{})
	before := s

	a := step(t, before, Answer{Option: before.Entities[1].CorrectIndex})
	b := step(t, before, Answer{Option: (before.Entities[1].CorrectIndex + 1) % 4})
	require.True(t, a.History[1].Correct)
	require.False(t, b.History[1].Correct)
	require.Len(t, before.History, 1)
}
