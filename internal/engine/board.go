package engine

import (
	"math/rand"

	"rights-arcade/internal/domain"
)

// BoardReward is the candy award for connecting every pair.
const BoardReward = 3

// Board is the match-the-rights game: pick a solution, then the scenario it solves.
type Board struct {
	Scenarios []domain.Pair   `json:"scenarios"`
	Solutions []domain.Pair   `json:"solutions"`
	Selected  string          `json:"selected,omitempty"`
	Connected map[string]bool `json:"connected"`
	Score     int             `json:"score"`
	Misses    int             `json:"misses"`
}

// MatchResult is the verdict of a Connect call.
type MatchResult struct {
	ScenarioID string `json:"scenarioId"`
	SolutionID string `json:"solutionId"`
	Correct    bool   `json:"correct"`
	Complete   bool   `json:"complete"`
}

// NewBoard lays out pairs with scenarios and solutions shuffled independently.
func NewBoard(mode domain.ModeID, pairs []domain.Pair, shuffle Shuffler) (Board, error) {
	if len(pairs) == 0 {
		return Board{}, &domain.ConfigurationError{Mode: mode, Reason: "no pairs to match"}
	}
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	scenarios := make([]domain.Pair, len(pairs))
	copy(scenarios, pairs)
	shuffle(len(scenarios), func(i, j int) { scenarios[i], scenarios[j] = scenarios[j], scenarios[i] })
	solutions := make([]domain.Pair, len(pairs))
	copy(solutions, pairs)
	shuffle(len(solutions), func(i, j int) { solutions[i], solutions[j] = solutions[j], solutions[i] })
	return Board{
		Scenarios: scenarios,
		Solutions: solutions,
		Connected: make(map[string]bool, len(pairs)),
	}, nil
}

// Complete reports whether every pair is connected.
func (b Board) Complete() bool {
	return len(b.Scenarios) > 0 && b.Score == len(b.Scenarios)
}

// Pick toggles the selected solution. Already connected solutions are ignored.
func (b Board) Pick(solutionID string) Board {
	if b.Connected[solutionID] || !b.has(solutionID) {
		return b
	}
	next := b
	if b.Selected == solutionID {
		next.Selected = ""
	} else {
		next.Selected = solutionID
	}
	return next
}

// Connect links the selected solution to scenarioID. Without a selection it is a no-op.
func (b Board) Connect(scenarioID string) (Board, MatchResult, error) {
	if b.Selected == "" || b.Complete() {
		return b, MatchResult{}, domain.ErrInvalidTransition
	}
	if !b.has(scenarioID) || b.Connected[scenarioID] {
		return b, MatchResult{}, domain.ErrInvalidTransition
	}
	next := b
	res := MatchResult{ScenarioID: scenarioID, SolutionID: b.Selected}
	if scenarioID == b.Selected {
		connected := make(map[string]bool, len(b.Connected)+1)
		for k, v := range b.Connected {
			connected[k] = v
		}
		connected[scenarioID] = true
		next.Connected = connected
		next.Score++
		res.Correct = true
	} else {
		next.Misses++
	}
	next.Selected = ""
	res.Complete = next.Complete()
	return next, res, nil
}

func (b Board) has(id string) bool {
	for _, p := range b.Scenarios {
		if p.ID == id {
			return true
		}
	}
	return false
}
