package engine

import "rights-arcade/internal/domain"

const (
	// BasePoints is awarded for every correct answer before bonuses.
	BasePoints = 10
	// BaseCurrency is the candy award for every correct answer before the streak bonus.
	BaseCurrency = 3
	// DefaultCountdown is the per-question timer in seconds.
	DefaultCountdown = 30
	// DefaultSampleSize is how many entities a session draws from its catalog.
	DefaultSampleSize = 5
)

// Achievement names unlocked at the end of a session.
const (
	AchievementScoreMaster     = "Score Master"
	AchievementStreakChampion  = "Streak Champion"
	AchievementDedicatedPlayer = "Dedicated Player"
)

const (
	scoreMasterThreshold    = 100
	streakChampionThreshold = 5
	dedicatedPlayerGames    = 10
)

// PointsFor returns the award for a correct answer given the streak before
// the answer and the seconds left on the timer.
func PointsFor(streakBefore, timeRemaining int) int {
	if timeRemaining < 0 {
		timeRemaining = 0
	}
	if streakBefore < 0 {
		streakBefore = 0
	}
	return BasePoints + timeRemaining/2 + 2*streakBefore
}

// CurrencyFor returns the candy award for a correct answer.
func CurrencyFor(streakBefore int) int {
	if streakBefore < 0 {
		streakBefore = 0
	}
	return BaseCurrency + streakBefore/2
}

// RewardTierFor maps a final session score to its reward tier.
func RewardTierFor(points int) domain.RewardTier {
	switch {
	case points >= 40:
		return domain.RewardKnowledgeWarrior
	case points >= 30:
		return domain.RewardQuizChampion
	case points >= 20:
		return domain.RewardHelperHero
	case points >= 10:
		return domain.RewardRightsMaster
	default:
		return domain.RewardNone
	}
}

// Achievements lists what a finished session earns. gamesPlayed is the
// profile's count including this session.
func Achievements(s State, gamesPlayed int, badge *domain.Badge) []string {
	if s.Phase != PhaseFinished {
		return nil
	}
	var out []string
	if s.Reward != domain.RewardNone {
		out = append(out, string(s.Reward))
	}
	if s.Points >= scoreMasterThreshold {
		out = append(out, AchievementScoreMaster)
	}
	if s.BestStreak >= streakChampionThreshold {
		out = append(out, AchievementStreakChampion)
	}
	if gamesPlayed >= dedicatedPlayerGames {
		out = append(out, AchievementDedicatedPlayer)
	}
	if badge != nil && badge.Name != "" && s.Correct >= badge.MinCorrect {
		out = append(out, badge.Name)
	}
	return out
}
