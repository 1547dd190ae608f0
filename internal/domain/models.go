package domain

import "time"

// ModeID identifies a game mode in the arcade (e.g. "rights-quiz", "courtroom").
type ModeID string

// Kind tags which shape of entity a mode plays with.
type Kind string

const (
	KindQuiz      Kind = "quiz"
	KindScenario  Kind = "scenario"
	KindCourtroom Kind = "courtroom"
	KindRightsJar Kind = "rights-jar"
	KindMatching  Kind = "matching"
)

// Reference points at an authority backing an explanation.
type Reference struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	Authority string `json:"authority,omitempty"`
}

// Link is an extra "learn more" pointer.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Entity is a single question, scenario, courtroom case or jar round.
// Every mode uses the same shape; Kind says which one it is.
type Entity struct {
	ID           string     `json:"id"`
	Kind         Kind       `json:"kind"`
	Prompt       string     `json:"prompt"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Explanation  string     `json:"explanation"`
	Detail       string     `json:"detail,omitempty"` // courtroom punishment, jar right name
	Reference    *Reference `json:"reference,omitempty"`
	Links        []Link     `json:"links,omitempty"`
}

// Pair is a scenario/solution couple for the matching board.
type Pair struct {
	ID          string     `json:"id"`
	Scenario    string     `json:"scenario"`
	Solution    string     `json:"solution"`
	Explanation string     `json:"explanation"`
	Reference   *Reference `json:"reference,omitempty"`
}

// Catalog is the immutable content for one mode.
type Catalog struct {
	Mode     ModeID   `json:"mode"`
	Entities []Entity `json:"entities,omitempty"`
	Pairs    []Pair   `json:"pairs,omitempty"`
}

// Badge is awarded when a session finishes with at least MinCorrect right answers.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MinCorrect  int    `json:"minCorrect"`
}

// ModeSpec describes a selectable game in the arcade.
type ModeSpec struct {
	ID          ModeID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
	SampleSize  int    `json:"sampleSize"` // zero means the whole catalog
	Countdown   int    `json:"countdown"`  // seconds per question, zero disables the timer
	Badge       *Badge `json:"badge,omitempty"`
}

// RewardTier is the milestone granted when a session finishes.
type RewardTier string

const (
	RewardNone             RewardTier = ""
	RewardRightsMaster     RewardTier = "Rights Master"
	RewardHelperHero       RewardTier = "Helper Hero"
	RewardQuizChampion     RewardTier = "Quiz Champion"
	RewardKnowledgeWarrior RewardTier = "Knowledge Warrior"
)

// ModeProgress is the per-mode progress blob.
type ModeProgress struct {
	TotalScore  int `json:"totalScore"`
	Currency    int `json:"toffeeCount"`
	GamesPlayed int `json:"gamesPlayed"`
}

// ProgressRecord is the persisted, cross-session progress of one profile.
type ProgressRecord struct {
	TotalScore     int                     `json:"totalScore"`
	Currency       int                     `json:"candies"`
	GamesPlayed    int                     `json:"gamesPlayed"`
	CorrectAnswers int                     `json:"correctAnswers"`
	WrongAnswers   int                     `json:"wrongAnswers"`
	Achievements   []string                `json:"achievements"`
	Modes          map[ModeID]ModeProgress `json:"modes"`
}

// HasAchievement reports whether name is already unlocked.
func (r ProgressRecord) HasAchievement(name string) bool {
	for _, a := range r.Achievements {
		if a == name {
			return true
		}
	}
	return false
}

// ProgressDelta is a partial update merged over a ProgressRecord.
// Nil fields are left untouched.
type ProgressDelta struct {
	TotalScore     *int                    `json:"totalScore,omitempty"`
	Currency       *int                    `json:"candies,omitempty"`
	GamesPlayed    *int                    `json:"gamesPlayed,omitempty"`
	CorrectAnswers *int                    `json:"correctAnswers,omitempty"`
	WrongAnswers   *int                    `json:"wrongAnswers,omitempty"`
	Achievements   []string                `json:"achievements,omitempty"`
	Modes          map[ModeID]ModeProgress `json:"modes,omitempty"`
}

// ForumMessage is a community post. Replies nest one level only.
type ForumMessage struct {
	ID        int64          `json:"id"`
	Author    string         `json:"username"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
	Replies   []ForumMessage `json:"replies"`
}

// Identity is a signed-in user of the feedback form.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Feedback is the document written by the feedback form.
type Feedback struct {
	UserID      string    `json:"userId"`
	UserEmail   string    `json:"userEmail"`
	DisplayName string    `json:"displayName"`
	Feedback    string    `json:"feedback"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Preferences are the display settings of a profile.
type Preferences struct {
	DarkMode  bool   `json:"darkMode"`
	Language  string `json:"language"`
	AgeGroup  string `json:"ageGroup,omitempty"`
	ForumName string `json:"forumName"`
}

// PreferencesPatch is a partial preferences update. Nil fields keep their stored value.
type PreferencesPatch struct {
	DarkMode  *bool   `json:"darkMode,omitempty"`
	Language  *string `json:"language,omitempty"`
	AgeGroup  *string `json:"ageGroup,omitempty"`
	ForumName *string `json:"forumName,omitempty"`
}
