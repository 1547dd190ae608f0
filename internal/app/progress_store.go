package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strconv"
	"sync"

	"rights-arcade/internal/domain"
)

// Storage keys inside a profile namespace.
const (
	KeyTotalScore     = "totalScore"
	KeyCandies        = "candies"
	KeyGameStats      = "gameStats"
	KeyAchievements   = "achievements"
	KeyTheme          = "theme"
	KeyLanguage       = "selectedLanguage"
	KeyForumName      = "forumUsername"
	KeyForumMessages  = "forumMessages"
	keyGameProgressNS = "gameProgress:"
)

// Counter names accepted by IncrementCounter.
const (
	CounterGamesPlayed    = "gamesPlayed"
	CounterCorrectAnswers = "correctAnswers"
	CounterWrongAnswers   = "wrongAnswers"
)

// ProfileKey namespaces key under profile.
func ProfileKey(profile, key string) string {
	return "profile:" + profile + ":" + key
}

// GameProgressKey is the key of the per-mode progress blob.
func GameProgressKey(mode domain.ModeID) string {
	return keyGameProgressNS + string(mode)
}

type gameStats struct {
	GamesPlayed    int `json:"gamesPlayed"`
	CorrectAnswers int `json:"correctAnswers"`
	WrongAnswers   int `json:"wrongAnswers"`
}

const lockStripes = 64

// ProgressStore is the single persisted progress service. Every read-modify-write
// runs under the profile's lock stripe so concurrent sessions never lose updates.
type ProgressStore struct {
	kv    KVStore
	modes []domain.ModeID
	locks [lockStripes]sync.Mutex
}

// NewProgressStore builds a store over kv. modes lists the per-mode blobs Load
// reads and the only mode keys Save accepts.
func NewProgressStore(kv KVStore, modes []domain.ModeID) *ProgressStore {
	return &ProgressStore{
		kv:    kv,
		modes: modes,
	}
}

// lock holds one stripe at a time; callers never nest it.
func (p *ProgressStore) lock(profile string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(profile))
	l := &p.locks[h.Sum32()%lockStripes]
	l.Lock()
	return l.Unlock
}

func (p *ProgressStore) knownMode(mode domain.ModeID) bool {
	for _, m := range p.modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Load reads every known key. Missing or malformed values fall back to zero; it never fails.
func (p *ProgressStore) Load(ctx context.Context, profile string) domain.ProgressRecord {
	unlock := p.lock(profile)
	defer unlock()
	return p.load(ctx, profile)
}

func (p *ProgressStore) load(ctx context.Context, profile string) domain.ProgressRecord {
	rec := domain.ProgressRecord{
		TotalScore:   p.readInt(ctx, profile, KeyTotalScore),
		Currency:     p.readInt(ctx, profile, KeyCandies),
		Achievements: []string{},
		Modes:        make(map[domain.ModeID]domain.ModeProgress),
	}

	if stats, ok := readJSON[gameStats](ctx, p.kv, profile, KeyGameStats); ok {
		if stats.GamesPlayed < 0 || stats.CorrectAnswers < 0 || stats.WrongAnswers < 0 {
			logReadError(ProfileKey(profile, KeyGameStats), errors.New("negative counter"))
		} else {
			rec.GamesPlayed = stats.GamesPlayed
			rec.CorrectAnswers = stats.CorrectAnswers
			rec.WrongAnswers = stats.WrongAnswers
		}
	}

	if names, ok := readJSON[[]string](ctx, p.kv, profile, KeyAchievements); ok {
		rec.Achievements = unionAchievements(rec.Achievements, names)
	}

	for _, mode := range p.modes {
		if mp, ok := readJSON[domain.ModeProgress](ctx, p.kv, profile, GameProgressKey(mode)); ok {
			rec.Modes[mode] = mp
		}
	}
	return rec
}

// Save merges delta over the latest record and writes back the touched keys.
// Saving the same delta twice leaves the same stored state.
func (p *ProgressStore) Save(ctx context.Context, profile string, delta domain.ProgressDelta) error {
	if err := validateDelta(delta); err != nil {
		return err
	}
	for mode := range delta.Modes {
		if !p.knownMode(mode) {
			return fmt.Errorf("%w: %s", domain.ErrModeNotFound, mode)
		}
	}
	unlock := p.lock(profile)
	defer unlock()

	rec := p.load(ctx, profile)
	if delta.TotalScore != nil {
		rec.TotalScore = *delta.TotalScore
		if err := p.writeInt(ctx, profile, KeyTotalScore, rec.TotalScore); err != nil {
			return err
		}
	}
	if delta.Currency != nil {
		rec.Currency = *delta.Currency
		if err := p.writeInt(ctx, profile, KeyCandies, rec.Currency); err != nil {
			return err
		}
	}
	if delta.GamesPlayed != nil || delta.CorrectAnswers != nil || delta.WrongAnswers != nil {
		if delta.GamesPlayed != nil {
			rec.GamesPlayed = *delta.GamesPlayed
		}
		if delta.CorrectAnswers != nil {
			rec.CorrectAnswers = *delta.CorrectAnswers
		}
		if delta.WrongAnswers != nil {
			rec.WrongAnswers = *delta.WrongAnswers
		}
		if err := p.writeStats(ctx, profile, rec); err != nil {
			return err
		}
	}
	if len(delta.Achievements) > 0 {
		merged := unionAchievements(rec.Achievements, delta.Achievements)
		if len(merged) != len(rec.Achievements) {
			if err := p.writeJSON(ctx, profile, KeyAchievements, merged); err != nil {
				return err
			}
		}
	}
	for mode, mp := range delta.Modes {
		if err := p.writeJSON(ctx, profile, GameProgressKey(mode), mp); err != nil {
			return err
		}
	}
	return nil
}

// AddCurrency adds amount candies and returns the new balance.
func (p *ProgressStore) AddCurrency(ctx context.Context, profile string, amount int) (int, error) {
	return p.addInt(ctx, profile, KeyCandies, amount)
}

// AddScore adds amount to the cumulative total score and returns it.
func (p *ProgressStore) AddScore(ctx context.Context, profile string, amount int) (int, error) {
	return p.addInt(ctx, profile, KeyTotalScore, amount)
}

func (p *ProgressStore) addInt(ctx context.Context, profile, key string, amount int) (int, error) {
	if amount < 0 {
		return 0, domain.ErrNegativeAmount
	}
	unlock := p.lock(profile)
	defer unlock()

	total := p.readInt(ctx, profile, key) + amount
	if amount == 0 {
		return total, nil
	}
	if err := p.writeInt(ctx, profile, key, total); err != nil {
		return 0, err
	}
	return total, nil
}

// IncrementCounter bumps one of the gameStats counters by one.
func (p *ProgressStore) IncrementCounter(ctx context.Context, profile, name string) (int, error) {
	unlock := p.lock(profile)
	defer unlock()

	rec := p.load(ctx, profile)
	var value int
	switch name {
	case CounterGamesPlayed:
		rec.GamesPlayed++
		value = rec.GamesPlayed
	case CounterCorrectAnswers:
		rec.CorrectAnswers++
		value = rec.CorrectAnswers
	case CounterWrongAnswers:
		rec.WrongAnswers++
		value = rec.WrongAnswers
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownCounter, name)
	}
	if err := p.writeStats(ctx, profile, rec); err != nil {
		return 0, err
	}
	return value, nil
}

// UnlockAchievement adds name to the achievement set. It reports false when
// the achievement was already unlocked.
func (p *ProgressStore) UnlockAchievement(ctx context.Context, profile, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	unlock := p.lock(profile)
	defer unlock()

	rec := p.load(ctx, profile)
	if rec.HasAchievement(name) {
		return false, nil
	}
	if err := p.writeJSON(ctx, profile, KeyAchievements, append(rec.Achievements, name)); err != nil {
		return false, err
	}
	return true, nil
}

// RecordModeCompletion merges a finished game into the mode's blob and bumps gamesPlayed.
func (p *ProgressStore) RecordModeCompletion(ctx context.Context, profile string, mode domain.ModeID, score, currency int) (domain.ModeProgress, error) {
	if score < 0 || currency < 0 {
		return domain.ModeProgress{}, domain.ErrNegativeAmount
	}
	unlock := p.lock(profile)
	defer unlock()

	key := GameProgressKey(mode)
	mp, _ := readJSON[domain.ModeProgress](ctx, p.kv, profile, key)
	mp.TotalScore += score
	mp.Currency += currency
	mp.GamesPlayed++
	if err := p.writeJSON(ctx, profile, key, mp); err != nil {
		return domain.ModeProgress{}, err
	}

	rec := p.load(ctx, profile)
	rec.GamesPlayed++
	if err := p.writeStats(ctx, profile, rec); err != nil {
		return domain.ModeProgress{}, err
	}
	return mp, nil
}

func (p *ProgressStore) readInt(ctx context.Context, profile, key string) int {
	full := ProfileKey(profile, key)
	raw, ok, err := p.kv.Get(ctx, full)
	if err != nil {
		logReadError(full, err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logReadError(full, err)
		return 0
	}
	if n < 0 {
		logReadError(full, fmt.Errorf("negative value %d", n))
		return 0
	}
	return n
}

func (p *ProgressStore) writeInt(ctx context.Context, profile, key string, v int) error {
	if err := p.kv.Set(ctx, ProfileKey(profile, key), strconv.Itoa(v)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *ProgressStore) writeStats(ctx context.Context, profile string, rec domain.ProgressRecord) error {
	return p.writeJSON(ctx, profile, KeyGameStats, gameStats{
		GamesPlayed:    rec.GamesPlayed,
		CorrectAnswers: rec.CorrectAnswers,
		WrongAnswers:   rec.WrongAnswers,
	})
}

func (p *ProgressStore) writeJSON(ctx context.Context, profile, key string, v any) error {
	return writeJSON(ctx, p.kv, profile, key, v)
}

// readJSON decodes a profile key. Missing keys report false silently; backend
// and decode failures are logged and also report false.
func readJSON[T any](ctx context.Context, kv KVStore, profile, key string) (T, bool) {
	var zero T
	full := ProfileKey(profile, key)
	raw, ok, err := kv.Get(ctx, full)
	if err != nil {
		logReadError(full, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logReadError(full, err)
		return zero, false
	}
	return v, true
}

func writeJSON(ctx context.Context, kv KVStore, profile, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, ProfileKey(profile, key), string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func logReadError(key string, err error) {
	log.Printf("progress: %v", &domain.PersistenceReadError{Key: key, Err: err})
}

func unionAchievements(have, add []string) []string {
	out := make([]string, 0, len(have)+len(add))
	seen := make(map[string]struct{}, len(have)+len(add))
	for _, list := range [][]string{have, add} {
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func validateDelta(d domain.ProgressDelta) error {
	for _, v := range []*int{d.TotalScore, d.Currency, d.GamesPlayed, d.CorrectAnswers, d.WrongAnswers} {
		if v != nil && *v < 0 {
			return domain.ErrNegativeAmount
		}
	}
	for _, mp := range d.Modes {
		if mp.TotalScore < 0 || mp.Currency < 0 || mp.GamesPlayed < 0 {
			return domain.ErrNegativeAmount
		}
	}
	return nil
}
