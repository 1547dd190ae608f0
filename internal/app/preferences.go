package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"rights-arcade/internal/domain"
)

// KeyAgeGroup stores the selected reader age group.
const KeyAgeGroup = "selectedAge"

// AgeGroups are the selectable reader age ranges.
var AgeGroups = []string{"8-12", "13-15", "15-18"}

var supportedLanguages = []language.Tag{
	language.MustParse("en"),
	language.MustParse("hi"),
	language.MustParse("bn"),
	language.MustParse("ta"),
	language.MustParse("te"),
	language.MustParse("mr"),
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// Preferences stores display settings per profile.
type Preferences struct {
	kv KVStore
}

func NewPreferences(kv KVStore) *Preferences {
	return &Preferences{kv: kv}
}

// SupportedLanguages lists the language codes the arcade ships.
func SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	for i, tag := range supportedLanguages {
		out[i] = tag.String()
	}
	return out
}

// MatchLanguage resolves a BCP 47 code (or Accept-Language style list entry)
// to one of the supported languages.
func MatchLanguage(code string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, code)
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, code)
	}
	return supportedLanguages[idx].String(), nil
}

// Get returns the stored preferences. Dark mode is on until turned off.
func (p *Preferences) Get(ctx context.Context, profile string) domain.Preferences {
	prefs := domain.Preferences{DarkMode: true, Language: "en"}
	if dark, ok := readJSON[bool](ctx, p.kv, profile, KeyTheme); ok {
		prefs.DarkMode = dark
	}
	if code, ok := p.readString(ctx, profile, KeyLanguage); ok {
		if matched, err := MatchLanguage(code); err == nil {
			prefs.Language = matched
		} else {
			logReadError(ProfileKey(profile, KeyLanguage), err)
		}
	}
	if age, ok := p.readString(ctx, profile, KeyAgeGroup); ok && validAgeGroup(age) {
		prefs.AgeGroup = age
	}
	if name, ok := p.readString(ctx, profile, KeyForumName); ok {
		prefs.ForumName = name
	}
	return prefs
}

// Update validates and stores every field of prefs. Omitted fields take their
// zero value, so dark mode turns off and the forum name is cleared.
func (p *Preferences) Update(ctx context.Context, profile string, prefs domain.Preferences) (domain.Preferences, error) {
	code := prefs.Language
	if code == "" {
		code = "en"
	}
	matched, err := MatchLanguage(code)
	if err != nil {
		return domain.Preferences{}, err
	}
	if prefs.AgeGroup != "" && !validAgeGroup(prefs.AgeGroup) {
		return domain.Preferences{}, fmt.Errorf("%w: %q", domain.ErrUnknownAgeGroup, prefs.AgeGroup)
	}
	if err := p.SetTheme(ctx, profile, prefs.DarkMode); err != nil {
		return domain.Preferences{}, err
	}
	if err := p.set(ctx, profile, KeyLanguage, matched); err != nil {
		return domain.Preferences{}, err
	}
	if prefs.AgeGroup != "" {
		if err := p.set(ctx, profile, KeyAgeGroup, prefs.AgeGroup); err != nil {
			return domain.Preferences{}, err
		}
	}
	if err := p.SetForumName(ctx, profile, prefs.ForumName); err != nil {
		return domain.Preferences{}, err
	}
	return p.Get(ctx, profile), nil
}

// Patch merges the set fields of patch over the stored preferences.
func (p *Preferences) Patch(ctx context.Context, profile string, patch domain.PreferencesPatch) (domain.Preferences, error) {
	prefs := p.Get(ctx, profile)
	if patch.DarkMode != nil {
		prefs.DarkMode = *patch.DarkMode
	}
	if patch.Language != nil {
		prefs.Language = *patch.Language
	}
	if patch.AgeGroup != nil {
		prefs.AgeGroup = *patch.AgeGroup
	}
	if patch.ForumName != nil {
		prefs.ForumName = *patch.ForumName
	}
	return p.Update(ctx, profile, prefs)
}

// SetTheme stores the dark mode flag.
func (p *Preferences) SetTheme(ctx context.Context, profile string, dark bool) error {
	return p.set(ctx, profile, KeyTheme, strconv.FormatBool(dark))
}

// SetLanguage stores the matched language and returns it.
func (p *Preferences) SetLanguage(ctx context.Context, profile, code string) (string, error) {
	matched, err := MatchLanguage(code)
	if err != nil {
		return "", err
	}
	return matched, p.set(ctx, profile, KeyLanguage, matched)
}

// SetForumName stores the trimmed forum display name. Blank clears it.
func (p *Preferences) SetForumName(ctx context.Context, profile, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return p.kv.Delete(ctx, ProfileKey(profile, KeyForumName))
	}
	return p.set(ctx, profile, KeyForumName, name)
}

func (p *Preferences) set(ctx context.Context, profile, key, value string) error {
	if err := p.kv.Set(ctx, ProfileKey(profile, key), value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *Preferences) readString(ctx context.Context, profile, key string) (string, bool) {
	full := ProfileKey(profile, key)
	v, ok, err := p.kv.Get(ctx, full)
	if err != nil {
		logReadError(full, err)
		return "", false
	}
	return v, ok && v != ""
}

func validAgeGroup(age string) bool {
	for _, g := range AgeGroups {
		if g == age {
			return true
		}
	}
	return false
}
