// Package i18n selects the locale the site is served in. English and Khmer
// are authored side by side and switch instantly; every other supported
// locale is produced by the external page translator, which can only attach
// to a freshly loaded document.
package i18n

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Locale describes one selectable language.
type Locale struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Authored bool   `json:"authored"`

	tag language.Tag
}

// Selection is the outcome of a locale switch.
type Selection struct {
	Locale Locale `json:"locale"`
	// ReloadRequired is set when the switch crosses into or out of a
	// translated locale: the page translator needs a clean document.
	ReloadRequired bool `json:"reload_required"`
}

// authoredCodes are the locales with hand-written content.
var authoredCodes = map[string]struct{}{
	"en": {},
	"km": {},
}

// nativeNames labels each supported locale in its own script.
var nativeNames = map[string]string{
	"en": "English",
	"km": "ខ្មែរ",
	"fr": "Français",
	"zh": "中文",
	"ja": "日本語",
	"ko": "한국어",
	"th": "ไทย",
	"vi": "Tiếng Việt",
}

var (
	// ErrUnsupportedLocale indicates a locale outside the configured set.
	ErrUnsupportedLocale = errors.New("i18n: unsupported locale")
)

// Selector owns the supported locale set and the current choice.
type Selector struct {
	locales []Locale
	byCode  map[string]Locale
	matcher language.Matcher

	mu      sync.RWMutex
	current Locale
}

// NewSelector builds a selector. The default code must appear in the
// supported set; authored locales keep their instant-switch behaviour
// regardless of ordering.
func NewSelector(defaultCode string, supported []string) (*Selector, error) {
	defaultCode = normalizeCode(defaultCode)
	if defaultCode == "" {
		return nil, errors.New("i18n: default locale is required")
	}
	if len(supported) == 0 {
		return nil, errors.New("i18n: at least one supported locale is required")
	}

	selector := &Selector{byCode: map[string]Locale{}}
	var tags []language.Tag
	for _, raw := range supported {
		code := normalizeCode(raw)
		if code == "" {
			continue
		}
		if _, dup := selector.byCode[code]; dup {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("i18n: invalid locale %q: %w", raw, err)
		}
		_, authored := authoredCodes[code]
		name := nativeNames[code]
		if name == "" {
			name = code
		}
		locale := Locale{Code: code, Name: name, Authored: authored, tag: tag}
		selector.locales = append(selector.locales, locale)
		selector.byCode[code] = locale
		tags = append(tags, tag)
	}

	current, ok := selector.byCode[defaultCode]
	if !ok {
		return nil, fmt.Errorf("%w: default %q is not in the supported set", ErrUnsupportedLocale, defaultCode)
	}

	selector.matcher = language.NewMatcher(tags)
	selector.current = current
	return selector, nil
}

// Supported lists every selectable locale in configuration order.
func (s *Selector) Supported() []Locale {
	return append([]Locale(nil), s.locales...)
}

// Current returns the active locale.
func (s *Selector) Current() Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select switches to the named locale. Switching between the authored pair is
// instant; entering or leaving a translated locale flags a reload, because
// the page translator attaches at document load and cannot rewrite a page it
// already rewrote.
func (s *Selector) Select(code string) (Selection, error) {
	target, ok := s.byCode[normalizeCode(code)]
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnsupportedLocale, code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.current
	s.current = target
	if target.Code == previous.Code {
		return Selection{Locale: target}, nil
	}
	return Selection{
		Locale:         target,
		ReloadRequired: !target.Authored || !previous.Authored,
	}, nil
}

// Match picks the best supported locale for an Accept-Language header. An
// empty or unparsable header yields the current locale.
func (s *Selector) Match(acceptLanguage string) Locale {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return s.Current()
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return s.Current()
	}
	_, index, _ := s.matcher.Match(desired...)
	if index < 0 || index >= len(s.locales) {
		return s.Current()
	}
	return s.locales[index]
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
