// Package navigation models the site's per-section view state and its binding
// to URLs. Each section is either closed or open on one item; the router
// translates between that state and hash- or path-style locations, remembers
// where the visitor came from, and keeps the locale prefix intact.
package navigation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mekong-creative/api/internal/platform/textutil"
)

// Section identifies one openable area of the site.
type Section string

const (
	SectionProjects Section = "projects"
	SectionInsights Section = "insights"
	SectionServices Section = "services"
	SectionTeam     Section = "team"
)

// Sections lists every openable section.
func Sections() []Section {
	return []Section{SectionProjects, SectionInsights, SectionServices, SectionTeam}
}

// URL fragments and path segments, one constant per location the router can
// produce. Nothing below is ever assembled from request input.
const (
	PathHome = "/"

	PathSegmentProjects = "projects"
	PathSegmentInsights = "insights"
	PathSegmentServices = "services"
	PathSegmentTeam     = "team"

	// Conventional internal-id namespaces for embeddings whose stores prefix
	// identifiers; see WithIDPrefixes.
	IDPrefixProject = "project-"
	IDPrefixInsight = "insight-"
	IDPrefixService = "service-"
	IDPrefixMember  = "member-"

	// HashAdmin toggles the editing surface on and off.
	HashAdmin = "admin"
)

var (
	// ErrUnknownSection indicates a section the router does not manage.
	ErrUnknownSection = errors.New("navigation: unknown section")
	// ErrInvalidItem indicates an empty or malformed item id.
	ErrInvalidItem = errors.New("navigation: invalid item")
)

var sectionSegments = map[Section]string{
	SectionProjects: PathSegmentProjects,
	SectionInsights: PathSegmentInsights,
	SectionServices: PathSegmentServices,
	SectionTeam:     PathSegmentTeam,
}

// Mode selects how locations are rendered.
type Mode int

const (
	// ModeHash renders open items as fragments: /#projects/slug.
	ModeHash Mode = iota
	// ModePath renders open items as paths: /projects/slug.
	ModePath
)

// State is the full view state at one moment. Open maps a section to the slug
// of the item open in it; closed sections are absent.
type State struct {
	Open   map[Section]string
	Admin  bool
	Locale string
}

func (s State) clone() State {
	open := make(map[Section]string, len(s.Open))
	for section, slug := range s.Open {
		open[section] = slug
	}
	return State{Open: open, Admin: s.Admin, Locale: s.Locale}
}

// OpenItem returns the slug open in the section, if any.
func (s State) OpenItem(section Section) (string, bool) {
	slug, ok := s.Open[section]
	return slug, ok
}

// History abstracts the location stack the router drives. The browser-backed
// implementation lives with the frontend embedding; Memory serves tests and
// server-side rendering.
type History interface {
	Push(location string)
	Replace(location string)
	Current() string
}

// Memory is an in-process History.
type Memory struct {
	mu      sync.Mutex
	entries []string
}

// NewMemory starts a history at the given location.
func NewMemory(start string) *Memory {
	return &Memory{entries: []string{start}}
}

func (m *Memory) Push(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, location)
}

func (m *Memory) Replace(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		m.entries = []string{location}
		return
	}
	m.entries[len(m.entries)-1] = location
}

func (m *Memory) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return PathHome
	}
	return m.entries[len(m.entries)-1]
}

// Entries returns a copy of the full stack, oldest first.
func (m *Memory) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...)
}

// Router owns the view state and its URL binding.
type Router struct {
	mode          Mode
	history       History
	defaultLocale string
	locales       map[string]struct{}
	idPrefixes    map[Section]string

	mu           sync.Mutex
	state        State
	openOrder    []Section
	previousPath string
}

// Option customises router construction.
type Option func(*Router)

// WithMode selects hash or path rendering; hash is the default.
func WithMode(mode Mode) Option {
	return func(r *Router) {
		r.mode = mode
	}
}

// WithLocales declares the locales that may prefix a path. The first entry is
// the default and never rendered as a prefix.
func WithLocales(defaultLocale string, supported ...string) Option {
	return func(r *Router) {
		defaultLocale = strings.TrimSpace(strings.ToLower(defaultLocale))
		if defaultLocale == "" {
			return
		}
		r.defaultLocale = defaultLocale
		r.locales = map[string]struct{}{defaultLocale: {}}
		for _, locale := range supported {
			locale = strings.TrimSpace(strings.ToLower(locale))
			if locale != "" {
				r.locales[locale] = struct{}{}
			}
		}
	}
}

// WithIDPrefixes declares, per section, the namespace prefix internal ids
// carry, for example "member-". URLs always show the bare slug: rendering
// strips the prefix and parsing restores it. Sections without an entry pass
// their ids through untouched.
func WithIDPrefixes(prefixes map[Section]string) Option {
	return func(r *Router) {
		for section, prefix := range prefixes {
			r.idPrefixes[section] = prefix
		}
	}
}

// NewRouter constructs a router bound to the given history.
func NewRouter(history History, opts ...Option) (*Router, error) {
	if history == nil {
		return nil, errors.New("navigation: history is required")
	}
	router := &Router{
		mode:          ModeHash,
		history:       history,
		defaultLocale: "en",
		locales:       map[string]struct{}{"en": {}, "km": {}},
		idPrefixes:    map[Section]string{},
		state:         State{Open: map[Section]string{}, Locale: "en"},
	}
	for _, opt := range opts {
		opt(router)
	}
	router.state.Locale = router.defaultLocale

	// Adopt whatever location the history starts at.
	router.applyLocation(history.Current())
	return router, nil
}

// State returns a copy of the current view state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Open opens an item in a section and pushes the matching location. The path
// active before the first open is remembered so Close can return to it.
func (r *Router) Open(section Section, slug string) (string, error) {
	if _, ok := sectionSegments[section]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, "/#? ") {
		return "", fmt.Errorf("%w: %q", ErrInvalidItem, slug)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.state.Open) == 0 {
		r.previousPath = r.history.Current()
	}
	r.state.Open[section] = slug
	r.dropFromOrder(section)
	r.openOrder = append(r.openOrder, section)
	location := r.render(r.state)
	r.history.Push(location)
	return location, nil
}

// Close closes a section. When nothing remains open the router returns to the
// path remembered before the first open, provided it still differs from the
// current location; otherwise it falls back to the section's list anchor. The
// memory is spent either way.
func (r *Router) Close(section Section) (string, error) {
	if _, ok := sectionSegments[section]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.state.Open, section)
	r.dropFromOrder(section)
	if len(r.state.Open) > 0 {
		location := r.render(r.state)
		r.history.Push(location)
		return location, nil
	}
	location := r.previousPath
	r.previousPath = ""
	if location == "" || location == r.history.Current() {
		location = r.localizedPath("") + "#" + sectionSegments[section]
	}
	r.history.Push(location)
	return location, nil
}

// ToggleAdmin flips the editing surface and replaces the current location so
// the admin fragment never creates a history entry of its own.
func (r *Router) ToggleAdmin() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Admin = !r.state.Admin
	location := r.render(r.state)
	r.history.Replace(location)
	return location
}

// HandleLocationChange parses an externally driven location (back button,
// deep link) and rebuilds the state from it. Locations the router cannot
// interpret close every section rather than failing.
func (r *Router) HandleLocationChange(location string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyLocation(location)
	return r.state.clone()
}

func (r *Router) applyLocation(location string) {
	state := State{Open: map[Section]string{}, Locale: r.defaultLocale}

	path := location
	fragment := ""
	if idx := strings.Index(location, "#"); idx >= 0 {
		path = location[:idx]
		fragment = location[idx+1:]
	}

	segments := splitPath(path)
	if len(segments) > 0 {
		if _, ok := r.locales[segments[0]]; ok {
			state.Locale = segments[0]
			segments = segments[1:]
		}
	}

	// Path mode encodes one open item as /<section>/<slug>.
	if len(segments) == 2 {
		for section, segment := range sectionSegments {
			if segments[0] == segment {
				state.Open[section] = textutil.AddIDPrefix(segments[1], r.idPrefixes[section])
				break
			}
		}
	}

	switch {
	case fragment == "":
	case fragment == HashAdmin:
		state.Admin = true
	default:
		// Open items hang off the section's list anchor: #projects/slug.
		if seg, raw, ok := strings.Cut(fragment, "/"); ok && raw != "" {
			for section, segment := range sectionSegments {
				if seg == segment {
					state.Open[section] = textutil.AddIDPrefix(raw, r.idPrefixes[section])
					break
				}
			}
		}
		// A bare #section anchor, or anything else the router does not
		// manage, leaves every section closed.
	}

	r.state = state
	r.openOrder = r.openOrder[:0]
	for _, section := range Sections() {
		if _, ok := state.Open[section]; ok {
			r.openOrder = append(r.openOrder, section)
		}
	}
}

// render builds the canonical location for a state. With several sections
// open the most recently opened wins the URL; state keeps them all.
func (r *Router) render(state State) string {
	section, slug, open := r.newestOpen(state)
	if r.mode == ModePath {
		location := r.localizedPath("")
		if open {
			location = r.localizedPath(sectionSegments[section] + "/" + r.urlID(section, slug))
		}
		if state.Admin {
			location += "#" + HashAdmin
		}
		return location
	}

	base := r.localizedPath("")
	switch {
	case state.Admin:
		return base + "#" + HashAdmin
	case open:
		return base + "#" + sectionSegments[section] + "/" + r.urlID(section, slug)
	default:
		return base
	}
}

// newestOpen picks the open item that owns the URL: the one in the most
// recently opened section still present in the state.
func (r *Router) newestOpen(state State) (Section, string, bool) {
	for i := len(r.openOrder) - 1; i >= 0; i-- {
		if slug, ok := state.Open[r.openOrder[i]]; ok {
			return r.openOrder[i], slug, true
		}
	}
	for _, section := range Sections() {
		if slug, ok := state.Open[section]; ok {
			return section, slug, true
		}
	}
	return "", "", false
}

func (r *Router) urlID(section Section, slug string) string {
	return textutil.StripIDPrefix(slug, r.idPrefixes[section])
}

func (r *Router) dropFromOrder(section Section) {
	for i, open := range r.openOrder {
		if open == section {
			r.openOrder = append(r.openOrder[:i], r.openOrder[i+1:]...)
			return
		}
	}
}

// SetLocale switches the locale prefix while keeping the open state.
func (r *Router) SetLocale(locale string) (string, error) {
	locale = strings.TrimSpace(strings.ToLower(locale))
	if _, ok := r.locales[locale]; !ok {
		return "", fmt.Errorf("navigation: unsupported locale %q", locale)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Locale = locale
	location := r.render(r.state)
	r.history.Replace(location)
	return location, nil
}

func (r *Router) localizedPath(rest string) string {
	locale := r.state.Locale
	if locale == "" || locale == r.defaultLocale {
		if rest == "" {
			return PathHome
		}
		return PathHome + rest
	}
	if rest == "" {
		return PathHome + locale
	}
	return PathHome + locale + "/" + rest
}

func splitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		segment = strings.TrimSpace(segment)
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
