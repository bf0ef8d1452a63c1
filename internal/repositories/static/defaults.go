package static

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	domain "github.com/mekong-creative/api/internal/domain"
)

//go:embed content/*.yaml
var contentFS embed.FS

// Defaults holds the content compiled into the binary. It is the floor the
// merged catalogue can never drop below: when the remote store is unreachable
// or empty, these records are what visitors see.
type Defaults struct {
	team     []domain.TeamMember
	projects []domain.Project
	insights []domain.Insight
	services []domain.ServiceOffering
	reviews  []domain.Review
}

// Option customises default-content loading.
type Option func(*loader)

// WithIDGenerator overrides the id generator, primarily for tests that need
// deterministic ids.
func WithIDGenerator(gen func() string) Option {
	return func(l *loader) {
		if gen != nil {
			l.newID = gen
		}
	}
}

type loader struct {
	newID func() string
}

// Load decodes the embedded catalogue files. Every record receives a locally
// generated ULID id, which marks it as bundled rather than remote.
func Load(opts ...Option) (*Defaults, error) {
	l := &loader{newID: func() string { return ulid.Make().String() }}
	for _, opt := range opts {
		opt(l)
	}

	defaults := &Defaults{}

	var teamDoc struct {
		Team []teamEntry `yaml:"team"`
	}
	if err := l.decode("content/team.yaml", &teamDoc); err != nil {
		return nil, err
	}
	for _, entry := range teamDoc.Team {
		member, err := entry.toDomain(l.newID())
		if err != nil {
			return nil, fmt.Errorf("bundled team: %w", err)
		}
		defaults.team = append(defaults.team, member)
	}

	var projectDoc struct {
		Projects []projectEntry `yaml:"projects"`
	}
	if err := l.decode("content/projects.yaml", &projectDoc); err != nil {
		return nil, err
	}
	for _, entry := range projectDoc.Projects {
		project, err := entry.toDomain(l.newID())
		if err != nil {
			return nil, fmt.Errorf("bundled projects: %w", err)
		}
		defaults.projects = append(defaults.projects, project)
	}

	var insightDoc struct {
		Insights []insightEntry `yaml:"insights"`
	}
	if err := l.decode("content/insights.yaml", &insightDoc); err != nil {
		return nil, err
	}
	for _, entry := range insightDoc.Insights {
		insight, err := entry.toDomain(l.newID())
		if err != nil {
			return nil, fmt.Errorf("bundled insights: %w", err)
		}
		defaults.insights = append(defaults.insights, insight)
	}

	var serviceDoc struct {
		Services []serviceEntry `yaml:"services"`
	}
	if err := l.decode("content/services.yaml", &serviceDoc); err != nil {
		return nil, err
	}
	for _, entry := range serviceDoc.Services {
		offering, err := entry.toDomain(l.newID())
		if err != nil {
			return nil, fmt.Errorf("bundled services: %w", err)
		}
		defaults.services = append(defaults.services, offering)
	}

	var reviewDoc struct {
		Reviews []reviewEntry `yaml:"reviews"`
	}
	if err := l.decode("content/reviews.yaml", &reviewDoc); err != nil {
		return nil, err
	}
	for _, entry := range reviewDoc.Reviews {
		review, err := entry.toDomain(l.newID())
		if err != nil {
			return nil, fmt.Errorf("bundled reviews: %w", err)
		}
		defaults.reviews = append(defaults.reviews, review)
	}

	return defaults, nil
}

// decode parses one embedded document, rejecting keys the entry structs do
// not enumerate so a content edit with a typo fails at startup.
func (l *loader) decode(name string, dest any) error {
	data, err := contentFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Team returns a copy of the bundled member profiles.
func (d *Defaults) Team() []domain.TeamMember {
	return append([]domain.TeamMember(nil), d.team...)
}

// Projects returns a copy of the bundled case studies.
func (d *Defaults) Projects() []domain.Project {
	return append([]domain.Project(nil), d.projects...)
}

// Insights returns a copy of the bundled articles.
func (d *Defaults) Insights() []domain.Insight {
	return append([]domain.Insight(nil), d.insights...)
}

// Services returns a copy of the bundled offerings.
func (d *Defaults) Services() []domain.ServiceOffering {
	return append([]domain.ServiceOffering(nil), d.services...)
}

// Reviews returns a copy of the bundled testimonials.
func (d *Defaults) Reviews() []domain.Review {
	return append([]domain.Review(nil), d.reviews...)
}

// Entry structs mirror the YAML documents field for field.

type localizedEntry struct {
	En string `yaml:"en"`
	Km string `yaml:"km"`
}

func (e localizedEntry) toDomain() domain.LocalizedText {
	return domain.LocalizedText{En: e.En, Km: e.Km}
}

type linksEntry struct {
	LinkedIn  string `yaml:"linkedin"`
	Telegram  string `yaml:"telegram"`
	Behance   string `yaml:"behance"`
	Instagram string `yaml:"instagram"`
}

type teamEntry struct {
	Slug     string         `yaml:"slug"`
	Name     localizedEntry `yaml:"name"`
	Role     localizedEntry `yaml:"role"`
	Bio      localizedEntry `yaml:"bio"`
	PhotoURL string         `yaml:"photo_url"`
	Links    linksEntry     `yaml:"links"`
}

func (e teamEntry) toDomain(id string) (domain.TeamMember, error) {
	if strings.TrimSpace(e.Slug) == "" {
		return domain.TeamMember{}, fmt.Errorf("entry %q is missing a slug", e.Name.En)
	}
	return domain.TeamMember{
		ID:       id,
		Slug:     e.Slug,
		Name:     e.Name.toDomain(),
		Role:     e.Role.toDomain(),
		Bio:      e.Bio.toDomain(),
		PhotoURL: e.PhotoURL,
		Links: domain.SocialLinks{
			LinkedIn:  e.Links.LinkedIn,
			Telegram:  e.Links.Telegram,
			Behance:   e.Links.Behance,
			Instagram: e.Links.Instagram,
		},
	}, nil
}

type projectEntry struct {
	Slug     string         `yaml:"slug"`
	Title    localizedEntry `yaml:"title"`
	Client   string         `yaml:"client"`
	Summary  localizedEntry `yaml:"summary"`
	BodyHTML string         `yaml:"body_html"`
	CoverURL string         `yaml:"cover_url"`
	Gallery  []string       `yaml:"gallery"`
	Services []string       `yaml:"services"`
	Year     int            `yaml:"year"`
	Featured bool           `yaml:"featured"`
}

func (e projectEntry) toDomain(id string) (domain.Project, error) {
	if strings.TrimSpace(e.Slug) == "" {
		return domain.Project{}, fmt.Errorf("entry %q is missing a slug", e.Title.En)
	}
	return domain.Project{
		ID:       id,
		Slug:     e.Slug,
		Title:    e.Title.toDomain(),
		Client:   e.Client,
		Summary:  e.Summary.toDomain(),
		BodyHTML: e.BodyHTML,
		CoverURL: e.CoverURL,
		Gallery:  append([]string(nil), e.Gallery...),
		Services: append([]string(nil), e.Services...),
		Year:     e.Year,
		Featured: e.Featured,
	}, nil
}

type insightEntry struct {
	Slug         string         `yaml:"slug"`
	Title        localizedEntry `yaml:"title"`
	Excerpt      localizedEntry `yaml:"excerpt"`
	BodyMarkdown string         `yaml:"body_markdown"`
	CoverURL     string         `yaml:"cover_url"`
	Author       string         `yaml:"author"`
	Tags         []string       `yaml:"tags"`
	PublishedAt  string         `yaml:"published_at"`
}

func (e insightEntry) toDomain(id string) (domain.Insight, error) {
	if strings.TrimSpace(e.Slug) == "" {
		return domain.Insight{}, fmt.Errorf("entry %q is missing a slug", e.Title.En)
	}
	var publishedAt time.Time
	if strings.TrimSpace(e.PublishedAt) != "" {
		parsed, err := time.Parse("2006-01-02", e.PublishedAt)
		if err != nil {
			return domain.Insight{}, fmt.Errorf("entry %q: invalid published_at: %w", e.Slug, err)
		}
		publishedAt = parsed
	}
	return domain.Insight{
		ID:           id,
		Slug:         e.Slug,
		Title:        e.Title.toDomain(),
		Excerpt:      e.Excerpt.toDomain(),
		BodyMarkdown: e.BodyMarkdown,
		CoverURL:     e.CoverURL,
		Author:       e.Author,
		Tags:         append([]string(nil), e.Tags...),
		PublishedAt:  publishedAt,
	}, nil
}

type serviceEntry struct {
	Slug        string         `yaml:"slug"`
	Title       localizedEntry `yaml:"title"`
	Description localizedEntry `yaml:"description"`
	Icon        string         `yaml:"icon"`
}

func (e serviceEntry) toDomain(id string) (domain.ServiceOffering, error) {
	if strings.TrimSpace(e.Slug) == "" {
		return domain.ServiceOffering{}, fmt.Errorf("entry %q is missing a slug", e.Title.En)
	}
	return domain.ServiceOffering{
		ID:          id,
		Slug:        e.Slug,
		Title:       e.Title.toDomain(),
		Description: e.Description.toDomain(),
		Icon:        e.Icon,
	}, nil
}

type reviewEntry struct {
	Slug      string         `yaml:"slug"`
	Author    string         `yaml:"author"`
	Company   string         `yaml:"company"`
	Quote     localizedEntry `yaml:"quote"`
	Rating    int            `yaml:"rating"`
	AvatarURL string         `yaml:"avatar_url"`
}

func (e reviewEntry) toDomain(id string) (domain.Review, error) {
	if strings.TrimSpace(e.Slug) == "" {
		return domain.Review{}, fmt.Errorf("entry by %q is missing a slug", e.Author)
	}
	if e.Rating < 1 || e.Rating > 5 {
		return domain.Review{}, fmt.Errorf("entry %q: rating must be between 1 and 5", e.Slug)
	}
	return domain.Review{
		ID:        id,
		Slug:      e.Slug,
		Author:    e.Author,
		Company:   e.Company,
		Quote:     e.Quote.toDomain(),
		Rating:    e.Rating,
		AvatarURL: e.AvatarURL,
	}, nil
}
