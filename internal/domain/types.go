package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pagination defines standard cursor-based paging inputs for list operations.
type Pagination struct {
	PageSize  int
	PageToken string
}

// SortOrder indicates ascending or descending ordering for list queries.
type SortOrder string

const (
	// SortAsc sorts results in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts results in descending order.
	SortDesc SortOrder = "desc"
)

// Category identifies one content catalogue.
type Category string

const (
	// CategoryTeam holds studio member profiles with a persisted display order.
	CategoryTeam Category = "team"
	// CategoryProjects holds portfolio case studies.
	CategoryProjects Category = "projects"
	// CategoryInsights holds long-form articles.
	CategoryInsights Category = "insights"
	// CategoryServices holds the service offerings shown on the landing page.
	CategoryServices Category = "services"
	// CategoryReviews holds client testimonials.
	CategoryReviews Category = "reviews"
	// CategoryComments holds reader comments attached to insights.
	CategoryComments Category = "comments"
)

// Categories lists every catalogue category in display order.
func Categories() []Category {
	return []Category{
		CategoryTeam,
		CategoryProjects,
		CategoryInsights,
		CategoryServices,
		CategoryReviews,
		CategoryComments,
	}
}

// ParseCategory maps a request segment onto a known category.
func ParseCategory(value string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryTeam:
		return CategoryTeam, true
	case CategoryProjects:
		return CategoryProjects, true
	case CategoryInsights:
		return CategoryInsights, true
	case CategoryServices:
		return CategoryServices, true
	case CategoryReviews:
		return CategoryReviews, true
	case CategoryComments:
		return CategoryComments, true
	default:
		return "", false
	}
}

// HasRemoteIdentity reports whether the identifier was assigned by the remote
// store. Remote rows carry UUID ids; bundled defaults carry ULIDs generated at
// load, so the shape of the id is enough to tell the two apart.
func HasRemoteIdentity(id string) bool {
	return uuid.Validate(strings.TrimSpace(id)) == nil
}

// CatalogItem is the identity surface shared by every catalogue record.
type CatalogItem interface {
	ItemID() string
	ItemSlug() string
	OrderIndex() *int
}

// LocalizedText carries the two authored translations of a string. Locales
// outside the authored pair are produced by the external page translator and
// never stored.
type LocalizedText struct {
	En string `json:"en" yaml:"en"`
	Km string `json:"km" yaml:"km"`
}

// SocialLinks enumerates the profile links shown on a team member card.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Telegram  string `json:"telegram,omitempty" yaml:"telegram,omitempty"`
	Behance   string `json:"behance,omitempty" yaml:"behance,omitempty"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram,omitempty"`
}

// TeamMember is a studio member profile. DisplayOrder is nil until the row has
// been migrated to the remote store by a reorder.
type TeamMember struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Name         LocalizedText `json:"name"`
	Role         LocalizedText `json:"role"`
	Bio          LocalizedText `json:"bio"`
	PhotoURL     string        `json:"photo_url"`
	Links        SocialLinks   `json:"links"`
	DisplayOrder *int          `json:"display_order"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (m TeamMember) ItemID() string   { return m.ID }
func (m TeamMember) ItemSlug() string { return m.Slug }
func (m TeamMember) OrderIndex() *int { return m.DisplayOrder }

// Project is a portfolio case study.
type Project struct {
	ID        string        `json:"id"`
	Slug      string        `json:"slug"`
	Title     LocalizedText `json:"title"`
	Client    string        `json:"client"`
	Summary   LocalizedText `json:"summary"`
	BodyHTML  string        `json:"body_html"`
	CoverURL  string        `json:"cover_url"`
	Gallery   []string      `json:"gallery"`
	Services  []string      `json:"services"`
	Year      int           `json:"year"`
	Featured  bool          `json:"featured"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (p Project) ItemID() string   { return p.ID }
func (p Project) ItemSlug() string { return p.Slug }
func (p Project) OrderIndex() *int { return nil }

// Insight is a long-form article. BodyMarkdown is the authored source;
// BodyHTML is the sanitised render served to clients.
type Insight struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Title        LocalizedText `json:"title"`
	Excerpt      LocalizedText `json:"excerpt"`
	BodyMarkdown string        `json:"body_markdown"`
	BodyHTML     string        `json:"body_html"`
	CoverURL     string        `json:"cover_url"`
	Author       string        `json:"author"`
	Tags         []string      `json:"tags"`
	PublishedAt  time.Time     `json:"published_at"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (i Insight) ItemID() string   { return i.ID }
func (i Insight) ItemSlug() string { return i.Slug }
func (i Insight) OrderIndex() *int { return nil }

// ServiceOffering is one entry of the services section.
type ServiceOffering struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Icon        string        `json:"icon"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (s ServiceOffering) ItemID() string   { return s.ID }
func (s ServiceOffering) ItemSlug() string { return s.Slug }
func (s ServiceOffering) OrderIndex() *int { return nil }

// Review is a client testimonial.
type Review struct {
	ID        string        `json:"id"`
	Slug      string        `json:"slug"`
	Author    string        `json:"author"`
	Company   string        `json:"company"`
	Quote     LocalizedText `json:"quote"`
	Rating    int           `json:"rating"`
	AvatarURL string        `json:"avatar_url"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (r Review) ItemID() string   { return r.ID }
func (r Review) ItemSlug() string { return r.Slug }
func (r Review) OrderIndex() *int { return nil }

// Comment is a reader comment attached to an insight.
type Comment struct {
	ID          string    `json:"id"`
	InsightSlug string    `json:"insight_slug"`
	Author      string    `json:"author"`
	Body        string    `json:"body"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// Catalogue is the merged, ordered, read-only view of every category. Slices
// are copies; mutating them does not affect the reconciler state.
type Catalogue struct {
	Team     []TeamMember      `json:"team"`
	Projects []Project         `json:"projects"`
	Insights []Insight         `json:"insights"`
	Services []ServiceOffering `json:"services"`
	Reviews  []Review          `json:"reviews"`
}

// ContactSubmission is one contact-form submission relayed to the messaging
// side channel.
type ContactSubmission struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	Locale  string
}

// CursorPage packages list results with an encoded next token.
type CursorPage[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token"`
}

// Health status values reported by readiness probes.
const (
	// HealthStatusOK indicates all dependencies are healthy.
	HealthStatusOK = "ok"
	// HealthStatusDegraded indicates at least one dependency is degraded but service remains running.
	HealthStatusDegraded = "degraded"
	// HealthStatusError indicates the service or a critical dependency is unavailable.
	HealthStatusError = "error"
)

// SystemHealthCheck describes the outcome of an individual dependency probe.
type SystemHealthCheck struct {
	Status    string
	Detail    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// SystemHealthReport aggregates dependency status for health endpoints.
type SystemHealthReport struct {
	Status      string
	Checks      map[string]SystemHealthCheck
	Version     string
	CommitSHA   string
	Environment string
	Uptime      time.Duration
	GeneratedAt time.Time
}
