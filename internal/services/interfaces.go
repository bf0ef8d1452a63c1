package services

import (
	"context"

	domain "github.com/mekong-creative/api/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Category           = domain.Category
	Catalogue          = domain.Catalogue
	TeamMember         = domain.TeamMember
	Project            = domain.Project
	Insight            = domain.Insight
	ServiceOffering    = domain.ServiceOffering
	Review             = domain.Review
	Comment            = domain.Comment
	ContactSubmission  = domain.ContactSubmission
	SystemHealthReport = domain.SystemHealthReport
)

// CatalogService owns the merged content snapshot served to visitors. It
// reconciles bundled defaults with remotely stored rows and carries the team
// reorder workflow.
type CatalogService interface {
	// Catalogue returns the current merged snapshot.
	Catalogue(ctx context.Context) (Catalogue, error)
	Team(ctx context.Context) ([]TeamMember, error)
	Projects(ctx context.Context) ([]Project, error)
	Insights(ctx context.Context) ([]Insight, error)
	Services(ctx context.Context) ([]ServiceOffering, error)
	Reviews(ctx context.Context) ([]Review, error)
	ProjectBySlug(ctx context.Context, slug string) (Project, error)
	InsightBySlug(ctx context.Context, slug string) (Insight, error)
	CommentsForInsight(ctx context.Context, insightSlug string) ([]Comment, error)
	// Refresh refetches remote rows and rebuilds the snapshot. Remote failures
	// are absorbed: the previous snapshot keeps serving.
	Refresh(ctx context.Context) error
	// ReorderTeam applies a new member order optimistically, migrates bundled
	// profiles to the remote store, and rolls the snapshot back when
	// persistence fails.
	ReorderTeam(ctx context.Context, cmd ReorderTeamCommand) ([]TeamMember, error)
}

// ContentService carries the authenticated editing surface: typed create,
// update and delete per category, plus rich-text conversion for articles.
type ContentService interface {
	SaveTeamMember(ctx context.Context, cmd SaveTeamMemberCommand) (TeamMember, error)
	DeleteTeamMember(ctx context.Context, memberID string) error

	SaveProject(ctx context.Context, cmd SaveProjectCommand) (Project, error)
	DeleteProject(ctx context.Context, projectID string) error

	SaveInsight(ctx context.Context, cmd SaveInsightCommand) (Insight, error)
	DeleteInsight(ctx context.Context, insightID string) error

	SaveService(ctx context.Context, cmd SaveServiceCommand) (ServiceOffering, error)
	DeleteService(ctx context.Context, offeringID string) error

	SaveReview(ctx context.Context, cmd SaveReviewCommand) (Review, error)
	DeleteReview(ctx context.Context, reviewID string) error

	SubmitComment(ctx context.Context, cmd SubmitCommentCommand) (Comment, error)
	ModerateComment(ctx context.Context, commentID string, approved bool) error
	DeleteComment(ctx context.Context, commentID string) error
}

// ContactService relays contact-form submissions to the messaging side channel.
type ContactService interface {
	Submit(ctx context.Context, submission ContactSubmission) error
}

// PublishService exports the merged catalogue and commits it to the site
// repository so a static rebuild picks it up.
type PublishService interface {
	Publish(ctx context.Context, cmd PublishCommand) (PublishResult, error)
}

// SettingsService swaps remote store, publish, and relay credentials at
// runtime without a restart.
type SettingsService interface {
	UpdateStoreCredentials(ctx context.Context, cmd StoreCredentialsCommand) error
	UpdatePublishTarget(ctx context.Context, cmd PublishTargetCommand) error
	UpdateRelayCredentials(ctx context.Context, cmd RelayCredentialsCommand) error
}

// SystemService provides health reports and runtime metadata.
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}

// Command and DTO definitions ------------------------------------------------

// ReorderTeamCommand carries the full member ordering as the editor arranged it.
type ReorderTeamCommand struct {
	// MemberIDs lists every member id in the desired display order.
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,required"`
}

// SaveTeamMemberCommand creates a member when ID is empty, updates it otherwise.
type SaveTeamMemberCommand struct {
	ID       string             `json:"id"`
	Slug     string             `json:"slug" validate:"omitempty,max=120"`
	NameEn   string             `json:"name_en" validate:"required,max=200"`
	NameKm   string             `json:"name_km" validate:"max=200"`
	RoleEn   string             `json:"role_en" validate:"required,max=200"`
	RoleKm   string             `json:"role_km" validate:"max=200"`
	BioEn    string             `json:"bio_en" validate:"max=4000"`
	BioKm    string             `json:"bio_km" validate:"max=4000"`
	PhotoURL string             `json:"photo_url" validate:"omitempty,url|uri"`
	Links    domain.SocialLinks `json:"links"`
}

// SaveProjectCommand creates a project when ID is empty, updates it otherwise.
type SaveProjectCommand struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug" validate:"omitempty,max=120"`
	TitleEn   string   `json:"title_en" validate:"required,max=300"`
	TitleKm   string   `json:"title_km" validate:"max=300"`
	Client    string   `json:"client" validate:"max=200"`
	SummaryEn string   `json:"summary_en" validate:"max=2000"`
	SummaryKm string   `json:"summary_km" validate:"max=2000"`
	BodyHTML  string   `json:"body_html"`
	CoverURL  string   `json:"cover_url" validate:"omitempty,url|uri"`
	Gallery   []string `json:"gallery" validate:"dive,url|uri"`
	Services  []string `json:"services" validate:"dive,max=80"`
	Year      int      `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	Featured  bool     `json:"featured"`
}

// SaveInsightCommand creates an insight when ID is empty, updates it otherwise.
// Exactly one of BodyMarkdown and BodyHTML must be provided: markdown is the
// authored source, HTML is converted to markdown on import.
type SaveInsightCommand struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug" validate:"omitempty,max=120"`
	TitleEn      string   `json:"title_en" validate:"required,max=300"`
	TitleKm      string   `json:"title_km" validate:"max=300"`
	ExcerptEn    string   `json:"excerpt_en" validate:"max=1000"`
	ExcerptKm    string   `json:"excerpt_km" validate:"max=1000"`
	BodyMarkdown string   `json:"body_markdown"`
	BodyHTML     string   `json:"body_html"`
	CoverURL     string   `json:"cover_url" validate:"omitempty,url|uri"`
	Author       string   `json:"author" validate:"max=200"`
	Tags         []string `json:"tags" validate:"dive,max=60"`
	PublishedAt  string   `json:"published_at" validate:"omitempty,datetime=2006-01-02"`
}

// SaveServiceCommand creates an offering when ID is empty, updates it otherwise.
type SaveServiceCommand struct {
	ID            string `json:"id"`
	Slug          string `json:"slug" validate:"omitempty,max=120"`
	TitleEn       string `json:"title_en" validate:"required,max=200"`
	TitleKm       string `json:"title_km" validate:"max=200"`
	DescriptionEn string `json:"description_en" validate:"max=2000"`
	DescriptionKm string `json:"description_km" validate:"max=2000"`
	Icon          string `json:"icon" validate:"max=60"`
}

// SaveReviewCommand creates a testimonial when ID is empty, updates it otherwise.
type SaveReviewCommand struct {
	ID        string `json:"id"`
	Slug      string `json:"slug" validate:"omitempty,max=120"`
	Author    string `json:"author" validate:"required,max=200"`
	Company   string `json:"company" validate:"max=200"`
	QuoteEn   string `json:"quote_en" validate:"required,max=2000"`
	QuoteKm   string `json:"quote_km" validate:"max=2000"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url|uri"`
}

// SubmitCommentCommand is the public comment form payload.
type SubmitCommentCommand struct {
	InsightSlug string `json:"insight_slug" validate:"required,max=120"`
	Author      string `json:"author" validate:"required,max=200"`
	Body        string `json:"body" validate:"required,max=4000"`
}

// PublishCommand triggers an export-and-commit of the current catalogue.
type PublishCommand struct {
	// Message overrides the default commit message when present.
	Message string `json:"message" validate:"max=300"`
}

// PublishResult reports where the export landed.
type PublishResult struct {
	CommitSHA string `json:"commit_sha"`
	Path      string `json:"path"`
	Branch    string `json:"branch"`
}

// StoreCredentialsCommand carries a new remote store endpoint and key.
type StoreCredentialsCommand struct {
	EndpointURL string `json:"endpoint_url" validate:"required,url"`
	APIKey      string `json:"api_key" validate:"required,min=8"`
}

// PublishTargetCommand points publishing at a different repository.
type PublishTargetCommand struct {
	Owner  string `json:"owner" validate:"required,max=100"`
	Repo   string `json:"repo" validate:"required,max=100"`
	Branch string `json:"branch" validate:"omitempty,max=100"`
	Token  string `json:"token" validate:"required,min=8"`
}

// RelayCredentialsCommand swaps the messaging bot and destination chat.
type RelayCredentialsCommand struct {
	BotToken string `json:"bot_token" validate:"required,min=8"`
	ChatID   string `json:"chat_id" validate:"required,max=64"`
}
