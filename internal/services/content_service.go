package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/platform/textutil"
	"github.com/mekong-creative/api/internal/repositories"
)

var (
	// ErrContentInvalidInput indicates validation failures for editing operations.
	ErrContentInvalidInput = errors.New("content: invalid input")
	// ErrContentNotFound indicates the record to edit does not exist remotely.
	ErrContentNotFound = errors.New("content: not found")
	// ErrContentUnavailable indicates the remote store rejected or could not
	// serve the edit. Bundled content itself is immutable.
	ErrContentUnavailable = errors.New("content: store unavailable")
)

// Refresher rebuilds the merged snapshot after an edit lands.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ContentServiceDeps bundles collaborators required to construct a ContentService.
type ContentServiceDeps struct {
	Team        repositories.TeamRepository
	Projects    repositories.ProjectRepository
	Insights    repositories.InsightRepository
	Services    repositories.ServiceRepository
	Reviews     repositories.ReviewRepository
	Comments    repositories.CommentRepository
	Catalog     Refresher
	Logger      *zap.Logger
	Clock       func() time.Time
	IDGenerator func() string
	Validator   *validator.Validate
}

type contentService struct {
	team     repositories.TeamRepository
	projects repositories.ProjectRepository
	insights repositories.InsightRepository
	services repositories.ServiceRepository
	reviews  repositories.ReviewRepository
	comments repositories.CommentRepository
	catalog  Refresher
	logger   *zap.Logger
	clock    func() time.Time
	newID    func() string
	validate *validator.Validate
	richtext *richtextPipeline
}

var _ ContentService = (*contentService)(nil)

// NewContentService wires dependencies into a concrete ContentService implementation.
func NewContentService(deps ContentServiceDeps) (ContentService, error) {
	if deps.Team == nil || deps.Projects == nil || deps.Insights == nil || deps.Services == nil || deps.Reviews == nil {
		return nil, errors.New("content service: content repositories are required")
	}
	if deps.Comments == nil {
		return nil, errors.New("content service: comment repository is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("content service: catalog refresher is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	validate := deps.Validator
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &contentService{
		team:     deps.Team,
		projects: deps.Projects,
		insights: deps.Insights,
		services: deps.Services,
		reviews:  deps.Reviews,
		comments: deps.Comments,
		catalog:  deps.Catalog,
		logger:   logger,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID:    idGen,
		validate: validate,
		richtext: newRichtextPipeline(),
	}, nil
}

func (s *contentService) SaveTeamMember(ctx context.Context, cmd SaveTeamMemberCommand) (domain.TeamMember, error) {
	if ctx == nil {
		return domain.TeamMember{}, errors.New("content service: context is required")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return domain.TeamMember{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}

	member := domain.TeamMember{
		ID:       strings.TrimSpace(cmd.ID),
		Slug:     s.deriveSlug(cmd.Slug, cmd.NameEn),
		Name:     domain.LocalizedText{En: cmd.NameEn, Km: cmd.NameKm},
		Role:     domain.LocalizedText{En: cmd.RoleEn, Km: cmd.RoleKm},
		Bio:      domain.LocalizedText{En: cmd.BioEn, Km: cmd.BioKm},
		PhotoURL: strings.TrimSpace(cmd.PhotoURL),
		Links:    cmd.Links,
	}

	if member.ID == "" {
		saved, err := s.team.Insert(ctx, member)
		if err != nil {
			return domain.TeamMember{}, s.translate(err)
		}
		s.refresh(ctx)
		return saved, nil
	}
	saved, err := s.team.Update(ctx, member)
	if err != nil {
		return domain.TeamMember{}, s.translate(err)
	}
	s.refresh(ctx)
	return saved, nil
}

func (s *contentService) DeleteTeamMember(ctx context.Context, memberID string) error {
	return s.deleteByID(ctx, memberID, s.team.Delete)
}

func (s *contentService) SaveProject(ctx context.Context, cmd SaveProjectCommand) (domain.Project, error) {
	if ctx == nil {
		return domain.Project{}, errors.New("content service: context is required")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Project{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}

	project := domain.Project{
		ID:       strings.TrimSpace(cmd.ID),
		Slug:     s.deriveSlug(cmd.Slug, cmd.TitleEn),
		Title:    domain.LocalizedText{En: cmd.TitleEn, Km: cmd.TitleKm},
		Client:   strings.TrimSpace(cmd.Client),
		Summary:  domain.LocalizedText{En: cmd.SummaryEn, Km: cmd.SummaryKm},
		BodyHTML: cmd.BodyHTML,
		CoverURL: strings.TrimSpace(cmd.CoverURL),
		Gallery:  cmd.Gallery,
		Services: cmd.Services,
		Year:     cmd.Year,
		Featured: cmd.Featured,
	}

	if project.ID == "" {
		saved, err := s.projects.Insert(ctx, project)
		if err != nil {
			return domain.Project{}, s.translate(err)
		}
		s.refresh(ctx)
		return saved, nil
	}
	saved, err := s.projects.Update(ctx, project)
	if err != nil {
		return domain.Project{}, s.translate(err)
	}
	s.refresh(ctx)
	return saved, nil
}

func (s *contentService) DeleteProject(ctx context.Context, projectID string) error {
	return s.deleteByID(ctx, projectID, s.projects.Delete)
}

// SaveInsight stores an article. Markdown is the canonical body: when the
// command carries HTML instead, it is converted to markdown first, then
// rendered back to the sanitised HTML that clients receive.
func (s *contentService) SaveInsight(ctx context.Context, cmd SaveInsightCommand) (domain.Insight, error) {
	if ctx == nil {
		return domain.Insight{}, errors.New("content service: context is required")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Insight{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}

	hasMarkdown := strings.TrimSpace(cmd.BodyMarkdown) != ""
	hasHTML := strings.TrimSpace(cmd.BodyHTML) != ""
	if hasMarkdown == hasHTML {
		return domain.Insight{}, fmt.Errorf("%w: exactly one of body_markdown and body_html is required", ErrContentInvalidInput)
	}

	source := cmd.BodyMarkdown
	if hasHTML {
		imported, err := s.richtext.Import(cmd.BodyHTML)
		if err != nil {
			return domain.Insight{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
		}
		source = imported
	}
	rendered, err := s.richtext.Render(source)
	if err != nil {
		return domain.Insight{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}

	var publishedAt time.Time
	if strings.TrimSpace(cmd.PublishedAt) != "" {
		publishedAt, err = time.Parse("2006-01-02", cmd.PublishedAt)
		if err != nil {
			return domain.Insight{}, fmt.Errorf("%w: invalid published_at", ErrContentInvalidInput)
		}
	} else {
		publishedAt = s.clock()
	}

	insight := domain.Insight{
		ID:           strings.TrimSpace(cmd.ID),
		Slug:         s.deriveSlug(cmd.Slug, cmd.TitleEn),
		Title:        domain.LocalizedText{En: cmd.TitleEn, Km: cmd.TitleKm},
		Excerpt:      domain.LocalizedText{En: cmd.ExcerptEn, Km: cmd.ExcerptKm},
		BodyMarkdown: source,
		BodyHTML:     rendered,
		CoverURL:     strings.TrimSpace(cmd.CoverURL),
		Author:       strings.TrimSpace(cmd.Author),
		Tags:         cmd.Tags,
		PublishedAt:  publishedAt,
	}

	if insight.ID == "" {
		saved, err := s.insights.Insert(ctx, insight)
		if err != nil {
			return domain.Insight{}, s.translate(err)
		}
		s.refresh(ctx)
		return saved, nil
	}
	saved, err := s.insights.Update(ctx, insight)
	if err != nil {
		return domain.Insight{}, s.translate(err)
	}
	s.refresh(ctx)
	return saved, nil
}

func (s *contentService) DeleteInsight(ctx context.Context, insightID string) error {
	return s.deleteByID(ctx, insightID, s.insights.Delete)
}

func (s *contentService) SaveService(ctx context.Context, cmd SaveServiceCommand) (domain.ServiceOffering, error) {
	if ctx == nil {
		return domain.ServiceOffering{}, errors.New("content service: context is required")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return domain.ServiceOffering{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}

	offering := domain.ServiceOffering{
		ID:          strings.TrimSpace(cmd.ID),
		Slug:        s.deriveSlug(cmd.Slug, cmd.TitleEn),
		Title:       domain.LocalizedText{En: cmd.TitleEn, Km: cmd.TitleKm},
		Description: domain.LocalizedText{En: cmd.DescriptionEn, Km: cmd.DescriptionKm},
		Icon:        strings.TrimSpace(cmd.Icon),
	}

	if offering.ID == "" {
		saved, err := s.services.Insert(ctx, offering)
		if err != nil {
			return domain.ServiceOffering{}, s.translate(err)
		}
		s.refresh(ctx)
		return saved, nil
	}
	saved, err := s.services.Update(ctx, offering)
	if err != nil {
		return domain.ServiceOffering{}, s.translate(err)
	}
	s.refresh(ctx)
	return saved, nil
}

func (s *contentService) DeleteService(ctx context.Context, offeringID string) error {
	return s.deleteByID(ctx, offeringID, s.services.Delete)
}

func (s *contentService) SaveReview(ctx context.Context, cmd SaveReviewCommand) (domain.Review, error) {
	if ctx == nil {
		return domain.Review{}, errors.New("content service: context is required")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Review{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}

	review := domain.Review{
		ID:        strings.TrimSpace(cmd.ID),
		Slug:      s.deriveSlug(cmd.Slug, cmd.Author),
		Author:    strings.TrimSpace(cmd.Author),
		Company:   strings.TrimSpace(cmd.Company),
		Quote:     domain.LocalizedText{En: cmd.QuoteEn, Km: cmd.QuoteKm},
		Rating:    cmd.Rating,
		AvatarURL: strings.TrimSpace(cmd.AvatarURL),
	}

	if review.ID == "" {
		saved, err := s.reviews.Insert(ctx, review)
		if err != nil {
			return domain.Review{}, s.translate(err)
		}
		s.refresh(ctx)
		return saved, nil
	}
	saved, err := s.reviews.Update(ctx, review)
	if err != nil {
		return domain.Review{}, s.translate(err)
	}
	s.refresh(ctx)
	return saved, nil
}

func (s *contentService) DeleteReview(ctx context.Context, reviewID string) error {
	return s.deleteByID(ctx, reviewID, s.reviews.Delete)
}

// SubmitComment stores a reader comment awaiting moderation.
func (s *contentService) SubmitComment(ctx context.Context, cmd SubmitCommentCommand) (domain.Comment, error) {
	if ctx == nil {
		return domain.Comment{}, errors.New("content service: context is required")
	}
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Comment{}, fmt.Errorf("%w: %v", ErrContentInvalidInput, err)
	}

	comment := domain.Comment{
		InsightSlug: strings.TrimSpace(cmd.InsightSlug),
		Author:      strings.TrimSpace(cmd.Author),
		Body:        strings.TrimSpace(cmd.Body),
		Approved:    false,
		CreatedAt:   s.clock(),
	}
	saved, err := s.comments.Insert(ctx, comment)
	if err != nil {
		return domain.Comment{}, s.translate(err)
	}
	return saved, nil
}

func (s *contentService) ModerateComment(ctx context.Context, commentID string, approved bool) error {
	if ctx == nil {
		return errors.New("content service: context is required")
	}
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return fmt.Errorf("%w: comment id is required", ErrContentInvalidInput)
	}
	if err := s.comments.SetApproved(ctx, commentID, approved); err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *contentService) DeleteComment(ctx context.Context, commentID string) error {
	if ctx == nil {
		return errors.New("content service: context is required")
	}
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return fmt.Errorf("%w: comment id is required", ErrContentInvalidInput)
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *contentService) deleteByID(ctx context.Context, id string, remove func(context.Context, string) error) error {
	if ctx == nil {
		return errors.New("content service: context is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrContentInvalidInput)
	}
	if !domain.HasRemoteIdentity(id) {
		// Bundled records have no remote row; there is nothing to delete.
		return fmt.Errorf("%w: bundled content cannot be deleted", ErrContentInvalidInput)
	}
	if err := remove(ctx, id); err != nil {
		return s.translate(err)
	}
	s.refresh(ctx)
	return nil
}

// deriveSlug prefers the explicit slug, then one derived from the English
// title. Titles that slugify to nothing (pure Khmer, symbols) fall back to a
// generated id so the record is still addressable.
func (s *contentService) deriveSlug(explicit, title string) string {
	if slug := textutil.Slugify(explicit); slug != "" {
		return slug
	}
	if slug := textutil.Slugify(title); slug != "" {
		return slug
	}
	return strings.ToLower(s.newID())
}

func (s *contentService) refresh(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("snapshot refresh after edit failed", zap.Error(err))
	}
}

func (s *contentService) translate(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrContentNotFound, err)
	case repositories.IsUnavailable(err):
		return fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	default:
		return err
	}
}
