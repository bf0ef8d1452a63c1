package repositories

import (
	"context"
	"errors"

	domain "github.com/mekong-creative/api/internal/domain"
)

// Registry exposes typed repository accessors for dependency injection.
type Registry interface {
	Team() TeamRepository
	Projects() ProjectRepository
	Insights() InsightRepository
	Services() ServiceRepository
	Reviews() ReviewRepository
	Comments() CommentRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// IsNotFound reports whether err carries a not-found categorisation.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether err carries a conflict categorisation.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether err indicates the backing store could not be reached.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}

// TeamRepository persists studio member profiles and their display order.
type TeamRepository interface {
	List(ctx context.Context) ([]domain.TeamMember, error)
	Insert(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error)
	Update(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error)
	Delete(ctx context.Context, memberID string) error
	// UpsertBySlug inserts the member or, when a row with the same slug already
	// exists, overwrites that row. Used when bundled profiles are migrated to
	// the remote store; repeating the call is safe.
	UpsertBySlug(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error)
	// UpdateOrder persists a new display order for a single member.
	UpdateOrder(ctx context.Context, memberID string, displayOrder int) error
}

// ProjectRepository persists portfolio case studies.
type ProjectRepository interface {
	List(ctx context.Context) ([]domain.Project, error)
	Insert(ctx context.Context, project domain.Project) (domain.Project, error)
	Update(ctx context.Context, project domain.Project) (domain.Project, error)
	Delete(ctx context.Context, projectID string) error
}

// InsightRepository persists long-form articles.
type InsightRepository interface {
	List(ctx context.Context) ([]domain.Insight, error)
	Insert(ctx context.Context, insight domain.Insight) (domain.Insight, error)
	Update(ctx context.Context, insight domain.Insight) (domain.Insight, error)
	Delete(ctx context.Context, insightID string) error
}

// ServiceRepository persists the service offerings shown on the landing page.
type ServiceRepository interface {
	List(ctx context.Context) ([]domain.ServiceOffering, error)
	Insert(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error)
	Update(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error)
	Delete(ctx context.Context, offeringID string) error
}

// ReviewRepository persists client testimonials.
type ReviewRepository interface {
	List(ctx context.Context) ([]domain.Review, error)
	Insert(ctx context.Context, review domain.Review) (domain.Review, error)
	Update(ctx context.Context, review domain.Review) (domain.Review, error)
	Delete(ctx context.Context, reviewID string) error
}

// CommentRepository persists reader comments attached to insights.
type CommentRepository interface {
	ListByInsight(ctx context.Context, insightSlug string) ([]domain.Comment, error)
	Insert(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	SetApproved(ctx context.Context, commentID string, approved bool) error
	Delete(ctx context.Context, commentID string) error
}

// HealthRepository exposes status of downstream dependencies for health checks.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
