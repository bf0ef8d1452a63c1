package restdb

import (
	"context"
	"errors"
	"strings"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/platform/restdb"
	"github.com/mekong-creative/api/internal/repositories"
)

// ProjectRepository persists portfolio case studies in the remote store.
type ProjectRepository struct {
	client *restdb.Client
}

var _ repositories.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository constructs a store-backed project repository.
func NewProjectRepository(client *restdb.Client) (*ProjectRepository, error) {
	if client == nil {
		return nil, errors.New("project repository requires store client")
	}
	return &ProjectRepository{client: client}, nil
}

// List returns every project, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	var rows []projectRow
	opts := restdb.SelectOptions{
		Orders: []restdb.Order{
			{Column: "year", Desc: true},
			{Column: "slug"},
		},
	}
	if err := r.client.Select(ctx, TableProjects, opts, &rows); err != nil {
		return nil, err
	}
	projects := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.toDomain())
	}
	return projects, nil
}

// Insert appends a new project and returns the stored row with its assigned id.
func (r *ProjectRepository) Insert(ctx context.Context, project domain.Project) (domain.Project, error) {
	record := projectRowFromDomain(project)
	record.ID = ""
	var created []projectRow
	if err := r.client.Insert(ctx, TableProjects, record, &created); err != nil {
		return domain.Project{}, err
	}
	if len(created) == 0 {
		return domain.Project{}, errors.New("project repository: store returned no representation")
	}
	return created[0].toDomain(), nil
}

// Update overwrites the project row identified by its id.
func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) (domain.Project, error) {
	id := strings.TrimSpace(project.ID)
	if id == "" {
		return domain.Project{}, errors.New("project repository: project id is required")
	}
	record := projectRowFromDomain(project)
	record.ID = ""
	if err := r.client.Update(ctx, TableProjects, restdb.Filter{Column: "id", Value: id}, record); err != nil {
		return domain.Project{}, err
	}
	project.ID = id
	return project, nil
}

// Delete removes the project row identified by its id.
func (r *ProjectRepository) Delete(ctx context.Context, projectID string) error {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return errors.New("project repository: project id is required")
	}
	return r.client.Delete(ctx, TableProjects, restdb.Filter{Column: "id", Value: projectID})
}

// InsightRepository persists long-form articles in the remote store.
type InsightRepository struct {
	client *restdb.Client
}

var _ repositories.InsightRepository = (*InsightRepository)(nil)

// NewInsightRepository constructs a store-backed insight repository.
func NewInsightRepository(client *restdb.Client) (*InsightRepository, error) {
	if client == nil {
		return nil, errors.New("insight repository requires store client")
	}
	return &InsightRepository{client: client}, nil
}

// List returns every insight, most recently published first.
func (r *InsightRepository) List(ctx context.Context) ([]domain.Insight, error) {
	var rows []insightRow
	opts := restdb.SelectOptions{
		Orders: []restdb.Order{
			{Column: "published_at", Desc: true},
			{Column: "slug"},
		},
	}
	if err := r.client.Select(ctx, TableInsights, opts, &rows); err != nil {
		return nil, err
	}
	insights := make([]domain.Insight, 0, len(rows))
	for _, row := range rows {
		insights = append(insights, row.toDomain())
	}
	return insights, nil
}

// Insert appends a new insight and returns the stored row with its assigned id.
func (r *InsightRepository) Insert(ctx context.Context, insight domain.Insight) (domain.Insight, error) {
	record := insightRowFromDomain(insight)
	record.ID = ""
	var created []insightRow
	if err := r.client.Insert(ctx, TableInsights, record, &created); err != nil {
		return domain.Insight{}, err
	}
	if len(created) == 0 {
		return domain.Insight{}, errors.New("insight repository: store returned no representation")
	}
	return created[0].toDomain(), nil
}

// Update overwrites the insight row identified by its id.
func (r *InsightRepository) Update(ctx context.Context, insight domain.Insight) (domain.Insight, error) {
	id := strings.TrimSpace(insight.ID)
	if id == "" {
		return domain.Insight{}, errors.New("insight repository: insight id is required")
	}
	record := insightRowFromDomain(insight)
	record.ID = ""
	if err := r.client.Update(ctx, TableInsights, restdb.Filter{Column: "id", Value: id}, record); err != nil {
		return domain.Insight{}, err
	}
	insight.ID = id
	return insight, nil
}

// Delete removes the insight row identified by its id.
func (r *InsightRepository) Delete(ctx context.Context, insightID string) error {
	insightID = strings.TrimSpace(insightID)
	if insightID == "" {
		return errors.New("insight repository: insight id is required")
	}
	return r.client.Delete(ctx, TableInsights, restdb.Filter{Column: "id", Value: insightID})
}

// ServiceRepository persists service offerings in the remote store.
type ServiceRepository struct {
	client *restdb.Client
}

var _ repositories.ServiceRepository = (*ServiceRepository)(nil)

// NewServiceRepository constructs a store-backed service repository.
func NewServiceRepository(client *restdb.Client) (*ServiceRepository, error) {
	if client == nil {
		return nil, errors.New("service repository requires store client")
	}
	return &ServiceRepository{client: client}, nil
}

// List returns every offering ordered by slug.
func (r *ServiceRepository) List(ctx context.Context) ([]domain.ServiceOffering, error) {
	var rows []serviceRow
	opts := restdb.SelectOptions{
		Orders: []restdb.Order{{Column: "slug"}},
	}
	if err := r.client.Select(ctx, TableServices, opts, &rows); err != nil {
		return nil, err
	}
	offerings := make([]domain.ServiceOffering, 0, len(rows))
	for _, row := range rows {
		offerings = append(offerings, row.toDomain())
	}
	return offerings, nil
}

// Insert appends a new offering and returns the stored row with its assigned id.
func (r *ServiceRepository) Insert(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error) {
	record := serviceRowFromDomain(offering)
	record.ID = ""
	var created []serviceRow
	if err := r.client.Insert(ctx, TableServices, record, &created); err != nil {
		return domain.ServiceOffering{}, err
	}
	if len(created) == 0 {
		return domain.ServiceOffering{}, errors.New("service repository: store returned no representation")
	}
	return created[0].toDomain(), nil
}

// Update overwrites the offering row identified by its id.
func (r *ServiceRepository) Update(ctx context.Context, offering domain.ServiceOffering) (domain.ServiceOffering, error) {
	id := strings.TrimSpace(offering.ID)
	if id == "" {
		return domain.ServiceOffering{}, errors.New("service repository: offering id is required")
	}
	record := serviceRowFromDomain(offering)
	record.ID = ""
	if err := r.client.Update(ctx, TableServices, restdb.Filter{Column: "id", Value: id}, record); err != nil {
		return domain.ServiceOffering{}, err
	}
	offering.ID = id
	return offering, nil
}

// Delete removes the offering row identified by its id.
func (r *ServiceRepository) Delete(ctx context.Context, offeringID string) error {
	offeringID = strings.TrimSpace(offeringID)
	if offeringID == "" {
		return errors.New("service repository: offering id is required")
	}
	return r.client.Delete(ctx, TableServices, restdb.Filter{Column: "id", Value: offeringID})
}

// ReviewRepository persists client testimonials in the remote store.
type ReviewRepository struct {
	client *restdb.Client
}

var _ repositories.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository constructs a store-backed review repository.
func NewReviewRepository(client *restdb.Client) (*ReviewRepository, error) {
	if client == nil {
		return nil, errors.New("review repository requires store client")
	}
	return &ReviewRepository{client: client}, nil
}

// List returns every testimonial, newest first.
func (r *ReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	var rows []reviewRow
	opts := restdb.SelectOptions{
		Orders: []restdb.Order{
			{Column: "created_at", Desc: true},
			{Column: "slug"},
		},
	}
	if err := r.client.Select(ctx, TableReviews, opts, &rows); err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.toDomain())
	}
	return reviews, nil
}

// Insert appends a new testimonial and returns the stored row with its assigned id.
func (r *ReviewRepository) Insert(ctx context.Context, review domain.Review) (domain.Review, error) {
	record := reviewRowFromDomain(review)
	record.ID = ""
	var created []reviewRow
	if err := r.client.Insert(ctx, TableReviews, record, &created); err != nil {
		return domain.Review{}, err
	}
	if len(created) == 0 {
		return domain.Review{}, errors.New("review repository: store returned no representation")
	}
	return created[0].toDomain(), nil
}

// Update overwrites the testimonial row identified by its id.
func (r *ReviewRepository) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	id := strings.TrimSpace(review.ID)
	if id == "" {
		return domain.Review{}, errors.New("review repository: review id is required")
	}
	record := reviewRowFromDomain(review)
	record.ID = ""
	if err := r.client.Update(ctx, TableReviews, restdb.Filter{Column: "id", Value: id}, record); err != nil {
		return domain.Review{}, err
	}
	review.ID = id
	return review, nil
}

// Delete removes the testimonial row identified by its id.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID string) error {
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return errors.New("review repository: review id is required")
	}
	return r.client.Delete(ctx, TableReviews, restdb.Filter{Column: "id", Value: reviewID})
}

// CommentRepository persists reader comments in the remote store.
type CommentRepository struct {
	client *restdb.Client
}

var _ repositories.CommentRepository = (*CommentRepository)(nil)

// NewCommentRepository constructs a store-backed comment repository.
func NewCommentRepository(client *restdb.Client) (*CommentRepository, error) {
	if client == nil {
		return nil, errors.New("comment repository requires store client")
	}
	return &CommentRepository{client: client}, nil
}

// ListByInsight returns the comments attached to one insight, oldest first.
func (r *CommentRepository) ListByInsight(ctx context.Context, insightSlug string) ([]domain.Comment, error) {
	insightSlug = strings.TrimSpace(insightSlug)
	if insightSlug == "" {
		return nil, errors.New("comment repository: insight slug is required")
	}
	var rows []commentRow
	opts := restdb.SelectOptions{
		Filters: []restdb.Filter{{Column: "insight_slug", Value: insightSlug}},
		Orders:  []restdb.Order{{Column: "created_at"}},
	}
	if err := r.client.Select(ctx, TableComments, opts, &rows); err != nil {
		return nil, err
	}
	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toDomain())
	}
	return comments, nil
}

// Insert appends a new comment and returns the stored row with its assigned id.
func (r *CommentRepository) Insert(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	record := commentRowFromDomain(comment)
	record.ID = ""
	var created []commentRow
	if err := r.client.Insert(ctx, TableComments, record, &created); err != nil {
		return domain.Comment{}, err
	}
	if len(created) == 0 {
		return domain.Comment{}, errors.New("comment repository: store returned no representation")
	}
	return created[0].toDomain(), nil
}

// SetApproved toggles moderation state for a single comment.
func (r *CommentRepository) SetApproved(ctx context.Context, commentID string, approved bool) error {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return errors.New("comment repository: comment id is required")
	}
	patch := struct {
		Approved bool `json:"approved"`
	}{Approved: approved}
	return r.client.Update(ctx, TableComments, restdb.Filter{Column: "id", Value: commentID}, patch)
}

// Delete removes the comment row identified by its id.
func (r *CommentRepository) Delete(ctx context.Context, commentID string) error {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return errors.New("comment repository: comment id is required")
	}
	return r.client.Delete(ctx, TableComments, restdb.Filter{Column: "id", Value: commentID})
}
