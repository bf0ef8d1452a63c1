package restdb

import (
	"context"
	"errors"

	"github.com/mekong-creative/api/internal/platform/restdb"
	"github.com/mekong-creative/api/internal/repositories"
)

// Registry bundles the store-backed repositories behind the repository
// accessor interface.
type Registry struct {
	team     *TeamRepository
	projects *ProjectRepository
	insights *InsightRepository
	services *ServiceRepository
	reviews  *ReviewRepository
	comments *CommentRepository
	health   repositories.HealthRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry constructs every table repository on top of a shared store client.
func NewRegistry(client *restdb.Client, opts ...repositories.DependencyHealthOption) (*Registry, error) {
	if client == nil {
		return nil, errors.New("repository registry requires store client")
	}

	team, err := NewTeamRepository(client)
	if err != nil {
		return nil, err
	}
	projects, err := NewProjectRepository(client)
	if err != nil {
		return nil, err
	}
	insights, err := NewInsightRepository(client)
	if err != nil {
		return nil, err
	}
	services, err := NewServiceRepository(client)
	if err != nil {
		return nil, err
	}
	reviews, err := NewReviewRepository(client)
	if err != nil {
		return nil, err
	}
	comments, err := NewCommentRepository(client)
	if err != nil {
		return nil, err
	}

	health, err := repositories.NewDependencyHealthRepository([]repositories.DependencyCheck{
		{Name: "object-store", Check: storeCheck(client)},
	}, opts...)
	if err != nil {
		return nil, err
	}

	return &Registry{
		team:     team,
		projects: projects,
		insights: insights,
		services: services,
		reviews:  reviews,
		comments: comments,
		health:   health,
	}, nil
}

// storeCheck probes the remote store with the cheapest possible read. An
// unconfigured client is healthy: the service then runs on bundled content.
func storeCheck(client *restdb.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if !client.Configured() {
			return nil
		}
		var rows []serviceRow
		return client.Select(ctx, TableServices, restdb.SelectOptions{Limit: 1}, &rows)
	}
}

func (r *Registry) Team() repositories.TeamRepository         { return r.team }
func (r *Registry) Projects() repositories.ProjectRepository  { return r.projects }
func (r *Registry) Insights() repositories.InsightRepository  { return r.insights }
func (r *Registry) Services() repositories.ServiceRepository  { return r.services }
func (r *Registry) Reviews() repositories.ReviewRepository    { return r.reviews }
func (r *Registry) Comments() repositories.CommentRepository  { return r.comments }
func (r *Registry) Health() repositories.HealthRepository     { return r.health }
