package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/mekong-creative/api/internal/domain"
)

var (
	// ErrPublishNotConfigured indicates the site repository settings are absent.
	ErrPublishNotConfigured = errors.New("publish: not configured")
	// ErrPublishFailed indicates the commit could not be created.
	ErrPublishFailed = errors.New("publish: commit failed")
)

// SiteCommitter writes one file to the site repository and returns the commit SHA.
type SiteCommitter interface {
	Configured() bool
	CommitFile(ctx context.Context, path string, content []byte, message string) (string, error)
	Branch() string
}

// CatalogueSource provides the snapshot to export.
type CatalogueSource interface {
	Catalogue(ctx context.Context) (domain.Catalogue, error)
}

// PublishServiceDeps bundles collaborators required to construct a PublishService.
type PublishServiceDeps struct {
	Committer SiteCommitter
	Catalog   CatalogueSource
	Path      string
	Logger    *zap.Logger
	Clock     func() time.Time
}

type publishService struct {
	committer SiteCommitter
	catalog   CatalogueSource
	path      string
	logger    *zap.Logger
	clock     func() time.Time
}

var _ PublishService = (*publishService)(nil)

// NewPublishService wires dependencies into a concrete PublishService implementation.
func NewPublishService(deps PublishServiceDeps) (PublishService, error) {
	if deps.Committer == nil {
		return nil, errors.New("publish service: site committer is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("publish service: catalogue source is required")
	}

	path := strings.TrimSpace(deps.Path)
	if path == "" {
		path = "data/catalogue.json"
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &publishService{
		committer: deps.Committer,
		catalog:   deps.Catalog,
		path:      path,
		logger:    logger,
		clock: func() time.Time {
			return clock().UTC()
		},
	}, nil
}

// Publish serialises the current merged catalogue and commits it to the site
// repository. The static site build reads the committed file, so a publish is
// what makes edits visible to visitors on the published site.
func (s *publishService) Publish(ctx context.Context, cmd PublishCommand) (PublishResult, error) {
	if ctx == nil {
		return PublishResult{}, errors.New("publish service: context is required")
	}
	if !s.committer.Configured() {
		return PublishResult{}, ErrPublishNotConfigured
	}

	catalogue, err := s.catalog.Catalogue(ctx)
	if err != nil {
		return PublishResult{}, fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}

	now := s.clock()
	export := catalogueExport{
		GeneratedAt: now,
		Team:        catalogue.Team,
		Projects:    catalogue.Projects,
		Insights:    catalogue.Insights,
		Services:    catalogue.Services,
		Reviews:     catalogue.Reviews,
	}
	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return PublishResult{}, fmt.Errorf("%w: encode catalogue: %v", ErrPublishFailed, err)
	}

	message := strings.TrimSpace(cmd.Message)
	if message == "" {
		message = "Update site content " + now.Format("2006-01-02 15:04")
	}

	sha, err := s.committer.CommitFile(ctx, s.path, payload, message)
	if err != nil {
		return PublishResult{}, fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}

	s.logger.Info("catalogue published",
		zap.String("path", s.path),
		zap.String("commit", sha),
	)
	return PublishResult{
		CommitSHA: sha,
		Path:      s.path,
		Branch:    s.committer.Branch(),
	}, nil
}

// catalogueExport is the file format committed to the site repository.
type catalogueExport struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Team        []domain.TeamMember      `json:"team"`
	Projects    []domain.Project         `json:"projects"`
	Insights    []domain.Insight         `json:"insights"`
	Services    []domain.ServiceOffering `json:"services"`
	Reviews     []domain.Review          `json:"reviews"`
}
