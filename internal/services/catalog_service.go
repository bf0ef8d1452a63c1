package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/platform/textutil"
	"github.com/mekong-creative/api/internal/repositories"
)

var (
	// ErrCatalogInvalidInput indicates validation failures for catalogue operations.
	ErrCatalogInvalidInput = errors.New("catalog: invalid input")
	// ErrCatalogNotFound indicates the requested record is in no snapshot.
	ErrCatalogNotFound = errors.New("catalog: not found")
	// ErrCatalogReorderFailed indicates the new order could not be persisted
	// and the previous order was restored.
	ErrCatalogReorderFailed = errors.New("catalog: reorder failed")
)

// DefaultContent exposes the content compiled into the binary.
type DefaultContent interface {
	Team() []domain.TeamMember
	Projects() []domain.Project
	Insights() []domain.Insight
	Services() []domain.ServiceOffering
	Reviews() []domain.Review
}

// CatalogServiceDeps bundles collaborators required to construct a CatalogService.
type CatalogServiceDeps struct {
	Defaults DefaultContent
	Team     repositories.TeamRepository
	Projects repositories.ProjectRepository
	Insights repositories.InsightRepository
	Services repositories.ServiceRepository
	Reviews  repositories.ReviewRepository
	Comments repositories.CommentRepository
	Logger   *zap.Logger
}

// remoteContent caches the last successfully fetched rows per category so a
// transient store outage does not knock previously seen content off the site.
type remoteContent struct {
	team     []domain.TeamMember
	projects []domain.Project
	insights []domain.Insight
	services []domain.ServiceOffering
	reviews  []domain.Review
}

// snapshotStore holds the merged catalogue behind a read-write lock. It is
// owned by one service instance; nothing package-level survives a restart or
// leaks between tests.
type snapshotStore struct {
	mu      sync.RWMutex
	current domain.Catalogue
}

func (s *snapshotStore) load() domain.Catalogue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCatalogue(s.current)
}

func (s *snapshotStore) store(c domain.Catalogue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

func copyCatalogue(c domain.Catalogue) domain.Catalogue {
	return domain.Catalogue{
		Team:     append([]domain.TeamMember(nil), c.Team...),
		Projects: append([]domain.Project(nil), c.Projects...),
		Insights: append([]domain.Insight(nil), c.Insights...),
		Services: append([]domain.ServiceOffering(nil), c.Services...),
		Reviews:  append([]domain.Review(nil), c.Reviews...),
	}
}

type catalogService struct {
	defaults DefaultContent
	team     repositories.TeamRepository
	projects repositories.ProjectRepository
	insights repositories.InsightRepository
	services repositories.ServiceRepository
	reviews  repositories.ReviewRepository
	comments repositories.CommentRepository
	logger   *zap.Logger

	// refreshMu serialises every snapshot rebuild: refreshes, reorders and
	// post-edit rebuilds never interleave.
	refreshMu sync.Mutex
	remote    remoteContent
	snapshot  snapshotStore
}

var _ CatalogService = (*catalogService)(nil)

// NewCatalogService wires dependencies into a concrete CatalogService. The
// initial snapshot is built from bundled content alone; call Refresh once the
// remote store is reachable.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Defaults == nil {
		return nil, errors.New("catalog service: default content is required")
	}
	if deps.Team == nil {
		return nil, errors.New("catalog service: team repository is required")
	}
	if deps.Projects == nil || deps.Insights == nil || deps.Services == nil || deps.Reviews == nil {
		return nil, errors.New("catalog service: content repositories are required")
	}
	if deps.Comments == nil {
		return nil, errors.New("catalog service: comment repository is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := &catalogService{
		defaults: deps.Defaults,
		team:     deps.Team,
		projects: deps.Projects,
		insights: deps.Insights,
		services: deps.Services,
		reviews:  deps.Reviews,
		comments: deps.Comments,
		logger:   logger,
	}
	svc.snapshot.store(svc.rebuild())
	return svc, nil
}

func (s *catalogService) Catalogue(ctx context.Context) (domain.Catalogue, error) {
	if ctx == nil {
		return domain.Catalogue{}, errors.New("catalog service: context is required")
	}
	return s.snapshot.load(), nil
}

func (s *catalogService) Team(ctx context.Context) ([]domain.TeamMember, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	return s.snapshot.load().Team, nil
}

func (s *catalogService) Projects(ctx context.Context) ([]domain.Project, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	return s.snapshot.load().Projects, nil
}

func (s *catalogService) Insights(ctx context.Context) ([]domain.Insight, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	return s.snapshot.load().Insights, nil
}

func (s *catalogService) Services(ctx context.Context) ([]domain.ServiceOffering, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	return s.snapshot.load().Services, nil
}

func (s *catalogService) Reviews(ctx context.Context) ([]domain.Review, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	return s.snapshot.load().Reviews, nil
}

func (s *catalogService) ProjectBySlug(ctx context.Context, slug string) (domain.Project, error) {
	if ctx == nil {
		return domain.Project{}, errors.New("catalog service: context is required")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Project{}, fmt.Errorf("%w: slug is required", ErrCatalogInvalidInput)
	}
	for _, project := range s.snapshot.load().Projects {
		if project.Slug == slug {
			return project, nil
		}
	}
	return domain.Project{}, fmt.Errorf("%w: project %q", ErrCatalogNotFound, slug)
}

func (s *catalogService) InsightBySlug(ctx context.Context, slug string) (domain.Insight, error) {
	if ctx == nil {
		return domain.Insight{}, errors.New("catalog service: context is required")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Insight{}, fmt.Errorf("%w: slug is required", ErrCatalogInvalidInput)
	}
	for _, insight := range s.snapshot.load().Insights {
		if insight.Slug == slug {
			return insight, nil
		}
	}
	return domain.Insight{}, fmt.Errorf("%w: insight %q", ErrCatalogNotFound, slug)
}

// CommentsForInsight returns the approved comments for one insight. Comments
// live only in the remote store; there are no bundled defaults to fall back to.
func (s *catalogService) CommentsForInsight(ctx context.Context, insightSlug string) ([]domain.Comment, error) {
	if _, err := s.InsightBySlug(ctx, insightSlug); err != nil {
		return nil, err
	}
	rows, err := s.comments.ListByInsight(ctx, strings.TrimSpace(insightSlug))
	if err != nil {
		if repositories.IsUnavailable(err) {
			s.logger.Warn("comments unavailable, serving none", zap.String("insight", insightSlug), zap.Error(err))
			return []domain.Comment{}, nil
		}
		return nil, err
	}
	approved := make([]domain.Comment, 0, len(rows))
	for _, comment := range rows {
		if comment.Approved {
			approved = append(approved, comment)
		}
	}
	return approved, nil
}

// Refresh refetches every category from the remote store and rebuilds the
// merged snapshot. A category that cannot be fetched keeps its previously
// cached rows; an empty cache means bundled content alone serves it.
func (s *catalogService) Refresh(ctx context.Context) error {
	if ctx == nil {
		return errors.New("catalog service: context is required")
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if rows, err := s.team.List(ctx); err == nil {
		s.remote.team = rows
	} else {
		s.logger.Warn("team fetch failed, keeping cached rows", zap.Error(err))
	}
	if rows, err := s.projects.List(ctx); err == nil {
		s.remote.projects = rows
	} else {
		s.logger.Warn("projects fetch failed, keeping cached rows", zap.Error(err))
	}
	if rows, err := s.insights.List(ctx); err == nil {
		s.remote.insights = rows
	} else {
		s.logger.Warn("insights fetch failed, keeping cached rows", zap.Error(err))
	}
	if rows, err := s.services.List(ctx); err == nil {
		s.remote.services = rows
	} else {
		s.logger.Warn("services fetch failed, keeping cached rows", zap.Error(err))
	}
	if rows, err := s.reviews.List(ctx); err == nil {
		s.remote.reviews = rows
	} else {
		s.logger.Warn("reviews fetch failed, keeping cached rows", zap.Error(err))
	}

	s.snapshot.store(s.rebuild())
	return nil
}

// ReorderTeam persists a new display order. The snapshot is updated first so
// the new order is visible immediately; bundled members are migrated to the
// remote store on the way; any persistence failure restores the previous
// snapshot before the error is returned.
func (s *catalogService) ReorderTeam(ctx context.Context, cmd ReorderTeamCommand) ([]domain.TeamMember, error) {
	if ctx == nil {
		return nil, errors.New("catalog service: context is required")
	}
	if len(cmd.MemberIDs) == 0 {
		return nil, fmt.Errorf("%w: member ids are required", ErrCatalogInvalidInput)
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	previous := s.snapshot.load()

	byID := make(map[string]domain.TeamMember, len(previous.Team))
	for _, member := range previous.Team {
		byID[member.ID] = member
	}
	if len(cmd.MemberIDs) != len(previous.Team) {
		return nil, fmt.Errorf("%w: expected %d member ids, got %d", ErrCatalogInvalidInput, len(previous.Team), len(cmd.MemberIDs))
	}

	ordered := make([]domain.TeamMember, 0, len(cmd.MemberIDs))
	seen := make(map[string]struct{}, len(cmd.MemberIDs))
	for index, id := range cmd.MemberIDs {
		id = strings.TrimSpace(id)
		member, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown member id %q", ErrCatalogInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate member id %q", ErrCatalogInvalidInput, id)
		}
		seen[id] = struct{}{}
		position := index
		member.DisplayOrder = &position
		ordered = append(ordered, member)
	}

	// Optimistic update: the editor sees the new order before the store has
	// acknowledged it.
	optimistic := copyCatalogue(previous)
	optimistic.Team = append([]domain.TeamMember(nil), ordered...)
	s.snapshot.store(optimistic)

	persisted := make([]domain.TeamMember, 0, len(ordered))
	for _, member := range ordered {
		if domain.HasRemoteIdentity(member.ID) {
			if err := s.team.UpdateOrder(ctx, member.ID, *member.DisplayOrder); err != nil {
				s.snapshot.store(previous)
				return nil, fmt.Errorf("%w: %v", ErrCatalogReorderFailed, err)
			}
			persisted = append(persisted, member)
			continue
		}
		// A bundled profile has no remote row yet. Migrating it through an
		// upsert keyed on slug keeps a repeated migration from duplicating it.
		saved, err := s.team.UpsertBySlug(ctx, member)
		if err != nil {
			s.snapshot.store(previous)
			return nil, fmt.Errorf("%w: %v", ErrCatalogReorderFailed, err)
		}
		persisted = append(persisted, saved)
	}

	// Re-read the authoritative order; the refetch also picks up ids the
	// migration assigned.
	if rows, err := s.team.List(ctx); err == nil {
		s.remote.team = rows
	} else {
		s.logger.Warn("post-reorder refetch failed, using persisted rows", zap.Error(err))
		s.remote.team = persisted
	}

	rebuilt := s.rebuild()
	s.snapshot.store(rebuilt)
	return rebuilt.Team, nil
}

// rebuild merges bundled defaults with the cached remote rows. Callers must
// hold refreshMu.
func (s *catalogService) rebuild() domain.Catalogue {
	catalogue := domain.Catalogue{
		Team:     mergeBySlug(s.defaults.Team(), s.remote.team),
		Projects: mergeBySlug(s.defaults.Projects(), s.remote.projects),
		Insights: mergeBySlug(s.defaults.Insights(), s.remote.insights),
		Services: mergeBySlug(s.defaults.Services(), s.remote.services),
		Reviews:  mergeBySlug(s.defaults.Reviews(), s.remote.reviews),
	}
	sortTeam(catalogue.Team)
	return catalogue
}

// mergeBySlug concatenates remote rows in store order, then the bundled
// records whose slug and id no remote row claims. On a collision the remote
// row wins and the bundled record is dropped entirely.
func mergeBySlug[T domain.CatalogItem](bundled, remote []T) []T {
	merged := make([]T, 0, len(bundled)+len(remote))
	claimed := make(map[string]struct{}, len(remote)*2)
	for _, item := range remote {
		// A row without a slug keys on its id so it cannot collide with every
		// other slugless row.
		claimed[textutil.SlugOrID(item.ItemSlug(), item.ItemID())] = struct{}{}
		if id := item.ItemID(); id != "" {
			claimed[id] = struct{}{}
		}
		merged = append(merged, item)
	}
	for _, item := range bundled {
		if _, taken := claimed[textutil.SlugOrID(item.ItemSlug(), item.ItemID())]; taken {
			continue
		}
		if id := item.ItemID(); id != "" {
			if _, taken := claimed[id]; taken {
				continue
			}
		}
		merged = append(merged, item)
	}
	return merged
}

// sortTeam orders members by display order. Members without one sort after
// every ordered member, keeping their relative merge order.
func sortTeam(members []domain.TeamMember) {
	sort.SliceStable(members, func(i, j int) bool {
		return orderValue(members[i].DisplayOrder) < orderValue(members[j].DisplayOrder)
	})
}

func orderValue(order *int) int {
	if order == nil {
		return math.MaxInt
	}
	return *order
}
