package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domain "github.com/mekong-creative/api/internal/domain"
)

type stubDefaults struct {
	team     []domain.TeamMember
	projects []domain.Project
	insights []domain.Insight
	services []domain.ServiceOffering
	reviews  []domain.Review
}

func (s stubDefaults) Team() []domain.TeamMember           { return append([]domain.TeamMember(nil), s.team...) }
func (s stubDefaults) Projects() []domain.Project          { return append([]domain.Project(nil), s.projects...) }
func (s stubDefaults) Insights() []domain.Insight          { return append([]domain.Insight(nil), s.insights...) }
func (s stubDefaults) Services() []domain.ServiceOffering  { return append([]domain.ServiceOffering(nil), s.services...) }
func (s stubDefaults) Reviews() []domain.Review            { return append([]domain.Review(nil), s.reviews...) }

type stubTeamRepo struct {
	members        []domain.TeamMember
	listErr        error
	updateOrderErr error
	upsertErr      error

	orderCalls  map[string]int
	upsertSlugs []string
}

func (r *stubTeamRepo) List(ctx context.Context) ([]domain.TeamMember, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.TeamMember(nil), r.members...), nil
}

func (r *stubTeamRepo) Insert(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	r.members = append(r.members, member)
	return member, nil
}

func (r *stubTeamRepo) Update(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	return member, nil
}

func (r *stubTeamRepo) Delete(ctx context.Context, memberID string) error { return nil }

func (r *stubTeamRepo) UpsertBySlug(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	if r.upsertErr != nil {
		return domain.TeamMember{}, r.upsertErr
	}
	r.upsertSlugs = append(r.upsertSlugs, member.Slug)
	member.ID = fmt.Sprintf("c0ffee%02d-0000-4000-8000-000000000000", len(r.upsertSlugs))
	r.members = append(r.members, member)
	return member, nil
}

func (r *stubTeamRepo) UpdateOrder(ctx context.Context, memberID string, displayOrder int) error {
	if r.updateOrderErr != nil {
		return r.updateOrderErr
	}
	if r.orderCalls == nil {
		r.orderCalls = map[string]int{}
	}
	r.orderCalls[memberID] = displayOrder
	for i := range r.members {
		if r.members[i].ID == memberID {
			order := displayOrder
			r.members[i].DisplayOrder = &order
		}
	}
	return nil
}

type stubProjectRepo struct {
	projects []domain.Project
	listErr  error
}

func (r *stubProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Project(nil), r.projects...), nil
}
func (r *stubProjectRepo) Insert(ctx context.Context, p domain.Project) (domain.Project, error) {
	return p, nil
}
func (r *stubProjectRepo) Update(ctx context.Context, p domain.Project) (domain.Project, error) {
	return p, nil
}
func (r *stubProjectRepo) Delete(ctx context.Context, id string) error { return nil }

type stubInsightRepo struct {
	insights []domain.Insight
	listErr  error
}

func (r *stubInsightRepo) List(ctx context.Context) ([]domain.Insight, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Insight(nil), r.insights...), nil
}
func (r *stubInsightRepo) Insert(ctx context.Context, i domain.Insight) (domain.Insight, error) {
	return i, nil
}
func (r *stubInsightRepo) Update(ctx context.Context, i domain.Insight) (domain.Insight, error) {
	return i, nil
}
func (r *stubInsightRepo) Delete(ctx context.Context, id string) error { return nil }

type stubServiceRepo struct {
	services []domain.ServiceOffering
	listErr  error
}

func (r *stubServiceRepo) List(ctx context.Context) ([]domain.ServiceOffering, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.ServiceOffering(nil), r.services...), nil
}
func (r *stubServiceRepo) Insert(ctx context.Context, s domain.ServiceOffering) (domain.ServiceOffering, error) {
	return s, nil
}
func (r *stubServiceRepo) Update(ctx context.Context, s domain.ServiceOffering) (domain.ServiceOffering, error) {
	return s, nil
}
func (r *stubServiceRepo) Delete(ctx context.Context, id string) error { return nil }

type stubReviewRepo struct {
	reviews []domain.Review
	listErr error
}

func (r *stubReviewRepo) List(ctx context.Context) ([]domain.Review, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Review(nil), r.reviews...), nil
}
func (r *stubReviewRepo) Insert(ctx context.Context, rv domain.Review) (domain.Review, error) {
	return rv, nil
}
func (r *stubReviewRepo) Update(ctx context.Context, rv domain.Review) (domain.Review, error) {
	return rv, nil
}
func (r *stubReviewRepo) Delete(ctx context.Context, id string) error { return nil }

type stubCommentRepo struct {
	comments []domain.Comment
	listErr  error
}

func (r *stubCommentRepo) ListByInsight(ctx context.Context, slug string) ([]domain.Comment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var matched []domain.Comment
	for _, comment := range r.comments {
		if comment.InsightSlug == slug {
			matched = append(matched, comment)
		}
	}
	return matched, nil
}
func (r *stubCommentRepo) Insert(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	return c, nil
}
func (r *stubCommentRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	return nil
}
func (r *stubCommentRepo) Delete(ctx context.Context, id string) error { return nil }

func intPtr(v int) *int { return &v }

func newCatalogFixture(t *testing.T, defaults stubDefaults, team *stubTeamRepo) (CatalogService, *stubTeamRepo) {
	t.Helper()
	if team == nil {
		team = &stubTeamRepo{}
	}
	svc, err := NewCatalogService(CatalogServiceDeps{
		Defaults: defaults,
		Team:     team,
		Projects: &stubProjectRepo{},
		Insights: &stubInsightRepo{},
		Services: &stubServiceRepo{},
		Reviews:  &stubReviewRepo{},
		Comments: &stubCommentRepo{},
	})
	if err != nil {
		t.Fatalf("NewCatalogService returned error: %v", err)
	}
	return svc, team
}

func TestCatalogServesBundledContentBeforeFirstRefresh(t *testing.T) {
	defaults := stubDefaults{
		team: []domain.TeamMember{
			{ID: "01HZX0000000000000000000A1", Slug: "alice", Name: domain.LocalizedText{En: "Alice"}},
		},
		services: []domain.ServiceOffering{
			{ID: "01HZX0000000000000000000S1", Slug: "branding"},
		},
	}
	svc, _ := newCatalogFixture(t, defaults, nil)

	team, err := svc.Team(context.Background())
	if err != nil {
		t.Fatalf("Team returned error: %v", err)
	}
	if len(team) != 1 || team[0].Slug != "alice" {
		t.Fatalf("expected bundled team, got %+v", team)
	}
}

func TestRefreshKeepsBundledWhenRemoteFails(t *testing.T) {
	defaults := stubDefaults{
		team: []domain.TeamMember{{ID: "01HZX0000000000000000000A1", Slug: "alice"}},
	}
	team := &stubTeamRepo{listErr: errors.New("store unreachable")}
	svc, _ := newCatalogFixture(t, defaults, team)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh must absorb remote failures, got %v", err)
	}
	got, err := svc.Team(context.Background())
	if err != nil {
		t.Fatalf("Team returned error: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "alice" {
		t.Fatalf("expected bundled fallback, got %+v", got)
	}
}

func TestRefreshRemoteWinsOnSlugCollision(t *testing.T) {
	defaults := stubDefaults{
		team: []domain.TeamMember{
			{ID: "01HZX0000000000000000000A1", Slug: "alice", Name: domain.LocalizedText{En: "Alice (bundled)"}},
			{ID: "01HZX0000000000000000000B1", Slug: "bora", Name: domain.LocalizedText{En: "Bora (bundled)"}},
		},
	}
	team := &stubTeamRepo{
		members: []domain.TeamMember{
			{
				ID:           "7f3e2a10-1111-4222-8333-444455556666",
				Slug:         "bora",
				Name:         domain.LocalizedText{En: "Bora (remote)"},
				DisplayOrder: intPtr(0),
			},
		},
	}
	svc, _ := newCatalogFixture(t, defaults, team)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	got, err := svc.Team(context.Background())
	if err != nil {
		t.Fatalf("Team returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected slug dedupe to keep 2 members, got %d", len(got))
	}
	// The remote row replaces the bundled one and its display order pulls it
	// ahead of the unordered bundled member.
	if got[0].Name.En != "Bora (remote)" {
		t.Fatalf("expected remote row first, got %+v", got[0])
	}
	if got[1].Slug != "alice" || got[1].DisplayOrder != nil {
		t.Fatalf("expected unordered bundled member last, got %+v", got[1])
	}
}

func TestRefreshListsRemoteProjectsFirst(t *testing.T) {
	defaults := stubDefaults{
		projects: []domain.Project{
			{ID: "01HZX0000000000000000000P1", Slug: "river-cafe", Title: domain.LocalizedText{En: "River Cafe (bundled)"}},
			{ID: "01HZX0000000000000000000P2", Slug: "mekong-bank", Title: domain.LocalizedText{En: "Mekong Bank (bundled)"}},
		},
	}
	projects := &stubProjectRepo{
		projects: []domain.Project{
			{ID: "9a8b7c6d-1111-4222-8333-444455556666", Slug: "mekong-bank", Title: domain.LocalizedText{En: "Mekong Bank (remote)"}},
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{
		Defaults: defaults,
		Team:     &stubTeamRepo{},
		Projects: projects,
		Insights: &stubInsightRepo{},
		Services: &stubServiceRepo{},
		Reviews:  &stubReviewRepo{},
		Comments: &stubCommentRepo{},
	})
	if err != nil {
		t.Fatalf("NewCatalogService returned error: %v", err)
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	got, err := svc.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects returned error: %v", err)
	}
	// Remote rows lead the listing; the bundled record sharing a slug is
	// dropped, the untouched bundled record follows.
	if len(got) != 2 {
		t.Fatalf("expected 2 projects after dedupe, got %+v", got)
	}
	if got[0].Slug != "mekong-bank" || got[0].Title.En != "Mekong Bank (remote)" {
		t.Fatalf("expected the remote row first, got %+v", got[0])
	}
	if got[1].Slug != "river-cafe" {
		t.Fatalf("expected the surviving bundled project after remote rows, got %+v", got[1])
	}
}

func TestRefreshPutsNewRemoteProjectAheadOfBundled(t *testing.T) {
	defaults := stubDefaults{
		projects: []domain.Project{
			{ID: "01HZX0000000000000000000P1", Slug: "river-cafe"},
			{ID: "01HZX0000000000000000000P2", Slug: "mekong-bank"},
		},
	}
	projects := &stubProjectRepo{
		projects: []domain.Project{
			{ID: "9a8b7c6d-2222-4222-8333-444455556666", Slug: "fresh-campaign"},
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{
		Defaults: defaults,
		Team:     &stubTeamRepo{},
		Projects: projects,
		Insights: &stubInsightRepo{},
		Services: &stubServiceRepo{},
		Reviews:  &stubReviewRepo{},
		Comments: &stubCommentRepo{},
	})
	if err != nil {
		t.Fatalf("NewCatalogService returned error: %v", err)
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	got, err := svc.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects returned error: %v", err)
	}
	want := []string{"fresh-campaign", "river-cafe", "mekong-bank"}
	if len(got) != len(want) {
		t.Fatalf("expected %d projects, got %+v", len(want), got)
	}
	for i, slug := range want {
		if got[i].Slug != slug {
			t.Fatalf("expected order %v, got %+v", want, got)
		}
	}
}

func TestTeamSortIsStableForUnorderedMembers(t *testing.T) {
	defaults := stubDefaults{
		team: []domain.TeamMember{
			{ID: "01HZX0000000000000000000A1", Slug: "alice"},
			{ID: "01HZX0000000000000000000B1", Slug: "bora"},
			{ID: "01HZX0000000000000000000C1", Slug: "chea"},
		},
	}
	svc, _ := newCatalogFixture(t, defaults, nil)

	got, err := svc.Team(context.Background())
	if err != nil {
		t.Fatalf("Team returned error: %v", err)
	}
	want := []string{"alice", "bora", "chea"}
	for i, slug := range want {
		if got[i].Slug != slug {
			t.Fatalf("expected stable order %v, got %+v", want, got)
		}
	}
}

func TestReorderTeamMigratesBundledMembers(t *testing.T) {
	defaults := stubDefaults{
		team: []domain.TeamMember{
			{ID: "01HZX0000000000000000000A1", Slug: "alice"},
			{ID: "01HZX0000000000000000000B1", Slug: "bora"},
		},
	}
	team := &stubTeamRepo{}
	svc, _ := newCatalogFixture(t, defaults, team)

	got, err := svc.ReorderTeam(context.Background(), ReorderTeamCommand{
		MemberIDs: []string{"01HZX0000000000000000000B1", "01HZX0000000000000000000A1"},
	})
	if err != nil {
		t.Fatalf("ReorderTeam returned error: %v", err)
	}
	if len(team.upsertSlugs) != 2 || team.upsertSlugs[0] != "bora" || team.upsertSlugs[1] != "alice" {
		t.Fatalf("expected both bundled members migrated in order, got %v", team.upsertSlugs)
	}
	if len(got) != 2 || got[0].Slug != "bora" || got[1].Slug != "alice" {
		t.Fatalf("expected reordered team, got %+v", got)
	}
	for _, member := range got {
		if !domain.HasRemoteIdentity(member.ID) {
			t.Fatalf("expected migrated member to carry a remote id, got %q", member.ID)
		}
	}
}

func TestReorderTeamUpdatesOrderForRemoteMembers(t *testing.T) {
	remoteID := "7f3e2a10-1111-4222-8333-444455556666"
	defaults := stubDefaults{
		team: []domain.TeamMember{{ID: "01HZX0000000000000000000A1", Slug: "alice"}},
	}
	team := &stubTeamRepo{
		members: []domain.TeamMember{{ID: remoteID, Slug: "bora", DisplayOrder: intPtr(0)}},
	}
	svc, _ := newCatalogFixture(t, defaults, team)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	current, _ := svc.Team(context.Background())
	if len(current) != 2 {
		t.Fatalf("fixture expects 2 members, got %+v", current)
	}

	_, err := svc.ReorderTeam(context.Background(), ReorderTeamCommand{
		MemberIDs: []string{current[1].ID, current[0].ID},
	})
	if err != nil {
		t.Fatalf("ReorderTeam returned error: %v", err)
	}
	if got, ok := team.orderCalls[remoteID]; !ok || got != 1 {
		t.Fatalf("expected UpdateOrder for remote member with order 1, got %v", team.orderCalls)
	}
}

func TestReorderTeamRollsBackOnPersistenceFailure(t *testing.T) {
	defaults := stubDefaults{
		team: []domain.TeamMember{
			{ID: "01HZX0000000000000000000A1", Slug: "alice"},
			{ID: "01HZX0000000000000000000B1", Slug: "bora"},
		},
	}
	team := &stubTeamRepo{upsertErr: errors.New("store rejected request")}
	svc, _ := newCatalogFixture(t, defaults, team)

	_, err := svc.ReorderTeam(context.Background(), ReorderTeamCommand{
		MemberIDs: []string{"01HZX0000000000000000000B1", "01HZX0000000000000000000A1"},
	})
	if !errors.Is(err, ErrCatalogReorderFailed) {
		t.Fatalf("expected ErrCatalogReorderFailed, got %v", err)
	}

	got, _ := svc.Team(context.Background())
	if got[0].Slug != "alice" || got[1].Slug != "bora" {
		t.Fatalf("expected original order restored, got %+v", got)
	}
	if got[0].DisplayOrder != nil {
		t.Fatalf("expected rollback to clear optimistic display order, got %v", *got[0].DisplayOrder)
	}
}

func TestReorderTeamRejectsUnknownAndPartialIDs(t *testing.T) {
	defaults := stubDefaults{
		team: []domain.TeamMember{
			{ID: "01HZX0000000000000000000A1", Slug: "alice"},
			{ID: "01HZX0000000000000000000B1", Slug: "bora"},
		},
	}
	svc, _ := newCatalogFixture(t, defaults, nil)

	if _, err := svc.ReorderTeam(context.Background(), ReorderTeamCommand{
		MemberIDs: []string{"01HZX0000000000000000000A1"},
	}); !errors.Is(err, ErrCatalogInvalidInput) {
		t.Fatalf("expected ErrCatalogInvalidInput for partial list, got %v", err)
	}

	if _, err := svc.ReorderTeam(context.Background(), ReorderTeamCommand{
		MemberIDs: []string{"01HZX0000000000000000000A1", "no-such-id"},
	}); !errors.Is(err, ErrCatalogInvalidInput) {
		t.Fatalf("expected ErrCatalogInvalidInput for unknown id, got %v", err)
	}
}

func TestCommentsForInsightFiltersUnapproved(t *testing.T) {
	defaults := stubDefaults{
		insights: []domain.Insight{{ID: "01HZX0000000000000000000I1", Slug: "brand-voice"}},
	}
	comments := &stubCommentRepo{
		comments: []domain.Comment{
			{ID: "c1", InsightSlug: "brand-voice", Author: "Visal", Approved: true},
			{ID: "c2", InsightSlug: "brand-voice", Author: "Spam", Approved: false},
		},
	}
	team := &stubTeamRepo{}
	svc, err := NewCatalogService(CatalogServiceDeps{
		Defaults: defaults,
		Team:     team,
		Projects: &stubProjectRepo{},
		Insights: &stubInsightRepo{},
		Services: &stubServiceRepo{},
		Reviews:  &stubReviewRepo{},
		Comments: comments,
	})
	if err != nil {
		t.Fatalf("NewCatalogService returned error: %v", err)
	}

	got, err := svc.CommentsForInsight(context.Background(), "brand-voice")
	if err != nil {
		t.Fatalf("CommentsForInsight returned error: %v", err)
	}
	if len(got) != 1 || got[0].Author != "Visal" {
		t.Fatalf("expected only approved comments, got %+v", got)
	}

	if _, err := svc.CommentsForInsight(context.Background(), "missing"); !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("expected ErrCatalogNotFound for unknown insight, got %v", err)
	}
}
