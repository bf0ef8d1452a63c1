package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/services"
)

type stubCatalogService struct {
	catalogue domain.Catalogue
	comments  []domain.Comment

	catalogueErr error
	lookupErr    error

	refreshed  int
	reorderCmd *services.ReorderTeamCommand
	reorderErr error
}

func (s *stubCatalogService) Catalogue(context.Context) (domain.Catalogue, error) {
	return s.catalogue, s.catalogueErr
}

func (s *stubCatalogService) Team(context.Context) ([]domain.TeamMember, error) {
	return s.catalogue.Team, s.catalogueErr
}

func (s *stubCatalogService) Projects(context.Context) ([]domain.Project, error) {
	return s.catalogue.Projects, s.catalogueErr
}

func (s *stubCatalogService) Insights(context.Context) ([]domain.Insight, error) {
	return s.catalogue.Insights, s.catalogueErr
}

func (s *stubCatalogService) Services(context.Context) ([]domain.ServiceOffering, error) {
	return s.catalogue.Services, s.catalogueErr
}

func (s *stubCatalogService) Reviews(context.Context) ([]domain.Review, error) {
	return s.catalogue.Reviews, s.catalogueErr
}

func (s *stubCatalogService) ProjectBySlug(_ context.Context, slug string) (domain.Project, error) {
	if s.lookupErr != nil {
		return domain.Project{}, s.lookupErr
	}
	for _, project := range s.catalogue.Projects {
		if project.Slug == slug {
			return project, nil
		}
	}
	return domain.Project{}, services.ErrCatalogNotFound
}

func (s *stubCatalogService) InsightBySlug(_ context.Context, slug string) (domain.Insight, error) {
	if s.lookupErr != nil {
		return domain.Insight{}, s.lookupErr
	}
	for _, insight := range s.catalogue.Insights {
		if insight.Slug == slug {
			return insight, nil
		}
	}
	return domain.Insight{}, services.ErrCatalogNotFound
}

func (s *stubCatalogService) CommentsForInsight(context.Context, string) ([]domain.Comment, error) {
	return s.comments, s.lookupErr
}

func (s *stubCatalogService) Refresh(context.Context) error {
	s.refreshed++
	return nil
}

func (s *stubCatalogService) ReorderTeam(_ context.Context, cmd services.ReorderTeamCommand) ([]domain.TeamMember, error) {
	s.reorderCmd = &cmd
	if s.reorderErr != nil {
		return nil, s.reorderErr
	}
	return s.catalogue.Team, nil
}

var _ services.CatalogService = (*stubCatalogService)(nil)

type stubContentService struct {
	comment    domain.Comment
	commentErr error
	lastSubmit *services.SubmitCommentCommand

	moderatedID       string
	moderatedApproved bool
	deletedCommentID  string
}

func (s *stubContentService) SaveTeamMember(_ context.Context, cmd services.SaveTeamMemberCommand) (domain.TeamMember, error) {
	return domain.TeamMember{ID: cmd.ID, Slug: cmd.Slug, Name: domain.LocalizedText{En: cmd.NameEn}}, nil
}

func (s *stubContentService) DeleteTeamMember(context.Context, string) error { return nil }

func (s *stubContentService) SaveProject(_ context.Context, cmd services.SaveProjectCommand) (domain.Project, error) {
	return domain.Project{ID: cmd.ID, Slug: cmd.Slug, Title: domain.LocalizedText{En: cmd.TitleEn}}, nil
}

func (s *stubContentService) DeleteProject(context.Context, string) error { return nil }

func (s *stubContentService) SaveInsight(_ context.Context, cmd services.SaveInsightCommand) (domain.Insight, error) {
	return domain.Insight{ID: cmd.ID, Slug: cmd.Slug, Title: domain.LocalizedText{En: cmd.TitleEn}}, nil
}

func (s *stubContentService) DeleteInsight(context.Context, string) error { return nil }

func (s *stubContentService) SaveService(_ context.Context, cmd services.SaveServiceCommand) (domain.ServiceOffering, error) {
	return domain.ServiceOffering{ID: cmd.ID, Slug: cmd.Slug, Title: domain.LocalizedText{En: cmd.TitleEn}}, nil
}

func (s *stubContentService) DeleteService(context.Context, string) error { return nil }

func (s *stubContentService) SaveReview(_ context.Context, cmd services.SaveReviewCommand) (domain.Review, error) {
	return domain.Review{ID: cmd.ID, Slug: cmd.Slug, Author: cmd.Author}, nil
}

func (s *stubContentService) DeleteReview(context.Context, string) error { return nil }

func (s *stubContentService) SubmitComment(_ context.Context, cmd services.SubmitCommentCommand) (domain.Comment, error) {
	s.lastSubmit = &cmd
	if s.commentErr != nil {
		return domain.Comment{}, s.commentErr
	}
	return s.comment, nil
}

func (s *stubContentService) ModerateComment(_ context.Context, commentID string, approved bool) error {
	s.moderatedID = commentID
	s.moderatedApproved = approved
	return nil
}

func (s *stubContentService) DeleteComment(_ context.Context, commentID string) error {
	s.deletedCommentID = commentID
	return nil
}

var _ services.ContentService = (*stubContentService)(nil)

func newCatalogRouter(catalog services.CatalogService, content services.ContentService) chi.Router {
	r := chi.NewRouter()
	NewCatalogHandlers(catalog, content).Routes(r)
	return r
}

func TestCatalogHandlersServesFullCatalogue(t *testing.T) {
	catalog := &stubCatalogService{catalogue: domain.Catalogue{
		Team:     []domain.TeamMember{{ID: "m1", Slug: "sokha-lim", Name: domain.LocalizedText{En: "Sokha Lim"}}},
		Projects: []domain.Project{{ID: "p1", Slug: "mekong-bank-app", Title: domain.LocalizedText{En: "Mekong Bank App"}}},
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(catalog, &stubContentService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body domain.Catalogue
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Team) != 1 || body.Team[0].Slug != "sokha-lim" {
		t.Fatalf("unexpected team payload: %+v", body.Team)
	}
	if len(body.Projects) != 1 || body.Projects[0].Slug != "mekong-bank-app" {
		t.Fatalf("unexpected projects payload: %+v", body.Projects)
	}
}

func TestCatalogHandlersListsCategory(t *testing.T) {
	catalog := &stubCatalogService{catalogue: domain.Catalogue{
		Services: []domain.ServiceOffering{{ID: "s1", Slug: "brand-identity", Title: domain.LocalizedText{En: "Brand Identity"}}},
	}}

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(catalog, &stubContentService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var body struct {
		Items []domain.ServiceOffering `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].Slug != "brand-identity" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
}

func TestCatalogHandlersRejectsUnknownCategory(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/podcasts", nil)
	rr := httptest.NewRecorder()
	newCatalogRouter(&stubCatalogService{}, &stubContentService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestCatalogHandlersInsightDetailAndMiss(t *testing.T) {
	catalog := &stubCatalogService{catalogue: domain.Catalogue{
		Insights: []domain.Insight{{ID: "i1", Slug: "bilingual-brand-voice", Title: domain.LocalizedText{En: "Bilingual Brand Voice"}}},
	}}
	router := newCatalogRouter(catalog, &stubContentService{})

	req := httptest.NewRequest(http.MethodGet, "/insights/bilingual-brand-voice", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/insights/missing", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown slug, got %d", rr.Code)
	}
}

func TestCatalogHandlersPaginatesInsights(t *testing.T) {
	catalog := &stubCatalogService{catalogue: domain.Catalogue{
		Insights: []domain.Insight{
			{ID: "i1", Slug: "first-post"},
			{ID: "i2", Slug: "second-post"},
			{ID: "i3", Slug: "third-post"},
		},
	}}
	router := newCatalogRouter(catalog, &stubContentService{})

	req := httptest.NewRequest(http.MethodGet, "/insights?pageSize=2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var page struct {
		Items         []domain.Insight `json:"items"`
		NextPageToken string           `json:"next_page_token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(page.Items) != 2 || page.Items[1].Slug != "second-post" {
		t.Fatalf("unexpected first page: %+v", page.Items)
	}
	if page.NextPageToken == "" {
		t.Fatal("expected a next-page token")
	}

	req = httptest.NewRequest(http.MethodGet, "/insights?pageSize=2&pageToken="+page.NextPageToken, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Slug != "third-post" {
		t.Fatalf("unexpected second page: %+v", page.Items)
	}
	if page.NextPageToken != "" {
		t.Fatalf("expected no further pages, got token %q", page.NextPageToken)
	}

	req = httptest.NewRequest(http.MethodGet, "/insights?pageToken=not-a-token", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for a malformed token, got %d", rr.Code)
	}
}

func TestCatalogHandlersSubmitComment(t *testing.T) {
	content := &stubContentService{comment: domain.Comment{ID: "c1", InsightSlug: "bilingual-brand-voice", Author: "Visal"}}
	router := newCatalogRouter(&stubCatalogService{}, content)

	payload := `{"author":"Visal","body":"Great piece, the Khmer examples landed well."}`
	req := httptest.NewRequest(http.MethodPost, "/insights/bilingual-brand-voice/comments", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if content.lastSubmit == nil {
		t.Fatal("expected the comment to reach the content service")
	}
	if content.lastSubmit.InsightSlug != "bilingual-brand-voice" {
		t.Fatalf("expected the slug from the URL, got %q", content.lastSubmit.InsightSlug)
	}
	if content.lastSubmit.Author != "Visal" {
		t.Fatalf("unexpected author %q", content.lastSubmit.Author)
	}
}

func TestCatalogHandlersSubmitCommentRejectsInvalidBody(t *testing.T) {
	router := newCatalogRouter(&stubCatalogService{}, &stubContentService{})

	req := httptest.NewRequest(http.MethodPost, "/insights/x/comments", strings.NewReader("   "))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for an empty body, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/insights/x/comments", strings.NewReader(`{"author":"a","extra":true}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown fields, got %d", rr.Code)
	}
}
