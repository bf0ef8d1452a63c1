package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/mekong-creative/api/internal/domain"
)

type refresherSpy struct {
	calls int
}

func (r *refresherSpy) Refresh(ctx context.Context) error {
	r.calls++
	return nil
}

type recordingInsightRepo struct {
	stubInsightRepo
	inserted []domain.Insight
}

func (r *recordingInsightRepo) Insert(ctx context.Context, i domain.Insight) (domain.Insight, error) {
	i.ID = "8a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	r.inserted = append(r.inserted, i)
	return i, nil
}

func newContentFixture(t *testing.T) (ContentService, *recordingInsightRepo, *refresherSpy) {
	t.Helper()
	insights := &recordingInsightRepo{}
	refresher := &refresherSpy{}
	svc, err := NewContentService(ContentServiceDeps{
		Team:     &stubTeamRepo{},
		Projects: &stubProjectRepo{},
		Insights: insights,
		Services: &stubServiceRepo{},
		Reviews:  &stubReviewRepo{},
		Comments: &stubCommentRepo{},
		Catalog:  refresher,
	})
	if err != nil {
		t.Fatalf("NewContentService returned error: %v", err)
	}
	return svc, insights, refresher
}

func TestSaveInsightRendersMarkdown(t *testing.T) {
	svc, insights, refresher := newContentFixture(t)

	saved, err := svc.SaveInsight(context.Background(), SaveInsightCommand{
		TitleEn:      "Brand Voice",
		BodyMarkdown: "## Heading\n\nSome *emphasis* here.",
	})
	if err != nil {
		t.Fatalf("SaveInsight returned error: %v", err)
	}
	if saved.Slug != "brand-voice" {
		t.Fatalf("expected derived slug brand-voice, got %q", saved.Slug)
	}
	if !strings.Contains(saved.BodyHTML, "<h2") || !strings.Contains(saved.BodyHTML, "<em>emphasis</em>") {
		t.Fatalf("expected rendered HTML, got %q", saved.BodyHTML)
	}
	if len(insights.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(insights.inserted))
	}
	if refresher.calls != 1 {
		t.Fatalf("expected snapshot refresh after save, got %d calls", refresher.calls)
	}
}

func TestSaveInsightStripsScriptOnRender(t *testing.T) {
	svc, _, _ := newContentFixture(t)

	saved, err := svc.SaveInsight(context.Background(), SaveInsightCommand{
		TitleEn:      "Injection",
		BodyMarkdown: "Hello <script>alert(1)</script> world",
	})
	if err != nil {
		t.Fatalf("SaveInsight returned error: %v", err)
	}
	if strings.Contains(saved.BodyHTML, "<script") {
		t.Fatalf("expected sanitised HTML, got %q", saved.BodyHTML)
	}
}

func TestSaveInsightImportsHTMLAsMarkdown(t *testing.T) {
	svc, _, _ := newContentFixture(t)

	saved, err := svc.SaveInsight(context.Background(), SaveInsightCommand{
		TitleEn:  "Imported",
		BodyHTML: "<h2>Process</h2><p>We start with <strong>research</strong>.</p>",
	})
	if err != nil {
		t.Fatalf("SaveInsight returned error: %v", err)
	}
	if !strings.Contains(saved.BodyMarkdown, "## Process") {
		t.Fatalf("expected markdown heading, got %q", saved.BodyMarkdown)
	}
	if !strings.Contains(saved.BodyMarkdown, "**research**") {
		t.Fatalf("expected bold markdown, got %q", saved.BodyMarkdown)
	}
}

func TestSaveInsightRejectsAmbiguousBody(t *testing.T) {
	svc, _, _ := newContentFixture(t)

	_, err := svc.SaveInsight(context.Background(), SaveInsightCommand{
		TitleEn:      "Both",
		BodyMarkdown: "text",
		BodyHTML:     "<p>text</p>",
	})
	if !errors.Is(err, ErrContentInvalidInput) {
		t.Fatalf("expected ErrContentInvalidInput for dual body, got %v", err)
	}

	_, err = svc.SaveInsight(context.Background(), SaveInsightCommand{TitleEn: "Neither"})
	if !errors.Is(err, ErrContentInvalidInput) {
		t.Fatalf("expected ErrContentInvalidInput for missing body, got %v", err)
	}
}

func TestSaveTeamMemberDerivesSlugFallback(t *testing.T) {
	refresher := &refresherSpy{}
	svc, err := NewContentService(ContentServiceDeps{
		Team:        &stubTeamRepo{},
		Projects:    &stubProjectRepo{},
		Insights:    &stubInsightRepo{},
		Services:    &stubServiceRepo{},
		Reviews:     &stubReviewRepo{},
		Comments:    &stubCommentRepo{},
		Catalog:     refresher,
		IDGenerator: func() string { return "01HZXFALLBACK0000000000000" },
	})
	if err != nil {
		t.Fatalf("NewContentService returned error: %v", err)
	}

	// A Khmer-only name produces no ASCII slug; the generated id steps in.
	saved, err := svc.SaveTeamMember(context.Background(), SaveTeamMemberCommand{
		NameEn: "សុខា",
		RoleEn: "Director",
	})
	if err != nil {
		t.Fatalf("SaveTeamMember returned error: %v", err)
	}
	if saved.Slug != "01hzxfallback0000000000000" {
		t.Fatalf("expected id-derived slug, got %q", saved.Slug)
	}
}

func TestSaveReviewValidatesRating(t *testing.T) {
	svc, _, _ := newContentFixture(t)

	_, err := svc.SaveReview(context.Background(), SaveReviewCommand{
		Author:  "Client",
		QuoteEn: "Great work",
		Rating:  9,
	})
	if !errors.Is(err, ErrContentInvalidInput) {
		t.Fatalf("expected ErrContentInvalidInput for rating 9, got %v", err)
	}
}

func TestDeleteRejectsBundledIdentity(t *testing.T) {
	svc, _, refresher := newContentFixture(t)

	err := svc.DeleteTeamMember(context.Background(), "01HZX0000000000000000000A1")
	if !errors.Is(err, ErrContentInvalidInput) {
		t.Fatalf("expected ErrContentInvalidInput for bundled id, got %v", err)
	}
	if refresher.calls != 0 {
		t.Fatalf("expected no refresh after rejected delete, got %d", refresher.calls)
	}

	if err := svc.DeleteTeamMember(context.Background(), "7f3e2a10-1111-4222-8333-444455556666"); err != nil {
		t.Fatalf("expected remote id delete to pass, got %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected refresh after delete, got %d", refresher.calls)
	}
}

func TestSubmitCommentStartsUnapproved(t *testing.T) {
	svc, _, _ := newContentFixture(t)

	saved, err := svc.SubmitComment(context.Background(), SubmitCommentCommand{
		InsightSlug: "brand-voice",
		Author:      "Visal",
		Body:        "Great read",
	})
	if err != nil {
		t.Fatalf("SubmitComment returned error: %v", err)
	}
	if saved.Approved {
		t.Fatal("expected new comment to await moderation")
	}
}
