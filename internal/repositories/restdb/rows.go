package restdb

import (
	"time"

	domain "github.com/mekong-creative/api/internal/domain"
)

// Table names used by the remote store. Every repository in this package
// addresses exactly one of them.
const (
	TableTeam     = "team"
	TableProjects = "projects"
	TableInsights = "insights"
	TableServices = "services"
	TableReviews  = "reviews"
	TableComments = "comments"
)

// Row structs enumerate every column explicitly. The store client rejects
// unknown keys on decode, so a remote schema change fails loudly instead of
// silently dropping data.

type teamRow struct {
	ID           string              `json:"id,omitempty"`
	Slug         string              `json:"slug"`
	NameEn       string              `json:"name_en"`
	NameKm       string              `json:"name_km"`
	RoleEn       string              `json:"role_en"`
	RoleKm       string              `json:"role_km"`
	BioEn        string              `json:"bio_en"`
	BioKm        string              `json:"bio_km"`
	PhotoURL     string              `json:"photo_url"`
	Links        domain.SocialLinks  `json:"links"`
	DisplayOrder *int                `json:"display_order"`
	CreatedAt    *time.Time          `json:"created_at,omitempty"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`
}

func teamRowFromDomain(member domain.TeamMember) teamRow {
	return teamRow{
		ID:           member.ID,
		Slug:         member.Slug,
		NameEn:       member.Name.En,
		NameKm:       member.Name.Km,
		RoleEn:       member.Role.En,
		RoleKm:       member.Role.Km,
		BioEn:        member.Bio.En,
		BioKm:        member.Bio.Km,
		PhotoURL:     member.PhotoURL,
		Links:        member.Links,
		DisplayOrder: member.DisplayOrder,
	}
}

func (r teamRow) toDomain() domain.TeamMember {
	return domain.TeamMember{
		ID:           r.ID,
		Slug:         r.Slug,
		Name:         domain.LocalizedText{En: r.NameEn, Km: r.NameKm},
		Role:         domain.LocalizedText{En: r.RoleEn, Km: r.RoleKm},
		Bio:          domain.LocalizedText{En: r.BioEn, Km: r.BioKm},
		PhotoURL:     r.PhotoURL,
		Links:        r.Links,
		DisplayOrder: r.DisplayOrder,
		CreatedAt:    timeValue(r.CreatedAt),
		UpdatedAt:    timeValue(r.UpdatedAt),
	}
}

type projectRow struct {
	ID        string     `json:"id,omitempty"`
	Slug      string     `json:"slug"`
	TitleEn   string     `json:"title_en"`
	TitleKm   string     `json:"title_km"`
	Client    string     `json:"client"`
	SummaryEn string     `json:"summary_en"`
	SummaryKm string     `json:"summary_km"`
	BodyHTML  string     `json:"body_html"`
	CoverURL  string     `json:"cover_url"`
	Gallery   []string   `json:"gallery"`
	Services  []string   `json:"services"`
	Year      int        `json:"year"`
	Featured  bool       `json:"featured"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func projectRowFromDomain(project domain.Project) projectRow {
	return projectRow{
		ID:        project.ID,
		Slug:      project.Slug,
		TitleEn:   project.Title.En,
		TitleKm:   project.Title.Km,
		Client:    project.Client,
		SummaryEn: project.Summary.En,
		SummaryKm: project.Summary.Km,
		BodyHTML:  project.BodyHTML,
		CoverURL:  project.CoverURL,
		Gallery:   project.Gallery,
		Services:  project.Services,
		Year:      project.Year,
		Featured:  project.Featured,
	}
}

func (r projectRow) toDomain() domain.Project {
	return domain.Project{
		ID:        r.ID,
		Slug:      r.Slug,
		Title:     domain.LocalizedText{En: r.TitleEn, Km: r.TitleKm},
		Client:    r.Client,
		Summary:   domain.LocalizedText{En: r.SummaryEn, Km: r.SummaryKm},
		BodyHTML:  r.BodyHTML,
		CoverURL:  r.CoverURL,
		Gallery:   r.Gallery,
		Services:  r.Services,
		Year:      r.Year,
		Featured:  r.Featured,
		CreatedAt: timeValue(r.CreatedAt),
		UpdatedAt: timeValue(r.UpdatedAt),
	}
}

type insightRow struct {
	ID           string     `json:"id,omitempty"`
	Slug         string     `json:"slug"`
	TitleEn      string     `json:"title_en"`
	TitleKm      string     `json:"title_km"`
	ExcerptEn    string     `json:"excerpt_en"`
	ExcerptKm    string     `json:"excerpt_km"`
	BodyMarkdown string     `json:"body_markdown"`
	BodyHTML     string     `json:"body_html"`
	CoverURL     string     `json:"cover_url"`
	Author       string     `json:"author"`
	Tags         []string   `json:"tags"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func insightRowFromDomain(insight domain.Insight) insightRow {
	row := insightRow{
		ID:           insight.ID,
		Slug:         insight.Slug,
		TitleEn:      insight.Title.En,
		TitleKm:      insight.Title.Km,
		ExcerptEn:    insight.Excerpt.En,
		ExcerptKm:    insight.Excerpt.Km,
		BodyMarkdown: insight.BodyMarkdown,
		BodyHTML:     insight.BodyHTML,
		CoverURL:     insight.CoverURL,
		Author:       insight.Author,
		Tags:         insight.Tags,
	}
	if !insight.PublishedAt.IsZero() {
		published := insight.PublishedAt
		row.PublishedAt = &published
	}
	return row
}

func (r insightRow) toDomain() domain.Insight {
	return domain.Insight{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        domain.LocalizedText{En: r.TitleEn, Km: r.TitleKm},
		Excerpt:      domain.LocalizedText{En: r.ExcerptEn, Km: r.ExcerptKm},
		BodyMarkdown: r.BodyMarkdown,
		BodyHTML:     r.BodyHTML,
		CoverURL:     r.CoverURL,
		Author:       r.Author,
		Tags:         r.Tags,
		PublishedAt:  timeValue(r.PublishedAt),
		CreatedAt:    timeValue(r.CreatedAt),
		UpdatedAt:    timeValue(r.UpdatedAt),
	}
}

type serviceRow struct {
	ID            string     `json:"id,omitempty"`
	Slug          string     `json:"slug"`
	TitleEn       string     `json:"title_en"`
	TitleKm       string     `json:"title_km"`
	DescriptionEn string     `json:"description_en"`
	DescriptionKm string     `json:"description_km"`
	Icon          string     `json:"icon"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func serviceRowFromDomain(offering domain.ServiceOffering) serviceRow {
	return serviceRow{
		ID:            offering.ID,
		Slug:          offering.Slug,
		TitleEn:       offering.Title.En,
		TitleKm:       offering.Title.Km,
		DescriptionEn: offering.Description.En,
		DescriptionKm: offering.Description.Km,
		Icon:          offering.Icon,
	}
}

func (r serviceRow) toDomain() domain.ServiceOffering {
	return domain.ServiceOffering{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       domain.LocalizedText{En: r.TitleEn, Km: r.TitleKm},
		Description: domain.LocalizedText{En: r.DescriptionEn, Km: r.DescriptionKm},
		Icon:        r.Icon,
		CreatedAt:   timeValue(r.CreatedAt),
		UpdatedAt:   timeValue(r.UpdatedAt),
	}
}

type reviewRow struct {
	ID        string     `json:"id,omitempty"`
	Slug      string     `json:"slug"`
	Author    string     `json:"author"`
	Company   string     `json:"company"`
	QuoteEn   string     `json:"quote_en"`
	QuoteKm   string     `json:"quote_km"`
	Rating    int        `json:"rating"`
	AvatarURL string     `json:"avatar_url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func reviewRowFromDomain(review domain.Review) reviewRow {
	return reviewRow{
		ID:        review.ID,
		Slug:      review.Slug,
		Author:    review.Author,
		Company:   review.Company,
		QuoteEn:   review.Quote.En,
		QuoteKm:   review.Quote.Km,
		Rating:    review.Rating,
		AvatarURL: review.AvatarURL,
	}
}

func (r reviewRow) toDomain() domain.Review {
	return domain.Review{
		ID:        r.ID,
		Slug:      r.Slug,
		Author:    r.Author,
		Company:   r.Company,
		Quote:     domain.LocalizedText{En: r.QuoteEn, Km: r.QuoteKm},
		Rating:    r.Rating,
		AvatarURL: r.AvatarURL,
		CreatedAt: timeValue(r.CreatedAt),
		UpdatedAt: timeValue(r.UpdatedAt),
	}
}

type commentRow struct {
	ID          string     `json:"id,omitempty"`
	InsightSlug string     `json:"insight_slug"`
	Author      string     `json:"author"`
	Body        string     `json:"body"`
	Approved    bool       `json:"approved"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func commentRowFromDomain(comment domain.Comment) commentRow {
	return commentRow{
		ID:          comment.ID,
		InsightSlug: comment.InsightSlug,
		Author:      comment.Author,
		Body:        comment.Body,
		Approved:    comment.Approved,
	}
}

func (r commentRow) toDomain() domain.Comment {
	return domain.Comment{
		ID:          r.ID,
		InsightSlug: r.InsightSlug,
		Author:      r.Author,
		Body:        r.Body,
		Approved:    r.Approved,
		CreatedAt:   timeValue(r.CreatedAt),
	}
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
