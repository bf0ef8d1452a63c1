package restdb

import (
	"context"
	"errors"
	"strconv"
	"strings"

	domain "github.com/mekong-creative/api/internal/domain"
	"github.com/mekong-creative/api/internal/platform/restdb"
	"github.com/mekong-creative/api/internal/repositories"
)

// TeamRepository persists studio member profiles in the remote store.
type TeamRepository struct {
	client *restdb.Client
}

var _ repositories.TeamRepository = (*TeamRepository)(nil)

// NewTeamRepository constructs a store-backed team repository.
func NewTeamRepository(client *restdb.Client) (*TeamRepository, error) {
	if client == nil {
		return nil, errors.New("team repository requires store client")
	}
	return &TeamRepository{client: client}, nil
}

// List returns every member ordered by display order, then slug for rows that
// have never been reordered.
func (r *TeamRepository) List(ctx context.Context) ([]domain.TeamMember, error) {
	var rows []teamRow
	opts := restdb.SelectOptions{
		Orders: []restdb.Order{
			{Column: "display_order"},
			{Column: "slug"},
		},
	}
	if err := r.client.Select(ctx, TableTeam, opts, &rows); err != nil {
		return nil, err
	}
	members := make([]domain.TeamMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}
	return members, nil
}

// Insert appends a new member and returns the stored row with its assigned id.
func (r *TeamRepository) Insert(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	record := teamRowFromDomain(member)
	record.ID = ""
	var created []teamRow
	if err := r.client.Insert(ctx, TableTeam, record, &created); err != nil {
		return domain.TeamMember{}, err
	}
	if len(created) == 0 {
		return domain.TeamMember{}, errors.New("team repository: store returned no representation")
	}
	return created[0].toDomain(), nil
}

// Update overwrites the member row identified by its id.
func (r *TeamRepository) Update(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	id := strings.TrimSpace(member.ID)
	if id == "" {
		return domain.TeamMember{}, errors.New("team repository: member id is required")
	}
	record := teamRowFromDomain(member)
	record.ID = ""
	if err := r.client.Update(ctx, TableTeam, restdb.Filter{Column: "id", Value: id}, record); err != nil {
		return domain.TeamMember{}, err
	}
	member.ID = id
	return member, nil
}

// Delete removes the member row identified by its id.
func (r *TeamRepository) Delete(ctx context.Context, memberID string) error {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return errors.New("team repository: member id is required")
	}
	return r.client.Delete(ctx, TableTeam, restdb.Filter{Column: "id", Value: memberID})
}

// UpsertBySlug inserts the member or overwrites the row already holding the
// same slug. Bundled profiles are migrated through this path, so repeating the
// call for the same slug converges on a single row.
func (r *TeamRepository) UpsertBySlug(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	if strings.TrimSpace(member.Slug) == "" {
		return domain.TeamMember{}, errors.New("team repository: member slug is required")
	}
	record := teamRowFromDomain(member)
	if !domain.HasRemoteIdentity(record.ID) {
		// Locally generated ids never reach the store; the row keeps or
		// receives a store-assigned id.
		record.ID = ""
	}
	if err := r.client.Upsert(ctx, TableTeam, "slug", record); err != nil {
		return domain.TeamMember{}, err
	}

	var rows []teamRow
	opts := restdb.SelectOptions{
		Filters: []restdb.Filter{{Column: "slug", Value: member.Slug}},
		Limit:   1,
	}
	if err := r.client.Select(ctx, TableTeam, opts, &rows); err != nil {
		return domain.TeamMember{}, err
	}
	if len(rows) == 0 {
		return domain.TeamMember{}, errors.New("team repository: upserted row not found")
	}
	return rows[0].toDomain(), nil
}

// UpdateOrder persists a new display order for a single member.
func (r *TeamRepository) UpdateOrder(ctx context.Context, memberID string, displayOrder int) error {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return errors.New("team repository: member id is required")
	}
	if displayOrder < 0 {
		return errors.New("team repository: display order must not be negative: " + strconv.Itoa(displayOrder))
	}
	patch := struct {
		DisplayOrder int `json:"display_order"`
	}{DisplayOrder: displayOrder}
	return r.client.Update(ctx, TableTeam, restdb.Filter{Column: "id", Value: memberID}, patch)
}
