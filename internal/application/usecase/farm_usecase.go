package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/access"
	"github.com/jhoicas/farm-directory-api/internal/domain/directory"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
)

// FarmOptions public directory behaviour.
type FarmOptions struct {
	// ApprovedOnly restricts the public set to approved listings. When false
	// every listing except deleted ones is public.
	ApprovedOnly bool
	// Locale BCP 47 tag used for name ordering when the request has none.
	Locale string
}

// FarmUseCase public directory and listing submission.
type FarmUseCase struct {
	repo     repository.FarmRepository
	exporter MapExporter
	filter   repository.FarmFilter
	locale   language.Tag
	now      func() time.Time
}

// NewFarmUseCase builds the use case.
func NewFarmUseCase(repo repository.FarmRepository, exporter MapExporter, opts FarmOptions) *FarmUseCase {
	filter := repository.FarmFilter{ExcludeStatuses: []entity.FarmStatus{entity.FarmDeleted}}
	if opts.ApprovedOnly {
		filter = repository.FarmFilter{Statuses: []entity.FarmStatus{entity.FarmApproved}}
	}
	return &FarmUseCase{
		repo:     repo,
		exporter: exporter,
		filter:   filter,
		locale:   parseLocale(opts.Locale, directory.DefaultLocale),
		now:      time.Now,
	}
}

// List the public directory view for q.
func (uc *FarmUseCase) List(ctx context.Context, q dto.ListFarmsQuery) ([]dto.FarmResponse, error) {
	farms, err := uc.public(ctx)
	if err != nil {
		return nil, err
	}

	query := directory.Query{
		SearchTerm: q.SearchTerm,
		Category:   q.Category,
		Locale:     parseLocale(q.Lang, uc.locale),
	}
	if q.Lat != nil && q.Lon != nil && directory.ValidOrigin(*q.Lat, *q.Lon) {
		query.Origin = &directory.Origin{Lat: *q.Lat, Lon: *q.Lon}
	}

	results := directory.View(farms, query)
	out := make([]dto.FarmResponse, 0, len(results))
	for _, r := range results {
		resp := toFarmResponse(&r.Farm)
		if query.Origin != nil && r.HasDistance() {
			d := r.Distance
			resp.Distance = &d
		}
		out = append(out, resp)
	}
	return out, nil
}

// Categories vocabulary of the public set.
func (uc *FarmUseCase) Categories(ctx context.Context) ([]string, error) {
	farms, err := uc.public(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Categories(farms), nil
}

// GetByID public detail. Listings outside the public set are reported as missing.
func (uc *FarmUseCase) GetByID(ctx context.Context, id string) (*dto.FarmResponse, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil || !uc.filter.Allows(f.Status) {
		return nil, domain.ErrNotFound
	}
	out := toFarmResponse(f)
	return &out, nil
}

// Create submits a listing for approval on behalf of caller.
func (uc *FarmUseCase) Create(ctx context.Context, caller access.Identity, in dto.CreateFarmRequest) (*dto.CreatedResponse, error) {
	if err := access.RequireApprovedOrAdmin(caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	location := strings.TrimSpace(in.Location)
	products := strings.TrimSpace(in.Products)
	if name == "" || location == "" || products == "" {
		return nil, fmt.Errorf("%w: name, location and products are required", domain.ErrInvalidInput)
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be given together", domain.ErrInvalidInput)
	}
	if in.Latitude != nil && !directory.ValidOrigin(*in.Latitude, *in.Longitude) {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}

	now := uc.now().UTC()
	owner := caller.UserID
	farm := &entity.Farm{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Location:    location,
		Products:    products,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OwnerID:     &owner,
		Status:      entity.FarmPendingApproval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, farm); err != nil {
		return nil, err
	}
	return &dto.CreatedResponse{ID: farm.ID, Message: "Farm submitted for approval"}, nil
}

// Delete removes a listing. Only its owner or an admin may do so.
func (uc *FarmUseCase) Delete(ctx context.Context, caller access.Identity, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return domain.ErrNotFound
	}
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return domain.ErrNotFound
	}
	if err := access.RequireOwnerOrAdmin(caller, f); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ExportKML public listings that have coordinates, as KML.
func (uc *FarmUseCase) ExportKML(ctx context.Context) ([]byte, error) {
	farms, err := uc.public(ctx)
	if err != nil {
		return nil, err
	}
	results := directory.View(farms, directory.Query{Locale: uc.locale})
	ordered := make([]entity.Farm, 0, len(results))
	for _, r := range results {
		ordered = append(ordered, r.Farm)
	}
	return uc.exporter.ExportKML(ctx, ordered)
}

func (uc *FarmUseCase) public(ctx context.Context) ([]entity.Farm, error) {
	list, err := uc.repo.List(ctx, uc.filter)
	if err != nil {
		return nil, err
	}
	farms := make([]entity.Farm, 0, len(list))
	for _, f := range list {
		farms = append(farms, *f)
	}
	return farms, nil
}

// canonicalID returns id in canonical UUID form. Row ids are UUIDs, so an id
// that does not parse names no row.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

func parseLocale(s string, fallback language.Tag) language.Tag {
	if s == "" {
		return fallback
	}
	tag, err := language.Parse(s)
	if err != nil || tag == language.Und {
		return fallback
	}
	return tag
}

func toFarmResponse(f *entity.Farm) dto.FarmResponse {
	return dto.FarmResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Location:    f.Location,
		Products:    f.Products,
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		OwnerID:     f.OwnerID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}
