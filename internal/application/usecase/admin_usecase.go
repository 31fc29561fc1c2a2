package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farm-directory-api/internal/application/auth"
	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/access"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
)

// AdminUseCase moderation of accounts and listings.
type AdminUseCase struct {
	users   repository.UserRepository
	farms   repository.FarmRepository
	reports DirectoryReportGenerator
	now     func() time.Time
}

// NewAdminUseCase builds the use case.
func NewAdminUseCase(users repository.UserRepository, farms repository.FarmRepository, reports DirectoryReportGenerator) *AdminUseCase {
	return &AdminUseCase{users: users, farms: farms, reports: reports, now: time.Now}
}

// ListUsers every account with its legal next statuses.
func (uc *AdminUseCase) ListUsers(ctx context.Context, caller access.Identity) ([]dto.AdminUserResponse, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	list, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminUserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.AdminUserResponse{
			UserResponse:       auth.ToUserResponse(u),
			AllowedTransitions: userStatusStrings(access.AllowedUserTransitions(u.Status)),
		})
	}
	return out, nil
}

// UpdateUserStatus moves an account along the account transition table.
// Admins cannot change their own status.
func (uc *AdminUseCase) UpdateUserStatus(ctx context.Context, caller access.Identity, id, status string) (*dto.StatusUpdatedResponse, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	id, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if caller.UserID == id {
		return nil, fmt.Errorf("%w: cannot change your own status", domain.ErrForbidden)
	}
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	to := entity.UserStatus(status)
	if err := access.ValidateUserTransition(u.Status, to); err != nil {
		return nil, err
	}
	if err := uc.users.UpdateStatus(ctx, id, u.Status, to, uc.now().UTC()); err != nil {
		return nil, err
	}
	return &dto.StatusUpdatedResponse{
		Message:            "User status updated to " + status,
		ID:                 id,
		Status:             status,
		AllowedTransitions: userStatusStrings(access.AllowedUserTransitions(to)),
	}, nil
}

// ListFarms every listing, any status, with the owner's name.
func (uc *AdminUseCase) ListFarms(ctx context.Context, caller access.Identity) ([]dto.AdminFarmResponse, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	list, err := uc.farms.ListWithOwner(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminFarmResponse, 0, len(list))
	for _, f := range list {
		out = append(out, dto.AdminFarmResponse{
			FarmResponse:       toFarmResponse(&f.Farm),
			AdminNotes:         f.AdminNotes,
			OwnerName:          f.OwnerName,
			AllowedTransitions: farmStatusStrings(access.AllowedFarmTransitions(f.Status)),
			UpdatedAt:          f.UpdatedAt,
		})
	}
	return out, nil
}

// UpdateFarmStatus moves a listing along the listing transition table.
// notes, when given, replaces the stored admin notes.
func (uc *AdminUseCase) UpdateFarmStatus(ctx context.Context, caller access.Identity, id, status string, notes *string) (*dto.StatusUpdatedResponse, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	id, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	f, err := uc.farms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	to := entity.FarmStatus(status)
	if err := access.ValidateFarmTransition(f.Status, to); err != nil {
		return nil, err
	}
	err = uc.farms.UpdateStatus(ctx, id, repository.FarmStatusUpdate{
		From:       f.Status,
		To:         to,
		AdminNotes: notes,
		At:         uc.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusUpdatedResponse{
		Message:            "Farm status updated to " + status,
		ID:                 id,
		Status:             status,
		AllowedTransitions: farmStatusStrings(access.AllowedFarmTransitions(to)),
	}, nil
}

// Report PDF of every listing grouped by status.
func (uc *AdminUseCase) Report(ctx context.Context, caller access.Identity) ([]byte, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, err
	}
	list, err := uc.farms.ListWithOwner(ctx)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateDirectoryReport(ctx, list, uc.now())
}

func userStatusStrings(in []entity.UserStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func farmStatusStrings(in []entity.FarmStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
