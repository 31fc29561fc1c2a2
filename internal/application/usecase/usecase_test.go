package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farm-directory-api/internal/application/dto"
	"github.com/jhoicas/farm-directory-api/internal/application/usecase"
	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/access"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/kml"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/pdf"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/sqlite"
)

type fixture struct {
	users *sqlite.UserRepo
	farms *sqlite.FarmRepo
	farm  *usecase.FarmUseCase
	admin *usecase.AdminUseCase
}

func newFixture(t *testing.T, approvedOnly bool) *fixture {
	t.Helper()
	pool, err := sqlite.Open(sqlite.Config{Path: filepath.Join(t.TempDir(), "test.db"), PoolSize: 2, Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	users := sqlite.NewUserRepository(pool)
	farms := sqlite.NewFarmRepository(pool)
	return &fixture{
		users: users,
		farms: farms,
		farm:  usecase.NewFarmUseCase(farms, kml.NewExporter(""), usecase.FarmOptions{ApprovedOnly: approvedOnly, Locale: "fi"}),
		admin: usecase.NewAdminUseCase(users, farms, pdf.NewDirectoryReportGenerator("")),
	}
}

func (f *fixture) account(t *testing.T, role entity.Role, status entity.UserStatus) access.Identity {
	t.Helper()
	now := time.Now().UTC()
	u := &entity.User{
		ID: uuid.New().String(), Email: uuid.New().String() + "@example.com", PasswordHash: "x",
		Name: "Account", Role: role, Status: status, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return access.Identity{UserID: u.ID, Role: role, Status: status}
}

func (f *fixture) listing(t *testing.T, name string, owner access.Identity, status entity.FarmStatus, coords ...float64) string {
	t.Helper()
	now := time.Now().UTC()
	farm := &entity.Farm{
		ID: uuid.New().String(), Name: name, Location: "Porvoo", Products: "Eggs, Honey",
		OwnerID: &owner.UserID, Status: status, CreatedAt: now, UpdatedAt: now,
	}
	if len(coords) == 2 {
		farm.Latitude, farm.Longitude = &coords[0], &coords[1]
	}
	require.NoError(t, f.farms.Create(context.Background(), farm))
	return farm.ID
}

func ptr(v float64) *float64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Create / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PendingAccountIsRejected(t *testing.T) {
	fx := newFixture(t, true)
	pending := fx.account(t, entity.RoleUser, entity.UserPendingApproval)

	_, err := fx.farm.Create(context.Background(), pending, dto.CreateFarmRequest{Name: "F", Location: "L", Products: "Eggs"})
	assert.ErrorIs(t, err, domain.ErrPendingApproval)
}

func TestCreate_AlwaysPendingApproval(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)

	out, err := fx.farm.Create(ctx, admin, dto.CreateFarmRequest{
		Name: "Sunny Mead Farm", Location: "Porvoo", Products: "Eggs, Honey",
		Latitude: ptr(60.3932), Longitude: ptr(25.665),
	})
	require.NoError(t, err)
	assert.Equal(t, "Farm submitted for approval", out.Message)

	stored, err := fx.farms.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.FarmPendingApproval, stored.Status)
	require.NotNil(t, stored.OwnerID)
	assert.Equal(t, admin.UserID, *stored.OwnerID)
}

func TestCreate_Validation(t *testing.T) {
	fx := newFixture(t, true)
	approved := fx.account(t, entity.RoleUser, entity.UserApproved)
	ctx := context.Background()

	cases := map[string]dto.CreateFarmRequest{
		"missing name":     {Location: "L", Products: "P"},
		"only latitude":    {Name: "N", Location: "L", Products: "P", Latitude: ptr(60)},
		"latitude too big": {Name: "N", Location: "L", Products: "P", Latitude: ptr(91), Longitude: ptr(0)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fx.farm.Create(ctx, approved, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := fx.farm.Create(ctx, approved, dto.CreateFarmRequest{Name: "Null Island", Location: "Sea", Products: "Fish",
		Latitude: ptr(0), Longitude: ptr(0)})
	assert.NoError(t, err, "zero is a valid coordinate")
}

func TestDelete_Permissions(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	other := fx.account(t, entity.RoleUser, entity.UserApproved)
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)

	id := fx.listing(t, "Mine", owner, entity.FarmApproved)
	assert.ErrorIs(t, fx.farm.Delete(ctx, other, id), domain.ErrForbidden)
	assert.NoError(t, fx.farm.Delete(ctx, owner, id))
	assert.ErrorIs(t, fx.farm.Delete(ctx, owner, id), domain.ErrNotFound)

	id = fx.listing(t, "Theirs", owner, entity.FarmPendingApproval)
	assert.NoError(t, fx.farm.Delete(ctx, admin, id))
}

// ──────────────────────────────────────────────────────────────────────────────
// Public directory
// ──────────────────────────────────────────────────────────────────────────────

func TestList_ApprovedOnly(t *testing.T) {
	fx := newFixture(t, true)
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	fx.listing(t, "Visible", owner, entity.FarmApproved)
	fx.listing(t, "Waiting", owner, entity.FarmPendingApproval)
	fx.listing(t, "Gone", owner, entity.FarmDeleted)

	out, err := fx.farm.List(context.Background(), dto.ListFarmsQuery{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Visible", out[0].Name)
	assert.Nil(t, out[0].Distance)
}

func TestList_RelaxedModeHidesOnlyDeleted(t *testing.T) {
	fx := newFixture(t, false)
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	fx.listing(t, "Visible", owner, entity.FarmApproved)
	fx.listing(t, "Waiting", owner, entity.FarmPendingApproval)
	gone := fx.listing(t, "Gone", owner, entity.FarmDeleted)

	out, err := fx.farm.List(context.Background(), dto.ListFarmsQuery{})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = fx.farm.GetByID(context.Background(), gone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_DistanceNeedsBothCoordinates(t *testing.T) {
	fx := newFixture(t, true)
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	fx.listing(t, "Porvoo", owner, entity.FarmApproved, 60.3932, 25.665)
	fx.listing(t, "Helsinki", owner, entity.FarmApproved, 60.1699, 24.9384)
	fx.listing(t, "Unmapped", owner, entity.FarmApproved)
	ctx := context.Background()

	out, err := fx.farm.List(ctx, dto.ListFarmsQuery{Lat: ptr(60.17), Lon: ptr(24.94)})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"Helsinki", "Porvoo", "Unmapped"}, []string{out[0].Name, out[1].Name, out[2].Name})
	require.NotNil(t, out[0].Distance)
	assert.Less(t, *out[0].Distance, 1.0)
	assert.Nil(t, out[2].Distance)

	out, err = fx.farm.List(ctx, dto.ListFarmsQuery{Lat: ptr(60.17)})
	require.NoError(t, err)
	assert.Equal(t, "Helsinki", out[0].Name, "without an origin listings are ordered by name")
	assert.Nil(t, out[0].Distance)
}

func TestList_SearchAndCategory(t *testing.T) {
	fx := newFixture(t, true)
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	fx.listing(t, "Sunny Mead Farm", owner, entity.FarmApproved)
	ctx := context.Background()

	out, err := fx.farm.List(ctx, dto.ListFarmsQuery{SearchTerm: "porvoo"})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = fx.farm.List(ctx, dto.ListFarmsQuery{Category: "eggs"})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestCategories_PublicSetOnly(t *testing.T) {
	fx := newFixture(t, true)
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	fx.listing(t, "Visible", owner, entity.FarmApproved)
	id := fx.listing(t, "Hidden", owner, entity.FarmPendingApproval)
	require.NoError(t, fx.farms.UpdateStatus(context.Background(), id, repository.FarmStatusUpdate{
		From: entity.FarmPendingApproval, To: entity.FarmSuspended, At: time.Now(),
	}))

	cats, err := fx.farm.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Eggs", "Honey"}, cats)
}

func TestExportKML(t *testing.T) {
	fx := newFixture(t, true)
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	fx.listing(t, "Mapped", owner, entity.FarmApproved, 60.39, 25.66)
	fx.listing(t, "Unmapped", owner, entity.FarmApproved)

	out, err := fx.farm.ExportKML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(out, []byte("<Placemark")))
	assert.Contains(t, string(out), "25.66,60.39,0")
}

// ──────────────────────────────────────────────────────────────────────────────
// Admin
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_UpdateUserStatus(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)
	pending := fx.account(t, entity.RoleUser, entity.UserPendingApproval)

	_, err := fx.admin.UpdateUserStatus(ctx, admin, admin.UserID, "suspended")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.admin.UpdateUserStatus(ctx, admin, pending.UserID, "suspended")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = fx.admin.UpdateUserStatus(ctx, admin, pending.UserID, "banned")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.admin.UpdateUserStatus(ctx, admin, "missing", "approved")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.admin.UpdateUserStatus(ctx, pending, admin.UserID, "suspended")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := fx.admin.UpdateUserStatus(ctx, admin, pending.UserID, "approved")
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)
	assert.Equal(t, []string{"suspended"}, out.AllowedTransitions)

	stored, err := fx.users.GetByID(ctx, pending.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserApproved, stored.Status)
}

func TestAdmin_ListUsers(t *testing.T) {
	fx := newFixture(t, true)
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)
	fx.account(t, entity.RoleUser, entity.UserPendingApproval)

	out, err := fx.admin.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, u := range out {
		if u.Status == string(entity.UserPendingApproval) {
			assert.Equal(t, []string{"approved", "rejected"}, u.AllowedTransitions)
		}
	}
}

func TestAdmin_UpdateFarmStatusWithNotes(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	id := fx.listing(t, "Review me", owner, entity.FarmPendingApproval)

	notes := "visited 2026-10-01"
	_, err := fx.admin.UpdateFarmStatus(ctx, admin, id, "approved", &notes)
	require.NoError(t, err)

	_, err = fx.admin.UpdateFarmStatus(ctx, admin, id, "draft", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := fx.admin.ListFarms(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "approved", list[0].Status)
	assert.Equal(t, notes, list[0].AdminNotes)
	assert.Equal(t, "Account", list[0].OwnerName)
	assert.Equal(t, []string{"suspended", "deleted"}, list[0].AllowedTransitions)

	_, err = fx.admin.UpdateFarmStatus(ctx, admin, id, "deleted", nil)
	require.NoError(t, err)
	_, err = fx.admin.UpdateFarmStatus(ctx, admin, id, "approved", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "deleted is terminal")
}

func TestAdmin_Report(t *testing.T) {
	fx := newFixture(t, true)
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)
	fx.listing(t, "Sunny Mead Farm", admin, entity.FarmApproved, 60.39, 25.66)

	out, err := fx.admin.Report(context.Background(), admin)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = fx.admin.Report(context.Background(), access.Identity{UserID: "u", Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Malformed ids
// ──────────────────────────────────────────────────────────────────────────────

// uuidFarms and uuidUsers fail like a UUID-typed key column: ids that are not
// UUIDs are an encode error, not a missing row.
type uuidFarms struct{ repository.FarmRepository }

func (r uuidFarms) GetByID(ctx context.Context, id string) (*entity.Farm, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("encode id %q: %w", id, err)
	}
	return r.FarmRepository.GetByID(ctx, id)
}

type uuidUsers struct{ repository.UserRepository }

func (r uuidUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("encode id %q: %w", id, err)
	}
	return r.UserRepository.GetByID(ctx, id)
}

func TestMalformedIDs_AreNotFound(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)
	farms := uuidFarms{fx.farms}
	farmUC := usecase.NewFarmUseCase(farms, kml.NewExporter(""), usecase.FarmOptions{ApprovedOnly: true, Locale: "fi"})
	adminUC := usecase.NewAdminUseCase(uuidUsers{fx.users}, farms, pdf.NewDirectoryReportGenerator(""))

	for _, id := range []string{"abc", "", "123", "not-a-uuid-at-all"} {
		_, err := farmUC.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "get %q", id)
		assert.ErrorIs(t, farmUC.Delete(ctx, admin, id), domain.ErrNotFound, "delete %q", id)
		_, err = adminUC.UpdateUserStatus(ctx, admin, id, "approved")
		assert.ErrorIs(t, err, domain.ErrNotFound, "user status %q", id)
		_, err = adminUC.UpdateFarmStatus(ctx, admin, id, "approved", nil)
		assert.ErrorIs(t, err, domain.ErrNotFound, "farm status %q", id)
	}
}

func TestUpperCaseIDs_ResolveToStoredRow(t *testing.T) {
	fx := newFixture(t, true)
	ctx := context.Background()
	owner := fx.account(t, entity.RoleUser, entity.UserApproved)
	admin := fx.account(t, entity.RoleAdmin, entity.UserApproved)
	id := fx.listing(t, "Upper", owner, entity.FarmApproved)

	got, err := fx.farm.GetByID(ctx, strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = fx.admin.UpdateUserStatus(ctx, admin, strings.ToUpper(admin.UserID), "suspended")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
