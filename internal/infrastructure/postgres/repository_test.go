package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/postgres"
)

var (
	userCols = []string{"id", "email", "password_hash", "name", "role", "status", "created_at", "updated_at"}
	farmCols = []string{"id", "name", "description", "location", "products", "latitude", "longitude",
		"owner_id", "status", "admin_notes", "created_at", "updated_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// ──────────────────────────────────────────────────────────────────────────────
// UserRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)
	now := time.Now()
	u := &entity.User{ID: "u1", Email: "a@example.com", PasswordHash: "h", Name: "A",
		Role: entity.RoleUser, Status: entity.UserPendingApproval, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u1", "a@example.com", "h", "A", "user", "pending_approval", now, now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_Create_OtherErrorsAreWrapped(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)
	now := time.Now()
	u := &entity.User{ID: "u1", Email: "a@example.com", PasswordHash: "h", Name: "A",
		Role: entity.RoleUser, Status: entity.UserPendingApproval, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u1", "a@example.com", "h", "A", "user", "pending_approval", now, now).
		WillReturnError(&pgconn.PgError{Code: "23502"})

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Contains(t, err.Error(), "insert user")
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u1", "a@example.com", "h", "A", "admin", "approved", now, now))

	u, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, entity.UserApproved, u.Status)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_UpdateStatus_Conflict(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET status = $1")).
		WithArgs("approved", pgxmock.AnyArg(), "u1", "pending_approval").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "u1", entity.UserPendingApproval, entity.UserApproved, time.Now())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_Count(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// ──────────────────────────────────────────────────────────────────────────────
// FarmRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestFarmRepo_List_ApprovedOnly(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewFarmRepository(mock)
	now := time.Now()
	lat, lon := 60.39, 25.66
	owner := "u1"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.status = ANY($1)")).
		WithArgs([]string{"approved"}).
		WillReturnRows(pgxmock.NewRows(farmCols).
			AddRow("f1", "Sunny Mead Farm", "", "Porvoo", "Eggs, Honey", &lat, &lon, &owner, "approved", "", now, now).
			AddRow("f2", "No Map", "", "Turku", "Milk", nil, nil, nil, "approved", "", now, now))

	list, err := repo.List(context.Background(), repository.FarmFilter{Statuses: []entity.FarmStatus{entity.FarmApproved}})
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, entity.FarmApproved, list[0].Status)
	require.NotNil(t, list[0].Latitude)
	assert.Equal(t, 60.39, *list[0].Latitude)
	require.NotNil(t, list[0].OwnerID)
	assert.Equal(t, "u1", *list[0].OwnerID)

	assert.Nil(t, list[1].Latitude)
	assert.Nil(t, list[1].OwnerID)
}

func TestFarmRepo_List_Excluding(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewFarmRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE NOT (f.status = ANY($1))")).
		WithArgs([]string{"deleted"}).
		WillReturnRows(pgxmock.NewRows(farmCols))

	list, err := repo.List(context.Background(), repository.FarmFilter{ExcludeStatuses: []entity.FarmStatus{entity.FarmDeleted}})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFarmRepo_ListWithOwner(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewFarmRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON u.id = f.owner_id")).
		WillReturnRows(pgxmock.NewRows(append(append([]string{}, farmCols...), "owner_name")).
			AddRow("f1", "Farm", "", "Porvoo", "Eggs", nil, nil, nil, "suspended", "late fees", now, now, ""))

	list, err := repo.ListWithOwner(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.FarmSuspended, list[0].Status)
	assert.Equal(t, "late fees", list[0].AdminNotes)
	assert.Equal(t, "", list[0].OwnerName)
}

func TestFarmRepo_UpdateStatus(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewFarmRepository(mock)
	notes := "verified"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE farms")).
		WithArgs("approved", &notes, pgxmock.AnyArg(), "f1", "pending_approval").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "f1", repository.FarmStatusUpdate{
		From: entity.FarmPendingApproval, To: entity.FarmApproved, AdminNotes: &notes, At: time.Now(),
	})
	assert.NoError(t, err)
}

func TestFarmRepo_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewFarmRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM farms WHERE id = $1")).
		WithArgs("f1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "f1"), domain.ErrNotFound)
}

func TestEnsureSchema(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS farms")).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS farms_status_idx")).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS farms_owner_idx")).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, postgres.EnsureSchema(context.Background(), mock))
}
