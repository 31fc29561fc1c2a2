package sqlite

import (
	"context"
	"fmt"
	"time"

	sqlitelib "zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo UserRepository over SQLite.
type UserRepo struct {
	pool *Pool
}

// NewUserRepository builds the account store.
func NewUserRepository(pool *Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, name, role, status, created_at, updated_at`

// Create persists a new account.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				user.ID, user.Email, user.PasswordHash, user.Name, string(user.Role), string(user.Status),
				formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
			},
		})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the account does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail returns (nil, nil) when the account does not exist.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Put(conn)

	var found *entity.User
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{arg},
		ResultFunc: func(stmt *sqlitelib.Stmt) error {
			u, err := scanUser(stmt)
			if err != nil {
				return err
			}
			found = u
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return found, nil
}

// List returns every account, oldest first.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Put(conn)

	list := make([]*entity.User, 0)
	err = sqlitex.Execute(conn, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlitelib.Stmt) error {
			u, err := scanUser(stmt)
			if err != nil {
				return err
			}
			list = append(list, u)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// UpdateStatus compare-and-set on the stored status.
func (r *UserRepo) UpdateStatus(ctx context.Context, id string, from, to entity.UserStatus, at time.Time) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn, `UPDATE users SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		&sqlitex.ExecOptions{Args: []any{string(to), formatTime(at), id, string(from)}})
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if conn.Changes() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Count number of accounts.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer r.pool.Put(conn)

	var n int
	err = sqlitex.Execute(conn, `SELECT COUNT(*) FROM users`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlitelib.Stmt) error {
			n = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(stmt *sqlitelib.Stmt) (*entity.User, error) {
	created, err := parseTime(stmt.ColumnText(6))
	if err != nil {
		return nil, err
	}
	updated, err := parseTime(stmt.ColumnText(7))
	if err != nil {
		return nil, err
	}
	return &entity.User{
		ID:           stmt.ColumnText(0),
		Email:        stmt.ColumnText(1),
		PasswordHash: stmt.ColumnText(2),
		Name:         stmt.ColumnText(3),
		Role:         entity.Role(stmt.ColumnText(4)),
		Status:       entity.UserStatus(stmt.ColumnText(5)),
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}
