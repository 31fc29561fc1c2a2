package sqlite

import (
	"context"
	"fmt"
	"strings"

	sqlitelib "zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
)

var _ repository.FarmRepository = (*FarmRepo)(nil)

// FarmRepo FarmRepository over SQLite.
type FarmRepo struct {
	pool *Pool
}

// NewFarmRepository builds the listing store.
func NewFarmRepository(pool *Pool) *FarmRepo {
	return &FarmRepo{pool: pool}
}

const farmColumns = `f.id, f.name, f.description, f.location, f.products, f.latitude, f.longitude,
	f.owner_id, f.status, f.admin_notes, f.created_at, f.updated_at`

// Create persists a new listing.
func (r *FarmRepo) Create(ctx context.Context, farm *entity.Farm) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO farms (id, name, description, location, products, latitude, longitude,
			owner_id, status, admin_notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				farm.ID, farm.Name, farm.Description, farm.Location, farm.Products,
				nullableFloat(farm.Latitude), nullableFloat(farm.Longitude), nullableString(farm.OwnerID),
				string(farm.Status), farm.AdminNotes, formatTime(farm.CreatedAt), formatTime(farm.UpdatedAt),
			},
		})
	if err != nil {
		return fmt.Errorf("insert farm: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the listing does not exist.
func (r *FarmRepo) GetByID(ctx context.Context, id string) (*entity.Farm, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Put(conn)

	var found *entity.Farm
	err = sqlitex.Execute(conn, `SELECT `+farmColumns+` FROM farms f WHERE f.id = ?`, &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlitelib.Stmt) error {
			f, err := scanFarm(stmt)
			if err != nil {
				return err
			}
			found = f
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get farm: %w", err)
	}
	return found, nil
}

// List returns the listings allowed by filter in insertion order.
func (r *FarmRepo) List(ctx context.Context, filter repository.FarmFilter) ([]*entity.Farm, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Put(conn)

	where, args := filterClause(filter)
	list := make([]*entity.Farm, 0)
	err = sqlitex.Execute(conn, `SELECT `+farmColumns+` FROM farms f`+where+` ORDER BY f.created_at, f.id`,
		&sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlitelib.Stmt) error {
				f, err := scanFarm(stmt)
				if err != nil {
					return err
				}
				list = append(list, f)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}
	return list, nil
}

// ListWithOwner every listing with its owner's name; listings without an owner keep an empty name.
func (r *FarmRepo) ListWithOwner(ctx context.Context) ([]*entity.FarmWithOwner, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Put(conn)

	list := make([]*entity.FarmWithOwner, 0)
	err = sqlitex.Execute(conn, `
		SELECT `+farmColumns+`, COALESCE(u.name, '')
		FROM farms f LEFT JOIN users u ON u.id = f.owner_id
		ORDER BY f.created_at, f.id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlitelib.Stmt) error {
				f, err := scanFarm(stmt)
				if err != nil {
					return err
				}
				list = append(list, &entity.FarmWithOwner{Farm: *f, OwnerName: stmt.ColumnText(12)})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("list farms with owner: %w", err)
	}
	return list, nil
}

// UpdateStatus compare-and-set on the stored status; notes are only written when upd.AdminNotes is set.
func (r *FarmRepo) UpdateStatus(ctx context.Context, id string, upd repository.FarmStatusUpdate) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		UPDATE farms
		SET status = ?, admin_notes = COALESCE(?, admin_notes), updated_at = ?
		WHERE id = ? AND status = ?`,
		&sqlitex.ExecOptions{
			Args: []any{string(upd.To), nullableString(upd.AdminNotes), formatTime(upd.At), id, string(upd.From)},
		})
	if err != nil {
		return fmt.Errorf("update farm status: %w", err)
	}
	if conn.Changes() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Delete removes the row.
func (r *FarmRepo) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer r.pool.Put(conn)

	if err := sqlitex.Execute(conn, `DELETE FROM farms WHERE id = ?`, &sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		return fmt.Errorf("delete farm: %w", err)
	}
	if conn.Changes() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func filterClause(filter repository.FarmFilter) (string, []any) {
	var conds []string
	var args []any
	if len(filter.Statuses) > 0 {
		conds = append(conds, "f.status IN ("+placeholders(len(filter.Statuses))+")")
		for _, s := range filter.Statuses {
			args = append(args, string(s))
		}
	}
	if len(filter.ExcludeStatuses) > 0 {
		conds = append(conds, "f.status NOT IN ("+placeholders(len(filter.ExcludeStatuses))+")")
		for _, s := range filter.ExcludeStatuses {
			args = append(args, string(s))
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func scanFarm(stmt *sqlitelib.Stmt) (*entity.Farm, error) {
	created, err := parseTime(stmt.ColumnText(10))
	if err != nil {
		return nil, err
	}
	updated, err := parseTime(stmt.ColumnText(11))
	if err != nil {
		return nil, err
	}
	return &entity.Farm{
		ID:          stmt.ColumnText(0),
		Name:        stmt.ColumnText(1),
		Description: stmt.ColumnText(2),
		Location:    stmt.ColumnText(3),
		Products:    stmt.ColumnText(4),
		Latitude:    columnFloatPtr(stmt, 5),
		Longitude:   columnFloatPtr(stmt, 6),
		OwnerID:     columnStringPtr(stmt, 7),
		Status:      entity.FarmStatus(stmt.ColumnText(8)),
		AdminNotes:  stmt.ColumnText(9),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}
