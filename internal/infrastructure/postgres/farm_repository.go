package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
	"github.com/jhoicas/farm-directory-api/internal/domain/repository"
)

var _ repository.FarmRepository = (*FarmRepo)(nil)

// FarmRepo FarmRepository over PostgreSQL.
type FarmRepo struct {
	db Querier
}

// NewFarmRepository builds the listing store on a pool or transaction.
func NewFarmRepository(db Querier) *FarmRepo {
	return &FarmRepo{db: db}
}

const farmColumns = `f.id, f.name, f.description, f.location, f.products, f.latitude, f.longitude,
		f.owner_id, f.status, f.admin_notes, f.created_at, f.updated_at`

// Create persists a new listing.
func (r *FarmRepo) Create(ctx context.Context, farm *entity.Farm) error {
	query := `
		INSERT INTO farms (id, name, description, location, products, latitude, longitude,
			owner_id, status, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		farm.ID, farm.Name, farm.Description, farm.Location, farm.Products,
		farm.Latitude, farm.Longitude, farm.OwnerID, string(farm.Status), farm.AdminNotes,
		farm.CreatedAt, farm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert farm: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the listing does not exist.
func (r *FarmRepo) GetByID(ctx context.Context, id string) (*entity.Farm, error) {
	f, err := scanFarm(r.db.QueryRow(ctx, `SELECT `+farmColumns+` FROM farms f WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get farm by id: %w", err)
	}
	return f, nil
}

// List listings allowed by filter in insertion order.
func (r *FarmRepo) List(ctx context.Context, filter repository.FarmFilter) ([]*entity.Farm, error) {
	where, args := filterClause(filter)
	rows, err := r.db.Query(ctx, `SELECT `+farmColumns+` FROM farms f`+where+` ORDER BY f.created_at, f.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Farm, 0)
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// ListWithOwner every listing with the owner's name (LEFT JOIN).
func (r *FarmRepo) ListWithOwner(ctx context.Context) ([]*entity.FarmWithOwner, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+farmColumns+`, COALESCE(u.name, '')
		FROM farms f LEFT JOIN users u ON u.id = f.owner_id
		ORDER BY f.created_at, f.id`)
	if err != nil {
		return nil, fmt.Errorf("list farms with owner: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.FarmWithOwner, 0)
	for rows.Next() {
		var fw entity.FarmWithOwner
		var status string
		if err := rows.Scan(farmDest(&fw.Farm, &status, &fw.OwnerName)...); err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		fw.Status = entity.FarmStatus(status)
		list = append(list, &fw)
	}
	return list, rows.Err()
}

// UpdateStatus compare-and-set on the stored status; nil notes keep the stored value.
func (r *FarmRepo) UpdateStatus(ctx context.Context, id string, upd repository.FarmStatusUpdate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE farms
		SET status = $1, admin_notes = COALESCE($2, admin_notes), updated_at = $3
		WHERE id = $4 AND status = $5`,
		string(upd.To), upd.AdminNotes, upd.At, id, string(upd.From),
	)
	if err != nil {
		return fmt.Errorf("update farm status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Delete removes the row.
func (r *FarmRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM farms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete farm: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func filterClause(filter repository.FarmFilter) (string, []any) {
	var conds []string
	var args []any
	if len(filter.Statuses) > 0 {
		args = append(args, statusStrings(filter.Statuses))
		conds = append(conds, fmt.Sprintf("f.status = ANY($%d)", len(args)))
	}
	if len(filter.ExcludeStatuses) > 0 {
		args = append(args, statusStrings(filter.ExcludeStatuses))
		conds = append(conds, fmt.Sprintf("NOT (f.status = ANY($%d))", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func statusStrings(statuses []entity.FarmStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func farmDest(f *entity.Farm, status *string, extra ...any) []any {
	dest := []any{
		&f.ID, &f.Name, &f.Description, &f.Location, &f.Products, &f.Latitude, &f.Longitude,
		&f.OwnerID, status, &f.AdminNotes, &f.CreatedAt, &f.UpdatedAt,
	}
	return append(dest, extra...)
}

func scanFarm(row pgx.Row) (*entity.Farm, error) {
	var f entity.Farm
	var status string
	if err := row.Scan(farmDest(&f, &status)...); err != nil {
		return nil, err
	}
	f.Status = entity.FarmStatus(status)
	return &f, nil
}
