package repository

import (
	"context"
	"time"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// FarmFilter narrows List. Zero value lists everything.
type FarmFilter struct {
	Statuses        []entity.FarmStatus // empty: any status
	ExcludeStatuses []entity.FarmStatus
}

// Allows reports whether status passes the filter.
func (f FarmFilter) Allows(status entity.FarmStatus) bool {
	for _, s := range f.ExcludeStatuses {
		if s == status {
			return false
		}
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// FarmStatusUpdate an admin moderation write.
type FarmStatusUpdate struct {
	From       entity.FarmStatus
	To         entity.FarmStatus
	AdminNotes *string // nil keeps the stored notes
	At         time.Time
}

// FarmRepository persistence port for listings.
// Lookups return (nil, nil) when the row does not exist.
type FarmRepository interface {
	Create(ctx context.Context, farm *entity.Farm) error
	GetByID(ctx context.Context, id string) (*entity.Farm, error)
	List(ctx context.Context, filter FarmFilter) ([]*entity.Farm, error)
	// ListWithOwner returns every listing joined with the owner's name.
	ListWithOwner(ctx context.Context) ([]*entity.FarmWithOwner, error)
	// UpdateStatus returns domain.ErrConflict when the stored status is no longer upd.From.
	UpdateStatus(ctx context.Context, id string, upd FarmStatusUpdate) error
	// Delete physically removes the row. Returns domain.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error
}
