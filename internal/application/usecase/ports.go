package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// MapExporter renders listings in a map interchange format (KML).
type MapExporter interface {
	ExportKML(ctx context.Context, farms []entity.Farm) ([]byte, error)
}

// DirectoryReportGenerator renders the admin report (PDF).
type DirectoryReportGenerator interface {
	GenerateDirectoryReport(ctx context.Context, farms []*entity.FarmWithOwner, generatedAt time.Time) ([]byte, error)
}
