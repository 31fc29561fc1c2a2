// Package pdf renders the admin directory report with Maroto v2.
//
// Page layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: title + generation date │ listing total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMARY: count per status                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  per status: Name | Location | Products | Owner | Coords    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 46, Green: 104, Blue: 54}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// statusOrder sections in the order moderators work through them.
var statusOrder = []entity.FarmStatus{
	entity.FarmPendingApproval,
	entity.FarmApproved,
	entity.FarmSuspended,
	entity.FarmDraft,
	entity.FarmDeleted,
}

// ── Generator ─────────────────────────────────────────────────────────────────

// DirectoryReportGenerator renders every listing grouped by moderation status.
type DirectoryReportGenerator struct {
	title string
}

// NewDirectoryReportGenerator title is printed in the header and the document metadata.
func NewDirectoryReportGenerator(title string) *DirectoryReportGenerator {
	if title == "" {
		title = "Farm Directory"
	}
	return &DirectoryReportGenerator{title: title}
}

// GenerateDirectoryReport returns the PDF bytes.
func (g *DirectoryReportGenerator) GenerateDirectoryReport(
	_ context.Context,
	farms []*entity.FarmWithOwner,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title+" report", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	groups := groupByStatus(farms)

	m.AddRows(headerRow(g.title, generatedAt, len(farms)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(groups))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for _, status := range statusOrder {
		list := groups[status]
		if len(list) == 0 {
			continue
		}
		m.AddRows(sectionTitleRow(status, len(list)))
		m.AddRows(tableHeaderRow())
		for _, f := range list {
			m.AddRows(farmRow(f))
		}
		m.AddRows(line.NewRow(3))
	}
	if len(farms) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No listings.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func groupByStatus(farms []*entity.FarmWithOwner) map[entity.FarmStatus][]*entity.FarmWithOwner {
	groups := make(map[entity.FarmStatus][]*entity.FarmWithOwner)
	for _, f := range farms {
		groups[f.Status] = append(groups[f.Status], f)
	}
	return groups
}

// ── Sections ──────────────────────────────────────────────────────────────────

func headerRow(title string, generatedAt time.Time, total int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Generated: "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("LISTINGS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d", total), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
		),
	)
}

func summaryRow(groups map[entity.FarmStatus][]*entity.FarmWithOwner) core.Row {
	parts := make([]string, 0, len(statusOrder))
	for _, s := range statusOrder {
		parts = append(parts, fmt.Sprintf("%s: %d", statusLabel(s), len(groups[s])))
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(strings.Join(parts, "   |   "), props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func sectionTitleRow(status entity.FarmStatus, n int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%s (%d)", strings.ToUpper(statusLabel(status)), n), props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Name", 3, align.Left),
		h("Location", 2, align.Left),
		h("Products", 3, align.Left),
		h("Owner", 2, align.Left),
		h("Coordinates", 2, align.Right),
	)
}

func farmRow(f *entity.FarmWithOwner) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(f.Name, 3, align.Left),
		cell(nonEmpty(f.Location, "-"), 2, align.Left),
		cell(nonEmpty(f.Products, "-"), 3, align.Left),
		cell(nonEmpty(f.OwnerName, "-"), 2, align.Left),
		cell(coordinates(&f.Farm), 2, align.Right),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.FarmStatus) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func coordinates(f *entity.Farm) string {
	lat, lon, ok := f.Coordinates()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
