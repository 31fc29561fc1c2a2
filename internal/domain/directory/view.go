// Package directory computes the public directory view of farm listings:
// search and category filtering, distance annotation and ordering.
// It is pure and does no I/O.
package directory

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// DefaultLocale collation used when the query carries none.
var DefaultLocale = language.Finnish

// Origin caller supplied point used to rank listings by proximity.
type Origin struct {
	Lat float64
	Lon float64
}

// Query parameters of a directory view. Zero value returns every listing sorted by name.
type Query struct {
	SearchTerm string
	Origin     *Origin
	Category   string
	Locale     language.Tag
}

// Result a listing in the view. Distance is only meaningful when the query had an
// origin; listings without coordinates then get +Inf.
type Result struct {
	Farm     entity.Farm
	Distance float64
}

// HasDistance reports whether Distance is a finite value.
func (r Result) HasDistance() bool {
	return !math.IsInf(r.Distance, 0) && !math.IsNaN(r.Distance)
}

// View applies, in order: search filter, category filter, distance annotation
// and ordering. The input slice is not modified.
//
// The search filter is case-insensitive; the category filter is a
// case-sensitive substring match on the raw products string.
func View(farms []entity.Farm, q Query) []Result {
	term := strings.ToLower(q.SearchTerm)

	out := make([]Result, 0, len(farms))
	for i := range farms {
		f := farms[i]
		if term != "" && !matchesSearch(&f, term) {
			continue
		}
		if q.Category != "" && !strings.Contains(f.Products, q.Category) {
			continue
		}
		out = append(out, Result{Farm: f, Distance: math.Inf(1)})
	}

	if q.Origin != nil {
		for i := range out {
			if lat, lon, ok := out[i].Farm.Coordinates(); ok {
				out[i].Distance = Distance(q.Origin.Lat, q.Origin.Lon, lat, lon)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Distance < out[j].Distance
		})
		return out
	}

	locale := q.Locale
	if locale == language.Und {
		locale = DefaultLocale
	}
	col := collate.New(locale)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Farm.Name, out[j].Farm.Name) < 0
	})
	return out
}

// matchesSearch term must already be lower case.
func matchesSearch(f *entity.Farm, term string) bool {
	return strings.Contains(strings.ToLower(f.Name), term) ||
		strings.Contains(strings.ToLower(f.Location), term) ||
		strings.Contains(strings.ToLower(f.Products), term)
}
