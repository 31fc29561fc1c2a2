package directory

import (
	"sort"
	"strings"

	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

// Categories derives the category vocabulary: every comma separated tag of
// every non-empty products field, trimmed, deduplicated and sorted ascending.
// Empty tags are dropped.
func Categories(farms []entity.Farm) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range farms {
		if farms[i].Products == "" {
			continue
		}
		for _, tag := range strings.Split(farms[i].Products, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}
