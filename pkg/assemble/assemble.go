// Package assemble orders categorized pages into the final document
// sections: priority categories first in their configured order, then any
// remaining categories alphabetically, each sorted by a category-specific
// comparator.
package assemble

import (
	"sort"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
)

// Assembler turns a categorized set into an ordered section list.
type Assembler struct {
	cfg *models.Config
}

func New(cfg *models.Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble emits non-empty priority categories in configured order, then
// leftover categories alphabetically. Empty categories are skipped.
func (a *Assembler) Assemble(set *models.CategorizedSet) []models.Section {
	var sections []models.Section
	emitted := make(map[models.Category]bool)

	for _, cat := range a.cfg.PriorityOrder {
		pages := set.Pages(cat)
		if len(pages) == 0 {
			continue
		}
		sections = append(sections, models.Section{Category: cat, Pages: a.sortPages(cat, pages)})
		emitted[cat] = true
	}

	var leftovers []models.Category
	for _, cat := range set.Categories() {
		if !emitted[cat] && len(set.Pages(cat)) > 0 {
			leftovers = append(leftovers, cat)
		}
	}
	sort.Slice(leftovers, func(i, j int) bool { return leftovers[i] < leftovers[j] })

	for _, cat := range leftovers {
		sections = append(sections, models.Section{Category: cat, Pages: a.sortPages(cat, set.Pages(cat))})
	}
	return sections
}

// sortPages returns a sorted copy; the input slice is never reordered.
func (a *Assembler) sortPages(cat models.Category, pages []*models.DisplayPage) []*models.DisplayPage {
	out := make([]*models.DisplayPage, len(pages))
	copy(out, pages)

	if cat == "Services" {
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := a.serviceTier(out[i].Title), a.serviceTier(out[j].Title)
			if ti != tj {
				return ti < tj
			}
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// serviceTier ranks a service page: core service lines first, then named
// procedures, then everything else.
func (a *Assembler) serviceTier(title string) int {
	t := strings.ToLower(title)
	for _, kw := range a.cfg.CoreServiceKeywords {
		if strings.Contains(t, strings.ToLower(kw)) {
			return 0
		}
	}
	for _, kw := range a.cfg.ProcedureKeywords {
		if strings.Contains(t, strings.ToLower(kw)) {
			return 1
		}
	}
	return 2
}
