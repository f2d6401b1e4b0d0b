package models

// Category is a section name in the generated index, e.g. "Services".
type Category string

// CategoryOther collects pages that match no configured pattern.
const CategoryOther Category = "Other"

// CategorizedSet groups display pages by category, remembering the order in
// which categories first appeared so output stays stable across runs.
type CategorizedSet struct {
	pages map[Category][]*DisplayPage
	order []Category
}

func NewCategorizedSet() *CategorizedSet {
	return &CategorizedSet{pages: make(map[Category][]*DisplayPage)}
}

// Add appends a page to a category, registering the category on first use.
func (s *CategorizedSet) Add(cat Category, page *DisplayPage) {
	if _, ok := s.pages[cat]; !ok {
		s.order = append(s.order, cat)
	}
	s.pages[cat] = append(s.pages[cat], page)
}

// Pages returns the pages of one category in insertion order.
func (s *CategorizedSet) Pages(cat Category) []*DisplayPage {
	return s.pages[cat]
}

// Replace swaps the page list of an existing category. Used by the enhancer
// to install a rewritten batch; a category never seen before is ignored.
func (s *CategorizedSet) Replace(cat Category, pages []*DisplayPage) {
	if _, ok := s.pages[cat]; !ok {
		return
	}
	s.pages[cat] = pages
}

// Categories returns all categories in first-seen order.
func (s *CategorizedSet) Categories() []Category {
	out := make([]Category, len(s.order))
	copy(out, s.order)
	return out
}

// TotalPages counts pages across every category.
func (s *CategorizedSet) TotalPages() int {
	n := 0
	for _, pages := range s.pages {
		n += len(pages)
	}
	return n
}

// Counts returns a category → page-count map for stats output.
func (s *CategorizedSet) Counts() map[Category]int {
	counts := make(map[Category]int, len(s.pages))
	for cat, pages := range s.pages {
		counts[cat] = len(pages)
	}
	return counts
}

// Section is one ordered block of the final document.
type Section struct {
	Category Category       `json:"category" yaml:"category"`
	Pages    []*DisplayPage `json:"pages" yaml:"pages"`
}
