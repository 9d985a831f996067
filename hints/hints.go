// Package hints precomputes whole-document statistics consulted by the
// per-page classifiers: a font-size histogram keyed by semantic role, and
// per-page kind confidences. Hints are computed once, before any page is
// classified, and are read-only thereafter, so a snapshot can be shared
// across concurrently classified pages.
package hints

import (
	"regexp"

	"github.com/tsawler/brickplan/model"
)

// Semantic roles tracked by the font-size histogram.
const (
	RolePartCount  = "part_count"
	RoleStepNumber = "step_number"
	RolePageNumber = "page_number"
)

// PageKind classifies a page as a whole.
type PageKind int

const (
	PageKindUnknown PageKind = iota
	PageKindCover
	PageKindSteps
	PageKindInventory
)

func (k PageKind) String() string {
	switch k {
	case PageKindCover:
		return "cover"
	case PageKindSteps:
		return "steps"
	case PageKindInventory:
		return "inventory"
	default:
		return "unknown"
	}
}

// PageKindHint is the precomputed kind confidence for one page.
type PageKindHint struct {
	Kind       PageKind
	Confidence float64
}

// fontSizeTolerance is the histogram bucket width in points.
const fontSizeTolerance = 0.5

// FontSizeHints holds a bucketed histogram of observed font sizes per
// semantic role.
type FontSizeHints struct {
	counts map[string]map[int]int
}

// NewFontSizeHints creates an empty histogram.
func NewFontSizeHints() *FontSizeHints {
	return &FontSizeHints{
		counts: make(map[string]map[int]int),
	}
}

// Observe records one font-size observation for a role.
func (h *FontSizeHints) Observe(role string, size float64) {
	if size <= 0 {
		return
	}
	bucket := int(size / fontSizeTolerance)
	if h.counts[role] == nil {
		h.counts[role] = make(map[int]int)
	}
	h.counts[role][bucket]++
}

// Dominant returns the most common font size for a role, or false when the
// role has no observations. Bucket ties resolve to the smaller size so the
// result is deterministic.
func (h *FontSizeHints) Dominant(role string) (float64, bool) {
	buckets := h.counts[role]
	if len(buckets) == 0 {
		return 0, false
	}
	maxCount := 0
	best := 0
	for bucket, count := range buckets {
		if count > maxCount || (count == maxCount && bucket < best) {
			maxCount = count
			best = bucket
		}
	}
	return float64(best) * fontSizeTolerance, true
}

// Observations returns the total observation count for a role.
func (h *FontSizeHints) Observations(role string) int {
	total := 0
	for _, count := range h.counts[role] {
		total += count
	}
	return total
}

// Hints is the immutable whole-document hint snapshot.
type Hints struct {
	FontSizes *FontSizeHints
	PageKinds map[int]PageKindHint // keyed by page number
}

// PageKindFor returns the kind hint for a page number, or false when the
// page is unknown.
func (h *Hints) PageKindFor(pageNumber int) (PageKindHint, bool) {
	if h == nil || h.PageKinds == nil {
		return PageKindHint{}, false
	}
	hint, ok := h.PageKinds[pageNumber]
	return hint, ok
}

var (
	countToken  = regexp.MustCompile(`^\d{1,3}\s?[x×]$`)
	numberToken = regexp.MustCompile(`^\d{1,3}$`)
)

// Precompute scans all pages once and derives the document hints. The
// scan uses the same surface signals the classifiers use (token shape,
// page zone, relative height) but deliberately coarser: hints bias
// scoring, they never decide it.
func Precompute(pages []model.PageData) *Hints {
	h := &Hints{
		FontSizes: NewFontSizeHints(),
		PageKinds: make(map[int]PageKindHint, len(pages)),
	}

	for i := range pages {
		page := &pages[i]
		counts := 0
		numbers := 0

		for _, t := range page.TextBlocks() {
			switch {
			case countToken.MatchString(normalizeASCII(t.Text)):
				h.FontSizes.Observe(RolePartCount, t.FontSize)
				counts++
			case numberToken.MatchString(t.Text):
				numbers++
				if inBottomZone(page.Bounds, t.Box) {
					h.FontSizes.Observe(RolePageNumber, t.FontSize)
				} else if t.Box.Height() >= page.Bounds.Height()*0.05 {
					h.FontSizes.Observe(RoleStepNumber, t.FontSize)
				}
			}
		}

		h.PageKinds[page.Number] = classifyPageKind(page, counts, numbers)
	}

	return h
}

// classifyPageKind derives a coarse page kind from token counts.
func classifyPageKind(page *model.PageData, counts, numbers int) PageKindHint {
	switch {
	case page.Number == 1:
		return PageKindHint{Kind: PageKindCover, Confidence: 0.9}
	case counts >= 8 && numbers <= counts/4:
		// Dense count tokens with few bare numerals reads as a parts
		// inventory page.
		return PageKindHint{Kind: PageKindInventory, Confidence: 0.7}
	case numbers > 0 || counts > 0:
		return PageKindHint{Kind: PageKindSteps, Confidence: 0.6}
	default:
		return PageKindHint{Kind: PageKindUnknown, Confidence: 0}
	}
}

// inBottomZone reports whether the box center lies in the bottom 12% of
// the page.
func inBottomZone(page, box model.BBox) bool {
	if page.Height() == 0 {
		return false
	}
	frac := (box.Center().Y - page.Y0) / page.Height()
	return frac >= 0.88
}

// normalizeASCII maps the multiplication sign to ASCII "x" for token-shape
// checks. Full normalization lives in the rules package; the hint pass only
// needs the count shape.
func normalizeASCII(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '×' {
			r = 'x'
		}
		out = append(out, r)
	}
	return string(out)
}
