package rules

import (
	"fmt"
	"regexp"

	"github.com/tsawler/brickplan/hints"
	"github.com/tsawler/brickplan/model"
)

// KindRule scores 1 when the block is of the given kind, 0 otherwise.
// Usually registered as required, making it a type filter.
type KindRule struct {
	Options
	Kind model.BlockKind
}

func (r KindRule) Name() string { return "kind:" + r.Kind.String() }

func (r KindRule) Evaluate(b model.Block, _ *Context) (float64, bool) {
	if b.Kind() == r.Kind {
		return 1, true
	}
	return 0, true
}

// TextPatternRule scores 1 when the block is text whose normalized content
// matches the pattern. Non-text blocks score 0; register the rule as
// required to make it a filter.
type TextPatternRule struct {
	Options
	Pattern *regexp.Regexp
}

func (r TextPatternRule) Name() string { return "pattern:" + r.Pattern.String() }

func (r TextPatternRule) Evaluate(b model.Block, _ *Context) (float64, bool) {
	t, ok := b.(*model.TextBlock)
	if !ok {
		return 0, true
	}
	if r.Pattern.MatchString(NormalizeToken(t.Text)) {
		return 1, true
	}
	return 0, true
}

// FontSizeNearRule scores a text block by how close its font size is to an
// ideal value, falling off linearly to 0 at Falloff points away. The score
// strictly increases as the size approaches the ideal. Not applicable to
// non-text blocks or when the block carries no font size.
type FontSizeNearRule struct {
	Options
	Ideal   float64
	Falloff float64
}

func (r FontSizeNearRule) Name() string { return fmt.Sprintf("font-size-near:%g", r.Ideal) }

func (r FontSizeNearRule) Evaluate(b model.Block, _ *Context) (float64, bool) {
	t, ok := b.(*model.TextBlock)
	if !ok || t.FontSize <= 0 {
		return 0, false
	}
	return falloffScore(t.FontSize, r.Ideal, r.Falloff), true
}

// FontSizeHintRule is FontSizeNearRule with the ideal taken from the
// document font-size hints for a semantic role. Not applicable when the
// hint is missing, so documents without hints degrade gracefully.
type FontSizeHintRule struct {
	Options
	Role    string
	Falloff float64
}

func (r FontSizeHintRule) Name() string { return "font-size-hint:" + r.Role }

func (r FontSizeHintRule) Evaluate(b model.Block, ctx *Context) (float64, bool) {
	t, ok := b.(*model.TextBlock)
	if !ok || t.FontSize <= 0 {
		return 0, false
	}
	ideal, ok := ctx.FontSizeIdeal(r.Role)
	if !ok {
		return 0, false
	}
	return falloffScore(t.FontSize, ideal, r.Falloff), true
}

// falloffScore maps |size-ideal| linearly onto [0,1], reaching 0 at
// falloff points from the ideal.
func falloffScore(size, ideal, falloff float64) float64 {
	if falloff <= 0 {
		falloff = 1
	}
	diff := size - ideal
	if diff < 0 {
		diff = -diff
	}
	score := 1 - diff/falloff
	if score < 0 {
		return 0
	}
	return score
}

// FracBox is a page-relative rectangle with coordinates as fractions of
// the page extent in [0,1].
type FracBox struct {
	X0, Y0, X1, Y1 float64
}

// ZoneRule scores 1 when the block's center lies within a page-relative
// zone, 0 otherwise. Register as required to make it a positional filter
// (e.g. "must be in the bottom 10% of the page").
type ZoneRule struct {
	Options
	Zone FracBox
}

func (r ZoneRule) Name() string {
	return fmt.Sprintf("zone:(%g,%g,%g,%g)", r.Zone.X0, r.Zone.Y0, r.Zone.X1, r.Zone.Y1)
}

func (r ZoneRule) Evaluate(b model.Block, ctx *Context) (float64, bool) {
	page := ctx.Page
	if page.IsEmpty() {
		return 0, false
	}
	c := b.BoundingBox().Center()
	fx := (c.X - page.X0) / page.Width()
	fy := (c.Y - page.Y0) / page.Height()
	if fx >= r.Zone.X0 && fx <= r.Zone.X1 && fy >= r.Zone.Y0 && fy <= r.Zone.Y1 {
		return 1, true
	}
	return 0, true
}

// NotZoneRule is the complement of ZoneRule: it scores 0 when the block's
// center lies inside the excluded zone.
type NotZoneRule struct {
	Options
	Zone FracBox
}

func (r NotZoneRule) Name() string {
	return fmt.Sprintf("not-zone:(%g,%g,%g,%g)", r.Zone.X0, r.Zone.Y0, r.Zone.X1, r.Zone.Y1)
}

func (r NotZoneRule) Evaluate(b model.Block, ctx *Context) (float64, bool) {
	inner := ZoneRule{Zone: r.Zone}
	score, applicable := inner.Evaluate(b, ctx)
	if !applicable {
		return 0, false
	}
	return 1 - score, true
}

// RelativeHeightRule scores 1 when the block's height relative to the page
// height lies within [Min, Max]; Max of 0 means unbounded above.
type RelativeHeightRule struct {
	Options
	Min, Max float64
}

func (r RelativeHeightRule) Name() string {
	return fmt.Sprintf("relative-height:[%g,%g]", r.Min, r.Max)
}

func (r RelativeHeightRule) Evaluate(b model.Block, ctx *Context) (float64, bool) {
	if ctx.Page.Height() == 0 {
		return 0, false
	}
	frac := b.BoundingBox().Height() / ctx.Page.Height()
	if frac >= r.Min && (r.Max == 0 || frac <= r.Max) {
		return 1, true
	}
	return 0, true
}

// AreaRatioRule scores 1 when the block covers a fraction of the page area
// within [Min, Max]; Max of 0 means unbounded above.
type AreaRatioRule struct {
	Options
	Min, Max float64
}

func (r AreaRatioRule) Name() string {
	return fmt.Sprintf("area-ratio:[%g,%g]", r.Min, r.Max)
}

func (r AreaRatioRule) Evaluate(b model.Block, ctx *Context) (float64, bool) {
	if ctx.Page.Area() == 0 {
		return 0, false
	}
	frac := b.BoundingBox().Area() / ctx.Page.Area()
	if frac >= r.Min && (r.Max == 0 || frac <= r.Max) {
		return 1, true
	}
	return 0, true
}

// AspectRatioRule scores 1 when the block's width/height ratio lies within
// [Min, Max]; Max of 0 means unbounded above. Used for wide, thin shapes
// such as progress bars and dividers.
type AspectRatioRule struct {
	Options
	Min, Max float64
}

func (r AspectRatioRule) Name() string {
	return fmt.Sprintf("aspect:[%g,%g]", r.Min, r.Max)
}

func (r AspectRatioRule) Evaluate(b model.Block, _ *Context) (float64, bool) {
	box := b.BoundingBox()
	if box.Height() == 0 {
		return 0, false
	}
	ratio := box.Width() / box.Height()
	if ratio >= r.Min && (r.Max == 0 || ratio <= r.Max) {
		return 1, true
	}
	return 0, true
}

// PageKindRule scores the page-kind hint confidence when the page matches
// the wanted kind, 0 when it does not. Not applicable when the document
// carries no page-kind hints.
type PageKindRule struct {
	Options
	Kind hints.PageKind
}

func (r PageKindRule) Name() string { return "page-kind:" + r.Kind.String() }

func (r PageKindRule) Evaluate(_ model.Block, ctx *Context) (float64, bool) {
	hint, ok := ctx.PageKind()
	if !ok || hint.Kind == hints.PageKindUnknown {
		return 0, false
	}
	if hint.Kind == r.Kind {
		return hint.Confidence, true
	}
	return 0, true
}

// MaxScoreRule evaluates its sub-rules and yields the maximum of the
// applicable results. Used when several hint sources can each validate a
// match, such as several acceptable font sizes. Not applicable when no
// sub-rule applies.
type MaxScoreRule struct {
	Options
	Rules []Rule
}

func (r MaxScoreRule) Name() string { return "max" }

func (r MaxScoreRule) Evaluate(b model.Block, ctx *Context) (float64, bool) {
	best := 0.0
	any := false
	for _, sub := range r.Rules {
		score, applicable := sub.Evaluate(b, ctx)
		if !applicable {
			continue
		}
		any = true
		if score > best {
			best = score
		}
	}
	return best, any
}
