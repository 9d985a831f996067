package classify

import (
	"fmt"
	"log/slog"
)

// acceptWinner marks a candidate as the winner for its label, claims its
// source blocks, and runs the two removal passes that guard against
// double-reporting the same physical feature:
//
//   - child removal: unconsumed blocks fully inside the winner's box, and
//     not part of a separately winning element, are consumed as
//     child-of-winner;
//   - near-duplicate removal: unconsumed blocks whose box has
//     intersection-over-union above the configured threshold against the
//     winner's box are consumed as near-duplicate.
//
// Neither pass touches a block referenced by an already-accepted winner.
// Composite winners own no blocks directly (their children already claimed
// theirs), so they trigger neither the claim nor the removal passes.
func (s *Scheduler) acceptWinner(res *Result, c *Candidate) {
	for _, b := range c.Blocks {
		if label, ok := res.winnerBlocks[b.ID()]; ok {
			s.violate(res, "block %d won by both %q and %q", b.ID(), label, c.Label)
			continue
		}
		if entry, ok := res.ConsumptionOf(b.ID()); ok {
			s.violate(res, "block %d is a source of winner %q but already consumed (%s by %q)",
				b.ID(), c.Label, entry.Reason, entry.Label)
			continue
		}
		res.winnerBlocks[b.ID()] = c.Label
		res.consume(b.ID(), ConsumedWon, c.Label)
	}
	c.markWinner()

	if len(c.Blocks) == 0 {
		return
	}

	iouLimit := s.cfg.Thresholds.NearDuplicateIoU
	for _, b := range res.Page.Blocks {
		if res.IsConsumed(b.ID()) {
			continue
		}
		if _, won := res.winnerBlocks[b.ID()]; won {
			continue
		}
		box := b.BoundingBox()
		switch {
		case c.Box.ContainsBox(box):
			res.consume(b.ID(), ConsumedChildOfWinner, c.Label)
		case c.Box.IoU(box) > iouLimit:
			res.consume(b.ID(), ConsumedNearDuplicate, c.Label)
		}
	}
}

// violate handles a global invariant violation: a defect in pipeline
// wiring, never a data condition. Debug builds panic; production builds
// record a warning, log, and continue without dropping data.
func (s *Scheduler) violate(res *Result, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if debugAssertions {
		panic("classify: invariant violation: " + msg)
	}
	res.Warnf("invariant violation: %s", msg)
	s.logger.Error("invariant violation",
		slog.Int("page", res.Page.Number),
		slog.String("detail", msg))
}
