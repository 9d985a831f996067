package classify

import "sort"

// constraintModel collects candidates from classifiers that opted in to
// globally consistent assignment. Candidates are grouped by a
// classifier-derived key (for step numbers, the parsed value); at most one
// candidate per group may win. Solving picks the block-disjoint assignment
// that maximizes total score: a weighted set-packing search, exact up to
// the configured candidate limit and greedy above it.
type constraintModel struct {
	limit  int
	order  []string              // group keys in insertion order
	groups map[string][]*Candidate
	labels map[string]bool // labels with pending candidates
}

func newConstraintModel(limit int) *constraintModel {
	return &constraintModel{
		limit:  limit,
		groups: make(map[string][]*Candidate),
		labels: make(map[string]bool),
	}
}

// add registers a candidate under its group. Keys are namespaced by label
// so two labels never collide on a derived key.
func (m *constraintModel) add(label, key string, c *Candidate) {
	full := label + "\x00" + key
	if _, ok := m.groups[full]; !ok {
		m.order = append(m.order, full)
	}
	m.groups[full] = append(m.groups[full], c)
	m.labels[label] = true
}

// pending reports whether any of the given labels has unresolved
// candidates in the model.
func (m *constraintModel) pending(labels []string) bool {
	for _, l := range labels {
		if m.labels[l] {
			return true
		}
	}
	return false
}

func (m *constraintModel) empty() bool {
	return len(m.order) == 0
}

func (m *constraintModel) reset() {
	m.order = nil
	m.groups = make(map[string][]*Candidate)
	m.labels = make(map[string]bool)
}

// solve computes the winning assignment against the current result state.
// Only built candidates whose source blocks are still unconsumed take
// part.
func (m *constraintModel) solve(res *Result) []*Candidate {
	groups := make([][]*Candidate, 0, len(m.order))
	total := 0
	for _, key := range m.order {
		var eligible []*Candidate
		for _, c := range m.groups[key] {
			if c.State() == StateBuilt && res.blocksFree(c) {
				eligible = append(eligible, c)
			}
		}
		if len(eligible) > 0 {
			groups = append(groups, eligible)
			total += len(eligible)
		}
	}
	if len(groups) == 0 {
		return nil
	}

	if total <= m.limit {
		return solveExact(groups)
	}
	return solveGreedy(groups)
}

// solveExact searches every at-most-one-per-group assignment and returns
// the block-disjoint one with maximum total score. Ties keep the first
// assignment found, which by construction prefers earlier groups and
// earlier-created candidates, preserving registration-order determinism.
func solveExact(groups [][]*Candidate) []*Candidate {
	// Upper bound per suffix for pruning.
	suffixMax := make([]float64, len(groups)+1)
	for i := len(groups) - 1; i >= 0; i-- {
		best := 0.0
		for _, c := range groups[i] {
			if s := c.ScoreValue(); s > best {
				best = s
			}
		}
		suffixMax[i] = suffixMax[i+1] + best
	}

	var (
		bestScore float64 = -1
		bestPick  []*Candidate
		pick      []*Candidate
		used      = make(map[int]bool)
	)

	var walk func(i int, score float64)
	walk = func(i int, score float64) {
		if score+suffixMax[i] <= bestScore {
			return
		}
		if i == len(groups) {
			if score > bestScore {
				bestScore = score
				bestPick = append([]*Candidate(nil), pick...)
			}
			return
		}
		for _, c := range groups[i] {
			if conflicts(c, used) {
				continue
			}
			claim(c, used, true)
			pick = append(pick, c)
			walk(i+1, score+c.ScoreValue())
			pick = pick[:len(pick)-1]
			claim(c, used, false)
		}
		// Skipping the group entirely is always an option.
		walk(i+1, score)
	}
	walk(0, 0)
	return bestPick
}

// solveGreedy accepts candidates in descending score order, one per group,
// skipping block conflicts. Stable sort keeps creation order on ties.
func solveGreedy(groups [][]*Candidate) []*Candidate {
	type entry struct {
		c     *Candidate
		group int
	}
	var all []entry
	for gi, g := range groups {
		for _, c := range g {
			all = append(all, entry{c: c, group: gi})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].c.ScoreValue() > all[j].c.ScoreValue()
	})

	used := make(map[int]bool)
	taken := make(map[int]bool)
	var picked []*Candidate
	for _, e := range all {
		if taken[e.group] || conflicts(e.c, used) {
			continue
		}
		taken[e.group] = true
		claim(e.c, used, true)
		picked = append(picked, e.c)
	}
	return picked
}

func conflicts(c *Candidate, used map[int]bool) bool {
	for _, b := range c.Blocks {
		if used[b.ID()] {
			return true
		}
	}
	return false
}

func claim(c *Candidate, used map[int]bool, on bool) {
	for _, b := range c.Blocks {
		if on {
			used[b.ID()] = true
		} else {
			delete(used, b.ID())
		}
	}
}
