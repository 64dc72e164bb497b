package tangle

import (
	"slices"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

// levelBuilder assigns individuals to generations. It tracks levels as
// ordered ID slices plus a reverse index so inserts and level prepends stay
// cheap to reason about.
type levelBuilder struct {
	ped     *pedigree.Pedigree
	levels  [][]string
	levelOf map[string]int
}

// buildLevels runs tree construction: primary-founder BFS followed by the
// secondary placement pass. It returns the generation rows and the sorted
// IDs of any individuals neither pass could place.
func buildLevels(p *pedigree.Pedigree) (levels [][]string, unplaced []string, err error) {
	founders := p.Founders()
	if len(founders) == 0 {
		return nil, nil, ErrNoFounder
	}

	b := &levelBuilder{ped: p, levelOf: make(map[string]int, p.Len())}
	b.bfs(b.primaryFounder(founders))
	b.placeRemainder()

	for _, e := range p.Entries() {
		if _, ok := b.levelOf[e.IndividualID]; !ok {
			unplaced = append(unplaced, e.IndividualID)
		}
	}
	slices.Sort(unplaced)
	return b.levels, unplaced, nil
}

// primaryFounder picks the founder whose descendant lineage is deepest,
// breaking ties by the lexicographically smallest ID. Founders arrives
// sorted, so keeping the first strict maximum realizes the tie-break.
func (b *levelBuilder) primaryFounder(founders []string) string {
	best, bestDepth := "", -1
	for _, id := range founders {
		if d := b.lineageDepth(id, make(map[string]bool)); d > bestDepth {
			best, bestDepth = id, d
		}
	}
	return best
}

// lineageDepth is the longest child-chain below id. The visiting set guards
// against parent cycles in malformed input.
func (b *levelBuilder) lineageDepth(id string, visiting map[string]bool) int {
	if visiting[id] {
		return 0
	}
	visiting[id] = true
	defer delete(visiting, id)

	depth := 0
	for _, c := range b.ped.Children(id) {
		if d := 1 + b.lineageDepth(c, visiting); d > depth {
			depth = d
		}
	}
	return depth
}

// bfs walks child edges from the root, assigning each individual the level
// one below the parent it was first discovered through.
func (b *levelBuilder) bfs(root string) {
	b.levels = [][]string{{root}}
	b.levelOf[root] = 0

	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		next := b.levelOf[id] + 1
		for _, c := range b.ped.Children(id) {
			if _, seen := b.levelOf[c]; seen {
				continue
			}
			for len(b.levels) <= next {
				b.levels = append(b.levels, nil)
			}
			b.levels[next] = append(b.levels[next], c)
			b.levelOf[c] = next
			queue = append(queue, c)
		}
	}
}

// placeRemainder repeatedly sweeps the still-unplaced individuals, applying
// the first placement rule that fires, until a full sweep makes no
// progress. Rules, in priority order: next to a placed partner, one level
// above the shallowest placed child, one level below the deepest placed
// parent.
func (b *levelBuilder) placeRemainder() {
	var pending []string
	for _, e := range b.ped.Entries() {
		if _, ok := b.levelOf[e.IndividualID]; !ok {
			pending = append(pending, e.IndividualID)
		}
	}

	for progress := true; progress && len(pending) > 0; {
		progress = false
		remaining := pending[:0]
		for _, id := range pending {
			if b.tryPlace(id) {
				progress = true
			} else {
				remaining = append(remaining, id)
			}
		}
		pending = remaining
	}
}

func (b *levelBuilder) tryPlace(id string) bool {
	// Rule 1: marrying-in partner sits immediately after their spouse.
	for _, partner := range b.ped.Partners(id) {
		if lvl, ok := b.levelOf[partner]; ok {
			b.insertAfter(lvl, partner, id)
			return true
		}
	}

	// Rule 2: a parent sits one level above their shallowest placed child.
	childLevel := -1
	for _, c := range b.ped.Children(id) {
		if lvl, ok := b.levelOf[c]; ok && (childLevel == -1 || lvl < childLevel) {
			childLevel = lvl
		}
	}
	if childLevel >= 0 {
		lvl := childLevel - 1
		if lvl < 0 {
			b.prependLevel()
			lvl = 0
		}
		b.appendAt(lvl, id)
		return true
	}

	// Rule 3: a child sits one level below their deepest placed parent.
	parentLevel := -1
	if e, ok := b.ped.Entry(id); ok {
		for _, pid := range e.ParentIDs() {
			if lvl, ok := b.levelOf[pid]; ok && lvl > parentLevel {
				parentLevel = lvl
			}
		}
	}
	if parentLevel >= 0 {
		lvl := parentLevel + 1
		for len(b.levels) <= lvl {
			b.levels = append(b.levels, nil)
		}
		b.appendAt(lvl, id)
		return true
	}
	return false
}

func (b *levelBuilder) insertAfter(lvl int, anchor, id string) {
	row := b.levels[lvl]
	at := len(row)
	for i, existing := range row {
		if existing == anchor {
			at = i + 1
			break
		}
	}
	b.levels[lvl] = slices.Insert(row, at, id)
	b.levelOf[id] = lvl
}

func (b *levelBuilder) appendAt(lvl int, id string) {
	b.levels[lvl] = append(b.levels[lvl], id)
	b.levelOf[id] = lvl
}

// prependLevel opens a new empty generation above the current topmost one.
func (b *levelBuilder) prependLevel() {
	b.levels = slices.Insert(b.levels, 0, []string(nil))
	for id, lvl := range b.levelOf {
		b.levelOf[id] = lvl + 1
	}
}
