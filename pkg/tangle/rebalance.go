package tangle

import (
	"cmp"
	"math"
	"slices"
)

// rebalance runs the cooperating adjustment passes until a full iteration
// moves nothing, or the iteration cap is hit.
func (ws *workspace) rebalance() error {
	ws.resolveOverlap()
	for i := 0; i < ws.cfg.maxIterations; i++ {
		moved := ws.alignAncestors()
		if ws.centerBundles() {
			moved = true
		}
		if ws.resolveOverlap() {
			moved = true
		}
		if !moved {
			return nil
		}
	}
	return ErrUnstable
}

// resolveOverlap enforces the minimum horizontal gap within each level.
// A crowded node is pushed right together with its descendant subtree so
// children stay under their parents.
func (ws *workspace) resolveOverlap() bool {
	moved := false
	for _, row := range ws.levels {
		sorted := slices.Clone(row)
		slices.SortStableFunc(sorted, func(a, b *layoutNode) int {
			return cmp.Compare(a.x, b.x)
		})
		for i := 1; i < len(sorted); i++ {
			gap := sorted[i].x - sorted[i-1].x
			if gap < ws.cfg.nodeSpacing-eps {
				ws.shiftSubtree(sorted[i], ws.cfg.nodeSpacing-gap, make(map[*layoutNode]bool))
				moved = true
			}
		}
	}
	return moved
}

// shiftSubtree moves a node and everything hanging below it. The seen set
// guards against revisiting shared descendants through multiple bundles.
func (ws *workspace) shiftSubtree(n *layoutNode, dx float64, seen map[*layoutNode]bool) {
	if seen[n] {
		return
	}
	seen[n] = true
	n.x += dx
	for _, b := range n.bundles {
		b.x += dx
		for _, l := range b.links {
			ws.shiftSubtree(l.source, dx, seen)
		}
	}
}

// alignAncestors keeps parents from drifting left of their children: when a
// bundle's leftmost parent sits left of the bundle's leftmost child, the
// parent level's tail (that parent and everyone to its right) shifts right
// to close the gap. Processing runs bottom-up so corrections cascade toward
// the founders.
func (ws *workspace) alignAncestors() bool {
	moved := false
	visited := make(map[*layoutBundle]bool)
	for li := len(ws.levels) - 1; li >= 0; li-- {
		for _, n := range ws.levels[li] {
			b := n.bundle
			if b == nil || visited[b] {
				continue
			}
			visited[b] = true

			minParent := math.Inf(1)
			for _, p := range b.parents {
				minParent = math.Min(minParent, p.x)
			}
			minChild := math.Inf(1)
			for _, l := range b.links {
				minChild = math.Min(minChild, l.source.x)
			}
			if dx := minChild - minParent; dx > eps {
				ws.shiftLevelTails(b, dx)
				moved = true
			}
		}
	}
	return moved
}

// shiftLevelTails moves each parent level's segment starting at the
// bundle's leftmost parent on that level. Shifting the whole tail keeps a
// couple (and any co-parents to the right) together instead of tearing one
// spouse out of the row.
func (ws *workspace) shiftLevelTails(b *layoutBundle, dx float64) {
	anchors := make(map[int]*layoutNode)
	for _, p := range b.parents {
		if cur, ok := anchors[p.level]; !ok || p.x < cur.x {
			anchors[p.level] = p
		}
	}

	lvls := make([]int, 0, len(anchors))
	for lvl := range anchors {
		lvls = append(lvls, lvl)
	}
	slices.Sort(lvls)

	for _, lvl := range lvls {
		from := anchors[lvl].x
		for _, m := range ws.levels[lvl] {
			if m.x >= from-eps {
				m.x += dx
			}
		}
	}
}

// centerBundles pins each bundle's trunk to the midpoint of its children's
// horizontal spread, dragging the linked parents along so the next
// alignment pass sees them in the right place. Parents serving more than
// one bundle are not dragged: their position is settled by alignment and
// overlap, so two bundles never pull the same parent in opposite
// directions. Runs bottom-up.
func (ws *workspace) centerBundles() bool {
	moved := false
	for i := len(ws.bundles) - 1; i >= 0; i-- {
		b := ws.bundles[i]
		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, l := range b.links {
			minX = math.Min(minX, l.source.x)
			maxX = math.Max(maxX, l.source.x)
		}
		cx := (minX + maxX) / 2
		if dx := cx - b.x; math.Abs(dx) > eps {
			b.x = cx
			for _, p := range b.parents {
				if len(p.bundles) == 1 {
					p.x += dx
				}
			}
			moved = true
		}
	}
	return moved
}
