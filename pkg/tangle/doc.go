// Package tangle computes tangled-tree layouts for family pedigrees.
//
// # Overview
//
// A pedigree is drawn as a leveled graph: founders at the top, descendants
// below, with each child's parent-edges merged into a "bundle" that fans out
// to the individual parents. The layout proceeds in three stages:
//
//  1. Tree construction: pick a primary founder (deepest lineage,
//     lexicographic tie-break), breadth-first assign generations, then
//     place the individuals BFS missed: spouses next to their partner,
//     parents above their children, children below their parents.
//  2. Bundle construction: group each level's nodes by their shared parent
//     set, creating one bundle per couple (or single parent) per level,
//     with one link per (child, parent) pair.
//  3. Iterative rebalancing: cooperating passes enforce a minimum
//     horizontal gap inside each level, keep ancestors aligned over their
//     descendants, and center every bundle under the spread of children it
//     serves, repeating until the coordinates settle.
//
// Rebalancing is not guaranteed to converge for contradictory input, so it
// is bounded by an iteration cap (default 1000). Hitting the cap returns
// [ErrUnstable] rather than an unstable drawing.
//
// # Basic Usage
//
//	res, err := tangle.Layout(entries)
//	if err != nil {
//	    return err
//	}
//	for _, n := range res.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y)
//	}
//
// The [Result] carries everything a renderer needs: positioned nodes with
// sex/affected render attributes, and bundles with resolved control points
// for stepped SVG paths. Individuals the placement rules could not reach
// are reported in [Result.Unplaced] instead of being silently dropped.
//
// # Determinism and Purity
//
// Layout is a pure function of its input: the entries are copied before any
// work, traversal orders are fixed (sorted IDs, discovery order), and no
// state survives a call. Running Layout twice on the same input yields
// bit-identical coordinates.
package tangle
