package tangle

import (
	"fmt"
	"slices"
	"strings"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

// bundleKeySep joins sorted parent IDs into a bundle identity. Unit
// separator keeps composite keys unambiguous for any printable ID.
const bundleKeySep = "\x1f"

// layoutNode is the mutable working form of an individual during layout.
type layoutNode struct {
	id    string
	x, y  float64
	level int

	entry   pedigree.Entry
	parents []*layoutNode // resolved, sorted by ID

	bundle  *layoutBundle   // this node's own parent bundle, if any
	bundles []*layoutBundle // child bundles converging on this node as a parent
}

type layoutBundle struct {
	id    string
	x, y  float64
	level int
	span  int

	parents []*layoutNode
	links   []*layoutLink
}

type layoutLink struct {
	source *layoutNode // child
	target *layoutNode // parent
	bundle *layoutBundle
}

// workspace holds all mutable layout state for a single Layout call.
type workspace struct {
	cfg     config
	levels  [][]*layoutNode
	bundles []*layoutBundle // level-major, first-seen order within a level
}

// Layout computes the tangled-tree layout for a set of pedigree entries.
// The input is copied and never mutated; the call is deterministic.
func Layout(entries []pedigree.Entry, opts ...Option) (*Result, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	p, err := pedigree.New(entries)
	if err != nil {
		return nil, err
	}
	return LayoutPedigree(p, opts...)
}

// LayoutPedigree computes the layout for an already-validated pedigree.
func LayoutPedigree(p *pedigree.Pedigree, opts ...Option) (*Result, error) {
	if p.Len() == 0 {
		return nil, ErrNoEntries
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	levels, unplaced, err := buildLevels(p)
	if err != nil {
		return nil, err
	}

	ws := newWorkspace(cfg, p, levels)
	if err := ws.rebalance(); err != nil {
		return nil, fmt.Errorf("rebalancing %d individuals: %w", p.Len(), err)
	}
	return ws.result(p.FamilyID, unplacedNodes(p, unplaced)), nil
}

// unplacedNodes resolves the display attributes of the individuals the
// leveling pass could not reach.
func unplacedNodes(p *pedigree.Pedigree, ids []string) []UnplacedNode {
	if len(ids) == 0 {
		return nil
	}
	nodes := make([]UnplacedNode, len(ids))
	for i, id := range ids {
		e, _ := p.Entry(id)
		nodes[i] = UnplacedNode{
			ID:       id,
			Sex:      pedigree.SexFromCode(e.Sex),
			Affected: pedigree.StatusFromCode(e.Affected),
		}
	}
	return nodes
}

func newWorkspace(cfg config, p *pedigree.Pedigree, levels [][]string) *workspace {
	ws := &workspace{cfg: cfg}

	byID := make(map[string]*layoutNode, p.Len())
	for li, row := range levels {
		nodes := make([]*layoutNode, 0, len(row))
		for j, id := range row {
			e, _ := p.Entry(id)
			n := &layoutNode{
				id:    id,
				level: li,
				entry: e,
				x:     cfg.marginX + float64(j)*cfg.nodeSpacing,
				y:     cfg.marginY + float64(li)*cfg.levelSpacing,
			}
			byID[id] = n
			nodes = append(nodes, n)
		}
		ws.levels = append(ws.levels, nodes)
	}

	for _, row := range ws.levels {
		for _, n := range row {
			for _, pid := range n.entry.ParentIDs() {
				if pn, ok := byID[pid]; ok {
					n.parents = append(n.parents, pn)
				}
			}
			slices.SortFunc(n.parents, func(a, b *layoutNode) int {
				return strings.Compare(a.id, b.id)
			})
		}
	}

	ws.buildBundles()
	return ws
}

// buildBundles groups each level's nodes by shared parent set: one bundle
// per (level, parent set), one link per (child, parent) edge.
func (ws *workspace) buildBundles() {
	for li, row := range ws.levels {
		groups := make(map[string]*layoutBundle)
		var order []string
		for _, n := range row {
			if len(n.parents) == 0 {
				continue
			}
			ids := make([]string, len(n.parents))
			for i, p := range n.parents {
				ids[i] = p.id
			}
			key := strings.Join(ids, bundleKeySep)

			b, ok := groups[key]
			if !ok {
				b = &layoutBundle{id: key, level: li, parents: n.parents}
				minParent := li
				for _, p := range n.parents {
					if p.level < minParent {
						minParent = p.level
					}
				}
				b.span = li - minParent
				groups[key] = b
				order = append(order, key)
			}
			n.bundle = b
			for _, p := range n.parents {
				b.links = append(b.links, &layoutLink{source: n, target: p, bundle: b})
			}
		}
		for _, key := range order {
			b := groups[key]
			for _, p := range b.parents {
				p.bundles = append(p.bundles, b)
			}
			ws.bundles = append(ws.bundles, b)
		}
	}

	for _, b := range ws.bundles {
		var sx, sy float64
		for _, p := range b.parents {
			sx += p.x
			sy += p.y
		}
		b.x = sx / float64(len(b.parents))
		b.y = sy / float64(len(b.parents))
	}
}

// result freezes the workspace into an immutable Result, resolving the
// stepped control points for every link.
func (ws *workspace) result(familyID string, unplaced []UnplacedNode) *Result {
	res := &Result{FamilyID: familyID, Unplaced: unplaced}

	maxX, maxY := 0.0, 0.0
	for _, row := range ws.levels {
		ids := make([]string, len(row))
		for j, n := range row {
			ids[j] = n.id
			res.Nodes = append(res.Nodes, Node{
				ID:       n.id,
				X:        n.x,
				Y:        n.y,
				Level:    n.level,
				Sex:      pedigree.SexFromCode(n.entry.Sex),
				Affected: pedigree.StatusFromCode(n.entry.Affected),
				Height:   max(0, len(n.bundles)-1),
			})
			maxX = max(maxX, n.x)
			maxY = max(maxY, n.y)
		}
		res.Levels = append(res.Levels, ids)
	}

	for _, b := range ws.bundles {
		ob := Bundle{ID: b.id, X: b.x, Y: b.y, Level: b.level, Span: b.span}
		for _, p := range b.parents {
			ob.Parents = append(ob.Parents, p.id)
		}
		for _, l := range b.links {
			ob.Links = append(ob.Links, ws.controlPoints(l))
		}
		res.Bundles = append(res.Bundles, ob)
		maxX = max(maxX, b.x)
	}

	res.Width = maxX + ws.cfg.marginX
	res.Height = maxY + ws.cfg.marginY
	return res
}

// controlPoints resolves the five anchor pairs of a stepped child-to-parent
// path. Bundles converging on the same parent fan out below it, offset by
// the bundle's index in the parent's converging set.
func (ws *workspace) controlPoints(l *layoutLink) Link {
	fanout := 0.0
	for i, b := range l.target.bundles {
		if b == l.bundle {
			fanout = float64(i) * ws.cfg.bundleSpacing
			break
		}
	}

	runY := l.source.y - ws.cfg.levelSpacing/2
	yt := l.target.y + fanout
	return Link{
		Source: l.source.id,
		Target: l.target.id,
		XS:     l.source.x, YS: l.source.y,
		X2: l.source.x, Y2: runY,
		XB: l.bundle.x, YB: runY,
		X1: l.bundle.x, Y1: yt,
		XT: l.target.x, YT: yt,
	}
}
