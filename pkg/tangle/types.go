package tangle

import (
	"errors"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

var (
	// ErrNoEntries is returned when Layout is called with an empty entry set.
	ErrNoEntries = errors.New("pedigree has no entries")

	// ErrNoFounder is returned when every individual has at least one parent,
	// so no generation-zero anchor exists (for example, a cyclic pedigree).
	ErrNoFounder = errors.New("pedigree has no founder individuals")

	// ErrUnstable is returned when rebalancing hits its iteration cap before
	// the coordinates settle.
	ErrUnstable = errors.New("layout did not stabilize within the iteration cap")
)

// Default layout geometry. Overridable via the With* options.
const (
	DefaultNodeSpacing   = 70.0
	DefaultLevelSpacing  = 100.0
	DefaultMargin        = 40.0
	DefaultBundleSpacing = 8.0

	defaultMaxIterations = 1000
)

// eps is the movement tolerance: coordinate deltas below it count as "did
// not move" for convergence detection.
const eps = 1e-9

// Node is a positioned individual in the final layout.
type Node struct {
	ID       string          `json:"id"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Level    int             `json:"level"`
	Sex      pedigree.Sex    `json:"sex"`
	Affected pedigree.Status `json:"affected"`

	// Height is the vertical slot count consumed by bundles converging on
	// this node as a parent: number of distinct child bundles minus one.
	Height int `json:"height"`
}

// Link is one child-to-parent edge with resolved control points. A stepped
// path visits, in order: the source (child) anchor, a vertical riser, a
// horizontal run to the bundle trunk, the trunk itself, and the target
// (parent) anchor.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`

	XS float64 `json:"xs"` // child anchor
	YS float64 `json:"ys"`
	X2 float64 `json:"x2"` // top of the child's riser
	Y2 float64 `json:"y2"`
	XB float64 `json:"xb"` // junction with the bundle trunk
	YB float64 `json:"yb"`
	X1 float64 `json:"x1"` // bottom of the fan-out to the parent
	Y1 float64 `json:"y1"`
	XT float64 `json:"xt"` // parent anchor
	YT float64 `json:"yt"`
}

// Bundle groups the parent edges of every child on one level that shares
// the same parent set.
type Bundle struct {
	ID      string   `json:"id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Level   int      `json:"level"`
	Span    int      `json:"span"`
	Parents []string `json:"parents"`
	Links   []Link   `json:"links"`
}

// UnplacedNode is an individual the placement rules could not reach. It
// carries no coordinates, only the attributes a renderer needs to draw
// the individual outside the tree.
type UnplacedNode struct {
	ID       string          `json:"id"`
	Sex      pedigree.Sex    `json:"sex"`
	Affected pedigree.Status `json:"affected"`
}

// Result is a complete computed layout.
type Result struct {
	FamilyID string     `json:"family_id,omitempty"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Levels   [][]string `json:"levels"`
	Nodes    []Node     `json:"nodes"`
	Bundles  []Bundle   `json:"bundles"`

	// Unplaced lists individuals the placement rules could not reach,
	// sorted by ID. They are absent from Nodes.
	Unplaced []UnplacedNode `json:"unplaced,omitempty"`
}

// UnplacedIDs returns the IDs of the unplaced individuals, in order.
func (r *Result) UnplacedIDs() []string {
	if len(r.Unplaced) == 0 {
		return nil
	}
	ids := make([]string, len(r.Unplaced))
	for i, u := range r.Unplaced {
		ids[i] = u.ID
	}
	return ids
}

// Node returns the positioned node with the given ID, or false.
func (r *Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

type config struct {
	nodeSpacing   float64
	levelSpacing  float64
	marginX       float64
	marginY       float64
	bundleSpacing float64
	maxIterations int
}

func defaultConfig() config {
	return config{
		nodeSpacing:   DefaultNodeSpacing,
		levelSpacing:  DefaultLevelSpacing,
		marginX:       DefaultMargin,
		marginY:       DefaultMargin,
		bundleSpacing: DefaultBundleSpacing,
		maxIterations: defaultMaxIterations,
	}
}

// Option customizes a Layout call.
type Option func(*config)

// WithNodeSpacing sets the minimum horizontal gap between nodes on a level.
func WithNodeSpacing(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.nodeSpacing = s
		}
	}
}

// WithLevelSpacing sets the vertical distance between generations.
func WithLevelSpacing(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.levelSpacing = s
		}
	}
}

// WithMargins sets the horizontal and vertical canvas margins.
func WithMargins(x, y float64) Option {
	return func(c *config) {
		if x >= 0 {
			c.marginX = x
		}
		if y >= 0 {
			c.marginY = y
		}
	}
}

// WithBundleSpacing sets the vertical gap between bundle fan-outs that
// converge on the same parent.
func WithBundleSpacing(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.bundleSpacing = s
		}
	}
}

// WithMaxIterations overrides the rebalancing iteration cap.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}
