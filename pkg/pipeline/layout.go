package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/observability"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

// ComputeLayout runs the tangled-tree layout for a parsed family.
// Layout failures are mapped to structured error codes so the CLI and the
// preview server report them consistently.
func ComputeLayout(ctx context.Context, p *pedigree.Pedigree, opts Options) (*tangle.Result, error) {
	opts.SetLayoutDefaults()

	observability.Pipeline().OnLayoutStart(ctx, p.FamilyID, p.Len())
	start := time.Now()

	res, err := tangle.LayoutPedigree(p, opts.LayoutOptions()...)
	observability.Pipeline().OnLayoutComplete(ctx, p.FamilyID, time.Since(start), err)
	if err != nil {
		return nil, layoutError(p.FamilyID, err)
	}

	if len(res.Unplaced) > 0 {
		opts.Logger.Warn("some individuals could not be placed",
			"family", p.FamilyID,
			"unplaced", res.UnplacedIDs())
	}
	return res, nil
}

func layoutError(familyID string, err error) error {
	switch {
	case stderrors.Is(err, tangle.ErrUnstable):
		return errors.Wrap(errors.ErrCodeLayoutUnstable, err, "layout for family %s", familyID)
	case stderrors.Is(err, tangle.ErrNoEntries):
		return errors.Wrap(errors.ErrCodeNoData, err, "layout for family %s", familyID)
	case stderrors.Is(err, tangle.ErrNoFounder):
		return errors.Wrap(errors.ErrCodeInvalidPedigree, err, "layout for family %s", familyID)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "layout for family %s", familyID)
}
