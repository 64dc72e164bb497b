package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/pipeline"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

// layoutCommand creates the layout command for computing tangled-tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		noCache     bool
		interactive bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "layout <pedigree.ped|pedigree.json>",
		Short: "Compute a tangled-tree layout for one family",
		Long: `Compute a tangled-tree layout for one family.

The layout command takes a pedigree file, selects one family, and computes
node positions, generation levels, and sibling bundles. The output is a
layout.json file (same format as 'render -f json') that can be turned into
SVG/PNG/PDF using the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := c.pipelineOptions()
			applyFlagOverrides(cmd, &merged, opts)
			return c.runLayout(cmd.Context(), args[0], merged, output, noCache, interactive)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.FamilyID, "family", "", "family ID to select (default: first family)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the family interactively")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	// Layout flags
	cmd.Flags().Float64Var(&opts.NodeSpacing, "node-spacing", opts.NodeSpacing, "horizontal spacing between individuals")
	cmd.Flags().Float64Var(&opts.LevelSpacing, "level-spacing", opts.LevelSpacing, "vertical spacing between generations")
	cmd.Flags().Float64Var(&opts.MarginX, "margin-x", opts.MarginX, "horizontal canvas margin")
	cmd.Flags().Float64Var(&opts.MarginY, "margin-y", opts.MarginY, "vertical canvas margin")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", opts.MaxIterations, "rebalancing iteration cap (0 = default)")

	return cmd
}

// runLayout parses the pedigree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, interactive bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Input = input
	opts.Logger = c.Logger

	if interactive && opts.FamilyID == "" {
		opts.FamilyID, err = pickFamily(input)
		if err != nil {
			return err
		}
	}

	ped, err := runner.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing layout for %s...", ped.FamilyID))
	spinner.Start()

	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, ped, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := errors.ValidateOutputPath(outputPath); err != nil {
		return err
	}
	if err := tangle.WriteResultFile(outputPath, layout); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(layout.Nodes), len(layout.Levels), len(layout.Unplaced), cacheHit)
	if len(layout.Unplaced) > 0 {
		printWarning("%d individuals could not be placed: %s",
			len(layout.Unplaced), strings.Join(layout.UnplacedIDs(), ", "))
	}
	printNewline()
	printNextStep("Render", "pedviz render "+input)

	return nil
}
