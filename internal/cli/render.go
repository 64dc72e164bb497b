package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/pipeline"
)

// renderCommand creates the render command for generating pedigree diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output      string
		formatsStr  string
		noCache     bool
		interactive bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "render <pedigree.ped|pedigree.json>",
		Short: "Render a family pedigree to SVG, PNG, PDF, or DOT",
		Long: `Render a family pedigree to one or more output formats.

The render command runs the full pipeline: parse the input file, compute the
tangled-tree layout for the selected family, and draw it. Multiple formats
can be produced in one run with a comma-separated --format list.

Examples:
  pedviz render trio.ped                          # trio.svg
  pedviz render cohort.ped --family FAM02         # Pick a family
  pedviz render trio.ped -f svg,png,pdf           # Multiple formats
  pedviz render trio.ped --style mono --labels    # Greyscale with labels`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			merged := c.pipelineOptions()
			applyFlagOverrides(cmd, &merged, opts)
			if err := pipeline.ValidateFormats(merged.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(merged.Style); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], merged, output, noCache, interactive)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.FamilyID, "family", "", "family ID to select (default: first family)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the family interactively")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	// Layout flags
	cmd.Flags().Float64Var(&opts.NodeSpacing, "node-spacing", opts.NodeSpacing, "horizontal spacing between individuals")
	cmd.Flags().Float64Var(&opts.LevelSpacing, "level-spacing", opts.LevelSpacing, "vertical spacing between generations")

	// Render flags
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: simple (default), mono")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "draw individual ID labels")
	cmd.Flags().BoolVar(&opts.Legend, "legend", opts.Legend, "draw a symbol legend")
	cmd.Flags().BoolVar(&opts.ShowUnplaced, "unplaced", opts.ShowUnplaced, "draw unplaced individuals in a side gutter")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster scale factor for PNG output")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache, interactive bool) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

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

	spinner := newSpinnerWithContext(ctx, "Rendering pedigree...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(output, input)
	single := len(opts.Formats) == 1

	printSuccess("Rendered family %s", result.Pedigree.FamilyID)
	for _, format := range opts.Formats {
		path := base + "." + format
		if single && output != "" {
			path = output
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.Individuals, result.Stats.Levels, result.Stats.Unplaced, result.CacheInfo.RenderHit)
	if result.Stats.Unplaced > 0 {
		printWarning("%d individuals could not be placed: %s",
			result.Stats.Unplaced, strings.Join(result.Layout.UnplacedIDs(), ", "))
	}

	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
// This is used when generating multiple files (e.g., trio.svg, trio.png).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
