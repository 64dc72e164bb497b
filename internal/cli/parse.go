package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/pipeline"
)

// parseCommand creates the parse command for converting pedigree files.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		familyID string
		output   string
		refresh  bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "parse <pedigree.ped|pedigree.json>",
		Short: "Parse a pedigree file and extract one family as JSON",
		Long: `Parse a pedigree file and extract one family as JSON.

The input format is inferred from the file extension: .json for pedviz JSON
entries, anything else for PLINK PED. The selected family's entries are
written as JSON, which 'layout' and 'render' also accept as input.

Examples:
  pedviz parse trio.ped                     # First family to stdout
  pedviz parse cohort.ped --family FAM02    # Pick a family
  pedviz parse cohort.ped -o fam02.json     # Write to file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], familyID, output, refresh, noCache)
		},
	}

	cmd.Flags().StringVar(&familyID, "family", "", "family ID to select (default: first family)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runParse parses the input file and writes the selected family's entries.
func (c *CLI) runParse(ctx context.Context, input, familyID, output string, refresh, noCache bool) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Parsing %s", input)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Input = input
	opts.FamilyID = familyID
	opts.Refresh = refresh

	prog := newProgress(logger)
	ped, cacheHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed family %s with %d individuals", ped.FamilyID, ped.Len()))

	if err := writeEntries(ped.Entries(), output); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Parse complete")
		printFile(output)
		printStats(ped.Len(), 0, len(ped.Dangling()), cacheHit)
		printNewline()
		printNextStep("Layout", "pedviz layout "+output)
	}
	return nil
}

// familiesCommand creates the families command for listing family summaries.
func (c *CLI) familiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "families <pedigree.ped|pedigree.json>",
		Short: "List the families in a pedigree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFamilies(args[0])
		},
	}
	return cmd
}

// runFamilies prints a one-line summary per family in the input file.
func runFamilies(input string) error {
	entries, err := readEntriesFile(input)
	if err != nil {
		return err
	}
	families, err := pedigree.Families(entries)
	if err != nil {
		return err
	}

	for _, fam := range families {
		affected := 0
		for _, e := range fam.Entries() {
			if e.Affected == 1 {
				affected++
			}
		}
		printInfo("%s", StyleValue.Render(fam.FamilyID))
		printDetail("%d individuals, %d founders, %d affected",
			fam.Len(), len(fam.Founders()), affected)
	}
	return nil
}

// readEntriesFile reads pedigree entries from a PED or JSON file, inferring
// the format from the extension the same way the pipeline does.
func readEntriesFile(input string) ([]pedigree.Entry, error) {
	opts := pipeline.Options{Input: input}
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	if opts.Format == pipeline.InputJSON {
		return pedigree.ReadJSONFile(input)
	}
	return pedigree.ReadPEDFile(input)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// writeEntries serializes entries as JSON to the specified path (or stdout if empty).
func writeEntries(entries []pedigree.Entry, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	data, err := pedigree.MarshalEntries(entries)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	_, err = out.Write([]byte("\n"))
	return err
}
