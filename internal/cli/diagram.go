package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbinfrago/json2capella/pkg/diagram"
)

// diagramOpts holds the command-line flags for the diagram command.
type diagramOpts struct {
	model   string // path to the .capella model file
	layer   string // architecture layer selector
	pkg     string // id or name of the data package to diagram
	output  string // output file (stdout for DOT if empty)
	format  string // dot, svg, or png
	compact bool   // omit attribute and literal rows
}

// newDiagramCmd creates the diagram command.
func newDiagramCmd() *cobra.Command {
	var opts diagramOpts

	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Render a data package's class structure via Graphviz",
		Long: `Render the classes, enumerations, and relationships of a Capella data
package as a diagram. Generalizations are drawn as hollow-headed arrows,
typed attributes as dashed arrows, and nested packages as clusters.

Without --output the DOT source is printed to stdout; svg and png always
need an output file.

Examples:
  json2capella diagram -m project.capella -p Signals
  json2capella diagram -m project.capella -f svg -o signals.svg
  json2capella diagram -m project.capella -f png -o signals.png --compact`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runDiagram(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "path to the Capella model file (required)")
	cmd.Flags().StringVarP(&opts.layer, "layer", "l", "la", "architecture layer (oa, sa, la, pa)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "id or name of the data package to diagram (default: the layer's root data package)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: DOT on stdout, or derived from the format)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, or png (default: derived from --output, else dot)")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "omit attribute and literal rows from nodes")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runDiagram(ctx context.Context, opts *diagramOpts) error {
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	source, _, err := resolveTarget(ctx, opts.model, opts.layer, opts.pkg)
	if err != nil {
		return err
	}

	dot := diagram.ToDOT(source, diagram.Options{Compact: opts.compact})

	spin := newSpinner(ctx, fmt.Sprintf("Rendering %s", format))
	spin.Start()
	out, err := diagram.Render(ctx, dot, format)
	spin.Stop()
	if err != nil {
		return err
	}

	if opts.output == "" && format == diagram.FormatDOT {
		_, err := os.Stdout.Write(out)
		return err
	}

	dest := opts.output
	if dest == "" {
		dest = strings.TrimSuffix(filepath.Base(opts.model), filepath.Ext(opts.model)) + "." + string(format)
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered %s", source.Path())
	printFile(dest)
	return nil
}

// resolveFormat decides the output format: an explicit --format wins, then
// the --output extension, then DOT.
func resolveFormat(flag, output string) (diagram.Format, error) {
	if flag != "" {
		return diagram.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return diagram.ParseFormat(ext)
	}
	return diagram.FormatDOT, nil
}
