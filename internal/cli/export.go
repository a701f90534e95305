package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbinfrago/json2capella/pkg/descr"
	"github.com/dbinfrago/json2capella/pkg/exporter"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	model  string // path to the .capella model file
	layer  string // architecture layer selector
	pkg    string // id or name of the data package to export
	output string // destination file (stdout if empty)
	indent int    // JSON indent width, negative for compact output
}

// newExportCmd creates the export command.
func newExportCmd() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a Capella data package as a JSON description",
		Long: `Export the classes, enumerations, and nested packages of a Capella data
package as a JSON description file. The output uses the same schema the
import command reads, so an exported package can be edited and imported
back.

Examples:
  json2capella export -m project.capella
  json2capella export -m project.capella -p Signals -o signals.json
  json2capella export -m project.capella -l pa --indent -1`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runExport(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "path to the Capella model file (required)")
	cmd.Flags().StringVarP(&opts.layer, "layer", "l", "la", "architecture layer (oa, sa, la, pa)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "id or name of the data package to export (default: the layer's root data package)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the description to this file instead of stdout")
	cmd.Flags().IntVar(&opts.indent, "indent", 2, "JSON indent width (negative for compact output)")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runExport(ctx context.Context, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	source, _, err := resolveTarget(ctx, opts.model, opts.layer, opts.pkg)
	if err != nil {
		return err
	}

	exp := exporter.New(exporter.Options{
		Logger: func(format string, args ...any) { logger.Warnf(format, args...) },
	})
	tree := exp.Export(source)

	if opts.output == "" {
		return descr.Write(os.Stdout, tree, opts.indent)
	}
	if err := descr.WriteFile(opts.output, tree, opts.indent); err != nil {
		return err
	}

	printSuccess("Exported %s", source.Path())
	printFile(opts.output)
	return nil
}
