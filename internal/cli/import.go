package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbinfrago/json2capella/pkg/capella"
	"github.com/dbinfrago/json2capella/pkg/descr"
	"github.com/dbinfrago/json2capella/pkg/importer"
	"github.com/dbinfrago/json2capella/pkg/profile"
)

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	model       string // path to the .capella model file
	layer       string // target architecture layer selector
	pkg         string // id or name of the target data package
	output      string // save destination (in place if empty)
	profilePath string // optional TOML import profile
	dryRun      bool   // report changes without saving
}

// newImportCmd creates the import command.
func newImportCmd() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <input>",
		Short: "Import JSON/YAML package definitions into a Capella model",
		Long: `Import package, class, and enumeration definitions into the data package
of a Capella model. The input may be a single .json/.yaml file or a
directory of such files.

Elements are matched by name within their parent package: missing elements
are created, existing ones are updated in place for exactly the fields the
input describes. Importing the same input twice is a no-op.

Examples:
  json2capella import defs/ -m project.capella
  json2capella import signals.json -m project.capella -l sa
  json2capella import defs/ -m project.capella -p "Data" --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runImport(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "path to the Capella model file (required)")
	cmd.Flags().StringVarP(&opts.layer, "layer", "l", "la", "target architecture layer (oa, sa, la, pa)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "id or name of the target data package (default: the layer's root data package)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result to this path instead of in place")
	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "TOML import profile with type aliases")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report changes without saving the model")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runImport(ctx context.Context, opts *importOpts, input string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	prof := profile.Default()
	if opts.profilePath != "" {
		var err error
		if prof, err = profile.Load(opts.profilePath); err != nil {
			return err
		}
	}

	// Load and validate every input before the model is touched, so a
	// malformed file can never leave a half-imported model behind.
	pkgs, err := descr.LoadAll(input)
	if err != nil {
		return err
	}
	logger.Debugf("loaded %d description root(s) from %s", len(pkgs), input)

	target, m, err := resolveTarget(ctx, opts.model, opts.layer, opts.pkg)
	if err != nil {
		return err
	}

	imp := importer.New(importer.Options{
		Profile: prof,
		Logger:  func(format string, args ...any) { logger.Debugf(format, args...) },
	})
	rep, err := imp.Import(target, pkgs)
	if err != nil {
		return err
	}

	if opts.dryRun {
		printInfo("Dry run: %s", rep)
		return nil
	}

	if rep.Changes() == 0 {
		printSuccess("Model already up to date")
		return nil
	}

	dest := opts.output
	if dest == "" {
		dest = opts.model
	}
	if err := m.SaveAs(dest); err != nil {
		return err
	}

	printSuccess("%s", rep)
	printFile(dest)
	prog.done(fmt.Sprintf("Imported into %s", target.Path()))
	return nil
}

// resolveTarget opens the model and finds the data package the import
// writes into: an explicit --package wins, otherwise the selected layer's
// root data package.
func resolveTarget(ctx context.Context, modelPath, layer, pkg string) (*capella.Pkg, *capella.Model, error) {
	sel, err := capella.ParseLayer(layer)
	if err != nil {
		return nil, nil, err
	}

	spin := newSpinner(ctx, fmt.Sprintf("Loading %s", modelPath))
	spin.Start()
	m, err := capella.Open(modelPath)
	spin.Stop()
	if err != nil {
		return nil, nil, err
	}

	if pkg != "" {
		target, err := m.FindDataPkg(pkg)
		if err != nil {
			return nil, nil, err
		}
		return target, m, nil
	}

	arch, err := m.Layer(sel)
	if err != nil {
		return nil, nil, err
	}
	target, err := arch.DataPkg()
	if err != nil {
		return nil, nil, err
	}
	return target, m, nil
}
