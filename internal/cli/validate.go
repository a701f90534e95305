package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dbinfrago/json2capella/pkg/descr"
	"github.com/dbinfrago/json2capella/pkg/errors"
)

// newValidateCmd creates the validate command.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <input>...",
		Short: "Validate description files without touching a model",
		Long: `Validate one or more JSON/YAML description files or directories. Each
input is parsed and checked against the schema rules the import command
enforces: required fields, legal names, multiplicity syntax, and duplicate
names among siblings.

The command reports every invalid input before failing, so a directory of
files can be fixed in one pass.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runValidate(c.Context(), args)
		},
	}
	return cmd
}

func runValidate(ctx context.Context, inputs []string) error {
	logger := loggerFromContext(ctx)

	failed := 0
	total := 0
	for _, input := range inputs {
		pkgs, err := descr.LoadAll(input)
		if err != nil {
			printError("%s: %s", input, errors.UserMessage(err))
			failed++
			continue
		}
		total += len(pkgs)
		logger.Debugf("%s: %d description root(s)", input, len(pkgs))
	}

	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidDescription, "%d of %d input(s) failed validation", failed, len(inputs))
	}
	printSuccess("%d description root(s) valid", total)
	return nil
}
