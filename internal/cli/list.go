package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbinfrago/json2capella/pkg/capella"
)

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <model>",
		Short: "List the data packages of a Capella model",
		Long: `List every data package found in a Capella model, with its architecture
layer, element id, and element counts. The printed ids and paths are valid
arguments for the --package flag of the import, export, and diagram
commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runList(c.Context(), args[0])
		},
	}
	return cmd
}

func runList(ctx context.Context, modelPath string) error {
	spin := newSpinner(ctx, fmt.Sprintf("Loading %s", modelPath))
	spin.Start()
	m, err := capella.Open(modelPath)
	spin.Stop()
	if err != nil {
		return err
	}

	pkgs := m.DataPkgs()
	if len(pkgs) == 0 {
		printInfo("No data packages found")
		return nil
	}

	fmt.Println(StyleTitle.Render(fmt.Sprintf("Data packages in %s", modelPath)))
	fmt.Println()
	for _, p := range pkgs {
		// Nested packages get their own row, so counts are direct
		// children only.
		counts := fmt.Sprintf("(%d classes, %d enums, %d subpackages)",
			len(p.Classes()), len(p.Enums()), len(p.Packages()))
		fmt.Printf("%s %s %s\n",
			StyleDim.Render("["+string(p.Layer())+"]"),
			StyleHighlight.Render(p.Path()),
			StyleDim.Render(counts))
		printDetail("id: %s", p.ID())
	}
	return nil
}
