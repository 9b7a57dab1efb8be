package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvasrender/pkg/scene"
)

func (c *CLI) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the scene description schema",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), scene.Schema())
		},
	}
}
