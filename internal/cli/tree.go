package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvasrender/pkg/io"
	"github.com/matzehuels/canvasrender/pkg/render/nodelink"
)

// treeCommand creates the tree command, which lays out a scene and draws
// the resulting node tree with Graphviz instead of rendering it.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		detailed bool
		dotOnly  bool
		fontDirs []string
	)

	cmd := &cobra.Command{
		Use:   "tree <scene>",
		Short: "Render the laid-out node tree of a scene as SVG",
		Long: `Tree lays out a scene and writes its node hierarchy as a Graphviz SVG.
With --detailed every node shows its resolved bounding box, which helps when
a container does not place children where expected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			s, err := io.ReadScene(args[0])
			if err != nil {
				return err
			}
			renderer, err := c.newRenderer(fontDirs)
			if err != nil {
				return err
			}
			prog := newProgress(logger)
			root, err := renderer.Layout(ctx, s)
			if err != nil {
				return err
			}
			prog.done("Laid out " + args[0])

			dot := nodelink.ToDOT(root, nodelink.Options{Detailed: detailed})
			if dotOnly {
				fmt.Print(dot)
				return nil
			}

			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return err
			}
			if output == "" {
				output = io.OutputPath(args[0], "tree.svg")
			}
			if err := io.WriteArtifact(output, svg); err != nil {
				return err
			}
			logger.Debug("wrote tree", "bytes", len(svg))
			printSuccess("Rendered node tree of %s", args[0])
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG path (default <scene>.tree.svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show bounding boxes")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "print Graphviz DOT instead of rendering SVG")
	cmd.Flags().StringSliceVar(&fontDirs, "font-dir", nil, "additional font directory (repeatable)")

	return cmd
}
