package main

import (
	"fmt"

	"github.com/aretw0/policytree/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// newGraphCmd represents the graph command
func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Export the tree as a Mermaid diagram",
		Long:  `Outputs a Mermaid diagram (graph TD) whose node ids follow the breadth-first table slots.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			if root, err = maybePrune(cmd, root); err != nil {
				return err
			}

			showReward, _ := cmd.Flags().GetBool("reward")
			_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(root, &graph.Options{ShowReward: showReward}))
			return err
		},
	}
	cmd.Flags().Bool("prune", false, "Simplify the tree once before drawing it")
	cmd.Flags().Bool("reward", false, "Show node rewards in the labels")
	return cmd
}
