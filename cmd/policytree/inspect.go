package main

import (
	"fmt"

	"github.com/aretw0/policytree/internal/presentation/tui"
	"github.com/aretw0/policytree/pkg/domain"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show an outline and summary of a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			if root, err = maybePrune(cmd, root); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.Outline(root))

			report, err := tui.NewRenderer()(tui.SummaryMarkdown("Summary", domain.Stats(root)))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, report)
			return err
		},
	}
	cmd.Flags().Bool("prune", false, "Simplify the tree once before inspecting it")
	return cmd
}
