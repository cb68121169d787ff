package main

import (
	"github.com/aretw0/policytree/pkg/schema"
	"github.com/spf13/cobra"
)

func newFlattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten FILE",
		Short: "Print the breadth-first table of a tree",
		Long: `Flattens the tree into its 1-indexed breadth-first table without
simplifying it first, unless --prune is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			root, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			if root, err = maybePrune(cmd, root); err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			data, err := schema.EncodeTable(eng.Flatten(cmd.Context(), root), format)
			if err != nil {
				return err
			}
			return writeValue(cmd, format, data)
		},
	}
	cmd.Flags().Bool("prune", false, "Simplify the tree once before flattening")
	return cmd
}
