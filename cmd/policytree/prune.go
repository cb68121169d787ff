package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/policytree/pkg/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune FILE",
		Short: "Simplify a tree once and print the tree, its table and a report",
		Long: `Runs a single simplification pass: sibling leaves with the same action are
merged and a child branch repeating its parent's cut is replaced by the side
the parent already selects. Use --table to print only the flattened table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			result, err := eng.Process(cmd.Context(), doc)
			if err != nil {
				return err
			}

			if tableOnly, _ := cmd.Flags().GetBool("table"); tableOnly {
				data, err := schema.EncodeTable(result.Table, format)
				if err != nil {
					return err
				}
				return writeValue(cmd, format, data)
			}

			var data []byte
			switch format {
			case schema.FormatJSON:
				data, err = json.MarshalIndent(result, "", "  ")
			case schema.FormatYAML:
				data, err = yaml.Marshal(result)
			default:
				err = fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			return writeValue(cmd, format, data)
		},
	}
	cmd.Flags().Bool("table", false, "Print only the flattened table")
	return cmd
}
