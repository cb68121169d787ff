package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/policytree"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of policytree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "policytree version %s\n", strings.TrimSpace(policytree.Version))
		},
	}
}
