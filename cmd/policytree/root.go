package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/policytree"
	"github.com/aretw0/policytree/internal/logging"
	"github.com/aretw0/policytree/pkg/domain"
	"github.com/aretw0/policytree/pkg/schema"
	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "policytree",
		Short: "policytree simplifies and flattens policy decision trees",
		Long: `policytree reads a binary policy tree (branches split on a feature axis,
leaves recommend an action), removes redundant structure and emits the
breadth-first table used to ship the policy.`,
		SilenceUsage: true,
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("format", "json", "Output format: json or yaml")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newPruneCmd(),
		newFlattenCmd(),
		newGraphCmd(),
		newInspectCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level), nil
}

func newEngine(cmd *cobra.Command, opts ...policytree.Option) (*policytree.Engine, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	return policytree.New(append([]policytree.Option{policytree.WithLogger(logger)}, opts...)...), nil
}

func outputFormat(cmd *cobra.Command) (schema.Format, error) {
	raw, _ := cmd.Flags().GetString("format")
	return schema.ParseFormat(raw)
}

// readDocument loads a tree document from path, or stdin when path is "-".
func readDocument(cmd *cobra.Command, path string) (*schema.Document, error) {
	var (
		data   []byte
		err    error
		format = schema.FormatFromPath(path)
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		format = schema.FormatYAML
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := schema.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func readTree(cmd *cobra.Command, path string) (domain.Node, error) {
	doc, err := readDocument(cmd, path)
	if err != nil {
		return nil, err
	}
	root, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// maybePrune applies one simplification pass when --prune is set.
func maybePrune(cmd *cobra.Command, root domain.Node) (domain.Node, error) {
	prune, _ := cmd.Flags().GetBool("prune")
	if !prune {
		return root, nil
	}
	eng, err := newEngine(cmd)
	if err != nil {
		return nil, err
	}
	pruned, _ := eng.Prune(cmd.Context(), root)
	return pruned, nil
}

func writeValue(cmd *cobra.Command, format schema.Format, data []byte) error {
	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if format == schema.FormatJSON {
		_, err := fmt.Fprintln(out)
		return err
	}
	return nil
}
