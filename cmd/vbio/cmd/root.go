package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by all subcommands.
type app struct {
	verbose bool
	log     *zap.Logger
}

// NewRootCmd builds the vbio command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "vbio",
		Short: "Inspect and produce VBE-encoded data",
		Long: `vbio encodes and decodes values in the variable-byte (VBE) format and
packs files into checksummed, optionally compressed frames.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.log = l

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log pipe and frame activity to stderr")

	rootCmd.AddCommand(newEncodeCmd(), newDecodeCmd(), newFrameCmd(a))

	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
