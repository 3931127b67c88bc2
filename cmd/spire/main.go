// Command spire generates 3D-printable meshes from a declarative JSON
// model spec: per-component STL files plus a combined multi-color 3MF
// archive.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	specPath string
	verbose  bool
	log      *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "spire",
		Short:        "Parametric spire case generator",
		Long:         "spire builds printable solids from a declarative JSON spec\nand exports per-component STL files plus a combined 3MF archive.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if a.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
			}
			log, err := cfg.Build()
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&a.specPath, "spec", "s", "spec.json", "model spec file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newBuildCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newBomCmd(a))
	return cmd
}
