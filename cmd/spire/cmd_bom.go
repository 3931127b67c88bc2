package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/spire/pkg/bom"
	"github.com/chazu/spire/pkg/spec"
)

func newBomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bom",
		Short: "Print the hardware bill of materials",
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := spec.Load(a.specPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), bom.Render(sp))
			return nil
		},
	}
}
