package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/spire/pkg/spec"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the model spec without building geometry",
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := spec.Load(a.specPath)
			if err != nil {
				return err
			}
			for _, w := range sp.Lint() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d params, %d components, %d colors\n",
				sp.Name, len(sp.Params), len(sp.Components), len(sp.Colors))
			return nil
		},
	}
}
