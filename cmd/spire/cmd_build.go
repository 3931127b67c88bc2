package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/spire/pkg/build"
	"github.com/chazu/spire/pkg/export"
	"github.com/chazu/spire/pkg/kernel"
	"github.com/chazu/spire/pkg/kernel/manifold"
	"github.com/chazu/spire/pkg/kernel/sdfx"
	"github.com/chazu/spire/pkg/spec"
)

// newKernel selects the geometry backend. The manifold backend needs
// the "manifold" build tag; without it New reports how to enable it.
func newKernel(name string, cells int) (kernel.Kernel, error) {
	switch name {
	case "sdfx":
		return sdfx.NewWithCells(cells), nil
	case "manifold":
		return manifold.New()
	default:
		return nil, fmt.Errorf("unknown kernel %q (want sdfx or manifold)", name)
	}
}

func newBuildCmd(a *app) *cobra.Command {
	var (
		outDir     string
		cells      int
		kernelName string
	)

	cmd := &cobra.Command{
		Use:   "build [component...]",
		Short: "Build components and export STL + 3MF meshes",
		Long:  "build evaluates component recipes into solids and writes one STL\nper component plus a combined multi-color 3MF archive. With no\narguments every component in the spec is built.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := spec.Load(a.specPath)
			if err != nil {
				return err
			}

			k, err := newKernel(kernelName, cells)
			if err != nil {
				return err
			}
			session := build.NewSession(k, sp, a.log)
			report := export.New(session, outDir, a.log).RunOnly(args)

			for _, st := range report.Components {
				if st.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAILED %s: %v\n", st.ID, st.Err)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d triangles)\n", st.ID, st.File, st.Triangles)
				}
			}
			if report.Archive != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "archive -> %s\n", report.Archive)
			}
			if report.ArchiveErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "FAILED archive: %v\n", report.ArchiveErr)
			}

			if !report.OK() {
				return fmt.Errorf("%d of %d components failed", len(report.Failed()), len(report.Components))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "out", "output directory")
	cmd.Flags().IntVar(&cells, "cells", 0, "marching cubes resolution (sdfx only), 0 for the default")
	cmd.Flags().StringVar(&kernelName, "kernel", "sdfx", "geometry kernel: sdfx or manifold")
	return cmd
}
