package main

import (
	"fmt"
	"os"

	"github.com/rxtech-lab/contract-deployer/internal/compiler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile the project sources into artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			c := compiler.New(a.cfg.Solidity, root)
			sources, err := c.LoadSources(a.cfg.Paths.Sources)
			if err != nil {
				return err
			}

			a.log.Info("compiling",
				zap.Int("sources", len(sources)),
				zap.String("solc", a.cfg.Solidity.Version),
				zap.Bool("optimizer", a.cfg.Solidity.Settings.Optimizer.Enabled),
				zap.Int("runs", a.cfg.Solidity.Settings.Optimizer.Runs))

			result, err := c.Compile(sources)
			if err != nil {
				return err
			}
			for _, warning := range result.Warnings {
				a.log.Warn(warning)
			}

			if _, err := compiler.WriteArtifacts(a.cfg.Paths.Artifacts, result.Artifacts); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Compiled %d Solidity files, %d contracts\n", len(sources), len(result.Artifacts))
			return err
		},
	}
}
