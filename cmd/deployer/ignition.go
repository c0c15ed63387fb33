package main

import (
	"fmt"

	"github.com/rxtech-lab/contract-deployer/internal/ignition"
	"github.com/spf13/cobra"
)

func newIgnitionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ignition",
		Short: "Deploy declarative modules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "deploy <module>",
		Short: "Deploy a module, reusing futures already deployed on the network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := ignition.Lookup(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			s, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := ignition.NewExecutor(s.deployer).Deploy(ctx, module)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Deployed Addresses\n\n")
			for _, futureID := range result.Futures {
				fmt.Fprintf(a.out, "%s - %s\n", futureID, result.Addresses[futureID].Hex())
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "modules",
		Short: "List available modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range ignition.ModuleIDs() {
				fmt.Fprintln(a.out, id)
			}
			return nil
		},
	})
	return cmd
}
