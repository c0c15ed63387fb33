package main

import (
	"github.com/rxtech-lab/contract-deployer/internal/scripts"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Run a deployment script",
		Long:  "Run a deployment script. Available scripts: deployTreasury.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := scripts.Lookup(args[0])
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

			return script(ctx, &scripts.Env{
				Deployer: s.deployer,
				Out:      a.out,
				Log:      s.deployer.Logger(),
			})
		},
	}
}
