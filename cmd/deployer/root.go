package main

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/contract-deployer/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "deployer",
		Short: "Compile, deploy and verify Solidity contracts",
		Long: `deployer compiles the contracts of a project, deploys them with
declarative modules or imperative scripts, keeps a record of every
deployment and verifies sources on Etherscan.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", Version, CommitHash, BuildTime),
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultFile, "configuration file")
	flags.StringVar(&a.network, "network", "bscTestnet", "target network")
	flags.StringVar(&a.dbPath, "db", defaultDBPath(), "sqlite deployment records (ignored when DATABASE_URL is set)")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&a.envFile, "env-file", ".env", "file with secrets such as ETHERSCAN_API_KEY")
	flags.DurationVar(&a.timeout, "timeout", 5*time.Minute, "maximum time to wait for deployments")

	root.AddCommand(
		newCompileCmd(a),
		newIgnitionCmd(a),
		newRunCmd(a),
		newVerifyCmd(a),
		newDeploymentsCmd(a),
		newNetworksCmd(a),
	)
	return root
}
