package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rxtech-lab/contract-deployer/internal/compiler"
	"github.com/rxtech-lab/contract-deployer/internal/utils"
	"github.com/rxtech-lab/contract-deployer/internal/verify"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "verify <address> <contract> [constructor args...]",
		Short: "Verify a deployed contract's source on Etherscan",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !utils.IsValidEthereumAddress(args[0]) {
				return fmt.Errorf("invalid contract address: %s", args[0])
			}
			profile, err := a.cfg.Network(a.network)
			if err != nil {
				return err
			}

			artifact, err := compiler.NewFileStore(a.cfg.Paths.Artifacts).Load(args[1])
			if err != nil {
				return err
			}
			parsedABI, err := artifact.ParsedABI()
			if err != nil {
				return err
			}
			constructorArgs := make([]any, 0, len(args)-2)
			for _, arg := range args[2:] {
				constructorArgs = append(constructorArgs, arg)
			}
			encodedArgs, err := utils.EncodeConstructorArgs(parsedABI, constructorArgs)
			if err != nil {
				return err
			}

			root, err := os.Getwd()
			if err != nil {
				return err
			}
			c := compiler.New(a.cfg.Solidity, root)
			sources, err := c.LoadSources(a.cfg.Paths.Sources)
			if err != nil {
				return err
			}
			sources, err = c.WithImports(sources)
			if err != nil {
				return err
			}
			input, err := compiler.StandardInput(a.cfg.Solidity, sources)
			if err != nil {
				return err
			}
			version, err := compiler.LongVersion(a.cfg.Solidity.Version)
			if err != nil {
				return err
			}

			client := verify.NewClient(a.cfg.Etherscan.APIKey)
			client.Log = a.log
			if baseURL != "" {
				client.BaseURL = baseURL
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			address := common.HexToAddress(args[0])
			err = client.Verify(ctx, verify.Request{
				ChainID:         profile.ChainID,
				Address:         address,
				ContractName:    artifact.SourceName + ":" + artifact.ContractName,
				CompilerVersion: version,
				StandardInput:   input,
				ConstructorArgs: encodedArgs,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Verified %s at %s on %s\n", artifact.ContractName, address.Hex(), profile.Name)
			return err
		},
	}
	cmd.Flags().StringVar(&baseURL, "api-url", "", "Etherscan compatible API endpoint")
	return cmd
}
