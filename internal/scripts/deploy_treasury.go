package scripts

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/contract-deployer/internal/upgrades"
	"go.uber.org/zap"
)

// TreasuryInitArgs are passed to Treasury.initialize through the proxy.
// The third and fifth arguments are the same address.
var TreasuryInitArgs = []any{
	"0x3b22aF7D779f9F717D00380f3dCa2100bAf85EA5",
	"0x52f64B42Ce258dC85bF8A7426f65dCA6978544C6",
	"0xC33d30353A66708cD2020ef1633797BD42724741",
	1,
	"0xC33d30353A66708cD2020ef1633797BD42724741",
}

// DeployTreasury deploys Treasury behind an upgradeable proxy and prints the
// proxy address once it is deployed.
func DeployTreasury(ctx context.Context, env *Env) error {
	treasury, err := env.Deployer.GetContractFactory("Treasury")
	if err != nil {
		return err
	}

	proxy, err := upgrades.DeployProxy(ctx, env.Deployer, treasury, TreasuryInitArgs, upgrades.Options{})
	if err != nil {
		return err
	}
	if _, err := proxy.WaitForDeployment(ctx); err != nil {
		return err
	}

	if env.Log != nil {
		env.Log.Debug("treasury implementation", zap.String("address", proxy.Implementation().Hex()))
	}
	_, err = fmt.Fprintln(env.Out, "Box deployed to:", proxy.Address().Hex())
	return err
}
