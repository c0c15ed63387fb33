package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newNetworksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List configured networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCHAIN ID\tURL")
			for _, name := range a.cfg.NetworkNames() {
				network := a.cfg.Networks[name]
				fmt.Fprintf(w, "%s\t%d\t%s\n", name, network.ChainID, network.URL)
			}
			return w.Flush()
		},
	}
}
