package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/rxtech-lab/contract-deployer/internal/models"
	"github.com/rxtech-lab/contract-deployer/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newDeploymentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "Inspect deployment records",
	}

	var all bool
	var runID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded deployments of --network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			records := services.NewDeploymentService(db.GetDB())

			var deployments []models.Deployment
			switch {
			case runID != "":
				deployments, err = records.ListDeploymentsByRun(runID)
			case all:
				deployments, err = records.ListDeployments()
			default:
				deployments, err = records.ListDeploymentsByNetwork(a.network)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNETWORK\tCONTRACT\tKIND\tADDRESS\tSTATUS\tFUTURE")
			for _, d := range deployments {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					d.ID, d.Network, d.ContractName, d.Kind, d.ContractAddress, d.Status, d.FutureID)
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVar(&all, "all", false, "list deployments of every network")
	list.Flags().StringVar(&runID, "run", "", "only deployments of one run")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one deployment record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeploymentID(args[0])
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			d, err := services.NewDeploymentService(db.GetDB()).GetDeploymentByID(id)
			if err != nil {
				return deploymentLookupError(id, err)
			}
			recordArgs, err := json.Marshal(d.Args)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%d\n", d.ID)
			fmt.Fprintf(w, "Run:\t%s\n", d.RunID)
			fmt.Fprintf(w, "Network:\t%s (%d)\n", d.Network, d.ChainID)
			fmt.Fprintf(w, "Contract:\t%s\n", d.ContractName)
			fmt.Fprintf(w, "Kind:\t%s\n", d.Kind)
			fmt.Fprintf(w, "Address:\t%s\n", d.ContractAddress)
			if d.ImplementationAddress != "" {
				fmt.Fprintf(w, "Implementation:\t%s\n", d.ImplementationAddress)
			}
			if d.FutureID != "" {
				fmt.Fprintf(w, "Future:\t%s\n", d.FutureID)
			}
			fmt.Fprintf(w, "Transaction:\t%s\n", d.TransactionHash)
			fmt.Fprintf(w, "Deployer:\t%s\n", d.DeployerAddress)
			fmt.Fprintf(w, "Args:\t%s\n", recordArgs)
			fmt.Fprintf(w, "Status:\t%s\n", d.Status)
			return w.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a deployment record so ignition deploys its future again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeploymentID(args[0])
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			records := services.NewDeploymentService(db.GetDB())
			if _, err := records.GetDeploymentByID(id); err != nil {
				return deploymentLookupError(id, err)
			}
			if err := records.DeleteDeployment(id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Removed deployment %d\n", id)
			return err
		},
	}

	cmd.AddCommand(list, show, remove)
	return cmd
}

func parseDeploymentID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid deployment id %q", value)
	}
	return uint(id), nil
}

func deploymentLookupError(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("deployment %d not found", id)
	}
	return err
}
