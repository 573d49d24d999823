package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDeploymentsCommand creates the deployments command group.
func NewDeploymentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"deployment", "dep"},
		Short:   "Manage deployments",
		Long:    "List and inspect deployments and run their day-2 actions",
	}

	cmd.AddCommand(newDeploymentsListCommand())
	cmd.AddCommand(newDeploymentsGetCommand())
	cmd.AddCommand(newDeploymentsActionsCommand())
	cmd.AddCommand(newDeploymentsResourcesCommand())
	cmd.AddCommand(newDeploymentsRequestsCommand())
	cmd.AddCommand(newDeploymentActionCommand("power-on", "Power on a deployment", vra.DeploymentsClient.PowerOn))
	cmd.AddCommand(newDeploymentActionCommand("power-off", "Power off a deployment", vra.DeploymentsClient.PowerOff))
	cmd.AddCommand(newDeploymentActionCommand("destroy", "Destroy a deployment", vra.DeploymentsClient.Destroy))

	return cmd
}

func newDeploymentsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployments",
		Long:  "List all deployments visible to the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			deployments, err := client.Deployments().List(cmd.Context(), listOptions(cmd))
			if err != nil {
				return fmt.Errorf("failed to list deployments: %w", err)
			}

			return render(cmd, deployments, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Status", "Project")

				for i := range deployments {
					d := &deployments[i]
					_ = table.Append(d.ID, d.Name, valueOr(d.Status, constants.NotAvailable), valueOr(d.ProjectID, constants.NotAvailable))
				}
			})
		},
	}

	addFilterFlag(cmd)

	return cmd
}

func newDeploymentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get DEPLOYMENT_ID",
		Short: "Get deployment details",
		Long:  "Display detailed information about a specific deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			deployment, err := client.Deployments().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get deployment: %w", err)
			}

			return renderDeployment(cmd, deployment)
		},
	}
}

func renderDeployment(cmd *cobra.Command, deployment *vra.Deployment) error {
	return render(cmd, deployment, func(table *tablewriter.Table) {
		table.Header("Property", "Value")
		_ = table.Append("ID", deployment.ID)
		_ = table.Append("Name", deployment.Name)
		_ = table.Append("Status", valueOr(deployment.Status, constants.NotAvailable))
		_ = table.Append("Completed", strconv.FormatBool(deployment.Completed()))
		_ = table.Append("Project", valueOr(deployment.ProjectID, constants.NotAvailable))
		_ = table.Append("Blueprint", valueOr(deployment.BlueprintID, constants.NotAvailable))
		_ = table.Append("Owner", valueOr(deployment.OwnedBy, constants.NotAvailable))
	})
}

func newDeploymentsActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions DEPLOYMENT_ID",
		Short: "List deployment actions",
		Long:  "List the day-2 actions available on a deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			actions, err := client.Deployments().Actions(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list deployment actions: %w", err)
			}

			return renderActions(cmd, actions)
		},
	}
}

func renderActions(cmd *cobra.Command, actions []vra.Action) error {
	return render(cmd, actions, func(table *tablewriter.Table) {
		table.Header("ID", "Name", "Valid")

		for _, a := range actions {
			_ = table.Append(a.ID, valueOr(a.DisplayName, a.Name), strconv.FormatBool(a.Valid))
		}
	})
}

func newDeploymentsResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources DEPLOYMENT_ID",
		Short: "List deployment resources",
		Long:  "List the resources that make up a deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resources, err := client.Deployments().Resources(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list deployment resources: %w", err)
			}

			return renderResources(cmd, resources)
		},
	}
}

func newDeploymentsRequestsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "requests DEPLOYMENT_ID",
		Short: "List deployment requests",
		Long:  "List the requests submitted against a deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			requests, err := client.Deployments().Requests(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list deployment requests: %w", err)
			}

			return renderRequests(cmd, requests)
		},
	}
}

type deploymentAction func(vra.DeploymentsClient, context.Context, string, string) (*vra.Request, error)

func newDeploymentActionCommand(use, short string, action deploymentAction) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   use + " DEPLOYMENT_ID",
		Short: short,
		Long:  short + " by submitting its day-2 action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			request, err := action(client.Deployments(), cmd.Context(), args[0], reason)
			if err != nil {
				return err
			}

			return renderRequest(cmd, request, use+" "+args[0])
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason for the action")

	return cmd
}
