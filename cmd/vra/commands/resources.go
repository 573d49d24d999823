package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewResourcesCommand creates the resources command group.
func NewResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"resource", "res"},
		Short:   "Manage provisioned resources",
		Long:    "List, inspect and destroy provisioned resources such as virtual machines",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List resources",
		Long:  "List all resources owned by the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resources, err := client.Resources().List(cmd.Context(), listOptions(cmd))
			if err != nil {
				return fmt.Errorf("failed to list resources: %w", err)
			}

			return renderResources(cmd, resources)
		},
	}
	addFilterFlag(list)

	get := &cobra.Command{
		Use:   "get RESOURCE_ID",
		Short: "Get resource details",
		Long:  "Display detailed information about a resource, including its network addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resource, err := client.Resources().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get resource: %w", err)
			}

			return render(cmd, resource, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", resource.ID)
				_ = table.Append("Name", resource.Name)
				_ = table.Append("Type", valueOr(resource.TypeName(), constants.NotAvailable))
				_ = table.Append("Status", valueOr(resource.Status, constants.NotAvailable))
				_ = table.Append("Tenant", valueOr(resource.TenantID(), constants.NotAvailable))
				_ = table.Append("Business Group", valueOr(resource.SubtenantID(), constants.NotAvailable))
				_ = table.Append("Catalog Item", valueOr(resource.CatalogID(), constants.NotAvailable))
				_ = table.Append("IP Addresses", valueOr(strings.Join(resource.IPAddresses(), ", "), constants.None))
			})
		},
	}

	destroy := &cobra.Command{
		Use:   "destroy RESOURCE_ID",
		Short: "Destroy a resource",
		Long:  "Submit the Destroy action of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			request, err := client.Resources().Destroy(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderRequest(cmd, request, "destroy "+args[0])
		},
	}

	cmd.AddCommand(list, get, destroy)

	return cmd
}

func renderResources(cmd *cobra.Command, resources []vra.Resource) error {
	return render(cmd, resources, func(table *tablewriter.Table) {
		table.Header("ID", "Name", "Type", "Status")

		for i := range resources {
			r := &resources[i]
			_ = table.Append(r.ID, r.Name, valueOr(r.TypeName(), constants.NotAvailable), valueOr(r.Status, constants.NotAvailable))
		}
	})
}
