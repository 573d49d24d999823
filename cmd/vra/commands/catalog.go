package commands

import (
	"fmt"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"cat"},
		Short:   "Browse and request catalog items",
		Long:    "List catalog items, submit catalog and deployment requests, and manage catalog sources and types",
	}

	cmd.AddCommand(newCatalogItemsCommand())
	cmd.AddCommand(newCatalogItemCommand())
	cmd.AddCommand(newCatalogRequestCommand())
	cmd.AddCommand(newCatalogDeployCommand())
	cmd.AddCommand(newCatalogSourcesCommand())
	cmd.AddCommand(newCatalogTypesCommand())

	return cmd
}

func newCatalogItemsCommand() *cobra.Command {
	var entitled bool

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List catalog items",
		Long:  "List all catalog items, or only those the user is entitled to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list := client.Catalog().ListItems
			if entitled {
				list = client.Catalog().ListEntitledItems
			}

			items, err := list(cmd.Context(), listOptions(cmd))
			if err != nil {
				return fmt.Errorf("failed to list catalog items: %w", err)
			}

			return render(cmd, items, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Status", "Tenant", "Business Group")

				for i := range items {
					item := &items[i]
					_ = table.Append(item.ID, item.Name, valueOr(item.Status, constants.NotAvailable),
						valueOr(item.TenantName(), constants.NotAvailable), valueOr(item.SubtenantName(), constants.NotAvailable))
				}
			})
		},
	}

	cmd.Flags().BoolVar(&entitled, "entitled", false, "only list entitled items")
	addFilterFlag(cmd)

	return cmd
}

func newCatalogItemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "item CATALOG_ID",
		Short: "Get catalog item details",
		Long:  "Display detailed information about a specific catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			item, err := client.Catalog().GetItem(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get catalog item: %w", err)
			}

			return render(cmd, item, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", item.ID)
				_ = table.Append("Name", item.Name)
				_ = table.Append("Description", valueOr(item.Description, constants.NotAvailable))
				_ = table.Append("Status", valueOr(item.Status, constants.NotAvailable))
				_ = table.Append("Tenant", valueOr(item.TenantID(), constants.NotAvailable))
				_ = table.Append("Business Group ID", valueOr(item.SubtenantID(), constants.NotAvailable))
				_ = table.Append("Business Group", valueOr(item.SubtenantName(), constants.NotAvailable))
				_ = table.Append("Blueprint ID", valueOr(item.BlueprintID(), constants.NotAvailable))
			})
		},
	}
}

func newCatalogRequestCommand() *cobra.Command {
	var (
		cpus         int
		memory       int
		requestedFor string
		subtenantID  string
		leaseDays    int
		notes        string
	)

	cmd := &cobra.Command{
		Use:   "request CATALOG_ID",
		Short: "Submit a catalog request",
		Long:  "Request a machine from a catalog item through the catalog service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := requestParameters(cmd)
			if err != nil {
				return err
			}

			request := &vra.CatalogRequest{
				CatalogID:    args[0],
				RequestedFor: requestedFor,
				SubtenantID:  subtenantID,
				LeaseDays:    leaseDays,
				Notes:        notes,
				Parameters:   params,
			}

			if cmd.Flags().Changed("cpus") {
				request.CPUs = &cpus
			}

			if cmd.Flags().Changed("memory") {
				request.Memory = &memory
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			submitted, err := client.Catalog().SubmitCatalogRequest(cmd.Context(), request)
			if err != nil {
				return err
			}

			return renderRequest(cmd, submitted, "catalog request for "+args[0])
		},
	}

	cmd.Flags().IntVar(&cpus, "cpus", 0, "number of CPUs")
	cmd.Flags().IntVar(&memory, "memory", 0, "memory in MB")
	cmd.Flags().StringVar(&requestedFor, "requested-for", "", "user the machine is requested for")
	cmd.Flags().StringVar(&subtenantID, "subtenant", "", "business group ID (defaults to the item's)")
	cmd.Flags().IntVar(&leaseDays, "lease-days", 0, "lease in days")
	cmd.Flags().StringVar(&notes, "notes", "", "request notes")
	addParameterFlags(cmd)

	return cmd
}

func newCatalogDeployCommand() *cobra.Command {
	var request vra.DeploymentRequest

	cmd := &cobra.Command{
		Use:   "deploy CATALOG_ID",
		Short: "Request a deployment",
		Long:  "Deploy a catalog item into a project and display the created deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := requestParameters(cmd)
			if err != nil {
				return err
			}

			request.Parameters = params

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			deployment, err := client.Catalog().SubmitDeploymentRequest(cmd.Context(), args[0], &request)
			if err != nil {
				return err
			}

			return renderDeployment(cmd, deployment)
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "deployment name")
	cmd.Flags().StringVar(&request.ProjectID, "project", "", "project ID")
	cmd.Flags().StringVar(&request.Version, "version", "", "catalog item version")
	cmd.Flags().StringVar(&request.ImageMapping, "image", "", "image mapping")
	cmd.Flags().StringVar(&request.FlavorMapping, "flavor", "", "flavor mapping")
	cmd.Flags().IntVar(&request.Count, "count", 1, "number of machines")
	cmd.Flags().StringVar(&request.Reason, "reason", "", "reason for the request")
	addParameterFlags(cmd)

	return cmd
}

func newCatalogSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sources",
		Aliases: []string{"source"},
		Short:   "Manage catalog sources",
		Long:    "List, inspect, create and entitle catalog content sources",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog sources",
		Long:  "List all catalog content sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			sources, err := client.CatalogSources().List(cmd.Context(), listOptions(cmd))
			if err != nil {
				return fmt.Errorf("failed to list catalog sources: %w", err)
			}

			return render(cmd, sources, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Type", "Project")

				for i := range sources {
					source := &sources[i]
					_ = table.Append(source.ID, source.Name, source.TypeID, valueOr(source.ProjectID(), constants.NotAvailable))
				}
			})
		},
	}
	addFilterFlag(list)

	get := &cobra.Command{
		Use:   "get SOURCE_ID",
		Short: "Get catalog source details",
		Long:  "Display detailed information about a specific catalog source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			source, err := client.CatalogSources().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get catalog source: %w", err)
			}

			return renderSource(cmd, source)
		},
	}

	var create vra.CatalogSourceCreateRequest

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a catalog source",
		Long:  "Create a catalog content source importing from a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			source, err := client.CatalogSources().Create(cmd.Context(), &create)
			if err != nil {
				return err
			}

			return renderSource(cmd, source)
		},
	}
	createCmd.Flags().StringVar(&create.Name, "name", "", "source name")
	createCmd.Flags().StringVar(&create.TypeID, "type", "", "catalog type ID")
	createCmd.Flags().StringVar(&create.ProjectID, "project", "", "source project ID")

	entitle := &cobra.Command{
		Use:   "entitle SOURCE_ID",
		Short: "Entitle a catalog source",
		Long:  "Entitle the source's project to the content of a catalog source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			entitlement, err := client.CatalogSources().Entitle(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return render(cmd, entitlement, func(table *tablewriter.Table) {
				table.Header("Entitlement", "Project", "Source")
				_ = table.Append(valueOr(entitlement.ID, constants.NotAvailable), entitlement.ProjectID, entitlement.Definition.ID)
			})
		},
	}

	cmd.AddCommand(list, get, createCmd, entitle)

	return cmd
}

func renderSource(cmd *cobra.Command, source *vra.CatalogSource) error {
	return render(cmd, source, func(table *tablewriter.Table) {
		table.Header("Property", "Value")
		_ = table.Append("ID", source.ID)
		_ = table.Append("Name", source.Name)
		_ = table.Append("Type", source.TypeID)
		_ = table.Append("Project", valueOr(source.ProjectID(), constants.NotAvailable))
		_ = table.Append("Items Found", fmt.Sprintf("%d", source.ItemsFound))
	})
}

func newCatalogTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"type"},
		Short:   "Browse catalog types",
		Long:    "List and inspect the kinds of catalog sources",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog types",
		Long:  "List all catalog source types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			types, err := client.CatalogTypes().List(cmd.Context(), listOptions(cmd))
			if err != nil {
				return fmt.Errorf("failed to list catalog types: %w", err)
			}

			return render(cmd, types, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Base URI")

				for _, t := range types {
					_ = table.Append(t.ID, t.Name, valueOr(t.BaseURI, constants.NotAvailable))
				}
			})
		},
	}
	addFilterFlag(list)

	get := &cobra.Command{
		Use:   "get TYPE_ID",
		Short: "Get catalog type details",
		Long:  "Display detailed information about a specific catalog type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			catalogType, err := client.CatalogTypes().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get catalog type: %w", err)
			}

			return render(cmd, catalogType, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", catalogType.ID)
				_ = table.Append("Name", catalogType.Name)
				_ = table.Append("Base URI", valueOr(catalogType.BaseURI, constants.NotAvailable))
				_ = table.Append("Icon ID", valueOr(catalogType.IconID, constants.NotAvailable))
			})
		},
	}

	cmd.AddCommand(list, get)

	return cmd
}
