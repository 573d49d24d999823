package commands

import (
	"fmt"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewRequestsCommand creates the requests command group.
func NewRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"request", "req"},
		Short:   "Track catalog requests",
		Long:    "List and inspect catalog service requests and the resources they created",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List requests",
		Long:  "List all catalog service requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			requests, err := client.Requests().List(cmd.Context(), listOptions(cmd))
			if err != nil {
				return fmt.Errorf("failed to list requests: %w", err)
			}

			return renderRequests(cmd, requests)
		},
	}
	addFilterFlag(list)

	get := &cobra.Command{
		Use:   "get REQUEST_ID",
		Short: "Get request details",
		Long:  "Display the state and completion details of a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			request, err := client.Requests().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get request: %w", err)
			}

			return render(cmd, request, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", request.ID)
				_ = table.Append("State", valueOr(request.State(), constants.NotAvailable))
				_ = table.Append("Completion", valueOr(request.CompletionState(), constants.NotAvailable))
				_ = table.Append("Details", valueOr(request.CompletionDetails(), constants.NotAvailable))
				_ = table.Append("Requested By", valueOr(request.RequestedBy, constants.NotAvailable))
			})
		},
	}

	resources := &cobra.Command{
		Use:   "resources REQUEST_ID",
		Short: "List request resources",
		Long:  "List the resources provisioned by a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			found, err := client.Requests().Resources(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderResources(cmd, found)
		},
	}

	cmd.AddCommand(list, get, resources)

	return cmd
}

func renderRequests(cmd *cobra.Command, requests []vra.Request) error {
	return render(cmd, requests, func(table *tablewriter.Table) {
		table.Header("ID", "State", "Completion", "Details")

		for i := range requests {
			r := &requests[i]
			_ = table.Append(r.ID, valueOr(r.State(), constants.NotAvailable),
				valueOr(r.CompletionState(), constants.NotAvailable), valueOr(r.CompletionDetails(), constants.NotAvailable))
		}
	})
}
