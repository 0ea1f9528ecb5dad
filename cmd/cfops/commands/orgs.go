package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// NewOrgsCommand creates the organizations command group.
func NewOrgsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations", "org"},
		Short:   "Manage organizations",
	}

	cmd.AddCommand(newOrgsListCommand())
	cmd.AddCommand(newOrgsGetCommand())

	return cmd
}

func newOrgsListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			params := cf.NewQueryParams().WithPerPage(perPage)

			orgs, err := client.Organizations().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("listing organizations: %w", err)
			}

			return renderWith(orgs.Resources, func() error {
				return renderOrgsTable(orgs.Resources)
			})
		},
	}

	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newOrgsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Show one organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			org, err := client.Organizations().FindByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderWith(org, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Name", org.Name)
				_ = table.Append("GUID", org.GUID)
				_ = table.Append("Suspended", fmt.Sprintf("%t", org.Suspended))
				_ = table.Append("Created", org.CreatedAt.Format(timeFormat))

				return table.Render()
			})
		},
	}
}

func renderOrgsTable(orgs []cf.Organization) error {
	if len(orgs) == 0 {
		fmt.Println("No organizations found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "GUID", "Suspended", "Created")

	for _, org := range orgs {
		_ = table.Append(org.Name, org.GUID,
			fmt.Sprintf("%t", org.Suspended), org.CreatedAt.Format(timeFormat))
	}

	return table.Render()
}
