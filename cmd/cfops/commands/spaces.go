package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// NewSpacesCommand creates the spaces command group.
func NewSpacesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "spaces",
		Aliases: []string{"space"},
		Short:   "Manage spaces",
	}

	cmd.AddCommand(newSpacesListCommand())
	cmd.AddCommand(newSpacesGetCommand())

	return cmd
}

func newSpacesListCommand() *cobra.Command {
	var (
		orgName string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			params := cf.NewQueryParams().WithPerPage(perPage)

			if orgName != "" {
				org, err := client.Organizations().FindByName(cmd.Context(), orgName)
				if err != nil {
					return err
				}

				params = params.WithFilter("organization_guids", org.GUID)
			}

			spaces, err := client.Spaces().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("listing spaces: %w", err)
			}

			return renderWith(spaces.Resources, func() error {
				return renderSpacesTable(spaces.Resources)
			})
		},
	}

	cmd.Flags().StringVarP(&orgName, "org", "o", "", "restrict to one organization")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newSpacesGetCommand() *cobra.Command {
	var orgName string

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Show one space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgName == "" {
				return fmt.Errorf("the --org flag is required")
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			space, err := client.Spaces().FindByNameAndOrganization(cmd.Context(), args[0], orgName)
			if err != nil {
				return err
			}

			return renderWith(space, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Name", space.Name)
				_ = table.Append("GUID", space.GUID)
				_ = table.Append("Created", space.CreatedAt.Format(timeFormat))

				return table.Render()
			})
		},
	}

	cmd.Flags().StringVarP(&orgName, "org", "o", "", "organization the space belongs to (required)")

	return cmd
}

func renderSpacesTable(spaces []cf.Space) error {
	if len(spaces) == 0 {
		fmt.Println("No spaces found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "GUID", "Created")

	for _, space := range spaces {
		_ = table.Append(space.Name, space.GUID, space.CreatedAt.Format(timeFormat))
	}

	return table.Render()
}
