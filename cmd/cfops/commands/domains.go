package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// NewDomainsCommand creates the domains command group.
func NewDomainsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "domains",
		Aliases: []string{"domain"},
		Short:   "Manage route domains",
	}

	cmd.AddCommand(newDomainsListCommand())
	cmd.AddCommand(newDomainsGetCommand())

	return cmd
}

func newDomainsListCommand() *cobra.Command {
	var (
		orgName string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			params := cf.NewQueryParams().WithPerPage(perPage)

			var domains *cf.ListResponse[cf.Domain]

			if orgName != "" {
				org, err := client.Organizations().FindByName(cmd.Context(), orgName)
				if err != nil {
					return err
				}

				domains, err = client.Domains().ListForOrganization(cmd.Context(), org.GUID, params)
				if err != nil {
					return fmt.Errorf("listing organization domains: %w", err)
				}
			} else {
				domains, err = client.Domains().List(cmd.Context(), params)
				if err != nil {
					return fmt.Errorf("listing domains: %w", err)
				}
			}

			return renderWith(domains.Resources, func() error {
				return renderDomainsTable(domains.Resources)
			})
		},
	}

	cmd.Flags().StringVarP(&orgName, "org", "o", "", "list domains visible to one organization")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newDomainsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Show one domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			domain, err := client.Domains().FindByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderWith(domain, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Name", domain.Name)
				_ = table.Append("GUID", domain.GUID)
				_ = table.Append("Internal", fmt.Sprintf("%t", domain.Internal))
				_ = table.Append("Created", domain.CreatedAt.Format(timeFormat))

				return table.Render()
			})
		},
	}

	return cmd
}

func renderDomainsTable(domains []cf.Domain) error {
	if len(domains) == 0 {
		fmt.Println("No domains found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "GUID", "Internal", "Created")

	for _, domain := range domains {
		_ = table.Append(domain.Name, domain.GUID, fmt.Sprintf("%t", domain.Internal), domain.CreatedAt.Format(timeFormat))
	}

	return table.Render()
}
