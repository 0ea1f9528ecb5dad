package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// NewRoutesCommand creates the routes command group.
func NewRoutesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routes",
		Aliases: []string{"route"},
		Short:   "Manage routes",
	}

	cmd.AddCommand(newRoutesListCommand())
	cmd.AddCommand(newRoutesCreateCommand())
	cmd.AddCommand(newRoutesDeleteCommand())
	cmd.AddCommand(newRoutesMapCommand())
	cmd.AddCommand(newRoutesUnmapCommand())

	return cmd
}

func newRoutesListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			routes, err := client.Routes().List(cmd.Context(), cf.NewQueryParams().WithPerPage(perPage))
			if err != nil {
				return fmt.Errorf("listing routes: %w", err)
			}

			return renderWith(routes.Resources, func() error {
				return renderRoutesTable(routes.Resources)
			})
		},
	}

	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newRoutesCreateCommand() *cobra.Command {
	var (
		orgName   string
		spaceName string
	)

	cmd := &cobra.Command{
		Use:   "create URI",
		Short: "Create a route from a URI such as host.example.com/path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if spaceName == "" {
				return fmt.Errorf("the --space flag is required")
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			parts, err := client.Routes().ParseRoute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			space, err := resolveSpace(cmd.Context(), client, spaceName, orgName)
			if err != nil {
				return err
			}

			route, err := client.Routes().Create(cmd.Context(), &cf.RouteCreateRequest{
				Host: parts.Host,
				Path: parts.Path,
				Relationships: cf.RouteRelationships{
					Space:  cf.Relationship{Data: &cf.RelationshipData{GUID: space.GUID}},
					Domain: cf.Relationship{Data: &cf.RelationshipData{GUID: parts.Domain.GUID}},
				},
			})
			if err != nil {
				return fmt.Errorf("creating route: %w", err)
			}

			fmt.Printf("Route %s created (%s)\n", route.URL, route.GUID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&orgName, "org", "o", "", "organization holding the space")
	cmd.Flags().StringVarP(&spaceName, "space", "s", "", "space to own the route (required)")

	return cmd
}

func newRoutesDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete URI",
		Short: "Delete the route matching a URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			route, err := findRouteByURI(cmd, client, args[0])
			if err != nil {
				return err
			}

			if err := client.Routes().Delete(cmd.Context(), route.GUID); err != nil {
				return fmt.Errorf("deleting route: %w", err)
			}

			fmt.Printf("Route %s deleted\n", args[0])

			return nil
		},
	}

	return cmd
}

func newRoutesMapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map URI APP_GUID",
		Short: "Map a route to an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			route, err := findRouteByURI(cmd, client, args[0])
			if err != nil {
				return err
			}

			if err := client.Routes().Map(cmd.Context(), route.GUID, args[1]); err != nil {
				return fmt.Errorf("mapping route: %w", err)
			}

			fmt.Printf("Route %s mapped to %s\n", args[0], args[1])

			return nil
		},
	}

	return cmd
}

func newRoutesUnmapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmap URI APP_GUID",
		Short: "Unmap a route from an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			route, err := findRouteByURI(cmd, client, args[0])
			if err != nil {
				return err
			}

			for _, destination := range route.Destinations {
				if destination.App.GUID != args[1] {
					continue
				}

				if err := client.Routes().Unmap(cmd.Context(), route.GUID, destination.GUID); err != nil {
					return fmt.Errorf("unmapping route: %w", err)
				}

				fmt.Printf("Route %s unmapped from %s\n", args[0], args[1])

				return nil
			}

			return fmt.Errorf("route %s has no destination for application %s", args[0], args[1])
		},
	}

	return cmd
}

// findRouteByURI parses a route URI against the known domains and looks up
// the matching route.
func findRouteByURI(cmd *cobra.Command, client cf.Client, uri string) (*cf.Route, error) {
	parts, err := client.Routes().ParseRoute(cmd.Context(), uri)
	if err != nil {
		return nil, err
	}

	return client.Routes().Find(cmd.Context(), parts.Domain.GUID, parts.Host, parts.Path)
}

func renderRoutesTable(routes []cf.Route) error {
	if len(routes) == 0 {
		fmt.Println("No routes found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("URL", "GUID", "Protocol", "Destinations")

	for _, route := range routes {
		_ = table.Append(route.URL, route.GUID, route.Protocol, fmt.Sprintf("%d", len(route.Destinations)))
	}

	return table.Render()
}
