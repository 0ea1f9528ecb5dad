package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// NewAppsCommand creates the apps command group.
func NewAppsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app"},
		Short:   "Manage applications",
	}

	cmd.AddCommand(newAppsListCommand())
	cmd.AddCommand(newAppsGetCommand())
	cmd.AddCommand(newAppsStartCommand())
	cmd.AddCommand(newAppsStopCommand())
	cmd.AddCommand(newAppsEnvCommand())
	cmd.AddCommand(newAppsDeleteCommand())

	return cmd
}

func newAppsListCommand() *cobra.Command {
	var (
		orgName   string
		spaceName string
		perPage   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			params := cf.NewQueryParams().WithPerPage(perPage)

			if spaceName != "" {
				space, err := resolveSpace(cmd.Context(), client, spaceName, orgName)
				if err != nil {
					return err
				}

				params = params.WithFilter("space_guids", space.GUID)
			}

			apps, err := client.Applications().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("listing applications: %w", err)
			}

			return renderWith(apps.Resources, func() error {
				return renderAppsTable(apps.Resources)
			})
		},
	}

	cmd.Flags().StringVarP(&orgName, "org", "o", "", "organization holding the space")
	cmd.Flags().StringVarP(&spaceName, "space", "s", "", "restrict to one space")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newAppsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get GUID",
		Short: "Show one application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			app, err := client.Applications().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderWith(app, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Name", app.Name)
				_ = table.Append("GUID", app.GUID)
				_ = table.Append("State", app.State)
				_ = table.Append("Lifecycle", app.Lifecycle.Type)
				_ = table.Append("Created", app.CreatedAt.Format(timeFormat))

				return table.Render()
			})
		},
	}

	return cmd
}

func newAppsStartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start GUID",
		Short: "Start an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			app, err := client.Applications().Start(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Application %s is %s\n", app.Name, app.State)

			return nil
		},
	}

	return cmd
}

func newAppsStopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop GUID",
		Short: "Stop an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			app, err := client.Applications().Stop(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Application %s is %s\n", app.Name, app.State)

			return nil
		},
	}

	return cmd
}

func newAppsEnvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env GUID",
		Short: "Show an application's environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			env, err := client.Applications().GetEnv(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderWith(env, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Variable", "Value")

				for name, value := range env.EnvironmentVariables {
					_ = table.Append(name, fmt.Sprintf("%v", value))
				}

				return table.Render()
			})
		},
	}

	return cmd
}

func newAppsDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete GUID",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.Applications().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Application %s deleted\n", args[0])

			return nil
		},
	}

	return cmd
}

// resolveSpace looks up a space by name, scoped to an organization when one
// is given.
func resolveSpace(ctx context.Context, client cf.Client, spaceName, orgName string) (*cf.Space, error) {
	if orgName != "" {
		return client.Spaces().FindByNameAndOrganization(ctx, spaceName, orgName)
	}

	spaces, err := client.Spaces().List(ctx, cf.NewQueryParams().WithFilter("names", spaceName))
	if err != nil {
		return nil, err
	}

	if len(spaces.Resources) == 0 {
		return nil, fmt.Errorf("%w: %s", cf.ErrSpaceNotFound, spaceName)
	}

	return &spaces.Resources[0], nil
}

func renderAppsTable(apps []cf.Application) error {
	if len(apps) == 0 {
		fmt.Println("No applications found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "GUID", "State", "Created")

	for _, app := range apps {
		_ = table.Append(app.Name, app.GUID, app.State, app.CreatedAt.Format(timeFormat))
	}

	return table.Render()
}
