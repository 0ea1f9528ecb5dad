package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// NewServicesCommand creates the services command group covering service
// instances and their key bindings.
func NewServicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service"},
		Short:   "Manage service instances and keys",
	}

	cmd.AddCommand(newServicesListCommand())
	cmd.AddCommand(newServicesGetCommand())
	cmd.AddCommand(newServicesDeleteCommand())
	cmd.AddCommand(newServiceKeysCommand())

	return cmd
}

func newServicesListCommand() *cobra.Command {
	var (
		orgName   string
		spaceName string
		perPage   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List service instances",
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

			instances, err := client.ServiceInstances().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("listing service instances: %w", err)
			}

			return renderWith(instances.Resources, func() error {
				return renderServiceInstancesTable(instances.Resources)
			})
		},
	}

	cmd.Flags().StringVarP(&orgName, "org", "o", "", "organization holding the space")
	cmd.Flags().StringVarP(&spaceName, "space", "s", "", "restrict to one space")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newServicesGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get GUID",
		Short: "Show one service instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			instance, err := client.ServiceInstances().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderWith(instance, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Name", instance.Name)
				_ = table.Append("GUID", instance.GUID)
				_ = table.Append("Type", instance.Type)
				_ = table.Append("Last Operation", fmt.Sprintf("%s %s", instance.LastOperation.Type, instance.LastOperation.State))
				_ = table.Append("Created", instance.CreatedAt.Format(timeFormat))

				return table.Render()
			})
		},
	}

	return cmd
}

func newServicesDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete GUID",
		Short: "Delete a service instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.ServiceInstances().Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting service instance: %w", err)
			}

			fmt.Printf("Service instance %s deleted\n", args[0])

			return nil
		},
	}

	return cmd
}

func newServiceKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage service keys",
	}

	cmd.AddCommand(newServiceKeysListCommand())
	cmd.AddCommand(newServiceKeysDetailsCommand())
	cmd.AddCommand(newServiceKeysCreateCommand())
	cmd.AddCommand(newServiceKeysDeleteCommand())

	return cmd
}

func newServiceKeysListCommand() *cobra.Command {
	var (
		instanceGUID string
		perPage      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List service keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			params := cf.NewQueryParams().WithPerPage(perPage)

			if instanceGUID != "" {
				params = params.WithFilter("service_instance_guids", instanceGUID)
			}

			keys, err := client.ServiceKeys().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("listing service keys: %w", err)
			}

			return renderWith(keys.Resources, func() error {
				return renderServiceKeysTable(keys.Resources)
			})
		},
	}

	cmd.Flags().StringVar(&instanceGUID, "instance", "", "restrict to one service instance GUID")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newServiceKeysDetailsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "details GUID",
		Short: "Show a service key's credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			details, err := client.ServiceKeys().GetDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderWith(details, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Credential", "Value")

				for name, value := range details.Credentials {
					_ = table.Append(name, fmt.Sprintf("%v", value))
				}

				return table.Render()
			})
		},
	}

	return cmd
}

func newServiceKeysCreateCommand() *cobra.Command {
	var instanceGUID string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a service key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if instanceGUID == "" {
				return fmt.Errorf("the --instance flag is required")
			}

			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			key, err := client.ServiceKeys().Create(cmd.Context(), &cf.ServiceKeyCreateRequest{
				Name: args[0],
				Relationships: cf.ServiceKeyRelationships{
					ServiceInstance: cf.Relationship{Data: &cf.RelationshipData{GUID: instanceGUID}},
				},
			})
			if err != nil {
				return fmt.Errorf("creating service key: %w", err)
			}

			fmt.Printf("Service key %s created (%s)\n", key.Name, key.GUID)

			return nil
		},
	}

	cmd.Flags().StringVar(&instanceGUID, "instance", "", "service instance GUID to bind (required)")

	return cmd
}

func newServiceKeysDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete GUID",
		Short: "Delete a service key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.ServiceKeys().Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting service key: %w", err)
			}

			fmt.Printf("Service key %s deleted\n", args[0])

			return nil
		},
	}

	return cmd
}

func renderServiceInstancesTable(instances []cf.ServiceInstance) error {
	if len(instances) == 0 {
		fmt.Println("No service instances found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "GUID", "Type", "State", "Created")

	for _, instance := range instances {
		_ = table.Append(
			instance.Name,
			instance.GUID,
			instance.Type,
			instance.LastOperation.State,
			instance.CreatedAt.Format(timeFormat),
		)
	}

	return table.Render()
}

func renderServiceKeysTable(keys []cf.ServiceKey) error {
	if len(keys) == 0 {
		fmt.Println("No service keys found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "GUID", "Service Instance", "Created")

	for _, key := range keys {
		instanceGUID := ""
		if key.Relationships.ServiceInstance.Data != nil {
			instanceGUID = key.Relationships.ServiceInstance.Data.GUID
		}

		_ = table.Append(key.Name, key.GUID, instanceGUID, key.CreatedAt.Format(timeFormat))
	}

	return table.Render()
}
