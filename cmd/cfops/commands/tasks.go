package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rvazquezglez/clouddriver/internal/constants"
	"github.com/rvazquezglez/clouddriver/pkg/cf"
)

// NewTasksCommand creates the tasks command group.
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage one-off tasks",
	}

	cmd.AddCommand(newTasksListCommand())
	cmd.AddCommand(newTasksGetCommand())
	cmd.AddCommand(newTasksRunCommand())
	cmd.AddCommand(newTasksCancelCommand())

	return cmd
}

func newTasksListCommand() *cobra.Command {
	var (
		appGUID string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			params := cf.NewQueryParams().WithPerPage(perPage)

			if appGUID != "" {
				params = params.WithFilter("app_guids", appGUID)
			}

			tasks, err := client.Tasks().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			return renderWith(tasks.Resources, func() error {
				return renderTasksTable(tasks.Resources)
			})
		},
	}

	cmd.Flags().StringVar(&appGUID, "app", "", "restrict to one application GUID")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func newTasksGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get GUID",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			task, err := client.Tasks().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return renderWith(task, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Name", task.Name)
				_ = table.Append("GUID", task.GUID)
				_ = table.Append("State", task.State)
				_ = table.Append("Command", task.Command)
				_ = table.Append("Memory (MB)", fmt.Sprintf("%d", task.MemoryInMB))
				_ = table.Append("Disk (MB)", fmt.Sprintf("%d", task.DiskInMB))

				if task.Result.FailureReason != nil {
					_ = table.Append("Failure Reason", *task.Result.FailureReason)
				}

				_ = table.Append("Created", task.CreatedAt.Format(timeFormat))

				return table.Render()
			})
		},
	}

	return cmd
}

func newTasksRunCommand() *cobra.Command {
	var (
		name     string
		memoryMB int
		diskMB   int
	)

	cmd := &cobra.Command{
		Use:   "run APP_GUID COMMAND",
		Short: "Run a one-off command against an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			request := &cf.TaskCreateRequest{Command: args[1]}

			if name != "" {
				request.Name = &name
			}

			if memoryMB > 0 {
				request.MemoryInMB = &memoryMB
			}

			if diskMB > 0 {
				request.DiskInMB = &diskMB
			}

			task, err := client.Tasks().Create(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			fmt.Printf("Task %s is %s (%s)\n", task.Name, task.State, task.GUID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "task name")
	cmd.Flags().IntVar(&memoryMB, "memory", 0, "memory limit in MB")
	cmd.Flags().IntVar(&diskMB, "disk", 0, "disk limit in MB")

	return cmd
}

func newTasksCancelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel GUID",
		Short: "Cancel a running task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			task, err := client.Tasks().Cancel(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("canceling task: %w", err)
			}

			fmt.Printf("Task %s is %s\n", task.GUID, task.State)

			return nil
		},
	}

	return cmd
}

func renderTasksTable(tasks []cf.Task) error {
	if len(tasks) == 0 {
		fmt.Println("No tasks found")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "GUID", "State", "Command", "Created")

	for _, task := range tasks {
		_ = table.Append(task.Name, task.GUID, task.State, task.Command, task.CreatedAt.Format(timeFormat))
	}

	return table.Render()
}
