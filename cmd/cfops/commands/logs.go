package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewLogsCommand creates the logs command.
func NewLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs APP_GUID",
		Short: "Show an application's recent logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context())
			if err != nil {
				return err
			}

			envelopes, err := client.Logs().RecentLogs(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching recent logs: %w", err)
			}

			return renderWith(envelopes, func() error {
				if len(envelopes) == 0 {
					fmt.Println("No log envelopes found")

					return nil
				}

				for _, envelope := range envelopes {
					stream := envelope.MessageType
					if stream == "" {
						stream = "OUT"
					}

					fmt.Printf("%s [%s/%s] %s %s\n",
						envelope.Timestamp.Format(timeFormat),
						envelope.SourceType,
						envelope.InstanceID,
						stream,
						strings.TrimRight(envelope.Message, "\n"),
					)
				}

				return nil
			})
		},
	}

	return cmd
}
