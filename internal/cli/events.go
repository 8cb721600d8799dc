package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/pkg/client"
)

func newEventsCmd(app *App) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List event broker events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			events, err := s.EventBrokerEvents(ctx)
			if err != nil {
				return err
			}
			if topic != "" {
				filtered := make([]client.Event, 0, len(events))
				for _, e := range events {
					if strings.EqualFold(e.TopicID, topic) {
						filtered = append(filtered, e)
					}
				}
				events = filtered
			}
			return app.print(eventList(events))
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "only show events of this topic id")
	return cmd
}
