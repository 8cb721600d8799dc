package client

import (
	"context"
	"fmt"
)

// EventBrokerEvents lists the events recorded by the event broker.
func (s *Session) EventBrokerEvents(ctx context.Context) ([]Event, error) {
	events, err := collect[Event](ctx, s, "/event-broker-service/api/events", nil)
	if err != nil {
		return nil, fmt.Errorf("listing event broker events: %w", err)
	}
	return events, nil
}
