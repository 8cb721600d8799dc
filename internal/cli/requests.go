package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/pkg/client"
)

func newRequestsCmd(app *App) *cobra.Command {
	var (
		wait     bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "requests [id]",
		Short: "List catalog requests or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				reqs, err := s.Requests(ctx)
				if err != nil {
					return err
				}
				return app.print(requestList(reqs))
			}

			var req *client.CatalogRequest
			if wait {
				req, err = app.waitForRequest(ctx, s, args[0], interval)
			} else {
				req, err = s.Request(ctx, args[0])
			}
			if req != nil {
				if perr := app.print(requestView(*req)); perr != nil && err == nil {
					err = perr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "poll the request until it finishes")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default REQUEST_POLL_INTERVAL_MS)")
	return cmd
}

// waitForRequest polls a request, reporting state changes on stderr. The wait
// is bounded by the configured request wait timeout.
func (a *App) waitForRequest(ctx context.Context, s *client.Session, id string, interval time.Duration) (*client.CatalogRequest, error) {
	if interval <= 0 {
		interval = a.cfg.RequestPollInterval
	}
	if a.cfg.RequestWaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.RequestWaitTimeout)
		defer cancel()
	}

	var last string
	return s.WaitForRequest(ctx, id, interval, func(r *client.CatalogRequest) {
		state := r.State + "/" + r.Phase
		if state == last {
			return
		}
		last = state
		a.status("request %d: %s (%s)", r.RequestNumber, r.State, r.Phase)
	})
}
