package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/usestring/vra-mcp/pkg/client"
)

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize business groups, catalog, resources and requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			sum, err := buildSummary(ctx, s)
			if err != nil {
				return err
			}
			return app.print(sum)
		},
	}
}

// buildSummary fetches the four collections concurrently on one session.
func buildSummary(ctx context.Context, s *client.Session) (*summary, error) {
	var (
		groups    []client.BusinessGroup
		catalog   []client.EntitledCatalogItem
		resources []client.ConsumerResource
		requests  []client.CatalogRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		groups, err = s.BusinessGroups(gctx)
		return err
	})
	g.Go(func() (err error) {
		catalog, err = s.EntitledCatalogItems(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		resources, err = s.ProvisionedItems(gctx)
		return err
	})
	g.Go(func() (err error) {
		requests, err = s.Requests(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &summary{
		Host:              s.Host(),
		Tenant:            s.Tenant(),
		BusinessGroups:    len(groups),
		CatalogItems:      len(catalog),
		Resources:         len(resources),
		ResourcesByStatus: make(map[string]int),
		Requests:          len(requests),
		RequestsByState:   make(map[string]int),
	}
	for _, r := range resources {
		status := r.Status
		if status == "" {
			status = "UNKNOWN"
		}
		sum.ResourcesByStatus[status]++
	}
	for _, r := range requests {
		sum.RequestsByState[r.State]++
	}
	return sum, nil
}
