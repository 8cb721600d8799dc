package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/internal/patch"
	"github.com/usestring/vra-mcp/pkg/client"
)

type requestItemOptions struct {
	group       string
	item        string
	reasons     string
	description string
	params      string
	wait        bool
	interval    time.Duration
	dryRun      bool
}

func newRequestItemCmd(app *App) *cobra.Command {
	var opts requestItemOptions

	cmd := &cobra.Command{
		Use:   "request-item",
		Short: "Request a catalog item",
		Long: `Request a catalog item on behalf of a business group.

The item's request template is fetched, the description and reasons are set,
and the values of --params (JSON or YAML) are merged over it. Only keys that
exist in the template are applied; unknown keys are reported and ignored.

Examples:
  vra request-item -b Development -c "CentOS 7" -r "load test"
  vra request-item -b Development -c centos -r test -p sizing.yaml --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.requestItem(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.group, "business-group", "b", "", "business group name")
	f.StringVarP(&opts.item, "catalog-item", "c", "", "catalog item name or id")
	f.StringVarP(&opts.reasons, "reasons", "r", "", "reasons for the request")
	f.StringVarP(&opts.description, "description", "d", "", "request description")
	f.StringVarP(&opts.params, "params", "p", "", "JSON or YAML file merged over the request template")
	f.BoolVar(&opts.wait, "wait", true, "wait for the request to finish")
	f.DurationVar(&opts.interval, "interval", 5*time.Second, "poll interval while waiting")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the request body instead of submitting it")
	_ = cmd.MarkFlagRequired("business-group")
	_ = cmd.MarkFlagRequired("catalog-item")
	_ = cmd.MarkFlagRequired("reasons")
	return cmd
}

func (a *App) requestItem(ctx context.Context, opts *requestItemOptions) error {
	s, err := a.Session(ctx)
	if err != nil {
		return err
	}

	bg, err := s.BusinessGroupByName(ctx, opts.group)
	if err != nil {
		return err
	}
	item, err := resolveCatalogItem(ctx, s, opts.item)
	if err != nil {
		return err
	}
	if !item.EntitledTo(bg.ID) {
		slog.Warn("catalog item is not entitled to the business group",
			slog.String("catalog_item", item.Name()),
			slog.String("business_group", bg.Name),
		)
	}

	tmpl, err := buildRequest(ctx, s, item.ID(), bg.ID, opts)
	if err != nil {
		return err
	}

	if opts.dryRun {
		return a.print(templateView{tmpl})
	}

	req, err := s.RequestCatalogItem(ctx, item.ID(), tmpl)
	if err != nil {
		return err
	}
	a.status("submitted request %d (%s) for %s", req.RequestNumber, req.ID, item.Name())

	if opts.wait {
		final, err := a.waitForRequest(ctx, s, req.ID, opts.interval)
		if final != nil {
			req = final
		}
		if err != nil {
			var failed *client.RequestFailedError
			if errors.As(err, &failed) {
				_ = a.print(requestView(*req))
			}
			return err
		}
	}
	return a.print(requestView(*req))
}

// buildRequest fetches the item's template and applies the command options.
func buildRequest(ctx context.Context, s *client.Session, itemID, groupID string, opts *requestItemOptions) (*client.RequestTemplate, error) {
	tmpl, err := s.RequestTemplate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	tmpl.BusinessGroupID = groupID
	tmpl.SetReasons(opts.reasons)
	if opts.description != "" {
		tmpl.SetDescription(opts.description)
	}

	if opts.params == "" {
		return tmpl, nil
	}

	params, err := patch.LoadParams(opts.params)
	if err != nil {
		return nil, err
	}
	m, err := tmpl.ToMap()
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	if ignored := patch.Merge(m, params); len(ignored) > 0 {
		slog.Warn("parameters not present in the request template were ignored",
			slog.Any("keys", ignored),
		)
	}
	return client.RequestTemplateFromMap(m)
}
