package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/pkg/client"
)

// isID reports whether arg looks like a vRA entity id rather than a name.
func isID(arg string) bool {
	_, err := uuid.Parse(arg)
	return err == nil
}

// resolveCatalogItem accepts a catalog item id or a (partial) name.
func resolveCatalogItem(ctx context.Context, s *client.Session, arg string) (*client.EntitledCatalogItem, error) {
	if isID(arg) {
		return s.CatalogItem(ctx, arg)
	}
	return s.CatalogItemByName(ctx, arg)
}

func newCatalogCmd(app *App) *cobra.Command {
	var (
		name    string
		service string
		group   string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List entitled catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}

			filter := &client.CatalogFilter{ServiceID: service}
			if group != "" {
				bg, err := s.BusinessGroupByName(ctx, group)
				if err != nil {
					return err
				}
				filter.SubtenantID = bg.ID
			}

			items, err := s.EntitledCatalogItems(ctx, filter)
			if err != nil {
				return err
			}
			if name != "" {
				items, err = s.FindCatalogItems(ctx, name, items)
				if err != nil {
					return err
				}
			}
			return app.print(catalogList(items))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by name (case-insensitive substring)")
	cmd.Flags().StringVar(&service, "service", "", "restrict to a catalog service id")
	cmd.Flags().StringVarP(&group, "business-group", "b", "", "restrict to the items entitled to a business group")

	cmd.AddCommand(newCatalogTemplateCmd(app))
	return cmd
}

func newCatalogTemplateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "template <name|id>",
		Short: "Show the request template of a catalog item",
		Long: `Show the request template of a catalog item.

The JSON printed here is what request-item submits. Save it, edit the values
you need and pass it back with request-item --params.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			item, err := resolveCatalogItem(ctx, s, args[0])
			if err != nil {
				return err
			}
			tmpl, err := s.RequestTemplate(ctx, item.ID())
			if err != nil {
				return err
			}
			return app.print(templateView{tmpl})
		},
	}
}
