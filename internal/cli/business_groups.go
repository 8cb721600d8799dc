package cli

import (
	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/pkg/client"
)

func newBusinessGroupsCmd(app *App) *cobra.Command {
	var (
		name   string
		user   string
		role   string
		expand bool
	)

	cmd := &cobra.Command{
		Use:     "business-groups",
		Aliases: []string{"bg"},
		Short:   "List business groups",
		Long: `List the business groups of the tenant.

With --name only groups whose name contains the value are shown. With --user
the groups in which that principal holds --role are listed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}

			var groups []client.BusinessGroup
			switch {
			case user != "":
				groups, err = s.BusinessGroupsByUser(ctx, user, role, expand)
			case name != "":
				groups, err = s.BusinessGroupsByName(ctx, name)
			default:
				groups, err = s.BusinessGroups(ctx)
			}
			if err != nil {
				return err
			}
			return app.print(groupList(groups))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by name (case-insensitive substring)")
	cmd.Flags().StringVar(&user, "user", "", "list the groups of this principal (user@domain)")
	cmd.Flags().StringVar(&role, "role", client.RoleBasicUser, "role held by --user")
	cmd.Flags().BoolVar(&expand, "expand", false, "include groups reached through group membership")
	return cmd
}
