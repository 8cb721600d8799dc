package cli

import (
	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/pkg/client"
)

func newRolesCmd(app *App) *cobra.Command {
	var (
		tenant    string
		principal string
	)

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List authorization roles",
		Long: `List the roles defined in a tenant, or with --principal the roles assigned
to one user or group.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}

			var roles []client.Role
			if principal != "" {
				roles, err = s.PrincipalRoles(ctx, tenant, principal)
			} else {
				roles, err = s.Roles(ctx, tenant)
			}
			if err != nil {
				return err
			}
			return app.print(roleList(roles))
		},
	}

	// Named --in-tenant so it does not shadow the global --tenant used to log in.
	cmd.Flags().StringVar(&tenant, "in-tenant", "", "tenant whose roles are listed (default: login tenant)")
	cmd.Flags().StringVar(&principal, "principal", "", "list the roles of this principal (user@domain)")
	return cmd
}
