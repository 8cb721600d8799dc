package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/pkg/client"
)

// loadDeployment accepts a provisioned item id or a (partial) name.
func loadDeployment(ctx context.Context, s *client.Session, arg string) (*client.Deployment, error) {
	id := arg
	if !isID(arg) {
		res, err := s.ProvisionedItemByName(ctx, arg)
		if err != nil {
			return nil, err
		}
		id = res.ID
	}
	return client.LoadDeployment(ctx, s, id)
}

func newResourcesCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"items"},
		Short:   "List provisioned items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}

			var items []client.ConsumerResource
			if name != "" {
				items, err = s.ProvisionedItemsByName(ctx, name)
			} else {
				items, err = s.ProvisionedItems(ctx)
			}
			if err != nil {
				return err
			}
			return app.print(resourceList(items))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "filter by name (case-insensitive substring)")

	cmd.AddCommand(
		newResourceShowCmd(app),
		newPowerCmd(app, "power-on", "Power on a machine or every machine of a deployment", (*client.Deployment).PowerOn),
		newPowerCmd(app, "power-off", "Power off a machine or every machine of a deployment", (*client.Deployment).PowerOff),
		newPowerCmd(app, "reboot", "Reboot a machine or every machine of a deployment", (*client.Deployment).Reboot),
		newScaleOutCmd(app),
	)
	return cmd
}

func newResourceShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|id>",
		Short: "Show a provisioned item and its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			d, err := loadDeployment(ctx, s, args[0])
			if err != nil {
				return err
			}
			return app.print(deploymentView{d})
		},
	}
}

// machines returns d itself when it is a virtual machine, otherwise every
// virtual machine below it.
func machines(d *client.Deployment) []*client.Deployment {
	var vms []*client.Deployment
	d.Walk(func(_ int, n *client.Deployment) {
		if n.IsVirtualMachine() {
			vms = append(vms, n)
		}
	})
	return vms
}

func newPowerCmd(app *App, use, short string, action func(*client.Deployment, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name|id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			d, err := loadDeployment(ctx, s, args[0])
			if err != nil {
				return err
			}

			vms := machines(d)
			if len(vms) == 0 {
				return fmt.Errorf("%s: %q contains no virtual machine", use, d.Resource.Name)
			}

			var errs []error
			for _, vm := range vms {
				if err := action(vm, ctx); err != nil {
					errs = append(errs, err)
					continue
				}
				app.status("%s submitted for %s", use, vm.Resource.Name)
			}
			return errors.Join(errs...)
		},
	}
}

func newScaleOutCmd(app *App) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "scale-out <name|id>",
		Short: "Set the number of machines of a deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			d, err := loadDeployment(ctx, s, args[0])
			if err != nil {
				return err
			}
			if err := d.ScaleOut(ctx, count); err != nil {
				return err
			}
			app.status("scale out to %d submitted for %s", count, d.Resource.Name)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "new number of machines per component")
	_ = cmd.MarkFlagRequired("count")
	return cmd
}
